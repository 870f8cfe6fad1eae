package activation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		algorithm Algorithm
		want      *Analysis
	}{
		{
			name:      "known example",
			input:     "682bfe",
			algorithm: AlgorithmTernary,
			want: &Analysis{
				Code:       Code{Suffix: "682BFE", Digits: "2322231", Algorithm: AlgorithmTernary, Known: true},
				Confidence: ConfidenceHigh,
				Method:     MethodKnownExample,
				Details:    []string{"verified example"},
			},
		},
		{
			name:      "close to a known example",
			input:     "682BF0",
			algorithm: AlgorithmTernary,
			want: &Analysis{
				Code:       Code{Suffix: "682BF0", Digits: "1333113", Algorithm: AlgorithmTernary},
				Confidence: ConfidenceMedium,
				Method:     MethodPatternBased,
				Details: []string{
					"guessed from per-position patterns",
					"matches 682BFE in 5/6 positions",
				},
			},
		},
		{
			name:      "unrelated suffix",
			input:     "123456",
			algorithm: AlgorithmTernary,
			want: &Analysis{
				Code:       Code{Suffix: "123456", Digits: "2112311", Algorithm: AlgorithmTernary},
				Confidence: ConfidenceMedium,
				Method:     MethodPatternBased,
				Details:    []string{"guessed from per-position patterns"},
			},
		},
		{
			name:      "modulo",
			input:     "123456",
			algorithm: AlgorithmModulo,
			want: &Analysis{
				Code:       Code{Suffix: "123456", Digits: "1193046", Algorithm: AlgorithmModulo},
				Confidence: ConfidenceLow,
				Method:     MethodModulo,
				Details:    []string{"decimal code from the first firmware analysis, superseded by the ternary button code"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Default().Analyze(tt.input, tt.algorithm)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Analyze(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestAnalyzeInvalidInput(t *testing.T) {
	_, err := Default().Analyze("XYZ", AlgorithmTernary)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestKeys(t *testing.T) {
	keys, err := Keys("2322231")
	require.NoError(t, err)
	require.Len(t, keys, CodeLength)
	assert.Equal(t, uint16(0xE101), keys[0].Code)
	assert.Equal(t, uint16(0xE100), keys[1].Code)
	assert.Equal(t, uint16(0xE102), keys[6].Code)
	assert.Equal(t, "key 3 (0xE100)", keys[1].String())

	_, err = Keys("1193046")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestStatusHasOpenItem(t *testing.T) {
	open := 0
	for _, f := range Status() {
		if !f.Confirmed {
			open++
		}
	}
	assert.Equal(t, 1, open)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openeink/eink-activate/pkg/activation"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.Verbose)
				assert.Equal(t, "ternary", cfg.Algorithm)
				assert.Empty(t, cfg.KnownFile)
				assert.Equal(t, 10*time.Second, cfg.ScanTimeout)
				assert.Empty(t, cfg.NamePrefix)
			},
		},
		{
			name: "overrides",
			env: map[string]string{
				"EINK_VERBOSE":      "true",
				"EINK_ALGORITHM":    "modulo",
				"EINK_KNOWN_FILE":   "/tmp/known.yaml",
				"EINK_SCAN_TIMEOUT": "3s",
				"EINK_NAME_PREFIX":  "HM213",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Verbose)
				assert.Equal(t, "modulo", cfg.Algorithm)
				assert.Equal(t, "/tmp/known.yaml", cfg.KnownFile)
				assert.Equal(t, 3*time.Second, cfg.ScanTimeout)
				assert.Equal(t, "HM213", cfg.NamePrefix)
			},
		},
		{
			name:    "bad duration",
			env:     map[string]string{"EINK_SCAN_TIMEOUT": "soon"},
			wantErr: true,
		},
		{
			name:    "bad bool",
			env:     map[string]string{"EINK_VERBOSE": "maybe"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"EINK_VERBOSE", "EINK_ALGORITHM", "EINK_KNOWN_FILE", "EINK_SCAN_TIMEOUT", "EINK_NAME_PREFIX"} {
				t.Setenv(key, "")
				os.Unsetenv(key)
			}
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestParsedAlgorithm(t *testing.T) {
	cfg := &Config{Algorithm: "v1"}
	alg, err := cfg.ParsedAlgorithm()
	require.NoError(t, err)
	assert.Equal(t, activation.AlgorithmModulo, alg)

	cfg.Algorithm = "guess"
	_, err = cfg.ParsedAlgorithm()
	assert.ErrorIs(t, err, activation.ErrUnknownAlgorithm)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "known.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadKnownExamples(t *testing.T) {
	path := writeFile(t, `
examples:
  - suffix: "12:34:56"
    code: "3213213"
    note: verified on badge #4
  - suffix: 67A78C
    code: "1331222"
`)
	examples, err := LoadKnownExamples(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"12:34:56": "3213213", "67A78C": "1331222"}, examples)
}

func TestLoadKnownExamplesErrors(t *testing.T) {
	_, err := LoadKnownExamples(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadKnownExamples(writeFile(t, "examples: [oops"))
	assert.ErrorIs(t, err, ErrKnownFile)

	_, err = LoadKnownExamples(writeFile(t, "examples:\n  - suffix: \"123456\"\n"))
	assert.ErrorIs(t, err, ErrKnownFile)

	_, err = LoadKnownExamples(writeFile(t, `
examples:
  - {suffix: "123456", code: "1111111"}
  - {suffix: "123456", code: "2222222"}
`))
	assert.ErrorIs(t, err, ErrKnownFile)
}

func TestNewDeriver(t *testing.T) {
	cfg := &Config{}
	d, err := cfg.NewDeriver()
	require.NoError(t, err)
	assert.Equal(t, []string{"67A78C", "682BFE"}, d.KnownExamples())

	cfg.KnownFile = writeFile(t, "examples:\n  - {suffix: \"123456\", code: \"3213213\"}\n")
	d, err = cfg.NewDeriver()
	require.NoError(t, err)
	assert.Equal(t, "3213213", d.Generate("123456", activation.AlgorithmTernary))

	cfg.KnownFile = writeFile(t, "examples:\n  - {suffix: \"682BFE\", code: \"1111111\"}\n")
	_, err = cfg.NewDeriver()
	assert.ErrorIs(t, err, activation.ErrConflict)
}

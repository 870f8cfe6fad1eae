package activation

import "fmt"

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type Method string

const (
	MethodKnownExample Method = "known_example"
	MethodPatternBased Method = "pattern_based"
	MethodModulo       Method = "modulo"
)

// similarityThreshold is the number of matching positions at which a known example is worth
// mentioning next to a guessed code.
const similarityThreshold = 3

// Analysis explains how much a derived code can be trusted.
type Analysis struct {
	Code       Code
	Confidence Confidence
	Method     Method
	Details    []string
}

// Analyze derives the code for raw and reports where it came from.
func (d *Deriver) Analyze(raw string, algorithm Algorithm) (*Analysis, error) {
	code, err := d.Derive(raw, algorithm)
	if err != nil {
		return nil, err
	}
	a := &Analysis{Code: code}
	switch {
	case algorithm == AlgorithmModulo:
		a.Confidence = ConfidenceLow
		a.Method = MethodModulo
		a.Details = append(a.Details, "decimal code from the first firmware analysis, superseded by the ternary button code")
	case code.Known:
		a.Confidence = ConfidenceHigh
		a.Method = MethodKnownExample
		a.Details = append(a.Details, "verified example")
	default:
		a.Confidence = ConfidenceMedium
		a.Method = MethodPatternBased
		a.Details = append(a.Details, "guessed from per-position patterns")
		for _, known := range d.KnownExamples() {
			if n := matchingPositions(code.Suffix, known); n >= similarityThreshold {
				a.Details = append(a.Details, fmt.Sprintf("matches %s in %d/%d positions", known, n, SuffixLength))
			}
		}
	}
	return a, nil
}

func matchingPositions(a, b string) int {
	n := 0
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] == b[i] {
			n++
		}
	}
	return n
}

// Status lists what the firmware analysis has established so far. Entries that are still open
// have Confirmed set to false.
func Status() []Finding {
	return []Finding{
		{"codes are entered with three buttons, digits 1-3", true},
		{"button to digit mapping identified", true},
		{"position-dependent digit mapping identified", true},
		{"some positions follow arithmetic rules", true},
		{"complete algorithm needs more verified examples", false},
	}
}

type Finding struct {
	Description string
	Confirmed   bool
}

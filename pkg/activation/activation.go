// Package activation derives the activation code that unlocks an HM213 e-ink badge from the
// trailing six hex digits of its Bluetooth MAC address.
//
// Two derivations are known. The first firmware analysis suggested a plain modulo over the
// 24-bit suffix, producing a seven-digit decimal code. Later analysis found that the badge only
// has three buttons and that codes are entered in a ternary alphabet; the mapping for that
// alphabet is a per-position heuristic that matches the verified examples only through the
// exception table. Neither derivation is confirmed by the firmware vendor.
package activation

import (
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"unicode/utf8"
)

// CodeLength is the number of digits in every activation code.
const CodeLength = 7

// SuffixLength is the number of hex characters taken from the MAC address.
const SuffixLength = 6

var (
	ErrInvalidLength    = errors.New("MAC suffix must be exactly 6 hex characters")
	ErrInvalidHex       = errors.New("MAC suffix must only contain hex characters (0-9, A-F)")
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	ErrInvalidCode      = errors.New("activation code must be 7 digits from 1-3")
	ErrConflict         = errors.New("known example conflicts with a verified entry")
)

// Algorithm selects the derivation.
type Algorithm string

const (
	AlgorithmModulo  Algorithm = "modulo"  // First analysis: decimal code, suffix mod 10^7.
	AlgorithmTernary Algorithm = "ternary" // Later analysis: button code over {1,2,3}.
)

// Algorithms lists every supported algorithm in presentation order.
var Algorithms = []Algorithm{AlgorithmTernary, AlgorithmModulo}

// AlgorithmNames returns the supported algorithm names quoted and joined for help texts,
// e.g. 'ternary' or 'modulo'.
func AlgorithmNames() string {
	names := make([]string, len(Algorithms))
	for i, alg := range Algorithms {
		names[i] = "'" + string(alg) + "'"
	}
	return strings.Join(names, " or ")
}

// ParseAlgorithm accepts an algorithm name, ignoring case. The version aliases v1, v2 and v3 are
// accepted too.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "modulo", "v1", "1":
		return AlgorithmModulo, nil
	case "ternary", "v2", "v3", "2", "3":
		return AlgorithmTernary, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// Code is a derived activation code.
type Code struct {
	Suffix    string
	Digits    string
	Algorithm Algorithm
	// Known is true when Digits came from the table of verified examples.
	Known bool
}

func (c Code) String() string {
	return c.Digits
}

// Normalize strips whitespace and ':'/'-' separators from raw and upper-cases it. The result is
// exactly SuffixLength hex characters or an error.
func Normalize(raw string) (string, error) {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	cleaned = strings.NewReplacer(":", "", "-", "").Replace(cleaned)
	if n := utf8.RuneCountInString(cleaned); n != SuffixLength {
		return "", fmt.Errorf("%w: %q has %d characters", ErrInvalidLength, raw, n)
	}
	position := 0
	for _, r := range cleaned {
		if !((r >= '0' && r <= '9') || (r >= 'A' && r <= 'F')) {
			return "", fmt.Errorf("%w: %q at position %d", ErrInvalidHex, r, position)
		}
		position++
	}
	return cleaned, nil
}

// FromAddress returns the hex suffix of a full MAC address in any form accepted by
// net.ParseMAC.
func FromAddress(address string) (string, error) {
	mac, err := net.ParseMAC(strings.TrimSpace(address))
	if err != nil {
		return "", fmt.Errorf("invalid MAC address %q: %w", address, err)
	}
	if len(mac) < 3 {
		return "", fmt.Errorf("%w: %q is too short", ErrInvalidLength, address)
	}
	return fmt.Sprintf("%X", []byte(mac[len(mac)-3:])), nil
}

// builtinKnown holds the examples verified on real hardware.
var builtinKnown = map[string]string{
	"682BFE": "2322231",
	"67A78C": "1331222",
}

// Deriver derives activation codes. The zero value is not usable; call NewDeriver.
type Deriver struct {
	known map[string]string
}

// NewDeriver returns a Deriver that knows the built-in verified examples plus extra. Keys of
// extra are normalized like user input; values must be valid ternary codes. An extra entry
// that repeats a built-in suffix must agree with it.
func NewDeriver(extra map[string]string) (*Deriver, error) {
	d := &Deriver{known: make(map[string]string, len(builtinKnown)+len(extra))}
	for suffix, code := range builtinKnown {
		d.known[suffix] = code
	}
	for raw, code := range extra {
		suffix, err := Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("known example %q: %w", raw, err)
		}
		if err := checkTernary(code); err != nil {
			return nil, fmt.Errorf("known example %s: %w", suffix, err)
		}
		if existing, ok := d.known[suffix]; ok && existing != code {
			return nil, fmt.Errorf("%w: %s is %s, not %s", ErrConflict, suffix, existing, code)
		}
		d.known[suffix] = code
	}
	return d, nil
}

// KnownExamples returns the verified suffixes in sorted order.
func (d *Deriver) KnownExamples() []string {
	suffixes := make([]string, 0, len(d.known))
	for suffix := range d.known {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)
	return suffixes
}

// Lookup returns the verified code for suffix, if there is one.
func (d *Deriver) Lookup(suffix string) (string, bool) {
	code, ok := d.known[suffix]
	return code, ok
}

// Derive computes the activation code for raw using algorithm.
func (d *Deriver) Derive(raw string, algorithm Algorithm) (Code, error) {
	switch algorithm {
	case AlgorithmModulo:
		return Modulo(raw)
	case AlgorithmTernary:
		return d.Ternary(raw)
	}
	return Code{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
}

// Generate is Derive for display: it returns the code, or a readable error message when raw
// cannot be derived.
func (d *Deriver) Generate(raw string, algorithm Algorithm) string {
	code, err := d.Derive(raw, algorithm)
	if err != nil {
		return "error: " + err.Error()
	}
	return code.Digits
}

var defaultDeriver, _ = NewDeriver(nil)

// Default returns a Deriver that only knows the built-in verified examples.
func Default() *Deriver {
	return defaultDeriver
}

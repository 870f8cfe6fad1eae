package activation

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// Ternary derives the version 2 code. Verified suffixes return their stored code; every other
// suffix goes through a per-position mapping that has not been confirmed on hardware.
func (d *Deriver) Ternary(raw string) (Code, error) {
	suffix, err := Normalize(raw)
	if err != nil {
		return Code{}, err
	}
	if digits, ok := d.known[suffix]; ok {
		return Code{Suffix: suffix, Digits: digits, Algorithm: AlgorithmTernary, Known: true}, nil
	}
	return Code{Suffix: suffix, Digits: ternaryDigits(suffix), Algorithm: AlgorithmTernary}, nil
}

// ternaryDigits maps each nibble of a normalized suffix to a digit in 1-3 and appends a digit
// derived from the number of set bits in the whole suffix.
func ternaryDigits(suffix string) string {
	var sb strings.Builder
	sb.Grow(CodeLength)
	for i, r := range suffix {
		nibble, _ := strconv.ParseUint(string(r), 16, 8)
		sb.WriteByte(byte('0' + positionDigit(i, nibble)))
	}
	value, _ := strconv.ParseUint(suffix, 16, 32)
	sb.WriteByte(byte('0' + bits.OnesCount32(uint32(value))%3 + 1))
	return sb.String()
}

func positionDigit(position int, nibble uint64) uint64 {
	// The second position counts in thirds of the nibble range.
	if position == 1 {
		return min(nibble/3+1, 3)
	}
	return nibble%3 + 1
}

func checkTernary(code string) error {
	if len(code) != CodeLength {
		return fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	for _, r := range code {
		if r < '1' || r > '3' {
			return fmt.Errorf("%w: %q", ErrInvalidCode, code)
		}
	}
	return nil
}

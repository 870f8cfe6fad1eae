package activation

import (
	"encoding/hex"
	"fmt"

	"github.com/cronokirby/saferith"
)

var moduloBase = saferith.ModulusFromUint64(10_000_000)

// Modulo derives the version 1 code: the suffix read as a 24-bit integer, reduced modulo
// 10,000,000 and zero-padded to seven digits.
func Modulo(raw string) (Code, error) {
	suffix, err := Normalize(raw)
	if err != nil {
		return Code{}, err
	}
	b, err := hex.DecodeString(suffix)
	if err != nil {
		return Code{}, fmt.Errorf("%w: %s", ErrInvalidHex, err)
	}
	value := new(saferith.Nat).SetBytes(b)
	reduced := new(saferith.Nat).Mod(value, moduloBase)
	return Code{
		Suffix:    suffix,
		Digits:    fmt.Sprintf("%07d", reduced.Big().Uint64()),
		Algorithm: AlgorithmModulo,
	}, nil
}

// Package gameid generates sortable game identifiers: a UUIDv7 written as 26
// characters of lowercase Crockford base32.
package gameid

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded ID. 26 characters carry 130 bits; the top two are zero.
const Length = 26

// New returns a fresh ID. IDs created later sort after earlier ones at
// millisecond resolution.
func New() (string, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return Encode(u), nil
}

// Encode writes u as a 26-character ID.
func Encode(u uuid.UUID) string {
	out := make([]byte, Length)
	for i := range out {
		var v byte
		for b := 0; b < 5; b++ {
			v <<= 1
			if k := i*5 + b - 2; k >= 0 {
				v |= (u[k/8] >> (7 - k%8)) & 1
			}
		}
		out[i] = alphabet[v]
	}
	return string(out)
}

// Decode parses an ID back into its UUID.
func Decode(id string) (uuid.UUID, error) {
	var u uuid.UUID
	if err := Validate(id); err != nil {
		return u, err
	}
	for i := 0; i < Length; i++ {
		v := byte(strings.IndexByte(alphabet, id[i]))
		for b := 0; b < 5; b++ {
			k := i*5 + b - 2
			if k >= 0 && v&(0x10>>b) != 0 {
				u[k/8] |= 1 << (7 - k%8)
			}
		}
	}
	return u, nil
}

// Validate checks if a game ID is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}

	// The first character holds the two zero pad bits
	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}

	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}

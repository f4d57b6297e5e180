// Package gameid generates sortable identifiers for games: a UUIDv7 encoded
// as 26 characters of Crockford base32.
package gameid

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Generate creates a new game ID from crypto randomness.
func Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("failed to generate game id: " + err.Error())
	}
	return encodeBase32(id)
}

// GenerateFromReader creates a game ID whose random bits come from r, which
// lets tests and seeded simulations produce stable IDs.
func GenerateFromReader(r io.Reader) (string, error) {
	id, err := uuid.NewV7FromReader(r)
	if err != nil {
		return "", fmt.Errorf("generate game id: %w", err)
	}
	return encodeBase32(id), nil
}

// encodeBase32 writes the 128 UUID bits behind two zero bits, giving 130 bits
// or exactly 26 five-bit characters.
func encodeBase32(id uuid.UUID) string {
	var out [26]byte
	for i := range out {
		var v byte
		for b := 0; b < 5; b++ {
			bit := i*5 + b - 2
			v <<= 1
			if bit >= 0 && id[bit/8]&(0x80>>(bit%8)) != 0 {
				v |= 1
			}
		}
		out[i] = alphabet[v]
	}
	return string(out[:])
}

// Validate checks if a game ID is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("game ID must be exactly 26 characters, got %d", len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}
	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}

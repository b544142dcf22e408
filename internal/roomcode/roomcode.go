// Package roomcode generates the short codes players exchange out of band to
// pair a host and a guest.
package roomcode

import (
	"fmt"
	"strings"

	"github.com/qballcreative/plunder/internal/randutil"
)

// Alphabet excludes I, O, 0 and 1 so codes survive being read aloud.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Length is the number of characters in a code.
const Length = 8

// RandSource interface for dependency injection of randomness
type RandSource interface {
	IntN(n int) int
}

// Generator handles room code generation with configurable randomness
type Generator struct {
	randSource RandSource
}

// NewGenerator creates a new generator. A nil RandSource uses crypto/rand.
func NewGenerator(randSource RandSource) *Generator {
	if randSource == nil {
		randSource = randutil.NewSecure()
	}
	return &Generator{randSource: randSource}
}

// Generate creates a new room code using crypto/rand
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new room code using the generator's RandSource
func (g *Generator) Generate() string {
	var b strings.Builder
	b.Grow(Length)
	for i := 0; i < Length; i++ {
		b.WriteByte(Alphabet[g.randSource.IntN(len(Alphabet))])
	}
	return b.String()
}

// Normalize upper-cases a user-typed code and strips surrounding whitespace
// and separators.
func Normalize(code string) string {
	code = strings.TrimSpace(strings.ToUpper(code))
	return strings.NewReplacer("-", "", " ", "").Replace(code)
}

// Validate checks if a room code is valid
func Validate(code string) error {
	if len(code) != Length {
		return fmt.Errorf("room code must be exactly %d characters, got %d", Length, len(code))
	}

	for i, char := range code {
		if !strings.ContainsRune(Alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}

	return nil
}

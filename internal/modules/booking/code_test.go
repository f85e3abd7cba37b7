package booking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBookingCode_Shape(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := generateBookingCode()
		require.NoError(t, err)
		assert.Len(t, code, bookingCodeLength)
		for _, ch := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, ch), "unexpected character %q", ch)
		}
	}
}

func TestGenerateBookingCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := generateBookingCode()
		require.NoError(t, err)
		seen[code] = true
	}
	// collisions over 200 draws from a 32^8 space would be astonishing
	assert.Greater(t, len(seen), 195)
}

package token

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LengthAndEncoding(t *testing.T) {
	tok, err := New()
	require.NoError(t, err)
	assert.Len(t, tok, 96)
	_, err = hex.DecodeString(tok)
	assert.NoError(t, err)
}

func TestNew_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok, err := New()
		require.NoError(t, err)
		assert.False(t, seen[tok])
		seen[tok] = true
	}
}

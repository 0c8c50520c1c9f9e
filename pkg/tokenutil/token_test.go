package tokenutil

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	token, err := Generate()
	require.NoError(t, err)
	assert.Len(t, token, 64)

	_, err = hex.DecodeString(token)
	assert.NoError(t, err)

	other, err := Generate()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestTempPassword(t *testing.T) {
	pw, err := TempPassword()
	require.NoError(t, err)
	assert.Len(t, pw, 18)

	other, err := TempPassword()
	require.NoError(t, err)
	assert.NotEqual(t, pw, other)
}

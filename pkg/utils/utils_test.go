package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigest_KnownValue(t *testing.T) {
	// sha256("null")
	d, err := Digest(nil)
	require.NoError(t, err)
	assert.Equal(t, "74234e98afe7498fb5daf1f36ac2d78acc339464f950703b8c019892f982b90b", d)
}

func TestDigest_Stable(t *testing.T) {
	type params struct {
		A int     `json:"a"`
		B float64 `json:"b"`
	}
	d1, err := Digest(params{A: 1, B: 2.5})
	require.NoError(t, err)
	d2, err := Digest(params{A: 1, B: 2.5})
	require.NoError(t, err)
	d3, err := Digest(params{A: 2, B: 2.5})
	require.NoError(t, err)

	assert.Equal(t, d1, d2)
	assert.NotEqual(t, d1, d3)
	assert.Len(t, d1, 64)

	_, err = Digest(make(chan int))
	assert.Error(t, err)
}

func TestFNV32a(t *testing.T) {
	assert.Equal(t, uint32(0x811c9dc5), FNV32a(""))
	assert.Equal(t, uint32(0xe40c292c), FNV32a("a"))
}

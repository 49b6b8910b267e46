package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleProduct_UnaVariantePorTalla(t *testing.T) {
	reqs := catalog[0].requests()
	require.Len(t, reqs, len(clothingSizes))
	assert.Equal(t, "TSH123-XS", reqs[0].Code)
	assert.Equal(t, "XS", reqs[0].Size)
	assert.Equal(t, "19.99", reqs[0].Price.String())
	require.NotNil(t, reqs[0].MinStock)
	assert.Equal(t, 10, *reqs[0].MinStock)
}

func TestSampleProduct_SinTallas(t *testing.T) {
	reqs := catalog[3].requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "EARR123", reqs[0].Code)
	assert.Equal(t, "NOSIZE", reqs[0].Size)
}

func TestCatalogo_CodigosUnicos(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range catalog {
		for _, r := range p.requests() {
			assert.False(t, seen[r.Code], r.Code)
			seen[r.Code] = true
		}
	}
	assert.Len(t, seen, 5+5+8+1+1)
}

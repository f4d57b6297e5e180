package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.IntN(100), b.IntN(100))
	}
}

func TestSeed(t *testing.T) {
	assert.Equal(t, int64(7), Seed(7))
	assert.NotZero(t, Seed(0))
}

func TestSeeds(t *testing.T) {
	a := Seeds(1, 50)
	assert.Equal(t, a, Seeds(1, 50))
	assert.NotEqual(t, a, Seeds(2, 50))
	for _, s := range a {
		assert.NotZero(t, s)
	}
}

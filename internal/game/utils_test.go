package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsID(t *testing.T) {
	t.Parallel()

	ids := []string{"a", "b"}
	assert.True(t, containsID(ids, "b"))
	assert.False(t, containsID(ids, "c"))
	assert.False(t, containsID([]string{""}, ""))
}

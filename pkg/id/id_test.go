package id

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducesValidULIDs(t *testing.T) {
	t.Parallel()

	s := New()
	assert.Len(t, s, 26)
	_, err := ulid.ParseStrict(s)
	require.NoError(t, err)
}

func TestNewIsMonotonicAndUnique(t *testing.T) {
	t.Parallel()

	prev := New()
	for i := 0; i < 1000; i++ {
		next := New()
		assert.Greater(t, next, prev, "ids must sort by generation order")
		prev = next
	}
}

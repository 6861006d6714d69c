package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewIdempotencyTokenValue(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		value := NewIdempotencyTokenValue()

		parsed, err := uuid.Parse(value)
		assert.NoError(t, err)
		assert.Equal(t, uuid.Version(4), parsed.Version())

		_, dup := seen[value]
		assert.False(t, dup, "duplicate token: %s", value)
		seen[value] = struct{}{}
	}
}

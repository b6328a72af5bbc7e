package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateRequestID(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()

	assert.Len(t, a, 12)
	assert.NotEqual(t, a, b)
}

func TestUniqueUUIDs(t *testing.T) {
	x, y := uuid.New(), uuid.New()

	assert.Equal(t, []uuid.UUID{x, y}, UniqueUUIDs([]uuid.UUID{x, uuid.Nil, y, x, y}))
	assert.Empty(t, UniqueUUIDs(nil))
}

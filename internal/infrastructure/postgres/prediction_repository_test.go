package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPredictionRepository(t *testing.T) {
	t.Run("creates repository with nil pool", func(t *testing.T) {
		repo := NewPredictionRepository(nil)
		assert.NotNil(t, repo)
		assert.Nil(t, repo.pool)
	})
}

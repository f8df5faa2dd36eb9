package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	t.Run("derives page flags", func(t *testing.T) {
		p := NewPagination(2, 10, 25)
		assert.Equal(t, 2, p.Page)
		assert.Equal(t, 10, p.Limit)
		assert.Equal(t, int64(25), p.Total)
		assert.Equal(t, 3, p.TotalPages)
		assert.True(t, p.HasNext)
		assert.True(t, p.HasPrev)
	})

	t.Run("last page has no next", func(t *testing.T) {
		p := NewPagination(3, 10, 25)
		assert.False(t, p.HasNext)
		assert.True(t, p.HasPrev)
	})

	t.Run("clamps non-positive page and limit", func(t *testing.T) {
		p := NewPagination(0, 0, 5)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 1, p.Limit)
		assert.Equal(t, 5, p.TotalPages)
		assert.False(t, p.HasPrev)
	})

	t.Run("empty result set", func(t *testing.T) {
		p := NewPagination(1, 10, 0)
		assert.Equal(t, 0, p.TotalPages)
		assert.False(t, p.HasNext)
		assert.False(t, p.HasPrev)
	})
}

package series

import (
	"testing"

	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeries(t *testing.T) {
	t.Run("valid range", func(t *testing.T) {
		s, err := NewSeries("TRFR", "Transfers", "WH1", ObjectItemRequest, 10, 10000)
		require.NoError(t, err)
		assert.Equal(t, 10, s.NextNum)
		assert.Equal(t, 10000, s.EndNum)
	})

	t.Run("missing warehouse", func(t *testing.T) {
		_, err := NewSeries("TRFR", "Transfers", "", ObjectItemRequest, 1, 100)
		assert.Error(t, err)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := NewSeries("TRFR", "Transfers", "WH1", ObjectItemRequest, 100, 1)
		assert.Error(t, err)
	})
}

func TestAllocate(t *testing.T) {
	t.Run("returns pre-increment number and reference", func(t *testing.T) {
		s, err := NewSeries("TRFR", "Transfers", "WH1", ObjectItemRequest, 10, 10000)
		require.NoError(t, err)

		alloc, err := s.Allocate()
		require.NoError(t, err)
		assert.Equal(t, 10, alloc.Number)
		assert.Equal(t, "TRFR-REQT-10", alloc.Reference)
		assert.Equal(t, 11, s.NextNum)
	})

	t.Run("numbers are strictly increasing", func(t *testing.T) {
		s, err := NewSeries("SLS", "Sales", "WH1", ObjectSales, 1, 100)
		require.NoError(t, err)

		prev := -1
		for i := 0; i < 10; i++ {
			alloc, err := s.Allocate()
			require.NoError(t, err)
			assert.Greater(t, alloc.Number, prev)
			prev = alloc.Number
		}
	})

	t.Run("exhaustion leaves next_num unchanged on every retry", func(t *testing.T) {
		s, err := NewSeries("SLS", "Sales", "WH1", ObjectSales, 1, 2)
		require.NoError(t, err)

		_, err = s.Allocate()
		require.NoError(t, err)
		require.Equal(t, 2, s.NextNum)

		for i := 0; i < 3; i++ {
			_, err = s.Allocate()
			assert.ErrorIs(t, err, shared.ErrSeriesExhausted)
			assert.Equal(t, 2, s.NextNum)
		}
	})

	t.Run("remaining", func(t *testing.T) {
		s, err := NewSeries("SLS", "Sales", "WH1", ObjectSales, 1, 3)
		require.NoError(t, err)
		assert.Equal(t, 2, s.Remaining())

		_, err = s.Allocate()
		require.NoError(t, err)
		assert.Equal(t, 1, s.Remaining())

		_, err = s.Allocate()
		require.NoError(t, err)
		assert.Equal(t, 0, s.Remaining())
	})
}

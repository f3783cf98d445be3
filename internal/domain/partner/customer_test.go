package partner

import (
	"testing"

	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestCustomerBalance(t *testing.T) {
	c, err := NewCustomer("C001", "Corner Cafe")
	require.NoError(t, err)

	c.AddCharge(amt("135"))
	assert.True(t, c.Balance.Equal(amt("135")))

	c.ApplyPayment(amt("100"))
	assert.True(t, c.Balance.Equal(amt("35")))
}

func TestShortageAccount(t *testing.T) {
	c, err := NewCustomer("C900", "Inv Short - Main")
	require.NoError(t, err)
	assert.True(t, c.IsShortageAccount())

	normal, err := NewCustomer("C001", "Corner Cafe")
	require.NoError(t, err)
	assert.False(t, normal.IsShortageAccount())
}

func TestAdvancePayment(t *testing.T) {
	t.Run("draw and auto-close at zero", func(t *testing.T) {
		a, err := NewAdvancePayment("C001", "ADV-001", amt("500"), "alice")
		require.NoError(t, err)

		require.NoError(t, a.Draw(amt("200"), "alice"))
		assert.True(t, a.Balance.Equal(amt("300")))
		assert.Equal(t, InstrumentOpen, a.Status)

		require.NoError(t, a.Draw(amt("300"), "alice"))
		assert.True(t, a.Balance.IsZero())
		assert.Equal(t, InstrumentClosed, a.Status)
	})

	t.Run("overdraw rejected", func(t *testing.T) {
		a, err := NewAdvancePayment("C001", "ADV-002", amt("100"), "alice")
		require.NoError(t, err)
		assert.ErrorIs(t, a.Draw(amt("150"), "alice"), shared.ErrInsufficientBalance)
		assert.True(t, a.Balance.Equal(amt("100")))
	})

	t.Run("draw on closed instrument rejected", func(t *testing.T) {
		a, err := NewAdvancePayment("C001", "ADV-003", amt("100"), "alice")
		require.NoError(t, err)
		require.NoError(t, a.Draw(amt("100"), "alice"))
		assert.ErrorIs(t, a.Draw(amt("1"), "alice"), shared.ErrInvalidState)
	})

	t.Run("restore reopens", func(t *testing.T) {
		a, err := NewAdvancePayment("C001", "ADV-004", amt("100"), "alice")
		require.NoError(t, err)
		require.NoError(t, a.Draw(amt("100"), "alice"))
		require.NoError(t, a.Restore(amt("100"), "alice"))
		assert.Equal(t, InstrumentOpen, a.Status)
		assert.True(t, a.Balance.Equal(amt("100")))
	})

	t.Run("restore beyond amount rejected", func(t *testing.T) {
		a, err := NewAdvancePayment("C001", "ADV-005", amt("100"), "alice")
		require.NoError(t, err)
		assert.Error(t, a.Restore(amt("1"), "alice"))
	})
}

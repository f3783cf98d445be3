package trade

import (
	"testing"
	"time"

	"github.com/bakehouse/backend/internal/domain/document"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func newSales(t *testing.T) *Sales {
	t.Helper()
	s := &Sales{
		Header:        document.NewHeader("SLS", 1, "SLS-SLES-1", time.Now(), "cashier1"),
		WarehouseCode: "WH1",
		CustomerCode:  "C001",
	}
	return s
}

func TestNewSalesLine(t *testing.T) {
	salesID := uuid.New()

	t.Run("priced line", func(t *testing.T) {
		l, err := NewSalesLine(salesID, "BUN01", amt("4"), "PCS", amt("25"), false, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, l.LineTotal.Equal(amt("100")))
	})

	t.Run("free line is zero priced", func(t *testing.T) {
		l, err := NewSalesLine(salesID, "BUN01", amt("4"), "PCS", amt("25"), true, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, l.UnitPrice.IsZero())
		assert.True(t, l.LineTotal.IsZero())
	})

	t.Run("line discount", func(t *testing.T) {
		l, err := NewSalesLine(salesID, "BUN01", amt("4"), "PCS", amt("25"), false, amt("10"))
		require.NoError(t, err)
		assert.True(t, l.LineTotal.Equal(amt("90")))
	})

	t.Run("discount beyond gross rejected", func(t *testing.T) {
		_, err := NewSalesLine(salesID, "BUN01", amt("1"), "PCS", amt("25"), false, amt("30"))
		assert.Error(t, err)
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		_, err := NewSalesLine(salesID, "BUN01", decimal.Zero, "PCS", amt("25"), false, decimal.Zero)
		assert.Error(t, err)
	})
}

func TestComputeTotals(t *testing.T) {
	t.Run("two lines with header discount", func(t *testing.T) {
		s := newSales(t)
		l1, err := NewSalesLine(s.ID, "BUN01", amt("4"), "PCS", amt("25"), false, decimal.Zero)
		require.NoError(t, err)
		l2, err := NewSalesLine(s.ID, "LOAF1", amt("1"), "PCS", amt("50"), false, decimal.Zero)
		require.NoError(t, err)
		s.Lines = []SalesLine{*l1, *l2}
		s.DiscPrcnt = amt("10")

		require.NoError(t, s.ComputeTotals())
		assert.True(t, s.Gross.Equal(amt("150")), "gross %s", s.Gross)
		assert.True(t, s.DiscAmount.Equal(amt("15")))
		assert.True(t, s.DocTotal.Equal(amt("135")))
		assert.True(t, s.AmountDue.Equal(amt("135")))
	})

	t.Run("delivery fee and gift certificate", func(t *testing.T) {
		s := newSales(t)
		l, err := NewSalesLine(s.ID, "BUN01", amt("4"), "PCS", amt("25"), false, decimal.Zero)
		require.NoError(t, err)
		s.Lines = []SalesLine{*l}
		s.DeliveryFee = amt("20")
		s.GCAmount = amt("30")

		require.NoError(t, s.ComputeTotals())
		assert.True(t, s.DocTotal.Equal(amt("90")))
	})

	t.Run("negative total rejected", func(t *testing.T) {
		s := newSales(t)
		l, err := NewSalesLine(s.ID, "BUN01", amt("1"), "PCS", amt("25"), false, decimal.Zero)
		require.NoError(t, err)
		s.Lines = []SalesLine{*l}
		s.GCAmount = amt("100")
		assert.Error(t, s.ComputeTotals())
	})

	t.Run("discount percent out of range", func(t *testing.T) {
		s := newSales(t)
		s.DiscPrcnt = amt("101")
		assert.Error(t, s.ComputeTotals())
	})
}

func TestSetTender(t *testing.T) {
	s := newSales(t)
	l, err := NewSalesLine(s.ID, "BUN01", amt("4"), "PCS", amt("25"), false, decimal.Zero)
	require.NoError(t, err)
	s.Lines = []SalesLine{*l}
	require.NoError(t, s.ComputeTotals())

	require.NoError(t, s.SetTender(amt("150")))
	assert.True(t, s.Change.Equal(amt("50")))

	require.NoError(t, s.SetTender(amt("80")))
	assert.True(t, s.Change.IsZero())
}

func TestApplyPayment(t *testing.T) {
	setup := func(t *testing.T) *Sales {
		s := newSales(t)
		l, err := NewSalesLine(s.ID, "BUN01", amt("4"), "PCS", amt("25"), false, decimal.Zero)
		require.NoError(t, err)
		s.Lines = []SalesLine{*l}
		require.NoError(t, s.ComputeTotals())
		return s
	}

	t.Run("partial payment stays open", func(t *testing.T) {
		s := setup(t)
		require.NoError(t, s.ApplyPayment(amt("60"), "cashier1"))
		assert.True(t, s.AmountDue.Equal(amt("40")))
		assert.True(t, s.AppliedAmt.Equal(amt("60")))
		assert.Equal(t, document.StatusOpen, s.Status)
	})

	t.Run("full payment closes", func(t *testing.T) {
		s := setup(t)
		require.NoError(t, s.ApplyPayment(amt("100"), "cashier1"))
		assert.True(t, s.AmountDue.IsZero())
		assert.Equal(t, document.StatusClosed, s.Status)
	})

	t.Run("overpayment rejected", func(t *testing.T) {
		s := setup(t)
		err := s.ApplyPayment(amt("120"), "cashier1")
		assert.ErrorIs(t, err, shared.ErrOverpayment)
		assert.True(t, s.AmountDue.Equal(amt("100")))
	})

	t.Run("revert reopens", func(t *testing.T) {
		s := setup(t)
		require.NoError(t, s.ApplyPayment(amt("100"), "cashier1"))
		require.NoError(t, s.RevertPayment(amt("100"), "cashier1"))
		assert.True(t, s.AmountDue.Equal(amt("100")))
		assert.True(t, s.AppliedAmt.IsZero())
		assert.Equal(t, document.StatusOpen, s.Status)
	})
}

func TestPaymentValidate(t *testing.T) {
	base := func(t *testing.T) *Payment {
		t.Helper()
		p := &Payment{
			SalesRef:     "SLS-SLES-1",
			CustomerCode: "C001",
		}
		require.NoError(t, p.AddRow(PayCash, amt("100"), ""))
		return p
	}

	t.Run("valid cash", func(t *testing.T) {
		assert.NoError(t, base(t).Validate())
	})

	t.Run("advance requires reference", func(t *testing.T) {
		p := base(t)
		assert.Error(t, p.AddRow(PayAdvance, amt("50"), ""))
		assert.NoError(t, p.AddRow(PayAdvance, amt("50"), "ADV-001"))
		assert.NoError(t, p.Validate())
	})

	t.Run("unknown type", func(t *testing.T) {
		assert.Error(t, base(t).AddRow("WIRE", amt("10"), ""))
	})

	t.Run("non-positive row amount", func(t *testing.T) {
		assert.Error(t, base(t).AddRow(PayCash, decimal.Zero, ""))
	})

	t.Run("no rows", func(t *testing.T) {
		p := &Payment{SalesRef: "SLS-SLES-1", CustomerCode: "C001"}
		assert.Error(t, p.Validate())
	})

	t.Run("split tender sums to the header amount", func(t *testing.T) {
		p := base(t)
		require.NoError(t, p.AddRow(PayAdvance, amt("25"), "ADV-002"))
		assert.True(t, p.Amount.Equal(amt("125")))
		assert.NoError(t, p.Validate())
	})

	t.Run("header amount out of step with rows", func(t *testing.T) {
		p := base(t)
		p.Amount = amt("90")
		assert.Error(t, p.Validate())
	})
}

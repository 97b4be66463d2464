package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraftInvoice(t *testing.T) *Invoice {
	t.Helper()
	inv, err := NewInvoice("INV-2026-00001", uuid.New(), "Gupta Furniture", time.Now())
	require.NoError(t, err)
	return inv
}

func newInvoiceWithItem(t *testing.T) *Invoice {
	t.Helper()
	inv := newDraftInvoice(t)
	_, err := inv.AddItem(uuid.New(), "Office Chair", "FG-CHAIR", "9401", "pcs",
		decimal.NewFromInt(10), decimal.NewFromInt(100),
		decimal.NewFromInt(9), decimal.NewFromInt(9), decimal.Zero)
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	inv := newDraftInvoice(t)
	assert.Equal(t, InvoiceStatusDraft, inv.Status)
	assert.Equal(t, PaymentStatusUnpaid, inv.PaymentStatus)

	_, err := NewInvoice("", uuid.New(), "Gupta", time.Now())
	assert.Error(t, err)
}

func TestInvoice_Totals(t *testing.T) {
	t.Run("no rounding needed", func(t *testing.T) {
		inv := newInvoiceWithItem(t)

		// amount 1000, cgst 90, sgst 90, taxable 1000, total before rounding 1180
		assert.True(t, inv.Subtotal.Equal(decimal.RequireFromString("1000")), "subtotal = %s", inv.Subtotal)
		assert.True(t, inv.TotalTax.Equal(decimal.RequireFromString("180")), "tax = %s", inv.TotalTax)
		assert.True(t, inv.GrandTotal.Equal(decimal.RequireFromString("1180")), "grand = %s", inv.GrandTotal)
		assert.True(t, inv.RoundOff.IsZero(), "roundOff = %s", inv.RoundOff)
	})

	t.Run("rounds half up", func(t *testing.T) {
		inv := newInvoiceWithItem(t)
		require.NoError(t, inv.SetShippingCharges(decimal.RequireFromString("0.50")))

		// before rounding 1180.50 rounds up to 1181
		assert.True(t, inv.GrandTotal.Equal(decimal.RequireFromString("1181")), "grand = %s", inv.GrandTotal)
		assert.True(t, inv.RoundOff.Equal(decimal.RequireFromString("0.50")), "roundOff = %s", inv.RoundOff)
	})

	t.Run("rounds down below half", func(t *testing.T) {
		inv := newInvoiceWithItem(t)
		require.NoError(t, inv.SetShippingCharges(decimal.RequireFromString("0.49")))

		// before rounding 1180.49 rounds down to 1180
		assert.True(t, inv.GrandTotal.Equal(decimal.RequireFromString("1180")), "grand = %s", inv.GrandTotal)
		assert.True(t, inv.RoundOff.Equal(decimal.RequireFromString("-0.49")), "roundOff = %s", inv.RoundOff)
	})

	t.Run("discount reduces taxable but not line tax", func(t *testing.T) {
		inv := newInvoiceWithItem(t)
		require.NoError(t, inv.SetDiscountPercent(decimal.NewFromInt(5)))

		// taxable = 1000 - 50 = 950, tax stays the per-line 180
		assert.True(t, inv.DiscountAmount.Equal(decimal.RequireFromString("50")), "discount = %s", inv.DiscountAmount)
		assert.True(t, inv.TaxableAmount.Equal(decimal.RequireFromString("950")), "taxable = %s", inv.TaxableAmount)
		assert.True(t, inv.TotalTax.Equal(decimal.RequireFromString("180")), "tax = %s", inv.TotalTax)
		assert.True(t, inv.GrandTotal.Equal(decimal.RequireFromString("1130")), "grand = %s", inv.GrandTotal)
	})

	t.Run("gst split summed per component", func(t *testing.T) {
		inv := newDraftInvoice(t)
		_, err := inv.AddItem(uuid.New(), "Chair", "FG-01", "9401", "pcs",
			decimal.NewFromInt(10), decimal.NewFromInt(100),
			decimal.NewFromInt(9), decimal.NewFromInt(9), decimal.Zero)
		require.NoError(t, err)
		_, err = inv.AddItem(uuid.New(), "Table", "FG-02", "9403", "pcs",
			decimal.NewFromInt(2), decimal.NewFromInt(500),
			decimal.Zero, decimal.Zero, decimal.NewFromInt(18))
		require.NoError(t, err)

		assert.True(t, inv.CGSTAmount.Equal(decimal.RequireFromString("90")), "cgst = %s", inv.CGSTAmount)
		assert.True(t, inv.SGSTAmount.Equal(decimal.RequireFromString("90")), "sgst = %s", inv.SGSTAmount)
		assert.True(t, inv.IGSTAmount.Equal(decimal.RequireFromString("180")), "igst = %s", inv.IGSTAmount)
		assert.True(t, inv.TotalTax.Equal(decimal.RequireFromString("360")), "tax = %s", inv.TotalTax)
	})
}

func TestInvoice_RecordPayment(t *testing.T) {
	issued := func(t *testing.T) *Invoice {
		inv := newInvoiceWithItem(t)
		require.NoError(t, inv.Issue())
		return inv
	}

	t.Run("partial then full", func(t *testing.T) {
		inv := issued(t) // grand total 1180

		_, err := inv.RecordPayment(decimal.NewFromInt(500), time.Now(), PaymentModeUPI, "UPI-123", "")
		require.NoError(t, err)
		assert.Equal(t, PaymentStatusPartiallyPaid, inv.PaymentStatus)
		assert.True(t, inv.BalanceAmount().Equal(decimal.RequireFromString("680")), "balance = %s", inv.BalanceAmount())

		_, err = inv.RecordPayment(decimal.NewFromInt(680), time.Now(), PaymentModeBankTransfer, "NEFT-9", "")
		require.NoError(t, err)
		assert.Equal(t, PaymentStatusPaid, inv.PaymentStatus)
		assert.True(t, inv.BalanceAmount().IsZero())
		assert.Len(t, inv.Payments, 2)
	})

	t.Run("overpayment leaves negative balance", func(t *testing.T) {
		inv := issued(t)
		_, err := inv.RecordPayment(decimal.NewFromInt(1200), time.Now(), PaymentModeCash, "", "")
		require.NoError(t, err)
		assert.Equal(t, PaymentStatusPaid, inv.PaymentStatus)
		assert.True(t, inv.BalanceAmount().Equal(decimal.RequireFromString("-20")), "balance = %s", inv.BalanceAmount())
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		inv := issued(t)
		_, err := inv.RecordPayment(decimal.Zero, time.Now(), PaymentModeCash, "", "")
		assert.Error(t, err)
	})

	t.Run("rejects unknown mode", func(t *testing.T) {
		inv := issued(t)
		_, err := inv.RecordPayment(decimal.NewFromInt(100), time.Now(), PaymentMode("BARTER"), "", "")
		assert.Error(t, err)
	})

	t.Run("rejects payment on draft", func(t *testing.T) {
		inv := newInvoiceWithItem(t)
		_, err := inv.RecordPayment(decimal.NewFromInt(100), time.Now(), PaymentModeCash, "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DRAFT")
	})
}

func TestDerivePaymentStatus(t *testing.T) {
	grand := decimal.NewFromInt(1180)

	tests := []struct {
		name string
		paid string
		want PaymentStatus
	}{
		{"nothing paid", "0", PaymentStatusUnpaid},
		{"partial", "500", PaymentStatusPartiallyPaid},
		{"exact", "1180", PaymentStatusPaid},
		{"overpaid", "1200", PaymentStatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivePaymentStatus(decimal.RequireFromString(tt.paid), grand))
		})
	}
}

func TestInvoice_Cancel(t *testing.T) {
	t.Run("cancel unpaid invoice", func(t *testing.T) {
		inv := newInvoiceWithItem(t)
		require.NoError(t, inv.Issue())
		require.NoError(t, inv.Cancel("billing error"))
		assert.Equal(t, InvoiceStatusCancelled, inv.Status)
	})

	t.Run("cancel partially paid invoice", func(t *testing.T) {
		inv := newInvoiceWithItem(t)
		require.NoError(t, inv.Issue())
		_, err := inv.RecordPayment(decimal.NewFromInt(100), time.Now(), PaymentModeCash, "", "")
		require.NoError(t, err)

		require.NoError(t, inv.Cancel("dispute"))
	})

	t.Run("cannot cancel paid invoice", func(t *testing.T) {
		inv := newInvoiceWithItem(t)
		require.NoError(t, inv.Issue())
		_, err := inv.RecordPayment(decimal.NewFromInt(1180), time.Now(), PaymentModeCash, "", "")
		require.NoError(t, err)

		err = inv.Cancel("too late")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "paid")
	})
}

func TestInvoice_Delete(t *testing.T) {
	t.Run("delete unpaid invoice", func(t *testing.T) {
		inv := newInvoiceWithItem(t)
		require.NoError(t, inv.Delete())
		assert.True(t, inv.IsDeleted)
	})

	t.Run("cannot delete once paid against", func(t *testing.T) {
		inv := newInvoiceWithItem(t)
		require.NoError(t, inv.Issue())
		_, err := inv.RecordPayment(decimal.NewFromInt(50), time.Now(), PaymentModeCash, "", "")
		require.NoError(t, err)

		assert.Error(t, inv.Delete())
	})
}

func TestInvoice_ItemEditing(t *testing.T) {
	t.Run("editing rejected after issue", func(t *testing.T) {
		inv := newInvoiceWithItem(t)
		require.NoError(t, inv.Issue())

		_, err := inv.AddItem(uuid.New(), "Table", "FG-02", "9403", "pcs",
			decimal.NewFromInt(1), decimal.NewFromInt(500), decimal.Zero, decimal.Zero, decimal.NewFromInt(18))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ISSUED")
	})

	t.Run("replace items rederives totals", func(t *testing.T) {
		inv := newInvoiceWithItem(t)
		require.NoError(t, inv.ReplaceItems([]ItemInput{
			{FinishedGoodID: uuid.New(), ProductName: "Table", ProductCode: "FG-02", HSNCode: "9403", Unit: "pcs",
				Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(500),
				IGSTPercent: decimal.NewFromInt(18)},
		}))
		assert.Equal(t, 1, inv.ItemCount())
		assert.True(t, inv.Subtotal.Equal(decimal.RequireFromString("1000")), "subtotal = %s", inv.Subtotal)
		assert.True(t, inv.GrandTotal.Equal(decimal.RequireFromString("1180")), "grand = %s", inv.GrandTotal)
	})
}

package invoice

import (
	"testing"

	"github.com/invoicegen/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeTotals_NoTax(t *testing.T) {
	items := []LineItem{
		{Description: "Web Development", Quantity: dec("1"), UnitPrice: dec("1500.00")},
		{Description: "Consulting", Quantity: dec("10"), UnitPrice: dec("100.00")},
	}

	totals, err := ComputeTotals(items, NoTax())
	require.NoError(t, err)

	assert.Equal(t, "2500.00", totals.Subtotal.StringFixed(2))
	assert.Empty(t, totals.Taxes)
	assert.True(t, totals.GrandTotal.Equals(totals.Subtotal))
}

func TestComputeTotals_FlatTax(t *testing.T) {
	items := []LineItem{
		{Description: "Logo Design", Quantity: dec("1"), UnitPrice: dec("500.00")},
	}
	tax, err := FlatTax(dec("10"))
	require.NoError(t, err)

	totals, err := ComputeTotals(items, tax)
	require.NoError(t, err)

	require.Len(t, totals.Taxes, 1)
	assert.Equal(t, "Tax", totals.Taxes[0].Label)
	assert.Equal(t, "50.00", totals.Taxes[0].Amount.StringFixed(2))
	assert.Equal(t, "550.00", totals.GrandTotal.StringFixed(2))
}

func TestComputeTotals_DualTax(t *testing.T) {
	items := []LineItem{
		{Description: "Campaign", Quantity: dec("2"), UnitPrice: dec("5000")},
	}
	tax, err := DualTax(dec("9"), dec("9"))
	require.NoError(t, err)

	totals, err := ComputeTotals(items, tax)
	require.NoError(t, err)

	require.Len(t, totals.Taxes, 2)
	assert.Equal(t, "CGST", totals.Taxes[0].Label)
	assert.Equal(t, "SGST", totals.Taxes[1].Label)
	assert.Equal(t, "900.00", totals.Taxes[0].Amount.StringFixed(2))
	assert.Equal(t, "900.00", totals.Taxes[1].Amount.StringFixed(2))
	assert.Equal(t, "11800.00", totals.GrandTotal.StringFixed(2))

	ok, err := totals.GrandTotal.GreaterThanOrEqual(totals.Subtotal)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestComputeTotals_ZeroRateSuppressed(t *testing.T) {
	items := []LineItem{
		{Description: "Service", Quantity: dec("1"), UnitPrice: dec("100")},
	}

	// A rate of exactly 0 must suppress the whole tax line, not just its amount
	tax, err := DualTax(dec("9"), dec("0"))
	require.NoError(t, err)

	totals, err := ComputeTotals(items, tax)
	require.NoError(t, err)

	require.Len(t, totals.Taxes, 1)
	assert.Equal(t, "CGST", totals.Taxes[0].Label)
	assert.Equal(t, "109.00", totals.GrandTotal.StringFixed(2))
}

func TestComputeTotals_PrecomputedAmount(t *testing.T) {
	amount := dec("7543.21")
	items := []LineItem{
		{Description: "Bulk payout", Amount: &amount},
	}

	totals, err := ComputeTotals(items, NoTax())
	require.NoError(t, err)
	assert.Equal(t, "7543.21", totals.Subtotal.StringFixed(2))
}

func TestComputeTotals_QuantityDefaultsToOne(t *testing.T) {
	items := []LineItem{
		{Description: "Single unit", UnitPrice: dec("250")},
	}

	totals, err := ComputeTotals(items, NoTax())
	require.NoError(t, err)
	assert.Equal(t, "250.00", totals.Subtotal.StringFixed(2))
}

func TestComputeTotals_Errors(t *testing.T) {
	negAmount := dec("-5")
	tests := []struct {
		name  string
		items []LineItem
	}{
		{"empty item list", nil},
		{"negative quantity", []LineItem{{Description: "x", Quantity: dec("-1"), UnitPrice: dec("10")}}},
		{"negative unit price", []LineItem{{Description: "x", Quantity: dec("1"), UnitPrice: dec("-10")}}},
		{"negative precomputed amount", []LineItem{{Description: "x", Amount: &negAmount}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeTotals(tt.items, NoTax())
			require.Error(t, err)

			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, shared.CodeComputationError, domainErr.Code)
		})
	}
}

func TestComputeTotals_NoIntermediateRounding(t *testing.T) {
	items := []LineItem{
		{Description: "a", Quantity: dec("3"), UnitPrice: dec("0.333")},
		{Description: "b", Quantity: dec("3"), UnitPrice: dec("0.333")},
	}

	totals, err := ComputeTotals(items, NoTax())
	require.NoError(t, err)

	// Exact 1.998; only display formatting rounds to 2 places
	assert.True(t, totals.Subtotal.Amount().Equal(dec("1.998")))
	assert.Equal(t, "2.00", totals.Subtotal.StringFixed(2))
}

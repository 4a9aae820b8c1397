package invoice

import (
	"fmt"

	"github.com/invoicegen/backend/internal/domain/shared"
	"github.com/invoicegen/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// TaxLine is one computed tax row of the summary block
type TaxLine struct {
	Label  string
	Rate   decimal.Decimal
	Amount valueobject.Money
}

// Totals holds the aggregate amounts of one invoice. Values are exact;
// rounding happens only when amounts are formatted for display.
type Totals struct {
	Subtotal   valueobject.Money
	Taxes      []TaxLine
	GrandTotal valueobject.Money
}

// ComputeTotals derives per-line amounts and aggregate totals from the line
// items and tax configuration. A component with rate exactly 0 produces no
// tax line at all.
func ComputeTotals(items []LineItem, tax TaxConfig) (Totals, error) {
	if len(items) == 0 {
		return Totals{}, shared.ErrEmptyItemList
	}

	subtotal := valueobject.ZeroINR()
	for i, item := range items {
		if item.Quantity.IsNegative() {
			return Totals{}, shared.NewDomainError(shared.CodeComputationError,
				fmt.Sprintf("Line %d: quantity cannot be negative", i+1))
		}
		if item.UnitPrice.IsNegative() {
			return Totals{}, shared.NewDomainError(shared.CodeComputationError,
				fmt.Sprintf("Line %d: unit price cannot be negative", i+1))
		}
		if item.Amount != nil && item.Amount.IsNegative() {
			return Totals{}, shared.NewDomainError(shared.CodeComputationError,
				fmt.Sprintf("Line %d: amount cannot be negative", i+1))
		}
		subtotal = subtotal.MustAdd(valueobject.NewMoneyINR(item.ComputeAmount()))
	}

	totals := Totals{Subtotal: subtotal, GrandTotal: subtotal}
	for _, comp := range tax.Components {
		if comp.Rate.IsNegative() {
			return Totals{}, shared.NewDomainError(shared.CodeComputationError,
				fmt.Sprintf("Tax rate for %q cannot be negative", comp.Label))
		}
		if comp.Rate.IsZero() {
			continue
		}
		amount := subtotal.CalculatePercentage(comp.Rate)
		totals.Taxes = append(totals.Taxes, TaxLine{
			Label:  comp.Label,
			Rate:   comp.Rate,
			Amount: amount,
		})
		totals.GrandTotal = totals.GrandTotal.MustAdd(amount)
	}

	return totals, nil
}

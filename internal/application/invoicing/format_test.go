package invoicing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/invoicegen/backend/internal/domain/shared/valueobject"
)

func inr(s string) valueobject.Money {
	return valueobject.NewMoneyINR(decimal.RequireFromString(s))
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   string
		expected string
	}{
		{"0", "0.00"},
		{"999", "999.00"},
		{"1000", "1,000.00"},
		{"150000", "1,50,000.00"},
		{"1234567.5", "12,34,567.50"},
		{"10000000", "1,00,00,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatAmount(inr(tt.amount)))
		})
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "Rs. 2,500.00", FormatMoney(inr("2500"), "Rs. "))
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "01 Apr 2024", FormatDate(d))
}

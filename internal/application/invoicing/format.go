package invoicing

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/invoicegen/backend/internal/domain/shared/valueobject"
)

// enIN groups digits the Indian way: 1,50,000.00
var enIN = message.NewPrinter(language.MustParse("en-IN"))

// FormatAmount renders a monetary amount with Indian digit grouping and
// two decimal places
func FormatAmount(m valueobject.Money) string {
	f, _ := m.Amount().Float64()
	return enIN.Sprintf("%v", number.Decimal(f,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}

// FormatMoney prefixes the formatted amount with a currency symbol
func FormatMoney(m valueobject.Money, symbol string) string {
	return symbol + FormatAmount(m)
}

// FormatDate renders dates the way they appear on the printed invoice
func FormatDate(t time.Time) string {
	return t.Format("02 Jan 2006")
}

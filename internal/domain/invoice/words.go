package invoice

import (
	"strings"

	"github.com/invoicegen/backend/internal/domain/shared"
)

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// belowThousand converts 0 <= n < 1000 to English words. Zero yields the
// empty string so callers can skip zero components entirely.
func belowThousand(n int64) string {
	switch {
	case n == 0:
		return ""
	case n < 20:
		return onesWords[n]
	case n < 100:
		return strings.TrimSpace(tensWords[n/10] + " " + onesWords[n%10])
	default:
		if rem := n % 100; rem != 0 {
			return onesWords[n/100] + " Hundred " + belowThousand(rem)
		}
		return onesWords[n/100] + " Hundred"
	}
}

// NumberToWords converts a non-negative integer to words in the Indian
// numbering system (crore 10^7, lakh 10^5, thousand 10^3). Zero components
// are skipped, never rendered as "Zero Thousand".
func NumberToWords(n int64) (string, error) {
	if n < 0 {
		return "", shared.ErrNegativeWords
	}
	if n == 0 {
		return "Zero", nil
	}

	var parts []string

	if crore := n / 1_00_00_000; crore > 0 {
		// The crore component itself can exceed 999
		w, err := NumberToWords(crore)
		if err != nil {
			return "", err
		}
		parts = append(parts, w+" Crore")
		n %= 1_00_00_000
	}
	if lakh := n / 1_00_000; lakh > 0 {
		parts = append(parts, belowThousand(lakh)+" Lakh")
		n %= 1_00_000
	}
	if thousand := n / 1_000; thousand > 0 {
		parts = append(parts, belowThousand(thousand)+" Thousand")
		n %= 1_000
	}
	if n > 0 {
		parts = append(parts, belowThousand(n))
	}

	return strings.Join(parts, " "), nil
}

// AmountInWords converts a non-negative rupee amount to its words line,
// suffixed with "Rupees Only". Fractional paise are out of scope; callers
// pass the truncated integer part of the grand total.
func AmountInWords(n int64) (string, error) {
	if n == 0 {
		return "Zero Rupees Only", nil
	}
	words, err := NumberToWords(n)
	if err != nil {
		return "", err
	}
	return words + " Rupees Only", nil
}

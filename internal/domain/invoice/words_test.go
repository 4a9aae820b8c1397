package invoice

import (
	"strings"
	"testing"

	"github.com/invoicegen/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberToWords(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected string
	}{
		{"zero", 0, "Zero"},
		{"single digit", 7, "Seven"},
		{"teen", 14, "Fourteen"},
		{"round tens", 40, "Forty"},
		{"tens with ones", 99, "Ninety Nine"},
		{"round hundred", 500, "Five Hundred"},
		{"hundred with remainder", 567, "Five Hundred Sixty Seven"},
		{"thousand", 1000, "One Thousand"},
		{"thousand with remainder", 2023, "Two Thousand Twenty Three"},
		{"lakh", 100000, "One Lakh"},
		{"lakh and thousand", 110000, "One Lakh Ten Thousand"},
		{"full decomposition", 1234567, "Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven"},
		{"crore", 10000000, "One Crore"},
		{"crore with gap", 10000005, "One Crore Five"},
		{"large crore component", 1234500000000, "One Lakh Twenty Three Thousand Four Hundred Fifty Crore"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NumberToWords(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNumberToWords_Negative(t *testing.T) {
	_, err := NumberToWords(-1)
	require.Error(t, err)

	domainErr, ok := err.(*shared.DomainError)
	require.True(t, ok)
	assert.Equal(t, shared.CodeConversionError, domainErr.Code)
}

func TestNumberToWords_NoZeroComponents(t *testing.T) {
	// Components that are zero must be skipped entirely, never rendered
	// as "Zero Thousand" or left as doubled scale words.
	inputs := []int64{1000000, 10000000, 10000500, 100000007}
	for _, n := range inputs {
		got, err := NumberToWords(n)
		require.NoError(t, err)
		assert.NotContains(t, got, "Zero")
		assert.NotContains(t, got, "  ")

		words := strings.Fields(got)
		scales := map[string]bool{"Crore": true, "Lakh": true, "Thousand": true, "Hundred": true}
		for i := 1; i < len(words); i++ {
			if scales[words[i]] {
				assert.False(t, scales[words[i-1]],
					"consecutive scale words in %q for %d", got, n)
			}
		}
	}
}

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "Zero Rupees Only"},
		{1, "One Rupees Only"},
		{110000, "One Lakh Ten Thousand Rupees Only"},
		{1234567, "Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven Rupees Only"},
	}

	for _, tt := range tests {
		got, err := AmountInWords(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got)
	}
}

func TestAmountInWords_Negative(t *testing.T) {
	_, err := AmountInWords(-100)
	assert.ErrorIs(t, err, shared.ErrNegativeWords)
}

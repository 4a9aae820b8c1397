package ingest

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicegen/backend/internal/domain/shared"
)

const validCSV = `Creator Name,PAN,Mobile,Invoice Number,Description,Amount,Account Number,IFSC
Asha Verma,ABCDE1234F,9876543210,INV-001,Writing services,15000.00,50100123456789,HDFC0001234
Ravi Kumar,FGHIJ5678K,9123456780,INV-002,Design work,"22,500.50",50100987654321,ICIC0004321
`

func TestParseRows(t *testing.T) {
	rows, failures, err := ParseRows([]byte(validCSV), 0)
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, rows, 2)

	assert.Equal(t, "Asha Verma", rows[0].FromName)
	assert.Equal(t, "ABCDE1234F", rows[0].PAN)
	assert.Equal(t, "INV-001", rows[0].InvoiceNumber)
	assert.Equal(t, "15000", rows[0].Amount.String())
	assert.Nil(t, rows[0].IssueDate)

	assert.Equal(t, "22500.5", rows[1].Amount.String())
	assert.Equal(t, "ICIC0004321", rows[1].IFSC)
}

func TestParseRows_HeaderVariants(t *testing.T) {
	csv := "creator_name,P.A.N.,MOBILE,InvoiceNumber,DESCRIPTION,amount,account-number,Ifsc\n" +
		"Asha Verma,ABCDE1234F,9876543210,INV-001,Writing,1000,50100123,HDFC0001234\n"

	rows, failures, err := ParseRows([]byte(csv), 0)
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, rows, 1)
	assert.Equal(t, "ABCDE1234F", rows[0].PAN)
	assert.Equal(t, "HDFC0001234", rows[0].IFSC)
}

func TestParseRows_BOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(validCSV)...)

	rows, _, err := ParseRows(data, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestParseRows_ReportsAllMissingColumns(t *testing.T) {
	csv := "Creator Name,Description,Amount\nAsha,Writing,100\n"

	_, _, err := ParseRows([]byte(csv), 0)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, shared.CodeSchemaError, domainErr.Code)

	for _, col := range []string{"pan", "mobile", "invoice number", "account number", "ifsc"} {
		assert.Contains(t, domainErr.Message, col)
	}
	assert.NotContains(t, domainErr.Message, "description")
}

func TestParseRows_RowFailures(t *testing.T) {
	csv := "Creator Name,PAN,Mobile,Invoice Number,Description,Amount,Account Number,IFSC,Invoice Date\n" +
		"Asha,ABCDE1234F,9876543210,INV-001,Writing,not-a-number,50100123,HDFC0001234,\n" +
		",ABCDE1234F,9876543210,INV-002,Writing,100,50100123,HDFC0001234,\n" +
		"Ravi,FGHIJ5678K,9123456780,INV-003,Design,500,50100987,ICIC0004321,garbage-date\n" +
		"Meena,KLMNO9012P,9988776655,INV-004,Editing,750,50100555,SBIN0000456,2024-04-01\n"

	rows, failures, err := ParseRows([]byte(csv), 0)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "INV-004", rows[0].InvoiceNumber)
	require.NotNil(t, rows[0].IssueDate)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), *rows[0].IssueDate)

	require.Len(t, failures, 3)
	assert.Equal(t, FailCodeInvalidAmount, failures[0].Code)
	assert.Equal(t, 2, failures[0].Row)
	assert.Equal(t, FailCodeRequired, failures[1].Code)
	assert.Equal(t, "creator name", failures[1].Field)
	assert.Equal(t, FailCodeInvalidDate, failures[2].Code)
	assert.Equal(t, 4, failures[2].Row)
}

func TestParseRows_NegativeAmount(t *testing.T) {
	csv := "Creator Name,PAN,Mobile,Invoice Number,Description,Amount,Account Number,IFSC\n" +
		"Asha,ABCDE1234F,9876543210,INV-001,Writing,-100,50100123,HDFC0001234\n"

	rows, failures, err := ParseRows([]byte(csv), 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
	require.Len(t, failures, 1)
	assert.Equal(t, FailCodeInvalidAmount, failures[0].Code)
}

func TestParseRows_Limits(t *testing.T) {
	t.Run("empty file", func(t *testing.T) {
		_, _, err := ParseRows([]byte(""), 0)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, shared.CodeSchemaError, domainErr.Code)
	})

	t.Run("header only", func(t *testing.T) {
		header := strings.SplitN(validCSV, "\n", 2)[0] + "\n"
		_, _, err := ParseRows([]byte(header), 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no data rows")
	})

	t.Run("row limit exceeded", func(t *testing.T) {
		_, _, err := ParseRows([]byte(validCSV), 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "limit")
	})

	t.Run("blank lines skipped", func(t *testing.T) {
		data := validCSV + "\n,,,,,,,\n"
		rows, _, err := ParseRows([]byte(data), 0)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"Creator Name", "creatorname"},
		{"creator_name", "creatorname"},
		{"P.A.N.", "pan"},
		{" IFSC ", "ifsc"},
		{"Invoice Number", "invoicenumber"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.out, NormalizeHeader(tt.in))
	}
}

func TestSampleCSV(t *testing.T) {
	rows, failures, err := ParseRows(SampleCSV(), 0)
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, rows, 1)
	assert.Equal(t, "INV-2024-001", rows[0].InvoiceNumber)
	require.NotNil(t, rows[0].DueDate)
}

package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invoicegen/backend/internal/domain/batch"
	"github.com/invoicegen/backend/internal/domain/shared"
)

// Dataset column names. Matching is normalized, so any casing or
// spacing variant in the uploaded file resolves to these.
const (
	ColCreatorName   = "creator name"
	ColPAN           = "pan"
	ColMobile        = "mobile"
	ColInvoiceNumber = "invoice number"
	ColDescription   = "description"
	ColAmount        = "amount"
	ColAccountNumber = "account number"
	ColIFSC          = "ifsc"
	ColInvoiceDate   = "invoice date"
	ColDueDate       = "due date"
)

// RequiredColumns lists the columns every batch dataset must carry
var RequiredColumns = []string{
	ColCreatorName,
	ColPAN,
	ColMobile,
	ColInvoiceNumber,
	ColDescription,
	ColAmount,
	ColAccountNumber,
	ColIFSC,
}

// Row failure codes recorded against individual dataset rows
const (
	FailCodeRequired      = "REQUIRED_FIELD"
	FailCodeInvalidAmount = "INVALID_AMOUNT"
	FailCodeInvalidDate   = "INVALID_DATE"
)

// Date layouts accepted in the optional date columns
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
}

// ParseRows parses an uploaded CSV dataset into batch rows. Header
// validation reports every missing required column at once rather than
// failing on the first. Row-level problems become RowFailures keyed by
// the source line number; structurally sound rows still parse.
func ParseRows(data []byte, maxRows int) ([]batch.BatchRow, []batch.RowFailure, error) {
	parser, err := ParseBytes(data)
	if err != nil {
		return nil, nil, shared.NewDomainError(shared.CodeSchemaError, err.Error())
	}

	if err := parser.ParseHeader(); err != nil {
		return nil, nil, shared.NewDomainError(shared.CodeSchemaError, err.Error())
	}

	if missing := parser.MissingColumns(RequiredColumns); len(missing) > 0 {
		return nil, nil, shared.NewDomainError(shared.CodeSchemaError,
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")))
	}

	raw, err := parser.ReadAllRows()
	if err != nil {
		return nil, nil, shared.NewDomainError(shared.CodeSchemaError, err.Error())
	}

	if len(raw) == 0 {
		return nil, nil, shared.NewDomainError(shared.CodeSchemaError, ErrNoDataRows.Error())
	}
	if maxRows > 0 && len(raw) > maxRows {
		return nil, nil, shared.NewDomainError(shared.CodeSchemaError,
			fmt.Sprintf("dataset has %d rows, limit is %d", len(raw), maxRows))
	}

	var (
		rows     []batch.BatchRow
		failures []batch.RowFailure
	)

	for _, r := range raw {
		row, rowFailures := parseRow(r)
		if len(rowFailures) > 0 {
			failures = append(failures, rowFailures...)
			continue
		}
		rows = append(rows, row)
	}

	return rows, failures, nil
}

func parseRow(r *Row) (batch.BatchRow, []batch.RowFailure) {
	var failures []batch.RowFailure

	require := func(col string) string {
		v := r.Get(col)
		if v == "" {
			failures = append(failures, batch.RowFailure{
				Row:     r.LineNumber,
				Field:   col,
				Code:    FailCodeRequired,
				Message: fmt.Sprintf("field '%s' is required", col),
			})
		}
		return v
	}

	row := batch.BatchRow{
		FromName:      require(ColCreatorName),
		PAN:           require(ColPAN),
		Mobile:        require(ColMobile),
		InvoiceNumber: require(ColInvoiceNumber),
		Description:   require(ColDescription),
		AccountNumber: require(ColAccountNumber),
		IFSC:          require(ColIFSC),
	}

	amountStr := require(ColAmount)
	if amountStr != "" {
		amount, err := decimal.NewFromString(strings.ReplaceAll(amountStr, ",", ""))
		switch {
		case err != nil:
			failures = append(failures, batch.RowFailure{
				Row:     r.LineNumber,
				Field:   ColAmount,
				Code:    FailCodeInvalidAmount,
				Message: fmt.Sprintf("'%s' is not a valid amount", amountStr),
			})
		case amount.IsNegative():
			failures = append(failures, batch.RowFailure{
				Row:     r.LineNumber,
				Field:   ColAmount,
				Code:    FailCodeInvalidAmount,
				Message: "amount cannot be negative",
			})
		default:
			row.Amount = amount
		}
	}

	row.IssueDate = parseOptionalDate(r, ColInvoiceDate, &failures)
	row.DueDate = parseOptionalDate(r, ColDueDate, &failures)

	return row, failures
}

func parseOptionalDate(r *Row, col string, failures *[]batch.RowFailure) *time.Time {
	v := r.Get(col)
	if v == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}

	*failures = append(*failures, batch.RowFailure{
		Row:     r.LineNumber,
		Field:   col,
		Code:    FailCodeInvalidDate,
		Message: fmt.Sprintf("'%s' is not a recognized date", v),
	})
	return nil
}

// SampleCSV returns a template dataset with the expected header row and
// one illustrative data row
func SampleCSV() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{
		"Creator Name", "PAN", "Mobile", "Invoice Number", "Description",
		"Amount", "Account Number", "IFSC", "Invoice Date", "Due Date",
	})
	_ = w.Write([]string{
		"Asha Verma", "ABCDE1234F", "9876543210", "INV-2024-001",
		"Content writing services for March", "15000.00",
		"50100123456789", "HDFC0001234", "2024-04-01", "2024-04-15",
	})
	w.Flush()

	return buf.Bytes()
}

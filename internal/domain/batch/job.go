package batch

import (
	"time"

	"github.com/invoicegen/backend/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

// SharedFields are the constant per-job fragments merged into every row:
// the bank and contact details shared across the dataset.
type SharedFields struct {
	BankName string `json:"bank_name,omitempty"`
	Branch   string `json:"branch,omitempty"`
	Email    string `json:"email,omitempty"`
}

// BatchRow carries the per-row varying fields of one dataset record.
// Optional dates default to the pipeline's run date when nil.
type BatchRow struct {
	FromName      string          `json:"from_name"`
	PAN           string          `json:"pan"`
	Mobile        string          `json:"mobile"`
	InvoiceNumber string          `json:"invoice_number"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	AccountNumber string          `json:"account_number"`
	IFSC          string          `json:"ifsc"`
	IssueDate     *time.Time      `json:"issue_date,omitempty"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
}

// BatchJob is the input of one batch run: a constant bill-to party, the
// shared fragments, and the ordered per-row records.
type BatchJob struct {
	BillTo PartyRef
	Shared SharedFields
	Rows   []BatchRow
}

// PartyRef aliases the invoice party shape for batch callers
type PartyRef = invoice.PartyInfo

// Record synthesizes the InvoiceRecord for one row by merging the job's
// constant fields with the row's varying fields. Missing dates fall back
// to runDate.
func (j *BatchJob) Record(row BatchRow, runDate time.Time) (*invoice.InvoiceRecord, error) {
	issue := runDate
	if row.IssueDate != nil {
		issue = *row.IssueDate
	}
	due := runDate
	if row.DueDate != nil {
		due = *row.DueDate
	}

	from := invoice.PartyInfo{
		Name:  row.FromName,
		Phone: row.Mobile,
		Email: j.Shared.Email,
		PAN:   row.PAN,
		Bank: &invoice.BankDetails{
			BankName:      j.Shared.BankName,
			AccountHolder: row.FromName,
			AccountNumber: row.AccountNumber,
			IFSC:          row.IFSC,
			Branch:        j.Shared.Branch,
		},
	}

	amount := row.Amount
	items := []invoice.LineItem{{
		Description: row.Description,
		Amount:      &amount,
	}}

	meta := invoice.InvoiceMeta{
		Number:    row.InvoiceNumber,
		IssueDate: issue,
		DueDate:   due,
		Tax:       invoice.NoTax(),
	}

	return invoice.NewInvoiceRecord(from, j.BillTo, meta, items, invoice.VariantBulk)
}

package dto

import (
	"time"

	"github.com/invoicegen/backend/internal/domain/invoice"
	"github.com/invoicegen/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// dateLayout is the wire format for invoice dates
const dateLayout = "2006-01-02"

// BankDetailsRequest carries the payment instructions for the invoice footer
type BankDetailsRequest struct {
	BankName      string `json:"bank_name"`
	AccountHolder string `json:"account_holder"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
	Branch        string `json:"branch"`
}

// PartyRequest identifies one side of the invoice
type PartyRequest struct {
	Name    string              `json:"name" binding:"required,max=200"`
	Address string              `json:"address" binding:"max=500"`
	Email   string              `json:"email" binding:"omitempty,email"`
	Phone   string              `json:"phone" binding:"max=20"`
	PAN     string              `json:"pan" binding:"max=20"`
	GSTIN   string              `json:"gstin" binding:"max=20"`
	Bank    *BankDetailsRequest `json:"bank"`
}

// ToDomain converts the request party to the domain value object
func (r PartyRequest) ToDomain() invoice.PartyInfo {
	p := invoice.PartyInfo{
		Name:    r.Name,
		Address: r.Address,
		Email:   r.Email,
		Phone:   r.Phone,
		PAN:     r.PAN,
		GSTIN:   r.GSTIN,
	}
	if r.Bank != nil {
		p.Bank = &invoice.BankDetails{
			BankName:      r.Bank.BankName,
			AccountHolder: r.Bank.AccountHolder,
			AccountNumber: r.Bank.AccountNumber,
			IFSC:          r.Bank.IFSC,
			Branch:        r.Bank.Branch,
		}
	}
	return p
}

// TaxComponentRequest is one tax line applied to the subtotal
type TaxComponentRequest struct {
	Label string          `json:"label" binding:"required,max=50"`
	Rate  decimal.Decimal `json:"rate"`
}

// LineItemRequest is one row of the itemized table
type LineItemRequest struct {
	Description string           `json:"description" binding:"required,max=500"`
	HSN         string           `json:"hsn" binding:"max=20"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	Amount      *decimal.Decimal `json:"amount"`
}

// RenderInvoiceRequest is the payload for rendering a single invoice
type RenderInvoiceRequest struct {
	From         PartyRequest          `json:"from" binding:"required"`
	BillTo       PartyRequest          `json:"bill_to" binding:"required"`
	Number       string                `json:"number" binding:"required,max=50"`
	IssueDate    string                `json:"issue_date" binding:"omitempty,datetime=2006-01-02"`
	DueDate      string                `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Tax          []TaxComponentRequest `json:"tax" binding:"omitempty,max=2,dive"`
	Notes        string                `json:"notes" binding:"max=1000"`
	PaymentTerms string                `json:"payment_terms" binding:"max=500"`
	Items        []LineItemRequest     `json:"items" binding:"required,min=1,dive"`
	Variant      string                `json:"variant" binding:"omitempty,oneof=simple gst bulk"`
	Logo         []byte                `json:"logo,omitempty"`
}

// ToRecord assembles the domain InvoiceRecord. Missing dates default to
// today.
func (r RenderInvoiceRequest) ToRecord() (*invoice.InvoiceRecord, error) {
	issue, err := parseDateOrToday(r.IssueDate)
	if err != nil {
		return nil, err
	}
	due, err := parseDateOrToday(r.DueDate)
	if err != nil {
		return nil, err
	}

	tax := invoice.NoTax()
	for _, c := range r.Tax {
		if c.Rate.IsNegative() {
			return nil, shared.NewDomainError(shared.CodeComputationError, "Tax rate cannot be negative")
		}
		tax.Components = append(tax.Components, invoice.TaxComponent{Label: c.Label, Rate: c.Rate})
	}

	items := make([]invoice.LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, invoice.LineItem{
			Description: it.Description,
			HSN:         it.HSN,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
		})
	}

	meta := invoice.InvoiceMeta{
		Number:       r.Number,
		IssueDate:    issue,
		DueDate:      due,
		Tax:          tax,
		Notes:        r.Notes,
		PaymentTerms: r.PaymentTerms,
	}

	return invoice.NewInvoiceRecord(r.From.ToDomain(), r.BillTo.ToDomain(), meta, items, invoice.TemplateVariant(r.Variant))
}

func parseDateOrToday(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, shared.NewDomainError(shared.CodeSchemaError, "Invalid date: "+value)
	}
	return t, nil
}

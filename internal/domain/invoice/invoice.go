package invoice

import (
	"fmt"
	"time"

	"github.com/invoicegen/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TemplateVariant selects which optional blocks the rendered document includes
type TemplateVariant string

const (
	// VariantSimple is the plain invoice: single flat tax, no GST identifiers
	VariantSimple TemplateVariant = "simple"
	// VariantGST adds GSTIN fields, the HSN/SAC column and dual CGST/SGST rows
	VariantGST TemplateVariant = "gst"
	// VariantBulk renders a single pre-computed amount with no quantity/price breakdown
	VariantBulk TemplateVariant = "bulk"
)

// IsValid checks if the TemplateVariant is a valid value
func (v TemplateVariant) IsValid() bool {
	switch v {
	case VariantSimple, VariantGST, VariantBulk:
		return true
	}
	return false
}

// String returns the string representation of TemplateVariant
func (v TemplateVariant) String() string {
	return string(v)
}

// TaxComponent is one tax applied to the subtotal
type TaxComponent struct {
	Label string          `json:"label"`
	Rate  decimal.Decimal `json:"rate"`
}

// TaxConfig holds zero, one or two tax components. Each component is
// computed independently on the same subtotal.
type TaxConfig struct {
	Components []TaxComponent `json:"components,omitempty"`
}

// NoTax returns a tax configuration with no components
func NoTax() TaxConfig {
	return TaxConfig{}
}

// FlatTax returns a single-component tax configuration
func FlatTax(rate decimal.Decimal) (TaxConfig, error) {
	if rate.IsNegative() {
		return TaxConfig{}, shared.NewDomainError(shared.CodeComputationError, "Tax rate cannot be negative")
	}
	return TaxConfig{Components: []TaxComponent{{Label: "Tax", Rate: rate}}}, nil
}

// DualTax returns the CGST/SGST dual-component tax configuration
func DualTax(cgst, sgst decimal.Decimal) (TaxConfig, error) {
	if cgst.IsNegative() || sgst.IsNegative() {
		return TaxConfig{}, shared.NewDomainError(shared.CodeComputationError, "Tax rate cannot be negative")
	}
	return TaxConfig{Components: []TaxComponent{
		{Label: "CGST", Rate: cgst},
		{Label: "SGST", Rate: sgst},
	}}, nil
}

// Validate checks all component rates
func (t TaxConfig) Validate() error {
	for _, c := range t.Components {
		if c.Rate.IsNegative() {
			return shared.NewDomainError(shared.CodeComputationError,
				fmt.Sprintf("Tax rate for %q cannot be negative", c.Label))
		}
	}
	return nil
}

// InvoiceMeta holds the per-invoice metadata. Owned exclusively by one
// render invocation.
type InvoiceMeta struct {
	Number       string    `json:"number"`
	IssueDate    time.Time `json:"issue_date"`
	DueDate      time.Time `json:"due_date"`
	Tax          TaxConfig `json:"tax"`
	Notes        string    `json:"notes,omitempty"`
	PaymentTerms string    `json:"payment_terms,omitempty"`
}

// LineItem is one row of the itemized table. Either Quantity/UnitPrice are
// set and the amount is derived, or Amount carries a pre-computed value
// (bulk mode).
type LineItem struct {
	Description string           `json:"description"`
	HSN         string           `json:"hsn,omitempty"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
}

// EffectiveQuantity returns the quantity, defaulting to 1 when absent
func (li LineItem) EffectiveQuantity() decimal.Decimal {
	if li.Quantity.IsZero() {
		return decimal.NewFromInt(1)
	}
	return li.Quantity
}

// ComputeAmount returns the line amount: the pre-computed amount when
// present, otherwise quantity times unit price
func (li LineItem) ComputeAmount() decimal.Decimal {
	if li.Amount != nil {
		return *li.Amount
	}
	return li.EffectiveQuantity().Mul(li.UnitPrice)
}

// FileExtension is the extension of rendered documents
const FileExtension = "pdf"

// InvoiceRecord aggregates everything one render call needs. It is a value
// object: created per render call and never mutated afterwards.
type InvoiceRecord struct {
	From    PartyInfo
	BillTo  PartyInfo
	Meta    InvoiceMeta
	Items   []LineItem
	Variant TemplateVariant
}

// NewInvoiceRecord creates a validated InvoiceRecord
func NewInvoiceRecord(from, billTo PartyInfo, meta InvoiceMeta, items []LineItem, variant TemplateVariant) (*InvoiceRecord, error) {
	if variant == "" {
		variant = VariantSimple
	}
	if !variant.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Invalid template variant: %s", variant))
	}
	if meta.Number == "" {
		return nil, shared.NewDomainError(shared.CodeSchemaError, "Invoice number is required")
	}
	if len(items) == 0 {
		return nil, shared.ErrEmptyItemList
	}
	if err := meta.Tax.Validate(); err != nil {
		return nil, err
	}
	return &InvoiceRecord{
		From:    from,
		BillTo:  billTo,
		Meta:    meta,
		Items:   items,
		Variant: variant,
	}, nil
}

// FileName derives the output filename from the invoice number
func (r *InvoiceRecord) FileName() string {
	return fmt.Sprintf("Invoice_%s.%s", r.Meta.Number, FileExtension)
}

package invoice

import (
	"testing"
	"time"

	"github.com/invoicegen/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMeta() InvoiceMeta {
	return InvoiceMeta{
		Number:    "INV-001",
		IssueDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		Tax:       NoTax(),
	}
}

func TestNewInvoiceRecord(t *testing.T) {
	items := []LineItem{{Description: "Service", Quantity: dec("1"), UnitPrice: dec("100")}}

	record, err := NewInvoiceRecord(PartyInfo{Name: "Acme"}, PartyInfo{Name: "Client"}, validMeta(), items, VariantSimple)
	require.NoError(t, err)

	assert.Equal(t, "Acme", record.From.Name)
	assert.Equal(t, VariantSimple, record.Variant)
	assert.Equal(t, "Invoice_INV-001.pdf", record.FileName())
}

func TestNewInvoiceRecord_DefaultsVariant(t *testing.T) {
	items := []LineItem{{Description: "Service", UnitPrice: dec("100")}}

	record, err := NewInvoiceRecord(PartyInfo{}, PartyInfo{}, validMeta(), items, "")
	require.NoError(t, err)
	assert.Equal(t, VariantSimple, record.Variant)
}

func TestNewInvoiceRecord_Errors(t *testing.T) {
	items := []LineItem{{Description: "Service", UnitPrice: dec("100")}}

	t.Run("missing invoice number", func(t *testing.T) {
		meta := validMeta()
		meta.Number = ""
		_, err := NewInvoiceRecord(PartyInfo{}, PartyInfo{}, meta, items, VariantSimple)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeSchemaError, domainErr.Code)
	})

	t.Run("empty items", func(t *testing.T) {
		_, err := NewInvoiceRecord(PartyInfo{}, PartyInfo{}, validMeta(), nil, VariantSimple)
		assert.ErrorIs(t, err, shared.ErrEmptyItemList)
	})

	t.Run("invalid variant", func(t *testing.T) {
		_, err := NewInvoiceRecord(PartyInfo{}, PartyInfo{}, validMeta(), items, TemplateVariant("fancy"))
		require.Error(t, err)
	})

	t.Run("negative tax rate", func(t *testing.T) {
		meta := validMeta()
		meta.Tax = TaxConfig{Components: []TaxComponent{{Label: "Tax", Rate: dec("-1")}}}
		_, err := NewInvoiceRecord(PartyInfo{}, PartyInfo{}, meta, items, VariantSimple)
		require.Error(t, err)
	})
}

func TestTemplateVariant_IsValid(t *testing.T) {
	assert.True(t, VariantSimple.IsValid())
	assert.True(t, VariantGST.IsValid())
	assert.True(t, VariantBulk.IsValid())
	assert.False(t, TemplateVariant("other").IsValid())
}

func TestBankDetails_IsZero(t *testing.T) {
	assert.True(t, BankDetails{}.IsZero())
	assert.False(t, BankDetails{BankName: "HDFC"}.IsZero())

	assert.False(t, PartyInfo{}.HasBank())
	assert.True(t, PartyInfo{Bank: &BankDetails{AccountNumber: "123"}}.HasBank())
}

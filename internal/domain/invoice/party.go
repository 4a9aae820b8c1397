package invoice

// BankDetails holds the payment instructions printed in the invoice footer.
// All identifiers are opaque text; no registry validation is performed.
type BankDetails struct {
	BankName      string `json:"bank_name"`
	AccountHolder string `json:"account_holder"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
	Branch        string `json:"branch"`
}

// IsZero returns true if no bank detail field is set
func (b BankDetails) IsZero() bool {
	return b == BankDetails{}
}

// PartyInfo identifies one side of an invoice (issuer or recipient).
// It is immutable once handed to a render call.
type PartyInfo struct {
	Name    string       `json:"name"`
	Address string       `json:"address"`
	Email   string       `json:"email"`
	Phone   string       `json:"phone"`
	PAN     string       `json:"pan,omitempty"`
	GSTIN   string       `json:"gstin,omitempty"`
	Bank    *BankDetails `json:"bank,omitempty"`
}

// HasBank returns true if the party carries bank details
func (p PartyInfo) HasBank() bool {
	return p.Bank != nil && !p.Bank.IsZero()
}

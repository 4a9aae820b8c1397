package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes used across the invoicing domain
const (
	CodeSchemaError      = "SCHEMA_ERROR"
	CodeComputationError = "COMPUTATION_ERROR"
	CodeConversionError  = "CONVERSION_ERROR"
	CodeRenderError      = "RENDER_ERROR"
	CodeAssetError       = "ASSET_ERROR"
)

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrEmptyItemList = NewDomainError(CodeComputationError, "Invoice must contain at least one line item")
	ErrNegativeWords = NewDomainError(CodeConversionError, "Cannot convert a negative number to words")
)

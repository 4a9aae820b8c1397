package layout

// RenderError represents an error during document assembly
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for layout failures
const (
	ErrCodeInvalidStyle = "INVALID_STYLE"
	ErrCodeUnknownBlock = "UNKNOWN_BLOCK"
	ErrCodeImageDecode  = "IMAGE_DECODE"
	ErrCodeLayoutFailed = "LAYOUT_FAILED"
	ErrCodeOutputFailed = "OUTPUT_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

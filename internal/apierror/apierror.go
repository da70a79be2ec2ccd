// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// Machine-readable failure codes carried next to the message.
const (
	CodeNotFound          = "not_found"
	CodeInsufficientStock = "insufficient_stock"
	CodePriceMismatch     = "price_mismatch"
	CodeInvalidRequest    = "invalid_request"
	CodeStoreFailure      = "store_failure"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Error: msg}
}

// WithCode builds an envelope that also names the failure class.
func WithCode(msg, code string) *APIError {
	return &APIError{Error: msg, Code: code}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Error: "validation failed", Fields: fields}
}

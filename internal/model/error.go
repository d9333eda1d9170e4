package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeUnknownPayment   = "UNKNOWN_PAYMENT"
	ErrCodeUnknownField     = "UNKNOWN_FIELD"
	ErrCodeIncompleteOrder  = "INCOMPLETE_ORDER"
	ErrCodeEmptyOrder       = "EMPTY_ORDER"
	ErrCodeProductNotFound  = "PRODUCT_NOT_FOUND"
	ErrCodePricelessItem    = "PRICELESS_ITEM"
	ErrCodeTotalMismatch    = "TOTAL_MISMATCH"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeNotFound         = "NotFound"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

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

// Common domain errors
var (
	ErrUnknownPayment  = NewDomainError(ErrCodeUnknownPayment, "Payment method must be card or cash")
	ErrUnknownField    = NewDomainError(ErrCodeUnknownField, "Unknown contact field")
	ErrIncompleteOrder = NewDomainError(ErrCodeIncompleteOrder, "Order is missing required fields")
	ErrEmptyOrder      = NewDomainError(ErrCodeEmptyOrder, "Order must contain at least one item")
	ErrProductNotFound = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrPricelessItem   = NewDomainError(ErrCodePricelessItem, "Order contains a product that cannot be bought")
	ErrTotalMismatch   = NewDomainError(ErrCodeTotalMismatch, "Order total does not match the item prices")
)

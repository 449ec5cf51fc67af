package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeEmptyCatalog    = "EMPTY_CATALOG"
	ErrCodeInvalidItem     = "INVALID_CATALOG_ITEM"
	ErrCodeInvalidDayCount = "INVALID_DAY_COUNT"
	ErrCodeInvalidDate     = "INVALID_DATE"
	ErrCodeUnauthorised    = "UNAUTHORIZED"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// DomainError carries a stable code alongside a human-readable message.
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
	ErrEmptyCatalog    = NewDomainError(ErrCodeEmptyCatalog, "Catalogue must contain at least one item")
	ErrInvalidItem     = NewDomainError(ErrCodeInvalidItem, "Catalogue items need a name, a non-negative price and a tax rate of 7 or 19")
	ErrInvalidDayCount = NewDomainError(ErrCodeInvalidDayCount, "Day count must be a positive integer")
	ErrInvalidDate     = NewDomainError(ErrCodeInvalidDate, "Date must be in YYYY-MM-DD format")
)

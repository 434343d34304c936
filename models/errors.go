package models

// DomainError is a user-facing error with a stable code.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

var (
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "invalid credentials")
	ErrDuplicateEmail     = NewDomainError("DUPLICATE_EMAIL", "user already exists")
	ErrValidation         = NewDomainError("VALIDATION_FAILED", "validation failed")
	ErrEmptyCart          = NewDomainError("EMPTY_CART", "your cart is empty")
	ErrLookup             = NewDomainError("LOOKUP_FAILED", "postal code lookup failed")
	ErrNotFound           = NewDomainError("NOT_FOUND", "resource not found")
	ErrConflict           = NewDomainError("CONFLICT", "resource already exists")
	ErrUnauthenticated    = NewDomainError("UNAUTHENTICATED", "please login to continue")
	ErrForbidden          = NewDomainError("FORBIDDEN", "access to this resource is forbidden")
	ErrInvalidTransition  = NewDomainError("INVALID_TRANSITION", "order status change not allowed")
	ErrInFlight           = NewDomainError("IN_FLIGHT", "request already in progress")
)

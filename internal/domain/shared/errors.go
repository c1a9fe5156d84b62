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

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
)

// Retail-specific domain errors
var (
	ErrEmptyCart           = NewDomainError("EMPTY_CART", "Cart has no items")
	ErrInvalidDiscount     = NewDomainError("INVALID_DISCOUNT", "Discount must be between zero and the cart subtotal")
	ErrRegisterAlreadyOpen = NewDomainError("REGISTER_ALREADY_OPEN", "An open cash register already exists for this branch")
	ErrRegisterNotOpen     = NewDomainError("REGISTER_NOT_OPEN", "Cash register is not open")
	ErrNoOpenRegister      = NewDomainError("NO_OPEN_REGISTER", "No open cash register for this branch")
	ErrPaymentMismatch     = NewDomainError("PAYMENT_MISMATCH", "Payment amounts do not add up to the sale total")
	ErrInvalidTransfer     = NewDomainError("INVALID_TRANSFER", "Invalid stock transfer")
	ErrDuplicateSubmission = NewDomainError("DUPLICATE_SUBMISSION", "Request with this idempotency key was already processed")
	ErrUpstreamFailure     = NewDomainError("UPSTREAM_FAILURE", "Upstream dependency failed")
)

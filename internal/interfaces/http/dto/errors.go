package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
	// ErrCodeValidationLength is used when a field length is invalid
	ErrCodeValidationLength = "ERR_VALIDATION_LENGTH"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeInsufficientStock is used when stock is insufficient
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeInsufficientBalance is used when balance is insufficient
	ErrCodeInsufficientBalance = "ERR_INSUFFICIENT_BALANCE"
)

// Credential error codes
const (
	// ErrCodeInvalidCredentials is used when login credentials don't match
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	// ErrCodeAccountDeactivated is used when the account has been deactivated
	ErrCodeAccountDeactivated = "ERR_ACCOUNT_DEACTIVATED"
	// ErrCodeTokenMaxRefresh is used when the refresh chain is exhausted
	ErrCodeTokenMaxRefresh = "ERR_TOKEN_MAX_REFRESH"
)

// Checkout error codes
const (
	// ErrCodeEmptyCart is used when checkout is attempted on an empty cart
	ErrCodeEmptyCart = "ERR_EMPTY_CART"
	// ErrCodeDuplicateSubmission is used when an idempotency key was already consumed
	ErrCodeDuplicateSubmission = "ERR_DUPLICATE_SUBMISSION"
	// ErrCodeUpstreamFailure is used when a dependent service is unavailable
	ErrCodeUpstreamFailure = "ERR_UPSTREAM_FAILURE"
)

// Register and sale error codes
const (
	// ErrCodeRegisterAlreadyOpen is used when a branch already has an open register
	ErrCodeRegisterAlreadyOpen = "ERR_REGISTER_ALREADY_OPEN"
	// ErrCodeRegisterNotOpen is used when the register is not in an open state
	ErrCodeRegisterNotOpen = "ERR_REGISTER_NOT_OPEN"
	// ErrCodeNoOpenRegister is used when a sale needs an open register and none exists
	ErrCodeNoOpenRegister = "ERR_NO_OPEN_REGISTER"
	// ErrCodePaymentMismatch is used when payment parts don't add up to the total
	ErrCodePaymentMismatch = "ERR_PAYMENT_MISMATCH"
	// ErrCodeInvalidDiscount is used when a discount is out of bounds
	ErrCodeInvalidDiscount = "ERR_INVALID_DISCOUNT"
	// ErrCodeInvalidTransfer is used when a stock transfer is malformed
	ErrCodeInvalidTransfer = "ERR_INVALID_TRANSFER"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
	// ErrCodeTooManyRequests is an alias for rate limiting
	ErrCodeTooManyRequests = "ERR_TOO_MANY_REQUESTS"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,
	ErrCodeValidationLength:   http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:        http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:   http.StatusUnprocessableEntity,
	ErrCodeInsufficientBalance: http.StatusUnprocessableEntity,

	// Credential errors
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeAccountDeactivated: http.StatusForbidden,
	ErrCodeTokenMaxRefresh:    http.StatusUnauthorized,

	// Checkout errors
	ErrCodeEmptyCart:           http.StatusUnprocessableEntity,
	ErrCodeDuplicateSubmission: http.StatusConflict,
	ErrCodeUpstreamFailure:     http.StatusBadGateway,

	// Register and sale errors
	ErrCodeRegisterAlreadyOpen: http.StatusConflict,
	ErrCodeRegisterNotOpen:     http.StatusUnprocessableEntity,
	ErrCodeNoOpenRegister:      http.StatusUnprocessableEntity,
	ErrCodePaymentMismatch:     http.StatusUnprocessableEntity,
	ErrCodeInvalidDiscount:     http.StatusUnprocessableEntity,
	ErrCodeInvalidTransfer:     http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeTooManyRequests: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps old error codes to new standardized codes
// This is for backward compatibility with existing domain errors
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"INSUFFICIENT_STOCK":   ErrCodeInsufficientStock,
	"INSUFFICIENT_BALANCE": ErrCodeInsufficientBalance,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,

	"CONCURRENT_MODIFICATION": ErrCodeConcurrencyConflict,
	"INVALID_CREDENTIALS":     ErrCodeInvalidCredentials,
	"ACCOUNT_DEACTIVATED":     ErrCodeAccountDeactivated,
	"TOKEN_EXPIRED":           ErrCodeTokenExpired,
	"TOKEN_INVALID":           ErrCodeTokenInvalid,
	"TOKEN_MAX_REFRESH":       ErrCodeTokenMaxRefresh,
	"PASSWORD_HASH_ERROR":     ErrCodeInternal,
	"EMPTY_CART":              ErrCodeEmptyCart,
	"DUPLICATE_SUBMISSION":    ErrCodeDuplicateSubmission,
	"UPSTREAM_FAILURE":        ErrCodeUpstreamFailure,
	"REGISTER_ALREADY_OPEN":   ErrCodeRegisterAlreadyOpen,
	"REGISTER_NOT_OPEN":       ErrCodeRegisterNotOpen,
	"NO_OPEN_REGISTER":        ErrCodeNoOpenRegister,
	"PAYMENT_MISMATCH":        ErrCodePaymentMismatch,
	"INVALID_DISCOUNT":        ErrCodeInvalidDiscount,
	"INVALID_TRANSFER":        ErrCodeInvalidTransfer,
}

// NormalizeErrorCode converts a legacy error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}

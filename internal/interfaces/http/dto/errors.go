package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation = "ERR_VALIDATION"
)

// Access error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized
// HTTP-facing codes. Domain codes not listed here pass through unchanged
// and resolve to 500 unless ErrorCodeHTTPStatus knows them.
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,

	// Checkout
	"MISSING_IDEMPOTENCY_KEY": ErrCodeBadRequest,
	"DUPLICATE_CHECKOUT":      ErrCodeConflict,
	"EMPTY_CART":              ErrCodeInvalidInput,
	"INVALID_EMAIL":           ErrCodeInvalidInput,
	"INVALID_PAYMENT_METHOD":  ErrCodeInvalidInput,
	"INVALID_ORDER_NUMBER":    ErrCodeInvalidInput,
	"INVALID_PRODUCT_NAME":    ErrCodeInvalidInput,
	"INVALID_PRICE":           ErrCodeInvalidInput,
	"INVALID_QUANTITY":        ErrCodeInvalidInput,
	"INVALID_SHIPPING_CONTACT": ErrCodeInvalidInput,
	"INVALID_SHIPPING_FEE":    ErrCodeInvalidInput,
	"INVALID_DISCOUNT":        ErrCodeInvalidInput,

	// Fulfillment
	"INVALID_TRACKING": ErrCodeInvalidInput,
	"INVALID_COURIER":  ErrCodeInvalidInput,

	// Claims
	"INVALID_ORDER_REF":   ErrCodeBadRequest,
	"ORDER_NOT_DELIVERED": ErrCodeInvalidState,
	"CLAIM_EXISTS":        ErrCodeConflict,
	"TOO_MANY_IMAGES":     ErrCodeInvalidInput,
	"INVALID_ATTACHMENT":  ErrCodeInvalidInput,
	"INVALID_CLAIM_TYPE":  ErrCodeInvalidInput,
	"INVALID_MESSAGE":     ErrCodeInvalidInput,
	"INVALID_NOTES":       ErrCodeInvalidInput,

	// Reviews
	"REVIEW_EXISTS":        ErrCodeConflict,
	"PRODUCT_NOT_IN_ORDER": ErrCodeInvalidInput,
	"INVALID_RATING":       ErrCodeInvalidInput,
	"INVALID_COMMENT":      ErrCodeInvalidInput,
	"INVALID_PRODUCT":      ErrCodeInvalidInput,
	"INVALID_ORDER":        ErrCodeInvalidInput,
	"INVALID_AUTHOR":       ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a domain error code to the standardized format.
// If the code is already in the new format or unknown, returns it as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}

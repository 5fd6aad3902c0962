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
	// ErrCodeInvalidName is used when a person or product name is rejected
	ErrCodeInvalidName = "ERR_INVALID_NAME"
	// ErrCodeInvalidPhone is used when a phone number is rejected
	ErrCodeInvalidPhone = "ERR_INVALID_PHONE"
	// ErrCodeInvalidPrice is used when a price is zero or negative
	ErrCodeInvalidPrice = "ERR_INVALID_PRICE"
	// ErrCodeInvalidQuantity is used when a quantity is out of range
	ErrCodeInvalidQuantity = "ERR_INVALID_QUANTITY"
	// ErrCodeInvalidMinimum is used when a stock threshold is negative
	ErrCodeInvalidMinimum = "ERR_INVALID_MINIMUM"
	// ErrCodeInvalidUsername is used when a username is rejected
	ErrCodeInvalidUsername = "ERR_INVALID_USERNAME"
	// ErrCodeWeakPassword is used when a password fails the minimum policy
	ErrCodeWeakPassword = "ERR_WEAK_PASSWORD"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the caller lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeInvalidCredentials is used when username/password do not match
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
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
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeInsufficientStock is used when stock is insufficient
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeMissingPaymentID is used when a provider event carries no payment id
	ErrCodeMissingPaymentID = "ERR_MISSING_PAYMENT_ID"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeInvalidName:     http.StatusBadRequest,
	ErrCodeInvalidPhone:    http.StatusBadRequest,
	ErrCodeInvalidPrice:    http.StatusBadRequest,
	ErrCodeInvalidQuantity: http.StatusBadRequest,
	ErrCodeInvalidMinimum:  http.StatusBadRequest,
	ErrCodeInvalidUsername: http.StatusBadRequest,
	ErrCodeWeakPassword:    http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeMissingPaymentID:  http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the wire format.
// Domain errors carry bare codes like "NOT_FOUND"; the API exposes the
// prefixed form.
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":           ErrCodeNotFound,
	"ALREADY_EXISTS":      ErrCodeAlreadyExists,
	"INVALID_INPUT":       ErrCodeInvalidInput,
	"INVALID_STATE":       ErrCodeInvalidState,
	"UNAUTHORIZED":        ErrCodeUnauthorized,
	"FORBIDDEN":           ErrCodeForbidden,
	"INSUFFICIENT_STOCK":  ErrCodeInsufficientStock,
	"INVALID_CREDENTIALS": ErrCodeInvalidCredentials,
	"INVALID_TOKEN":       ErrCodeTokenInvalid,
	"INVALID_NAME":        ErrCodeInvalidName,
	"INVALID_PHONE":       ErrCodeInvalidPhone,
	"INVALID_PRICE":       ErrCodeInvalidPrice,
	"INVALID_QUANTITY":    ErrCodeInvalidQuantity,
	"INVALID_MINIMUM":     ErrCodeInvalidMinimum,
	"INVALID_USERNAME":    ErrCodeInvalidUsername,
	"WEAK_PASSWORD":       ErrCodeWeakPassword,
	"MISSING_PAYMENT_ID":  ErrCodeMissingPaymentID,
	"INTERNAL_ERROR":      ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the wire format.
// If the code is already in the wire format or unknown, returns it as-is.
func NormalizeErrorCode(code string) string {
	if wireCode, ok := DomainErrorCodeMapping[code]; ok {
		return wireCode
	}
	return code
}

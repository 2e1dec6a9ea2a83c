package dto

import (
	"net/http"
	"strings"
)

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
	// ErrCodeValidation is used when the request body fails binding rules
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeDocumentInvalid is used when a document fails export or
	// persistence validation
	ErrCodeDocumentInvalid = "ERR_DOCUMENT_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeNoItems is used when a document without line items is exported
	ErrCodeNoItems = "ERR_NO_ITEMS"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeUnsupportedFormat is used for an unknown export format
	ErrCodeUnsupportedFormat = "ERR_UNSUPPORTED_FORMAT"
	// ErrCodeRequestTooLarge is used when the body exceeds the size limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Collaborator error codes
const (
	// ErrCodeUnavailable is used when the document store is unreachable
	ErrCodeUnavailable = "ERR_UNAVAILABLE"
	// ErrCodeSaveFailed is used when the document store rejects a save
	ErrCodeSaveFailed = "ERR_SAVE_FAILED"
	// ErrCodeRenderFailed is used when a renderer cannot produce the file
	ErrCodeRenderFailed = "ERR_RENDER_FAILED"
	// ErrCodeRenderTimeout is used when rendering exceeds its deadline
	ErrCodeRenderTimeout = "ERR_RENDER_TIMEOUT"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when the bearer token is missing or invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeTokenExpired is used when the bearer token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeForbidden is used when the client may not access the resource
	ErrCodeForbidden = "ERR_FORBIDDEN"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeDocumentInvalid: http.StatusUnprocessableEntity,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,
	ErrCodeNoItems:      http.StatusUnprocessableEntity,

	ErrCodeBadRequest:        http.StatusBadRequest,
	ErrCodeInvalidInput:      http.StatusBadRequest,
	ErrCodeInvalidJSON:       http.StatusBadRequest,
	ErrCodeUnsupportedFormat: http.StatusBadRequest,
	ErrCodeRequestTooLarge:   http.StatusRequestEntityTooLarge,

	ErrCodeUnavailable:   http.StatusServiceUnavailable,
	ErrCodeSaveFailed:    http.StatusBadGateway,
	ErrCodeRenderFailed:  http.StatusInternalServerError,
	ErrCodeRenderTimeout: http.StatusGatewayTimeout,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain and render error codes to API codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":               ErrCodeNotFound,
	"ITEM_NOT_FOUND":          ErrCodeNotFound,
	"ALREADY_EXISTS":          ErrCodeAlreadyExists,
	"INVALID_INPUT":           ErrCodeInvalidInput,
	"INVALID_STATE":           ErrCodeInvalidState,
	"ALREADY_CONVERTED":       ErrCodeInvalidState,
	"NUMBER_LOCKED":           ErrCodeInvalidState,
	"PAYMENTS_NOT_TRACKED":    ErrCodeBusinessRule,
	"PAYMENT_EXCEEDS_PENDING": ErrCodeBusinessRule,
	"VALIDATION_FAILED":       ErrCodeDocumentInvalid,
	"SAVE_FAILED":             ErrCodeSaveFailed,
	"UNAVAILABLE":             ErrCodeUnavailable,
	"INTERNAL_ERROR":          ErrCodeInternal,

	"NO_ITEMS":           ErrCodeNoItems,
	"RENDER_TIMEOUT":     ErrCodeRenderTimeout,
	"RENDER_FAILED":      ErrCodeRenderFailed,
	"INVALID_HTML":       ErrCodeRenderFailed,
	"INVALID_LAYOUT":     ErrCodeRenderFailed,
	"WRITE_FAILED":       ErrCodeRenderFailed,
	"UNSUPPORTED_FORMAT": ErrCodeUnsupportedFormat,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Unmapped INVALID_* codes become ErrCodeInvalidInput; any other code is
// returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	if strings.HasPrefix(code, "INVALID_") {
		return ErrCodeInvalidInput
	}
	return code
}

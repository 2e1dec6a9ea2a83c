package dto

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeDocumentInvalid, http.StatusUnprocessableEntity},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeNoItems, http.StatusUnprocessableEntity},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeUnsupportedFormat, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeUnavailable, http.StatusServiceUnavailable},
		{ErrCodeSaveFailed, http.StatusBadGateway},
		{ErrCodeRenderTimeout, http.StatusGatewayTimeout},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ITEM_NOT_FOUND", ErrCodeNotFound},
		{"NUMBER_LOCKED", ErrCodeInvalidState},
		{"PAYMENT_EXCEEDS_PENDING", ErrCodeBusinessRule},
		{"VALIDATION_FAILED", ErrCodeDocumentInvalid},
		{"SAVE_FAILED", ErrCodeSaveFailed},
		{"UNAVAILABLE", ErrCodeUnavailable},
		{"NO_ITEMS", ErrCodeNoItems},
		{"WRITE_FAILED", ErrCodeRenderFailed},
		{"UNSUPPORTED_FORMAT", ErrCodeUnsupportedFormat},
		// Unmapped INVALID_* codes are input errors
		{"INVALID_QUANTITY", ErrCodeInvalidInput},
		{"INVALID_DOC_TYPE", ErrCodeInvalidInput},
		// API codes pass through unchanged
		{ErrCodeNotFound, ErrCodeNotFound},
		// Unknown codes pass through unchanged
		{"CUSTOM_ERROR", "CUSTOM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestDomainErrorCodeMapping_TargetsKnownCodes(t *testing.T) {
	for domainCode, apiCode := range DomainErrorCodeMapping {
		t.Run(domainCode, func(t *testing.T) {
			_, ok := ErrorCodeHTTPStatus[apiCode]
			assert.True(t, ok, "%s maps to %s which has no HTTP status", domainCode, apiCode)
			assert.True(t, strings.HasPrefix(apiCode, "ERR_"))
		})
	}
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse(ErrCodeDocumentInvalid, "Document failed validation", "req-1", []ValidationDetail{
		{Field: "items[0].quantity", Message: "Quantity must be greater than zero"},
	})

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.NotContains(t, decoded, "data")

	errInfo := decoded["error"].(map[string]interface{})
	assert.Equal(t, ErrCodeDocumentInvalid, errInfo["code"])
	assert.Equal(t, "req-1", errInfo["request_id"])
	details := errInfo["details"].([]interface{})
	require.Len(t, details, 1)
	assert.Equal(t, "items[0].quantity", details[0].(map[string]interface{})["field"])
}

func TestNewErrorResponse_OmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(NewErrorResponse(ErrCodeNotFound, "Invoice not found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":{"code":"ERR_NOT_FOUND","message":"Invoice not found"}}`, string(data))
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"number": "INV-001"})
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

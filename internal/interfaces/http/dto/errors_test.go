package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeState, http.StatusUnprocessableEntity},
		{ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{ErrCodeCreditExceeded, http.StatusUnprocessableEntity},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeTimeout, http.StatusGatewayTimeout},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(ErrCodeState, "order is not pending", "req-1")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Error.Status)
	assert.Equal(t, "STATE", resp.Error.Code)
	assert.Equal(t, "order is not pending", resp.Error.Detail)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Nil(t, resp.Error.Details)
}

func TestNewErrorResponseWithDetails(t *testing.T) {
	details := map[string]any{"credit_limit": "10000.00", "outstanding": "9500.00"}
	resp := NewErrorResponseWithDetails(ErrCodeCreditExceeded, "credit limit exceeded", "", details)

	require.NotNil(t, resp.Error)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Error.Status)
	assert.Equal(t, details, resp.Error.Details)
	assert.Empty(t, resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	t.Run("lists fields", func(t *testing.T) {
		fields := []ValidationDetail{
			{Field: "gstin", Message: "Invalid GSTIN"},
			{Field: "items", Message: "This field is required"},
		}
		resp := NewValidationErrorResponse("Request validation failed", "req-2", fields)

		require.NotNil(t, resp.Error)
		assert.Equal(t, http.StatusBadRequest, resp.Error.Status)
		assert.Equal(t, ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, map[string]any{"fields": fields}, resp.Error.Details)
	})

	t.Run("no fields leaves details empty", func(t *testing.T) {
		resp := NewValidationErrorResponse("malformed JSON", "", nil)
		assert.Nil(t, resp.Error.Details)
	})
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		pageSize   int
		totalPages int
	}{
		{"exact pages", 40, 20, 2},
		{"partial last page", 41, 20, 3},
		{"empty", 0, 20, 0},
		{"zero page size", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewSuccessResponseWithMeta([]string{}, tt.total, 1, tt.pageSize)
			assert.True(t, resp.Success)
			require.NotNil(t, resp.Meta)
			assert.Equal(t, tt.totalPages, resp.Meta.TotalPages)
			assert.Equal(t, tt.total, resp.Meta.Total)
		})
	}
}

package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		name      string
		errorType ErrorType
		expected  string
	}{
		{"Validation", ErrorTypeValidation, "validation"},
		{"NotFound", ErrorTypeNotFound, "not_found"},
		{"Database", ErrorTypeDatabase, "database"},
		{"InvalidInput", ErrorTypeInvalidInput, "invalid_input"},
		{"Timeout", ErrorTypeTimeout, "timeout"},
		{"Authentication", ErrorTypeAuthentication, "authentication"},
		{"Conflict", ErrorTypeConflict, "conflict"},
		{"Unknown", ErrorType(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.errorType.String())
		})
	}
}

func TestErrorType_HTTPStatus(t *testing.T) {
	tests := []struct {
		name      string
		errorType ErrorType
		expected  int
	}{
		{"Validation", ErrorTypeValidation, http.StatusBadRequest},
		{"InvalidInput", ErrorTypeInvalidInput, http.StatusBadRequest},
		{"Authentication", ErrorTypeAuthentication, http.StatusUnauthorized},
		{"NotFound", ErrorTypeNotFound, http.StatusNotFound},
		{"Conflict", ErrorTypeConflict, http.StatusConflict},
		{"Database", ErrorTypeDatabase, http.StatusInternalServerError},
		{"Timeout", ErrorTypeTimeout, http.StatusServiceUnavailable},
		{"Unknown", ErrorType(999), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.errorType.HTTPStatus())
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name:     "error without cause",
			appError: &AppError{Type: ErrorTypeValidation, Message: "Timer already running"},
			expected: "validation: Timer already running",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrorTypeDatabase,
				Message: "connection failed",
				Cause:   errors.New("timeout"),
			},
			expected: "database: connection failed (caused by: timeout)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appError.Error())
		})
	}
}

func TestAppError_UnwrapAndIs(t *testing.T) {
	cause := errors.New("original error")
	appErr := &AppError{Type: ErrorTypeConflict, Code: "CONFLICT", Cause: cause}

	assert.Equal(t, cause, appErr.Unwrap())
	assert.True(t, errors.Is(appErr, cause))
	assert.True(t, errors.Is(appErr, &AppError{Type: ErrorTypeConflict, Code: "CONFLICT"}))
	assert.False(t, errors.Is(appErr, &AppError{Type: ErrorTypeValidation, Code: "CONFLICT"}))
}

func TestAppError_Context(t *testing.T) {
	appErr := &AppError{Type: ErrorTypeNotFound}

	_, ok := appErr.GetContext("project_id")
	assert.False(t, ok)

	appErr.WithContext("project_id", "p-1").WithContext("user_id", "u-1")

	value, ok := appErr.GetContext("project_id")
	assert.True(t, ok)
	assert.Equal(t, "p-1", value)
	assert.Len(t, appErr.Context, 2)
}

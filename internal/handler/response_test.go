package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"drawbook/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("repo: %w", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"inactive user", domain.ErrUserInactive, http.StatusForbidden, "USER_INACTIVE"},
		{"duplicate email", domain.ErrDuplicateEmail, http.StatusConflict, "DUPLICATE_EMAIL"},
		{"unsupported file type", domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{"file too large", domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"insufficient balance", domain.ErrInsufficientBalance, http.StatusPaymentRequired, "INSUFFICIENT_BALANCE"},
		{"parse in flight", domain.ErrParseInFlight, http.StatusConflict, "PARSE_IN_FLIGHT"},
		{"parse failed", domain.ErrParseFailed, http.StatusBadGateway, "PARSE_FAILED"},
		{"invalid notification", domain.ErrInvalidNotification, http.StatusBadRequest, "INVALID_NOTIFICATION"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, msg := MapDomainError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestMapDomainError_ParseAPIErrorKeepsMessage(t *testing.T) {
	err := fmt.Errorf("parsing: %w", &domain.ParseAPIError{Code: 101, Message: "unsupported page"})

	status, code, msg := MapDomainError(err)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "PARSE_FAILED", code)
	assert.Contains(t, msg, "unsupported page")
}

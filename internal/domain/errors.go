package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserInactive        = errors.New("user account is inactive")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds size limit")
	ErrUploadFailed        = errors.New("file upload failed")
	ErrDeleteFailed        = errors.New("file deletion failed")
	ErrInsufficientBalance = errors.New("insufficient page balance")
	ErrParseInFlight       = errors.New("parse already in progress for this file")
	ErrParseFailed         = errors.New("document parse failed")
	ErrInvalidNotification = errors.New("invalid payment notification")
	ErrOrderNotFound       = errors.New("payment order not found")
	ErrValidation          = errors.New("validation failed")
)

// ParseAPIError carries a non-zero error code returned by the layout
// parsing API.
type ParseAPIError struct {
	Code    int
	Message string
}

func (e *ParseAPIError) Error() string {
	if e.Message == "" {
		return "layout parsing api error"
	}
	return e.Message
}

// Is allows errors.Is(err, ErrParseFailed) to match API-level failures.
func (e *ParseAPIError) Is(target error) bool {
	return target == ErrParseFailed
}

package errors

import "errors"

// AppError encodes domain specific error details.
type AppError struct {
	Code        string
	Message     string
	Description string
	Err         error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	if err == nil {
		return &AppError{Code: code, Message: message}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// WithDescription attaches a user facing description to an AppError.
// Plain errors are wrapped with the internal_error code first.
func WithDescription(err error, description string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		clone := *appErr
		clone.Description = description
		return &clone
	}
	return &AppError{Code: "internal_error", Message: err.Error(), Description: description, Err: err}
}

// IsCode helps handler differentiate failures.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the code of the outermost AppError, or an empty string.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// DescriptionOf returns the description carried by err, if any.
func DescriptionOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Description
	}
	return ""
}

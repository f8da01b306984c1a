package domain

import (
	"errors"
	"fmt"
)

// Access and admission errors
// 访问与准入错误
var (
	ErrShareNotFound    = errors.New("share link not found or expired")
	ErrForbidden        = errors.New("forbidden")
	ErrAuthRequired     = errors.New("authentication required")
	ErrRateLimited      = errors.New("rate limited")
	ErrQuotaExceeded    = errors.New("daily quota exceeded")
	ErrCapacityExceeded = errors.New("concurrent participant capacity exceeded")
	ErrGeoRestricted    = errors.New("geo restricted")
	ErrSessionRequired  = errors.New("session id required")
)

// Record errors
// 记录错误
var (
	ErrValidation          = errors.New("validation failed")
	ErrListNotFound        = errors.New("todo list not found")
	ErrItemNotFound        = errors.New("todo item not found")
	ErrFileNotFound        = errors.New("file not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrCourseNotFound      = errors.New("course not found")
	ErrNotEnrolled         = errors.New("user is not enrolled in course")
	ErrFileTooLarge        = errors.New("file too large")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrPresenceNotFound    = errors.New("presence not found")
)

// ValidationError carries the offending field, errors.Is matches ErrValidation
// ValidationError 携带出错字段，可用 errors.Is 匹配 ErrValidation
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

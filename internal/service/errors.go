package service

import (
	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/pkg/code"

	"github.com/pkg/errors"
)

var errorCodes = []struct {
	err  error
	code *code.Code
}{
	{domain.ErrShareNotFound, code.ErrorShareNotFound},
	{domain.ErrAuthRequired, code.ErrorAuthRequired},
	{domain.ErrForbidden, code.ErrorForbidden},
	{domain.ErrRateLimited, code.ErrorRateLimited},
	{domain.ErrQuotaExceeded, code.ErrorDailyQuota},
	{domain.ErrCapacityExceeded, code.ErrorCapacityExceeded},
	{domain.ErrGeoRestricted, code.ErrorGeoRestricted},
	{domain.ErrSessionRequired, code.ErrorSessionIDRequired},
	{domain.ErrListNotFound, code.ErrorTodoListNotFound},
	{domain.ErrItemNotFound, code.ErrorTodoItemNotFound},
	{domain.ErrFileNotFound, code.ErrorFileNotFound},
	{domain.ErrUserNotFound, code.ErrorUserNotFound},
	{domain.ErrCourseNotFound, code.ErrorNotEnrolled},
	{domain.ErrNotEnrolled, code.ErrorNotEnrolled},
	{domain.ErrFileTooLarge, code.ErrorFileTooLarge},
}

// ErrorCode maps a service error to its response code
// Anything unrecognised becomes ErrorServerInternal without detail
// ErrorCode 将服务错误映射为响应码，未识别的错误统一返回 ErrorServerInternal 且不带详情
func ErrorCode(err error) *code.Code {
	if err == nil {
		return code.Success
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return code.ErrorInvalidParams.WithDetails(verr.Error())
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return code.ErrorServerInternal
}

// IsInternal reports whether err maps to the generic 500
// IsInternal 判断错误是否为内部错误
func IsInternal(err error) bool {
	return ErrorCode(err) == code.ErrorServerInternal
}

package service

import (
	"testing"

	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/pkg/code"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want *code.Code
	}{
		{"nil", nil, code.Success},
		{"share not found", domain.ErrShareNotFound, code.ErrorShareNotFound},
		{"wrapped", errors.Wrap(domain.ErrRateLimited, "admit"), code.ErrorRateLimited},
		{"auth required", domain.ErrAuthRequired, code.ErrorAuthRequired},
		{"daily", domain.ErrQuotaExceeded, code.ErrorDailyQuota},
		{"capacity", domain.ErrCapacityExceeded, code.ErrorCapacityExceeded},
		{"geo", domain.ErrGeoRestricted, code.ErrorGeoRestricted},
		{"too large", domain.ErrFileTooLarge, code.ErrorFileTooLarge},
		{"unknown", errors.New("connection reset"), code.ErrorServerInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want.Code(), ErrorCode(tt.err).Code())
		})
	}

	c := ErrorCode(errors.Wrap(domain.NewValidationError("title", "is required"), "create"))
	assert.Equal(t, code.ErrorInvalidParams.Code(), c.Code())
	assert.True(t, c.HaveDetails())
	assert.False(t, ErrorCode(domain.ErrValidation).HaveDetails())

	assert.True(t, IsInternal(errors.New("boom")))
	assert.False(t, IsInternal(domain.ErrForbidden))
	assert.Equal(t, 503, ErrorCode(domain.ErrCapacityExceeded).StatusCode())
	assert.Equal(t, 429, ErrorCode(domain.ErrRateLimited).StatusCode())
}

package service

import (
	"context"
	"strings"

	"github.com/haierkeys/uni-task-service/internal/domain"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// UserService defines the narrow user interface used by the token command
// UserService 定义 token 命令使用的用户接口
type UserService interface {
	// Ensure returns the user with email, creating it when missing
	// Ensure 返回指定邮箱的用户，不存在时创建
	Ensure(ctx context.Context, email, name string) (*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
}

type userService struct {
	users  domain.UserRepository
	logger *zap.Logger
}

// NewUserService creates UserService instance
// NewUserService 创建 UserService 实例
func NewUserService(users domain.UserRepository, logger *zap.Logger) UserService {
	return &userService{users: users, logger: logger}
}

func (s *userService) Ensure(ctx context.Context, email, name string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.NewValidationError("email", "email is required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, errors.Wrap(err, "load user")
	}
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	u = &domain.User{Name: name, Email: email}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, errors.Wrap(err, "create user")
	}
	s.logger.Info("user created", zap.Int64("uid", u.ID), zap.String("email", u.Email))
	return u, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.Wrap(err, "load user")
	}
	return u, nil
}

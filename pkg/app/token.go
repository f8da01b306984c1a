package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// 默认 Token 签发者
const DefaultTokenIssuer = "uni-task-service"

// UserTokenKey gin context key holding the parsed *UserEntity
// UserTokenKey 解析后的用户信息在 gin.Context 中的键
const UserTokenKey = "user_token"

// TokenConfig 定义 Token 管理器的配置
type TokenConfig struct {
	SecretKey string        // JWT 签名密钥
	Expiry    time.Duration // Token 过期时间，默认 7 天
	Issuer    string        // Token 签发者
}

// TokenManager 定义 Token 管理接口
type TokenManager interface {
	Generate(uid int64, email, ip string) (string, error)
	Parse(token string) (*UserEntity, error)
}

type tokenManager struct {
	config TokenConfig
}

// NewTokenManager 创建一个新的 TokenManager 实例
func NewTokenManager(cfg TokenConfig) TokenManager {
	if cfg.Expiry == 0 {
		cfg.Expiry = 7 * 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultTokenIssuer
	}
	return &tokenManager{config: cfg}
}

// UserEntity represents the user data stored in the JWT.
type UserEntity struct {
	UID   int64  `json:"uid"`
	Email string `json:"email"`
	IP    string `json:"ip"`
	jwt.RegisteredClaims
}

// Generate 生成一个新的 JWT Token
func (t *tokenManager) Generate(uid int64, email, ip string) (string, error) {
	now := time.Now()
	claims := &UserEntity{
		UID:   uid,
		Email: email,
		IP:    ip,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.config.Expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    t.config.Issuer,
			Subject:   "user-token",
			ID:        fmt.Sprintf("%d", uid),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(t.config.SecretKey))
}

// Parse 解析 JWT Token 并返回用户信息
func (t *tokenManager) Parse(token string) (*UserEntity, error) {
	claims := &UserEntity{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(t.config.SecretKey), nil
	}, jwt.WithIssuer(t.config.Issuer))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.UID <= 0 {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// GetUID extracts the user ID from the request context, 0 when anonymous
// GetUID 从请求上下文获取用户 ID，匿名时返回 0
func GetUID(ctx *gin.Context) (out int64) {
	if user, exist := ctx.Get(UserTokenKey); exist {
		if userEntity, ok := user.(*UserEntity); ok {
			out = userEntity.UID
		}
	}
	return
}

// GetRequester returns a pointer to the user ID, nil for anonymous requests
// GetRequester 返回用户 ID 指针，匿名请求返回 nil
func GetRequester(ctx *gin.Context) *int64 {
	uid := GetUID(ctx)
	if uid <= 0 {
		return nil
	}
	return &uid
}

package app

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_GenerateAndParse(t *testing.T) {
	tm := NewTokenManager(TokenConfig{SecretKey: "user-secret", Expiry: time.Hour, Issuer: "test-issuer"})

	token, err := tm.Generate(1001, "a@example.com", "10.0.0.1")
	require.NoError(t, err)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), claims.UID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "10.0.0.1", claims.IP)

	// 错误的密钥
	other := NewTokenManager(TokenConfig{SecretKey: "wrong-secret", Issuer: "test-issuer"})
	_, err = other.Parse(token)
	assert.Error(t, err)

	// 篡改后的 Token
	_, err = tm.Parse(token + "tampered")
	assert.Error(t, err)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager(TokenConfig{SecretKey: "k", Expiry: -time.Minute})
	token, err := tm.Generate(7, "", "")
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.Error(t, err)
}

func TestGetRequester(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetRequester(c))
	assert.Equal(t, int64(0), GetUID(c))

	c.Set(UserTokenKey, &UserEntity{UID: 42})
	require.NotNil(t, GetRequester(c))
	assert.Equal(t, int64(42), *GetRequester(c))
}

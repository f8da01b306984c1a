package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/internal/service"
	"github.com/haierkeys/uni-task-service/pkg/app"
	"github.com/haierkeys/uni-task-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockResolver struct {
	grant    *domain.ShareGrant
	grantErr error
	access   *service.Access
	err      error
	action   domain.Action
}

func (m *mockResolver) Grant(context.Context, string) (*domain.ShareGrant, error) {
	return m.grant, m.grantErr
}

func (m *mockResolver) Resolve(_ context.Context, _ string, _ *int64, action domain.Action) (*service.Access, error) {
	m.action = action
	return m.access, m.err
}

type mockGuard struct {
	adm *service.Admission
	err error
	req service.AdmitRequest
}

func (m *mockGuard) Admit(_ context.Context, req service.AdmitRequest) (*service.Admission, error) {
	m.req = req
	return m.adm, m.err
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": app.GetUID(c), "trace": GetTraceIDFromGin(c), "lang": c.GetString(app.LangKey)})
	})
	r.GET("/t/:token", handlers...)
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUserAuth(t *testing.T) {
	tm := app.NewTokenManager(app.TokenConfig{SecretKey: "k"})
	token, err := tm.Generate(9, "a@uni.test", "")
	require.NoError(t, err)

	optional := newEngine(UserAuthOptional(tm))
	w := do(optional, httptest.NewRequest(http.MethodGet, "/t/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uid":0`)

	req := httptest.NewRequest(http.MethodGet, "/t/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = do(optional, req)
	assert.Contains(t, w.Body.String(), `"uid":9`)

	// 无效 Token 在可选认证下按匿名处理
	req = httptest.NewRequest(http.MethodGet, "/t/x", nil)
	req.Header.Set("Authorization", "Bearer broken")
	w = do(optional, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uid":0`)

	required := newEngine(UserAuthRequired(tm))
	w = do(required, httptest.NewRequest(http.MethodGet, "/t/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/t/x", nil)
	req.Header.Set("Authorization", "broken")
	w = do(required, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(required, httptest.NewRequest(http.MethodGet, "/t/x?token="+token, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uid":9`)
}

func TestQuotaGuard_Headers(t *testing.T) {
	grant := &domain.ShareGrant{ID: 1, TodoListID: 2, Token: "abc123", IsActive: true}
	resolver := &mockResolver{grant: grant}
	guard := &mockGuard{adm: &service.Admission{RateCount: 3, RateLimit: 30, DailyCount: 10, DailyLimit: 100}}
	r := newEngine(QuotaGuard(resolver, guard, true, zap.NewNop()))

	w := do(r, httptest.NewRequest(http.MethodGet, "/t/abc123", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "30", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "27", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "90", w.Header().Get("X-Daily-Remaining"))
	assert.True(t, guard.req.Joining)
	assert.Equal(t, grant, guard.req.Grant)

	guard.adm = &service.Admission{RateCount: 31, RateLimit: 30}
	guard.err = domain.ErrRateLimited
	w = do(r, httptest.NewRequest(http.MethodGet, "/t/abc123", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	guard.adm, guard.err = nil, domain.ErrCapacityExceeded
	w = do(r, httptest.NewRequest(http.MethodGet, "/t/abc123", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	resolver.grantErr = domain.ErrShareNotFound
	w = do(r, httptest.NewRequest(http.MethodGet, "/t/abc123", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShareAccess(t *testing.T) {
	resolver := &mockResolver{err: domain.ErrAuthRequired}
	r := newEngine(ShareAccess(resolver, domain.ActionEdit, zap.NewNop()), func(c *gin.Context) {
		assert.NotNil(t, GetAccess(c))
		c.Next()
	})

	w := do(r, httptest.NewRequest(http.MethodGet, "/t/abc123", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, domain.ActionEdit, resolver.action)
	assert.Contains(t, w.Body.String(), `"success":false`)

	resolver.err = nil
	resolver.access = &service.Access{Grant: &domain.ShareGrant{TodoListID: 2}}
	w = do(r, httptest.NewRequest(http.MethodGet, "/t/abc123", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecovery(t *testing.T) {
	r := newEngine(Recovery(zap.NewNop()), func(c *gin.Context) { panic("secret detail") })
	w := do(r, httptest.NewRequest(http.MethodGet, "/t/x", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret detail")
}

func TestTracerAndLang(t *testing.T) {
	r := newEngine(Tracer(TracerConfig{}), Lang(nil))

	req := httptest.NewRequest(http.MethodGet, "/t/x", nil)
	req.Header.Set(DefaultTraceIDHeader, "trace-1")
	req.Header.Set("Accept-Language", "id-ID,id;q=0.9")
	w := do(r, req)
	assert.Equal(t, "trace-1", w.Header().Get(DefaultTraceIDHeader))
	assert.Contains(t, w.Body.String(), `"trace":"trace-1"`)
	assert.Contains(t, w.Body.String(), `"lang":"id"`)

	w = do(r, httptest.NewRequest(http.MethodGet, "/t/x?lang=fr", nil))
	assert.NotEmpty(t, w.Header().Get(DefaultTraceIDHeader))
	assert.Contains(t, w.Body.String(), `"lang":"en"`)
}

func TestRateLimiter(t *testing.T) {
	l := limiter.NewMethodLimiter().AddBuckets(limiter.BucketRule{Key: "/t/:token", FillInterval: time.Hour, Capacity: 1})
	r := newEngine(RateLimiter(l))

	assert.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodGet, "/t/x", nil)).Code)
	w := do(r, httptest.NewRequest(http.MethodGet, "/t/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestNoFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoRoute(NoFound())
	r.NoMethod(NoMethod())
	r.GET("/only-get", func(c *gin.Context) {})

	assert.Equal(t, http.StatusNotFound, do(r, httptest.NewRequest(http.MethodGet, "/missing", nil)).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(r, httptest.NewRequest(http.MethodPost, "/only-get", nil)).Code)
}

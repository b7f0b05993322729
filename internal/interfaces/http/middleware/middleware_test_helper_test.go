package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"cardano-explorer.backend/internal/domain/entities"
	"cardano-explorer.backend/pkg/jwt"
	"cardano-explorer.backend/pkg/redis"
)

func newTestEngine(middlewares ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middlewares...)
	return r
}

func perform(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Skipf("skip: miniredis unavailable in this environment: %v", err)
	}
	t.Cleanup(mr.Close)
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { redis.SetClient(nil) })
	return mr
}

type stubVerifier struct {
	claims *jwt.Claims
	err    error
}

func (s stubVerifier) Verify(token string) (*jwt.Claims, error) {
	return s.claims, s.err
}

type stubUsers struct {
	calls int
	err   error
}

func (s *stubUsers) EnsureUser(ctx context.Context, identity entities.Identity) (*entities.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &entities.User{ID: identity.UserID, Email: identity.Email}, nil
}

func withIdentity(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(IdentityKey, &entities.Identity{UserID: userID})
		c.Next()
	}
}

package middleware

import (
	"errors"
	"net/http"
	"testing"

	gjwt "github.com/golang-jwt/jwt/v5"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"cardano-explorer.backend/pkg/jwt"
)

func identityEcho(c *gin.Context) {
	identity, ok := GetIdentity(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": identity.UserID, "email": identity.Email})
}

func TestAuthenticate_AttachesIdentity(t *testing.T) {
	users := &stubUsers{}
	verifier := stubVerifier{claims: &jwt.Claims{Email: "a@mail.com", RegisteredClaims: gjwt.RegisteredClaims{Subject: "sub-1"}}}
	r := newTestEngine(Authenticate(verifier, users))
	r.GET("/me", identityEcho)

	rec := perform(r, http.MethodGet, "/me", map[string]string{AuthorizationHeader: "Bearer token"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":"sub-1","email":"a@mail.com"}`, rec.Body.String())
	assert.Equal(t, 1, users.calls)
}

func TestAuthenticate_NeverRejects(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		verifier stubVerifier
		users    *stubUsers
	}{
		{name: "no header", users: &stubUsers{}},
		{name: "not bearer", header: "Basic abc", users: &stubUsers{}},
		{name: "bad token", header: "Bearer broken", verifier: stubVerifier{err: jwt.ErrInvalidToken}, users: &stubUsers{}},
		{
			name:     "user sync fails",
			header:   "Bearer token",
			verifier: stubVerifier{claims: &jwt.Claims{RegisteredClaims: gjwt.RegisteredClaims{Subject: "sub-1"}}},
			users:    &stubUsers{err: errors.New("db down")},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestEngine(Authenticate(tc.verifier, tc.users))
			r.GET("/me", identityEcho)

			rec := perform(r, http.MethodGet, "/me", map[string]string{AuthorizationHeader: tc.header})
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"user":null}`, rec.Body.String())
		})
	}
}

func TestRequireAuth(t *testing.T) {
	r := newTestEngine()
	r.GET("/anon", RequireAuth(), identityEcho)
	r.GET("/authed", withIdentity("sub-1"), RequireAuth(), identityEcho)

	rec := perform(r, http.MethodGet, "/anon", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Authentication required","message":"Please log in to access this resource"}`, rec.Body.String())

	rec = perform(r, http.MethodGet, "/authed", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func newRouter(issuer *TokenIssuer) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Observe())
	r.GET("/me", issuer.JWTAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": UserID(c), "name": UserName(c)})
	})
	return r
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthAcceptsIssuedToken(t *testing.T) {
	issuer := NewTokenIssuer("secret", 7*24*time.Hour)
	token, err := issuer.Issue("u-1", "Ada")
	require.NoError(t, err)

	w := get(newRouter(issuer), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":"u-1","name":"Ada"}`, w.Body.String())
	assert.Empty(t, w.Header().Get("X-New-Token"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestJWTAuthRejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	other, _ := NewTokenIssuer("other", time.Hour).Issue("u-1", "Ada")

	r := newRouter(issuer)
	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, other).Code)
}

func TestJWTAuthRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := issuer.Issue("u-1", "Ada")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(newRouter(NewTokenIssuer("secret", time.Hour)), token).Code)
}

func TestJWTAuthRenewsNearExpiry(t *testing.T) {
	issuer := NewTokenIssuer("secret", 2*time.Hour)
	token, err := issuer.Issue("u-1", "Ada")
	require.NoError(t, err)

	w := get(newRouter(issuer), token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-New-Token"))
}

func TestRequestIDPropagates(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Body.String())
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}

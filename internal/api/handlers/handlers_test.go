package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamehall/backend/internal/auth"
	"github.com/gamehall/backend/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(handler gin.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router := gin.New()
	router.Any("/x", handler)
	req.URL.Path = "/x"
	router.ServeHTTP(w, req)
	return w
}

func TestHelloWithoutSession(t *testing.T) {
	a := auth.New(nil, nil)
	cfg := &config.Config{JWTSecret: "secret"}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	w := perform(Hello(a, cfg), req)
	assert.Equal(t, "PLEASE_LOG_IN", w.Body.String())

	// A stale zero token is just as unauthenticated.
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.AddCookie(&http.Cookie{Name: "sessdata", Value: "0"})
	w = perform(Hello(a, cfg), req)
	assert.Equal(t, "PLEASE_LOG_IN", w.Body.String())
}

func TestHelloAcceptsBearerToken(t *testing.T) {
	a := auth.New(nil, nil)
	cfg := &config.Config{JWTSecret: "secret"}

	token, err := mintToken(cfg.JWTSecret, 42, "alice", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := perform(Hello(a, cfg), req)
	assert.Equal(t, "Hello, #42 alice!", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = perform(Hello(a, cfg), req)
	assert.Equal(t, "PLEASE_LOG_IN", w.Body.String())
}

func TestRegisterValidationTokens(t *testing.T) {
	a := auth.New(nil, nil)

	body := strings.NewReader(`{"user_name":"","password":"pw"}`)
	req := httptest.NewRequest(http.MethodPost, "/x", body)
	w := perform(Register(a), req)
	assert.Equal(t, "USERNAME_INVALID", w.Body.String())

	body = strings.NewReader(`{"user_name":"alice","password":""}`)
	req = httptest.NewRequest(http.MethodPost, "/x", body)
	w = perform(Register(a), req)
	assert.Equal(t, "PASSWORD_EMPTY", w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("not json"))
	w = perform(Register(a), req)
	assert.Equal(t, "FAILED", w.Body.String())
}

func TestGetUserInfoRequiresID(t *testing.T) {
	a := auth.New(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	w := perform(GetUserInfo(a), req)
	assert.Equal(t, "MISS_PARAMS", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/x?id=abc", nil)
	w = perform(GetUserInfo(a), req)
	assert.Equal(t, "MISS_PARAMS", w.Body.String())
}

func TestIconRequiresLookupKey(t *testing.T) {
	a := auth.New(nil, nil)
	cfg := &config.Config{IconDir: t.TempDir()}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	w := perform(Icon(a, cfg), req)
	assert.Equal(t, "MISS_PARAMS", w.Body.String())
}

func TestLogOutWithoutCookie(t *testing.T) {
	a := auth.New(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	w := perform(LogOut(a), req)
	assert.Equal(t, "PLEASE_LOG_IN", w.Body.String())
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := mintToken("secret", 42, "alice", time.Hour)
	require.NoError(t, err)

	id, userName, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "alice", userName)

	_, _, err = ParseToken("wrong-secret", token)
	assert.Error(t, err)
}

func TestTokenExpiry(t *testing.T) {
	token, err := mintToken("secret", 42, "alice", -time.Minute)
	require.NoError(t, err)

	_, _, err = ParseToken("secret", token)
	assert.Error(t, err)
}

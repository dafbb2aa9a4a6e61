package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gamehall/backend/internal/auth"
	"github.com/gamehall/backend/internal/config"
)

// Responses are plain-text result tokens, matching what the frontends
// already parse.

// sessionUser resolves the caller from the sessdata cookie, falling
// back to a bearer token, and answers PLEASE_LOG_IN itself when both
// fail.
func sessionUser(c *gin.Context, authorizer *auth.Authorizer, cfg *config.Config) (int64, string, bool) {
	if token, ok := sessdataCookie(c); ok {
		if id, userName, res := authorizer.Authorize(token); res == auth.Success {
			return id, userName, true
		}
	}
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		if id, userName, err := ParseToken(cfg.JWTSecret, strings.TrimPrefix(header, "Bearer ")); err == nil {
			return id, userName, true
		}
	}
	c.String(http.StatusOK, "PLEASE_LOG_IN")
	return 0, "", false
}

func sessdataCookie(c *gin.Context) (uint32, bool) {
	raw, err := c.Cookie("sessdata")
	if err != nil {
		return 0, false
	}
	token, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(token), true
}

// setAuthCookies installs the session cookies plus a signed token for
// clients that prefer header auth.
func setAuthCookies(c *gin.Context, cfg *config.Config, sessdata uint32, userName string, id int64) {
	maxAge := cfg.CookieMaxAge
	c.SetCookie("sessdata", strconv.FormatUint(uint64(sessdata), 10), maxAge, "/", "", false, false)
	c.SetCookie("user_name", userName, maxAge, "/", "", false, false)
	c.SetCookie("id", strconv.FormatInt(id, 10), maxAge, "/", "", false, false)

	if token, err := mintToken(cfg.JWTSecret, id, userName, time.Duration(maxAge)*time.Second); err == nil {
		c.SetCookie("token", token, maxAge, "/", "", false, true)
	}
}

package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gamehall/backend/internal/auth"
	"github.com/gamehall/backend/internal/config"
)

type credentials struct {
	UserName string `json:"user_name"`
	ID       int64  `json:"id"`
	Password string `json:"password"`
}

// Hello greets the logged-in caller; it doubles as a session probe.
func Hello(authorizer *auth.Authorizer, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, userName, ok := sessionUser(c, authorizer, cfg)
		if !ok {
			return
		}
		c.String(http.StatusOK, "Hello, #%d %s!", id, userName)
	}
}

func Register(authorizer *auth.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body credentials
		if err := c.ShouldBindJSON(&body); err != nil {
			c.String(http.StatusOK, string(auth.Failed))
			return
		}
		res := authorizer.Register(body.UserName, body.Password)
		if res == auth.Success {
			log.Printf("[API] Created new user %q", body.UserName)
		}
		c.String(http.StatusOK, string(res))
	}
}

func LogIn(authorizer *auth.Authorizer, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body credentials
		if err := c.ShouldBindJSON(&body); err != nil {
			c.String(http.StatusOK, string(auth.Failed))
			return
		}
		if !authorizer.AllowLogin(body.UserName, time.Duration(cfg.LoginRateLimitSeconds)*time.Second) {
			log.Printf("[API] Login rate limited for %q", body.UserName)
			c.String(http.StatusOK, string(auth.Failed))
			return
		}

		id, sessdata, res := authorizer.LogInByName(body.UserName, body.Password)
		if res != auth.Success {
			c.String(http.StatusOK, string(res))
			return
		}
		setAuthCookies(c, cfg, sessdata, body.UserName, id)
		log.Printf("[API] User %q(#%d) logged in", body.UserName, id)
		c.String(http.StatusOK, string(auth.Success))
	}
}

func LogInByID(authorizer *auth.Authorizer, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body credentials
		if err := c.ShouldBindJSON(&body); err != nil {
			c.String(http.StatusOK, string(auth.Failed))
			return
		}
		if !authorizer.AllowLogin(strconv.FormatInt(body.ID, 10), time.Duration(cfg.LoginRateLimitSeconds)*time.Second) {
			log.Printf("[API] Login rate limited for #%d", body.ID)
			c.String(http.StatusOK, string(auth.Failed))
			return
		}

		userName, sessdata, res := authorizer.LogInByID(body.ID, body.Password)
		if res != auth.Success {
			c.String(http.StatusOK, string(res))
			return
		}
		setAuthCookies(c, cfg, sessdata, userName, body.ID)
		log.Printf("[API] User %q(#%d) logged in", userName, body.ID)
		c.String(http.StatusOK, string(auth.Success))
	}
}

func LogOut(authorizer *auth.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := sessdataCookie(c)
		if !ok {
			c.String(http.StatusOK, "PLEASE_LOG_IN")
			return
		}
		if authorizer.LogOut(token) == auth.Success {
			c.String(http.StatusOK, "Successfully logged out.")
		} else {
			c.String(http.StatusOK, "Failed to log out.")
		}
	}
}

package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gamehall/backend/internal/auth"
	"github.com/gamehall/backend/internal/config"
)

func SetName(authorizer *auth.Authorizer, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, oldName, ok := sessionUser(c, authorizer, cfg)
		if !ok {
			return
		}
		var body struct {
			UserName string `json:"user_name"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.String(http.StatusOK, string(auth.Failed))
			return
		}
		res := authorizer.SetUserName(id, body.UserName)
		if res == auth.Success {
			c.SetCookie("user_name", body.UserName, cfg.CookieMaxAge, "/", "", false, false)
			log.Printf("[API] User %q(#%d) changed name to %q", oldName, id, body.UserName)
		}
		c.String(http.StatusOK, string(res))
	}
}

func SetSlogan(authorizer *auth.Authorizer, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, userName, ok := sessionUser(c, authorizer, cfg)
		if !ok {
			return
		}
		var body struct {
			Slogan string `json:"slogan"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.String(http.StatusOK, string(auth.Failed))
			return
		}
		res := authorizer.SetSlogan(id, body.Slogan)
		if res == auth.Success {
			log.Printf("[API] User %q(#%d) changed slogan", userName, id)
		}
		c.String(http.StatusOK, string(res))
	}
}

// UploadIcon stores the first uploaded file as the caller's avatar.
func UploadIcon(authorizer *auth.Authorizer, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, userName, ok := sessionUser(c, authorizer, cfg)
		if !ok {
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.String(http.StatusOK, "SET_ICON_FAILED")
			return
		}
		var fileName string
		for _, headers := range form.File {
			if len(headers) == 0 {
				continue
			}
			header := headers[0]
			ext := filepath.Ext(header.Filename)
			if ext == "" {
				ext = ".png"
			}
			fileName = fmt.Sprintf("%d%s", id, ext)
			if err := os.MkdirAll(cfg.IconDir, 0o755); err != nil {
				c.String(http.StatusOK, "SET_ICON_FAILED")
				return
			}
			if err := c.SaveUploadedFile(header, filepath.Join(cfg.IconDir, fileName)); err != nil {
				c.String(http.StatusOK, "SET_ICON_FAILED")
				return
			}
			break
		}
		if fileName == "" {
			c.String(http.StatusOK, "SET_ICON_FAILED")
			return
		}

		if res := authorizer.SetIcon(id, fileName); res != auth.Success {
			c.String(http.StatusOK, "SET_ICON_FAILED")
			return
		}
		log.Printf("[API] User %q(#%d) uploaded a new icon", userName, id)
		c.String(http.StatusOK, string(auth.Success))
	}
}

// Icon serves an avatar looked up by id or user_name.
func Icon(authorizer *auth.Authorizer, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var icon string
		var res auth.Result

		if raw, ok := c.GetQuery("id"); ok {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				c.String(http.StatusOK, "MISS_PARAMS")
				return
			}
			icon, res = authorizer.GetIcon(id)
		} else if userName, ok := c.GetQuery("user_name"); ok {
			icon, res = authorizer.GetIconByName(userName)
		} else {
			c.String(http.StatusOK, "MISS_PARAMS")
			return
		}

		if res != auth.Success || icon == "" {
			c.Status(http.StatusNotFound)
			return
		}
		c.File(filepath.Join(cfg.IconDir, icon))
	}
}

func GetUserInfo(authorizer *auth.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := c.GetQuery("id")
		if !ok {
			c.String(http.StatusOK, "MISS_PARAMS")
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.String(http.StatusOK, "MISS_PARAMS")
			return
		}
		user, res := authorizer.GetUserInfo(id)
		if res != auth.Success {
			c.String(http.StatusOK, string(res))
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

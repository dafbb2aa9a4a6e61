package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gamehall/backend/internal/auth"
	"github.com/gamehall/backend/internal/chat"
	"github.com/gamehall/backend/internal/config"
)

// GetChatHistory returns the caller's recent whispers bucketed by
// friend id, paging back from latest_timestamp.
func GetChatHistory(authorizer *auth.Authorizer, history *chat.History, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _, ok := sessionUser(c, authorizer, cfg)
		if !ok {
			return
		}
		before := history.Timestamp()
		if raw, ok := c.GetQuery("latest_timestamp"); ok {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				c.String(http.StatusOK, "MISS_PARAMS")
				return
			}
			before = parsed
		}
		c.JSON(http.StatusOK, history.GetChatMessages(id, before))
	}
}

// GetChatHistory20 pages one conversation, twenty messages at a time.
func GetChatHistory20(authorizer *auth.Authorizer, history *chat.History, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _, ok := sessionUser(c, authorizer, cfg)
		if !ok {
			return
		}
		rawBefore, okBefore := c.GetQuery("latest_timestamp")
		rawFriend, okFriend := c.GetQuery("friend_id")
		if !okBefore || !okFriend {
			c.String(http.StatusOK, "MISS_PARAMS")
			return
		}
		before, err := strconv.ParseInt(rawBefore, 10, 64)
		if err != nil {
			c.String(http.StatusOK, "MISS_PARAMS")
			return
		}
		friendID, err := strconv.ParseInt(rawFriend, 10, 64)
		if err != nil {
			c.String(http.StatusOK, "MISS_PARAMS")
			return
		}
		c.JSON(http.StatusOK, history.Get20ChatMessages(id, friendID, before))
	}
}

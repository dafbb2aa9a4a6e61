package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gamehall/backend/internal/auth"
	"github.com/gamehall/backend/internal/config"
)

func FriendRequest(authorizer *auth.Authorizer, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, userName, ok := sessionUser(c, authorizer, cfg)
		if !ok {
			return
		}
		var body struct {
			RequesteeID int64 `json:"requestee_id"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.String(http.StatusOK, string(auth.Failed))
			return
		}
		res := authorizer.RaiseFriendRequest(id, body.RequesteeID)
		if res == auth.Success {
			log.Printf("[API] User %q(#%d) sent a friend request to #%d", userName, id, body.RequesteeID)
		}
		c.String(http.StatusOK, string(res))
	}
}

func GetFriendRequests(authorizer *auth.Authorizer, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _, ok := sessionUser(c, authorizer, cfg)
		if !ok {
			return
		}
		requests, res := authorizer.GetFriendRequests(id)
		if res != auth.Success {
			c.String(http.StatusOK, string(res))
			return
		}
		c.JSON(http.StatusOK, requests)
	}
}

func HandleFriendRequest(authorizer *auth.Authorizer, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, userName, ok := sessionUser(c, authorizer, cfg)
		if !ok {
			return
		}
		var body struct {
			RequesterID int64 `json:"requester_id"`
			Accept      bool  `json:"accept"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.String(http.StatusOK, string(auth.Failed))
			return
		}

		var res auth.Result
		if body.Accept {
			res = authorizer.AcceptFriendRequest(id, body.RequesterID)
			if res == auth.Success {
				log.Printf("[API] User %q(#%d) accepted friend request from #%d", userName, id, body.RequesterID)
			}
		} else {
			res = authorizer.RemoveFriendRequest(id, body.RequesterID)
		}
		c.String(http.StatusOK, string(res))
	}
}

func GetFriendList(authorizer *auth.Authorizer, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _, ok := sessionUser(c, authorizer, cfg)
		if !ok {
			return
		}
		friends, res := authorizer.GetFriendList(id)
		if res != auth.Success {
			c.String(http.StatusOK, string(res))
			return
		}
		c.JSON(http.StatusOK, friends)
	}
}

package api

import (
	"github.com/gin-gonic/gin"

	"github.com/gamehall/backend/internal/api/handlers"
	"github.com/gamehall/backend/internal/auth"
	"github.com/gamehall/backend/internal/chat"
	"github.com/gamehall/backend/internal/config"
	"github.com/gamehall/backend/internal/middleware"
	"github.com/gamehall/backend/internal/ws"
)

// SetupRoutes configures the HTTP surface and the WebSocket endpoint.
func SetupRoutes(router *gin.Engine, authorizer *auth.Authorizer, history *chat.History, hub *ws.Hub, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware())

	router.GET("/ws", hub.ServeWS)

	router.GET("/hello", handlers.Hello(authorizer, cfg))
	router.POST("/register", handlers.Register(authorizer))
	router.POST("/login", handlers.LogIn(authorizer, cfg))
	router.POST("/login-byid", handlers.LogInByID(authorizer, cfg))
	router.GET("/logout", handlers.LogOut(authorizer))

	router.POST("/set-name", handlers.SetName(authorizer, cfg))
	router.POST("/set-slogan", handlers.SetSlogan(authorizer, cfg))
	router.POST("/upload-icon", handlers.UploadIcon(authorizer, cfg))
	router.GET("/icon", handlers.Icon(authorizer, cfg))
	router.Static("/user-icon", cfg.IconDir)
	router.GET("/get-user-info", handlers.GetUserInfo(authorizer))

	router.POST("/friend-request", handlers.FriendRequest(authorizer, cfg))
	router.GET("/get-friend-requests", handlers.GetFriendRequests(authorizer, cfg))
	router.POST("/handle-friend-request", handlers.HandleFriendRequest(authorizer, cfg))
	router.GET("/get-friend-list", handlers.GetFriendList(authorizer, cfg))

	router.GET("/get-chat-history", handlers.GetChatHistory(authorizer, history, cfg))
	router.GET("/get-chat-history-20", handlers.GetChatHistory20(authorizer, history, cfg))
}

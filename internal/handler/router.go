package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sudhakarkatam/foliochat/internal/middleware"
)

type RouterDeps struct {
	Chat       *ChatHandler
	Refresh    *RefreshHandler
	Health     *HealthHandler
	AdminToken string
}

func RegisterRoutes(r *gin.Engine, deps RouterDeps) {
	r.GET("/healthz", deps.Health.Health)

	r.POST("/api/gemini", deps.Chat.Gemini)
	r.POST("/api/openrouter", deps.Chat.OpenRouter)
	r.POST("/functions/chat", deps.Chat.Chat)

	admin := r.Group("")
	admin.Use(middleware.RateLimit(10*time.Second), middleware.AdminToken(deps.AdminToken))
	admin.POST("/api/refresh-embeddings", deps.Refresh.Refresh)
}

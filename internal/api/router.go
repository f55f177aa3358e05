package api

import (
	"airdrop_backend/internal/middleware"
	"airdrop_backend/internal/service"
	"airdrop_backend/pkg/auth"

	"github.com/gin-gonic/gin"
)

const apiPrefix = "/api"

// NewRouter mounts the progress ledger and the bot webhook under /api. The two
// share the engine and nothing else.
func NewRouter(ls service.LedgerServiceI, a *auth.TelegramAuth, queue UpdateQueue, botName string) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(MethodNotAllowed)
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.RequestLogger(),
		PathCORS(apiPrefix+AirdropPath),
	)

	g := router.Group(apiPrefix)
	NewAirdropRoutes(g, ls, a)
	NewWebhookRoutes(g, queue, botName)

	return router
}

package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterPortfolioRoutes wires the portfolio endpoints onto the router.
func RegisterPortfolioRoutes(router *gin.Engine, handler *PortfolioHandler) {
	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/health", handler.HealthHandler)
		apiGroup.GET("/wallets", handler.GetWalletsHandler)
		apiGroup.GET("/portfolio/refresh", handler.RefreshHandler)
		apiGroup.GET("/portfolio/cached", handler.GetCachedHandler)
		apiGroup.GET("/portfolio/history", handler.GetHistoryHandler)
	}
}

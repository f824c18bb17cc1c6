package api

import (
	"net/http"
	"strconv"

	"portfolio_checker/internal/entity"
	"portfolio_checker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultHistoryHours = 24

// RefreshResponse is the wire shape of a fleet refresh.
type RefreshResponse struct {
	Success   bool                       `json:"success"`
	Data      []entity.PortfolioSnapshot `json:"data"`
	Total     decimal.Decimal            `json:"total"`
	Timestamp int64                      `json:"timestamp"`
}

// CachedResponse is the wire shape of the current fleet view.
type CachedResponse struct {
	Wallets             []entity.PortfolioSnapshot `json:"wallets"`
	TotalPortfolio      decimal.Decimal            `json:"total_portfolio"`
	TotalUsdcBalance    decimal.Decimal            `json:"total_usdc_balance"`
	TotalPositionsValue decimal.Decimal            `json:"total_positions_value"`
}

// PortfolioHandler serves the portfolio HTTP endpoints. The core never
// surfaces errors to callers, so every handler answers 200 with a possibly
// empty or zero-valued body.
type PortfolioHandler struct {
	service *service.PortfolioService
	logger  *zap.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(svc *service.PortfolioService, logger *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		service: svc,
		logger:  logger.Named("PortfolioHandler"),
	}
}

// HealthHandler answers liveness probes.
func (h *PortfolioHandler) HealthHandler(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// GetWalletsHandler returns the configured wallet fleet.
func (h *PortfolioHandler) GetWalletsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Wallets())
}

// RefreshHandler triggers a fleet refresh and returns the fresh snapshots.
func (h *PortfolioHandler) RefreshHandler(c *gin.Context) {
	result := h.service.RefreshAll(c.Request.Context())
	c.JSON(http.StatusOK, RefreshResponse{
		Success:   true,
		Data:      result.Snapshots,
		Total:     result.Total,
		Timestamp: result.Timestamp,
	})
}

// GetCachedHandler returns the current fleet view without touching upstream
// sources.
func (h *PortfolioHandler) GetCachedHandler(c *gin.Context) {
	result := h.service.GetCurrent()
	c.JSON(http.StatusOK, CachedResponse{
		Wallets:             result.Wallets,
		TotalPortfolio:      result.TotalPortfolio,
		TotalUsdcBalance:    result.TotalUsdcBalance,
		TotalPositionsValue: result.TotalPositionsValue,
	})
}

// GetHistoryHandler returns the bucketed historical series. The optional
// hours query parameter defaults to 24; unparseable or non-positive values
// fall back to the default.
func (h *PortfolioHandler) GetHistoryHandler(c *gin.Context) {
	hours := defaultHistoryHours
	if raw := c.Query("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.logger.Debug("Ignoring invalid hours parameter", zap.String("hours", raw))
		} else {
			hours = parsed
		}
	}
	c.JSON(http.StatusOK, h.service.History(hours))
}

package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/mkadlec/assetledger/internal/core/ports/services"
	"github.com/mkadlec/assetledger/internal/platform/config"
)

// RegisterRoutes sets up all application routes.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, ledgerSvc portssvc.LedgerSvcFacade) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, ledgerSvc)
}

// setupAPIV1Routes configures the /api/v1 group.
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, ledgerSvc portssvc.LedgerSvcFacade) {
	v1 := r.Group("/api/v1")
	h := newLedgerHandler(ledgerSvc, cfg.DefaultVenue)

	v1.POST("/rows", h.addRow)
	v1.POST("/trades", h.addTrade)
	v1.POST("/reversals", h.addReversal)
	v1.POST("/import", h.importFile)

	v1.GET("/timeline", h.timeline)
	v1.GET("/rows/recent", h.recent)
	v1.GET("/rows/:key", h.getRow)
	v1.GET("/rows/:key/legs", h.getRowLegs)
	v1.GET("/balances/assets", h.assetBalances)
	v1.GET("/balances/venues", h.venueBalances)
	v1.GET("/diagnostics", h.diagnostics)
	v1.GET("/export", h.exportRows)
	v1.GET("/stats", h.stats)
}

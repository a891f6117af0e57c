package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mkadlec/assetledger/internal/apperrors"
	portssvc "github.com/mkadlec/assetledger/internal/core/ports/services"
	"github.com/mkadlec/assetledger/internal/dto"
	"github.com/mkadlec/assetledger/internal/exporter"
	"github.com/mkadlec/assetledger/internal/importer"
	"github.com/mkadlec/assetledger/internal/middleware"
)

// ledgerHandler exposes the ledger service over HTTP. It is a pure adapter:
// all invariants live behind the service facade.
type ledgerHandler struct {
	ledgerSvc    portssvc.LedgerSvcFacade
	defaultVenue string
}

func newLedgerHandler(ledgerSvc portssvc.LedgerSvcFacade, defaultVenue string) *ledgerHandler {
	return &ledgerHandler{
		ledgerSvc:    ledgerSvc,
		defaultVenue: strings.ToLower(strings.TrimSpace(defaultVenue)),
	}
}

// addRow creates one manual ledger entry.
func (h *ledgerHandler) addRow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("failed to bind JSON for addRow", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	result, err := h.ledgerSvc.AddRow(c.Request.Context(), req)
	if err != nil {
		logger.Error("failed to add row", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add row"})
		return
	}
	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// addTrade creates a double-entry trade pair.
func (h *ledgerHandler) addTrade(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("failed to bind JSON for addTrade", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	result, err := h.ledgerSvc.AddTrade(c.Request.Context(), req)
	if err != nil {
		logger.Error("failed to add trade", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add trade"})
		return
	}
	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// addReversal creates reversal row(s) negating a persisted entry.
func (h *ledgerHandler) addReversal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateReversalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("failed to bind JSON for addReversal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	result, err := h.ledgerSvc.AddReversal(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("reversal target not found", slog.Int64("key", req.Key))
			c.JSON(http.StatusNotFound, gin.H{"error": "row not found"})
			return
		}
		logger.Error("failed to add reversal", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add reversal"})
		return
	}
	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// importFile ingests a raw CSV upload: parse errors per row, validation
// errors per row, duplicates skipped.
func (h *ledgerHandler) importFile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open uploaded file"})
		return
	}
	defer file.Close()

	loadResult, err := importer.NewCSVLoader().Load(file)
	if err != nil {
		logger.Error("failed to parse uploaded CSV", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot parse uploaded file"})
		return
	}

	// Files exported without a venue column fall back to the configured venue.
	if h.defaultVenue != "" {
		for i := range loadResult.Rows {
			if loadResult.Rows[i].Venue == "" {
				loadResult.Rows[i].Venue = h.defaultVenue
			}
		}
	}

	importResult, err := h.ledgerSvc.ImportRows(c.Request.Context(), loadResult.Rows)
	if err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed"})
		return
	}

	logger.Info("import completed",
		slog.String("file", fileHeader.Filename),
		slog.Int("inserted", importResult.Inserted),
		slog.Int("skipped", importResult.Skipped),
		slog.Int("parse_errors", len(loadResult.Errors)),
	)
	c.JSON(http.StatusOK, gin.H{
		"inserted":         importResult.Inserted,
		"skipped":          importResult.Skipped,
		"parseErrors":      loadResult.Errors,
		"validationErrors": importResult.ValidationErrors,
		"diagnostics":      importResult.Diagnostics,
	})
}

// timeline returns all rows in timestamp order.
func (h *ledgerHandler) timeline(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rows, err := h.ledgerSvc.Timeline(c.Request.Context())
	if err != nil {
		logger.Error("failed to fetch timeline", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch timeline"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": dto.ToRowResponses(rows), "count": len(rows)})
}

// assetBalances returns the per-asset balance view.
func (h *ledgerHandler) assetBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	balances, err := h.ledgerSvc.AssetBalances(c.Request.Context())
	if err != nil {
		logger.Error("failed to fetch asset balances", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch asset balances"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"balances": balances})
}

// venueBalances returns the per-(venue, asset) balance view.
func (h *ledgerHandler) venueBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	balances, err := h.ledgerSvc.VenueBalances(c.Request.Context())
	if err != nil {
		logger.Error("failed to fetch venue balances", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch venue balances"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"balances": balances})
}

// diagnostics returns the current negative-balance warnings.
func (h *ledgerHandler) diagnostics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	warnings, err := h.ledgerSvc.Diagnostics(c.Request.Context())
	if err != nil {
		logger.Error("failed to fetch diagnostics", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch diagnostics"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"diagnostics": warnings})
}

// recent returns summaries of the latest inserted rows for interactive
// selection.
func (h *ledgerHandler) recent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	summaries, err := h.ledgerSvc.Recent(c.Request.Context(), limit)
	if err != nil {
		logger.Error("failed to fetch recent rows", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recent rows"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": summaries})
}

// getRow fetches one row by its surrogate key.
func (h *ledgerHandler) getRow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	key, err := strconv.ParseInt(c.Param("key"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key must be an integer"})
		return
	}

	row, err := h.ledgerSvc.GetRowByKey(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "row not found"})
			return
		}
		logger.Error("failed to fetch row", slog.String("error", err.Error()), slog.Int64("key", key))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch row"})
		return
	}
	c.JSON(http.StatusOK, dto.ToRowResponse(*row))
}

// getRowLegs fetches every leg sharing the row's logical id, for pair
// inspection before a reversal.
func (h *ledgerHandler) getRowLegs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	key, err := strconv.ParseInt(c.Param("key"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key must be an integer"})
		return
	}

	row, err := h.ledgerSvc.GetRowByKey(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "row not found"})
			return
		}
		logger.Error("failed to fetch row", slog.String("error", err.Error()), slog.Int64("key", key))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch row"})
		return
	}

	legs, err := h.ledgerSvc.GetRowsByID(c.Request.Context(), row.ID)
	if err != nil {
		logger.Error("failed to fetch pair legs", slog.String("error", err.Error()), slog.String("id", row.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch pair legs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": dto.ToRowResponses(legs)})
}

// exportRows streams the full timeline as CSV or JSON.
func (h *ledgerHandler) exportRows(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "json" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or json"})
		return
	}

	rows, err := h.ledgerSvc.Timeline(c.Request.Context())
	if err != nil {
		logger.Error("failed to fetch rows for export", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch rows for export"})
		return
	}

	if format == "json" {
		c.Header("Content-Disposition", `attachment; filename="ledger.json"`)
		c.Header("Content-Type", "application/json")
		if err := exporter.WriteJSON(c.Writer, rows); err != nil {
			logger.Error("failed to write JSON export", slog.String("error", err.Error()))
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="ledger.csv"`)
	c.Header("Content-Type", "text/csv")
	if err := exporter.WriteCSV(c.Writer, rows); err != nil {
		logger.Error("failed to write CSV export", slog.String("error", err.Error()))
	}
}

// stats returns the persisted row count.
func (h *ledgerHandler) stats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	count, err := h.ledgerSvc.Count(c.Request.Context())
	if err != nil {
		logger.Error("failed to count rows", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count rows"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

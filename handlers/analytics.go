package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/khomabhena/imali-api/middleware"
	"github.com/khomabhena/imali-api/services"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	Analytics *services.AnalyticsService
	Settings  *services.SettingsService
}

// GetSummary reports bucket flows and category spending for a period
// (defaults to the current month).
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	userID := middleware.GetUserID(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	currency := c.Query("currency")
	if currency == "" {
		settings, err := h.Settings.GetOrCreate(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		currency = settings.DefaultCurrency
	}

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0)

	if v := c.Query("from"); v != "" {
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			from = parsed
		}
	}
	if v := c.Query("to"); v != "" {
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			to = parsed
		}
	}

	summary, err := h.Analytics.Summary(ctx, userID, currency, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetMonths reports the trailing monthly income/spend rollup.
func (h *AnalyticsHandler) GetMonths(c *gin.Context) {
	userID := middleware.GetUserID(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	currency := c.Query("currency")
	if currency == "" {
		settings, err := h.Settings.GetOrCreate(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		currency = settings.DefaultCurrency
	}

	months, _ := strconv.Atoi(c.Query("months"))

	result, err := h.Analytics.Months(ctx, userID, currency, months)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

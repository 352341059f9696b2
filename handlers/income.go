package handlers

import (
	"net/http"
	"time"

	"github.com/khomabhena/imali-api/middleware"
	"github.com/khomabhena/imali-api/models"
	"github.com/khomabhena/imali-api/services"
	"github.com/khomabhena/imali-api/utils"

	"github.com/gin-gonic/gin"
)

type IncomeHandler struct {
	Allocations *services.AllocationService
	Settings    *services.SettingsService
	WS          *WSHandler
}

// RecordIncome runs the allocation engine and returns the per-bucket
// breakdown for the confirmation screen.
func (h *IncomeHandler) RecordIncome(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.RecordIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	currency := req.CurrencyCode
	if currency == "" {
		settings, err := h.Settings.GetOrCreate(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		currency = settings.DefaultCurrency
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	result, err := h.Allocations.AllocateIncome(ctx, userID, req.Amount, currency, date, req.Source, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.LogAllocation(userID, currency, len(result.Allocations))
	h.WS.BroadcastBalanceChange(userID, "allocation", "", currency)

	c.JSON(http.StatusCreated, result)
}

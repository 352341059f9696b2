package handlers

import (
	"net/http"

	"github.com/khomabhena/imali-api/middleware"
	"github.com/khomabhena/imali-api/models"
	"github.com/khomabhena/imali-api/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PurchaseHandler struct {
	Purchases *services.PurchaseService
	Buckets   *services.BucketService
	Balances  *services.BalanceService
	Settings  *services.SettingsService
	WS        *WSHandler
}

// RecordPurchase attempts a gated spend. A blocked purchase is a normal
// outcome: it comes back as 422 with the structured rejection, distinct from
// store failures.
func (h *PurchaseHandler) RecordPurchase(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.RecordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, rejection, err := h.Purchases.RecordPurchase(ctx, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	if rejection != nil {
		c.JSON(http.StatusUnprocessableEntity, rejection)
		return
	}

	h.WS.BroadcastBalanceChange(userID, "purchase", req.BucketID, result.Transaction.CurrencyCode)

	c.JSON(http.StatusCreated, result)
}

type affordabilityRequest struct {
	Amount         decimal.Decimal     `json:"amount"`
	CurrentBalance *decimal.Decimal    `json:"current_balance"`
	BucketID       string              `json:"bucket_id"`
	Limiters       *models.LimiterSet  `json:"limiters"`
	Mode           models.Mode         `json:"mode"`
	CurrencyCode   string              `json:"currency_code"`
}

// CheckAffordability is the read-only what-if endpoint behind the calculator
// screen. The caller may pass a simulated balance and explicit limiters, or a
// bucket ID to use the live catalog and ledger. No writes ever happen here.
func (h *PurchaseHandler) CheckAffordability(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req affordabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	mode := req.Mode
	currency := req.CurrencyCode
	if mode == "" || currency == "" {
		settings, err := h.Settings.GetOrCreate(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		if mode == "" {
			mode = settings.DefaultMode
		}
		if currency == "" {
			currency = settings.DefaultCurrency
		}
	}

	var limiters models.LimiterSet
	switch {
	case req.Limiters != nil:
		limiters = *req.Limiters
	case req.BucketID != "":
		bucket, err := h.Buckets.GetByID(ctx, req.BucketID)
		if err != nil {
			respondError(c, err)
			return
		}
		limiters = bucket.LimiterSet
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either bucket_id or limiters is required"})
		return
	}

	var balance decimal.Decimal
	if req.CurrentBalance != nil {
		balance = *req.CurrentBalance
	} else if req.BucketID != "" {
		var err error
		balance, err = h.Balances.Get(ctx, userID, req.BucketID, currency)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	decision, err := services.CheckAffordability(req.Amount, balance, limiters, mode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"decision":        decision,
		"current_balance": balance,
		"mode":            mode,
	})
}

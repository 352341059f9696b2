package handlers

import (
	"net/http"

	"github.com/khomabhena/imali-api/middleware"
	"github.com/khomabhena/imali-api/models"
	"github.com/khomabhena/imali-api/services"

	"github.com/gin-gonic/gin"
)

type BucketHandler struct {
	Buckets  *services.BucketService
	Settings *services.SettingsService
}

// GetBuckets lists the catalog with the caller's balances in one currency
// (query param, defaulting to the user's setting).
func (h *BucketHandler) GetBuckets(c *gin.Context) {
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

	buckets, err := h.Buckets.ListWithBalances(ctx, userID, currency)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"buckets": buckets, "currency_code": currency})
}

func (h *BucketHandler) CreateBucket(c *gin.Context) {
	var req models.CreateBucketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !req.LimiterLight.IsPositive() || !req.LimiterIntermediate.IsPositive() || !req.LimiterStrict.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Limiters must be greater than zero"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	bucket, err := h.Buckets.Create(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bucket)
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/khomabhena/imali-api/middleware"
	"github.com/khomabhena/imali-api/services"

	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	Transactions *services.TransactionService
}

// GetTransactions returns the caller's history, filterable by currency,
// bucket and type.
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	limit, _ := strconv.Atoi(c.Query("limit"))

	transactions, err := h.Transactions.List(ctx, userID, services.TransactionFilter{
		CurrencyCode: c.Query("currency"),
		BucketID:     c.Query("bucket_id"),
		Type:         c.Query("type"),
		Limit:        limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

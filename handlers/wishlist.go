package handlers

import (
	"net/http"

	"github.com/khomabhena/imali-api/middleware"
	"github.com/khomabhena/imali-api/models"
	"github.com/khomabhena/imali-api/services"

	"github.com/gin-gonic/gin"
)

type WishlistHandler struct {
	Wishlist *services.WishlistService
	WS       *WSHandler
}

func (h *WishlistHandler) GetItems(c *gin.Context) {
	userID := middleware.GetUserID(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	outstandingOnly := c.Query("outstanding") == "true"
	items, err := h.Wishlist.List(ctx, userID, outstandingOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *WishlistHandler) CreateItem(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateWishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := h.Wishlist.Create(ctx, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *WishlistHandler) UpdateItem(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.UpdateWishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := h.Wishlist.Update(ctx, userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *WishlistHandler) DeleteItem(c *gin.Context) {
	userID := middleware.GetUserID(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Wishlist.Delete(ctx, userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

// PurchaseItem hands the wishlist item into the purchase flow. An
// affordability block comes back as 422 with the rejection details.
func (h *WishlistHandler) PurchaseItem(c *gin.Context) {
	userID := middleware.GetUserID(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	result, rejection, err := h.Wishlist.Purchase(ctx, userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if rejection != nil {
		c.JSON(http.StatusUnprocessableEntity, rejection)
		return
	}

	h.WS.BroadcastBalanceChange(userID, "purchase", *result.Transaction.BucketID, result.Transaction.CurrencyCode)

	c.JSON(http.StatusOK, result)
}

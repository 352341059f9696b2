package handlers

import (
	"net/http"

	"github.com/khomabhena/imali-api/middleware"
	"github.com/khomabhena/imali-api/models"
	"github.com/khomabhena/imali-api/services"

	"github.com/gin-gonic/gin"
)

type ExpenseHandler struct {
	Expenses *services.ExpenseService
	WS       *WSHandler
}

func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	userID := middleware.GetUserID(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	activeOnly := c.Query("active") == "true"
	expenses, err := h.Expenses.List(ctx, userID, activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, expenses)
}

// CreateExpense inserts the obligation and immediately reconciles the
// deduction against the Expenses bucket.
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	expense, deduction, err := h.Expenses.Create(ctx, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	if deduction != nil {
		h.WS.BroadcastBalanceChange(userID, "deduction", *deduction.Transaction.BucketID, expense.CurrencyCode)
	}

	c.JSON(http.StatusCreated, gin.H{"expense": expense, "deduction": deduction})
}

func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	expense, deduction, err := h.Expenses.Update(ctx, userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	if deduction != nil {
		h.WS.BroadcastBalanceChange(userID, "deduction", *deduction.Transaction.BucketID, expense.CurrencyCode)
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense, "deduction": deduction})
}

// RecordPayment adds one installment to an expense's paid amount; exactly
// that installment is deducted.
func (h *ExpenseHandler) RecordPayment(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	expense, deduction, err := h.Expenses.RecordPayment(ctx, userID, c.Param("id"), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	if deduction != nil {
		h.WS.BroadcastBalanceChange(userID, "deduction", *deduction.Transaction.BucketID, expense.CurrencyCode)
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense, "deduction": deduction})
}

// DeleteExpense deactivates; expense rows are never removed.
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID := middleware.GetUserID(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Expenses.Deactivate(ctx, userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deactivated"})
}

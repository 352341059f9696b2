package services

import (
	"testing"

	"github.com/khomabhena/imali-api/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func expense(amount string, paid *string) models.Expense {
	e := models.Expense{
		Name:         "Rent",
		Amount:       dec(amount),
		Active:       true,
		CurrencyCode: "USD",
	}
	if paid != nil {
		e.PaidAmount = decimal.NullDecimal{Decimal: dec(*paid), Valid: true}
	}
	return e
}

func paid(s string) *string { return &s }

func TestDeductionAmount_CreateFullPayment(t *testing.T) {
	// No paid_amount means paid in full in one shot: deduct the whole amount.
	got := deductionAmount(expense("500", nil), nil)
	assert.True(t, dec("500").Equal(got), "got %s", got)
}

func TestDeductionAmount_CreatePartialPayment(t *testing.T) {
	got := deductionAmount(expense("500", paid("30")), nil)
	assert.True(t, dec("30").Equal(got))
}

func TestDeductionAmount_IncrementalDelta(t *testing.T) {
	// paid 30 -> 80 deducts exactly 50 more, not 80.
	prev := expense("500", paid("30"))
	got := deductionAmount(expense("500", paid("80")), &prev)
	assert.True(t, dec("50").Equal(got), "got %s", got)
}

func TestDeductionAmount_Idempotent(t *testing.T) {
	// Reconciling an unchanged paid amount deducts nothing the second time.
	prev := expense("500", paid("80"))
	got := deductionAmount(expense("500", paid("80")), &prev)
	assert.True(t, got.IsZero(), "got %s", got)
}

func TestDeductionAmount_DecreaseSkipped(t *testing.T) {
	// A lowered paid amount is skipped, never credited back.
	prev := expense("500", paid("80"))
	got := deductionAmount(expense("500", paid("30")), &prev)
	assert.True(t, got.IsZero(), "got %s", got)
}

func TestDeductionAmount_PriorWithoutPaidAmount(t *testing.T) {
	// A prior row without paid_amount was deducted at its full amount, so
	// only the excess over that counts now.
	prev := expense("500", nil)
	got := deductionAmount(expense("500", paid("520")), &prev)
	assert.True(t, dec("20").Equal(got), "got %s", got)
}

func TestDeductionAmount_UpdateEqualToPriorAmount(t *testing.T) {
	prev := expense("500", nil)
	got := deductionAmount(expense("500", paid("500")), &prev)
	assert.True(t, got.IsZero())
}

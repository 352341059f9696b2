package services

import (
	"testing"

	"github.com/khomabhena/imali-api/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testLimiters() models.LimiterSet {
	return models.LimiterSet{
		LimiterLight:        dec("2"),
		LimiterIntermediate: dec("3"),
		LimiterStrict:       dec("5"),
		LimiterDesperate:    decimal.NullDecimal{Decimal: dec("1.5"), Valid: true},
	}
}

func TestSelectLimiter(t *testing.T) {
	limiters := testLimiters()

	tests := []struct {
		name string
		mode models.Mode
		want string
	}{
		{"light", models.ModeLight, "2"},
		{"intermediate", models.ModeIntermediate, "3"},
		{"strict", models.ModeStrict, "5"},
		{"desperate", models.ModeDesperate, "1.5"},
		{"unknown defaults to intermediate", models.Mode("yolo"), "3"},
		{"empty defaults to intermediate", models.Mode(""), "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, dec(tt.want).Equal(SelectLimiter(limiters, tt.mode)))
		})
	}
}

func TestSelectLimiter_DesperateFallsBackToStrict(t *testing.T) {
	limiters := testLimiters()
	limiters.LimiterDesperate = decimal.NullDecimal{}

	assert.True(t, dec("5").Equal(SelectLimiter(limiters, models.ModeDesperate)))
}

func TestCheckAffordability_StrictScenario(t *testing.T) {
	// balance=300, limiter(strict)=5, amount=50 -> required=250, affordable, max=60
	decision, err := CheckAffordability(dec("50"), dec("300"), testLimiters(), models.ModeStrict)
	require.NoError(t, err)

	assert.True(t, decision.IsAffordable)
	assert.True(t, dec("250").Equal(decision.RequiredBalance), "required = %s", decision.RequiredBalance)
	assert.True(t, dec("60").Equal(decision.MaxAffordable), "max = %s", decision.MaxAffordable)
	assert.True(t, dec("5").Equal(decision.Limiter))
}

func TestCheckAffordability_IntermediateBlocked(t *testing.T) {
	// balance=100, limiter(intermediate)=3, amount=40 -> required=120, blocked, max=33.33
	decision, err := CheckAffordability(dec("40"), dec("100"), testLimiters(), models.ModeIntermediate)
	require.NoError(t, err)

	assert.False(t, decision.IsAffordable)
	assert.True(t, dec("120").Equal(decision.RequiredBalance))
	assert.True(t, dec("33.33").Equal(decision.MaxAffordable), "max = %s", decision.MaxAffordable)
}

func TestCheckAffordability_Monotonicity(t *testing.T) {
	limiters := testLimiters()

	decision, err := CheckAffordability(decimal.Zero, dec("100"), limiters, models.ModeIntermediate)
	require.NoError(t, err)
	max := decision.MaxAffordable

	atMax, err := CheckAffordability(max, dec("100"), limiters, models.ModeIntermediate)
	require.NoError(t, err)
	assert.True(t, atMax.IsAffordable, "max affordable amount itself must pass")

	aboveMax, err := CheckAffordability(max.Add(dec("0.01")), dec("100"), limiters, models.ModeIntermediate)
	require.NoError(t, err)
	assert.False(t, aboveMax.IsAffordable, "one cent above max must fail")
}

func TestCheckAffordability_Scaling(t *testing.T) {
	// maxAffordable x limiter never exceeds the balance.
	balances := []string{"0.01", "1", "99.99", "100", "12345.67"}
	for _, b := range balances {
		decision, err := CheckAffordability(decimal.Zero, dec(b), testLimiters(), models.ModeIntermediate)
		require.NoError(t, err)
		spent := decision.MaxAffordable.Mul(decision.Limiter)
		assert.True(t, spent.LessThanOrEqual(dec(b)), "balance %s: max*limiter = %s", b, spent)
	}
}

func TestCheckAffordability_ZeroAmount(t *testing.T) {
	decision, err := CheckAffordability(decimal.Zero, decimal.Zero, testLimiters(), models.ModeLight)
	require.NoError(t, err)
	assert.True(t, decision.IsAffordable, "zero spend is trivially affordable at balance >= 0")
}

func TestCheckAffordability_NegativeBalance(t *testing.T) {
	decision, err := CheckAffordability(dec("1"), dec("-10"), testLimiters(), models.ModeLight)
	require.NoError(t, err)
	assert.False(t, decision.IsAffordable, "a deficit never affords a positive spend")
}

func TestCheckAffordability_NegativeAmount(t *testing.T) {
	_, err := CheckAffordability(dec("-5"), dec("100"), testLimiters(), models.ModeLight)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCheckAffordability_InvalidLimiter(t *testing.T) {
	limiters := testLimiters()
	limiters.LimiterLight = decimal.Zero

	_, err := CheckAffordability(dec("5"), dec("100"), limiters, models.ModeLight)
	assert.ErrorIs(t, err, ErrInvalidLimiter)
}

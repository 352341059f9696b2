package services

import (
	"errors"
	"fmt"

	"github.com/khomabhena/imali-api/models"

	"github.com/shopspring/decimal"
)

// ErrInvalidLimiter flags a bucket whose limiter coefficient is zero or
// negative. That is a catalog data bug, not a spending decision.
var ErrInvalidLimiter = errors.New("limiter must be greater than zero")

// ErrInvalidAmount flags a negative prospective amount.
var ErrInvalidAmount = errors.New("amount must not be negative")

// Decision is the result of an affordability check. The limiter expresses
// "hold N times the price before you may spend it": RequiredBalance is
// amount x limiter, MaxAffordable is the largest single purchase the current
// balance permits.
type Decision struct {
	IsAffordable    bool            `json:"is_affordable"`
	RequiredBalance decimal.Decimal `json:"required_balance"`
	MaxAffordable   decimal.Decimal `json:"max_affordable"`
	Limiter         decimal.Decimal `json:"limiter"`
}

// SelectLimiter picks the coefficient for a discipline mode. Desperate falls
// back to the strict coefficient when the bucket has no dedicated one; an
// unrecognized mode defaults to intermediate rather than failing.
func SelectLimiter(limiters models.LimiterSet, mode models.Mode) decimal.Decimal {
	switch mode {
	case models.ModeLight:
		return limiters.LimiterLight
	case models.ModeIntermediate:
		return limiters.LimiterIntermediate
	case models.ModeStrict:
		return limiters.LimiterStrict
	case models.ModeDesperate:
		if limiters.LimiterDesperate.Valid {
			return limiters.LimiterDesperate.Decimal
		}
		return limiters.LimiterStrict
	default:
		return limiters.LimiterIntermediate
	}
}

// CheckAffordability decides whether a prospective spend is permitted. Pure:
// no reads, no writes, safe to re-evaluate on every keystroke of a what-if
// calculator against simulated balances.
func CheckAffordability(amount, currentBalance decimal.Decimal, limiters models.LimiterSet, mode models.Mode) (Decision, error) {
	if amount.IsNegative() {
		return Decision{}, ErrInvalidAmount
	}

	limiter := SelectLimiter(limiters, mode)
	if !limiter.IsPositive() {
		return Decision{}, fmt.Errorf("%w: got %s for mode %q", ErrInvalidLimiter, limiter, mode)
	}

	required := amount.Mul(limiter)

	// Round down so MaxAffordable itself always passes the check.
	maxAffordable := currentBalance.Div(limiter).RoundDown(2)

	return Decision{
		IsAffordable:    currentBalance.GreaterThanOrEqual(required),
		RequiredBalance: required,
		MaxAffordable:   maxAffordable,
		Limiter:         limiter,
	}, nil
}

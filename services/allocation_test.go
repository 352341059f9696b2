package services

import (
	"testing"

	"github.com/khomabhena/imali-api/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalog(names ...string) []models.Bucket {
	buckets := make([]models.Bucket, 0, len(names))
	for i, name := range names {
		buckets = append(buckets, models.Bucket{
			ID:           name,
			Name:         name,
			DisplayOrder: i,
		})
	}
	return buckets
}

func shareFor(t *testing.T, plan AllocationPlan, bucketName string) decimal.Decimal {
	t.Helper()
	for _, s := range plan.Shares {
		if s.Bucket.Name == bucketName {
			return s.Amount
		}
	}
	t.Fatalf("no share for bucket %s", bucketName)
	return decimal.Zero
}

func planTotal(plan AllocationPlan) decimal.Decimal {
	total := plan.SavingsShare
	for _, s := range plan.Shares {
		total = total.Add(s.Amount)
	}
	return total
}

func TestBuildAllocationPlan_FixedRatios(t *testing.T) {
	// income=2000 with 200 in active expenses: net=1800, Necessity=1080,
	// each of the 4 others=180, Savings remainder = 0.
	buckets := catalog("Necessity", "Investment", "Learning", "Emergency", "Fun", "Savings")
	plan := BuildAllocationPlan(dec("1800"), buckets)

	assert.True(t, dec("1080").Equal(shareFor(t, plan, "Necessity")))
	for _, name := range []string{"Investment", "Learning", "Emergency", "Fun"} {
		assert.True(t, dec("180").Equal(shareFor(t, plan, name)), "share for %s", name)
	}
	assert.True(t, plan.SavingsShare.IsZero(), "savings = %s", plan.SavingsShare)
	assert.Len(t, plan.Shares, 5)
}

func TestBuildAllocationPlan_Conservation(t *testing.T) {
	buckets := catalog("Necessity", "Investment", "Learning", "Savings", "Expenses")

	// Odd-cent nets must still reconcile exactly: the savings share is the
	// literal remainder, never an independent recomputation.
	nets := []string{"100.01", "0.01", "1234.56", "99.99", "0.07"}
	for _, n := range nets {
		plan := BuildAllocationPlan(dec(n), buckets)
		assert.True(t, dec(n).Equal(planTotal(plan)), "net %s: shares+savings = %s", n, planTotal(plan))
	}
}

func TestBuildAllocationPlan_SkipsSavingsAndExpenses(t *testing.T) {
	buckets := catalog("Necessity", "Fun", "Savings", "Expenses")
	plan := BuildAllocationPlan(dec("1000"), buckets)

	for _, s := range plan.Shares {
		assert.NotEqual(t, models.BucketSavings, s.Bucket.Name)
		assert.NotEqual(t, models.BucketExpenses, s.Bucket.Name)
	}
	assert.Len(t, plan.Shares, 2)
	assert.True(t, dec("600").Equal(shareFor(t, plan, "Necessity")))
	assert.True(t, dec("100").Equal(shareFor(t, plan, "Fun")))
	assert.True(t, dec("300").Equal(plan.SavingsShare))
}

func TestBuildAllocationPlan_MissingNecessity(t *testing.T) {
	// The 60% share is omitted, not redistributed.
	buckets := catalog("Investment", "Fun", "Savings")
	plan := BuildAllocationPlan(dec("1000"), buckets)

	assert.Len(t, plan.Shares, 2)
	assert.True(t, dec("800").Equal(plan.SavingsShare), "savings = %s", plan.SavingsShare)
}

func TestBuildAllocationPlan_NoOtherBuckets(t *testing.T) {
	// With nothing but Savings, all net income falls through to Savings.
	plan := BuildAllocationPlan(dec("500"), catalog("Savings"))

	assert.Empty(t, plan.Shares)
	assert.True(t, dec("500").Equal(plan.SavingsShare))
}

func TestBuildAllocationPlan_NegativeNet(t *testing.T) {
	// Active expenses above the gross income produce negative allocations;
	// the engine preserves the signed value rather than clamping.
	buckets := catalog("Necessity", "Fun", "Savings")
	plan := BuildAllocationPlan(dec("-100"), buckets)

	assert.True(t, dec("-60").Equal(shareFor(t, plan, "Necessity")))
	assert.True(t, dec("-10").Equal(shareFor(t, plan, "Fun")))
	assert.True(t, dec("-30").Equal(plan.SavingsShare))
	require.True(t, dec("-100").Equal(planTotal(plan)))
}

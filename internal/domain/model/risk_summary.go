package model

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

// TierCount is the number and share of assessments that landed in one tier.
type TierCount struct {
	Tier       valueobject.RiskTier
	Count      int
	Percentage decimal.Decimal
}

// RiskSummary is the tier distribution over a set of assessments.
type RiskSummary struct {
	Tiers          []TierCount
	Total          int
	RequiresReview int
}

// SummarizeAssessments counts assessments per tier. Percentages are rounded to two places.
func SummarizeAssessments(assessments []*RiskAssessment) RiskSummary {
	counts := make(map[valueobject.RiskTier]int, 3)
	review := 0
	for _, a := range assessments {
		counts[a.Tier()]++
		if a.RequiresReview() {
			review++
		}
	}

	total := len(assessments)
	summary := RiskSummary{Total: total, RequiresReview: review}
	for _, tier := range valueobject.AllRiskTiers() {
		pct := decimal.Zero
		if total > 0 {
			pct = decimal.NewFromInt(int64(counts[tier])).
				Mul(decimal.NewFromInt(100)).
				Div(decimal.NewFromInt(int64(total))).
				Round(2)
		}
		summary.Tiers = append(summary.Tiers, TierCount{Tier: tier, Count: counts[tier], Percentage: pct})
	}
	return summary
}

// Count returns the number of assessments in the tier.
func (s RiskSummary) Count(tier valueobject.RiskTier) int {
	for _, tc := range s.Tiers {
		if tc.Tier.Equal(tier) {
			return tc.Count
		}
	}
	return 0
}

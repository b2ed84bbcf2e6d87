package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RiskTier is an immutable value object representing the compliance risk classification
// of a customer.
type RiskTier struct {
	value string
}

var (
	RiskTierLow    = RiskTier{value: "LOW"}
	RiskTierMedium = RiskTier{value: "MEDIUM"}
	RiskTierHigh   = RiskTier{value: "HIGH"}
)

var (
	tierHighCutoff   = decimal.RequireFromString("0.70")
	tierMediumCutoff = decimal.RequireFromString("0.40")
)

// AllRiskTiers lists every tier in ascending order.
func AllRiskTiers() []RiskTier {
	return []RiskTier{RiskTierLow, RiskTierMedium, RiskTierHigh}
}

// RiskTierFromString reconstructs a RiskTier from its string representation.
func RiskTierFromString(s string) (RiskTier, error) {
	switch s {
	case "LOW":
		return RiskTierLow, nil
	case "MEDIUM":
		return RiskTierMedium, nil
	case "HIGH":
		return RiskTierHigh, nil
	default:
		return RiskTier{}, fmt.Errorf("invalid risk tier: %s", s)
	}
}

// RiskTierFromScore classifies a normalized overall score in [0,1].
// Scores at or above 0.70 are HIGH, at or above 0.40 MEDIUM, otherwise LOW.
func RiskTierFromScore(score decimal.Decimal) RiskTier {
	switch {
	case score.GreaterThanOrEqual(tierHighCutoff):
		return RiskTierHigh
	case score.GreaterThanOrEqual(tierMediumCutoff):
		return RiskTierMedium
	default:
		return RiskTierLow
	}
}

// String returns the string representation.
func (t RiskTier) String() string {
	return t.value
}

// Rank orders tiers: LOW=1, MEDIUM=2, HIGH=3. The zero tier ranks 0.
func (t RiskTier) Rank() int {
	switch t.value {
	case "LOW":
		return 1
	case "MEDIUM":
		return 2
	case "HIGH":
		return 3
	default:
		return 0
	}
}

// Above reports whether t ranks strictly higher than other.
func (t RiskTier) Above(other RiskTier) bool {
	return t.Rank() > other.Rank()
}

// DueDiligence returns the due-diligence level mandated for the tier.
func (t RiskTier) DueDiligence() DueDiligenceLevel {
	switch t.value {
	case "HIGH":
		return DueDiligenceEnhanced
	case "MEDIUM":
		return DueDiligenceStandard
	default:
		return DueDiligenceSimplified
	}
}

// IsZero returns true if the RiskTier has not been set.
func (t RiskTier) IsZero() bool {
	return t.value == ""
}

// Equal checks equality with another RiskTier.
func (t RiskTier) Equal(other RiskTier) bool {
	return t.value == other.value
}

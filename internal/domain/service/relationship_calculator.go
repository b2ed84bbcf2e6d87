package service

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

const newRelationshipDays = 90

// RelationshipThresholds are the saturation points of the four relationship sub-factors.
type RelationshipThresholds struct {
	TransactionVolume   decimal.Decimal
	AccountAgeDays      int
	ProductCount        int
	ServiceHistoryCount int
}

// DefaultRelationshipThresholds saturates at one year, 1B volume, five products and ten service events.
func DefaultRelationshipThresholds() RelationshipThresholds {
	return RelationshipThresholds{
		AccountAgeDays:      365,
		TransactionVolume:   decimal.NewFromInt(1_000_000_000),
		ProductCount:        5,
		ServiceHistoryCount: 10,
	}
}

var (
	weightAccountAge     = decimal.RequireFromString("0.3")
	weightVolume         = decimal.RequireFromString("0.3")
	weightProducts       = decimal.RequireFromString("0.2")
	weightServiceHistory = decimal.RequireFromString("0.2")
	one                  = decimal.NewFromInt(1)
)

// RelationshipRiskCalculator scores the depth of the banking relationship on [0,1].
type RelationshipRiskCalculator struct {
	thresholds RelationshipThresholds
}

// NewRelationshipRiskCalculator creates a RelationshipRiskCalculator. Zero
// thresholds fall back to the defaults.
func NewRelationshipRiskCalculator(thresholds RelationshipThresholds) *RelationshipRiskCalculator {
	def := DefaultRelationshipThresholds()
	if thresholds.AccountAgeDays <= 0 {
		thresholds.AccountAgeDays = def.AccountAgeDays
	}
	if !thresholds.TransactionVolume.IsPositive() {
		thresholds.TransactionVolume = def.TransactionVolume
	}
	if thresholds.ProductCount <= 0 {
		thresholds.ProductCount = def.ProductCount
	}
	if thresholds.ServiceHistoryCount <= 0 {
		thresholds.ServiceHistoryCount = def.ServiceHistoryCount
	}
	return &RelationshipRiskCalculator{thresholds: thresholds}
}

func (c *RelationshipRiskCalculator) Component() valueobject.RiskComponent {
	return valueobject.RiskComponentRelationship
}

// Score returns the relationship score in [0,1].
func (c *RelationshipRiskCalculator) Score(m model.RelationshipMetrics) decimal.Decimal {
	score := weightAccountAge.Mul(ratio(decimal.NewFromInt(int64(m.AccountAgeDays)), decimal.NewFromInt(int64(c.thresholds.AccountAgeDays)))).
		Add(weightVolume.Mul(ratio(m.TransactionVolume, c.thresholds.TransactionVolume))).
		Add(weightProducts.Mul(ratio(decimal.NewFromInt(int64(m.ProductCount)), decimal.NewFromInt(int64(c.thresholds.ProductCount))))).
		Add(weightServiceHistory.Mul(ratio(decimal.NewFromInt(int64(m.ServiceHistoryCount)), decimal.NewFromInt(int64(c.thresholds.ServiceHistoryCount)))))

	switch {
	case score.IsNegative():
		return decimal.Zero
	case score.GreaterThan(one):
		return one
	default:
		return score
	}
}

// Calculate implements ComponentCalculator.
func (c *RelationshipRiskCalculator) Calculate(customer model.Customer) (ComponentResult, error) {
	score := c.Score(customer.Relationship)
	var signals []string
	if customer.Relationship.AccountAgeDays < newRelationshipDays {
		signals = append(signals, FactorNewRelationship)
	}
	return ComponentResult{Raw: score, Normalized: score, Signals: signals}, nil
}

// ratio returns min(v/threshold, 1), treating negative values as zero.
func ratio(v, threshold decimal.Decimal) decimal.Decimal {
	if !v.IsPositive() {
		return decimal.Zero
	}
	r := v.Div(threshold)
	if r.GreaterThan(one) {
		return one
	}
	return r
}

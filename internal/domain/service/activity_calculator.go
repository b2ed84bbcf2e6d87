package service

import (
	"strings"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/reference"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

const (
	foreignIndividualBase  = 3
	legalEntityBase        = 2
	domesticIndividualBase = 1
	highRiskActivityPoints = 3
	pepPoints              = 4
	activityDivisor        = 2
)

// ActivityRiskCalculator scores the customer's type, occupation or business
// activity and politically exposed status.
type ActivityRiskCalculator struct {
	tables *reference.Tables
	policy valueobject.MissingDataPolicy
}

// NewActivityRiskCalculator creates an ActivityRiskCalculator.
func NewActivityRiskCalculator(tables *reference.Tables, policy valueobject.MissingDataPolicy) *ActivityRiskCalculator {
	return &ActivityRiskCalculator{tables: tables, policy: policy}
}

func (c *ActivityRiskCalculator) Component() valueobject.RiskComponent {
	return valueobject.RiskComponentActivity
}

// Score returns the activity score in [1,5].
func (c *ActivityRiskCalculator) Score(customer model.Customer) (int, []string, error) {
	var (
		total    int
		activity string
		isHigh   func(string) bool
		factor   string
	)

	switch p := customer.Profile.(type) {
	case model.ForeignIndividual:
		total, activity, isHigh, factor = foreignIndividualBase, p.Occupation, c.tables.IsHighRiskOccupation, FactorHighRiskOccupation
	case model.LegalEntity:
		total, activity, isHigh, factor = legalEntityBase, p.ActivityType, c.tables.IsHighRiskActivity, FactorHighRiskActivity
	case model.DomesticIndividual:
		total, activity, isHigh, factor = domesticIndividualBase, p.Occupation, c.tables.IsHighRiskOccupation, FactorHighRiskOccupation
	default:
		return 0, nil, unknownProfile(customer.Profile)
	}

	signals := make([]string, 0, 3)
	if strings.TrimSpace(activity) == "" {
		signals = append(signals, FactorOccupationNotDeclared)
		if c.policy.IsConservative() {
			total += highRiskActivityPoints
			signals = append(signals, factor)
		}
	} else if isHigh(activity) {
		total += highRiskActivityPoints
		signals = append(signals, factor)
	}

	if customer.PEP {
		total += pepPoints
		signals = append(signals, FactorPEPStatus)
	}

	return clampRound(total, activityDivisor), signals, nil
}

// Calculate implements ComponentCalculator.
func (c *ActivityRiskCalculator) Calculate(customer model.Customer) (ComponentResult, error) {
	score, signals, err := c.Score(customer)
	if err != nil {
		return ComponentResult{}, err
	}
	return fivePointResult(score, signals, false), nil
}

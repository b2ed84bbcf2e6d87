package service

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/reference"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

var monthsPerYear = decimal.NewFromInt(12)

// FinancialRiskCalculator grades declared monthly income or revenue against the
// bucket table for the customer's type.
type FinancialRiskCalculator struct {
	tables *reference.Tables
	policy valueobject.MissingDataPolicy
}

// NewFinancialRiskCalculator creates a FinancialRiskCalculator.
func NewFinancialRiskCalculator(tables *reference.Tables, policy valueobject.MissingDataPolicy) *FinancialRiskCalculator {
	return &FinancialRiskCalculator{tables: tables, policy: policy}
}

func (c *FinancialRiskCalculator) Component() valueobject.RiskComponent {
	return valueobject.RiskComponentFinancial
}

// FinancialScore is the declared-income grade.
type FinancialScore struct {
	Signals               []string
	Level                 int
	DocumentationRequired bool
}

// Score grades the customer's declared monthly income.
func (c *FinancialRiskCalculator) Score(customer model.Customer) (FinancialScore, error) {
	var buckets []reference.IncomeBucket
	switch customer.Profile.(type) {
	case model.DomesticIndividual, model.ForeignIndividual:
		buckets = c.tables.IndividualIncome
	case model.LegalEntity:
		buckets = c.tables.EntityIncome
	default:
		return FinancialScore{}, unknownProfile(customer.Profile)
	}

	signals := make([]string, 0, 2)
	var b reference.IncomeBucket
	if !customer.MonthlyIncome.Valid {
		signals = append(signals, FactorIncomeNotDeclared)
		if c.policy.IsConservative() {
			b = buckets[len(buckets)-1]
		} else {
			b = buckets[0]
		}
	} else {
		b = lookupBucket(buckets, customer.MonthlyIncome.Decimal)
	}

	if b.DocumentationRequired {
		signals = append(signals, FactorIncomeDocumentationRequired)
	}
	return FinancialScore{Level: b.Level, DocumentationRequired: b.DocumentationRequired, Signals: signals}, nil
}

// Calculate implements ComponentCalculator.
func (c *FinancialRiskCalculator) Calculate(customer model.Customer) (ComponentResult, error) {
	s, err := c.Score(customer)
	if err != nil {
		return ComponentResult{}, err
	}
	return fivePointResult(s.Level, s.Signals, s.DocumentationRequired), nil
}

func lookupBucket(buckets []reference.IncomeBucket, amount decimal.Decimal) reference.IncomeBucket {
	for _, b := range buckets {
		if b.Contains(amount) {
			return b
		}
	}
	return buckets[len(buckets)-1]
}

// ProjectedActivity is the grade of a customer's expected annual activity.
type ProjectedActivity struct {
	AnnualAmount decimal.Decimal
	Level        int
}

// ProjectedActivityRisk annualizes an expected monthly amount with the
// type-dependent multiplier and grades it against the activity bands. It is
// used for onboarding projections and never feeds the declared-income score.
func (c *FinancialRiskCalculator) ProjectedActivityRisk(
	customerType valueobject.CustomerType,
	monthlyAmount decimal.Decimal,
) (ProjectedActivity, error) {
	if monthlyAmount.IsNegative() {
		return ProjectedActivity{}, &model.ValidationError{Field: "monthly_amount", Reason: "must not be negative"}
	}

	var multiplier decimal.Decimal
	switch {
	case customerType.Equal(valueobject.CustomerTypeLegalEntity):
		multiplier = c.tables.EntityMultiplier
	case customerType.IsIndividual():
		multiplier = c.tables.IndividualMultiplier
	default:
		return ProjectedActivity{}, &model.ValidationError{Field: "customer_type", Reason: "is required"}
	}

	annual := monthlyAmount.Mul(multiplier).Mul(monthsPerYear)
	level := maxScore
	for _, band := range c.tables.ActivityBands {
		if !band.Ceiling.Valid || annual.LessThanOrEqual(band.Ceiling.Decimal) {
			level = band.Level
			break
		}
	}
	return ProjectedActivity{AnnualAmount: annual, Level: level}, nil
}

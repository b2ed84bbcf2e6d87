package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

// Qualitative risk factors attached to assessments.
const (
	FactorPEPStatus                   = "PEP_STATUS"
	FactorHighRiskNationality         = "HIGH_RISK_NATIONALITY"
	FactorMediumRiskNationality       = "MEDIUM_RISK_NATIONALITY"
	FactorForeignNational             = "FOREIGN_NATIONAL"
	FactorHighRiskBirthProvince       = "HIGH_RISK_BIRTH_PROVINCE"
	FactorBorderLocality              = "BORDER_LOCALITY"
	FactorHighRiskAreaResidence       = "HIGH_RISK_AREA_RESIDENCE"
	FactorMultipleLocations           = "MULTIPLE_LOCATIONS"
	FactorHighRiskOccupation          = "HIGH_RISK_OCCUPATION"
	FactorHighRiskActivity            = "HIGH_RISK_ACTIVITY"
	FactorOccupationNotDeclared       = "OCCUPATION_NOT_DECLARED"
	FactorIncomeNotDeclared           = "INCOME_NOT_DECLARED"
	FactorIncomeDocumentationRequired = "INCOME_DOCUMENTATION_REQUIRED"
	FactorNewRelationship             = "NEW_RELATIONSHIP"
)

const (
	minScore = 1
	maxScore = 5
)

var (
	// ErrUnknownProfile is returned when a customer's profile is nil or not one
	// of the supported variants.
	ErrUnknownProfile = errors.New("unknown customer profile")

	maxScoreDecimal = decimal.NewFromInt(maxScore)
)

// ComponentResult is the output of one risk calculator.
type ComponentResult struct {
	// Raw is the score on the calculator's own scale.
	Raw decimal.Decimal
	// Normalized is Raw mapped onto [0,1].
	Normalized            decimal.Decimal
	Signals               []string
	DocumentationRequired bool
}

// ComponentCalculator computes one risk component for a customer. Implementations
// must be pure functions of their configuration and the customer snapshot.
type ComponentCalculator interface {
	Component() valueobject.RiskComponent
	Calculate(customer model.Customer) (ComponentResult, error)
}

// clampRound divides total by divisor, rounds half away from zero and clamps to [1,5].
func clampRound(total int, divisor int64) int {
	v := decimal.NewFromInt(int64(total)).Div(decimal.NewFromInt(divisor)).Round(0).IntPart()
	switch {
	case v < minScore:
		return minScore
	case v > maxScore:
		return maxScore
	default:
		return int(v)
	}
}

// fivePointResult wraps an integer score in [1,5] as a ComponentResult.
func fivePointResult(score int, signals []string, docs bool) ComponentResult {
	raw := decimal.NewFromInt(int64(score))
	return ComponentResult{
		Raw:                   raw,
		Normalized:            raw.Div(maxScoreDecimal),
		Signals:               signals,
		DocumentationRequired: docs,
	}
}

func unknownProfile(p model.Profile) error {
	return fmt.Errorf("%w: %T", ErrUnknownProfile, p)
}

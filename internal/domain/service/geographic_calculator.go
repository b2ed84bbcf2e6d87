package service

import (
	"strings"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/reference"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

const (
	nationalityHighRiskPoints   = 5
	nationalityMediumRiskPoints = 3
	nationalityForeignPoints    = 2
	birthProvincePoints         = 2
	birthBorderPoints           = 3
	residenceBorderPoints       = 3
	residenceAreaChangePoints   = 1
	multipleLocationPoints      = 1
	geographicDivisor           = 3
	highRiskAreaLevel           = 5
)

// GeographicRiskCalculator scores exposure to high-risk jurisdictions and border areas.
type GeographicRiskCalculator struct {
	tables *reference.Tables
	policy valueobject.MissingDataPolicy
}

// NewGeographicRiskCalculator creates a GeographicRiskCalculator.
func NewGeographicRiskCalculator(tables *reference.Tables, policy valueobject.MissingDataPolicy) *GeographicRiskCalculator {
	return &GeographicRiskCalculator{tables: tables, policy: policy}
}

// Component identifies the calculator.
func (c *GeographicRiskCalculator) Component() valueobject.RiskComponent {
	return valueobject.RiskComponentGeographic
}

// Score returns the geographic score in [1,5] and the signals that contributed.
func (c *GeographicRiskCalculator) Score(customer model.Customer) (int, []string) {
	total := 0
	signals := make([]string, 0, 4)

	switch {
	case customer.Nationality == "":
		if c.policy.IsConservative() {
			total += nationalityForeignPoints
			signals = append(signals, FactorForeignNational)
		}
	case c.tables.IsHighRiskCountry(customer.Nationality):
		total += nationalityHighRiskPoints
		signals = append(signals, FactorHighRiskNationality)
	case c.tables.IsMediumRiskCountry(customer.Nationality):
		total += nationalityMediumRiskPoints
		signals = append(signals, FactorMediumRiskNationality)
	case !c.tables.IsHomeCountry(customer.Nationality):
		total += nationalityForeignPoints
		signals = append(signals, FactorForeignNational)
	}

	birth := model.ParseLocation(customer.BirthPlace)
	residence := model.ParseLocation(customer.LegalResidence)

	if c.tables.IsHighRiskProvince(birth.Area) {
		total += birthProvincePoints
		signals = append(signals, FactorHighRiskBirthProvince)
	}
	if c.tables.IsBorderLocality(birth.Locality) {
		total += birthBorderPoints
		signals = append(signals, FactorBorderLocality)
	}

	differs := !samePlace(customer.BirthPlace, customer.LegalResidence)
	if differs && (birth.IsZero() || residence.IsZero()) && !c.policy.IsConservative() {
		// a missing location is not a second location unless scoring conservatively
		differs = false
	}
	if differs {
		if c.tables.IsBorderLocality(residence.Locality) {
			total += residenceBorderPoints
			signals = appendSignal(signals, FactorBorderLocality)
		} else if !strings.EqualFold(residence.Area, birth.Area) {
			total += residenceAreaChangePoints
		}
		total += multipleLocationPoints
		signals = append(signals, FactorMultipleLocations)
	}

	if !residence.IsZero() && c.tables.AreaRiskLevel(residence.Area, residence.Locality) >= highRiskAreaLevel {
		signals = append(signals, FactorHighRiskAreaResidence)
	}

	return clampRound(total, geographicDivisor), signals
}

// Calculate implements ComponentCalculator.
func (c *GeographicRiskCalculator) Calculate(customer model.Customer) (ComponentResult, error) {
	score, signals := c.Score(customer)
	return fivePointResult(score, signals, false), nil
}

func appendSignal(signals []string, s string) []string {
	for _, x := range signals {
		if x == s {
			return signals
		}
	}
	return append(signals, s)
}

func samePlace(a, b string) bool {
	return strings.EqualFold(strings.Join(strings.Fields(a), " "), strings.Join(strings.Fields(b), " "))
}

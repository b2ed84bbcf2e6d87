package reference

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

// Document requirement identifiers.
const (
	DocIDVerification      = "ID_VERIFICATION"
	DocCompanyRegistration = "COMPANY_REGISTRATION"
	DocIncomeProof         = "INCOME_PROOF"
	DocFinancialStatements = "FINANCIAL_STATEMENTS"
	DocSourceOfFunds       = "SOURCE_OF_FUNDS"
	DocBeneficialOwnership = "BENEFICIAL_OWNERSHIP"
)

const (
	defaultHomeCountry           = "Iran"
	defaultAreaLevel             = 5
	individualActivityMultiplier = 4
	entityActivityMultiplier     = 6
)

// DefaultLists returns the built-in country, place and occupation lists.
func DefaultLists() Lists {
	return Lists{
		// The home country is scored as domestic and is therefore not listed.
		HighRiskCountries: []string{
			"Afghanistan", "Algeria", "Argentina", "Bahamas", "Bangladesh", "Ecuador",
			"Iraq", "North Korea", "Pakistan", "Syria", "Yemen",
		},
		MediumRiskCountries: []string{"China", "Russia", "Turkey", "UAE", "Lebanon", "Egypt"},
		BorderLocalities: []string{
			"Zahedan", "Zabol", "Mirjaveh", "Saravan", "Taybad",
			"Dogharoon", "Baneh", "Marivan", "Piranshahr",
		},
		HighRiskProvinces:   []string{"Sistan and Baluchestan", "Kurdistan", "West Azerbaijan"},
		HighRiskOccupations: []string{"Money Exchange", "Jewelry Trading", "Real Estate", "Car Dealer"},
		HighRiskActivities:  []string{"Cryptocurrency", "International Trade", "Precious Metals"},
		HighRiskAreas: map[string]map[string]int{
			"West Azerbaijan":        {"Piranshahr": defaultAreaLevel, "Sardasht": defaultAreaLevel},
			"Sistan and Baluchestan": {"Saravan": defaultAreaLevel, "Khash": defaultAreaLevel, "Sarbaz": defaultAreaLevel, "Chabahar": defaultAreaLevel},
			"Kerman":                 {"Qasr-e Shirin": defaultAreaLevel, "Mehran": defaultAreaLevel},
			"Hormozgan":              {"Bandar Lengeh": defaultAreaLevel, "Minab": defaultAreaLevel},
		},
	}
}

func bucket(ceiling int64, level int, docs bool) IncomeBucket {
	return IncomeBucket{Ceiling: decimal.NewNullDecimal(decimal.NewFromInt(ceiling)), Level: level, DocumentationRequired: docs}
}

func unbounded(level int) IncomeBucket {
	return IncomeBucket{Level: level, DocumentationRequired: true}
}

const (
	million = int64(1_000_000)
	billion = int64(1_000_000_000)
)

// DefaultIndividualIncome is the monthly declared income table for natural persons (IRR).
func DefaultIndividualIncome() []IncomeBucket {
	return []IncomeBucket{
		bucket(100*million, 1, false),
		bucket(200*million, 1, false),
		bucket(300*million, 2, true),
		bucket(500*million, 3, true),
		bucket(1*billion, 4, true),
		bucket(2*billion, 4, true),
		bucket(5*billion, 5, true),
		unbounded(5),
	}
}

// DefaultEntityIncome is the monthly declared revenue table for legal entities (IRR).
func DefaultEntityIncome() []IncomeBucket {
	return []IncomeBucket{
		bucket(500*million, 1, false),
		bucket(1*billion, 1, false),
		bucket(2*billion, 1, true),
		bucket(5*billion, 2, true),
		bucket(10*billion, 3, true),
		bucket(20*billion, 3, true),
		bucket(50*billion, 3, true),
		bucket(100*billion, 4, true),
		unbounded(5),
	}
}

// DefaultActivityBands grades projected annual activity (IRR).
func DefaultActivityBands() []ActivityBand {
	band := func(ceiling int64, level int) ActivityBand {
		return ActivityBand{Ceiling: decimal.NewNullDecimal(decimal.NewFromInt(ceiling)), Level: level}
	}
	return []ActivityBand{
		band(5*billion, 1),
		band(50*billion, 2),
		band(300*billion, 3),
		{Level: 5},
	}
}

// DefaultDocuments is the documentation requirement catalog.
func DefaultDocuments() []model.DocumentRequirement {
	individuals := []valueobject.CustomerType{
		valueobject.CustomerTypeDomesticIndividual,
		valueobject.CustomerTypeForeignIndividual,
	}
	entity := []valueobject.CustomerType{valueobject.CustomerTypeLegalEntity}
	allTypes := valueobject.AllCustomerTypes()
	allTiers := valueobject.AllRiskTiers()
	elevated := []valueobject.RiskTier{valueobject.RiskTierMedium, valueobject.RiskTierHigh}
	high := []valueobject.RiskTier{valueobject.RiskTierHigh}

	return []model.DocumentRequirement{
		{
			ID:            DocIDVerification,
			Name:          "Identity Verification",
			Description:   "Government issued identity document",
			CustomerTypes: individuals,
			Tiers:         allTiers,
			Mandatory:     true,
		},
		{
			ID:            DocCompanyRegistration,
			Name:          "Company Registration",
			Description:   "Certificate of incorporation and registry extract",
			CustomerTypes: entity,
			Tiers:         allTiers,
			Mandatory:     true,
		},
		{
			ID:            DocIncomeProof,
			Name:          "Proof of Income",
			Description:   "Salary statements or tax returns supporting declared income",
			CustomerTypes: individuals,
			Tiers:         elevated,
			Mandatory:     true,
		},
		{
			ID:            DocFinancialStatements,
			Name:          "Financial Statements",
			Description:   "Audited financial statements for the last fiscal year",
			CustomerTypes: entity,
			Tiers:         elevated,
			Mandatory:     true,
		},
		{
			ID:            DocSourceOfFunds,
			Name:          "Source of Funds",
			Description:   "Evidence of the origin of funds used in the relationship",
			CustomerTypes: allTypes,
			Tiers:         high,
			Mandatory:     true,
		},
		{
			ID:            DocBeneficialOwnership,
			Name:          "Beneficial Ownership",
			Description:   "Declaration of ultimate beneficial owners",
			CustomerTypes: entity,
			Tiers:         elevated,
			Mandatory:     true,
		},
	}
}

// Default returns the built-in reference tables.
func Default() *Tables {
	t, err := New(
		defaultHomeCountry,
		DefaultLists(),
		DefaultIndividualIncome(),
		DefaultEntityIncome(),
		DefaultActivityBands(),
		decimal.NewFromInt(individualActivityMultiplier),
		decimal.NewFromInt(entityActivityMultiplier),
		DefaultDocuments(),
	)
	if err != nil {
		panic(err)
	}
	return t
}

package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

const systemActor = "system"

type parameterSeed struct {
	category    valueobject.ParameterCategory
	id          string
	name        string
	weight      string
	description string
}

var parameterSeeds = []parameterSeed{
	{valueobject.ParameterCategoryCustomer, "GEOGRAPHIC_RISK", "Geographic Risk", "0.2", "Nationality, birth place and residence exposure"},
	{valueobject.ParameterCategoryCustomer, "ACTIVITY_RISK", "Business Activity Risk", "0.2", "Customer type, occupation or activity and PEP status"},
	{valueobject.ParameterCategoryCustomer, "FINANCIAL_RISK", "Transaction Risk", "0.3", "Declared monthly income or revenue"},
	{valueobject.ParameterCategoryCustomer, "RELATIONSHIP_RISK", "Relationship Risk", "0.3", "Account age, volume, products and service history"},
	{valueobject.ParameterCategoryGeographic, "COUNTRY_RISK", "Country Risk", "0.5", "Jurisdiction of nationality"},
	{valueobject.ParameterCategoryGeographic, "REGIONAL_RISK", "Regional Risk", "0.3", "High-risk provinces and areas"},
	{valueobject.ParameterCategoryGeographic, "BORDER_PROXIMITY", "Border Proximity", "0.2", "Border localities"},
	{valueobject.ParameterCategoryTransaction, "TRANSACTION_VOLUME", "Transaction Volume", "0.4", "Monthly turnover"},
	{valueobject.ParameterCategoryTransaction, "TRANSACTION_FREQUENCY", "Transaction Frequency", "0.3", "Number of transactions per month"},
	{valueobject.ParameterCategoryTransaction, "CROSS_BORDER_TRANSFERS", "Cross-border Transfers", "0.3", "Share of international transfers"},
	{valueobject.ParameterCategoryProduct, "PRODUCT_COMPLEXITY", "Product Complexity", "0.6", "Complex or high-value products"},
	{valueobject.ParameterCategoryProduct, "PRODUCT_ANONYMITY", "Product Anonymity", "0.4", "Products allowing anonymous use"},
	{valueobject.ParameterCategoryDelivery, "NON_FACE_TO_FACE", "Non Face-to-face Onboarding", "0.5", "Remote onboarding channels"},
	{valueobject.ParameterCategoryDelivery, "INTERMEDIARY", "Intermediary Introduced", "0.5", "Customers introduced by third parties"},
}

// DefaultParameters returns the seed parameter set. Every category sums to 1.
func DefaultParameters(now time.Time) []model.RiskParameter {
	th := DefaultComponentThresholds()
	out := make([]model.RiskParameter, 0, len(parameterSeeds))
	for _, s := range parameterSeeds {
		out = append(out, model.ReconstructRiskParameter(
			s.id, s.name, s.category, decimal.RequireFromString(s.weight), th,
			true, s.description, systemActor, now.UTC(),
		))
	}
	return out
}

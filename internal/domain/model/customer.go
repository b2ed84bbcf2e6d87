package model

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

// Profile is the type-specific part of a customer. The set of implementations is
// closed: DomesticIndividual, ForeignIndividual and LegalEntity.
type Profile interface {
	CustomerType() valueobject.CustomerType
	DisplayName() string
	sealedProfile()
}

// DomesticIndividual is a natural person holding the home nationality.
type DomesticIndividual struct {
	Name       string
	Occupation string
}

func (DomesticIndividual) CustomerType() valueobject.CustomerType {
	return valueobject.CustomerTypeDomesticIndividual
}
func (p DomesticIndividual) DisplayName() string { return p.Name }
func (DomesticIndividual) sealedProfile()        {}

// ForeignIndividual is a natural person holding a foreign nationality.
type ForeignIndividual struct {
	Name       string
	Occupation string
}

func (ForeignIndividual) CustomerType() valueobject.CustomerType {
	return valueobject.CustomerTypeForeignIndividual
}
func (p ForeignIndividual) DisplayName() string { return p.Name }
func (ForeignIndividual) sealedProfile()        {}

// LegalEntity is a registered company.
type LegalEntity struct {
	CompanyName  string
	ActivityType string
}

func (LegalEntity) CustomerType() valueobject.CustomerType {
	return valueobject.CustomerTypeLegalEntity
}
func (p LegalEntity) DisplayName() string { return p.CompanyName }
func (LegalEntity) sealedProfile()        {}

// ProfileFor builds the profile variant for a customer type. For legal entities
// name is the company name and occupation is the activity type.
func ProfileFor(customerType valueobject.CustomerType, name, occupation string) (Profile, error) {
	switch customerType {
	case valueobject.CustomerTypeDomesticIndividual:
		return DomesticIndividual{Name: name, Occupation: occupation}, nil
	case valueobject.CustomerTypeForeignIndividual:
		return ForeignIndividual{Name: name, Occupation: occupation}, nil
	case valueobject.CustomerTypeLegalEntity:
		return LegalEntity{CompanyName: name, ActivityType: occupation}, nil
	default:
		return nil, &ValidationError{Field: "customer_type", Reason: "unsupported customer type " + customerType.String()}
	}
}

// RelationshipMetrics describes the depth of the banking relationship.
type RelationshipMetrics struct {
	TransactionVolume   decimal.Decimal
	AccountAgeDays      int
	ProductCount        int
	ServiceHistoryCount int
}

// Customer is the read-only snapshot the risk core assesses. It is owned by the
// customer collaborator and never persisted by this service.
type Customer struct {
	Profile        Profile
	Nationality    string
	BirthPlace     string
	LegalResidence string
	MonthlyIncome  decimal.NullDecimal
	CurrentTier    valueobject.RiskTier
	Relationship   RelationshipMetrics
	ID             uuid.UUID
	PEP            bool
}

// NewCustomer validates and returns a customer snapshot.
func NewCustomer(
	id uuid.UUID,
	profile Profile,
	nationality, birthPlace, legalResidence string,
	monthlyIncome decimal.NullDecimal,
	pep bool,
	currentTier valueobject.RiskTier,
	relationship RelationshipMetrics,
) (Customer, error) {
	if id == uuid.Nil {
		return Customer{}, &ValidationError{Field: "customer_id", Reason: "is required"}
	}
	if profile == nil {
		return Customer{}, &ValidationError{Field: "profile", Reason: "is required"}
	}
	if strings.TrimSpace(profile.DisplayName()) == "" {
		field := "name"
		if _, ok := profile.(LegalEntity); ok {
			field = "company_name"
		}
		return Customer{}, &ValidationError{Field: field, Reason: "is required"}
	}
	if monthlyIncome.Valid && monthlyIncome.Decimal.IsNegative() {
		return Customer{}, &ValidationError{Field: "monthly_income", Reason: "must not be negative"}
	}

	return Customer{
		ID:             id,
		Profile:        profile,
		Nationality:    strings.TrimSpace(nationality),
		BirthPlace:     strings.TrimSpace(birthPlace),
		LegalResidence: strings.TrimSpace(legalResidence),
		MonthlyIncome:  monthlyIncome,
		PEP:            pep,
		CurrentTier:    currentTier,
		Relationship:   relationship,
	}, nil
}

// Type returns the customer type of the profile, or the zero type when unset.
func (c Customer) Type() valueobject.CustomerType {
	if c.Profile == nil {
		return valueobject.CustomerType{}
	}
	return c.Profile.CustomerType()
}

// Location is a place split into its administrative area (province) and locality (city).
type Location struct {
	Area     string
	Locality string
}

// ParseLocation splits "<area>, <locality>". The first comma-separated part is the
// area and the last is the locality; a value without a comma is used for both.
func ParseLocation(s string) Location {
	parts := strings.Split(s, ",")
	area := strings.TrimSpace(parts[0])
	locality := strings.TrimSpace(parts[len(parts)-1])
	return Location{Area: area, Locality: locality}
}

// IsZero reports whether the location carries no information.
func (l Location) IsZero() bool {
	return l.Area == "" && l.Locality == ""
}

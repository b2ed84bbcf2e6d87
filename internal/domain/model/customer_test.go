package model_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

func TestNewCustomer_Valid(t *testing.T) {
	id := uuid.New()
	c, err := model.NewCustomer(
		id,
		model.DomesticIndividual{Name: "Sara Ahmadi", Occupation: "Teacher"},
		" Iran ", "Tehran", "Tehran",
		decimal.NewNullDecimal(decimal.NewFromInt(50_000_000)),
		false,
		valueobject.RiskTier{},
		model.RelationshipMetrics{},
	)
	require.NoError(t, err)
	assert.Equal(t, id, c.ID)
	assert.Equal(t, "Iran", c.Nationality)
	assert.True(t, c.Type().Equal(valueobject.CustomerTypeDomesticIndividual))
}

func TestNewCustomer_Validation(t *testing.T) {
	tests := []struct {
		name    string
		id      uuid.UUID
		profile model.Profile
		income  decimal.NullDecimal
		field   string
	}{
		{
			name:    "nil id",
			id:      uuid.Nil,
			profile: model.DomesticIndividual{Name: "A"},
			field:   "customer_id",
		},
		{
			name:  "nil profile",
			id:    uuid.New(),
			field: "profile",
		},
		{
			name:    "blank individual name",
			id:      uuid.New(),
			profile: model.ForeignIndividual{Name: "  "},
			field:   "name",
		},
		{
			name:    "blank company name",
			id:      uuid.New(),
			profile: model.LegalEntity{ActivityType: "Retail"},
			field:   "company_name",
		},
		{
			name:    "negative income",
			id:      uuid.New(),
			profile: model.DomesticIndividual{Name: "A"},
			income:  decimal.NewNullDecimal(decimal.NewFromInt(-1)),
			field:   "monthly_income",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.NewCustomer(tt.id, tt.profile, "Iran", "", "", tt.income, false,
				valueobject.RiskTier{}, model.RelationshipMetrics{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrValidation))

			var vErr *model.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestProfileFor(t *testing.T) {
	p, err := model.ProfileFor(valueobject.CustomerTypeLegalEntity, "Acme Trading", "International Trade")
	require.NoError(t, err)
	entity, ok := p.(model.LegalEntity)
	require.True(t, ok)
	assert.Equal(t, "Acme Trading", entity.CompanyName)
	assert.Equal(t, "International Trade", entity.ActivityType)

	_, err = model.ProfileFor(valueobject.CustomerType{}, "x", "y")
	assert.True(t, errors.Is(err, model.ErrValidation))
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		input    string
		expected model.Location
	}{
		{"Sistan and Baluchestan, Zahedan", model.Location{Area: "Sistan and Baluchestan", Locality: "Zahedan"}},
		{"Tehran", model.Location{Area: "Tehran", Locality: "Tehran"}},
		{"Kurdistan, Sanandaj, District 2", model.Location{Area: "Kurdistan", Locality: "District 2"}},
		{"", model.Location{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, model.ParseLocation(tt.input))
		})
	}
	assert.True(t, model.ParseLocation("").IsZero())
}

package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/reference"
	"github.com/bibbank/kyc-risk-service/internal/domain/service"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

var fixedNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func newAggregator() *service.RiskAggregator {
	return service.NewDefaultRiskAggregator(reference.Default(), valueobject.MissingDataNeutral,
		service.WithClock(func() time.Time { return fixedNow }))
}

func defaultSnapshot() model.ParameterSnapshot {
	return model.NewParameterSnapshot(service.DefaultParameters(fixedNow), fixedNow)
}

// failingCalculator is a mock ComponentCalculator that always errors.
type failingCalculator struct {
	component valueobject.RiskComponent
	err       error
}

func (f *failingCalculator) Component() valueobject.RiskComponent { return f.component }

func (f *failingCalculator) Calculate(model.Customer) (service.ComponentResult, error) {
	return service.ComponentResult{}, f.err
}

func TestRiskAggregator_LowRiskDomesticCustomer(t *testing.T) {
	agg := newAggregator()
	customer := domesticCustomer()

	a, err := agg.Assess(customer, defaultSnapshot(), service.AssessmentContext{AssessedBy: "officer-1", Trigger: "ONBOARDING"})
	require.NoError(t, err)

	activity, ok := a.Component(valueobject.RiskComponentActivity)
	require.True(t, ok)
	assert.True(t, activity.Raw.Equal(decimal.NewFromInt(1)))

	financial, ok := a.Component(valueobject.RiskComponentFinancial)
	require.True(t, ok)
	assert.True(t, financial.Raw.Equal(decimal.NewFromInt(1)))

	// 0.2*0.2 + 0.2*0.2 + 0.3*0.2 + 0.3*0 = 0.14
	assert.Equal(t, "0.14", a.OverallScore().String())
	assert.True(t, a.Tier().Equal(valueobject.RiskTierLow))
	assert.Equal(t, "Simplified Due Diligence", a.DueDiligence().DisplayName())
	assert.False(t, a.DocumentationRequired())
	assert.Equal(t, "officer-1", a.AssessedBy())
	assert.Equal(t, "ONBOARDING", a.Trigger())
	assert.Equal(t, fixedNow, a.AssessedAt())
	assert.Equal(t, customer.ID, a.CustomerID())
}

func TestRiskAggregator_HighRiskForeignPEP(t *testing.T) {
	agg := newAggregator()

	a, err := agg.Assess(highRiskForeignCustomer(), defaultSnapshot(), service.AssessmentContext{AssessedBy: "system"})
	require.NoError(t, err)

	geo, _ := a.Component(valueobject.RiskComponentGeographic)
	act, _ := a.Component(valueobject.RiskComponentActivity)
	assert.True(t, geo.Raw.Equal(decimal.NewFromInt(5)))
	assert.True(t, act.Raw.Equal(decimal.NewFromInt(5)))
	assert.True(t, act.Tier.Equal(valueobject.RiskTierHigh))

	// 0.2*1 + 0.2*1 + 0.3*1 + 0.3*0 = 0.70
	assert.Equal(t, "0.7", a.OverallScore().String())
	assert.True(t, a.Tier().Equal(valueobject.RiskTierHigh))
	assert.Equal(t, "Enhanced Due Diligence", a.DueDiligence().DisplayName())
	assert.True(t, a.DocumentationRequired())

	assert.Equal(t, service.FactorPEPStatus, a.Factors()[0])
	for _, f := range []string{
		service.FactorHighRiskNationality,
		service.FactorBorderLocality,
		service.FactorHighRiskOccupation,
		service.FactorIncomeDocumentationRequired,
		service.FactorHighRiskAreaResidence,
		service.FactorNewRelationship,
	} {
		assert.True(t, a.HasFactor(f), "missing factor %s", f)
	}
}

func TestRiskAggregator_FactorsAreUnique(t *testing.T) {
	a, err := newAggregator().Assess(highRiskForeignCustomer(), defaultSnapshot(), service.AssessmentContext{})
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, f := range a.Factors() {
		assert.False(t, seen[f], "duplicate factor %s", f)
		seen[f] = true
	}
}

func TestRiskAggregator_Idempotent(t *testing.T) {
	agg := newAggregator()
	customer := highRiskForeignCustomer()
	snap := defaultSnapshot()

	first, err := agg.Assess(customer, snap, service.AssessmentContext{AssessedBy: "a"})
	require.NoError(t, err)
	second, err := agg.Assess(customer, snap, service.AssessmentContext{AssessedBy: "b"})
	require.NoError(t, err)

	assert.True(t, first.Tier().Equal(second.Tier()))
	assert.True(t, first.OverallScore().Equal(second.OverallScore()))
	assert.Equal(t, first.Components(), second.Components())
	assert.Equal(t, first.Factors(), second.Factors())
	assert.Equal(t, first.AssessedAt(), second.AssessedAt())
}

func TestRiskAggregator_UsesSnapshotWeights(t *testing.T) {
	th := service.DefaultComponentThresholds()
	mk := func(id, w string) model.RiskParameter {
		return model.ReconstructRiskParameter(id, id, valueobject.ParameterCategoryCustomer,
			decimal.RequireFromString(w), th, true, "", "test", fixedNow)
	}
	snap := model.NewParameterSnapshot([]model.RiskParameter{
		mk("GEOGRAPHIC_RISK", "0.1"),
		mk("ACTIVITY_RISK", "0.7"),
		mk("FINANCIAL_RISK", "0.1"),
		mk("RELATIONSHIP_RISK", "0.1"),
	}, fixedNow)

	customer := domesticCustomer()
	customer.PEP = true
	customer.Profile = model.ForeignIndividual{Name: "A", Occupation: "Money Exchange"}

	a, err := newAggregator().Assess(customer, snap, service.AssessmentContext{})
	require.NoError(t, err)

	// activity 5 -> 1.0*0.7; geographic 1 -> 0.02; financial 1 -> 0.02; relationship 0
	assert.Equal(t, "0.74", a.OverallScore().String())
	assert.True(t, a.Tier().Equal(valueobject.RiskTierHigh))
}

func TestRiskAggregator_FallsBackToDefaultWeights(t *testing.T) {
	partial := model.NewParameterSnapshot([]model.RiskParameter{
		model.ReconstructRiskParameter("ACTIVITY_RISK", "Activity", valueobject.ParameterCategoryCustomer,
			decimal.NewFromInt(1), service.DefaultComponentThresholds(), true, "", "test", fixedNow),
	}, fixedNow)

	a, err := newAggregator().Assess(domesticCustomer(), partial, service.AssessmentContext{})
	require.NoError(t, err)

	for _, cs := range a.Components() {
		expected := service.DefaultComponentWeights()[cs.Component]
		assert.True(t, expected.Equal(cs.Weight), "%s weight %s", cs.Component, cs.Weight)
	}
	assert.Equal(t, "0.14", a.OverallScore().String())
}

func TestRiskAggregator_CalculatorFailure(t *testing.T) {
	tables := reference.Default()
	cause := errors.New("lookup failed")
	agg := service.NewRiskAggregator(
		service.NewGeographicRiskCalculator(tables, valueobject.MissingDataNeutral),
		service.NewActivityRiskCalculator(tables, valueobject.MissingDataNeutral),
		&failingCalculator{component: valueobject.RiskComponentFinancial, err: cause},
		service.NewRelationshipRiskCalculator(service.DefaultRelationshipThresholds()),
	)

	a, err := agg.Assess(domesticCustomer(), defaultSnapshot(), service.AssessmentContext{})
	require.Error(t, err)
	assert.Nil(t, a)
	assert.True(t, errors.Is(err, service.ErrAggregation))
	assert.True(t, errors.Is(err, cause))

	var aggErr *service.AggregationError
	require.True(t, errors.As(err, &aggErr))
	assert.True(t, aggErr.Calculator.Equal(valueobject.RiskComponentFinancial))
}

func TestRiskAggregator_UnknownProfileFails(t *testing.T) {
	customer := domesticCustomer()
	customer.Profile = nil

	_, err := newAggregator().Assess(customer, defaultSnapshot(), service.AssessmentContext{})
	var aggErr *service.AggregationError
	require.True(t, errors.As(err, &aggErr))
	assert.True(t, aggErr.Calculator.Equal(valueobject.RiskComponentActivity))
	assert.True(t, errors.Is(err, service.ErrUnknownProfile))
}

func TestRiskAggregator_TierAlwaysValid(t *testing.T) {
	agg := newAggregator()
	profiles := []model.Profile{
		model.DomesticIndividual{Name: "A", Occupation: "Car Dealer"},
		model.ForeignIndividual{Name: "B"},
		model.LegalEntity{CompanyName: "C", ActivityType: "Precious Metals"},
	}
	incomes := []decimal.NullDecimal{{}, income(1), income(400_000_000), income(90_000_000_000)}

	for _, p := range profiles {
		for _, inc := range incomes {
			for _, pep := range []bool{false, true} {
				c := highRiskForeignCustomer()
				c.Profile, c.MonthlyIncome, c.PEP = p, inc, pep
				a, err := agg.Assess(c, defaultSnapshot(), service.AssessmentContext{})
				require.NoError(t, err)
				assert.Contains(t, []int{1, 2, 3}, a.Tier().Rank())
				assert.True(t, a.OverallScore().GreaterThanOrEqual(decimal.Zero))
				assert.True(t, a.OverallScore().LessThanOrEqual(decimal.NewFromInt(1)))
			}
		}
	}
}

func TestRiskAggregator_RequiresReviewOnEscalation(t *testing.T) {
	customer := highRiskForeignCustomer()
	customer.CurrentTier = valueobject.RiskTierLow

	a, err := newAggregator().Assess(customer, defaultSnapshot(), service.AssessmentContext{Trigger: "SCHEDULED"})
	require.NoError(t, err)
	assert.True(t, a.RequiresReview())
	assert.True(t, a.PreviousTier().Equal(valueobject.RiskTierLow))
}

func TestRiskAggregator_UnbalancedWeightsFallBackToDefaults(t *testing.T) {
	store := newStore()
	ctx := context.Background()
	for _, id := range []string{"GEOGRAPHIC_RISK", "ACTIVITY_RISK", "FINANCIAL_RISK", "RELATIONSHIP_RISK"} {
		_, err := store.Update(ctx, id, model.ParameterPatch{Weight: dec("1")}, "officer")
		require.NoError(t, err)
	}
	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)

	params, err := store.List(ctx, nil)
	require.NoError(t, err)
	require.Error(t, service.ValidateParameterSet(params), "customer weights now sum to 4")

	a, err := newAggregator().Assess(highRiskForeignCustomer(), snap, service.AssessmentContext{})
	require.NoError(t, err)

	assert.Equal(t, "0.7", a.OverallScore().String())
	assert.True(t, a.OverallScore().LessThanOrEqual(decimal.NewFromInt(1)))
	for _, cs := range a.Components() {
		assert.True(t, service.DefaultComponentWeights()[cs.Component].Equal(cs.Weight), "%s weight %s", cs.Component, cs.Weight)
	}
}

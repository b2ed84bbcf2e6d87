package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/reference"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

// ErrAggregation matches every *AggregationError via errors.Is.
var ErrAggregation = errors.New("risk aggregation failed")

// AggregationError identifies the calculator that failed an assessment.
type AggregationError struct {
	Err        error
	Calculator valueobject.RiskComponent
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("risk aggregation failed in %s calculator: %v", e.Calculator, e.Err)
}

func (e *AggregationError) Unwrap() error {
	return e.Err
}

func (e *AggregationError) Is(target error) bool {
	return target == ErrAggregation
}

// DefaultComponentWeights is used when the snapshot lacks any of the four
// CUSTOMER-category component parameters.
func DefaultComponentWeights() map[valueobject.RiskComponent]decimal.Decimal {
	return map[valueobject.RiskComponent]decimal.Decimal{
		valueobject.RiskComponentRelationship: decimal.RequireFromString("0.3"),
		valueobject.RiskComponentFinancial:    decimal.RequireFromString("0.3"),
		valueobject.RiskComponentGeographic:   decimal.RequireFromString("0.2"),
		valueobject.RiskComponentActivity:     decimal.RequireFromString("0.2"),
	}
}

// DefaultComponentThresholds classifies a normalized component score.
func DefaultComponentThresholds() model.Thresholds {
	return model.Thresholds{
		Low:    decimal.RequireFromString("0.2"),
		Medium: decimal.RequireFromString("0.4"),
		High:   decimal.RequireFromString("0.7"),
	}
}

const scorePrecision = 4

// AssessmentContext describes who or what asked for an assessment.
type AssessmentContext struct {
	AssessedBy string
	Trigger    string
}

// RiskAggregator combines the four component calculators into a tiered assessment.
type RiskAggregator struct {
	now         func() time.Time
	calculators []ComponentCalculator
}

// AggregatorOption configures a RiskAggregator.
type AggregatorOption func(*RiskAggregator)

// WithClock overrides the time source stamped on assessments.
func WithClock(now func() time.Time) AggregatorOption {
	return func(a *RiskAggregator) { a.now = now }
}

// NewRiskAggregator creates an aggregator from explicit calculators.
func NewRiskAggregator(geographic, activity, financial, relationship ComponentCalculator, opts ...AggregatorOption) *RiskAggregator {
	a := &RiskAggregator{
		calculators: []ComponentCalculator{geographic, activity, financial, relationship},
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewDefaultRiskAggregator wires the standard calculators over the reference tables.
func NewDefaultRiskAggregator(tables *reference.Tables, policy valueobject.MissingDataPolicy, opts ...AggregatorOption) *RiskAggregator {
	return NewRiskAggregator(
		NewGeographicRiskCalculator(tables, policy),
		NewActivityRiskCalculator(tables, policy),
		NewFinancialRiskCalculator(tables, policy),
		NewRelationshipRiskCalculator(DefaultRelationshipThresholds()),
		opts...,
	)
}

// Assess runs every calculator, weights the normalized scores with the snapshot
// parameters and classifies the total. Any calculator failure aborts the
// assessment with an *AggregationError.
func (a *RiskAggregator) Assess(customer model.Customer, snapshot model.ParameterSnapshot, actx AssessmentContext) (*model.RiskAssessment, error) {
	weights, thresholds := componentWeights(snapshot)

	components := make([]model.ComponentScore, 0, len(a.calculators))
	factors := newFactorSet()
	if customer.PEP {
		factors.add(FactorPEPStatus)
	}
	overall := decimal.Zero
	docsRequired := false

	for _, calc := range a.calculators {
		result, err := calc.Calculate(customer)
		if err != nil {
			return nil, &AggregationError{Calculator: calc.Component(), Err: err}
		}
		weight := weights[calc.Component()]
		cs := model.ComponentScore{
			Component:  calc.Component(),
			Raw:        result.Raw,
			Normalized: result.Normalized,
			Weight:     weight,
			Tier:       thresholds[calc.Component()].Classify(result.Normalized),
		}
		components = append(components, cs)
		overall = overall.Add(cs.Contribution())
		factors.add(result.Signals...)
		docsRequired = docsRequired || result.DocumentationRequired
	}

	overall = overall.Round(scorePrecision)
	tier := valueobject.RiskTierFromScore(overall)

	return model.NewRiskAssessment(model.AssessmentParams{
		CustomerID:            customer.ID,
		CustomerType:          customer.Type(),
		Tier:                  tier,
		PreviousTier:          customer.CurrentTier,
		OverallScore:          overall,
		Components:            components,
		Factors:               factors.list(),
		DocumentationRequired: docsRequired,
		AssessedAt:            a.now(),
		AssessedBy:            actx.AssessedBy,
		Trigger:               actx.Trigger,
		ParametersTakenAt:     snapshot.TakenAt(),
	})
}

// componentWeights reads the component parameters from the snapshot. If any of
// them is missing, or their weights do not sum to 1, the default weighting is
// used as a whole.
func componentWeights(snapshot model.ParameterSnapshot) (map[valueobject.RiskComponent]decimal.Decimal, map[valueobject.RiskComponent]model.Thresholds) {
	weights := make(map[valueobject.RiskComponent]decimal.Decimal, 4)
	thresholds := make(map[valueobject.RiskComponent]model.Thresholds, 4)
	total := decimal.Zero
	for _, c := range valueobject.AllRiskComponents() {
		p, ok := snapshot.Get(c.ParameterID())
		if !ok || !p.Category().Equal(valueobject.ParameterCategoryCustomer) {
			return DefaultComponentWeights(), defaultThresholdMap()
		}
		weights[c] = p.Weight()
		thresholds[c] = p.Thresholds()
		total = total.Add(p.Weight())
	}
	if !sumsToOne(total) {
		return DefaultComponentWeights(), defaultThresholdMap()
	}
	return weights, thresholds
}

func defaultThresholdMap() map[valueobject.RiskComponent]model.Thresholds {
	m := make(map[valueobject.RiskComponent]model.Thresholds, 4)
	for _, c := range valueobject.AllRiskComponents() {
		m[c] = DefaultComponentThresholds()
	}
	return m
}

// factorSet keeps factors unique in first-seen order.
type factorSet struct {
	seen  map[string]struct{}
	order []string
}

func newFactorSet() *factorSet {
	return &factorSet{seen: make(map[string]struct{})}
}

func (f *factorSet) add(factors ...string) {
	for _, x := range factors {
		if _, ok := f.seen[x]; ok {
			continue
		}
		f.seen[x] = struct{}{}
		f.order = append(f.order, x)
	}
}

func (f *factorSet) list() []string {
	return append([]string(nil), f.order...)
}

package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/kyc-risk-service/internal/application/dto"
	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/reference"
	"github.com/bibbank/kyc-risk-service/internal/domain/service"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
	"github.com/bibbank/kyc-risk-service/internal/infrastructure/memory"
	"github.com/bibbank/kyc-risk-service/pkg/events"
)

// --- Mock implementations ---

type mockAssessmentRepository struct {
	saveFunc func(ctx context.Context, a *model.RiskAssessment) error
	saved    []*model.RiskAssessment
	mu       sync.Mutex
}

func (m *mockAssessmentRepository) Save(ctx context.Context, a *model.RiskAssessment) error {
	if m.saveFunc != nil {
		if err := m.saveFunc(ctx, a); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.saved = append(m.saved, a)
	m.mu.Unlock()
	return nil
}

func (m *mockAssessmentRepository) FindLatestByCustomer(_ context.Context, customerID uuid.UUID) (*model.RiskAssessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.saved) - 1; i >= 0; i-- {
		if m.saved[i].CustomerID() == customerID {
			return m.saved[i], nil
		}
	}
	return nil, &model.NotFoundError{Resource: "risk assessment", ID: customerID.String()}
}

type mockEventPublisher struct {
	publishFunc func(ctx context.Context, evts ...events.DomainEvent) error
	calls       int
	published   []events.DomainEvent
	mu          sync.Mutex
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.mu.Lock()
	m.published = append(m.published, evts...)
	m.mu.Unlock()
	return nil
}

func (m *mockEventPublisher) types() []string {
	out := make([]string, 0, len(m.published))
	for _, e := range m.published {
		out = append(out, e.EventType())
	}
	return out
}

type recordingObserver struct {
	completed  []string
	failed     []string
	parameters []string
	sweeps     int
	mu         sync.Mutex
}

func (o *recordingObserver) AssessmentCompleted(tier, _ string, _ time.Duration) {
	o.mu.Lock()
	o.completed = append(o.completed, tier)
	o.mu.Unlock()
}

func (o *recordingObserver) AssessmentFailed(_, reason string) {
	o.mu.Lock()
	o.failed = append(o.failed, reason)
	o.mu.Unlock()
}

func (o *recordingObserver) SweepCompleted(int, int, time.Duration) {
	o.mu.Lock()
	o.sweeps++
	o.mu.Unlock()
}

func (o *recordingObserver) ParameterChanged(id string) {
	o.mu.Lock()
	o.parameters = append(o.parameters, id)
	o.mu.Unlock()
}

type failingCustomerReader struct{}

func (failingCustomerReader) ListDue(context.Context, int) ([]model.Customer, error) {
	return nil, errors.New("customer service unavailable")
}

func (failingCustomerReader) FindByID(context.Context, uuid.UUID) (model.Customer, error) {
	return model.Customer{}, errors.New("customer service unavailable")
}

// --- Fixtures ---

var fixedNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStore() *service.ParameterStore {
	return service.NewParameterStore(memory.NewParameterRepository(service.DefaultParameters(fixedNow)))
}

func newAggregator() *service.RiskAggregator {
	return service.NewDefaultRiskAggregator(reference.Default(), valueobject.MissingDataNeutral,
		service.WithClock(func() time.Time { return fixedNow }))
}

func strPtr(s string) *string { return &s }

func domesticRequest() dto.CustomerRequest {
	return dto.CustomerRequest{
		CustomerID:     uuid.NewString(),
		CustomerType:   "DOMESTIC_INDIVIDUAL",
		Name:           "Sara Ahmadi",
		Occupation:     "Teacher",
		Nationality:    "Iran",
		BirthPlace:     "Tehran",
		LegalResidence: "Tehran",
		MonthlyIncome:  strPtr("50000000"),
	}
}

func highRiskRequest() dto.CustomerRequest {
	return dto.CustomerRequest{
		CustomerID:     uuid.NewString(),
		CustomerType:   "FOREIGN_INDIVIDUAL",
		Name:           "Ahmad Karimi",
		Occupation:     "Money Exchange",
		Nationality:    "Afghanistan",
		BirthPlace:     "Sistan and Baluchestan, Zahedan",
		LegalResidence: "Sistan and Baluchestan, Saravan",
		MonthlyIncome:  strPtr("6000000000"),
		PEP:            true,
	}
}

func domesticCustomer() model.Customer {
	return model.Customer{
		ID:             uuid.New(),
		Profile:        model.DomesticIndividual{Name: "Sara Ahmadi", Occupation: "Teacher"},
		Nationality:    "Iran",
		BirthPlace:     "Tehran",
		LegalResidence: "Tehran",
		MonthlyIncome:  decimal.NewNullDecimal(decimal.NewFromInt(50_000_000)),
	}
}

func highRiskCustomer() model.Customer {
	return model.Customer{
		ID:             uuid.New(),
		Profile:        model.ForeignIndividual{Name: "Ahmad Karimi", Occupation: "Money Exchange"},
		Nationality:    "Afghanistan",
		BirthPlace:     "Sistan and Baluchestan, Zahedan",
		LegalResidence: "Sistan and Baluchestan, Saravan",
		MonthlyIncome:  decimal.NewNullDecimal(decimal.NewFromInt(6_000_000_000)),
		PEP:            true,
		CurrentTier:    valueobject.RiskTierLow,
	}
}

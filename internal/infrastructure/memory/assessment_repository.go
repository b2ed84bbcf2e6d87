package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
)

// AssessmentRepository keeps the assessment history per customer.
type AssessmentRepository struct {
	byCustomer map[uuid.UUID][]*model.RiskAssessment
	mu         sync.RWMutex
}

func NewAssessmentRepository() *AssessmentRepository {
	return &AssessmentRepository{byCustomer: make(map[uuid.UUID][]*model.RiskAssessment)}
}

func (r *AssessmentRepository) Save(_ context.Context, a *model.RiskAssessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byCustomer[a.CustomerID()] = append(r.byCustomer[a.CustomerID()], a)
	return nil
}

func (r *AssessmentRepository) FindLatestByCustomer(_ context.Context, customerID uuid.UUID) (*model.RiskAssessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.byCustomer[customerID]
	if len(history) == 0 {
		return nil, &model.NotFoundError{Resource: "risk assessment", ID: customerID.String()}
	}
	latest := history[0]
	for _, a := range history[1:] {
		if !a.AssessedAt().Before(latest.AssessedAt()) {
			latest = a
		}
	}
	return latest, nil
}

// CustomerSnapshotReader serves a fixed customer list. It backs the scheduled
// sweep when no database is configured.
type CustomerSnapshotReader struct {
	customers []model.Customer
	mu        sync.RWMutex
}

func NewCustomerSnapshotReader(customers []model.Customer) *CustomerSnapshotReader {
	return &CustomerSnapshotReader{customers: append([]model.Customer(nil), customers...)}
}

// Put adds or replaces a customer snapshot.
func (r *CustomerSnapshotReader) Put(c model.Customer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.customers {
		if r.customers[i].ID == c.ID {
			r.customers[i] = c
			return
		}
	}
	r.customers = append(r.customers, c)
}

func (r *CustomerSnapshotReader) ListDue(_ context.Context, limit int) ([]model.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.customers)
	if limit > 0 && limit < n {
		n = limit
	}
	return append([]model.Customer(nil), r.customers[:n]...), nil
}

func (r *CustomerSnapshotReader) FindByID(_ context.Context, id uuid.UUID) (model.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Customer{}, &model.NotFoundError{Resource: "customer", ID: id.String()}
}

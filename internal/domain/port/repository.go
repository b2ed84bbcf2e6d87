package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/pkg/events"
)

// ParameterMutation computes the next version of a parameter from the current one.
// Returning an error aborts the update without writing anything.
type ParameterMutation func(current model.RiskParameter) (model.RiskParameter, error)

// ParameterRepository defines the persistence port for risk parameters.
type ParameterRepository interface {
	// FindByID returns the parameter or a *model.NotFoundError.
	FindByID(ctx context.Context, id string) (model.RiskParameter, error)

	// FindAll returns every parameter, active or not.
	FindAll(ctx context.Context) ([]model.RiskParameter, error)

	// Update applies mutate to the stored parameter atomically. The stored row is
	// locked for the duration of the call.
	Update(ctx context.Context, id string, mutate ParameterMutation) (model.RiskParameter, error)

	// SaveAll upserts a set of parameters in a single transaction.
	SaveAll(ctx context.Context, params []model.RiskParameter) error
}

// AssessmentRepository defines the persistence port for risk assessments.
type AssessmentRepository interface {
	// Save persists a new assessment. Assessments are never updated.
	Save(ctx context.Context, assessment *model.RiskAssessment) error

	// FindLatestByCustomer returns the most recent assessment or a *model.NotFoundError.
	FindLatestByCustomer(ctx context.Context, customerID uuid.UUID) (*model.RiskAssessment, error)
}

// CustomerSnapshotReader reads customer snapshots maintained by the customer service.
type CustomerSnapshotReader interface {
	// ListDue returns customers whose periodic re-assessment is due.
	ListDue(ctx context.Context, limit int) ([]model.Customer, error)

	// FindByID returns one snapshot or a *model.NotFoundError.
	FindByID(ctx context.Context, id uuid.UUID) (model.Customer, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/reference"
	"github.com/bibbank/kyc-risk-service/internal/domain/service"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

func customer(name string) model.Customer {
	return model.Customer{
		ID:          uuid.New(),
		Profile:     model.DomesticIndividual{Name: name, Occupation: "Teacher"},
		Nationality: "Iran",
	}
}

func TestCustomerSnapshotReader(t *testing.T) {
	ctx := context.Background()
	a, b, c := customer("A"), customer("B"), customer("C")
	r := NewCustomerSnapshotReader([]model.Customer{a, b})

	r.Put(c)
	updated := b
	updated.PEP = true
	r.Put(updated)

	all, err := r.ListDue(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[1].PEP, "put replaces an existing snapshot in place")

	limited, err := r.ListDue(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	got, err := r.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = r.FindByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestAssessmentRepository_LatestWins(t *testing.T) {
	ctx := context.Background()
	repo := NewAssessmentRepository()
	c := customer("A")
	snap := model.NewParameterSnapshot(service.DefaultParameters(time.Now()), time.Now())

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	agg := service.NewDefaultRiskAggregator(reference.Default(), valueobject.MissingDataNeutral,
		service.WithClock(func() time.Time { return clock }))

	first, err := agg.Assess(c, snap, service.AssessmentContext{Trigger: "SCHEDULED"})
	require.NoError(t, err)
	clock = clock.Add(time.Hour)
	second, err := agg.Assess(c, snap, service.AssessmentContext{Trigger: "ON_DEMAND"})
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, repo.Save(ctx, first))

	latest, err := repo.FindLatestByCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID(), latest.ID())

	_, err = repo.FindLatestByCustomer(ctx, uuid.New())
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestParameterRepository_UpdateMutationError(t *testing.T) {
	ctx := context.Background()
	repo := NewParameterRepository(service.DefaultParameters(time.Now()))
	before, err := repo.FindByID(ctx, "GEOGRAPHIC_RISK")
	require.NoError(t, err)

	cause := errors.New("rejected")
	_, err = repo.Update(ctx, "GEOGRAPHIC_RISK", func(model.RiskParameter) (model.RiskParameter, error) {
		return model.RiskParameter{}, cause
	})
	assert.ErrorIs(t, err, cause)

	after, err := repo.FindByID(ctx, "GEOGRAPHIC_RISK")
	require.NoError(t, err)
	assert.True(t, before.Weight().Equal(after.Weight()))

	_, err = repo.Update(ctx, "MISSING", func(p model.RiskParameter) (model.RiskParameter, error) { return p, nil })
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

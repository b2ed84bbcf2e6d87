//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/reference"
	"github.com/bibbank/kyc-risk-service/internal/domain/service"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
	"github.com/bibbank/kyc-risk-service/internal/infrastructure/postgres"
	"github.com/bibbank/kyc-risk-service/internal/infrastructure/postgres/migrations"
	pkgpostgres "github.com/bibbank/kyc-risk-service/pkg/postgres"
	"github.com/bibbank/kyc-risk-service/pkg/testutil"
)

func TestPostgresRepositories(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	pc.Migrate(t, migrations.FS, migrations.Dir)

	params := postgres.NewParameterRepository(pc.Pool)
	assessments := postgres.NewAssessmentRepository(pc.Pool)
	customers := postgres.NewCustomerSnapshotReader(pc.Pool)

	t.Run("seeded parameters validate", func(t *testing.T) {
		all, err := params.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, len(service.DefaultParameters(time.Now())))
		assert.NoError(t, service.ValidateParameterSet(all))
	})

	t.Run("update through the store is atomic", func(t *testing.T) {
		store := service.NewParameterStore(params)
		w := decimal.RequireFromString("0.5")

		_, err := store.Update(ctx, "GEOGRAPHIC_RISK", model.ParameterPatch{Weight: &w}, testutil.ComplianceOfficer)
		require.NoError(t, err)

		got, err := params.FindByID(ctx, "GEOGRAPHIC_RISK")
		require.NoError(t, err)
		testutil.AssertDecimalEqual(t, "0.50", got.Weight())
		assert.Equal(t, testutil.ComplianceOfficer, got.UpdatedBy())

		bad := decimal.RequireFromString("1.5")
		_, err = store.Update(ctx, "GEOGRAPHIC_RISK", model.ParameterPatch{Weight: &bad}, "x")
		assert.True(t, errors.Is(err, model.ErrValidation))
		testutil.AssertErrorContains(t, err, "weight")

		_, err = params.FindByID(ctx, "NOPE")
		assert.True(t, errors.Is(err, model.ErrNotFound))
	})

	t.Run("save all replaces the table", func(t *testing.T) {
		seed := service.DefaultParameters(time.Now())
		require.NoError(t, params.SaveAll(ctx, seed[:4]))
		all, err := params.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 4)
		require.NoError(t, params.SaveAll(ctx, seed))
	})

	t.Run("parameter precision survives storage", func(t *testing.T) {
		store := service.NewParameterStore(params)
		w := decimal.RequireFromString("0.123456789")
		th := model.Thresholds{
			Low:    decimal.RequireFromString("0.300001"),
			Medium: decimal.RequireFromString("0.300002"),
			High:   decimal.RequireFromString("0.9"),
		}

		_, err := store.Update(ctx, "RELATIONSHIP_RISK", model.ParameterPatch{Weight: &w, Thresholds: &th}, testutil.ComplianceOfficer)
		require.NoError(t, err)

		got, err := params.FindByID(ctx, "RELATIONSHIP_RISK")
		require.NoError(t, err)
		testutil.AssertDecimalEqual(t, "0.123456789", got.Weight())
		testutil.AssertDecimalEqual(t, "0.300001", got.Thresholds().Low)
		testutil.AssertDecimalEqual(t, "0.300002", got.Thresholds().Medium)

		require.NoError(t, params.SaveAll(ctx, service.DefaultParameters(time.Now())))
	})

	t.Run("assessments round trip", func(t *testing.T) {
		pc.Truncate(t, "risk_assessments")
		customerID := testutil.ForeignCustomerID
		customer := model.Customer{
			ID:             customerID,
			Profile:        model.ForeignIndividual{Name: "A", Occupation: "Money Exchange"},
			Nationality:    "Afghanistan",
			BirthPlace:     "Sistan and Baluchestan, Zahedan",
			LegalResidence: "Sistan and Baluchestan, Saravan",
			PEP:            true,
			CurrentTier:    valueobject.RiskTierLow,
		}
		agg := service.NewDefaultRiskAggregator(reference.Default(), valueobject.MissingDataNeutral)
		snap := model.NewParameterSnapshot(service.DefaultParameters(time.Now()), time.Now())

		first, err := agg.Assess(customer, snap, service.AssessmentContext{AssessedBy: "system", Trigger: "SCHEDULED"})
		require.NoError(t, err)
		require.NoError(t, assessments.Save(ctx, first))

		time.Sleep(10 * time.Millisecond)
		second, err := agg.Assess(customer, snap, service.AssessmentContext{AssessedBy: "system", Trigger: "ON_DEMAND"})
		require.NoError(t, err)
		require.NoError(t, assessments.Save(ctx, second))

		latest, err := assessments.FindLatestByCustomer(ctx, customerID)
		require.NoError(t, err)
		assert.Equal(t, second.ID(), latest.ID())
		assert.Equal(t, "ON_DEMAND", latest.Trigger())
		testutil.AssertDecimalEqual(t, second.OverallScore().String(), latest.OverallScore())
		assert.True(t, latest.PreviousTier().Equal(valueobject.RiskTierLow))
		assert.Equal(t, second.Factors(), latest.Factors())
		assert.Len(t, latest.Components(), 4)

		_, err = assessments.FindLatestByCustomer(ctx, uuid.New())
		assert.True(t, errors.Is(err, model.ErrNotFound))
	})

	t.Run("customer snapshots", func(t *testing.T) {
		pc.Truncate(t, "customer_snapshots")
		_, err := pc.Pool.Exec(ctx, `
			INSERT INTO customer_snapshots (id, customer_type, name, occupation, nationality, birth_place, legal_residence, monthly_income, next_review_at)
			VALUES
				($1, 'DOMESTIC_INDIVIDUAL', 'Sara', 'Teacher', 'Iran', 'Tehran', 'Tehran', 50000000, NOW() - INTERVAL '1 day'),
				($2, 'LEGAL_ENTITY', 'Acme', 'Precious Metals', 'Iran', 'Tehran', 'Tehran', NULL, NOW() + INTERVAL '30 days')
		`, testutil.DomesticCustomerID, testutil.EntityCustomerID)
		require.NoError(t, err)

		due, err := customers.ListDue(ctx, 0)
		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, testutil.DomesticCustomerID, due[0].ID)
		assert.True(t, due[0].MonthlyIncome.Valid)

		entity, err := customers.FindByID(ctx, testutil.EntityCustomerID)
		require.NoError(t, err)
		assert.True(t, entity.Type().Equal(valueobject.CustomerTypeLegalEntity))
		assert.False(t, entity.MonthlyIncome.Valid)

		_, err = customers.FindByID(ctx, uuid.New())
		assert.True(t, errors.Is(err, model.ErrNotFound))
	})

	t.Run("migrations roll back and reapply", func(t *testing.T) {
		require.NoError(t, pkgpostgres.RunMigrationsDown(pc.DSN, migrations.FS, migrations.Dir))
		var exists bool
		require.NoError(t, pc.Pool.QueryRow(ctx, `SELECT to_regclass('public.risk_parameters') IS NOT NULL`).Scan(&exists))
		assert.False(t, exists)

		require.NoError(t, pkgpostgres.RunMigrations(pc.DSN, migrations.FS, migrations.Dir))
		all, err := params.FindAll(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, all)
	})
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/port"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
	"github.com/bibbank/kyc-risk-service/pkg/postgres"
)

const parameterColumns = `
	id, name, category, weight,
	threshold_low, threshold_medium, threshold_high,
	active, description, updated_by, last_updated`

// ParameterRepository implements port.ParameterRepository using PostgreSQL.
type ParameterRepository struct {
	db DB
}

// NewParameterRepository creates a new PostgreSQL-backed parameter repository.
func NewParameterRepository(db DB) *ParameterRepository {
	return &ParameterRepository{db: db}
}

// FindByID retrieves a parameter by its identifier.
func (r *ParameterRepository) FindByID(ctx context.Context, id string) (model.RiskParameter, error) {
	query := `SELECT ` + parameterColumns + ` FROM risk_parameters WHERE id = $1`
	p, err := scanParameter(r.db.QueryRow(ctx, query, id))
	if isNoRows(err) {
		return model.RiskParameter{}, &model.NotFoundError{Resource: "risk parameter", ID: id}
	}
	return p, err
}

// FindAll retrieves every parameter ordered by category and id.
func (r *ParameterRepository) FindAll(ctx context.Context) ([]model.RiskParameter, error) {
	query := `SELECT ` + parameterColumns + ` FROM risk_parameters ORDER BY category, id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query risk parameters: %w", err)
	}
	defer rows.Close()

	params := make([]model.RiskParameter, 0)
	for rows.Next() {
		p, err := scanParameter(rows)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate risk parameters: %w", err)
	}
	return params, nil
}

// Update locks the row, applies mutate and writes the result in one transaction.
func (r *ParameterRepository) Update(ctx context.Context, id string, mutate port.ParameterMutation) (model.RiskParameter, error) {
	var updated model.RiskParameter
	err := postgres.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `SELECT ` + parameterColumns + ` FROM risk_parameters WHERE id = $1 FOR UPDATE`
		current, err := scanParameter(tx.QueryRow(ctx, query, id))
		if isNoRows(err) {
			return &model.NotFoundError{Resource: "risk parameter", ID: id}
		}
		if err != nil {
			return err
		}

		next, err := mutate(current)
		if err != nil {
			return err
		}
		if err := upsertParameter(ctx, tx, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return model.RiskParameter{}, err
	}
	return updated, nil
}

// SaveAll replaces the stored set with params in one transaction. Parameters
// missing from params are removed.
func (r *ParameterRepository) SaveAll(ctx context.Context, params []model.RiskParameter) error {
	return postgres.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		ids := make([]string, 0, len(params))
		for _, p := range params {
			if err := upsertParameter(ctx, tx, p); err != nil {
				return err
			}
			ids = append(ids, p.ID())
		}
		if _, err := tx.Exec(ctx, `DELETE FROM risk_parameters WHERE NOT (id = ANY($1))`, ids); err != nil {
			return fmt.Errorf("failed to remove replaced risk parameters: %w", err)
		}
		return nil
	})
}

func upsertParameter(ctx context.Context, q postgres.Querier, p model.RiskParameter) error {
	query := `
		INSERT INTO risk_parameters (` + parameterColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			weight = EXCLUDED.weight,
			threshold_low = EXCLUDED.threshold_low,
			threshold_medium = EXCLUDED.threshold_medium,
			threshold_high = EXCLUDED.threshold_high,
			active = EXCLUDED.active,
			description = EXCLUDED.description,
			updated_by = EXCLUDED.updated_by,
			last_updated = EXCLUDED.last_updated
	`
	th := p.Thresholds()
	_, err := q.Exec(ctx, query,
		p.ID(),
		p.Name(),
		p.Category().String(),
		p.Weight(),
		th.Low,
		th.Medium,
		th.High,
		p.Active(),
		p.Description(),
		p.UpdatedBy(),
		p.LastUpdated(),
	)
	if err != nil {
		return fmt.Errorf("failed to save risk parameter %s: %w", p.ID(), err)
	}
	return nil
}

func scanParameter(row pgx.Row) (model.RiskParameter, error) {
	var (
		id, name, categoryStr string
		weight                decimal.Decimal
		th                    model.Thresholds
		active                bool
		description           string
		updatedBy             string
		lastUpdated           time.Time
	)
	err := row.Scan(
		&id, &name, &categoryStr, &weight,
		&th.Low, &th.Medium, &th.High,
		&active, &description, &updatedBy, &lastUpdated,
	)
	if err != nil {
		if isNoRows(err) {
			return model.RiskParameter{}, err
		}
		return model.RiskParameter{}, fmt.Errorf("failed to scan risk parameter: %w", err)
	}

	category, err := valueobject.ParameterCategoryFromString(categoryStr)
	if err != nil {
		return model.RiskParameter{}, fmt.Errorf("failed to parse parameter category: %w", err)
	}
	return model.ReconstructRiskParameter(id, name, category, weight, th, active, description, updatedBy, lastUpdated.UTC()), nil
}

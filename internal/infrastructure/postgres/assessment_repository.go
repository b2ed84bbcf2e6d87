package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
	"github.com/bibbank/kyc-risk-service/pkg/postgres"
)

// componentRecord is the JSONB form of a model.ComponentScore.
type componentRecord struct {
	Component  string          `json:"component"`
	Tier       string          `json:"tier"`
	Raw        decimal.Decimal `json:"raw"`
	Normalized decimal.Decimal `json:"normalized"`
	Weight     decimal.Decimal `json:"weight"`
}

func encodeComponents(components []model.ComponentScore) ([]byte, error) {
	records := make([]componentRecord, 0, len(components))
	for _, c := range components {
		records = append(records, componentRecord{
			Component:  c.Component.String(),
			Tier:       c.Tier.String(),
			Raw:        c.Raw,
			Normalized: c.Normalized,
			Weight:     c.Weight,
		})
	}
	return json.Marshal(records)
}

func decodeComponents(data []byte) ([]model.ComponentScore, error) {
	var records []componentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode components: %w", err)
	}
	out := make([]model.ComponentScore, 0, len(records))
	for _, rec := range records {
		component, err := valueobject.RiskComponentFromString(rec.Component)
		if err != nil {
			return nil, err
		}
		tier, err := valueobject.RiskTierFromString(rec.Tier)
		if err != nil {
			return nil, err
		}
		out = append(out, model.ComponentScore{
			Component:  component,
			Tier:       tier,
			Raw:        rec.Raw,
			Normalized: rec.Normalized,
			Weight:     rec.Weight,
		})
	}
	return out, nil
}

// AssessmentRepository implements port.AssessmentRepository using PostgreSQL.
type AssessmentRepository struct {
	db DB
}

// NewAssessmentRepository creates a new PostgreSQL-backed assessment repository.
func NewAssessmentRepository(db DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// Save persists an assessment and its factors. Assessments are append-only.
func (r *AssessmentRepository) Save(ctx context.Context, a *model.RiskAssessment) error {
	components, err := encodeComponents(a.Components())
	if err != nil {
		return err
	}

	return postgres.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO risk_assessments (
				id, customer_id, customer_type, tier, previous_tier,
				overall_score, documentation_required, assessed_by, assessment_trigger,
				components, assessed_at, parameters_taken_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`
		_, err := tx.Exec(ctx, query,
			a.ID(),
			a.CustomerID(),
			a.CustomerType().String(),
			a.Tier().String(),
			a.PreviousTier().String(),
			a.OverallScore(),
			a.DocumentationRequired(),
			a.AssessedBy(),
			a.Trigger(),
			components,
			a.AssessedAt(),
			a.ParametersTakenAt(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert assessment: %w", err)
		}

		for i, factor := range a.Factors() {
			_, err = tx.Exec(ctx,
				`INSERT INTO risk_assessment_factors (assessment_id, position, factor) VALUES ($1, $2, $3)`,
				a.ID(), i, factor,
			)
			if err != nil {
				return fmt.Errorf("failed to save risk factor: %w", err)
			}
		}
		return nil
	})
}

// FindLatestByCustomer retrieves the most recent assessment of a customer.
func (r *AssessmentRepository) FindLatestByCustomer(ctx context.Context, customerID uuid.UUID) (*model.RiskAssessment, error) {
	query := `
		SELECT id, customer_id, customer_type, tier, previous_tier,
			overall_score, documentation_required, assessed_by, assessment_trigger,
			components, assessed_at, parameters_taken_at
		FROM risk_assessments
		WHERE customer_id = $1
		ORDER BY assessed_at DESC
		LIMIT 1
	`

	var (
		p                                 model.AssessmentParams
		customerTypeStr, tierStr, prevStr string
		components                        []byte
		assessedAt, takenAt               time.Time
	)
	err := r.db.QueryRow(ctx, query, customerID).Scan(
		&p.ID, &p.CustomerID, &customerTypeStr, &tierStr, &prevStr,
		&p.OverallScore, &p.DocumentationRequired, &p.AssessedBy, &p.Trigger,
		&components, &assessedAt, &takenAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, &model.NotFoundError{Resource: "risk assessment", ID: customerID.String()}
		}
		return nil, fmt.Errorf("failed to scan assessment: %w", err)
	}

	if p.CustomerType, err = valueobject.CustomerTypeFromString(customerTypeStr); err != nil {
		return nil, fmt.Errorf("failed to parse customer type: %w", err)
	}
	if p.Tier, err = valueobject.RiskTierFromString(tierStr); err != nil {
		return nil, fmt.Errorf("failed to parse risk tier: %w", err)
	}
	if prevStr != "" {
		if p.PreviousTier, err = valueobject.RiskTierFromString(prevStr); err != nil {
			return nil, fmt.Errorf("failed to parse previous tier: %w", err)
		}
	}
	if p.Components, err = decodeComponents(components); err != nil {
		return nil, err
	}
	if p.Factors, err = r.loadFactors(ctx, p.ID); err != nil {
		return nil, err
	}
	p.AssessedAt = assessedAt.UTC()
	p.ParametersTakenAt = takenAt.UTC()

	return model.ReconstructRiskAssessment(p), nil
}

func (r *AssessmentRepository) loadFactors(ctx context.Context, assessmentID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT factor FROM risk_assessment_factors WHERE assessment_id = $1 ORDER BY position`,
		assessmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query risk factors: %w", err)
	}
	defer rows.Close()

	factors := make([]string, 0)
	for rows.Next() {
		var factor string
		if err := rows.Scan(&factor); err != nil {
			return nil, fmt.Errorf("failed to scan risk factor: %w", err)
		}
		factors = append(factors, factor)
	}
	return factors, rows.Err()
}

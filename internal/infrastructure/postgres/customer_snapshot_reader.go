package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

const customerColumns = `
	id, customer_type, name, occupation, nationality, birth_place, legal_residence,
	monthly_income, pep, current_tier,
	account_age_days, transaction_volume, product_count, service_history_count`

// CustomerSnapshotReader implements port.CustomerSnapshotReader over the
// customer_snapshots table maintained by the customer service.
type CustomerSnapshotReader struct {
	db DB
}

// NewCustomerSnapshotReader creates a new CustomerSnapshotReader.
func NewCustomerSnapshotReader(db DB) *CustomerSnapshotReader {
	return &CustomerSnapshotReader{db: db}
}

// ListDue returns customers whose review date has passed, oldest first. A limit
// of zero returns every due customer.
func (r *CustomerSnapshotReader) ListDue(ctx context.Context, limit int) ([]model.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customer_snapshots
		WHERE next_review_at IS NULL OR next_review_at <= NOW()
		ORDER BY next_review_at NULLS FIRST, id
		LIMIT NULLIF($1, 0)
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query due customers: %w", err)
	}
	defer rows.Close()

	customers := make([]model.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate due customers: %w", err)
	}
	return customers, nil
}

// FindByID returns one customer snapshot.
func (r *CustomerSnapshotReader) FindByID(ctx context.Context, id uuid.UUID) (model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customer_snapshots WHERE id = $1`
	c, err := scanCustomer(r.db.QueryRow(ctx, query, id))
	if isNoRows(err) {
		return model.Customer{}, &model.NotFoundError{Resource: "customer", ID: id.String()}
	}
	return c, err
}

// scanCustomer builds the snapshot without NewCustomer's validation so a bad
// row surfaces as a per-customer assessment failure rather than aborting a sweep.
func scanCustomer(row pgx.Row) (model.Customer, error) {
	var (
		c                model.Customer
		customerTypeStr  string
		name, occupation string
		currentTier      string
		income           decimal.NullDecimal
	)
	err := row.Scan(
		&c.ID, &customerTypeStr, &name, &occupation, &c.Nationality, &c.BirthPlace, &c.LegalResidence,
		&income, &c.PEP, &currentTier,
		&c.Relationship.AccountAgeDays, &c.Relationship.TransactionVolume,
		&c.Relationship.ProductCount, &c.Relationship.ServiceHistoryCount,
	)
	if err != nil {
		if isNoRows(err) {
			return model.Customer{}, err
		}
		return model.Customer{}, fmt.Errorf("failed to scan customer snapshot: %w", err)
	}
	c.MonthlyIncome = income

	if customerType, err := valueobject.CustomerTypeFromString(customerTypeStr); err == nil {
		c.Profile, _ = model.ProfileFor(customerType, name, occupation)
	}
	if currentTier != "" {
		if c.CurrentTier, err = valueobject.RiskTierFromString(currentTier); err != nil {
			return model.Customer{}, fmt.Errorf("failed to parse current tier of customer %s: %w", c.ID, err)
		}
	}
	return c, nil
}

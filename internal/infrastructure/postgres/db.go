// Package postgres holds the PostgreSQL adapters of the domain ports.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/bibbank/kyc-risk-service/pkg/postgres"
)

// DB is satisfied by *pgxpool.Pool.
type DB interface {
	postgres.Querier
	postgres.TxBeginner
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

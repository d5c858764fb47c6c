package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Company Methods
// -----------------------------------------------------------------------------

// GetCompaniesByNames returns the companies whose name exactly matches one of
// names, in table order. Names without a row are simply absent from the result.
func (db *DB) GetCompaniesByNames(ctx context.Context, names []string) ([]Company, error) {
	if len(names) == 0 {
		return []Company{}, nil
	}

	var companies []Company
	err := db.withRetry(ctx, "get companies by names", func() error {
		rows, err := db.pool.Query(ctx,
			`SELECT id, name, data FROM company WHERE name = ANY($1) ORDER BY id`,
			names,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		companies = companies[:0]
		for rows.Next() {
			var c Company
			if err := rows.Scan(&c.ID, &c.Name, &c.Data); err != nil {
				return err
			}
			companies = append(companies, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get companies by names: %w", err)
	}
	if companies == nil {
		companies = []Company{}
	}
	return companies, nil
}

// GetCompanyByID retrieves a company by its id. Returns nil, nil when no row exists.
func (db *DB) GetCompanyByID(ctx context.Context, id int64) (*Company, error) {
	var c Company
	err := db.withRetry(ctx, "get company", func() error {
		return db.pool.QueryRow(ctx,
			`SELECT id, name, data FROM company WHERE id = $1`,
			id,
		).Scan(&c.ID, &c.Name, &c.Data)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &c, nil
}

// Copyright 2025 The Bazarly Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"context"
	"database/sql"
	"errors"
)

// Plan is a paid visibility plan a shop may hold. Plan management is owned by
// the admin system; discovery only resolves priorities.
type Plan struct {
	Ref      string  `json:"ref"`
	Name     string  `json:"name"`
	Priority int     `json:"priority"`
	Price    float64 `json:"price"`
}

// PlanRepository resolves plan priorities for ranking.
type PlanRepository interface {
	// CreateSchema creates the plans table.
	CreateSchema() error

	// PlanPriority returns the priority of the referenced plan, or 0 when the
	// reference is empty or unknown.
	PlanPriority(ctx context.Context, planRef string) (int, error)

	// SeedPlans inserts plans that do not exist yet.
	SeedPlans(plans []*Plan) error
}

type sqlPlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a DuckDB-backed plan repository.
func NewPlanRepository(db *sql.DB) PlanRepository {
	return &sqlPlanRepository{db: db}
}

func (r *sqlPlanRepository) CreateSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS plans (
			ref VARCHAR PRIMARY KEY,
			name VARCHAR NOT NULL,
			priority INTEGER NOT NULL DEFAULT 0,
			price DOUBLE NOT NULL DEFAULT 0
		);
	`)

	return err
}

func (r *sqlPlanRepository) PlanPriority(ctx context.Context, planRef string) (int, error) {
	if planRef == "" {
		return 0, nil
	}

	var priority int

	err := r.db.QueryRowContext(ctx,
		"SELECT priority FROM plans WHERE ref = ?", planRef,
	).Scan(&priority)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}

	if err != nil {
		return 0, err
	}

	return priority, nil
}

func (r *sqlPlanRepository) SeedPlans(plans []*Plan) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO plans(ref, name, priority, price)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		if rErr := tx.Rollback(); rErr != nil {
			err = rErr
		}

		return err
	}
	defer stmt.Close()

	for _, p := range plans {
		if _, err = stmt.Exec(p.Ref, p.Name, p.Priority, p.Price); err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				err = rErr
			}

			return err
		}
	}

	return tx.Commit()
}

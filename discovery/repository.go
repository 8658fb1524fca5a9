// Copyright 2025 The Bazarly Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/skverma/bazarly/spatial"
)

// ShopFilter narrows a shop query. Category is a case-insensitive substring
// match; Type adds the featured/premium eligibility clause.
type ShopFilter struct {
	Type     ListType
	Category string
}

// ShopRepository handles read access to the internal shop store.
type ShopRepository interface {
	// CreateSchema creates the shops table and probes for the geospatial
	// capability.
	CreateSchema() error

	// FindNearby returns active shops within maxKm of point, nearest first.
	// Returns a StoreError of kind StoreErrorProximityUnsupported when the
	// store lacks the geospatial capability.
	FindNearby(ctx context.Context, lat, lng, maxKm float64, filter ShopFilter, limit int) ([]*Shop, error)

	// FindByCity returns active shops whose city matches, case-insensitively.
	FindByCity(ctx context.Context, city string, filter ShopFilter, limit int) ([]*Shop, error)

	// FindAll returns active shops with no location filter.
	FindAll(ctx context.Context, filter ShopFilter, limit int) ([]*Shop, error)

	// BulkInsertShops inserts a slice of shops in one transaction.
	BulkInsertShops(shops []*Shop) error

	// CountShops returns the total number of shops.
	CountShops() (int, error)

	// DB returns the underlying database connection.
	DB() *sql.DB
}

type sqlShopRepository struct {
	db *sql.DB

	// spatialReady records whether the spatial extension loaded at schema
	// creation. FindNearby fails with StoreErrorProximityUnsupported when it
	// is false; callers branch on the error kind, never on message text.
	spatialReady bool
}

// NewShopRepository creates a DuckDB-backed shop repository.
func NewShopRepository(db *sql.DB) ShopRepository {
	return &sqlShopRepository{db: db}
}

func (r *sqlShopRepository) DB() *sql.DB {
	return r.db
}

func (r *sqlShopRepository) CreateSchema() error {
	// The spatial extension is optional: proximity queries need it, every
	// other access path works without it.
	if _, err := r.db.Exec(`INSTALL spatial; LOAD spatial;`); err != nil {
		log.Printf("spatial extension unavailable, proximity queries disabled: %v", err)

		r.spatialReady = false
	} else {
		r.spatialReady = true
	}

	_, err := r.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS shops_seq START 1;

		CREATE TABLE IF NOT EXISTS shops (
			id BIGINT PRIMARY KEY DEFAULT nextval('shops_seq'),
			name VARCHAR NOT NULL,
			category VARCHAR NOT NULL,
			address VARCHAR NOT NULL,
			city VARCHAR NOT NULL,
			lat DOUBLE,
			lng DOUBLE,
			rating DOUBLE DEFAULT 0,
			review_count INTEGER DEFAULT 0,
			visits INTEGER DEFAULT 0,
			likes INTEGER DEFAULT 0,
			is_featured BOOLEAN DEFAULT FALSE,
			is_premium BOOLEAN DEFAULT FALSE,
			plan_ref VARCHAR,
			status VARCHAR NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			h3_res7 UBIGINT,
			h3_res9 UBIGINT
		);
	`)

	return err
}

var shopColumns = `
	id, name, category, address, city, lat, lng, rating, review_count,
	visits, likes, is_featured, is_premium, plan_ref, status,
	created_at, updated_at, h3_res7, h3_res9
`

// buildFilter renders the common eligibility clauses. The returned fragment
// always starts with AND.
func buildFilter(filter ShopFilter) (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)

	if filter.Category != "" {
		sb.WriteString(" AND lower(category) LIKE '%' || lower(?) || '%'")

		args = append(args, filter.Category)
	}

	switch filter.Type {
	case ListTypeFeatured:
		sb.WriteString(" AND is_featured")
	case ListTypePremium:
		sb.WriteString(" AND (is_premium OR plan_ref IS NOT NULL)")
	case ListTypeBest:
		// no extra clause
	}

	return sb.String(), args
}

func (r *sqlShopRepository) FindNearby(ctx context.Context, lat, lng, maxKm float64, filter ShopFilter, limit int) ([]*Shop, error) {
	if !r.spatialReady {
		return nil, &StoreError{
			Kind:    StoreErrorProximityUnsupported,
			Message: "shop store has no spatial extension loaded",
		}
	}

	filterSQL, filterArgs := buildFilter(filter)

	query := `
		SELECT ` + shopColumns + `
		FROM shops
		WHERE status = 'active'
			AND lat IS NOT NULL AND lng IS NOT NULL
			AND ST_Distance_Sphere(ST_Point(lng, lat), ST_Point(?, ?)) <= ?
	` + filterSQL + `
		ORDER BY ST_Distance_Sphere(ST_Point(lng, lat), ST_Point(?, ?)) ASC
		LIMIT ?
	`

	args := []any{lng, lat, maxKm * 1000}
	args = append(args, filterArgs...)
	args = append(args, lng, lat, limit)

	shops, err := r.list(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("proximity query: %w", err)
	}

	return shops, nil
}

func (r *sqlShopRepository) FindByCity(ctx context.Context, city string, filter ShopFilter, limit int) ([]*Shop, error) {
	filterSQL, filterArgs := buildFilter(filter)

	query := `
		SELECT ` + shopColumns + `
		FROM shops
		WHERE status = 'active'
			AND lower(city) = lower(?)
	` + filterSQL + `
		ORDER BY rating DESC, review_count DESC
		LIMIT ?
	`

	args := []any{city}
	args = append(args, filterArgs...)
	args = append(args, limit)

	return r.list(ctx, query, args)
}

func (r *sqlShopRepository) FindAll(ctx context.Context, filter ShopFilter, limit int) ([]*Shop, error) {
	filterSQL, filterArgs := buildFilter(filter)

	query := `
		SELECT ` + shopColumns + `
		FROM shops
		WHERE status = 'active'
	` + filterSQL + `
		ORDER BY rating DESC, review_count DESC
		LIMIT ?
	`

	args := append(filterArgs, limit)

	return r.list(ctx, query, args)
}

func (r *sqlShopRepository) list(ctx context.Context, query string, args []any) ([]*Shop, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shops []*Shop

	for rows.Next() {
		shop, err := scanShop(rows)
		if err != nil {
			return nil, err
		}

		shops = append(shops, shop)
	}

	return shops, rows.Err()
}

func scanShop(rows *sql.Rows) (*Shop, error) {
	shop := &Shop{}

	var (
		lat, lng       sql.NullFloat64
		planRef        sql.NullString
		h3Res7, h3Res9 sql.NullInt64
	)

	err := rows.Scan(
		&shop.ID,
		&shop.Name,
		&shop.Category,
		&shop.Address,
		&shop.City,
		&lat,
		&lng,
		&shop.Rating,
		&shop.ReviewCount,
		&shop.Visits,
		&shop.Likes,
		&shop.IsFeatured,
		&shop.IsPremium,
		&planRef,
		&shop.Status,
		&shop.CreatedAt,
		&shop.UpdatedAt,
		&h3Res7,
		&h3Res9,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid && lng.Valid {
		shop.Point = &spatial.Point{Lat: lat.Float64, Lng: lng.Float64}
	}

	if planRef.Valid {
		shop.PlanRef = planRef.String
	}

	if h3Res7.Valid {
		shop.H3Res7 = h3Res7.Int64
	}

	if h3Res9.Valid {
		shop.H3Res9 = h3Res9.Int64
	}

	return shop, nil
}

func (r *sqlShopRepository) BulkInsertShops(shops []*Shop) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO shops(
			name,
			category,
			address,
			city,
			lat,
			lng,
			rating,
			review_count,
			visits,
			likes,
			is_featured,
			is_premium,
			plan_ref,
			status,
			created_at,
			updated_at,
			h3_res7,
			h3_res9
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		if rErr := tx.Rollback(); rErr != nil {
			err = rErr
		}

		return err
	}
	defer stmt.Close()

	now := time.Now()

	for _, s := range shops {
		if err = s.computeH3(); err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				err = rErr
			}

			return err
		}

		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}

		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = now
		}

		var lat, lng any
		if s.Point != nil {
			lat, lng = s.Point.Lat, s.Point.Lng
		}

		planRef := &s.PlanRef
		if len(*planRef) == 0 {
			planRef = nil
		}

		_, err = stmt.Exec(
			s.Name,
			s.Category,
			s.Address,
			s.City,
			lat,
			lng,
			s.Rating,
			s.ReviewCount,
			s.Visits,
			s.Likes,
			s.IsFeatured,
			s.IsPremium,
			planRef,
			s.Status,
			s.CreatedAt,
			s.UpdatedAt,
			s.H3Res7,
			s.H3Res9,
		)
		if err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				err = rErr
			}

			return err
		}
	}

	return tx.Commit()
}

func (r *sqlShopRepository) CountShops() (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM shops",
	).Scan(&count)

	return count, err
}

// Copyright 2025 The Bazarly Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"fmt"
	"time"

	"github.com/skverma/bazarly/spatial"
	"github.com/uber/h3-go/v4"
)

const (
	// MaxDistanceKm bounds the distance of any returned shop. High enough to
	// be "no hard limit" in practice, but explicit and testable.
	MaxDistanceKm = 20000.0

	// PageSize is the fixed size of one discovery response.
	PageSize = 10

	// nearbyLimit caps the proximity query so the ranking stage has enough
	// candidates to work with.
	nearbyLimit = 200

	// fallbackLimit caps the city and unfiltered queries.
	fallbackLimit = 100

	// searchRadiusMeters is the fixed radius passed to the external place
	// provider.
	searchRadiusMeters = 5000

	// ResultTTL bounds staleness of cached discovery results. Listing writes
	// do not purge matching keys; the TTL is the only invalidation.
	ResultTTL = 5 * time.Minute
)

// ShopStatus values a Shop moves through in the admin workflow. Only active
// shops are eligible for discovery.
const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusRejected = "rejected"
)

// Sources of a merged shop.
const (
	SourceInternal = "internal"
	SourceExternal = "external"
)

// Shop is a curated business record owned by the surrounding CRUD system.
// Discovery only reads it; the seed command is the only writer in this repo.
type Shop struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	Address     string         `json:"address"`
	City        string         `json:"city"`
	Point       *spatial.Point `json:"point"`
	Rating      float64        `json:"rating"`
	ReviewCount int            `json:"review_count"`
	Visits      int            `json:"visits"`
	Likes       int            `json:"likes"`
	IsFeatured  bool           `json:"is_featured"`
	IsPremium   bool           `json:"is_premium"`
	PlanRef     string         `json:"plan_ref,omitempty"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	H3Res7      int64          `json:"-"`
	H3Res9      int64          `json:"-"`
}

func (s *Shop) computeH3() error {
	if s.Point == nil {
		s.H3Res7 = 0
		s.H3Res9 = 0

		return nil
	}

	latLng := h3.NewLatLng(s.Point.Lat, s.Point.Lng)

	for _, res := range []int{7, 9} {
		cell, err := h3.LatLngToCell(latLng, res)
		if err != nil {
			return fmt.Errorf("converting to h3 cell at res %d: %w", res, err)
		}

		switch res {
		case 7:
			s.H3Res7 = int64(cell)
		case 9:
			s.H3Res9 = int64(cell)
		}
	}

	return nil
}

// spatialPointIfValid builds a point when the coordinates are usable, nil
// otherwise.
func spatialPointIfValid(lat, lng float64) *spatial.Point {
	p := spatial.Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		return nil
	}

	return &p
}

// Place is a result from the external place-search provider. Ephemeral, never
// persisted.
type Place struct {
	PlaceID     string         `json:"place_id"`
	Name        string         `json:"name"`
	Address     string         `json:"address"`
	Point       *spatial.Point `json:"point"`
	Rating      float64        `json:"rating"`
	RatingCount int            `json:"rating_count"`
	Types       []string       `json:"types"`
}

// MergedShop is the unit discovery produces: a superset view over both
// sources. DistanceKm is nil when the shop has no usable coordinates.
type MergedShop struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Category     string         `json:"category"`
	Address      string         `json:"address"`
	City         string         `json:"city,omitempty"`
	Point        *spatial.Point `json:"point,omitempty"`
	Rating       float64        `json:"rating"`
	ReviewCount  int            `json:"review_count"`
	DistanceKm   *float64       `json:"distance_km"`
	IsFeatured   bool           `json:"is_featured"`
	IsPaid       bool           `json:"is_paid"`
	PlanPriority int            `json:"plan_priority"`
	RankScore    float64        `json:"rank_score"`
	Source       string         `json:"source"`
}

// SourceCounts reports how many shops each source contributed to a response.
type SourceCounts struct {
	Internal int `json:"internal"`
	External int `json:"external"`
}

// DiscoverResult is the response body of one discovery request.
type DiscoverResult struct {
	Shops   []*MergedShop `json:"shops"`
	Total   int           `json:"total"`
	Type    string        `json:"type"`
	Sources SourceCounts  `json:"sources"`
}

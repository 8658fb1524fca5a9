// Copyright 2025 The Bazarly Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/skverma/bazarly/spatial"
)

// ListType selects the filter and sort strategy of a discovery request.
type ListType string

// Supported list types. Anything else normalizes to ListTypeBest.
const (
	ListTypeBest     ListType = "best"
	ListTypeFeatured ListType = "featured"
	ListTypePremium  ListType = "premium"
)

// Query is a validated discovery request. Point is nil unless both raw
// coordinates parsed and fell within valid ranges.
type Query struct {
	Type     ListType
	Point    *spatial.Point
	City     string
	Category string
	External bool
}

// HasValidCoords reports whether geospatial filtering is possible.
func (q *Query) HasValidCoords() bool {
	return q.Point != nil
}

// CacheKey derives the deterministic cache key for the full parameter tuple.
func (q *Query) CacheKey() string {
	coords := "-"
	if q.Point != nil {
		coords = fmt.Sprintf("%.6f,%.6f", q.Point.Lat, q.Point.Lng)
	}

	return strings.Join([]string{
		"shops:v1",
		string(q.Type),
		coords,
		strings.ToLower(q.City),
		strings.ToLower(q.Category),
		fmt.Sprintf("ext=%t", q.External),
	}, "|")
}

// NormalizeQuery validates and clamps raw request parameters into a Query.
// Malformed coordinates are not an error: the query degrades to "no geo
// filter" mode.
func NormalizeQuery(rawLat, rawLng, city, category, rawType string, external bool) *Query {
	q := &Query{
		Type:     normalizeType(rawType),
		City:     strings.TrimSpace(city),
		Category: strings.TrimSpace(category),
		External: external,
	}

	lat, errLat := strconv.ParseFloat(strings.TrimSpace(rawLat), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(rawLng), 64)

	if errLat == nil && errLng == nil {
		p := spatial.Point{Lat: lat, Lng: lng}
		if p.Valid() {
			q.Point = &p
		}
	}

	return q
}

func normalizeType(raw string) ListType {
	switch ListType(strings.ToLower(strings.TrimSpace(raw))) {
	case ListTypeFeatured:
		return ListTypeFeatured
	case ListTypePremium:
		return ListTypePremium
	default:
		return ListTypeBest
	}
}

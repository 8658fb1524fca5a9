// Copyright 2025 The Bazarly Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"sort"
)

// lessFunc is a total order over merged shops.
type lessFunc func(a, b *MergedShop) bool

// strategyFor picks the comparator for a list type. Selected once per request
// and reused, so the null-distance handling lives in exactly one place.
func strategyFor(t ListType) lessFunc {
	switch t {
	case ListTypeBest:
		return lessBest
	case ListTypeFeatured:
		return lessFeatured
	default:
		return lessPremium
	}
}

// cmpDistance orders ascending with nil last. A zero distance sorts before
// any positive one: an exact location match wins.
func cmpDistance(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	default:
		return 0
	}
}

func lessBest(a, b *MergedShop) bool {
	return cmpDistance(a.DistanceKm, b.DistanceKm) < 0
}

func lessFeatured(a, b *MergedShop) bool {
	if a.Rating != b.Rating {
		return a.Rating > b.Rating
	}

	if a.ReviewCount != b.ReviewCount {
		return a.ReviewCount > b.ReviewCount
	}

	return cmpDistance(a.DistanceKm, b.DistanceKm) < 0
}

func lessPremium(a, b *MergedShop) bool {
	if a.IsPaid != b.IsPaid {
		return a.IsPaid
	}

	if a.PlanPriority != b.PlanPriority {
		return a.PlanPriority > b.PlanPriority
	}

	if a.RankScore != b.RankScore {
		return a.RankScore > b.RankScore
	}

	return cmpDistance(a.DistanceKm, b.DistanceKm) < 0
}

// rankAndTruncate sorts by the type's strategy, drops shops beyond the
// maximum radius, and cuts the page to size.
func rankAndTruncate(shops []*MergedShop, t ListType) []*MergedShop {
	less := strategyFor(t)
	sort.SliceStable(shops, func(i, j int) bool {
		return less(shops[i], shops[j])
	})

	inRange := make([]*MergedShop, 0, len(shops))

	for _, shop := range shops {
		if shop.DistanceKm != nil && *shop.DistanceKm > MaxDistanceKm {
			continue
		}

		inRange = append(inRange, shop)
	}

	if len(inRange) > PageSize {
		inRange = inRange[:PageSize]
	}

	return inRange
}

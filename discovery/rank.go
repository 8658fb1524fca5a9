// Copyright 2025 The Bazarly Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"math"
)

// Salts separating the rating and review-count streams of SyntheticScore.
const (
	ratingSalt = 7
	reviewSalt = 13
)

// SyntheticScore derives a deterministic pseudo-random value in [0, 1) from a
// stable identity and a salt. Same inputs always yield the same output: no
// shared RNG state, so synthesized stats survive repeated calls and cache
// misses unchanged.
func SyntheticScore(identity string, salt int) float64 {
	sum := 0
	for _, r := range identity {
		sum += int(r)
	}

	x := math.Sin(float64(sum*salt+salt)) * 10000

	return x - math.Floor(x)
}

// syntheticRating returns a placeholder rating in [3.0, 5.0].
func syntheticRating(identity string) float64 {
	return round2(3.0 + SyntheticScore(identity, ratingSalt)*2.0)
}

// syntheticReviews returns a placeholder review count in [5, 100].
func syntheticReviews(identity string) int {
	return 5 + int(SyntheticScore(identity, reviewSalt)*96)
}

// ensureSyntheticStats fills in rating and review count for shops lacking
// real user-submitted data, keyed by the shop's stable identity.
func ensureSyntheticStats(shop *MergedShop) {
	if shop.Rating == 0 {
		shop.Rating = syntheticRating(shop.ID)
	}

	if shop.ReviewCount == 0 {
		shop.ReviewCount = syntheticReviews(shop.ID)
	}
}

// scoreShop computes the composite rank score. The exact weighting is a
// tuning parameter; only the ordinal behavior is a contract: higher rating or
// lower distance never lowers the score.
func scoreShop(shop *MergedShop) {
	distance := 0.0
	if shop.DistanceKm != nil {
		distance = *shop.DistanceKm
	}

	shop.RankScore = round2(shop.Rating*10 - distance + float64(shop.PlanPriority)*5)
}

// round2 rounds to 2 decimal places, applied to every numeric output.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

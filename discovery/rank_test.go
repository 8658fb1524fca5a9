// Copyright 2025 The Bazarly Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticScoreDeterministic(t *testing.T) {
	for _, identity := range []string{"1", "42", "ChIJN1t_tDeuEmsR", "sharma kirana"} {
		first := SyntheticScore(identity, ratingSalt)
		second := SyntheticScore(identity, ratingSalt)
		require.Equal(t, first, second, "identity %q must be stable", identity)

		assert.GreaterOrEqual(t, first, 0.0)
		assert.Less(t, first, 1.0)
	}

	// Different salts give independent streams
	assert.NotEqual(t,
		SyntheticScore("42", ratingSalt),
		SyntheticScore("42", reviewSalt),
	)
}

func TestEnsureSyntheticStats(t *testing.T) {
	shop := &MergedShop{ID: "17"}

	ensureSyntheticStats(shop)

	assert.GreaterOrEqual(t, shop.Rating, 3.0)
	assert.LessOrEqual(t, shop.Rating, 5.0)
	assert.GreaterOrEqual(t, shop.ReviewCount, 5)
	assert.LessOrEqual(t, shop.ReviewCount, 100)

	// Idempotent: a second pass on a fresh copy yields the same values
	again := &MergedShop{ID: "17"}
	ensureSyntheticStats(again)
	assert.Equal(t, shop.Rating, again.Rating)
	assert.Equal(t, shop.ReviewCount, again.ReviewCount)

	// Ranges hold across many identities
	for i := 0; i < 500; i++ {
		s := &MergedShop{ID: fmt.Sprintf("shop-%d", i)}
		ensureSyntheticStats(s)
		require.GreaterOrEqual(t, s.Rating, 3.0)
		require.LessOrEqual(t, s.Rating, 5.0)
		require.GreaterOrEqual(t, s.ReviewCount, 5)
		require.LessOrEqual(t, s.ReviewCount, 100)
	}
}

func TestEnsureSyntheticStatsKeepsRealData(t *testing.T) {
	shop := &MergedShop{ID: "9", Rating: 4.2, ReviewCount: 31}

	ensureSyntheticStats(shop)

	assert.Equal(t, 4.2, shop.Rating)
	assert.Equal(t, 31, shop.ReviewCount)
}

func TestScoreShopOrdinalBehavior(t *testing.T) {
	km := func(v float64) *float64 { return &v }

	base := &MergedShop{ID: "a", Rating: 4.0, DistanceKm: km(5)}
	betterRating := &MergedShop{ID: "b", Rating: 4.5, DistanceKm: km(5)}
	closer := &MergedShop{ID: "c", Rating: 4.0, DistanceKm: km(1)}
	planned := &MergedShop{ID: "d", Rating: 4.0, DistanceKm: km(5), PlanPriority: 2}

	for _, s := range []*MergedShop{base, betterRating, closer, planned} {
		scoreShop(s)
	}

	assert.Greater(t, betterRating.RankScore, base.RankScore)
	assert.Greater(t, closer.RankScore, base.RankScore)
	assert.Greater(t, planned.RankScore, base.RankScore)

	// nil distance scores as if at the reference point
	noDistance := &MergedShop{ID: "e", Rating: 4.0}
	scoreShop(noDistance)
	assert.Equal(t, 40.0, noDistance.RankScore)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 3.14, round2(3.14159))
	assert.Equal(t, 3.15, round2(3.146))
	assert.Equal(t, -2.5, round2(-2.501))
	assert.Equal(t, 0.0, round2(0))
}

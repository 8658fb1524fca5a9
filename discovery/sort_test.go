// Copyright 2025 The Bazarly Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func km(v float64) *float64 { return &v }

func names(shops []*MergedShop) []string {
	out := make([]string, len(shops))
	for i, s := range shops {
		out[i] = s.Name
	}

	return out
}

func TestBestOrdering(t *testing.T) {
	shops := []*MergedShop{
		{Name: "far", DistanceKm: km(12.5)},
		{Name: "unknown", DistanceKm: nil},
		{Name: "near", DistanceKm: km(0.8)},
		{Name: "exact", DistanceKm: km(0)},
		{Name: "mid", DistanceKm: km(4.2)},
	}

	got := rankAndTruncate(shops, ListTypeBest)

	want := []string{"exact", "near", "mid", "far", "unknown"}
	if diff := cmp.Diff(want, names(got)); diff != "" {
		t.Errorf("best ordering mismatch (-want +got):\n%s", diff)
	}
}

func TestFeaturedOrdering(t *testing.T) {
	shops := []*MergedShop{
		{Name: "low rated", Rating: 3.1, ReviewCount: 90, DistanceKm: km(1)},
		{Name: "top many reviews", Rating: 4.8, ReviewCount: 50, DistanceKm: km(9)},
		{Name: "top few reviews", Rating: 4.8, ReviewCount: 10, DistanceKm: km(1)},
		{Name: "top tie near", Rating: 4.8, ReviewCount: 50, DistanceKm: km(2)},
		{Name: "no distance", Rating: 4.8, ReviewCount: 50, DistanceKm: nil},
	}

	got := rankAndTruncate(shops, ListTypeFeatured)

	want := []string{"top tie near", "top many reviews", "no distance", "top few reviews", "low rated"}
	if diff := cmp.Diff(want, names(got)); diff != "" {
		t.Errorf("featured ordering mismatch (-want +got):\n%s", diff)
	}
}

func TestPremiumOrdering(t *testing.T) {
	shops := []*MergedShop{
		{Name: "free high score", IsPaid: false, RankScore: 99, DistanceKm: km(0.1)},
		{Name: "paid low plan", IsPaid: true, PlanPriority: 1, RankScore: 10, DistanceKm: km(15)},
		{Name: "paid high plan", IsPaid: true, PlanPriority: 3, RankScore: 5, DistanceKm: km(20)},
		{Name: "paid tie score", IsPaid: true, PlanPriority: 1, RankScore: 20, DistanceKm: km(1)},
	}

	got := rankAndTruncate(shops, ListTypePremium)

	want := []string{"paid high plan", "paid tie score", "paid low plan", "free high score"}
	if diff := cmp.Diff(want, names(got)); diff != "" {
		t.Errorf("premium ordering mismatch (-want +got):\n%s", diff)
	}
}

func TestRankAndTruncatePageSize(t *testing.T) {
	var shops []*MergedShop
	for i := 0; i < 35; i++ {
		shops = append(shops, &MergedShop{
			Name:       fmt.Sprintf("shop-%d", i),
			DistanceKm: km(float64(i)),
		})
	}

	got := rankAndTruncate(shops, ListTypeBest)
	assert.Len(t, got, PageSize)
	assert.Equal(t, "shop-0", got[0].Name)
}

func TestRankAndTruncateDistanceBound(t *testing.T) {
	shops := []*MergedShop{
		{Name: "in range", DistanceKm: km(19999)},
		{Name: "too far", DistanceKm: km(MaxDistanceKm + 1)},
		{Name: "unknown", DistanceKm: nil},
	}

	got := rankAndTruncate(shops, ListTypeBest)

	require.Len(t, got, 2)
	assert.Equal(t, "in range", got[0].Name)
	assert.Equal(t, "unknown", got[1].Name)

	for _, s := range got {
		if s.DistanceKm != nil {
			assert.GreaterOrEqual(t, *s.DistanceKm, 0.0)
			assert.LessOrEqual(t, *s.DistanceKm, MaxDistanceKm)
		}
	}
}

func TestStrategyForFallsBackToPremium(t *testing.T) {
	// Unknown types share the premium comparator
	a := &MergedShop{IsPaid: true}
	b := &MergedShop{IsPaid: false}

	less := strategyFor(ListType("whatever"))
	assert.True(t, less(a, b))
	assert.False(t, less(b, a))
}

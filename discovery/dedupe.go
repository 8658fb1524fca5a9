// Copyright 2025 The Bazarly Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"math"
	"strings"

	"github.com/uber/h3-go/v4"
	"golang.org/x/text/cases"
)

// dedupThresholdDeg is the coordinate delta under which two same-named
// listings count as the same physical place (~111 m on each axis).
const dedupThresholdDeg = 0.001

// dedupRes is the H3 resolution used to bucket dedup candidates. Res-9 cells
// have ~174 m edges, so a cell plus its immediate neighbors always covers the
// threshold box.
const dedupRes = 9

// foldName normalizes a shop name for comparison. Unicode case folding
// rather than ASCII lowering: curated names mix scripts.
func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// dedupIndex buckets internal shops by H3 cell so each external place is only
// compared against spatial neighbors.
type dedupIndex struct {
	byCell map[h3.Cell][]*MergedShop
	loose  []*MergedShop // shops that could not be bucketed
}

func newDedupIndex(shops []*MergedShop) *dedupIndex {
	ix := &dedupIndex{byCell: make(map[h3.Cell][]*MergedShop)}

	for _, shop := range shops {
		if shop.Point == nil {
			continue // no coordinates, can never coincide with an external place
		}

		cell, err := h3.LatLngToCell(h3.NewLatLng(shop.Point.Lat, shop.Point.Lng), dedupRes)
		if err != nil {
			ix.loose = append(ix.loose, shop)

			continue
		}

		ix.byCell[cell] = append(ix.byCell[cell], shop)
	}

	return ix
}

// isDuplicate reports whether the place coincides with an indexed internal
// shop: case-folded equal name and both coordinate deltas under the
// threshold. Internal records are curated, so they always win the merge.
func (ix *dedupIndex) isDuplicate(place *Place) bool {
	if place.Point == nil {
		return false
	}

	name := foldName(place.Name)

	candidates := ix.loose

	cell, err := h3.LatLngToCell(h3.NewLatLng(place.Point.Lat, place.Point.Lng), dedupRes)
	if err == nil {
		disk, diskErr := h3.GridDisk(cell, 1)
		if diskErr == nil {
			for _, c := range disk {
				candidates = append(candidates, ix.byCell[c]...)
			}
		} else {
			candidates = allShops(ix)
		}
	} else {
		candidates = allShops(ix)
	}

	for _, shop := range candidates {
		if shop.Point == nil {
			continue
		}

		if foldName(shop.Name) != name {
			continue
		}

		if math.Abs(shop.Point.Lat-place.Point.Lat) < dedupThresholdDeg &&
			math.Abs(shop.Point.Lng-place.Point.Lng) < dedupThresholdDeg {
			return true
		}
	}

	return false
}

func allShops(ix *dedupIndex) []*MergedShop {
	shops := append([]*MergedShop(nil), ix.loose...)
	for _, bucket := range ix.byCell {
		shops = append(shops, bucket...)
	}

	return shops
}

// dedupePlaces drops every external place that coincides with one of the
// internal shops. One-directional: external never removes internal.
func dedupePlaces(internal []*MergedShop, places []*Place) []*Place {
	if len(places) == 0 {
		return places
	}

	ix := newDedupIndex(internal)

	kept := make([]*Place, 0, len(places))

	for _, place := range places {
		if ix.isDuplicate(place) {
			continue
		}

		kept = append(kept, place)
	}

	return kept
}

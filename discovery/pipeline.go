// Copyright 2025 The Bazarly Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"context"
	"log"
	"strconv"

	"github.com/skverma/bazarly/spatial"
	"golang.org/x/sync/errgroup"
)

// Discoverer runs the hybrid discovery pipeline: internal store and external
// provider fan-out, distance, dedup, rank, type-specific sort, page truncate.
type Discoverer struct {
	shops  ShopRepository
	places PlaceSearcher
	plans  PlanRepository
	cache  *ResultCache
}

// NewDiscoverer wires the pipeline. places may be nil when no external
// provider is configured.
func NewDiscoverer(shops ShopRepository, places PlaceSearcher, plans PlanRepository, cache *ResultCache) *Discoverer {
	return &Discoverer{
		shops:  shops,
		places: places,
		plans:  plans,
		cache:  cache,
	}
}

// DiscoverCached serves the request through the result cache. The returned
// bytes are the serialized DiscoverResult, byte-identical across hits within
// the TTL window.
func (d *Discoverer) DiscoverCached(ctx context.Context, q *Query) ([]byte, error) {
	return d.cache.GetOrCompute(q.CacheKey(), func() (*DiscoverResult, error) {
		return d.Discover(ctx, q)
	})
}

// Discover runs the pipeline once, bypassing the cache.
func (d *Discoverer) Discover(ctx context.Context, q *Query) (*DiscoverResult, error) {
	var (
		internal []*Shop
		external []*Place
	)

	// The two lookups are independent. The external leg swallows its own
	// failures, so only an internal store failure can surface here.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		internal, err = d.lookupInternal(gctx, q)

		return err
	})

	g.Go(func() error {
		external = d.lookupExternal(gctx, q)

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := d.mergeInternal(ctx, internal, q.Point)

	externalCount := 0

	for _, place := range dedupePlaces(merged, external) {
		merged = append(merged, placeToMerged(place, q.Point))
		externalCount++
	}

	for _, shop := range merged {
		ensureSyntheticStats(shop)
		scoreShop(shop)
	}

	total := len(merged)
	page := rankAndTruncate(merged, q.Type)

	sources := SourceCounts{}

	for _, shop := range page {
		if shop.Source == SourceInternal {
			sources.Internal++
		} else {
			sources.External++
		}
	}

	return &DiscoverResult{
		Shops:   page,
		Total:   total,
		Type:    string(q.Type),
		Sources: sources,
	}, nil
}

// lookupInternal queries the shop store, preferring the proximity branch and
// degrading per the store's declared capability.
func (d *Discoverer) lookupInternal(ctx context.Context, q *Query) ([]*Shop, error) {
	filter := ShopFilter{Type: q.Type, Category: q.Category}

	if q.HasValidCoords() {
		shops, err := d.shops.FindNearby(ctx, q.Point.Lat, q.Point.Lng, MaxDistanceKm, filter, nearbyLimit)
		if err == nil {
			return shops, nil
		}

		if !IsProximityUnsupported(err) {
			return nil, err
		}

		log.Printf("proximity query unsupported, retrying without geo clause: %v", err)
	}

	if q.City != "" {
		return d.shops.FindByCity(ctx, q.City, filter, fallbackLimit)
	}

	return d.shops.FindAll(ctx, filter, fallbackLimit)
}

// lookupExternal queries the place provider. Tolerant of total failure:
// a slow quota-starved third party produces an empty slice, never an error.
func (d *Discoverer) lookupExternal(ctx context.Context, q *Query) []*Place {
	if d.places == nil || !q.External || !q.HasValidCoords() {
		return nil
	}

	places, err := d.places.NearbySearch(ctx, q.Point.Lat, q.Point.Lng, searchRadiusMeters, q.Category)
	if err != nil {
		log.Printf("external place search failed, continuing without it: %v", err)

		return nil
	}

	return places
}

func (d *Discoverer) mergeInternal(ctx context.Context, shops []*Shop, origin *spatial.Point) []*MergedShop {
	merged := make([]*MergedShop, 0, len(shops))

	for _, s := range shops {
		m := &MergedShop{
			ID:          strconv.FormatInt(s.ID, 10),
			Name:        s.Name,
			Category:    s.Category,
			Address:     s.Address,
			City:        s.City,
			Point:       s.Point,
			Rating:      s.Rating,
			ReviewCount: s.ReviewCount,
			IsFeatured:  s.IsFeatured,
			IsPaid:      s.IsPremium || s.PlanRef != "",
			Source:      SourceInternal,
		}

		m.DistanceKm = distanceFrom(origin, s.Point)
		m.PlanPriority = d.planPriority(ctx, s.PlanRef)

		merged = append(merged, m)
	}

	return merged
}

func placeToMerged(p *Place, origin *spatial.Point) *MergedShop {
	return &MergedShop{
		ID:          p.PlaceID,
		Name:        p.Name,
		Category:    primaryType(p.Types),
		Address:     p.Address,
		Point:       p.Point,
		Rating:      p.Rating,
		ReviewCount: p.RatingCount,
		DistanceKm:  distanceFrom(origin, p.Point),
		Source:      SourceExternal,
	}
}

// distanceFrom computes the rounded distance between the query point and a
// shop, nil when either side has no usable coordinates.
func distanceFrom(origin, point *spatial.Point) *float64 {
	if origin == nil || point == nil || !point.Valid() {
		return nil
	}

	km := round2(origin.DistanceKm(point))

	return &km
}

// planPriority resolves the plan reference, failing soft to 0: a broken plan
// store degrades ranking, never the request.
func (d *Discoverer) planPriority(ctx context.Context, planRef string) int {
	if planRef == "" || d.plans == nil {
		return 0
	}

	priority, err := d.plans.PlanPriority(ctx, planRef)
	if err != nil {
		log.Printf("plan priority lookup failed for %q, defaulting to 0: %v", planRef, err)

		return 0
	}

	return priority
}

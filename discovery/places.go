// Copyright 2025 The Bazarly Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// PlaceSearcher is the external place-search provider boundary.
type PlaceSearcher interface {
	// NearbySearch returns places around the point within radiusMeters.
	// keyword narrows the search and may be empty.
	NearbySearch(ctx context.Context, lat, lng float64, radiusMeters int, keyword string) ([]*Place, error)
}

const googlePlacesBaseURL = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"

// GooglePlacesClient queries the Google Places nearby-search API.
type GooglePlacesClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGooglePlacesClient creates a new Google Places client. The timeout bounds
// how long one slow third-party call can hold a discovery request.
func NewGooglePlacesClient(apiKey string) *GooglePlacesClient {
	return &GooglePlacesClient{
		apiKey:  apiKey,
		baseURL: googlePlacesBaseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type googlePlacesResponse struct {
	Results []struct {
		PlaceID  string `json:"place_id"`
		Name     string `json:"name"`
		Vicinity string `json:"vicinity"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		Rating           float64  `json:"rating"`
		UserRatingsTotal int      `json:"user_ratings_total"`
		Types            []string `json:"types"`
	} `json:"results"`
	Status       string `json:"status"` // OK, ZERO_RESULTS, OVER_QUERY_LIMIT, ...
	ErrorMessage string `json:"error_message"`
}

func (c *GooglePlacesClient) NearbySearch(ctx context.Context, lat, lng float64, radiusMeters int, keyword string) ([]*Place, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("places: no API key configured")
	}

	params := url.Values{}
	params.Set("location", fmt.Sprintf("%.6f,%.6f", lat, lng))
	params.Set("radius", fmt.Sprintf("%d", radiusMeters))
	params.Set("key", c.apiKey)

	if keyword != "" {
		params.Set("keyword", keyword)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("places: building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places: request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places: provider returned status %d", resp.StatusCode)
	}

	var gpResp googlePlacesResponse
	if err := json.NewDecoder(resp.Body).Decode(&gpResp); err != nil {
		return nil, fmt.Errorf("places: decoding response: %w", err)
	}

	switch gpResp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return []*Place{}, nil
	default:
		return nil, fmt.Errorf("places: provider status %s: %s", gpResp.Status, gpResp.ErrorMessage)
	}

	places := make([]*Place, 0, len(gpResp.Results))

	for _, result := range gpResp.Results {
		place := &Place{
			PlaceID:     result.PlaceID,
			Name:        result.Name,
			Address:     result.Vicinity,
			Rating:      result.Rating,
			RatingCount: result.UserRatingsTotal,
			Types:       result.Types,
		}

		point := spatialPointIfValid(result.Geometry.Location.Lat, result.Geometry.Location.Lng)
		place.Point = point

		places = append(places, place)
	}

	return places, nil
}

// primaryType returns the first tag that says something about the business,
// skipping the generic tags Google attaches to everything.
func primaryType(tags []string) string {
	skip := map[string]bool{
		"point_of_interest": true,
		"establishment":     true,
	}

	for _, t := range tags {
		if !skip[t] {
			return t
		}
	}

	if len(tags) > 0 {
		return tags[0]
	}

	return "business"
}

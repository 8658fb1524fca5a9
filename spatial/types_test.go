// Copyright 2025 The Bazarly Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Point
		expected float64
		delta    float64
	}{
		{
			name:     "same point",
			a:        Point{Lat: 25.61, Lng: 85.14},
			b:        Point{Lat: 25.61, Lng: 85.14},
			expected: 0,
			delta:    0.0001,
		},
		{
			name:     "patna to delhi",
			a:        Point{Lat: 25.5941, Lng: 85.1376},
			b:        Point{Lat: 28.6139, Lng: 77.2090},
			expected: 853,
			delta:    10,
		},
		{
			name:     "across a city block",
			a:        Point{Lat: 25.6100, Lng: 85.1400},
			b:        Point{Lat: 25.6110, Lng: 85.1410},
			expected: 0.15,
			delta:    0.05,
		},
		{
			name:     "antipodal-ish",
			a:        Point{Lat: 0, Lng: 0.0001},
			b:        Point{Lat: 0, Lng: 180},
			expected: 20015,
			delta:    30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.DistanceKm(&tt.b)
			assert.InDelta(t, tt.expected, got, tt.delta)

			// Symmetric
			assert.InDelta(t, got, tt.b.DistanceKm(&tt.a), 0.0001)
		})
	}
}

func TestPointValid(t *testing.T) {
	assert.True(t, Point{Lat: 25.61, Lng: 85.14}.Valid())
	assert.True(t, Point{Lat: -34.9, Lng: -56.2}.Valid())
	assert.False(t, Point{}.Valid(), "zero value means no location set")
	assert.False(t, Point{Lat: 91, Lng: 10}.Valid())
	assert.False(t, Point{Lat: -91, Lng: 10}.Valid())
	assert.False(t, Point{Lat: 10, Lng: 181}.Valid())
	assert.False(t, Point{Lat: 10, Lng: -181}.Valid())
}

func TestPointString(t *testing.T) {
	p := Point{Lat: 25.61, Lng: 85.14}
	require.Equal(t, "POINT(85.140000 25.610000)", p.String())
}

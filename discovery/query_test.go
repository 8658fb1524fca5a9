// Copyright 2025 The Bazarly Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeQueryCoordinates(t *testing.T) {
	tests := []struct {
		name       string
		lat, lng   string
		wantCoords bool
	}{
		{"valid", "25.61", "85.14", true},
		{"valid negative", "-34.90", "-56.16", true},
		{"missing both", "", "", false},
		{"missing lng", "25.61", "", false},
		{"garbage lat", "abc", "85.14", false},
		{"lat out of range", "90.5", "85.14", false},
		{"lng out of range", "25.61", "181", false},
		{"zero zero means unset", "0", "0", false},
		{"whitespace tolerated", " 25.61 ", " 85.14 ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NormalizeQuery(tt.lat, tt.lng, "", "", "best", true)
			assert.Equal(t, tt.wantCoords, q.HasValidCoords())
		})
	}
}

func TestNormalizeQueryType(t *testing.T) {
	assert.Equal(t, ListTypeBest, NormalizeQuery("", "", "", "", "best", true).Type)
	assert.Equal(t, ListTypeFeatured, NormalizeQuery("", "", "", "", "featured", true).Type)
	assert.Equal(t, ListTypePremium, NormalizeQuery("", "", "", "", "premium", true).Type)
	assert.Equal(t, ListTypeBest, NormalizeQuery("", "", "", "", "", true).Type)
	assert.Equal(t, ListTypeBest, NormalizeQuery("", "", "", "", "bogus", true).Type)
	assert.Equal(t, ListTypePremium, NormalizeQuery("", "", "", "", " Premium ", true).Type)
}

func TestCacheKey(t *testing.T) {
	a := NormalizeQuery("25.61", "85.14", "Patna", "kirana", "best", true)
	b := NormalizeQuery("25.61", "85.14", "patna", "KIRANA", "best", true)
	require.Equal(t, a.CacheKey(), b.CacheKey(), "city and category are case-insensitive")

	// Every parameter participates in the key
	variants := []*Query{
		NormalizeQuery("25.62", "85.14", "Patna", "kirana", "best", true),
		NormalizeQuery("25.61", "85.14", "Delhi", "kirana", "best", true),
		NormalizeQuery("25.61", "85.14", "Patna", "sweets", "best", true),
		NormalizeQuery("25.61", "85.14", "Patna", "kirana", "premium", true),
		NormalizeQuery("25.61", "85.14", "Patna", "kirana", "best", false),
		NormalizeQuery("", "", "Patna", "kirana", "best", true),
	}

	for _, v := range variants {
		assert.NotEqual(t, a.CacheKey(), v.CacheKey())
	}
}

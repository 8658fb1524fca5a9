// Copyright 2025 The Bazarly Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// SeedData is the JSON seed file format: the curated shop catalog plus the
// plan table, exported from the admin system.
type SeedData struct {
	Version     string    `json:"version"`
	LastUpdated time.Time `json:"last_updated"`
	Shops       []*Shop   `json:"shops"`
	Plans       []*Plan   `json:"plans"`
}

// LoadSeedFile reads and parses a seed file.
func LoadSeedFile(path string) (*SeedData, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is provided by the operator
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	var seed SeedData
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	return &seed, nil
}

// SeedIfEmpty imports the seed file when the shop table is empty. Returns
// whether an import happened and how many shops the store now holds.
func SeedIfEmpty(shops ShopRepository, plans PlanRepository, path string) (bool, int, error) {
	count, err := shops.CountShops()
	if err != nil {
		return false, 0, fmt.Errorf("counting shops: %w", err)
	}

	if count > 0 {
		return false, count, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// No seed file, that's okay
		return false, 0, nil
	}

	seed, err := LoadSeedFile(path)
	if err != nil {
		return false, 0, err
	}

	if err := plans.SeedPlans(seed.Plans); err != nil {
		return false, 0, fmt.Errorf("seeding plans: %w", err)
	}

	if err := shops.BulkInsertShops(seed.Shops); err != nil {
		return false, 0, fmt.Errorf("seeding shops: %w", err)
	}

	return true, len(seed.Shops), nil
}

// Copyright 2025 The Bazarly Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"encoding/json"
	"log"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheStore is the cache backend boundary: atomic byte-level get/set with a
// per-entry TTL. A nil value with a nil error is a miss.
type CacheStore interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte, ttl time.Duration) error
}

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

type memoryCacheStore struct {
	lru *lru.Cache[string, cacheEntry]
	now func() time.Time
}

// NewMemoryCacheStore creates an in-process LRU-bounded TTL cache.
func NewMemoryCacheStore(size int) CacheStore {
	cache, err := lru.New[string, cacheEntry](size)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}

	return &memoryCacheStore{lru: cache, now: time.Now}
}

func (s *memoryCacheStore) Get(key string) ([]byte, error) {
	entry, ok := s.lru.Get(key)
	if !ok {
		return nil, nil
	}

	if s.now().After(entry.expiresAt) {
		s.lru.Remove(key)

		return nil, nil
	}

	return entry.value, nil
}

func (s *memoryCacheStore) Set(key string, value []byte, ttl time.Duration) error {
	s.lru.Add(key, cacheEntry{value: value, expiresAt: s.now().Add(ttl)})

	return nil
}

// ResultCache wraps the discovery pipeline with a get-or-compute contract.
// Hits return the stored bytes unchanged; any backend failure behaves as a
// miss so a broken cache never fails a request. Concurrent requests for the
// same key may both compute on a miss; that race only costs a recomputation.
type ResultCache struct {
	store CacheStore
	ttl   time.Duration
}

// NewResultCache creates a result cache with the given backend and TTL.
func NewResultCache(store CacheStore, ttl time.Duration) *ResultCache {
	return &ResultCache{store: store, ttl: ttl}
}

// GetOrCompute returns the cached serialized result for key, or runs compute,
// stores its serialization, and returns it.
func (c *ResultCache) GetOrCompute(key string, compute func() (*DiscoverResult, error)) ([]byte, error) {
	if cached, err := c.store.Get(key); err != nil {
		log.Printf("cache get failed for %q, bypassing: %v", key, err)
	} else if cached != nil {
		return cached, nil
	}

	result, err := compute()
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(key, data, c.ttl); err != nil {
		log.Printf("cache set failed for %q: %v", key, err)
	}

	return data, nil
}

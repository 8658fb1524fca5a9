// Copyright 2025 The Bazarly Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	apikeys "cloud.google.com/go/apikeys/apiv2"
	"cloud.google.com/go/apikeys/apiv2/apikeyspb"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
)

// ServerOptions configures the discovery HTTP server.
type ServerOptions struct {
	// Addr is the listen address, e.g. "localhost:8080".
	Addr string

	// APIKey is the Google Places key. Empty means: try the
	// GOOGLE_MAPS_API_KEY env var, then ADC.
	APIKey string

	// CacheSize bounds the in-memory result cache.
	CacheSize int
}

// Server exposes the discovery pipeline over HTTP.
type Server struct {
	discoverer *Discoverer
	addr       string
}

// NewServer wires repositories into a discovery server. The external provider
// is optional: with no usable API key the pipeline runs internal-only.
func NewServer(shops ShopRepository, plans PlanRepository, opts ServerOptions) *Server {
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	}

	if apiKey == "" {
		log.Println("GOOGLE_MAPS_API_KEY is not set. Attempting to retrieve via ADC...")

		var err error

		apiKey, err = getAPIKeyFromADC(context.Background())
		if err != nil {
			log.Printf("Failed to retrieve API key via ADC: %v", err)
			log.Print("External place search disabled; serving internal results only.")
		}
	}

	var places PlaceSearcher
	if apiKey != "" {
		places = NewGooglePlacesClient(apiKey)
	}

	cacheSize := opts.CacheSize
	if cacheSize <= 0 {
		cacheSize = 1024
	}

	cache := NewResultCache(NewMemoryCacheStore(cacheSize), ResultTTL)

	addr := opts.Addr
	if addr == "" {
		addr = "localhost:8080"
	}

	return &Server{
		discoverer: NewDiscoverer(shops, places, plans, cache),
		addr:       addr,
	}
}

func getAPIKeyFromADC(ctx context.Context) (string, error) {
	creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return "", fmt.Errorf("finding default credentials: %w", err)
	}

	projectID := creds.ProjectID
	if projectID == "" {
		return "", errors.New("no project ID in default credentials")
	}

	client, err := apikeys.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating apikeys client: %w", err)
	}
	defer client.Close()

	const targetDisplayName = "Bazarly Places Key"

	req := &apikeyspb.ListKeysRequest{
		Parent: fmt.Sprintf("projects/%s/locations/global", projectID),
	}

	it := client.ListKeys(ctx, req)

	for {
		key, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("listing keys: %w", err)
		}

		if key.DisplayName != targetDisplayName {
			continue
		}

		// ListKeys redacts KeyString; GetKeyString retrieves the secret.
		getReq := &apikeyspb.GetKeyStringRequest{
			Name: key.Name,
		}

		resp, err := client.GetKeyString(ctx, getReq)
		if err != nil {
			return "", fmt.Errorf("getting key string: %w", err)
		}

		if resp.KeyString == "" {
			return "", fmt.Errorf("key %q found but KeyString is empty", targetDisplayName)
		}

		return resp.KeyString, nil
	}

	return "", fmt.Errorf("key with display name %q not found in project %s", targetDisplayName, projectID)
}

// Run starts the HTTP server and blocks.
func (s *Server) Run() error {
	r := gin.Default()

	s.registerRoutes(r)

	return r.Run(s.addr)
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/healthz", s.healthz)
	r.GET("/shops/featured", s.featuredShops)
}

func (s *Server) healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// featuredShops handles GET /shops/featured. Degraded inputs produce fewer or
// differently-sourced results; only an internal store failure returns 500,
// and even that keeps the response shape.
func (s *Server) featuredShops(ctx *gin.Context) {
	external := true
	if raw := ctx.Query("google"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			external = v
		}
	}

	q := NormalizeQuery(
		ctx.Query("lat"),
		ctx.Query("lng"),
		ctx.Query("city"),
		ctx.Query("category"),
		ctx.Query("type"),
		external,
	)

	data, err := s.discoverer.DiscoverCached(ctx.Request.Context(), q)
	if err != nil {
		log.Printf("discovery pipeline failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "shop discovery failed",
			"shops":   []*MergedShop{},
			"total":   0,
			"type":    string(q.Type),
			"sources": SourceCounts{},
		})

		return
	}

	ctx.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

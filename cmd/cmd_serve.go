// Copyright 2025 The Bazarly Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/skverma/bazarly/discovery"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultSeedFile = "seed.json"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the shop discovery HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		shopRepo := discovery.NewShopRepository(db)
		if err := shopRepo.CreateSchema(); err != nil {
			return fmt.Errorf("creating shop schema: %w", err)
		}

		planRepo := discovery.NewPlanRepository(db)
		if err := planRepo.CreateSchema(); err != nil {
			return fmt.Errorf("creating plan schema: %w", err)
		}

		seeded, count, err := discovery.SeedIfEmpty(shopRepo, planRepo, viper.GetString("seed"))
		if err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}

		if seeded {
			fmt.Printf("🌱 Seeded %d shops from %s\n", count, viper.GetString("seed"))
		}

		server := discovery.NewServer(shopRepo, planRepo, discovery.ServerOptions{
			Addr:      viper.GetString("addr"),
			APIKey:    viper.GetString("places_api_key"),
			CacheSize: viper.GetInt("cache_size"),
		})

		fmt.Printf("🛍️  Shop discovery server starting on %s\n", viper.GetString("addr"))

		return server.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "localhost:8080", "listen address")
	serveCmd.Flags().String("seed", defaultSeedFile, "seed file loaded when the shop table is empty")
	serveCmd.Flags().Int("cache-size", 1024, "max entries in the result cache")

	// BAZARLY_ADDR, BAZARLY_SEED, BAZARLY_CACHE_SIZE, BAZARLY_PLACES_API_KEY
	viper.SetEnvPrefix("BAZARLY")
	viper.AutomaticEnv()

	_ = viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("seed", serveCmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("cache_size", serveCmd.Flags().Lookup("cache-size"))
}

// Copyright 2025 The Bazarly Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/skverma/bazarly/discovery"
	"github.com/spf13/cobra"
)

const seedBatchSize = 100

var seedCmd = &cobra.Command{
	Use:   "seed <file>",
	Short: "Import shops and plans from a JSON seed file",
	Long: `Imports the shop catalog and plan table from a JSON export of the admin
system. Existing rows are kept; shops from the file are appended.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
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

		seed, err := discovery.LoadSeedFile(args[0])
		if err != nil {
			return err
		}

		if err := planRepo.SeedPlans(seed.Plans); err != nil {
			return fmt.Errorf("importing plans: %w", err)
		}

		var bar *progressbar.ProgressBar
		if isatty.IsTerminal(os.Stderr.Fd()) {
			bar = progressbar.NewOptions(len(seed.Shops),
				progressbar.OptionSetDescription("Importing shops"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		for start := 0; start < len(seed.Shops); start += seedBatchSize {
			end := start + seedBatchSize
			if end > len(seed.Shops) {
				end = len(seed.Shops)
			}

			if err := shopRepo.BulkInsertShops(seed.Shops[start:end]); err != nil {
				return fmt.Errorf("importing shops: %w", err)
			}

			if bar != nil {
				_ = bar.Add(end - start)
			}
		}

		if bar != nil {
			_ = bar.Finish()
		}

		fmt.Printf("✅ Imported %d shops and %d plans from %s\n",
			len(seed.Shops), len(seed.Plans), args[0])

		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

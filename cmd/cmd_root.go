// Copyright 2025 The Bazarly Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})

	rootCmd.PersistentFlags().StringVar(&dbDir, "db", "data", "directory holding the bazarly database")
}

var dbDir string

var rootCmd = &cobra.Command{
	Use:   "bazarly",
	Short: "local-business discovery service",
	Long: `
bazarly serves nearby-shop discovery for the Bazarly app: it merges the
curated internal shop catalog with external place-search results, ranks the
combined set, and exposes it over HTTP.
`,
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// openDatabase opens (creating if needed) the DuckDB database under dbDir.
func openDatabase() (*sql.DB, error) {
	if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	dbpath := filepath.Join(dbDir, "bazarly.duckdb")

	db, err := sql.Open("duckdb", dbpath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return db, nil
}

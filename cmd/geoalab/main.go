// Package main provides the geoalab CLI: it prints the DDL for geometry
// models, applies it to a database, and converts geometry values.
//
// Usage:
//
//	geoalab ddl [--watch]          # Print CREATE TABLE + geometry registration
//	geoalab apply                  # Run the DDL against database_url
//	geoalab encode <wkt> [--srid]  # WKT to hex EWKB
//	geoalab decode <hex|wkt>       # Hex EWKB or WKT to kind, SRID and WKT
//	geoalab check <lon> <lat>      # Validate a longitude/latitude pair
//	geoalab distance <lon> <lat> <lon> <lat>
//	geoalab functions              # List spatial functions
//	geoalab where <fn> <field> <wkt>
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hlop3z/geoalab/internal/cli"

	// Database drivers
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// version is set via ldflags during build: -ldflags="-X main.version=v1.0.0"
var version = "dev"

// Global flags
var (
	configFile  string
	databaseURL string
	dialectName string
	modelsFile  string
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "geoalab",
		Short:         "Geometry columns for relational schemas",
		Long:          `geoalab emits PostGIS DDL for models with point and polygon columns and converts geometry values between WKT and hex EWKB.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "geoalab.yaml", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&databaseURL, "database-url", "d", "", "Database connection URL")
	rootCmd.PersistentFlags().StringVar(&dialectName, "dialect", "", "SQL dialect (postgres, sqlite)")
	rootCmd.PersistentFlags().StringVarP(&modelsFile, "models", "m", "", "Path to models file")

	rootCmd.AddCommand(
		ddlCmd(),
		applyCmd(),
		encodeCmd(),
		decodeCmd(),
		checkCmd(),
		distanceCmd(),
		functionsCmd(),
		whereCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprint(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}

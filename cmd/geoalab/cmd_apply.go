package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hlop3z/geoalab/internal/cli"
	"github.com/hlop3z/geoalab/internal/executor"
	"github.com/hlop3z/geoalab/internal/schemagen"
)

// applyCmd creates the model tables in the configured database.
func applyCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create the model tables in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if dryRun {
				return emitDDL(cmd.OutOrStdout(), cfg)
			}

			models, err := loadModels(cfg)
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			log := cfg.Logger(cmd.ErrOrStderr())
			d := cfg.SQLDialect()
			ex := executor.New(db, d, executor.WithLogger(log))
			if err := ex.CreateSchema(cmd.Context(), schemagen.New(d, schemagen.WithLogger(log)), models...); err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("created %d table(s)", len(models))))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry", false, "Print the DDL without executing it")
	return cmd
}

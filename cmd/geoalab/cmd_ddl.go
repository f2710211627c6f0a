package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/hlop3z/geoalab/internal/cli"
	"github.com/hlop3z/geoalab/internal/config"
	"github.com/hlop3z/geoalab/internal/schemagen"
)

// ddlCmd prints the DDL for the models file.
func ddlCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "ddl",
		Short: "Print the DDL for the models file",
		Long: `Print CREATE TABLE statements for every model. Geometry columns are left out
of the table body and registered afterwards with AddGeometryColumn, followed
by spatial indexes, secondary indexes and comments.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if err := emitDDL(out, cfg); err != nil {
				if !watch {
					return err
				}
				fmt.Fprint(cmd.ErrOrStderr(), cli.FormatError(err))
			}
			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(cmd.ErrOrStderr(), "  Watching: %s\n", cfg.Models)
			return watchFile(ctx, cfg.Models, func() {
				fmt.Fprintln(out, cli.Dim("-- "+cfg.Models+" changed"))
				if err := emitDDL(out, cfg); err != nil {
					fmt.Fprint(cmd.ErrOrStderr(), cli.FormatError(err))
				}
			})
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-emit the DDL whenever the models file changes")
	return cmd
}

func emitDDL(out io.Writer, cfg *config.Config) error {
	models, err := loadModels(cfg)
	if err != nil {
		return err
	}
	gen := schemagen.New(cfg.SQLDialect(), schemagen.WithLogger(cfg.Logger(nil)))
	ddl, err := gen.SchemaDDL(models...)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, ddl.String())
	return err
}

// watchFile calls onChange after every write, create or rename of path until
// ctx is done. The parent directory is watched so editors that replace the
// file on save are still seen.
func watchFile(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

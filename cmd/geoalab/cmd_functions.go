package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hlop3z/geoalab/internal/cli"
	"github.com/hlop3z/geoalab/internal/geometry"
	"github.com/hlop3z/geoalab/internal/spatial"
)

// functionsCmd lists the spatial function catalog.
func functionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the spatial functions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl := cli.NewTable("function", "description")
			for _, op := range spatial.Catalog() {
				tbl.AddRow(op.Name(), op.Doc())
			}
			fmt.Fprint(cmd.OutOrStdout(), tbl.String())
			return nil
		},
	}
}

// whereCmd renders a spatial filter on a field.
func whereCmd() *cobra.Command {
	var srid int32

	cmd := &cobra.Command{
		Use:     "where <function> <field> <wkt>",
		Short:   "Render a spatial filter as SQL",
		Example: `  geoalab where contains poly "POINT (5 5)" --srid 4326`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			op, err := spatial.Lookup(args[0])
			if err != nil {
				return err
			}
			g, err := geometry.ParseWKT(args[2])
			if err != nil {
				return err
			}
			fn, err := op.Build(spatial.Args{
				Lookup: map[string]any{args[1]: g},
				SRID2:  srid,
			})
			if err != nil {
				return err
			}
			sql, err := fn.AsCriterion().Render(cfg.SQLDialect())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sql)
			return nil
		},
	}

	sridFlag(cmd.Flags(), &srid, "SRID for the geometry literal")
	return cmd
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hlop3z/geoalab/internal/alerr"
	"github.com/hlop3z/geoalab/internal/cli"
	"github.com/hlop3z/geoalab/internal/geometry"
	"github.com/hlop3z/geoalab/internal/spatial"
)

// encodeCmd converts WKT to hex EWKB.
func encodeCmd() *cobra.Command {
	var srid int32

	cmd := &cobra.Command{
		Use:     "encode <wkt>",
		Short:   "Encode WKT as hex EWKB",
		Example: `  geoalab encode "POINT (23 10)" --srid 4326`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hex, err := geometry.Codec{SRID: srid}.Encode(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex)
			return nil
		},
	}

	sridFlag(cmd.Flags(), &srid, "SRID stamped on the encoded value")
	return cmd
}

// decodeCmd converts hex EWKB or WKT to a readable form.
func decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "decode <hex|wkt>",
		Short:   "Decode hex EWKB or WKT",
		Example: `  geoalab decode 0101000020E610000000000000000037400000000000002440`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := geometry.Codec{}.Decode(args[0])
			if err != nil {
				return err
			}
			tbl := cli.NewTable("kind", "srid", "wkt")
			tbl.AddRow(g.Kind().String(), strconv.Itoa(int(g.SRID())), g.WKT())
			fmt.Fprint(cmd.OutOrStdout(), tbl.String())
			return nil
		},
	}
}

// checkCmd validates a longitude/latitude pair.
func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <lon> <lat>",
		Short: "Validate a longitude/latitude pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePoint(args[0], args[1])
			if err != nil {
				return err
			}
			if _, err := geometry.ValidateCoordinates(p); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), cli.FormatSuccess(p.WKT()+" is a valid longitude/latitude pair"))
			return nil
		},
	}
}

// distanceCmd prints the planar and spherical distance between two points.
func distanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "distance <lon1> <lat1> <lon2> <lat2>",
		Short:   "Distance between two lon/lat points",
		Example: `  geoalab distance 2.828787714242935 41.98668181757302 2.8292490541934967 41.9864914201914`,
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parsePoint(args[0], args[1])
			if err != nil {
				return err
			}
			b, err := parsePoint(args[2], args[3])
			if err != nil {
				return err
			}
			for _, p := range []*geometry.Point{a, b} {
				if _, err := geometry.ValidateCoordinates(p); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.KeyValue("planar", strconv.FormatFloat(spatial.PlanarDistance(a, b), 'g', -1, 64)+" degrees"))
			fmt.Fprintln(out, cli.KeyValue("sphere", strconv.FormatFloat(spatial.SphereDistance(a, b), 'f', 3, 64)+" m"))
			return nil
		},
	}
}

func parsePoint(lon, lat string) (*geometry.Point, error) {
	x, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return nil, alerr.Newf(alerr.ErrInvalidArgument, "longitude %q is not a number", lon)
	}
	y, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, alerr.Newf(alerr.ErrInvalidArgument, "latitude %q is not a number", lat)
	}
	return geometry.NewPoint(x, y), nil
}

// sridFlag registers --srid on fs. Zero keeps the SRID the input carries.
func sridFlag(fs *pflag.FlagSet, p *int32, usage string) {
	fs.Int32Var(p, "srid", 0, usage+" (0 keeps the input's)")
}

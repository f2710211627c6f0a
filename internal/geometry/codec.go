package geometry

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/ewkbhex"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/hlop3z/geoalab/internal/alerr"
)

// Stage failures of the text decoding chain.
var (
	ErrNotHex          = errors.New("geometry: input is not hexadecimal")
	ErrInvalidWKB      = errors.New("geometry: invalid WKB")
	ErrInvalidWKT      = errors.New("geometry: invalid WKT")
	ErrUnsupportedType = errors.New("geometry: only POINT and POLYGON are supported")
)

// StageError records why one decoding format was rejected.
type StageError struct {
	Format string
	Err    error
}

func (e *StageError) Error() string {
	return e.Format + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Format names used in StageError and error context.
const (
	FormatHexWKB = "hex-wkb"
	FormatWKT    = "wkt"
)

type textStage struct {
	format string
	decode func(string) (Geometry, error)
}

// textStages is the ordered fallback chain for text input.
var textStages = []textStage{
	{FormatHexWKB, decodeHexWKB},
	{FormatWKT, decodeWKT},
}

// Codec converts geometry values to and from their stored representation.
// A non-zero SRID is stamped on encoded values and on decoded values that
// carry none.
type Codec struct {
	SRID int32
}

// Encode returns the hex-encoded little-endian EWKB of v, which must be a
// Geometry or a WKT string.
func (c Codec) Encode(v any) (string, error) {
	var g Geometry
	switch x := v.(type) {
	case Geometry:
		if IsNil(x) {
			return "", alerr.New(alerr.ErrMalformedGeometry, "cannot encode a nil geometry")
		}
		g = x
	case string:
		parsed, err := ParseWKT(x)
		if err != nil {
			return "", err
		}
		g = parsed
	default:
		return "", alerr.Newf(alerr.ErrMalformedGeometry, "cannot encode geometry from %T", v).
			WithHelp("pass a *geometry.Point, *geometry.Polygon or a WKT string")
	}

	t, err := toGeom(g)
	if err != nil {
		return "", alerr.Wrap(alerr.ErrMalformedGeometry, err, "cannot encode geometry")
	}
	if c.SRID != 0 {
		t = withSRID(t, c.SRID)
	}
	s, err := ewkbhex.Encode(t, binary.LittleEndian)
	if err != nil {
		return "", alerr.Wrap(alerr.ErrMalformedGeometry, err, "cannot encode geometry")
	}
	return strings.ToUpper(s), nil
}

// ParseWKT parses WKT, or EWKT with a "SRID=n;" prefix.
func ParseWKT(s string) (Geometry, error) {
	g, err := decodeWKT(s)
	if err != nil {
		return nil, alerr.Wrap(alerr.ErrMalformedGeometry, err, "value is not valid WKT").
			With("input", truncate(s))
	}
	return g, nil
}

// Decode converts a stored or user-supplied value into a Geometry.
//
//   - nil is returned as nil
//   - a Geometry is returned unchanged
//   - []byte is decoded as WKB/EWKB
//   - string is tried as hex WKB (only if valid hex), then as WKT/EWKT
func (c Codec) Decode(v any) (Geometry, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case Geometry:
		return x, nil
	case []byte:
		g, err := decodeWKB(x)
		if err != nil {
			return nil, alerr.Wrap(alerr.ErrCorruptGeometry, err, "stored geometry is not valid WKB").
				With("bytes", len(x))
		}
		return c.stamp(g), nil
	case string:
		g, err := decodeText(x)
		if err != nil {
			return nil, err
		}
		return c.stamp(g), nil
	default:
		return nil, alerr.Newf(alerr.ErrUnparseableGeometry, "cannot decode geometry from %T", v)
	}
}

func (c Codec) stamp(g Geometry) Geometry {
	if c.SRID == 0 || g.SRID() != 0 {
		return g
	}
	switch x := g.(type) {
	case *Point:
		return x.WithSRID(c.SRID)
	case *Polygon:
		return x.WithSRID(c.SRID)
	}
	return g
}

// decodeText runs the fallback chain and reports every attempted format on failure.
func decodeText(s string) (Geometry, error) {
	var (
		tried    []string
		failures []error
	)
	for _, stage := range textStages {
		g, err := stage.decode(s)
		if err == nil {
			return g, nil
		}
		tried = append(tried, stage.format)
		failures = append(failures, &StageError{Format: stage.format, Err: err})
	}
	return nil, alerr.Wrap(alerr.ErrUnparseableGeometry, errors.Join(failures...), "cannot decode geometry from text").
		With("tried", strings.Join(tried, ", ")).
		With("input", truncate(s))
}

func decodeHexWKB(s string) (Geometry, error) {
	if !isHex(s) {
		return nil, ErrNotHex
	}
	t, err := ewkbhex.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWKB, err)
	}
	return fromGeom(t)
}

func decodeWKB(b []byte) (Geometry, error) {
	t, err := ewkb.Unmarshal(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWKB, err)
	}
	return fromGeom(t)
}

const sridPrefix = "SRID="

// decodeWKT parses WKT with an optional "SRID=n;" prefix.
func decodeWKT(s string) (Geometry, error) {
	s = strings.TrimSpace(s)
	var srid int32
	if len(s) >= len(sridPrefix) && strings.EqualFold(s[:len(sridPrefix)], sridPrefix) {
		end := strings.IndexByte(s, ';')
		if end == -1 {
			return nil, fmt.Errorf("%w: missing ';' after SRID declaration", ErrInvalidWKT)
		}
		n, err := strconv.ParseInt(s[len(sridPrefix):end], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: bad SRID: %v", ErrInvalidWKT, err)
		}
		srid = int32(n)
		s = s[end+1:]
	}
	if s == "" {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidWKT)
	}
	t, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWKT, err)
	}
	g, err := fromGeom(t)
	if err != nil {
		return nil, err
	}
	if srid != 0 {
		switch x := g.(type) {
		case *Point:
			return x.WithSRID(srid), nil
		case *Polygon:
			return x.WithSRID(srid), nil
		}
	}
	return g, nil
}

func isHex(s string) bool {
	if s == "" || len(s)%2 != 0 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

func withSRID(t geom.T, srid int32) geom.T {
	switch g := t.(type) {
	case *geom.Point:
		return g.SetSRID(int(srid))
	case *geom.Polygon:
		return g.SetSRID(int(srid))
	}
	return t
}

// IsNil reports whether g is nil or a typed nil *Point or *Polygon.
func IsNil(g Geometry) bool {
	switch x := g.(type) {
	case *Point:
		return x == nil
	case *Polygon:
		return x == nil
	}
	return g == nil
}

func truncate(s string) string {
	const max = 64
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

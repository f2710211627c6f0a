// Package sqlfunc builds SQL function-call expressions that render as inline
// SQL, act as WHERE/HAVING criteria, and can be parameterized for prepared
// execution.
//
// An argument is one of:
//   - a literal (nil, string, bool, integer, float, []byte, or Literal)
//   - a column reference (Column or any Columner)
//   - a nested *Func
//
// Param tokens appear only in parameterized copies.
package sqlfunc

import (
	"encoding/hex"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/hlop3z/geoalab/internal/alerr"
)

// Quoter quotes identifiers for a dialect.
type Quoter interface {
	QuoteIdent(name string) string
}

type ansiQuoter struct{}

func (ansiQuoter) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// ANSI quotes identifiers with double quotes. It is used when a nil Quoter is passed.
var ANSI Quoter = ansiQuoter{}

// Renderable renders itself as a SQL fragment.
type Renderable interface {
	Render(q Quoter) (string, error)
}

// FilterCriterion is a boolean predicate usable in WHERE or HAVING.
// Fields returns every column the predicate references, for join inference.
type FilterCriterion interface {
	Renderable
	Fields() []Column
}

// Literal forces a value to be rendered as a SQL literal.
type Literal struct {
	V any
}

// Param is a placeholder token such as $1 or ?.
type Param string

// -----------------------------------------------------------------------------
// Func
// -----------------------------------------------------------------------------

// Func is an immutable SQL function call.
type Func struct {
	name   string
	args   []any
	alias  string
	params []any // original arguments of a parameterized copy
}

// Named builds a call to any SQL function. Zero arguments are allowed.
func Named(name string, args ...any) *Func {
	return &Func{name: name, args: append([]any(nil), args...)}
}

// Name returns the function name.
func (f *Func) Name() string { return f.name }

// Alias returns the output alias, or "".
func (f *Func) Alias() string { return f.alias }

// Args returns a copy of the argument list.
func (f *Func) Args() []any {
	return append([]any(nil), f.args...)
}

// As returns a copy of f with an output alias.
func (f *Func) As(alias string) *Func {
	c := f.clone()
	c.alias = alias
	return c
}

func (f *Func) clone() *Func {
	c := &Func{name: f.name, args: append([]any(nil), f.args...), alias: f.alias}
	if f.params != nil {
		c.params = append(make([]any, 0, len(f.params)), f.params...)
	}
	return c
}

var funcNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Render returns name(arg1, arg2, ...) followed by AS "alias" when aliased.
// A nil Quoter uses ANSI quoting.
func (f *Func) Render(q Quoter) (string, error) {
	if q == nil {
		q = ANSI
	}
	s, err := f.renderCall(q)
	if err != nil {
		return "", err
	}
	if f.alias != "" {
		s += " AS " + q.QuoteIdent(f.alias)
	}
	return s, nil
}

// MustRender is like Render but panics on error. For tests and constant expressions.
func (f *Func) MustRender(q Quoter) string {
	s, err := f.Render(q)
	if err != nil {
		panic(err)
	}
	return s
}

func (f *Func) renderCall(q Quoter) (string, error) {
	if !funcNamePattern.MatchString(f.name) {
		return "", alerr.Newf(alerr.ErrInvalidArgument, "invalid function name %q", f.name)
	}
	var b strings.Builder
	b.WriteString(f.name)
	b.WriteByte('(')
	for i, a := range f.args {
		if i > 0 {
			b.WriteString(", ")
		}
		s, err := renderArg(q, a)
		if err != nil {
			if e, ok := err.(*alerr.Error); ok && e.GetContext()["function"] == nil {
				e.With("function", f.name).With("position", i+1)
			}
			return "", err
		}
		b.WriteString(s)
	}
	b.WriteByte(')')
	return b.String(), nil
}

func renderArg(q Quoter, a any) (string, error) {
	switch v := a.(type) {
	case *Func:
		// nested calls never carry their alias into the argument list
		return v.renderCall(q)
	case Param:
		return string(v), nil
	case Column:
		return v.Render(q)
	case Columner:
		return v.Column().Render(q)
	case Literal:
		return renderLiteral(v.V)
	case Renderable:
		return v.Render(q)
	default:
		return renderLiteral(a)
	}
}

func renderLiteral(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return QuoteString(x), nil
	case bool:
		if x {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int:
		return strconv.FormatInt(int64(x), 10), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return renderFloat(float64(x))
	case float64:
		return renderFloat(x)
	case []byte:
		return `'\x` + hex.EncodeToString(x) + `'`, nil
	default:
		return "", alerr.Newf(alerr.ErrInvalidArgument,
			"argument of type %T is not a literal, column reference or function expression", v).
			With("type", fmt.Sprintf("%T", v))
	}
}

func renderFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", alerr.Newf(alerr.ErrInvalidArgument, "non-finite float %v cannot be rendered as a literal", f)
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

// QuoteString renders s as a single-quoted SQL string, doubling embedded quotes.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// -----------------------------------------------------------------------------
// Criterion and query modifiers
// -----------------------------------------------------------------------------

// Fields returns every column reference among the arguments, including those
// of nested calls, in argument order. A parameterized copy reports the
// columns of the arguments its placeholders stand for.
func (f *Func) Fields() []Column {
	args := f.args
	if f.params != nil {
		args = f.params
	}
	var out []Column
	for _, a := range args {
		switch v := a.(type) {
		case Column:
			out = append(out, v)
		case Columner:
			out = append(out, v.Column())
		case *Func:
			out = append(out, v.Fields()...)
		case FilterCriterion:
			out = append(out, v.Fields()...)
		}
	}
	return out
}

// AsCriterion returns f as a boolean predicate. The alias is dropped.
func (f *Func) AsCriterion() FilterCriterion {
	if f.alias == "" {
		return f
	}
	return f.As("")
}

// Resolve returns the query fragments for using f as a filter.
func (f *Func) Resolve() QueryModifier {
	return QueryModifier{Where: f.AsCriterion()}
}

// AsAnnotatedProjection returns the filter fragments of f plus a synthetic
// column naming the computed value, so a later filter stage can refer to it.
// The column is named by the alias, or by the lower-cased function name.
func (f *Func) AsAnnotatedProjection() (QueryModifier, Column) {
	name := f.alias
	if name == "" {
		name = strings.ToLower(f.name)
	}
	return f.Resolve(), Column{Name: name}
}

// Parameterize returns a copy of f whose arguments are all replaced by
// placeholder tokens. next is called once per argument, in order. f is not
// modified.
func (f *Func) Parameterize(next func() string) *Func {
	c := &Func{
		name:   f.name,
		alias:  f.alias,
		args:   make([]any, len(f.args)),
		params: append(make([]any, 0, len(f.args)), f.args...),
	}
	for i := range f.args {
		c.args[i] = Param(next())
	}
	return c
}

// Parameters returns the values the placeholders of a parameterized copy stand
// for. For an expression that was not parameterized, it returns its arguments.
func (f *Func) Parameters() []any {
	if f.params != nil {
		return append(make([]any, 0, len(f.params)), f.params...)
	}
	return f.Args()
}

// IsParameterized reports whether f was produced by Parameterize.
func (f *Func) IsParameterized() bool {
	return f.params != nil
}

// Sequence returns a stateful placeholder generator numbering from 1.
func Sequence(format func(int) string) func() string {
	n := 0
	return func() string {
		n++
		return format(n)
	}
}

// Dollar returns a $1, $2, ... placeholder generator.
func Dollar() func() string {
	return Sequence(func(i int) string { return "$" + strconv.Itoa(i) })
}

// Question returns a ?, ?, ... placeholder generator.
func Question() func() string {
	return Sequence(func(int) string { return "?" })
}

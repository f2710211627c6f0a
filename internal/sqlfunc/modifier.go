package sqlfunc

import (
	"strings"

	"github.com/hlop3z/geoalab/internal/alerr"
)

// QueryModifier carries the fragments a criterion contributes to a query.
type QueryModifier struct {
	Where  FilterCriterion
	Having FilterCriterion
	Joins  []Join
}

// Join is an additional table a criterion needs.
type Join struct {
	Table string
	On    FilterCriterion
}

// Merge combines two modifiers; criteria are joined with AND.
func (m QueryModifier) Merge(o QueryModifier) QueryModifier {
	return QueryModifier{
		Where:  And(m.Where, o.Where),
		Having: And(m.Having, o.Having),
		Joins:  append(append([]Join(nil), m.Joins...), o.Joins...),
	}
}

// IsEmpty reports whether the modifier contributes nothing.
func (m QueryModifier) IsEmpty() bool {
	return m.Where == nil && m.Having == nil && len(m.Joins) == 0
}

// And returns the conjunction of the non-nil criteria, or nil if none.
func And(criteria ...FilterCriterion) FilterCriterion {
	var parts []FilterCriterion
	for _, c := range criteria {
		if c == nil {
			continue
		}
		if a, ok := c.(conjunction); ok {
			parts = append(parts, a...)
			continue
		}
		parts = append(parts, c)
	}
	switch len(parts) {
	case 0:
		return nil
	case 1:
		return parts[0]
	}
	return conjunction(parts)
}

type conjunction []FilterCriterion

func (c conjunction) Render(q Quoter) (string, error) {
	out := make([]string, len(c))
	for i, part := range c {
		s, err := part.Render(q)
		if err != nil {
			return "", err
		}
		out[i] = s
	}
	return strings.Join(out, " AND "), nil
}

func (c conjunction) Fields() []Column {
	var out []Column
	for _, part := range c {
		out = append(out, part.Fields()...)
	}
	return out
}

// Not negates a criterion.
func Not(c FilterCriterion) FilterCriterion {
	return negation{c}
}

type negation struct {
	inner FilterCriterion
}

func (n negation) Render(q Quoter) (string, error) {
	s, err := n.inner.Render(q)
	if err != nil {
		return "", err
	}
	return "NOT (" + s + ")", nil
}

func (n negation) Fields() []Column {
	return n.inner.Fields()
}

var comparisonOps = map[string]bool{"=": true, "<>": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true}

// Compare builds "left op right"; each side is rendered like a function argument.
// It is typically used to filter on an annotated column.
func Compare(left any, op string, right any) FilterCriterion {
	return comparison{left: left, op: op, right: right}
}

type comparison struct {
	left  any
	op    string
	right any
}

func (c comparison) Render(q Quoter) (string, error) {
	if q == nil {
		q = ANSI
	}
	if !comparisonOps[c.op] {
		return "", alerr.Newf(alerr.ErrInvalidArgument, "unsupported comparison operator %q", c.op)
	}
	l, err := renderArg(q, c.left)
	if err != nil {
		return "", err
	}
	r, err := renderArg(q, c.right)
	if err != nil {
		return "", err
	}
	return l + " " + c.op + " " + r, nil
}

func (c comparison) Fields() []Column {
	return Named("cmp", c.left, c.right).Fields()
}

// Package validate checks the table and column names read from model files.
// Names must be snake_case identifiers that PostgreSQL and SQLite accept
// unquoted, and must not collide with a reserved word.
package validate

import (
	"strings"

	"github.com/hlop3z/geoalab/internal/alerr"
	"github.com/hlop3z/geoalab/internal/ast"
	"github.com/hlop3z/geoalab/internal/strutil"
)

// MaxIdentifierLength is the PostgreSQL NAMEDATALEN limit.
const MaxIdentifierLength = 63

// reservedWords is the combined PostgreSQL and SQLite set of keywords that
// cannot be used as a bare table or column name.
var reservedWords = map[string]bool{
	// SQL standard
	"add": true, "all": true, "alter": true, "and": true, "any": true,
	"as": true, "asc": true, "between": true, "by": true, "case": true,
	"check": true, "column": true, "constraint": true, "create": true,
	"cross": true, "current": true, "database": true, "default": true,
	"delete": true, "desc": true, "distinct": true, "drop": true,
	"else": true, "end": true, "exists": true, "false": true, "fetch": true,
	"for": true, "foreign": true, "from": true, "full": true, "grant": true,
	"group": true, "having": true, "if": true, "in": true, "index": true,
	"inner": true, "insert": true, "into": true, "is": true, "join": true,
	"key": true, "left": true, "like": true, "limit": true, "not": true,
	"null": true, "offset": true, "on": true, "or": true, "order": true,
	"outer": true, "primary": true, "references": true, "revoke": true,
	"right": true, "select": true, "set": true, "table": true, "then": true,
	"to": true, "true": true, "union": true, "unique": true, "update": true,
	"using": true, "values": true, "view": true, "when": true, "where": true,
	"with": true,

	// PostgreSQL
	"analyze": true, "array": true, "begin": true, "cast": true,
	"commit": true, "copy": true, "do": true, "except": true,
	"explain": true, "freeze": true, "ilike": true, "intersect": true,
	"isnull": true, "lateral": true, "leading": true, "localtime": true,
	"lock": true, "natural": true, "notnull": true, "only": true,
	"placing": true, "returning": true, "rollback": true, "row": true,
	"similar": true, "some": true, "symmetric": true, "trailing": true,
	"truncate": true, "user": true, "vacuum": true, "variadic": true,
	"verbose": true, "window": true,

	// SQLite
	"abort": true, "attach": true, "conflict": true, "detach": true,
	"glob": true, "indexed": true, "pragma": true, "raise": true,
	"reindex": true, "temp": true, "temporary": true, "virtual": true,
}

// IsReservedWord reports whether s is a reserved word. Case-insensitive.
func IsReservedWord(s string) bool {
	return reservedWords[strings.ToLower(s)]
}

// Identifier validates a table or column name. kind names what is being
// checked ("table", "column") in the error message. When the name is not
// snake_case but converts to a valid one, the error carries the converted
// name as a hint.
func Identifier(kind, name string) *alerr.Error {
	if name == "" {
		return alerr.Newf(alerr.ErrInvalidIdentifier, "%s name cannot be empty", kind)
	}
	if ast.ValidateIdentifier(name) != nil {
		e := alerr.Newf(alerr.ErrInvalidIdentifier, "invalid %s name %q; must match [a-z_][a-z0-9_]*", kind, name)
		if s := strutil.ToSnakeCase(name); s != name && ast.ValidateIdentifier(s) == nil && !IsReservedWord(s) {
			e.WithHelp("did you mean '" + s + "'?")
		}
		return e
	}
	if len(name) > MaxIdentifierLength {
		return alerr.Newf(alerr.ErrInvalidIdentifier, "%s name exceeds maximum length of %d characters", kind, MaxIdentifierLength).
			With("length", len(name))
	}
	if IsReservedWord(name) {
		return alerr.Newf(alerr.ErrReservedWord, "%s name %q is a SQL reserved word", kind, name).
			WithHelp("try '" + name + "_" + kind + "'")
	}
	return nil
}

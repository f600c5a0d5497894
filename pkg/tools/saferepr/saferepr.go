// Package saferepr renders Go values as literals in the target CAD
// interpreter's scripting syntax, so tool templates never build scripts by
// naive string interpolation. A caller-supplied string like
// "foo'); bar()" is embedded so the interpreter sees exactly that literal
// string, never a literal breakout into a new statement.
package saferepr

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Repr renders v as a literal in the CAD interpreter's syntax (a Python-like
// grammar: single-quoted strings, True/False/None, list/dict literals).
func Repr(v any) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case bool:
		if t {
			return "True"
		}
		return "False"
	case string:
		return quoteString(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		if math.Trunc(t) == t && !math.IsInf(t, 0) {
			return strconv.FormatFloat(t, 'f', 1, 64)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = Repr(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		return reprMap(t)
	default:
		return quoteString(fmt.Sprintf("%v", t))
	}
}

func reprMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = quoteString(k) + ": " + Repr(m[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// quoteString renders s as a single-quoted literal, escaping backslashes,
// single quotes, and control characters the interpreter would otherwise
// treat as statement terminators or escape introducers.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

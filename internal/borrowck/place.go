package borrowck

import (
	"fmt"
	"strings"

	"github.com/latticelang/latticec/internal/ast"
	"github.com/latticelang/latticec/internal/symbols"
)

// segment is one step of a place path: a field projection or an
// (unindexed) array/slice index.
type segment struct {
	isIndex bool
	field   string
}

// place identifies a storage location reachable from a root binding, the
// unit borrows and moves are tracked against (spec §4.5 "place analysis").
type place struct {
	root string // unique per binding, derived from the resolved symbol's identity
	segs []segment
}

func (p place) key() string {
	var b strings.Builder
	b.WriteString(p.root)
	for _, s := range p.segs {
		if s.isIndex {
			b.WriteString("[*]")
		} else {
			b.WriteByte('.')
			b.WriteString(s.field)
		}
	}
	return b.String()
}

func rootOf(sym *symbols.Symbol) string {
	return fmt.Sprintf("sym:%p", sym)
}

// placeOf computes the place an expression denotes, for expressions that
// name a storage location (paths, field projections, indexing). Anything
// else (literals, calls, binary expressions) has no place and is always a
// fresh value, not something that can be borrowed-from or moved-from.
func placeOf(e ast.Expression, resolution map[ast.Node]*symbols.Symbol) (place, bool) {
	switch expr := e.(type) {
	case *ast.PathExpr:
		sym := resolution[expr]
		if sym == nil {
			return place{}, false
		}
		return place{root: rootOf(sym)}, true
	case *ast.FieldExpr:
		base, ok := placeOf(expr.Receiver, resolution)
		if !ok {
			return place{}, false
		}
		base.segs = append(append([]segment{}, base.segs...), segment{field: expr.Field.Value})
		return base, true
	case *ast.IndexExpr:
		base, ok := placeOf(expr.Receiver, resolution)
		if !ok {
			return place{}, false
		}
		base.segs = append(append([]segment{}, base.segs...), segment{isIndex: true})
		return base, true
	default:
		return place{}, false
	}
}

// alias implements the aliasing policy: same root required; a place that
// is a prefix of another (the field/whole relationship) aliases; two
// distinct fields diverge and do not alias; any two index steps are
// treated as conservatively aliasing (spec §4.5 "Aliasing policy").
func alias(a, b place) bool {
	if a.root != b.root {
		return false
	}
	n := len(a.segs)
	if len(b.segs) < n {
		n = len(b.segs)
	}
	for i := 0; i < n; i++ {
		sa, sb := a.segs[i], b.segs[i]
		if sa.isIndex || sb.isIndex {
			if sa.isIndex != sb.isIndex {
				return false
			}
			return true
		}
		if sa.field != sb.field {
			return false
		}
	}
	return true
}

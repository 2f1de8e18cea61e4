package lifetime

import "github.com/latticelang/latticec/internal/ast"

// AnalyzeFn assigns a fresh lifetime variable to every reference-typed
// parameter and the return type of fn, applies spec §4.6's elision rules
// (a single reference parameter's lifetime elides to the output; a
// `&self` receiver elides to the output in preference to other
// parameters), and resolves the resulting constraints.
//
// Lattice's grammar (like the teacher's) has no surface syntax for naming
// a lifetime explicitly (`parser.parseRefType` never populates
// `ast.RefType.Lifetime`), so every reference lifetime in a signature is
// either elided or, when elision does not apply (more than one reference
// parameter and no `self`), left unconstrained — matching a source
// language where lifetimes are never written down. Call-site
// instantiation and struct-field outlives obligations (spec §4.6 step 1's
// remaining rules) are intentionally out of scope of this per-signature
// pass; see DESIGN.md.
func AnalyzeFn(fn *ast.FnItem) *Result {
	c := New()

	var selfVar, singleParamVar Var
	haveSelf, haveSingle := false, false
	refParamCount := 0

	for _, p := range fn.Params {
		if _, ok := p.Type.(*ast.RefType); !ok {
			continue
		}
		refParamCount++
		v := c.Fresh(paramLifetimeName(p))
		if isSelfParam(p) {
			selfVar, haveSelf = v, true
		}
		if refParamCount == 1 {
			singleParamVar, haveSingle = v, true
		} else {
			haveSingle = false
		}
	}

	if _, returnsRef := fn.ReturnType.(*ast.RefType); !returnsRef {
		return c.Resolve()
	}
	retVar := c.Fresh("'" + fn.Name.Value + "::return")

	switch {
	case haveSelf:
		c.Equal(retVar, selfVar)
	case haveSingle:
		c.Equal(retVar, singleParamVar)
	}

	return c.Resolve()
}

func paramLifetimeName(p *ast.Param) string {
	if ip, ok := p.Pattern.(*ast.IdentPattern); ok {
		return "'" + ip.Name
	}
	return "'_"
}

func isSelfParam(p *ast.Param) bool {
	ip, ok := p.Pattern.(*ast.IdentPattern)
	return ok && ip.Name == "self"
}

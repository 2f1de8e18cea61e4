// Package lifetime implements spec §4.6's lifetime analyzer: it assigns
// every reference a concrete lifetime region and verifies every
// outlives-obligation holds.
//
// This is a new domain with no teacher analogue (funxy has no references
// or regions to track). The union-find-based equality step and the
// iterative fixed-point style of Context.Resolve follow the same shape as
// internal/types' Unify (repeatedly simplify until no rule applies); the
// topological region assignment is a direct application of Kahn's
// algorithm, the same graph idiom other_examples' golang.org/x/tools/go/ssa
// lift.go uses to walk a dominator tree.
package lifetime

import (
	"fmt"

	"github.com/latticelang/latticec/internal/ast"
	"github.com/latticelang/latticec/internal/diagnostics"
)

// Var names one lifetime variable by its index into a Context's tables.
type Var int

// Region is the concrete [start, end] scope a lifetime variable is
// assigned, expressed in terms of introduction order (spec §4.6 step 3:
// "derived from the lexical scope of the binding that introduces it,
// widened by outlives successors").
type Region struct {
	Start, End int
}

// Contains reports whether r spatially contains other (r's region is at
// least as large), the condition spec §4.6 step 4 validates for every
// `'a : 'b` obligation.
func (r Region) Contains(other Region) bool {
	return r.Start <= other.Start && r.End >= other.End
}

type rawEdge struct {
	Long, Short Var
	Node        ast.Node
}

// Context collects lifetime variables and constraints for one function
// and resolves them to concrete regions.
type Context struct {
	names  []string
	intro  []int // introduction order, used as the variable's base region
	parent []int // union-find parent; parent[v] == v for a root

	edges []rawEdge
}

// New creates an empty lifetime context.
func New() *Context {
	return &Context{}
}

// Fresh introduces a new lifetime variable.
func (c *Context) Fresh(name string) Var {
	id := len(c.names)
	c.names = append(c.names, name)
	c.intro = append(c.intro, id)
	c.parent = append(c.parent, id)
	return Var(id)
}

func (c *Context) find(v int) int {
	for c.parent[v] != v {
		c.parent[v] = c.parent[c.parent[v]]
		v = c.parent[v]
	}
	return v
}

// Equal unifies a and b as the same region (spec §4.6 step 2: "unify
// lifetime variables that must be equal").
func (c *Context) Equal(a, b Var) {
	ra, rb := c.find(int(a)), c.find(int(b))
	if ra == rb {
		return
	}
	// Keep the lower-indexed (earlier-introduced) variable as the
	// representative so Start/End widening below reads naturally.
	if ra < rb {
		c.parent[rb] = ra
	} else {
		c.parent[ra] = rb
	}
}

// Outlives records a `long : short` obligation: long must outlive short.
func (c *Context) Outlives(long, short Var, site ast.Node) {
	c.edges = append(c.edges, rawEdge{Long: long, Short: short, Node: site})
}

// Result is the outcome of resolving a Context's constraints.
type Result struct {
	Regions     map[Var]Region
	Diagnostics []*diagnostics.Diagnostic
}

// Region returns v's assigned region, resolving through the union-find
// representative.
func (r *Result) Region(v Var) Region { return r.Regions[v] }

// Resolve performs spec §4.6 steps 2-4: equality has already been applied
// incrementally by Equal; this topologically sorts the outlives DAG among
// representatives (Kahn's algorithm), assigns each a region widened by its
// outlives successors, and validates every obligation holds. A cycle of
// strict outlives among distinct regions is reported as ErrM002; equality
// cycles (spec: "acceptable" when mixed with equality) are not flagged,
// since Equal already collapses them into one representative.
func (c *Context) Resolve() *Result {
	n := len(c.names)
	res := &Result{Regions: make(map[Var]Region, n)}

	reps := make(map[int]bool)
	for v := 0; v < n; v++ {
		reps[c.find(v)] = true
	}
	for rep := range reps {
		res.Regions[Var(rep)] = Region{Start: c.intro[rep], End: c.intro[rep]}
	}

	// Build the "short must finalize before long" processing graph over
	// representatives, deduplicating self-edges produced by Equal-merged
	// variables.
	type edgeKey struct{ short, long int }
	seen := map[edgeKey]bool{}
	adj := map[int][]int{}
	indeg := map[int]int{}
	for rep := range reps {
		indeg[rep] = 0
	}
	var kept []rawEdge
	for _, e := range c.edges {
		long, short := c.find(int(e.Long)), c.find(int(e.Short))
		if long == short {
			continue
		}
		k := edgeKey{short, long}
		if seen[k] {
			continue
		}
		seen[k] = true
		adj[short] = append(adj[short], long)
		indeg[long]++
		kept = append(kept, rawEdge{Long: Var(long), Short: Var(short), Node: e.Node})
	}

	var queue []int
	for rep := range reps {
		if indeg[rep] == 0 {
			queue = append(queue, rep)
		}
	}
	var order []int
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)
		for _, next := range adj[node] {
			indeg[next]--
			if indeg[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(order) != len(reps) {
		inCycle := map[int]bool{}
		for rep := range reps {
			if indeg[rep] > 0 {
				inCycle[rep] = true
			}
		}
		for _, e := range kept {
			if inCycle[int(e.Long)] && inCycle[int(e.Short)] {
				res.Diagnostics = append(res.Diagnostics, diagnostics.NewAt(diagnostics.ErrM002, e.Node.Span(),
					"lifetime cycle: %q and %q cannot both strictly outlive each other", c.names[e.Long], c.names[e.Short]))
			}
		}
		// Fall back to arbitrary order over the remaining nodes so region
		// assignment below still terminates.
		for rep := range reps {
			if inCycle[rep] {
				order = append(order, rep)
			}
		}
	}

	for _, short := range order {
		for _, long := range adj[short] {
			widenInto(res.Regions, long, res.Regions[Var(short)])
		}
	}

	for _, e := range kept {
		longR, shortR := res.Regions[e.Long], res.Regions[e.Short]
		if !longR.Contains(shortR) {
			res.Diagnostics = append(res.Diagnostics, diagnostics.NewAt(diagnostics.ErrM001, e.Node.Span(),
				"lifetime %q does not outlive %q", c.names[e.Long], c.names[e.Short]))
		}
	}

	for v := 0; v < n; v++ {
		res.Regions[Var(v)] = res.Regions[Var(c.find(v))]
	}
	return res
}

func widenInto(regions map[Var]Region, v int, with Region) {
	r := regions[Var(v)]
	if with.Start < r.Start {
		r.Start = with.Start
	}
	if with.End > r.End {
		r.End = with.End
	}
	regions[Var(v)] = r
}

func (c *Context) String() string {
	return fmt.Sprintf("lifetime.Context{%d vars, %d edges}", len(c.names), len(c.edges))
}

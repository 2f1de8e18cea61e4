package lifetime_test

import (
	"testing"

	"github.com/latticelang/latticec/internal/ast"
	"github.com/latticelang/latticec/internal/lifetime"
	"github.com/latticelang/latticec/internal/source"
)

type fakeNode struct{}

func (fakeNode) Span() source.Span  { return source.Span{} }
func (fakeNode) Accept(ast.Visitor) {}

func TestEqualVariablesShareARegion(t *testing.T) {
	c := lifetime.New()
	a := c.Fresh("'a")
	b := c.Fresh("'b")
	c.Equal(a, b)
	res := c.Resolve()
	if res.Region(a) != res.Region(b) {
		t.Fatalf("expected unified variables to share a region, got %v vs %v", res.Region(a), res.Region(b))
	}
}

func TestOutlivesWidensTheLongerRegion(t *testing.T) {
	c := lifetime.New()
	long := c.Fresh("'long")
	short := c.Fresh("'short")
	c.Outlives(long, short, fakeNode{})
	res := c.Resolve()
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	if !res.Region(long).Contains(res.Region(short)) {
		t.Fatalf("expected long's region to contain short's: %v vs %v", res.Region(long), res.Region(short))
	}
}

func TestStrictOutlivesCycleIsDiagnosed(t *testing.T) {
	c := lifetime.New()
	a := c.Fresh("'a")
	b := c.Fresh("'b")
	c.Outlives(a, b, fakeNode{})
	c.Outlives(b, a, fakeNode{})
	res := c.Resolve()
	if len(res.Diagnostics) == 0 {
		t.Fatalf("expected a lifetime cycle diagnostic")
	}
}

func TestEqualityCycleMixedWithOutlivesIsAccepted(t *testing.T) {
	c := lifetime.New()
	a := c.Fresh("'a")
	b := c.Fresh("'b")
	c.Equal(a, b)
	c.Outlives(a, b, fakeNode{})
	res := c.Resolve()
	if len(res.Diagnostics) != 0 {
		t.Fatalf("expected an equality-collapsed self-edge to be silently accepted, got %v", res.Diagnostics)
	}
}

func TestTransitiveOutlivesWidensAcrossTheChain(t *testing.T) {
	c := lifetime.New()
	outer := c.Fresh("'outer")
	middle := c.Fresh("'middle")
	inner := c.Fresh("'inner")
	c.Outlives(middle, inner, fakeNode{})
	c.Outlives(outer, middle, fakeNode{})
	res := c.Resolve()
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	if !res.Region(outer).Contains(res.Region(inner)) {
		t.Fatalf("expected 'outer to transitively contain 'inner: %v vs %v", res.Region(outer), res.Region(inner))
	}
}

package ir

// DomTree is the dominator tree of one function's basic blocks, built with
// the standard iterative dataflow algorithm (Cooper/Harvey/Kennedy), and
// used by internal/optimize: mem2reg (to decide where SSA phi nodes are
// needed), and the GVN, LICM and loop-unrolling passes. Grounded on the dominance-frontier construction in
// other_examples' golang.org/x/tools/go/ssa lift.go (`domFrontier`,
// Cytron-et-al phi placement).
type DomTree struct {
	fn      *Function
	idom    map[*BasicBlock]*BasicBlock
	order   []*BasicBlock // reverse postorder
	indexOf map[*BasicBlock]int
}

// BuildDomTree computes the dominator tree of fn's CFG. fn.Blocks[0] must
// be the entry block.
func BuildDomTree(fn *Function) *DomTree {
	order := reversePostorder(fn)
	indexOf := make(map[*BasicBlock]int, len(order))
	for i, b := range order {
		indexOf[b] = i
	}

	idom := make(map[*BasicBlock]*BasicBlock, len(order))
	entry := order[0]
	idom[entry] = entry

	changed := true
	for changed {
		changed = false
		for _, b := range order[1:] {
			var newIdom *BasicBlock
			for _, p := range b.Preds {
				if idom[p] == nil {
					continue
				}
				if newIdom == nil {
					newIdom = p
					continue
				}
				newIdom = intersect(idom, indexOf, newIdom, p)
			}
			if newIdom != nil && idom[b] != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}
	return &DomTree{fn: fn, idom: idom, order: order, indexOf: indexOf}
}

func intersect(idom map[*BasicBlock]*BasicBlock, index map[*BasicBlock]int, a, b *BasicBlock) *BasicBlock {
	for a != b {
		for index[a] > index[b] {
			a = idom[a]
		}
		for index[b] > index[a] {
			b = idom[b]
		}
	}
	return a
}

func reversePostorder(fn *Function) []*BasicBlock {
	visited := make(map[*BasicBlock]bool, len(fn.Blocks))
	var post []*BasicBlock
	var visit func(b *BasicBlock)
	visit = func(b *BasicBlock) {
		if visited[b] {
			return
		}
		visited[b] = true
		for _, s := range b.Succs {
			visit(s)
		}
		post = append(post, b)
	}
	visit(fn.Blocks[0])
	// Reverse post to get reverse-postorder.
	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}

// IDom returns b's immediate dominator, or nil for the entry block.
func (dt *DomTree) IDom(b *BasicBlock) *BasicBlock {
	if dt.idom[b] == b {
		return nil
	}
	return dt.idom[b]
}

// Dominates reports whether a dominates b (every path from entry to b
// passes through a).
func (dt *DomTree) Dominates(a, b *BasicBlock) bool {
	for b != nil {
		if b == a {
			return true
		}
		if dt.idom[b] == b {
			return b == a
		}
		b = dt.idom[b]
	}
	return false
}

// Frontier computes the dominance frontier of every block: DF(b) is the
// set of blocks where b's dominance stops, i.e. where phi nodes for values
// defined in b (or its dominator-tree descendants) must be placed.
func (dt *DomTree) Frontier() map[*BasicBlock][]*BasicBlock {
	df := make(map[*BasicBlock][]*BasicBlock, len(dt.order))
	for _, b := range dt.order {
		if len(b.Preds) < 2 {
			continue
		}
		for _, p := range b.Preds {
			runner := p
			for runner != dt.idom[b] {
				df[runner] = append(df[runner], b)
				if dt.idom[runner] == runner {
					break
				}
				runner = dt.idom[runner]
			}
		}
	}
	return df
}

// ReversePostorder returns fn's blocks in reverse-postorder, the iteration
// order the backend's read-only visitor contract requires (spec §3 "IR
// handoff").
func ReversePostorder(fn *Function) []*BasicBlock {
	return reversePostorder(fn)
}

package outlier

import (
	"fmt"
	"math/rand"
)

// node is a random-cut tree node: either a *branch or a *leaf.
type node interface {
	leafCount() int
	parent() *branch
	setParent(*branch)
}

// branch is an internal node holding an axis-aligned cut.
type branch struct {
	q    int     // cut dimension
	p    float64 // cut value
	l, r node
	u    *branch
	n    int       // number of leaves under this branch
	b    []float64 // bbox: b[d] = min of dim d, b[ndim+d] = max of dim d
}

// leaf holds a single point and its label.
type leaf struct {
	x []float64
	i int // label
	d int // depth (number of branches above this leaf)
	u *branch
	n int // always 1; mirrors branch counts
}

func (b *branch) leafCount() int      { return b.n }
func (b *branch) parent() *branch     { return b.u }
func (b *branch) setParent(p *branch) { b.u = p }

func (l *leaf) leafCount() int      { return l.n }
func (l *leaf) parent() *branch     { return l.u }
func (l *leaf) setParent(p *branch) { l.u = p }

// rcTree is a robust random cut tree (Guha et al.): a binary tree over
// points built from random axis-aligned cuts, where the probability of
// cutting a dimension is proportional to the bounding-box span of that
// dimension. It supports online insertion and removal, which forms the
// basis of the collusive displacement (codisp) anomaly score.
//
// Misuse (mismatched dimensions, duplicate or unknown labels) panics:
// labels and shapes are validated by the exported API before any tree is
// touched, so a panic here is an internal bug, not a caller error.
type rcTree struct {
	rng    *rand.Rand
	root   node
	ndim   int
	leaves map[int]*leaf
}

func newRCTree(rng *rand.Rand) *rcTree {
	return &rcTree{rng: rng, leaves: make(map[int]*leaf)}
}

// insertPoint adds x to the tree under the given label and returns the new
// leaf. Walking down from the root, it draws a random cut over the current
// node's bbox extended with x; if the cut separates x from the node's own
// bbox a new branch is spliced in at that level, otherwise the walk
// descends the node's existing cut. A leaf's bbox is a single point, so
// the walk always terminates there, including for exact duplicates (the
// degenerate zero-span cut separates on the low side).
func (t *rcTree) insertPoint(x []float64, index int) *leaf {
	if _, ok := t.leaves[index]; ok {
		panic(fmt.Sprintf("rctree: duplicate label %d", index))
	}
	if t.root == nil {
		t.ndim = len(x)
		lf := &leaf{x: append([]float64(nil), x...), i: index, n: 1}
		t.root = lf
		t.leaves[index] = lf
		return lf
	}
	if len(x) != t.ndim {
		panic(fmt.Sprintf("rctree: point has %d dimensions, tree has %d", len(x), t.ndim))
	}

	cur := t.root
	depth := 0
	for {
		bbox := nodeBbox(cur, t.ndim)
		dim, cut := t.insertPointCut(x, bbox)
		var lf *leaf
		var br *branch
		switch {
		case cut <= bbox[dim]:
			lf = &leaf{x: append([]float64(nil), x...), i: index, d: depth, n: 1}
			br = &branch{q: dim, p: cut, l: lf, r: cur, n: lf.n + cur.leafCount()}
		case cut >= bbox[t.ndim+dim]:
			lf = &leaf{x: append([]float64(nil), x...), i: index, d: depth, n: 1}
			br = &branch{q: dim, p: cut, l: cur, r: lf, n: lf.n + cur.leafCount()}
		default:
			// The cut fell inside the node's own bbox; descend its cut.
			// cur must be a branch here: a leaf's bbox is degenerate, so
			// one of the separation cases above always fires for it.
			depth++
			bn := cur.(*branch)
			if x[bn.q] <= bn.p {
				cur = bn.l
			} else {
				cur = bn.r
			}
			continue
		}

		parent := cur.parent()
		br.u = parent
		cur.setParent(br)
		lf.u = br
		if parent == nil {
			t.root = br
		} else if parent.l == cur {
			parent.l = br
		} else {
			parent.r = br
		}
		br.b = lrBranchBbox(br, t.ndim)
		shiftDepths(br, 1)
		for p := br.u; p != nil; p = p.u {
			p.n++
			expandBbox(p.b, x, t.ndim)
		}
		t.leaves[index] = lf
		return lf
	}
}

// forgetPoint removes the leaf with the given label, splicing its sibling
// into the parent's place and restoring depths, leaf counts, and ancestor
// bboxes, so that an insertPoint followed by forgetPoint leaves the tree
// exactly as it was.
func (t *rcTree) forgetPoint(index int) {
	lf, ok := t.leaves[index]
	if !ok {
		panic(fmt.Sprintf("rctree: unknown label %d", index))
	}
	delete(t.leaves, index)

	if node(lf) == t.root {
		t.root = nil
		return
	}

	parent := lf.u
	var sibling node
	if parent.l == node(lf) {
		sibling = parent.r
	} else {
		sibling = parent.l
	}

	grand := parent.u
	sibling.setParent(grand)
	shiftDepths(sibling, -1)
	if grand == nil {
		t.root = sibling
		return
	}
	if grand.l == node(parent) {
		grand.l = sibling
	} else {
		grand.r = sibling
	}
	for p := grand; p != nil; p = p.u {
		p.n--
		p.b = lrBranchBbox(p, t.ndim)
	}
}

// disp returns the displacement of the labeled point: the number of leaves
// in its sibling subtree, i.e. how many points change depth if the point
// is removed. Zero for a root-only tree.
func (t *rcTree) disp(index int) int {
	lf, ok := t.leaves[index]
	if !ok {
		panic(fmt.Sprintf("rctree: unknown label %d", index))
	}
	if node(lf) == t.root {
		return 0
	}
	return siblingOf(lf.u, lf).leafCount()
}

// codisp returns the collusive displacement of the labeled point: the
// maximum over all subtrees containing it of displaced leaves per removed
// leaf. Colluding near-duplicates cannot hide each other the way they can
// with plain displacement.
func (t *rcTree) codisp(index int) float64 {
	lf, ok := t.leaves[index]
	if !ok {
		panic(fmt.Sprintf("rctree: unknown label %d", index))
	}
	var result float64
	var cur node = lf
	for cur != t.root {
		p := cur.parent()
		ratio := float64(siblingOf(p, cur).leafCount()) / float64(cur.leafCount())
		if ratio > result {
			result = ratio
		}
		cur = p
	}
	return result
}

// insertPointCut draws a random cut for inserting x against bbox. The cut
// dimension is chosen with probability proportional to the span of the
// bbox extended with x, and the cut value uniformly within that extended
// span. With a fully degenerate bbox (exact duplicate) the cut collapses
// to the point itself.
func (t *rcTree) insertPointCut(x, bbox []float64) (int, float64) {
	ndim := t.ndim
	cum := make([]float64, ndim)
	var total float64
	for d := 0; d < ndim; d++ {
		lo := bbox[d]
		hi := bbox[ndim+d]
		if x[d] < lo {
			lo = x[d]
		}
		if x[d] > hi {
			hi = x[d]
		}
		total += hi - lo
		cum[d] = total
	}

	r := t.rng.Float64() * total
	dim := ndim - 1
	for d := 0; d < ndim; d++ {
		if cum[d] >= r {
			dim = d
			break
		}
	}
	lo := bbox[dim]
	if x[dim] < lo {
		lo = x[dim]
	}
	return dim, lo + cum[dim] - r
}

// siblingOf returns the child of p that is not c.
func siblingOf(p *branch, c node) node {
	if p.l == c {
		return p.r
	}
	return p.l
}

// nodeBbox returns the bounding box of nd as [mins..., maxs...]. For a
// branch this is its stored bbox (do not mutate); for a leaf it is the
// point duplicated.
func nodeBbox(nd node, ndim int) []float64 {
	switch v := nd.(type) {
	case *branch:
		return v.b
	case *leaf:
		b := make([]float64, 2*ndim)
		copy(b, v.x)
		copy(b[ndim:], v.x)
		return b
	}
	panic("rctree: unknown node type")
}

// lrBranchBbox recomputes a branch's bbox as the union of its children's.
func lrBranchBbox(br *branch, ndim int) []float64 {
	lb := nodeBbox(br.l, ndim)
	rb := nodeBbox(br.r, ndim)
	b := make([]float64, 2*ndim)
	for d := 0; d < ndim; d++ {
		b[d] = lb[d]
		if rb[d] < b[d] {
			b[d] = rb[d]
		}
		b[ndim+d] = lb[ndim+d]
		if rb[ndim+d] > b[ndim+d] {
			b[ndim+d] = rb[ndim+d]
		}
	}
	return b
}

// expandBbox grows b in place to contain x.
func expandBbox(b, x []float64, ndim int) {
	for d := 0; d < ndim; d++ {
		if x[d] < b[d] {
			b[d] = x[d]
		}
		if x[d] > b[ndim+d] {
			b[ndim+d] = x[d]
		}
	}
}

// shiftDepths adjusts the depth of every leaf under nd by inc.
func shiftDepths(nd node, inc int) {
	switch v := nd.(type) {
	case *branch:
		shiftDepths(v.l, inc)
		shiftDepths(v.r, inc)
	case *leaf:
		v.d += inc
	}
}

// Package tree implements iterative forest construction.
//
// Build never recurses, so hierarchy depth is bounded by memory, not by the
// call stack:
//
//  1. Validate and index the records by id (order-preserving).
//  2. Resolve: map every record to its parent's input position. A record
//     whose parent id is absent, unknown or its own id is a root. Large
//     inputs resolve in concurrent chunks; the index is only read.
//  3. Classify: walk parent links once per unvisited record and sort every
//     record into "climbs to a root", "lies on a cycle" or "hangs below a
//     cycle" (see classify).
//  4. Apply: in input order, on the calling goroutine, attach or promote
//     every record according to its class and the cycle policy.
//
// Complexity:
//
//   - Time:   O(n), whatever the input order or hierarchy depth
//   - Memory: O(n)
package tree

import (
	"golang.org/x/sync/errgroup"
)

// noParent marks a record without a resolvable parent in parentIdx.
const noParent = -1

// Build organises nodes into a forest and returns its roots in first-seen
// input order. It is BuildForest without the diagnostics.
func Build[K comparable, T Node[K, T]](nodes []T, opts ...Option) ([]T, error) {
	f, err := BuildForest[K, T](nodes, opts...)
	if err != nil {
		return nil, err
	}

	return f.Roots, nil
}

// BuildForest validates nodes, attaches every record with a resolvable parent
// to that parent via AddChild, and reports roots plus diagnostics.
//
// On a validation or option error no record is mutated and the Forest is nil.
// Empty input yields a Forest with an empty, non-nil Roots slice.
func BuildForest[K comparable, T Node[K, T]](nodes []T, opts ...Option) (*Forest[K, T], error) {
	// 1) Options first: a bad option must not leave records half-built
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	// 2) Validate and index
	pos, err := index[K, T](nodes)
	if err != nil {
		return nil, err
	}

	// 3) Resolve parents, then classify by where the parent links lead
	parentIdx := resolveParents[K, T](nodes, pos, o)
	c := classify(parentIdx)

	// 4) Apply
	return apply[K, T](nodes, parentIdx, c, o.CyclePolicy), nil
}

// resolveParents maps each record to its parent's input position.
// Absent, unknown and self-referencing parents map to noParent.
// Inputs of at least o.ParallelThreshold records are split into contiguous
// chunks resolved concurrently; each chunk writes only its own slots.
func resolveParents[K comparable, T Node[K, T]](nodes []T, pos map[K]int, o Options) []int {
	out := make([]int, len(nodes))
	resolve := func(lo, hi int) {
		var zero K
		for i := lo; i < hi; i++ {
			out[i] = noParent
			pid := nodes[i].ParentID()
			if pid == zero || pid == nodes[i].ID() {
				continue
			}
			if j, ok := pos[pid]; ok {
				out[i] = j
			}
		}
	}

	n := len(nodes)
	if o.Sequential || o.Workers < 2 || n < o.ParallelThreshold {
		resolve(0, n)
		return out
	}

	var g errgroup.Group
	g.SetLimit(o.Workers)
	chunk := (n + o.Workers - 1) / o.Workers
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			resolve(lo, hi)
			return nil
		})
	}
	_ = g.Wait() // chunks never fail

	return out
}

// apply attaches and promotes records in input order. It is the only step
// that mutates records, and it runs on the calling goroutine, so each
// parent's child list has a single writer and children keep input order.
func apply[K comparable, T Node[K, T]](nodes []T, parentIdx []int, c *classification, policy CyclePolicy) *Forest[K, T] {
	f := &Forest[K, T]{Roots: make([]T, 0)}

	for i, node := range nodes {
		attach := false
		switch c.state[i] {
		case rooted:
			attach = parentIdx[i] != noParent
		case belowCycle:
			attach = policy == CycleBreak
		}

		if !attach {
			f.Roots = append(f.Roots, node)
			if c.state[i] != rooted {
				f.Unresolved = append(f.Unresolved, node.ID())
			}
			continue
		}

		nodes[parentIdx[i]].AddChild(node)
		f.Attached++
		f.Depth = max(f.Depth, c.depth[i])
	}
	if policy == CycleBreak {
		f.Cycles = cycleIDs[K, T](nodes, c.cycles)
	}

	return f
}

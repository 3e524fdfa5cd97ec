// Package tree classifies records by where their parent links lead.
//
// Every record has at most one parent, so the parent relation is a
// functional graph: walking parent links from any record either stops at a
// root or runs into exactly one cycle. One iterative walk per unvisited
// record, memoised across walks, sorts every record into one of three
// classes and measures its depth on the way back down.
//
// Complexity:
//
//   - Time:   O(n) (each record is pushed on a walk once)
//   - Memory: O(n)
package tree

import "sort"

// Reachability classes of the parent-link walk.
const (
	unvisited  = iota
	onWalk     // on the current walk
	rooted     // climbs to a root
	onCycle    // lies on a parent cycle
	belowCycle // climbs into a cycle without lying on it
)

// classification is the outcome of classify.
type classification struct {
	// state holds one reachability class per input position.
	state []uint8

	// depth counts edges up to the root a record climbs to, or up to the
	// cycle member it hangs from; cycle members and roots are 0.
	depth []int

	// cycles lists cycles as input positions, each rotated to its smallest
	// position, ordered by that position.
	cycles [][]int
}

// DetectCycles reports every parent cycle of length two or more among nodes.
// Each cycle is listed once, rotated to start at its member appearing first
// in the input; cycles are ordered by that member's position. Self-parents
// are roots, not cycles. Returns a validation error for malformed input.
func DetectCycles[K comparable, T Node[K, T]](nodes []T) ([][]K, error) {
	pos, err := index[K, T](nodes)
	if err != nil {
		return nil, err
	}
	c := classify(resolveParents[K, T](nodes, pos, DefaultOptions()))

	return cycleIDs[K, T](nodes, c.cycles), nil
}

// classify walks parent links from every record in input order.
func classify(parentIdx []int) *classification {
	n := len(parentIdx)
	c := &classification{
		state: make([]uint8, n),
		depth: make([]int, n),
	}
	path := make([]int, 0, 16)

	for s := range parentIdx {
		if c.state[s] != unvisited {
			continue
		}

		// 1) Climb, marking the walk, until leaving through a root or
		//    reaching a record already classified or already on this walk.
		path = path[:0]
		v := s
		for v != noParent && c.state[v] == unvisited {
			c.state[v] = onWalk
			path = append(path, v)
			v = parentIdx[v]
		}

		// 2) Decide the class of the walk's end and where the tail starts.
		tail := path
		class := uint8(rooted)
		base := -1 // depth of the record the tail hangs from
		switch {
		case v == noParent:
			// The last record on the walk is a root.
		case c.state[v] == onWalk:
			at := 0
			for path[at] != v {
				at++
			}
			for _, u := range path[at:] {
				c.state[u] = onCycle
			}
			c.cycles = append(c.cycles, canonical(path[at:]))
			tail = path[:at]
			class = belowCycle
			base = 0
		case c.state[v] == rooted:
			base = c.depth[v]
		default: // onCycle or belowCycle
			class = belowCycle
			base = c.depth[v]
		}

		// 3) Walk back down the tail assigning class and depth.
		for k := len(tail) - 1; k >= 0; k-- {
			base++
			c.state[tail[k]] = class
			c.depth[tail[k]] = base
		}
	}

	sort.Slice(c.cycles, func(i, j int) bool { return c.cycles[i][0] < c.cycles[j][0] })

	return c
}

// canonical copies cyc rotated so that its smallest position comes first.
func canonical(cyc []int) []int {
	minAt := 0
	for i, v := range cyc {
		if v < cyc[minAt] {
			minAt = i
		}
	}
	out := make([]int, 0, len(cyc))
	out = append(out, cyc[minAt:]...)
	out = append(out, cyc[:minAt]...)

	return out
}

// cycleIDs translates cycles of input positions into cycles of ids.
func cycleIDs[K comparable, T Node[K, T]](nodes []T, cycles [][]int) [][]K {
	out := make([][]K, len(cycles))
	for c, cyc := range cycles {
		out[c] = make([]K, len(cyc))
		for k, i := range cyc {
			out[c][k] = nodes[i].ID()
		}
	}

	return out
}

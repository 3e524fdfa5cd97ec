// Package tree extracts root paths and single-branch subtrees.
//
// Complexity:
//
//   - PathToRoot:  Time O(n + d), Memory O(n)
//   - PathSubtree: Time O(n + d), Memory O(n)
package tree

import "fmt"

// PathToRoot returns the ancestors of target, root first and nearest
// ancestor last; target itself is excluded.
//
// The climb stops at a record whose parent id is absent, unknown or its own
// id. An unknown target, or a target that is itself a root, yields an empty
// slice. Revisiting a record while climbing returns ErrCycleDetected.
// Records are never mutated.
func PathToRoot[K comparable, T Node[K, T]](target K, nodes []T) ([]T, error) {
	chain, err := climb[K, T](target, nodes)
	if err != nil {
		return nil, err
	}
	if len(chain) < 2 {
		return []T{}, nil
	}

	return chain[:len(chain)-1], nil
}

// PathSubtree rebuilds the lineage of target as a single branch and returns
// it as a one-root forest: every record on the branch keeps only the next
// record as its sole child, and target keeps no children.
//
// The rewrite is destructive. Records passed here must be reconstructed
// before they take part in a full Build again. An empty root path yields an
// empty slice.
func PathSubtree[K comparable, T Node[K, T]](target K, nodes []T) ([]T, error) {
	chain, err := climb[K, T](target, nodes)
	if err != nil {
		return nil, err
	}
	if len(chain) < 2 {
		return []T{}, nil
	}

	for i, n := range chain {
		n.ClearChildren()
		if i+1 < len(chain) {
			n.AddChild(chain[i+1])
		}
	}

	return []T{chain[0]}, nil
}

// climb returns root, …, parent, target for a known target, just target
// for a root, and nothing for an unknown id.
func climb[K comparable, T Node[K, T]](target K, nodes []T) ([]T, error) {
	// 1) Validate and build the id lookup in one pass
	pos, err := index[K, T](nodes)
	if err != nil {
		return nil, err
	}
	cur, ok := pos[target]
	if !ok {
		return nil, nil
	}

	// 2) Follow parent ids upward, guarding against revisits
	var zero K
	visited := map[int]struct{}{cur: {}}
	up := []T{nodes[cur]}
	for {
		n := nodes[cur]
		pid := n.ParentID()
		if pid == zero || pid == n.ID() {
			break
		}
		next, ok := pos[pid]
		if !ok {
			break
		}
		if _, seen := visited[next]; seen {
			return nil, fmt.Errorf("%w: %v revisited while climbing from %v", ErrCycleDetected, pid, target)
		}
		visited[next] = struct{}{}
		up = append(up, nodes[next])
		cur = next
	}

	// 3) Reverse into root-first order
	for i, j := 0, len(up)-1; i < j; i, j = i+1, j-1 {
		up[i], up[j] = up[j], up[i]
	}

	return up, nil
}

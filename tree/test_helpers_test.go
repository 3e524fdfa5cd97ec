package tree_test

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/katalvlaran/lvtree/tree"
)

// items builds records from {id, parent} pairs; parent 0 marks a root.
func items(pairs ...[2]int) []*tree.Item[int] {
	out := make([]*tree.Item[int], len(pairs))
	for i, p := range pairs {
		out[i] = tree.NewItem(p[0], p[1], "")
	}

	return out
}

// scenario is the four-record hierarchy used across tests:
//
//	1
//	├── 2
//	│   └── 4
//	└── 3
func scenario() []*tree.Item[int] {
	return items([2]int{1, 0}, [2]int{2, 1}, [2]int{3, 1}, [2]int{4, 2})
}

// shape renders a forest as "1(2(4),3) 5" for compact comparisons.
func shape(roots []*tree.Item[int]) string {
	parts := make([]string, len(roots))
	for i, r := range roots {
		parts[i] = shapeOf(r)
	}

	return strings.Join(parts, " ")
}

func shapeOf(it *tree.Item[int]) string {
	if len(it.ChildNodes) == 0 {
		return fmt.Sprint(it.Key)
	}
	kids := make([]string, len(it.ChildNodes))
	for i, c := range it.ChildNodes {
		kids[i] = shapeOf(c)
	}

	return fmt.Sprintf("%d(%s)", it.Key, strings.Join(kids, ","))
}

// flatten lists every id reachable from roots (pre-order, iterative).
func flatten(roots []*tree.Item[int]) []int {
	var ids []int
	stack := make([]*tree.Item[int], 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ids = append(ids, top.Key)
		for i := len(top.ChildNodes) - 1; i >= 0; i-- {
			stack = append(stack, top.ChildNodes[i])
		}
	}

	return ids
}

// keys returns the ids of records in order.
func keys(nodes []*tree.Item[int]) []int {
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = n.Key
	}

	return out
}

// randomForest generates n records with ids 1..n, shuffled, where each
// record's parent is a smaller id or absent. The seed fixes the layout.
func randomForest(n int, seed int64) []*tree.Item[int] {
	r := rand.New(rand.NewSource(seed))
	out := make([]*tree.Item[int], n)
	for i := 1; i <= n; i++ {
		parent := 0
		if i > 1 && r.Intn(10) > 0 {
			parent = 1 + r.Intn(i-1)
		}
		out[i-1] = tree.NewItem(i, parent, "")
	}
	r.Shuffle(n, func(i, j int) { out[i], out[j] = out[j], out[i] })

	return out
}

// reversedChain returns records 1..n where i's parent is i-1, listed deepest
// first.
func reversedChain(n int) []*tree.Item[int] {
	out := make([]*tree.Item[int], n)
	for i := 1; i <= n; i++ {
		out[n-i] = tree.NewItem(i, i-1, "")
	}

	return out
}

// orderedChain returns records 1..n where i's parent is i-1, listed root
// first.
func orderedChain(n int) []*tree.Item[int] {
	out := make([]*tree.Item[int], n)
	for i := 1; i <= n; i++ {
		out[i-1] = tree.NewItem(i, i-1, "")
	}

	return out
}

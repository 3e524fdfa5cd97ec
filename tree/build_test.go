package tree_test

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvtree/tree"
)

// TestBuild_Scenario covers the basic hierarchy: one root, ordered children.
func TestBuild_Scenario(t *testing.T) {
	roots, err := tree.Build[int](scenario())
	require.NoError(t, err)
	assert.Equal(t, "1(2(4),3)", shape(roots))
}

// TestBuild_ChildBeforeParent verifies order-of-arrival independence.
func TestBuild_ChildBeforeParent(t *testing.T) {
	roots, err := tree.Build[int](items([2]int{2, 1}, [2]int{1, 0}))
	require.NoError(t, err)
	assert.Equal(t, "1(2)", shape(roots))
}

// TestBuild_TwoCycle checks that a two-record cycle ends with both records
// as roots.
func TestBuild_TwoCycle(t *testing.T) {
	for _, policy := range []tree.CyclePolicy{tree.CycleBreak, tree.CycleAsRoots} {
		f, err := tree.BuildForest[int](items([2]int{1, 2}, [2]int{2, 1}), tree.WithCyclePolicy(policy))
		require.NoError(t, err)
		assert.Equal(t, "1 2", shape(f.Roots), policy.String())
		assert.Equal(t, []int{1, 2}, f.Unresolved)
		assert.Zero(t, f.Depth)
		assert.Zero(t, f.Attached)
	}
}

// TestBuild_RootConditions covers absent, unknown and self-referencing parents.
func TestBuild_RootConditions(t *testing.T) {
	input := items(
		[2]int{5, 5},  // self-parent
		[2]int{6, 99}, // orphan
		[2]int{7, 0},  // absent parent
		[2]int{8, 7},
	)
	f, err := tree.BuildForest[int](input)
	require.NoError(t, err)
	assert.Equal(t, "5 6 7(8)", shape(f.Roots))
	assert.Empty(t, f.Unresolved)
}

// TestBuild_EmptyInput returns an empty, non-nil root slice.
func TestBuild_EmptyInput(t *testing.T) {
	roots, err := tree.Build[int, *tree.Item[int]](nil)
	require.NoError(t, err)
	assert.NotNil(t, roots)
	assert.Empty(t, roots)
}

// TestBuild_ChildOrderFollowsInput pins attachment order: siblings keep
// their input order wherever their parent appears.
func TestBuild_ChildOrderFollowsInput(t *testing.T) {
	input := items([2]int{3, 2}, [2]int{9, 1}, [2]int{1, 0}, [2]int{2, 1}, [2]int{4, 1})
	f, err := tree.BuildForest[int](input)
	require.NoError(t, err)
	assert.Equal(t, "1(9,2(3),4)", shape(f.Roots))
	assert.Equal(t, 2, f.Depth)
	assert.Equal(t, 4, f.Attached)
}

// TestBuild_PreservesEveryRecord checks count(flatten(forest)) == count(input)
// and that each record sits under its declared parent exactly once.
func TestBuild_PreservesEveryRecord(t *testing.T) {
	for _, seed := range []int64{1, 7, 42} {
		input := randomForest(500, seed)
		parents := make(map[int]int, len(input))
		for _, it := range input {
			parents[it.Key] = it.ParentKey
		}

		f, err := tree.BuildForest[int](input)
		require.NoError(t, err)

		ids := flatten(f.Roots)
		assert.Len(t, ids, len(input))
		assert.ElementsMatch(t, keys(input), ids)
		assert.Equal(t, len(input), f.Size())

		for _, r := range f.Roots {
			assert.Zero(t, parents[r.Key], "root %d has a resolvable parent", r.Key)
		}
		for _, it := range input {
			for _, c := range it.ChildNodes {
				assert.Equal(t, it.Key, c.ParentKey)
			}
		}
	}
}

// TestBuild_Idempotent builds two fresh copies of the same input.
func TestBuild_Idempotent(t *testing.T) {
	a := randomForest(300, 3)
	b := tree.CloneItems(a)

	ra, err := tree.Build[int](a)
	require.NoError(t, err)
	rb, err := tree.Build[int](b)
	require.NoError(t, err)
	assert.Equal(t, shape(ra), shape(rb))
}

// TestBuild_ParallelMatchesSequential forces the concurrent resolve phase
// and compares it with a sequential build of a clone.
func TestBuild_ParallelMatchesSequential(t *testing.T) {
	input := randomForest(5000, 11)
	clone := tree.CloneItems(input)

	par, err := tree.BuildForest[int](input, tree.WithParallelThreshold(1), tree.WithWorkers(8))
	require.NoError(t, err)
	seq, err := tree.BuildForest[int](clone, tree.WithSequential())
	require.NoError(t, err)

	assert.Equal(t, shape(seq.Roots), shape(par.Roots))
	assert.Equal(t, seq.Depth, par.Depth)
	assert.Equal(t, seq.Attached, par.Attached)
}

// TestBuild_DeepChain builds a chain in both listing orders.
func TestBuild_DeepChain(t *testing.T) {
	const depth = 2000
	for name, input := range map[string][]*tree.Item[int]{
		"reversed": reversedChain(depth),
		"ordered":  orderedChain(depth),
	} {
		t.Run(name, func(t *testing.T) {
			f, err := tree.BuildForest[int](input)
			require.NoError(t, err)
			require.Len(t, f.Roots, 1)
			assert.Equal(t, 1, f.Roots[0].Key)
			assert.Equal(t, depth-1, f.Attached)
			assert.Equal(t, depth-1, f.Depth)
			assert.Len(t, flatten(f.Roots), depth)
		})
	}
}

// TestBuild_LongChainIsLinear builds chains far longer than a quadratic
// build could finish in the time limit, listed root first and deepest first.
func TestBuild_LongChainIsLinear(t *testing.T) {
	const depth = 200000
	for name, input := range map[string][]*tree.Item[int]{
		"ordered":  orderedChain(depth),
		"reversed": reversedChain(depth),
	} {
		t.Run(name, func(t *testing.T) {
			start := time.Now()
			f, err := tree.BuildForest[int](input)
			elapsed := time.Since(start)
			require.NoError(t, err)
			assert.Equal(t, depth-1, f.Attached)
			assert.Equal(t, depth-1, f.Depth)
			assert.Less(t, elapsed, 5*time.Second)
		})
	}
}

// cycleInput holds a root 10 with child 11, a three-cycle 1→3→2→1 (following
// parents) and a tail 5→4→1 hanging below the cycle.
func cycleInput() []*tree.Item[int] {
	return items(
		[2]int{10, 0},
		[2]int{11, 10},
		[2]int{1, 3},
		[2]int{2, 1},
		[2]int{3, 2},
		[2]int{4, 1},
		[2]int{5, 4},
	)
}

// TestBuild_CycleBreak is the default: it promotes only the cycle and
// attaches the tail below it.
func TestBuild_CycleBreak(t *testing.T) {
	f, err := tree.BuildForest[int](cycleInput())
	require.NoError(t, err)
	assert.Equal(t, "10(11) 1(4(5)) 2 3", shape(f.Roots))
	assert.Equal(t, []int{1, 2, 3}, f.Unresolved)
	assert.Equal(t, [][]int{{1, 3, 2}}, f.Cycles)
	assert.Equal(t, 2, f.Depth)
	assert.Len(t, flatten(f.Roots), 7)
}

// TestBuild_CycleAsRoots emits every record on or below a cycle as a root.
func TestBuild_CycleAsRoots(t *testing.T) {
	f, err := tree.BuildForest[int](cycleInput(), tree.WithCyclePolicy(tree.CycleAsRoots))
	require.NoError(t, err)
	assert.Equal(t, "10(11) 1 2 3 4 5", shape(f.Roots))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, f.Unresolved)
	assert.Empty(t, f.Cycles)
	assert.Equal(t, 1, f.Depth)
}

// TestBuild_TailBelowCycleAttaches keeps a record with a resolvable parent
// out of the roots when that parent sits on a cycle.
func TestBuild_TailBelowCycleAttaches(t *testing.T) {
	f, err := tree.BuildForest[int](items([2]int{1, 2}, [2]int{2, 1}, [2]int{4, 1}))
	require.NoError(t, err)
	assert.Equal(t, "1(4) 2", shape(f.Roots))
	assert.Equal(t, []int{1, 2}, f.Unresolved)
}

// TestBuild_ResolvableParentHoldsChild checks, under default options, that
// every record off a cycle with a resolvable parent appears exactly once in
// that parent's children and never among the roots.
func TestBuild_ResolvableParentHoldsChild(t *testing.T) {
	for _, seed := range []int64{2, 5, 19} {
		input := randomForest(400, seed)
		// A cycle 1001→1003→1002→1001 with a tail 1005→1004→1001, and random
		// records rehung below the tail.
		input = append(input, items(
			[2]int{1001, 1003}, [2]int{1002, 1001}, [2]int{1003, 1002},
			[2]int{1004, 1001}, [2]int{1005, 1004},
		)...)
		r := rand.New(rand.NewSource(seed))
		for k := 0; k < 20; k++ {
			input[r.Intn(400)].ParentKey = 1005
		}
		r.Shuffle(len(input), func(i, j int) { input[i], input[j] = input[j], input[i] })

		byID := make(map[int]*tree.Item[int], len(input))
		for _, it := range input {
			byID[it.Key] = it
		}
		onCycle := map[int]bool{1001: true, 1002: true, 1003: true}

		f, err := tree.BuildForest[int](input)
		require.NoError(t, err)
		assert.Len(t, flatten(f.Roots), len(input))

		roots := make(map[int]bool, len(f.Roots))
		for _, rt := range f.Roots {
			roots[rt.Key] = true
		}
		for _, it := range input {
			parent, ok := byID[it.ParentKey]
			if !ok || it.ParentKey == it.Key || onCycle[it.Key] {
				assert.True(t, roots[it.Key], "record %d should be a root", it.Key)
				continue
			}
			assert.False(t, roots[it.Key], "record %d is a root despite parent %d", it.Key, it.ParentKey)
			seen := 0
			for _, c := range parent.ChildNodes {
				if c == it {
					seen++
				}
			}
			assert.Equal(t, 1, seen, "record %d under parent %d", it.Key, it.ParentKey)
		}
	}
}

// TestBuild_ValidationLeavesRecordsUntouched rejects duplicates before any
// attachment happens.
func TestBuild_ValidationLeavesRecordsUntouched(t *testing.T) {
	input := items([2]int{1, 0}, [2]int{2, 1}, [2]int{1, 0})
	roots, err := tree.Build[int](input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tree.ErrDuplicateID))
	assert.Nil(t, roots)
	for _, it := range input {
		assert.Empty(t, it.ChildNodes)
	}
}

// TestBuild_OptionViolations checks every rejected option value.
func TestBuild_OptionViolations(t *testing.T) {
	cases := map[string]tree.Option{
		"threshold": tree.WithParallelThreshold(0),
		"workers":   tree.WithWorkers(-1),
		"policy":    tree.WithCyclePolicy(tree.CyclePolicy(7)),
	}
	for name, opt := range cases {
		t.Run(name, func(t *testing.T) {
			input := scenario()
			_, err := tree.Build[int](input, opt)
			assert.ErrorIs(t, err, tree.ErrOptionViolation)
			assert.Empty(t, input[0].ChildNodes)
		})
	}
}

// TestBuild_StringIDs exercises a non-numeric id type; "" is the absent id.
func TestBuild_StringIDs(t *testing.T) {
	input := []*tree.Item[string]{
		tree.NewItem("eu.de.berlin", "eu.de", "Berlin"),
		tree.NewItem("eu", "", "Europe"),
		tree.NewItem("eu.de", "eu", "Germany"),
		tree.NewItem("eu.fr", "eu", "France"),
	}
	roots, err := tree.Build[string](input)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "Europe", roots[0].Name)
	require.Len(t, roots[0].ChildNodes, 2)
	assert.Equal(t, "Germany", roots[0].ChildNodes[0].Name)
	assert.Equal(t, "Berlin", roots[0].ChildNodes[0].ChildNodes[0].Name)
}

// TestParseCyclePolicy maps configuration names.
func TestParseCyclePolicy(t *testing.T) {
	p, err := tree.ParseCyclePolicy("break")
	require.NoError(t, err)
	assert.Equal(t, tree.CycleBreak, p)

	p, err = tree.ParseCyclePolicy("")
	require.NoError(t, err)
	assert.Equal(t, tree.CycleBreak, p)
	assert.Equal(t, "break", p.String())

	p, err = tree.ParseCyclePolicy("roots")
	require.NoError(t, err)
	assert.Equal(t, tree.CycleAsRoots, p)
	assert.Equal(t, "roots", p.String())

	_, err = tree.ParseCyclePolicy("drop")
	assert.ErrorIs(t, err, tree.ErrOptionViolation)
}

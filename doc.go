// Package lvtree turns flat, parent-referencing records into ordered
// forests: menus, category trees, org charts, region hierarchies.
//
// What is lvtree?
//
//	A small generic library plus a service around it:
//		• tree/       the Node contract, Validate, Build/BuildForest,
//		               PathToRoot, PathSubtree, DetectCycles
//		• cmd/lvtree  CLI: build, path, subtree, serve
//		• internal/   config (koanf), logging (zap), metrics (prometheus),
//		               record codecs (JSON/YAML), the HTTP API (echo)
//
// Why lvtree?
//
//   - Any record type works: implement ID, ParentID, Children, AddChild,
//     ClearChildren and the builder organises it in place.
//   - No recursion anywhere: arbitrarily deep chains are safe.
//   - Deterministic: roots and siblings keep input order, sequential and
//     parallel builds agree.
//   - Cycles never loop forever: they are kept as roots or broken, by policy.
//
// Quick example:
//
//	records := []*tree.Item[int]{
//		tree.NewItem(2, 1, "Profile"),
//		tree.NewItem(1, 0, "Home"),
//	}
//	roots, err := tree.Build[int](records)
//	// roots == [Home(Profile)]
//
//	go install github.com/katalvlaran/lvtree/cmd/lvtree@latest
package lvtree

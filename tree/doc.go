// Package tree builds forests out of flat, parent-referencing records.
//
// What:
//
//   - Node: the capability set a record must expose (own id, parent id,
//     child list, child attachment) to be organised into a forest.
//   - Validate: rejects nil records, missing ids and duplicate ids.
//   - Build / BuildForest: iterative, non-recursive construction. Records may
//     arrive in any order (a child before its parent is fine).
//   - PathToRoot: ancestors of one record, root first.
//   - PathSubtree: a single-branch chain from the root down to one record.
//   - DetectCycles: parent cycles of length two or more.
//
// Why:
//
//   - Menu trees, org charts, category hierarchies and region tables are
//     stored flat with a parent column; callers need them nested.
//   - Deep hierarchies must not depend on call-stack depth.
//
// Policies:
//
//   - The zero value of the id type means "absent". A record whose parent id
//     is absent, unknown, or equal to its own id is a root. Orphans are
//     roots, never dropped.
//   - Roots keep first-seen input order. Children keep input order.
//   - Records on a parent cycle never reach a root and are promoted to
//     roots. Under CycleBreak (default) records hanging below a cycle still
//     attach to their parents; under CycleAsRoots they are emitted as roots
//     as-is.
//
// Complexity:
//
//   - Validate:     Time O(n), Memory O(n)
//   - Build:        Time O(n) for any input order and depth, Memory O(n)
//   - PathToRoot:   Time O(n + d), Memory O(n)
//   - DetectCycles: Time O(n), Memory O(n)
//
// Errors:
//
//   - ErrNilNode          nil record in the input
//   - ErrMissingID        record id is the zero value
//   - ErrDuplicateID      two records share an id
//   - ErrOptionViolation  invalid functional option
//   - ErrCycleDetected    PathToRoot climbed into a parent cycle
//
// Concurrency:
//
// Calls keep all state on the stack of the call; concurrent calls over
// disjoint record sets are independent. Within one Build, parent resolution
// of a large input fans out across goroutines and only reads the index; the
// apply step runs on the calling goroutine, so a parent's child list always
// has a single writer.
package tree

package tree

import "reflect"

// Validate scans nodes once and reports the first structural defect:
//
//   - a nil record          → *ValidationError wrapping ErrNilNode
//   - a zero-value id       → *ValidationError wrapping ErrMissingID
//   - a repeated id         → *ValidationError wrapping ErrDuplicateID
//
// Self-referencing and unresolvable parent ids are not defects; the builder
// treats such records as roots. Validate never mutates records.
func Validate[K comparable, T Node[K, T]](nodes []T) error {
	_, err := index[K, T](nodes)

	return err
}

// index validates nodes and returns the id → input position lookup.
func index[K comparable, T Node[K, T]](nodes []T) (map[K]int, error) {
	var zero K
	pos := make(map[K]int, len(nodes))
	for i, n := range nodes {
		if isNil(n) {
			return nil, &ValidationError[K]{Index: i, Err: ErrNilNode}
		}
		id := n.ID()
		if id == zero {
			return nil, &ValidationError[K]{Index: i, Err: ErrMissingID}
		}
		if _, dup := pos[id]; dup {
			return nil, &ValidationError[K]{Index: i, ID: id, Err: ErrDuplicateID}
		}
		pos[id] = i
	}

	return pos, nil
}

// isNil reports whether v is a nil interface or a nil pointer, map, slice,
// func or chan hidden behind a type parameter.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

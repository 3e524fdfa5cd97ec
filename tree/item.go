package tree

// Item is a ready-made record implementing Node[K, *Item[K]].
//
// Metadata is carried through untouched and is shared, not copied, by Clone.
type Item[K comparable] struct {
	// Key is the record's own identifier.
	Key K `json:"id" yaml:"id"`

	// ParentKey is the parent's identifier; the zero value marks a root.
	ParentKey K `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`

	// Name is a free-form label.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Metadata stores arbitrary user data.
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// ChildNodes is populated by the builder.
	ChildNodes []*Item[K] `json:"children,omitempty" yaml:"children,omitempty"`
}

// NewItem returns an Item with the given key, parent key and name.
func NewItem[K comparable](key, parent K, name string) *Item[K] {
	return &Item[K]{Key: key, ParentKey: parent, Name: name}
}

// ID implements Node.
func (it *Item[K]) ID() K { return it.Key }

// ParentID implements Node.
func (it *Item[K]) ParentID() K { return it.ParentKey }

// Children implements Node.
func (it *Item[K]) Children() []*Item[K] { return it.ChildNodes }

// AddChild implements Node.
func (it *Item[K]) AddChild(child *Item[K]) {
	it.ChildNodes = append(it.ChildNodes, child)
}

// ClearChildren implements Node.
func (it *Item[K]) ClearChildren() { it.ChildNodes = nil }

// Clone returns a copy of it without children, ready for a fresh build.
func (it *Item[K]) Clone() *Item[K] {
	return &Item[K]{Key: it.Key, ParentKey: it.ParentKey, Name: it.Name, Metadata: it.Metadata}
}

// CloneItems clones every record of items; see Item.Clone.
func CloneItems[K comparable](items []*Item[K]) []*Item[K] {
	out := make([]*Item[K], len(items))
	for i, it := range items {
		if it != nil {
			out[i] = it.Clone()
		}
	}

	return out
}

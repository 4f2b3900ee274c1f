package types

// PathSet is an immutable set of paths that remembers insertion order.
// The zero value is an empty set.
type PathSet struct {
	order   []string
	members map[string]struct{}
}

// NewPathSet builds a set from paths, keeping the first occurrence of duplicates.
func NewPathSet(paths ...string) PathSet {
	if len(paths) == 0 {
		return PathSet{}
	}
	order := make([]string, 0, len(paths))
	members := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if _, exists := members[path]; exists {
			continue
		}
		members[path] = struct{}{}
		order = append(order, path)
	}
	return PathSet{order: order, members: members}
}

// Contains reports whether path is a member.
func (set PathSet) Contains(path string) bool {
	_, exists := set.members[path]
	return exists
}

// Len returns the number of members.
func (set PathSet) Len() int {
	return len(set.order)
}

// Paths returns the members in insertion order. The slice is a copy and never nil.
func (set PathSet) Paths() []string {
	result := make([]string, len(set.order))
	copy(result, set.order)
	return result
}

// With returns a set that additionally contains path, appended last.
func (set PathSet) With(path string) PathSet {
	if set.Contains(path) {
		return set
	}
	order := make([]string, 0, len(set.order)+1)
	order = append(order, set.order...)
	order = append(order, path)
	members := make(map[string]struct{}, len(order))
	for _, member := range order {
		members[member] = struct{}{}
	}
	return PathSet{order: order, members: members}
}

// Without returns a set that no longer contains path.
func (set PathSet) Without(path string) PathSet {
	if !set.Contains(path) {
		return set
	}
	remaining := make([]string, 0, len(set.order)-1)
	for _, member := range set.order {
		if member != path {
			remaining = append(remaining, member)
		}
	}
	return NewPathSet(remaining...)
}

// Toggle adds path when absent and removes it when present.
func (set PathSet) Toggle(path string) PathSet {
	if set.Contains(path) {
		return set.Without(path)
	}
	return set.With(path)
}

// Filter returns the members for which keep returns true, order preserved.
func (set PathSet) Filter(keep func(string) bool) PathSet {
	kept := make([]string, 0, len(set.order))
	for _, member := range set.order {
		if keep(member) {
			kept = append(kept, member)
		}
	}
	return NewPathSet(kept...)
}

// SameMembers reports set equality, ignoring order.
func (set PathSet) SameMembers(other PathSet) bool {
	if set.Len() != other.Len() {
		return false
	}
	for _, member := range set.order {
		if !other.Contains(member) {
			return false
		}
	}
	return true
}

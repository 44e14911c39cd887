package part

// BlockingSet computes, for a set of requested part ids, the full set of
// part ids whose bookings must be treated as conflicting: each requested
// part itself, its direct children, and its direct parent. The hierarchy
// rule is bidirectional, so booking a parent blocks its children and
// booking a child blocks its parent.
//
// parts is the arena of all parts belonging to the resource. An empty
// requestedIDs slice means a whole-resource request and yields an empty
// set (the conflict query then matches every part). A requested id not
// present in the arena is ErrNotFound.
func BlockingSet(parts []*Part, requestedIDs []string) (map[string]struct{}, error) {
	byID := make(map[string]*Part, len(parts))
	children := make(map[string][]string, len(parts))
	for _, p := range parts {
		byID[p.ID] = p
		if p.ParentID != nil {
			children[*p.ParentID] = append(children[*p.ParentID], p.ID)
		}
	}

	blocking := make(map[string]struct{}, len(requestedIDs))
	for _, id := range requestedIDs {
		p, ok := byID[id]
		if !ok {
			return nil, ErrNotFound
		}

		blocking[p.ID] = struct{}{}
		for _, childID := range children[p.ID] {
			blocking[childID] = struct{}{}
		}
		if p.ParentID != nil {
			blocking[*p.ParentID] = struct{}{}
		}
	}

	return blocking, nil
}

// wouldCycle reports whether setting newParentID as the parent of partID
// would create a cycle in the parent chain. The walk keeps a visited set
// so that pre-existing bad data cannot loop forever.
func wouldCycle(parts []*Part, partID, newParentID string) bool {
	byID := make(map[string]*Part, len(parts))
	for _, p := range parts {
		byID[p.ID] = p
	}

	visited := make(map[string]struct{})
	current := newParentID
	for current != "" {
		if current == partID {
			return true
		}
		if _, seen := visited[current]; seen {
			return false
		}
		visited[current] = struct{}{}

		p, ok := byID[current]
		if !ok || p.ParentID == nil {
			return false
		}
		current = *p.ParentID
	}
	return false
}

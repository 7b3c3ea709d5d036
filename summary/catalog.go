package summary

// nodeCatalog maps node ids to the ordered, duplicate-free category ids
// they were first observed with. Entries are created on first sighting and
// never removed; a second sighting of the same id is rejected before any
// counter moves.
type nodeCatalog map[string][]CategoryID

// has reports whether the node id was already catalogued.
func (nc nodeCatalog) has(id string) bool {
	_, ok := nc[id]
	return ok
}

// add creates an empty entry for a first-seen node id. Nodes without
// categories keep an empty entry, so their edges pass referential checks
// but contribute no triples.
func (nc nodeCatalog) add(id string) {
	nc[id] = nil
}

// appendCategory records a category membership in insertion order,
// skipping ids already present.
func (nc nodeCatalog) appendCategory(id string, category CategoryID) {
	for _, existing := range nc[id] {
		if existing == category {
			return
		}
	}
	nc[id] = append(nc[id], category)
}

// categories returns the member category ids for id. The second return is
// false when the id was never catalogued.
func (nc nodeCatalog) categories(id string) ([]CategoryID, bool) {
	ids, ok := nc[id]
	return ids, ok
}

package summary

// CategoryID is the compact identifier a Registry assigns to one category
// name. IDs are small non-negative integers allocated in registration
// order, stable for the registry lifetime and never reassigned.
type CategoryID int

// Registry owns the append-only category name to id mapping of one
// GraphSummary. Each summary holds its own registry, so ids from one run
// can never leak into another.
type Registry struct {
	names []string
	ids   map[string]CategoryID
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]CategoryID)}
}

// Register returns the id bound to name, allocating the next free id on
// first sighting. Registration is idempotent.
func (r *Registry) Register(name string) CategoryID {
	if id, ok := r.ids[name]; ok {
		return id
	}
	id := CategoryID(len(r.names))
	r.names = append(r.names, name)
	r.ids[name] = id
	return id
}

// ID looks up the id previously assigned to name.
func (r *Registry) ID(name string) (CategoryID, bool) {
	id, ok := r.ids[name]
	return id, ok
}

// Name reverses an id back to its category name.
func (r *Registry) Name(id CategoryID) (string, bool) {
	if id < 0 || int(id) >= len(r.names) {
		return "", false
	}
	return r.names[id], true
}

// Len reports how many categories are registered.
func (r *Registry) Len() int {
	return len(r.names)
}

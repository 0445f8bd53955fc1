package search

// Registry holds all registered sources
type Registry struct {
	sources []Source
}

// NewRegistry creates a new source registry
func NewRegistry() *Registry {
	return &Registry{
		sources: []Source{},
	}
}

// Register adds a source to the registry
func (r *Registry) Register(source Source) {
	r.sources = append(r.sources, source)
}

// GetAll returns all registered sources
func (r *Registry) GetAll() []Source {
	return r.sources
}

// Count returns the number of registered sources
func (r *Registry) Count() int {
	return len(r.sources)
}

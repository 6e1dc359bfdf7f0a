package breathing

// Store exposes breathing preset lookup for handlers and the vision loop.
type Store interface {
	List() []Pattern
	FindByID(id string) (Pattern, bool)
	Resolve(id string) Pattern
	Summaries() map[string]string
}

// Catalog implements Store over an in-memory slice.
type Catalog struct {
	items []Pattern
}

// NewCatalog returns a Catalog preloaded with the supplied patterns.
func NewCatalog(items []Pattern) *Catalog {
	return &Catalog{items: append([]Pattern(nil), items...)}
}

// List returns every preset.
func (c *Catalog) List() []Pattern {
	return append([]Pattern(nil), c.items...)
}

// FindByID looks up a preset by exercise type.
func (c *Catalog) FindByID(id string) (Pattern, bool) {
	for _, item := range c.items {
		if item.ID == id {
			return item, true
		}
	}
	return Pattern{}, false
}

// Resolve returns the preset for id, or the focus preset when id is unknown.
func (c *Catalog) Resolve(id string) Pattern {
	if p, ok := c.FindByID(id); ok {
		return p
	}
	p, _ := c.FindByID(Focus)
	return p
}

// Summaries maps every exercise type to its one-line description.
func (c *Catalog) Summaries() map[string]string {
	out := make(map[string]string, len(c.items))
	for _, item := range c.items {
		out[item.ID] = item.Summary
	}
	return out
}

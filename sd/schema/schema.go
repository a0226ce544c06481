// Package schema holds the closed-world domain schemas that gate which
// identifiers and stock-to-stock edges a model may use. A schema is pure
// data: adding a domain means supplying new configuration (see LoadFile),
// never a new code path in the validator.
package schema

import (
	"errors"
	"fmt"
	"sort"
)

// Category classifies a model identifier.
type Category string

const (
	CategoryStock     Category = "stock"
	CategoryFlow      Category = "flow"
	CategoryParameter Category = "parameter"
	CategoryAuxiliary Category = "auxiliary"
)

// Edge is a directed stock-to-stock edge, identified by stock ids.
type Edge struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

func (e Edge) String() string { return e.From + " -> " + e.To }

// DomainSchema is the whitelist of permitted identifiers per category plus
// the forbidden directed edges for one domain. Immutable after construction.
type DomainSchema struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Stocks      []string `yaml:"stocks" json:"stocks"`
	Flows       []string `yaml:"flows" json:"flows"`
	Parameters  []string `yaml:"parameters" json:"parameters"`
	Auxiliaries []string `yaml:"auxiliaries" json:"auxiliaries"`
	// ForbiddenEdges lists direct stock-to-stock transfers the domain never
	// permits, regardless of equation content.
	ForbiddenEdges []Edge `yaml:"forbidden_edges,omitempty" json:"forbidden_edges,omitempty"`
}

// permitted returns the whitelist for one category.
func (s *DomainSchema) permitted(cat Category) []string {
	switch cat {
	case CategoryStock:
		return s.Stocks
	case CategoryFlow:
		return s.Flows
	case CategoryParameter:
		return s.Parameters
	case CategoryAuxiliary:
		return s.Auxiliaries
	}
	return nil
}

// Allows reports whether id is in the domain's whitelist for cat.
func (s *DomainSchema) Allows(cat Category, id string) bool {
	for _, allowed := range s.permitted(cat) {
		if allowed == id {
			return true
		}
	}
	return false
}

// Known reports whether id appears in any category whitelist.
func (s *DomainSchema) Known(id string) bool {
	for _, cat := range []Category{CategoryStock, CategoryFlow, CategoryParameter, CategoryAuxiliary} {
		if s.Allows(cat, id) {
			return true
		}
	}
	return false
}

// Forbids reports whether the directed stock edge from -> to is forbidden.
func (s *DomainSchema) Forbids(from, to string) bool {
	for _, e := range s.ForbiddenEdges {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}

func (s *DomainSchema) validate() error {
	if s.Name == "" {
		return errors.New("domain schema missing name")
	}
	return nil
}

// ErrNotFound is returned by Registry.Lookup for an unregistered domain.
var ErrNotFound = errors.New("domain not found")

// Registry maps domain names to their schemas. It is read-only after
// construction and therefore safe for unsynchronized concurrent lookups.
type Registry struct {
	schemas map[string]*DomainSchema
}

// NewRegistry builds a registry from the given schemas. Duplicate or unnamed
// domains are rejected.
func NewRegistry(domains ...*DomainSchema) (*Registry, error) {
	r := &Registry{schemas: make(map[string]*DomainSchema, len(domains))}
	for _, d := range domains {
		if err := d.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.schemas[d.Name]; dup {
			return nil, fmt.Errorf("duplicate domain %q", d.Name)
		}
		r.schemas[d.Name] = d
	}
	return r, nil
}

// Lookup resolves a domain name to its schema.
func (r *Registry) Lookup(name string) (*DomainSchema, error) {
	s, ok := r.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrNotFound, name, r.Names())
	}
	return s, nil
}

// Names returns the sorted names of all registered domains.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

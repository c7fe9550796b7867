// Package registry holds the department list reports are routed to.
// It is populated once at startup and only read afterwards, so lookups take no lock
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed departments.json
var embedded []byte

// Department is an organizational unit responsible for a class of issues
type Department struct {
	ID       string   `json:"id" yaml:"id" example:"water-supply"`
	Name     string   `json:"name" yaml:"name" example:"Water Supply Department"`
	Email    string   `json:"email" yaml:"email" example:"water@city.gov"`
	Phone    string   `json:"phone" yaml:"phone" example:"(555) 456-7890"`
	Keywords []string `json:"categories" yaml:"categories"`
	Category string   `json:"category" yaml:"category" example:"water-supply"`
}

// Registry is an immutable, ordered set of departments
type Registry struct {
	order []Department
	byID  map[string]int
}

// New builds a registry in the given order
// ids are trimmed, must be non empty and unique
func New(deps ...Department) (*Registry, error) {
	r := &Registry{
		order: make([]Department, 0, len(deps)),
		byID:  make(map[string]int, len(deps)),
	}
	for i, d := range deps {
		d.ID = strings.TrimSpace(d.ID)
		if d.ID == "" {
			return nil, fmt.Errorf("registry: department %d has empty id", i)
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, fmt.Errorf("registry: duplicate department id %q", d.ID)
		}
		d.Keywords = append([]string(nil), d.Keywords...)
		r.byID[d.ID] = len(r.order)
		r.order = append(r.order, d)
	}
	return r, nil
}

// Load returns the registry built from the embedded departments.json
func Load() (*Registry, error) {
	var deps []Department
	if err := json.Unmarshal(embedded, &deps); err != nil {
		return nil, fmt.Errorf("registry: parse departments.json: %w", err)
	}
	return New(deps...)
}

// LoadFile reads departments from a yaml or json file, picked by extension
func LoadFile(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: read %s: %w", path, err)
	}
	var deps []Department
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &deps)
	default:
		err = json.Unmarshal(raw, &deps)
	}
	if err != nil {
		return nil, fmt.Errorf("registry: parse %s: %w", path, err)
	}
	return New(deps...)
}

// Lookup returns the department for id
func (r *Registry) Lookup(id string) (Department, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Department{}, false
	}
	return r.order[i], true
}

// Has reports whether id is registered
func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// All returns the departments in registration order
// the slice is a copy so callers may not mutate the registry
func (r *Registry) All() []Department {
	out := make([]Department, len(r.order))
	copy(out, r.order)
	return out
}

// IDs returns department ids in registration order
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	for i, d := range r.order {
		out[i] = d.ID
	}
	return out
}

// Len returns the number of departments
func (r *Registry) Len() int { return len(r.order) }

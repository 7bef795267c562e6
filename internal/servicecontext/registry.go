// Package servicecontext holds the configured service contexts: the consumer
// products that narrow which datasets and requirements apply to a request.
package servicecontext

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"

	"broker/internal/evidence/models"
	"broker/internal/platform/config"
)

// DefaultLanguages is used when a context declares no languages of its own.
var DefaultLanguages = []string{"nb", "nn", "en"}

// ServiceContext is one configured consumer product.
type ServiceContext struct {
	ID             string
	Name           string
	ValidLanguages []string
	Requirements   models.Requirements
}

// Languages returns the accepted language codes.
func (sc ServiceContext) Languages() []string {
	if len(sc.ValidLanguages) == 0 {
		return DefaultLanguages
	}
	return sc.ValidLanguages
}

// AcceptsLanguage reports whether code is valid in this context. Empty is always accepted.
func (sc ServiceContext) AcceptsLanguage(code string) bool {
	return code == "" || slices.Contains(sc.Languages(), code)
}

// Registry is an immutable name-indexed set of service contexts.
type Registry struct {
	byName map[string]ServiceContext
}

// NewRegistry builds the registry from the catalog file's context section.
func NewRegistry(cfgs []config.ServiceContextConfig) (*Registry, error) {
	r := &Registry{byName: make(map[string]ServiceContext, len(cfgs))}
	for _, c := range cfgs {
		if _, dup := r.byName[c.Name]; dup {
			return nil, fmt.Errorf("service context %q declared twice", c.Name)
		}
		reqs, err := decodeRequirements(c.AuthorizationRequirements)
		if err != nil {
			return nil, fmt.Errorf("service context %q: %w", c.Name, err)
		}
		r.byName[c.Name] = ServiceContext{
			ID:             c.ID,
			Name:           c.Name,
			ValidLanguages: slices.Clone(c.ValidLanguages),
			Requirements:   reqs,
		}
	}
	return r, nil
}

// Get looks up a context by name.
func (r *Registry) Get(name string) (ServiceContext, bool) {
	sc, ok := r.byName[name]
	return sc, ok
}

// All returns every context sorted by name.
func (r *Registry) All() []ServiceContext {
	out := make([]ServiceContext, 0, len(r.byName))
	for _, sc := range r.byName {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the sorted context names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// decodeRequirements round-trips the generic YAML shape through the requirement JSON codec.
func decodeRequirements(raw []map[string]any) (models.Requirements, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode requirements: %w", err)
	}
	var reqs models.Requirements
	if err := json.Unmarshal(data, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

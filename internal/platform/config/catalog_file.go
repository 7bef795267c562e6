package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EvidenceSource is an upstream that publishes dataset descriptors at BaseURL.
type EvidenceSource struct {
	Name    string `yaml:"name"`
	BaseURL string `yaml:"url"`
}

// ServiceContextConfig is the YAML form of a service context. Requirements keep their
// generic shape here; the servicecontext package decodes them into typed requirements.
type ServiceContextConfig struct {
	ID                        string           `yaml:"id"`
	Name                      string           `yaml:"name"`
	ValidLanguages            []string         `yaml:"validLanguages"`
	AuthorizationRequirements []map[string]any `yaml:"authorizationRequirements"`
}

// CatalogFile is the broker's static deployment description.
type CatalogFile struct {
	Sources         []EvidenceSource       `yaml:"evidenceSources"`
	ServiceContexts []ServiceContextConfig `yaml:"serviceContexts"`
	AllowLists      map[string][]string    `yaml:"allowLists"`
}

// LoadCatalogFile reads and validates the YAML file at path.
func LoadCatalogFile(path string) (*CatalogFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog config: %w", err)
	}
	return ParseCatalogFile(raw)
}

// ParseCatalogFile decodes a catalog file from YAML bytes.
func ParseCatalogFile(raw []byte) (*CatalogFile, error) {
	var f CatalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode catalog config: %w", err)
	}
	seen := make(map[string]struct{}, len(f.Sources))
	for i, s := range f.Sources {
		if s.Name == "" || s.BaseURL == "" {
			return nil, fmt.Errorf("evidence source %d: name and url are required", i)
		}
		if _, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("evidence source %q declared twice", s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	for i, sc := range f.ServiceContexts {
		if sc.Name == "" {
			return nil, fmt.Errorf("service context %d: name is required", i)
		}
	}
	return &f, nil
}

// AllowList returns the configured identifiers for key.
func (f *CatalogFile) AllowList(key string) ([]string, bool) {
	v, ok := f.AllowLists[key]
	return v, ok
}

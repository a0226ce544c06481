package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// schemaFile is the YAML document shape for externally supplied domains.
type schemaFile struct {
	Domains []*DomainSchema `yaml:"domains"`
}

// LoadFile parses domain schemas from a YAML file of the form:
//
//	domains:
//	  - name: acme
//	    description: ...
//	    stocks: [inventory, cash]
//	    flows: [production]
//	    parameters: [rate]
//	    auxiliaries: [demand]
//	    forbidden_edges:
//	      - {from: inventory, to: cash}
func LoadFile(path string) ([]*DomainSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	var file schemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing schema file %s: %w", path, err)
	}
	if len(file.Domains) == 0 {
		return nil, fmt.Errorf("schema file %s declares no domains", path)
	}
	for _, d := range file.Domains {
		if err := d.validate(); err != nil {
			return nil, fmt.Errorf("schema file %s: %w", path, err)
		}
	}
	return file.Domains, nil
}

// LoadRegistry builds a registry from the builtin domains plus every domain
// in the given files. Later files may not redefine earlier domains.
func LoadRegistry(paths ...string) (*Registry, error) {
	domains := []*DomainSchema{Aerodin(), Euromotion()}
	for _, path := range paths {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		domains = append(domains, loaded...)
	}
	return NewRegistry(domains...)
}

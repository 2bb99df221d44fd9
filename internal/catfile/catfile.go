// Package catfile parses catalog configuration files.
//
// A catalog file is a YAML document describing the data sources available
// from one catalog node, plus any plugin descriptors needed to open them:
//
//	name: trips                # optional, defaults to the file stem
//	plugins:
//	  source:
//	    - module: example/plugins/csv
//	    - dir: ./plugins
//	sources:
//	  - name: yellow
//	    driver: csv
//	    description: Yellow taxi trip records
//	    args:
//	      urlpath: ./data/yellow.csv
package catfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source describes one named data source from a catalog file.
type Source struct {
	Name        string         `yaml:"name"`
	Driver      string         `yaml:"driver"`
	Description string         `yaml:"description,omitempty"`
	Args        map[string]any `yaml:"args,omitempty"`
	Metadata    map[string]any `yaml:"metadata,omitempty"`
}

// Plugin describes one plugin source descriptor. Exactly one of Module or
// Dir is expected to be set; the descriptor is passed through opaque.
type Plugin struct {
	Module string `yaml:"module,omitempty"`
	Dir    string `yaml:"dir,omitempty"`
}

// Config is the parsed content of one catalog file.
type Config struct {
	// Name identifies the catalog. Defaults to the file name without its
	// extension when the document has no name key.
	Name string

	// Sources maps source name to its descriptor.
	Sources map[string]Source

	// Plugins lists the plugin descriptors declared by the file.
	Plugins []Plugin
}

type document struct {
	Name    string `yaml:"name"`
	Plugins struct {
		Source []Plugin `yaml:"source"`
	} `yaml:"plugins"`
	Sources []Source `yaml:"sources"`
}

// Load reads and parses the catalog file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}

	name := doc.Name
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	sources := make(map[string]Source, len(doc.Sources))
	for i, src := range doc.Sources {
		if src.Name == "" {
			return nil, fmt.Errorf("catalog file %s: source at index %d has no name", path, i)
		}
		if _, ok := sources[src.Name]; ok {
			return nil, fmt.Errorf("catalog file %s: duplicate source name %q", path, src.Name)
		}
		sources[src.Name] = src
	}

	return &Config{
		Name:    name,
		Sources: sources,
		Plugins: doc.Plugins.Source,
	}, nil
}

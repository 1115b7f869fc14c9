// Package catalog holds the ordered list of section definitions that
// drives document extraction. The catalog is static configuration:
// the extractor is fully generic over its contents and size.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// SectionDefinition pairs a section title with the instruction describing
// what to extract from the process narrative. Catalog order is semantically
// meaningful: it defines document order and anchor search order.
type SectionDefinition struct {
	Name        string `yaml:"name"`
	Instruction string `yaml:"instruction"`

	// DiagramSource marks the entry whose extracted content feeds the
	// flow diagram synthesizer.
	DiagramSource bool `yaml:"diagram_source,omitempty"`
	// DiagramAnchor marks the entry after which the diagram is placed
	// in the rendered document.
	DiagramAnchor bool `yaml:"diagram_anchor,omitempty"`
}

// Catalog is an immutable ordered sequence of section definitions.
type Catalog struct {
	Sections []SectionDefinition `yaml:"sections"`
}

// ConfigError reports a missing or malformed catalog definition.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog: %s: %v", e.Reason, e.Err)
	}
	return "catalog: " + e.Reason
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Legacy anchor matching used before the anchor flag existed: the diagram
// is associated with the first section whose name belongs to this set.
var legacyAnchorNames = map[string]struct{}{
	"Process Overview (AS IS)":       {},
	"High Level Process Map (AS IS)": {},
	"Detailed Process Map (AS IS)":   {},
}

// Parse decodes and validates a catalog definition payload.
func Parse(data []byte) (Catalog, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Catalog{}, &ConfigError{Reason: "definition payload is empty"}
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, &ConfigError{Reason: "decode definition", Err: err}
	}
	if err := c.validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Load reads a catalog from path, or returns the embedded default when
// path is empty.
func Load(path string) (Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, &ConfigError{Reason: "read " + path, Err: err}
	}
	return Parse(data)
}

// Default returns the embedded catalog.
func Default() (Catalog, error) {
	return Parse(defaultYAML)
}

func (c Catalog) validate() error {
	if len(c.Sections) == 0 {
		return &ConfigError{Reason: "catalog has no sections"}
	}
	seen := make(map[string]struct{}, len(c.Sections))
	sources, anchors := 0, 0
	for i, s := range c.Sections {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return &ConfigError{Reason: fmt.Sprintf("section %d has an empty name", i)}
		}
		if strings.TrimSpace(s.Instruction) == "" {
			return &ConfigError{Reason: fmt.Sprintf("section %q has an empty instruction", name)}
		}
		if _, dup := seen[name]; dup {
			return &ConfigError{Reason: fmt.Sprintf("duplicate section name %q", name)}
		}
		seen[name] = struct{}{}
		if s.DiagramSource {
			sources++
		}
		if s.DiagramAnchor {
			anchors++
		}
	}
	if sources > 1 {
		return &ConfigError{Reason: "more than one section marked diagram_source"}
	}
	if anchors > 1 {
		return &ConfigError{Reason: "more than one section marked diagram_anchor"}
	}
	return nil
}

// Len returns the number of sections.
func (c Catalog) Len() int { return len(c.Sections) }

// AnchorIndex returns the catalog index of the diagram anchor section.
// A section flagged diagram_anchor wins; otherwise the first section (in
// catalog order) whose name belongs to the legacy overview name set.
// ok is false when no anchor exists.
func (c Catalog) AnchorIndex() (int, bool) {
	for i, s := range c.Sections {
		if s.DiagramAnchor {
			return i, true
		}
	}
	for i, s := range c.Sections {
		if _, hit := legacyAnchorNames[strings.TrimSpace(s.Name)]; hit {
			return i, true
		}
	}
	return -1, false
}

// SourceIndex returns the catalog index of the section whose content feeds
// the diagram synthesizer. A section flagged diagram_source wins; otherwise
// the sixth entry by the reference system's convention. ok is false when
// the catalog is too small and nothing is flagged.
func (c Catalog) SourceIndex() (int, bool) {
	for i, s := range c.Sections {
		if s.DiagramSource {
			return i, true
		}
	}
	if len(c.Sections) >= 6 {
		return 5, true
	}
	return -1, false
}

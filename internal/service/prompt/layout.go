package prompt

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
	"promptdeck/internal/domain/models"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Layout defines how resolved fragments render into a prompt: one titled
// section per kind, joined by a constant separator. Loaded once from an
// embedded YAML file so rendering never touches I/O afterwards.
type Layout struct {
	Separator string    `yaml:"separator"`
	Sections  []Section `yaml:"sections"`
}

// Section is one titled prompt section bound to a component kind
type Section struct {
	Kind  models.ComponentKind `yaml:"kind"`
	Title string               `yaml:"title"`
}

// LoadLayout reads and validates the embedded layout file
func LoadLayout() (*Layout, error) {
	data, err := configFiles.ReadFile("config/layout.yaml")
	if err != nil {
		return nil, fmt.Errorf("read layout config: %w", err)
	}

	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("unmarshal layout config: %w", err)
	}

	if err := layout.validate(); err != nil {
		return nil, fmt.Errorf("invalid layout config: %w", err)
	}

	return &layout, nil
}

// validate checks that the layout covers exactly the four kinds in
// canonical section order. The order check guards against a config edit
// silently changing rendered output.
func (l *Layout) validate() error {
	if l.Separator == "" {
		return fmt.Errorf("separator must not be empty")
	}
	if len(l.Sections) != len(models.Kinds) {
		return fmt.Errorf("expected %d sections, got %d", len(models.Kinds), len(l.Sections))
	}
	for i, kind := range models.Kinds {
		section := l.Sections[i]
		if section.Kind != kind {
			return fmt.Errorf("section %d: expected kind %q, got %q", i, kind, section.Kind)
		}
		if section.Title == "" {
			return fmt.Errorf("section %d (%s): title must not be empty", i, section.Kind)
		}
	}
	return nil
}

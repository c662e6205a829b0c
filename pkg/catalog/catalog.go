// pkg/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	err = json.Unmarshal(data, &doc)
	return &doc, err
}

func Save(doc *Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	return nil
}

// Validate checks the structural invariants of a catalog document: unique
// IDs, required fields, and pillar requirements inside the maturity scale.
func (d *Document) Validate(scaleMin, scaleMax float64) error {
	if len(d.UseCases) == 0 {
		return fmt.Errorf("catalog contains no use cases")
	}

	ids := make(map[string]bool)
	for _, entry := range d.UseCases {
		if entry.ID == "" {
			return fmt.Errorf("use case missing required field: id")
		}
		if ids[entry.ID] {
			return fmt.Errorf("duplicate use case ID: %s", entry.ID)
		}
		ids[entry.ID] = true

		if entry.Name == "" {
			return fmt.Errorf("use case %s missing required field: name", entry.ID)
		}
		for pillar, requirement := range entry.PillarRequirements {
			if pillar == "" {
				return fmt.Errorf("use case %s has an unnamed pillar requirement", entry.ID)
			}
			if requirement < scaleMin || requirement > scaleMax {
				return fmt.Errorf("use case %s: requirement for pillar %s is %.1f, outside scale [%.1f, %.1f]",
					entry.ID, pillar, requirement, scaleMin, scaleMax)
			}
		}
	}
	return nil
}

// Find returns the entry with the given ID, or nil.
func (d *Document) Find(id string) *Entry {
	for i := range d.UseCases {
		if d.UseCases[i].ID == id {
			return &d.UseCases[i]
		}
	}
	return nil
}

package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/brainbolt/backend/internal/models"
)

type fileCatalog struct {
	Items []models.Item `yaml:"items"`
}

// LoadFile reads a YAML document of the form `items: [...]`.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Catalog, error) {
	var doc fileCatalog
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(doc.Items)
}

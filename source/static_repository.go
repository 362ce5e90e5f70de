package source

import (
	"github.com/sardine-ai/go-watchface-config/schema"
	"gopkg.in/yaml.v3"
)

// StaticRepository serves a document compiled into the binary, by default
// the watchface schema.
type StaticRepository struct {
	snapshot
	Name     string          // Name of the configuration source
	Document schema.Document // Document to serve; schema.Watchface() when nil
}

// NewStaticRepository creates a StaticRepository serving the watchface schema.
func NewStaticRepository(name string) *StaticRepository {
	return &StaticRepository{Name: name}
}

// GetName returns the name of the configuration source.
func (s *StaticRepository) GetName() string {
	return s.Name
}

// Refresh validates the document and renders its YAML form.
func (s *StaticRepository) Refresh() error {
	doc := s.Document
	if doc == nil {
		doc = schema.Watchface()
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return s.store(data)
}

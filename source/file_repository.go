package source

import (
	"os"

	"github.com/sirupsen/logrus"
)

// FileRepository is a struct that implements the Repository interface for
// handling a schema document stored in a local YAML or JSON file.
type FileRepository struct {
	snapshot
	Name string // Name of the configuration source
	Path string // File path of the schema document
}

// NewFileRepository creates a FileRepository reading the document at path.
func NewFileRepository(name, path string) *FileRepository {
	return &FileRepository{Name: name, Path: path}
}

// GetName returns the name of the configuration source.
func (f *FileRepository) GetName() string {
	return f.Name
}

// Refresh reads the file and replaces the current document if it is valid.
func (f *FileRepository) Refresh() error {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		logrus.Debug("error reading file")
		return err
	}
	return f.store(data)
}

package source

import (
	"errors"
	"sync"

	"github.com/sardine-ai/go-watchface-config/schema"
	"github.com/sirupsen/logrus"
)

// ErrNotLoaded is returned when a repository has not completed a successful
// refresh yet.
var ErrNotLoaded = errors.New("schema not loaded")

// Repository is a source of a configuration schema document.
type Repository interface {
	GetName() string
	GetSchema() (doc schema.Document, isPresent bool)
	GetRawData() []byte
	Refresh() error
}

// snapshot holds the last document a repository loaded successfully.
type snapshot struct {
	sync.RWMutex                 // RWMutex to synchronize access to data during refresh
	doc          schema.Document // Last valid schema document
	rawData      []byte          // Raw data the document was decoded from
}

// GetSchema returns a copy of the current schema document.
func (s *snapshot) GetSchema() (doc schema.Document, isPresent bool) {
	s.RLock()
	defer s.RUnlock()
	if s.doc == nil {
		return nil, false
	}
	return s.doc.Clone(), true
}

// GetRawData returns the raw data of the current schema document.
func (s *snapshot) GetRawData() []byte {
	s.RLock()
	defer s.RUnlock()
	return s.rawData
}

// store decodes and validates data outside the lock and only swaps it in
// when it is valid, so a bad upload keeps the previous document in service.
func (s *snapshot) store(data []byte) error {
	doc, err := schema.Load(data)
	if err != nil {
		logrus.Debug("error loading schema")
		return err
	}

	s.Lock()
	s.doc = doc
	s.rawData = data
	s.Unlock()

	return nil
}

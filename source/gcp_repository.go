package source

import (
	"context"
	"io"
	"sync"

	"cloud.google.com/go/storage"
)

// GcpStorageRepository is a struct that implements the Repository interface for
// handling a schema document stored within a GCS bucket.
type GcpStorageRepository struct {
	snapshot
	Name          string          // Name of the configuration source
	BucketName    string          // Name of the GCS bucket
	ObjectName    string          // Name of the document within the GCS bucket
	Client        *storage.Client // GCS client instance
	clientOnce    sync.Once       // Ensures client is initialized only once
	clientInitErr error           // Stores error from client initialization
}

// GetName returns the name of the configuration source.
func (g *GcpStorageRepository) GetName() string {
	return g.Name
}

// Refresh reads the document from the GCS bucket and replaces the current
// document if it is valid.
func (g *GcpStorageRepository) Refresh() error {
	ctx := context.Background()

	// Thread-safe client initialization using sync.Once (only if client not pre-configured)
	g.clientOnce.Do(func() {
		if g.Client == nil {
			g.Client, g.clientInitErr = storage.NewClient(ctx)
		}
	})
	if g.clientInitErr != nil {
		return g.clientInitErr
	}

	reader, err := g.Client.Bucket(g.BucketName).Object(g.ObjectName).NewReader(ctx)
	if err != nil {
		return err
	}
	defer reader.Close()

	fileContent, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	return g.store(fileContent)
}

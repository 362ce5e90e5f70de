package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
)

// WebRepository is a struct that implements the Repository interface for
// handling a schema document fetched from a remote HTTP endpoint (web URL).
type WebRepository struct {
	snapshot
	Name   string       // Name of the configuration source
	URL    *url.URL     // URL representing the remote HTTP endpoint (web URL)
	APIKey string       // Optional API key for X-API-Key header authentication
	Client *http.Client // HTTP client; http.DefaultClient when nil
}

// NewWebRepository creates a WebRepository for the document at rawURL.
func NewWebRepository(name, rawURL string) (*WebRepository, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
	return &WebRepository{Name: name, URL: u}, nil
}

// GetName returns the name of the configuration source.
func (w *WebRepository) GetName() string {
	return w.Name
}

// Refresh fetches the document from the remote HTTP endpoint (web URL) and
// replaces the current document if it is valid.
func (w *WebRepository) Refresh() error {
	ctx := context.Background()

	// Create an HTTP request to fetch the document from the remote web URL.
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, w.URL.String(), nil)
	if err != nil {
		logrus.Debug("error creating request")
		return err
	}

	// Set X-API-Key header if API key is configured
	if w.APIKey != "" {
		request.Header.Set("X-API-Key", w.APIKey)
	}

	client := w.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(request)
	if err != nil {
		logrus.Debug("error doing request")
		return err
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logrus.WithError(err).Debug("error closing response body")
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("fetching %s: unexpected status %s", w.URL, resp.Status)
	}

	// Read the file content from the response body.
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logrus.Debug("error reading file")
		return err
	}

	return w.store(data)
}

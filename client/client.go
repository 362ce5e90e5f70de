package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sardine-ai/go-watchface-config/model"
	"github.com/sardine-ai/go-watchface-config/schema"
	"github.com/sardine-ai/go-watchface-config/settings"
	"github.com/sardine-ai/go-watchface-config/source"
	"github.com/sirupsen/logrus"
)

const minRefreshInterval = 5 * time.Second

// ErrNotFound is returned when the schema has no control for a message key.
var ErrNotFound = errors.New("message key not found")

type Client struct {
	Repository      source.Repository
	RefreshInterval time.Duration
	cancel          context.CancelFunc
}

// NewClient creates a new Client with the provided context, repository,
// and refresh interval. It refreshes the repository once, then starts a
// background goroutine that refreshes it periodically until Close is called.
func NewClient(ctx context.Context, repository source.Repository, refreshInterval time.Duration) *Client {
	if refreshInterval < minRefreshInterval {
		logrus.Warn("refresh interval too low, setting it to 5 seconds")
		refreshInterval = minRefreshInterval
	}
	ctx, cancel := context.WithCancel(ctx)

	client := &Client{
		Repository:      repository,
		RefreshInterval: refreshInterval,
		cancel:          cancel,
	}

	// Refresh the schema for the first time so the Client is usable
	// as soon as it is returned.
	err := client.Repository.Refresh()
	if err != nil {
		logrus.WithError(err).Error("error refreshing repository")
	}

	go refresh(ctx, client)

	return client
}

// refresh is a goroutine that periodically refreshes the schema from the
// repository. It stops refreshing when the given context is canceled.
func refresh(ctx context.Context, client *Client) {
	ticker := time.NewTicker(client.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			err := client.Repository.Refresh()
			if err != nil {
				logrus.WithError(err).Error("error refreshing repository")
			}
		case <-ctx.Done():
			return
		}
	}
}

// Close stops the background refresh goroutine of the Client.
func (c *Client) Close() {
	c.cancel()
}

// Schema returns the current schema document.
func (c *Client) Schema() (schema.Document, error) {
	doc, ok := c.Repository.GetSchema()
	if !ok {
		return nil, fmt.Errorf("repository %s: %w", c.Repository.GetName(), source.ErrNotLoaded)
	}
	return doc, nil
}

// Defaults returns the settings message of an untouched configuration page.
func (c *Client) Defaults() (settings.Message, error) {
	doc, err := c.Schema()
	if err != nil {
		return nil, err
	}
	return settings.Defaults(doc), nil
}

// Submit overlays the submitted values on the defaults.
func (c *Client) Submit(values map[string]string) (*settings.Submission, error) {
	doc, err := c.Schema()
	if err != nil {
		return nil, err
	}
	return settings.Submit(doc, values)
}

// Settings submits values and applies the result on top of the native
// watchface defaults, the way the device consumes the message.
func (c *Client) Settings(values map[string]string) (model.Settings, error) {
	doc, err := c.Schema()
	if err != nil {
		return model.Settings{}, err
	}
	sub, err := settings.Submit(doc, values)
	if err != nil {
		return model.Settings{}, err
	}
	dict, err := settings.Convert(doc, sub.Message)
	if err != nil {
		return model.Settings{}, err
	}
	s := model.DefaultSettings()
	settings.Apply(&s, dict)
	return s, nil
}

// GetColor returns the default of the color control bound to key.
func (c *Client) GetColor(key schema.MessageKey) (model.Color, error) {
	doc, err := c.Schema()
	if err != nil {
		return 0, err
	}
	field, ok := doc.Lookup(key)
	if !ok {
		return 0, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	color, ok := field.(schema.Color)
	if !ok {
		return 0, fmt.Errorf("%s is a %s control, not a color", key, field.Kind())
	}
	return color.ParseValue(color.Default)
}

// GetInt returns the default of the slider control bound to key.
func (c *Client) GetInt(key schema.MessageKey) (int, error) {
	doc, err := c.Schema()
	if err != nil {
		return 0, err
	}
	field, ok := doc.Lookup(key)
	if !ok {
		return 0, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	slider, ok := field.(schema.Slider)
	if !ok {
		return 0, fmt.Errorf("%s is a %s control, not a slider", key, field.Kind())
	}
	return slider.ParseValue(slider.Default)
}

// Package wordpress updates the content of a WordPress page through the REST API.
package wordpress

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/akablas/akalisten/internal/config"
	"github.com/akablas/akalisten/internal/restclient"
)

const (
	apiRoot        = "wp-json/wp/v2/"
	requestTimeout = 30 * time.Second
	requestRetries = 3
)

// StatusError is returned for non-2xx responses
type StatusError = restclient.StatusError

// DecodeError is returned when a response does not match the expected shape
type DecodeError = restclient.DecodeError

// Client is a WordPress REST client
type Client struct {
	rest *restclient.Client
}

// NewClient creates a WordPress client from config
func NewClient(cfg config.WordPressConfig) *Client {
	return &Client{
		rest: restclient.New(restclient.Options{
			BaseURL:  cfg.WordPressURL,
			Username: cfg.WordPressUser,
			Password: cfg.WordPressPassword,
			Timeout:  requestTimeout,
			Retries:  requestRetries,
			Logger:   slog.Default().With("component", "wordpress"),
		}),
	}
}

type page struct {
	ID      int `json:"id"`
	Content struct {
		Raw      string `json:"raw"`
		Rendered string `json:"rendered"`
	} `json:"content"`
}

// GetPageContent returns the raw content of a page
func (c *Client) GetPageContent(ctx context.Context, pageID int) (string, error) {
	var p page
	err := c.rest.GetJSON(ctx, fmt.Sprintf("%spages/%d", apiRoot, pageID), url.Values{"context": {"edit"}}, &p)
	if err != nil {
		return "", fmt.Errorf("failed to get page %d: %w", pageID, err)
	}
	return p.Content.Raw, nil
}

// UpdatePage overwrites the content of a page
func (c *Client) UpdatePage(ctx context.Context, pageID int, content string) error {
	body := map[string]string{"content": content}
	if err := c.rest.PostJSON(ctx, fmt.Sprintf("%spages/%d", apiRoot, pageID), body, &page{}); err != nil {
		return fmt.Errorf("failed to update page %d: %w", pageID, err)
	}
	return nil
}

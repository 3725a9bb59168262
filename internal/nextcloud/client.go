// Package nextcloud implements the read-only clients for the Polls, Circles
// and Forms apps of a Nextcloud instance.
package nextcloud

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/akablas/akalisten/internal/config"
	"github.com/akablas/akalisten/internal/restclient"
)

// API roots relative to the instance url
const (
	pollsRoot   = "index.php/apps/polls/api/v1.0/"
	circlesRoot = "ocs/v2.php/apps/circles/"
	formsRoot   = "ocs/v2.php/apps/forms/api/v3/"
)

// StatusError is returned for non-2xx responses
type StatusError = restclient.StatusError

// DecodeError is returned when a response does not match the expected shape
type DecodeError = restclient.DecodeError

// Client talks to one Nextcloud instance
type Client struct {
	baseURL string
	rest    *restclient.Client
}

// NewClient creates a Nextcloud client from config
func NewClient(cfg config.NextcloudConfig) *Client {
	return &Client{
		baseURL: cfg.NextcloudURL,
		rest: restclient.New(restclient.Options{
			BaseURL:   cfg.NextcloudURL,
			Username:  cfg.NextcloudUser,
			Password:  cfg.NextcloudPassword,
			Timeout:   cfg.NextcloudTimeout,
			Retries:   cfg.NextcloudRetries,
			RateLimit: cfg.NextcloudRPS,
			Headers:   map[string]string{"OCS-APIRequest": "true"},
			Logger:    slog.Default().With("component", "nextcloud"),
		}),
	}
}

// BaseURL returns the instance url without trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

type ocsMeta struct {
	Status     string `json:"status"`
	StatusCode int    `json:"statuscode"`
	Message    string `json:"message"`
}

type ocsEnvelope[T any] struct {
	OCS struct {
		Meta ocsMeta `json:"meta"`
		Data T       `json:"data"`
	} `json:"ocs"`
}

// getOCS fetches an OCS endpoint and unwraps the ocs.data envelope
func getOCS[T any](ctx context.Context, c *Client, endpoint string, query url.Values) (T, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("format", "json")

	var envelope ocsEnvelope[T]
	if err := c.rest.GetJSON(ctx, endpoint, query, &envelope); err != nil {
		var zero T
		return zero, err
	}
	return envelope.OCS.Data, nil
}

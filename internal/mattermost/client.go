package mattermost

import (
	"fmt"
	"log/slog"

	"github.com/mattermost/mattermost-server/v6/model"

	"github.com/akablas/akalisten/internal/config"
)

// MattermostAPI is the part of model.Client4 the client needs
type MattermostAPI interface {
	GetMe(etag string) (*model.User, *model.Response, error)
	CreatePost(post *model.Post) (*model.Post, *model.Response, error)
}

// Client posts messages as the bot user
type Client struct {
	client  MattermostAPI
	botUser *model.User
}

// NewClient creates a new client Mattermost
func NewClient(cfg config.MattermostConfig) (*Client, error) {
	apiClient := model.NewAPIv4Client(cfg.MattermostURL)
	apiClient.SetToken(cfg.MattermostToken)

	return newClient(apiClient)
}

func newClient(api MattermostAPI) (*Client, error) {
	botUser, _, err := api.GetMe("")
	if err != nil {
		return nil, fmt.Errorf("failed to get bot user: %w", err)
	}

	slog.Info("Connected as bot user", "username", botUser.Username)

	return &Client{
		client:  api,
		botUser: botUser,
	}, nil
}

// PostMessage posts message to the channel
func (c *Client) PostMessage(channelID, message string) error {
	post := &model.Post{
		UserId:    c.botUser.Id,
		ChannelId: channelID,
		Message:   message,
	}

	_, _, err := c.client.CreatePost(post)
	if err != nil {
		slog.Error("Failed to post message", "error", err)
		return err
	}

	return nil
}

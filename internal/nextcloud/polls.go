package nextcloud

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/akablas/akalisten/internal/model"
	"github.com/akablas/akalisten/internal/votes"
)

// GetPolls lists all polls visible to the user
func (c *Client) GetPolls(ctx context.Context) ([]model.Poll, error) {
	var resp struct {
		Polls []model.Poll `json:"polls"`
	}
	if err := c.rest.GetJSON(ctx, pollsRoot+"polls", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get polls: %w", err)
	}
	return resp.Polls, nil
}

// GetPoll returns a single poll
func (c *Client) GetPoll(ctx context.Context, pollID int) (model.Poll, error) {
	var poll model.Poll
	if err := c.rest.GetJSON(ctx, fmt.Sprintf("%spoll/%d", pollsRoot, pollID), nil, &poll); err != nil {
		return model.Poll{}, fmt.Errorf("failed to get poll %d: %w", pollID, err)
	}
	return poll, nil
}

// GetPollOptions returns the options of a poll in API order
func (c *Client) GetPollOptions(ctx context.Context, pollID int) ([]model.PollOption, error) {
	var resp struct {
		Options []model.PollOption `json:"options"`
	}
	if err := c.rest.GetJSON(ctx, fmt.Sprintf("%spoll/%d/options", pollsRoot, pollID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get options of poll %d: %w", pollID, err)
	}
	return resp.Options, nil
}

// GetPollVotes returns the votes of a poll
func (c *Client) GetPollVotes(ctx context.Context, pollID int) ([]model.PollVote, error) {
	var resp struct {
		Votes []model.PollVote `json:"votes"`
	}
	if err := c.rest.GetJSON(ctx, fmt.Sprintf("%spoll/%d/votes", pollsRoot, pollID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get votes of poll %d: %w", pollID, err)
	}
	return resp.Votes, nil
}

// GetPollShares returns the shares of a poll
func (c *Client) GetPollShares(ctx context.Context, pollID int) ([]model.PollShare, error) {
	var resp struct {
		Shares []model.PollShare `json:"shares"`
	}
	if err := c.rest.GetJSON(ctx, fmt.Sprintf("%spoll/%d/shares", pollsRoot, pollID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get shares of poll %d: %w", pollID, err)
	}
	return resp.Shares, nil
}

// GetPollInfos lists all polls wrapped for display
func (c *Client) GetPollInfos(ctx context.Context) ([]*model.PollInfo, error) {
	polls, err := c.GetPolls(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]*model.PollInfo, 0, len(polls))
	for _, p := range polls {
		infos = append(infos, model.NewPollInfo(p, c.baseURL))
	}
	return infos, nil
}

// AggregatePollVotes fetches options and votes of a poll and folds them into
// a PollVotes. Options are added before the votes so the display order is
// the API order.
func (c *Client) AggregatePollVotes(ctx context.Context, pollID int) (*votes.PollVotes, error) {
	options, err := c.GetPollOptions(ctx, pollID)
	if err != nil {
		return nil, err
	}
	pollVotes, err := c.GetPollVotes(ctx, pollID)
	if err != nil {
		return nil, err
	}

	pv := votes.NewPollVotes(pollID)
	for _, o := range options {
		pv.AddOption(o)
	}
	for _, v := range pollVotes {
		pv.AddVote(v)
	}

	slog.Debug("Aggregated poll votes", "poll_id", pollID, "options", len(options), "votes", len(pollVotes))
	return pv, nil
}

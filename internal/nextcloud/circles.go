package nextcloud

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/akablas/akalisten/internal/model"
)

// GetCircles lists the circles visible to the user
func (c *Client) GetCircles(ctx context.Context) ([]model.Circle, error) {
	circles, err := getOCS[[]model.Circle](ctx, c, circlesRoot+"circles", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get circles: %w", err)
	}
	return circles, nil
}

// GetCircle returns the details of a circle
func (c *Client) GetCircle(ctx context.Context, circleID string) (model.Circle, error) {
	circle, err := getOCS[model.Circle](ctx, c, circlesRoot+"circles/"+circleID, nil)
	if err != nil {
		return model.Circle{}, fmt.Errorf("failed to get circle %s: %w", circleID, err)
	}
	return circle, nil
}

// GetCircleMembers returns all members of a circle
func (c *Client) GetCircleMembers(ctx context.Context, circleID string) ([]model.CircleMember, error) {
	members, err := getOCS[[]model.CircleMember](ctx, c, circlesRoot+"circles/"+circleID+"/members", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get members of circle %s: %w", circleID, err)
	}
	return members, nil
}

// AggregateRegisters collects all register circles with their confirmed
// user members. Members are fetched concurrently; any failure aborts.
func (c *Client) AggregateRegisters(ctx context.Context) (model.Registers, error) {
	circles, err := c.GetCircles(ctx)
	if err != nil {
		return model.Registers{}, err
	}

	var registerCircles []model.Circle
	for _, circle := range circles {
		if strings.HasPrefix(circle.Name, model.RegisterPrefix) {
			registerCircles = append(registerCircles, circle)
		}
	}

	members := make([][]model.CircleMember, len(registerCircles))
	g, gctx := errgroup.WithContext(ctx)
	for i, circle := range registerCircles {
		i, circle := i, circle
		g.Go(func() error {
			m, err := c.GetCircleMembers(gctx, circle.ID)
			if err != nil {
				return err
			}
			members[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.Registers{}, err
	}

	registers := model.Registers{Registers: make([]model.RegisterCircle, 0, len(registerCircles))}
	for i, circle := range registerCircles {
		var users []model.User
		for _, m := range members[i] {
			if m.IsActiveUser() {
				users = append(users, m.AsUser())
			}
		}
		registers.Registers = append(registers.Registers, model.NewRegisterCircle(circle.Name, circle.ID, users))
	}

	slog.Info("Aggregated registers", "count", len(registers.Registers))
	return registers, nil
}

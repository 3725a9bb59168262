// Package service builds the report data: it crawls Nextcloud, reconciles
// the votes with the registers and reads the local display config.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/akablas/akalisten/internal/config"
	"github.com/akablas/akalisten/internal/db"
	"github.com/akablas/akalisten/internal/model"
	"github.com/akablas/akalisten/internal/notification"
	"github.com/akablas/akalisten/internal/votes"
)

// service errors
var (
	ErrNoData = errors.New("no report data")
)

// NextcloudAPI is the part of the Nextcloud client the crawl needs
type NextcloudAPI interface {
	AggregateRegisters(ctx context.Context) (model.Registers, error)
	GetPollInfos(ctx context.Context) ([]*model.PollInfo, error)
	AggregatePollVotes(ctx context.Context, pollID int) (*votes.PollVotes, error)
	GetPollShares(ctx context.Context, pollID int) ([]model.PollShare, error)
	GetAllForms(ctx context.Context) ([]model.FormInfo, error)
}

// Service represents service layer
type Service struct {
	nextcloud NextcloudAPI
	storage   db.Storage
	notifier  *notification.Notifier
	cfg       config.AppConfig
	loc       *time.Location
	now       func() time.Time
}

// NewService creates an instance of service. storage may be nil, in which
// case no debug snapshot is read or written.
func NewService(nextcloud NextcloudAPI, storage db.Storage, cfg config.AppConfig, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		nextcloud: nextcloud,
		storage:   storage,
		cfg:       cfg,
		loc:       loc,
		now:       time.Now,
	}
}

// SetNotifier sets the notifier used after a page was published
func (s *Service) SetNotifier(notifier *notification.Notifier) {
	s.notifier = notifier
}

// NotifyPublished posts a summary of the published report
func (s *Service) NotifyPublished(pageURL string, data *TemplateData) error {
	if data == nil {
		return ErrNoData
	}

	summary := notification.Summary{
		PageURL: pageURL,
		Polls:   len(data.Polls),
		Forms:   len(data.Forms),
	}
	for _, entry := range data.MuckenListen.Entries() {
		summary.MuckenListen = append(summary.MuckenListen, entry.Info.Title())
	}

	slog.Info("Notifying channel", "mucken_listen", len(summary.MuckenListen))
	return s.notifier.Notify(summary)
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/akablas/akalisten/internal/db"
	"github.com/akablas/akalisten/internal/model"
	"github.com/akablas/akalisten/internal/votes"
)

// BuildTemplateData collects the report data. In debug mode a stored
// snapshot is used instead of the live APIs when present, and a fresh crawl
// is stored as the new snapshot.
func (s *Service) BuildTemplateData(ctx context.Context) (*TemplateData, error) {
	var data *TemplateData

	if s.cfg.Debug && s.storage != nil {
		loaded, err := s.loadSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		data = loaded
	}

	if data == nil {
		crawled, err := s.crawl(ctx)
		if err != nil {
			return nil, err
		}
		data = crawled

		if s.cfg.Debug && s.storage != nil {
			if err := s.saveSnapshot(ctx, data); err != nil {
				return nil, err
			}
		}
	}

	if err := s.loadDisplayConfig(data); err != nil {
		return nil, err
	}
	data.UpdatedAt = s.now().In(s.loc)
	return data, nil
}

func (s *Service) loadSnapshot(ctx context.Context) (*TemplateData, error) {
	snapshot, err := s.storage.LoadSnapshot(ctx)
	if errors.Is(err, db.ErrNotFound) {
		slog.Info("No snapshot found, crawling live data")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var data TemplateData
	if err := json.Unmarshal(snapshot.Payload, &data); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	for _, pv := range data.MuckenListen.PollVotes {
		pv.SanitizeNos()
	}

	slog.Info("Using snapshot", "snapshot_id", snapshot.ID, "created_at", snapshot.CreatedAt)
	return &data, nil
}

func (s *Service) saveSnapshot(ctx context.Context, data *TemplateData) error {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	snapshot, err := s.storage.SaveSnapshot(ctx, payload)
	if err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	slog.Info("Snapshot stored", "snapshot_id", snapshot.ID)
	return nil
}

// crawl fetches everything from Nextcloud. Any failed request aborts the
// whole crawl.
func (s *Service) crawl(ctx context.Context) (*TemplateData, error) {
	now := s.now().In(s.loc)

	var (
		registers model.Registers
		polls     []*model.PollInfo
		forms     []model.FormInfo
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		registers, err = s.nextcloud.AggregateRegisters(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		polls, err = s.nextcloud.GetPollInfos(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		forms, err = s.nextcloud.GetAllForms(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to crawl nextcloud: %w", err)
	}

	var muckenListen, otherPolls []*model.PollInfo
	for _, p := range polls {
		switch {
		case p.IsActiveMuckenListe(now):
			muckenListen = append(muckenListen, p)
		case p.IsActivePoll():
			otherPolls = append(otherPolls, p)
		}
	}

	pollVotes := make([]*votes.PollVotes, len(muckenListen))
	shares := make([][]model.PollShare, len(otherPolls))

	g, gctx = errgroup.WithContext(ctx)
	for i, p := range muckenListen {
		i, p := i, p
		g.Go(func() error {
			pv, err := s.nextcloud.AggregatePollVotes(gctx, p.ID())
			if err != nil {
				return err
			}
			pollVotes[i] = pv
			return nil
		})
	}
	for i, p := range otherPolls {
		i, p := i, p
		g.Go(func() error {
			sh, err := s.nextcloud.GetPollShares(gctx, p.ID())
			if err != nil {
				return err
			}
			shares[i] = sh
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to crawl polls: %w", err)
	}

	data := &TemplateData{
		MuckenListen: MuckenListenData{
			Polls:     make(map[int]*model.PollInfo, len(muckenListen)),
			PollVotes: make(map[int]*votes.PollVotes, len(muckenListen)),
			Registers: registers,
		},
		Polls: otherPolls,
	}

	for i, p := range muckenListen {
		pv := pollVotes[i]
		pv.AddRegisterUsers(registers)
		pv.SanitizeNos()
		data.MuckenListen.Polls[p.ID()] = p
		data.MuckenListen.PollVotes[p.ID()] = pv
	}
	for i, p := range otherPolls {
		p.AddPublicShares(shares[i])
	}
	for _, f := range forms {
		if f.IsActivePublicForm(now) {
			data.Forms = append(data.Forms, f)
		}
	}

	slog.Info("Crawl finished",
		"mucken_listen", len(muckenListen),
		"polls", len(otherPolls),
		"forms", len(data.Forms),
		"registers", len(registers.Registers),
	)
	return data, nil
}

// loadDisplayConfig reads the links, lists and chat groups files
func (s *Service) loadDisplayConfig(data *TemplateData) error {
	now := s.now().In(s.loc)

	links, err := model.LoadLinks(s.cfg.LinksPath)
	if err != nil {
		return err
	}
	lists, err := model.LoadLists(s.cfg.ListsPath)
	if err != nil {
		return err
	}
	groups, err := model.LoadChatGroups(s.cfg.ChatGroupsPath)
	if err != nil {
		return err
	}

	data.Links = links
	data.Lists = model.ActiveLists(lists, now)
	data.ChatGroups = model.ActiveChatGroups(groups, now)
	return nil
}

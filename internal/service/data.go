package service

import (
	"sort"
	"time"

	"github.com/akablas/akalisten/internal/model"
	"github.com/akablas/akalisten/internal/votes"
)

// MuckenListenData holds the gig polls with their aggregated votes
type MuckenListenData struct {
	Polls     map[int]*model.PollInfo  `json:"polls"`
	PollVotes map[int]*votes.PollVotes `json:"poll_votes"`
	Registers model.Registers          `json:"registers"`
}

// MuckenListe is one gig poll ready for display
type MuckenListe struct {
	Info  *model.PollInfo
	Votes *votes.PollVotes
}

// Entries returns the gig polls ordered by event date, polls without date last
func (d MuckenListenData) Entries() []MuckenListe {
	entries := make([]MuckenListe, 0, len(d.Polls))
	for id, info := range d.Polls {
		pv, ok := d.PollVotes[id]
		if !ok {
			pv = votes.NewPollVotes(id)
			pv.SanitizeNos()
		}
		entries = append(entries, MuckenListe{Info: info, Votes: pv})
	}

	sort.Slice(entries, func(i, j int) bool {
		di, dj := entries[i].Info.EventInfo().Date, entries[j].Info.EventInfo().Date
		switch {
		case di != nil && dj != nil && !di.Equal(*dj):
			return di.Before(*dj)
		case di != nil && dj == nil:
			return true
		case di == nil && dj != nil:
			return false
		}
		return entries[i].Info.ID() < entries[j].Info.ID()
	})
	return entries
}

// TemplateData is everything the report page shows. It is also the format
// of the debug snapshot.
type TemplateData struct {
	MuckenListen MuckenListenData  `json:"mucken_listen"`
	Polls        []*model.PollInfo `json:"polls"`
	Forms        []model.FormInfo  `json:"forms"`
	Links        []model.Link      `json:"links"`
	Lists        []model.List      `json:"lists"`
	ChatGroups   []model.ChatGroup `json:"chat_groups"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

package model

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/akablas/akalisten/internal/eventinfo"
)

// MuckenListePrefix is the title prefix of gig polls
const MuckenListePrefix = "Muckenliste: "

// PollInfo wraps a poll for display. The event info is parsed from the
// description on first access and kept for the lifetime of the value.
type PollInfo struct {
	Poll         Poll     `json:"poll"`
	PublicTokens []string `json:"public_tokens,omitempty"`
	BaseURL      string   `json:"base_url"`

	eventInfo *eventinfo.Info
}

// NewPollInfo creates a PollInfo
func NewPollInfo(poll Poll, baseURL string) *PollInfo {
	return &PollInfo{Poll: poll, BaseURL: baseURL}
}

// ID returns the poll id
func (p *PollInfo) ID() int {
	return p.Poll.ID
}

// EventInfo returns the parsed "Infos" block of the description
func (p *PollInfo) EventInfo() eventinfo.Info {
	if p.eventInfo == nil {
		info := eventinfo.Parse(p.Poll.DescriptionSafe)
		p.eventInfo = &info
	}
	return *p.eventInfo
}

// Title returns the title without the gig poll prefix
func (p *PollInfo) Title() string {
	return strings.TrimPrefix(p.Poll.Configuration.Title, MuckenListePrefix)
}

// HTMLTitle returns the escaped Title
func (p *PollInfo) HTMLTitle() string {
	return html.EscapeString(p.Title())
}

// URL is the vote page for logged in users
func (p *PollInfo) URL() string {
	return fmt.Sprintf("%s/index.php/apps/polls/vote/%d", p.BaseURL, p.ID())
}

// PublicURLs are the vote pages of the public shares
func (p *PollInfo) PublicURLs() []string {
	urls := make([]string, 0, len(p.PublicTokens))
	for _, token := range p.PublicTokens {
		urls = append(urls, fmt.Sprintf("%s/index.php/apps/polls/s/%s", p.BaseURL, token))
	}
	return urls
}

// AddPublicShares records the tokens of all usable public shares
func (p *PollInfo) AddPublicShares(shares []PollShare) {
	for _, share := range shares {
		if share.Type != PollShareTypePublic || share.Deleted || share.Locked || share.Token == "" {
			continue
		}
		p.PublicTokens = append(p.PublicTokens, share.Token)
	}
}

// IsActiveMuckenListe reports whether the poll is a current gig poll: not
// deleted, not in the past, recognizable by title or description and not
// private.
func (p *PollInfo) IsActiveMuckenListe(today time.Time) bool {
	if p.Poll.Status.Deleted {
		return false
	}
	if date := p.EventInfo().Date; date != nil {
		y, m, d := today.Date()
		if date.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)) {
			return false
		}
	}

	title := strings.ToLower(p.Poll.Configuration.Title)
	description := strings.ToLower(p.Poll.DescriptionSafe)
	if !strings.Contains(title, "muckenliste") &&
		!strings.Contains(description, "mensa 2") &&
		!strings.Contains(description, "m2") &&
		!strings.Contains(description, "direkt") {
		return false
	}

	return p.Poll.Configuration.Access != "private"
}

// IsActivePoll reports whether the poll is open and visible to members
func (p *PollInfo) IsActivePoll() bool {
	if p.Poll.Status.Deleted || p.Poll.Status.Expired {
		return false
	}
	return p.Poll.Configuration.Access != "private"
}

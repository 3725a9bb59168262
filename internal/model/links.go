package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		l := sl.Current().Interface().(List)
		if l.BasicURL == "" && l.LoginURL == "" && !l.AvailableOffline {
			sl.ReportError(l.BasicURL, "BasicURL", "basic_url", "url_or_offline", "")
		}
	}, List{})
	return v
}

// Link is an additional link shown on the page
type Link struct {
	DisplayTitle string `json:"display_title" validate:"required"`
	BasicURL     string `json:"basic_url,omitempty" validate:"required_without=LoginURL,omitempty,url"`
	LoginURL     string `json:"login_url,omitempty" validate:"omitempty,url"`
	Icon         string `json:"icon,omitempty"`
	Description  string `json:"description,omitempty"`
}

// IconName returns the icon, defaulting to an external link icon
func (l Link) IconName() string {
	if l.Icon == "" {
		return "external-link"
	}
	return l.Icon
}

// HTMLTitle returns the escaped title
func (l Link) HTMLTitle() string {
	return html.EscapeString(l.DisplayTitle)
}

// HTMLDescription returns the escaped description
func (l Link) HTMLDescription() string {
	return html.EscapeString(l.Description)
}

// List is a sheet music list, either online or available offline
type List struct {
	ID               string     `json:"id" validate:"required"`
	DisplayTitle     string     `json:"display_title" validate:"required"`
	Description      string     `json:"description,omitempty"`
	AvailableOffline bool       `json:"available_offline"`
	BasicURL         string     `json:"basic_url,omitempty" validate:"omitempty,url"`
	LoginURL         string     `json:"login_url,omitempty" validate:"omitempty,url"`
	ExpireDate       *time.Time `json:"expire_date,omitempty"`
}

// HTMLTitle returns the escaped title
func (l List) HTMLTitle() string {
	return html.EscapeString(l.DisplayTitle)
}

// HTMLDescription returns the escaped description
func (l List) HTMLDescription() string {
	return html.EscapeString(l.Description)
}

// ChatGroup is a messenger group shown on the page
type ChatGroup struct {
	Title       string     `json:"title" validate:"required"`
	Sorting     int        `json:"sorting"`
	Description string     `json:"description,omitempty"`
	SignalURL   string     `json:"signal_url,omitempty" validate:"omitempty,url"`
	WhatsAppURL string     `json:"whatsapp_url,omitempty" validate:"omitempty,url"`
	ExpireDate  *time.Time `json:"expire_date,omitempty"`
}

// HTMLTitle returns the escaped title
func (g ChatGroup) HTMLTitle() string {
	return html.EscapeString(g.Title)
}

// HTMLDescription returns the escaped description
func (g ChatGroup) HTMLDescription() string {
	return html.EscapeString(g.Description)
}

// ActiveChatGroups returns the groups that have not expired, ordered by Sorting
func ActiveChatGroups(groups []ChatGroup, now time.Time) []ChatGroup {
	active := make([]ChatGroup, 0, len(groups))
	for _, g := range groups {
		if g.ExpireDate == nil || !g.ExpireDate.Before(now) {
			active = append(active, g)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Sorting < active[j].Sorting
	})
	return active
}

// ActiveLists returns the lists that have not expired
func ActiveLists(lists []List, now time.Time) []List {
	active := make([]List, 0, len(lists))
	for _, l := range lists {
		if l.ExpireDate == nil || !l.ExpireDate.Before(now) {
			active = append(active, l)
		}
	}
	return active
}

// LoadLinks reads and validates a links file. A missing file yields no links.
func LoadLinks(path string) ([]Link, error) {
	return loadValidated[Link](path)
}

// LoadLists reads and validates a lists file. A missing file yields no lists.
func LoadLists(path string) ([]List, error) {
	return loadValidated[List](path)
}

// LoadChatGroups reads and validates a chat groups file. A missing file yields no groups.
func LoadChatGroups(path string) ([]ChatGroup, error) {
	return loadValidated[ChatGroup](path)
}

func loadValidated[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	for i, item := range items {
		if err := validate.Struct(item); err != nil {
			return nil, fmt.Errorf("invalid entry %d in %s: %w", i, path, err)
		}
	}
	return items, nil
}

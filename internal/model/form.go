package model

import (
	"html"
	"time"
)

// Types of the Nextcloud Forms OCS API v3

// FormState is the state of a form
type FormState int

// form states
const (
	FormStateActive   FormState = 0
	FormStateClosed   FormState = 1
	FormStateArchived FormState = 2
)

// FormShareType is the kind of a form share
type FormShareType int

// share types
const (
	FormShareTypeUser  FormShareType = 0
	FormShareTypeGroup FormShareType = 1
	FormShareTypeLink  FormShareType = 3
)

// FormPermission is a permission the current user has on a form
type FormPermission string

// form permissions
const (
	FormPermissionEdit          FormPermission = "edit"
	FormPermissionResults       FormPermission = "results"
	FormPermissionResultsDelete FormPermission = "results_delete"
	FormPermissionSubmit        FormPermission = "submit"
	FormPermissionEmbed         FormPermission = "embed"
)

// FormAccess holds the access settings of a form
type FormAccess struct {
	PermitAllUsers bool `json:"permitAllUsers"`
	ShowToAllUsers bool `json:"showToAllUsers"`
}

// FormShare is a share of a form
type FormShare struct {
	ID          int           `json:"id"`
	FormID      int           `json:"formId"`
	ShareType   FormShareType `json:"shareType"`
	ShareWith   string        `json:"shareWith"`
	DisplayName string        `json:"displayName"`
}

// CondensedForm is a form as returned by the listing endpoints
type CondensedForm struct {
	ID          int              `json:"id"`
	Hash        string           `json:"hash"`
	Title       string           `json:"title"`
	Expires     Timestamp        `json:"expires"`
	Permissions []FormPermission `json:"permissions"`
	State       FormState        `json:"state"`
}

// FullForm is a form as returned by the detail endpoint
type FullForm struct {
	CondensedForm
	Description    string      `json:"description"`
	OwnerID        string      `json:"ownerId"`
	Created        Timestamp   `json:"created"`
	Access         *FormAccess `json:"access"`
	IsAnonymous    bool        `json:"isAnonymous"`
	SubmitMultiple bool        `json:"submitMultiple"`
	CanSubmit      bool        `json:"canSubmit"`
	Shares         []FormShare `json:"shares"`
}

// FormInfo wraps a form for display
type FormInfo struct {
	Form    FullForm `json:"form"`
	BaseURL string   `json:"base_url"`
}

// ID returns the form id
func (f FormInfo) ID() int {
	return f.Form.ID
}

// HTMLTitle returns the escaped title
func (f FormInfo) HTMLTitle() string {
	return html.EscapeString(f.Form.Title)
}

// HTMLDescription returns the escaped description
func (f FormInfo) HTMLDescription() string {
	return html.EscapeString(f.Form.Description)
}

// ExpireDate returns the expiry or nil for forms that never expire
func (f FormInfo) ExpireDate() *time.Time {
	if f.Form.Expires.IsZero() {
		return nil
	}
	t := f.Form.Expires.Time
	return &t
}

// PublicShareHash returns the hash of the first link share
func (f FormInfo) PublicShareHash() string {
	for _, share := range f.Form.Shares {
		if share.ShareType == FormShareTypeLink {
			return share.ShareWith
		}
	}
	return ""
}

// URL is the link for logged in users
func (f FormInfo) URL() string {
	return f.BaseURL + "/apps/forms/" + f.Form.Hash
}

// PublicURL is the link share url, empty without a link share
func (f FormInfo) PublicURL() string {
	hash := f.PublicShareHash()
	if hash == "" {
		return ""
	}
	return f.BaseURL + "/apps/forms/s/" + hash
}

// EmbedURL is the embeddable link share url, empty if embedding is not permitted
func (f FormInfo) EmbedURL() string {
	if !f.hasPermission(FormPermissionEmbed) {
		return ""
	}
	hash := f.PublicShareHash()
	if hash == "" {
		return ""
	}
	return f.BaseURL + "/apps/forms/embed/" + hash
}

func (f FormInfo) hasPermission(p FormPermission) bool {
	for _, perm := range f.Form.Permissions {
		if perm == p {
			return true
		}
	}
	return false
}

// IsActivePublicForm reports whether the form is open and visible to all
// members, either by access settings, a link share or a share with the
// "user" group.
func (f FormInfo) IsActivePublicForm(now time.Time) bool {
	if f.Form.State != FormStateActive {
		return false
	}
	if !f.Form.Expires.IsZero() && f.Form.Expires.Before(now) {
		return false
	}
	if f.Form.Access != nil && f.Form.Access.PermitAllUsers {
		return true
	}
	for _, share := range f.Form.Shares {
		if share.ShareType == FormShareTypeLink {
			return true
		}
		if share.ShareType == FormShareTypeGroup && share.ShareWith == "user" {
			return true
		}
	}
	return false
}

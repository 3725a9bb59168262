package model

import (
	"html"
	"sort"
	"strings"
)

// RegisterPrefix marks the circles that represent a register
const RegisterPrefix = "Register "

// registerByOption maps poll option texts to the suffix of the register
// circle name. An empty suffix means the option has no register.
var registerByOption = map[string]string{
	"Schlagzeug":      "Schlagwerk",
	"Flöte/Oboe":      "Flöte+Oboe",
	"Klarinette":      "Klarinette",
	"Altsaxophon":     "Saxophon",
	"Tenorsaxophon":   "Saxophon",
	"Ba(ri)ssklagott": "",
	"Trompete":        "Trompete+Flügelhorn",
	"Flügelhorn":      "Trompete+Flügelhorn",
	"Horn":            "Horn",
	"TenBarEuph":      "TenBarEuph",
	"Posaune":         "Posaune",
	"Tuba":            "Bass",
	"Gitarre":         "Bass",
}

// RegisterCircle is a register with its members, deduplicated by user id
type RegisterCircle struct {
	Name    string          `json:"name"`
	ID      string          `json:"id"`
	Members map[string]User `json:"members"`
}

// NewRegisterCircle creates a register from a member list
func NewRegisterCircle(name, id string, members []User) RegisterCircle {
	rc := RegisterCircle{Name: name, ID: id, Members: make(map[string]User, len(members))}
	for _, m := range members {
		rc.Members[m.ID] = m
	}
	return rc
}

// DisplayName strips the register prefix
func (r RegisterCircle) DisplayName() string {
	return strings.TrimPrefix(r.Name, RegisterPrefix)
}

// HTMLDisplayName returns the escaped DisplayName
func (r RegisterCircle) HTMLDisplayName() string {
	return html.EscapeString(r.DisplayName())
}

// SortedMembers returns the members ordered by display name
func (r RegisterCircle) SortedMembers() []User {
	users := make([]User, 0, len(r.Members))
	for _, u := range r.Members {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].DisplayName() < users[j].DisplayName()
	})
	return users
}

// Registers is the set of all register circles
type Registers struct {
	Registers []RegisterCircle `json:"registers"`
}

// GetFromName looks up the register for a poll option text. It returns
// false for options without a register and for registers that do not exist.
func (r Registers) GetFromName(optionText string) (RegisterCircle, bool) {
	suffix, ok := registerByOption[optionText]
	if !ok || suffix == "" {
		return RegisterCircle{}, false
	}
	for _, rc := range r.Registers {
		if strings.HasSuffix(rc.Name, suffix) {
			return rc, true
		}
	}
	return RegisterCircle{}, false
}

package model

import (
	"html"
	"regexp"
	"strings"
)

var parenthesizedSuffix = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// User is a Nextcloud account as seen by votes and circle memberships
type User struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// DisplayName shortens the name to the first name and the initials of all
// further name parts, e.g. "Anna Maria Schmidt" -> "Anna M.S.".
// A trailing "(Nickname)" is dropped before shortening.
func (u User) DisplayName() string {
	name := strings.TrimSpace(parenthesizedSuffix.ReplaceAllString(u.Name, ""))
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return name
	}

	var b strings.Builder
	b.WriteString(parts[0])
	b.WriteByte(' ')
	for _, part := range parts[1:] {
		r := []rune(part)
		b.WriteRune(r[0])
		b.WriteByte('.')
	}
	return b.String()
}

// HTMLDisplayName returns the html-escaped DisplayName
func (u User) HTMLDisplayName() string {
	return html.EscapeString(u.DisplayName())
}

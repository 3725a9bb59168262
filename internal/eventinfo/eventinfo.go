// Package eventinfo extracts the structured "Infos" block from the markdown
// description of a poll:
//
//	## Infos
//	* Datum: 10.05.2024
//	* Ort: Clubhaus
//	* M2: 18 Uhr
//	* Direkt: 18.30
//	* Start: 19h
//	* Ende: 22:00
//
// Everything that could not be interpreted stays in Info.Additional.
package eventinfo

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	headerPattern = regexp.MustCompile(`^#+\s*Infos\s*$`)
	bulletPattern = regexp.MustCompile(`^\*\s`)
	itemPattern   = regexp.MustCompile(`^\*\s+(?P<key>[^:]+):\s*(?P<value>.+?)\s*$`)
	fillerPattern = regexp.MustCompile(`(Uhr|ca\.|~)\s*`)
)

// clock layouts tried after the hour-only and hour.minute formats
var clockLayouts = []string{"15:04", "15:04:05", "15.04.05"}

// day-first date layouts tried before the generic parser
var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"2.1.2006",
	"02.01.06",
	"2.1.06",
	"02.01.2006 15:04",
	"2.1.2006 15:04",
}

// Info is the event information of a poll
type Info struct {
	Date        *time.Time `json:"date,omitempty"`
	Location    *string    `json:"location,omitempty"`
	TimeM2      *Clock     `json:"time_m2,omitempty"`
	TimeMeeting *Clock     `json:"time_meeting,omitempty"`
	TimeStart   *Clock     `json:"time_start,omitempty"`
	TimeEnd     *Clock     `json:"time_end,omitempty"`
	Additional  *string    `json:"additional,omitempty"`
}

// IsComplete reports whether all structured fields are set
func (i Info) IsComplete() bool {
	return i.Date != nil && i.Location != nil && i.TimeM2 != nil &&
		i.TimeMeeting != nil && i.TimeStart != nil && i.TimeEnd != nil
}

// HasAnyInfo reports whether at least one field carries information
func (i Info) HasAnyInfo() bool {
	return i.Date != nil || (i.Location != nil && *i.Location != "") ||
		i.TimeM2 != nil || i.TimeMeeting != nil || i.TimeStart != nil ||
		i.TimeEnd != nil || (i.Additional != nil && *i.Additional != "")
}

type category int

const (
	categoryNone category = iota
	categoryDate
	categoryLocation
	categoryM2
	categoryMeeting
	categoryStart
	categoryEnd
)

// classify maps a bullet key onto a category. The first matching category
// wins, so "Start bis Ende" is a start time.
func classify(key string) category {
	key = strings.ToLower(strings.TrimSpace(key))
	switch {
	case strings.Contains(key, "datum") || strings.Contains(key, "date"):
		return categoryDate
	case hasWord(key, "ort") || hasWord(key, "location"):
		return categoryLocation
	case strings.Contains(key, "m2") || strings.Contains(key, "mensa 2"):
		return categoryM2
	case strings.Contains(key, "direkt"):
		return categoryMeeting
	case strings.Contains(key, "start") || strings.Contains(key, "beginn") || strings.Contains(key, "erster ton"):
		return categoryStart
	case strings.Contains(key, "ende"):
		return categoryEnd
	}
	return categoryNone
}

func hasWord(s, word string) bool {
	for _, f := range strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > 127)
	}) {
		if f == word {
			return true
		}
	}
	return false
}

// Parse extracts the event information from a poll description
func Parse(text string) Info {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	header := -1
	for i, line := range lines {
		if headerPattern.MatchString(line) {
			header = i
			break
		}
	}
	if header < 0 {
		return Info{Additional: &text}
	}

	first := header + 1
	for first < len(lines) && strings.TrimSpace(lines[first]) == "" {
		first++
	}
	last := first
	for last < len(lines) && bulletPattern.MatchString(lines[last]) {
		last++
	}
	if first == last {
		return Info{Additional: &text}
	}

	var info Info
	remove := make(map[int]bool)
	for i := first; i < last; i++ {
		m := itemPattern.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		if info.apply(classify(m[1]), m[2]) {
			remove[i] = true
		}
	}

	if len(remove) == last-first {
		for i := header; i < first; i++ {
			remove[i] = true
		}
	}

	kept := make([]string, 0, len(lines)-len(remove))
	for i, line := range lines {
		if !remove[i] {
			kept = append(kept, line)
		}
	}
	if rest := strings.TrimSpace(strings.Join(kept, "\n")); rest != "" {
		info.Additional = &rest
	}
	return info
}

// apply stores value in the field of cat and reports whether it was usable
func (i *Info) apply(cat category, value string) bool {
	switch cat {
	case categoryLocation:
		loc := value
		i.Location = &loc
		return true
	case categoryDate:
		t, ok := parseDate(value)
		if !ok {
			return false
		}
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		i.Date = &d
		return true
	case categoryM2, categoryMeeting, categoryStart, categoryEnd:
		t, ok := parseDateOrTime(value)
		if !ok {
			return false
		}
		c := ClockOf(t)
		switch cat {
		case categoryM2:
			i.TimeM2 = &c
		case categoryMeeting:
			i.TimeMeeting = &c
		case categoryStart:
			i.TimeStart = &c
		default:
			i.TimeEnd = &c
		}
		return true
	}
	return false
}

// cleanValue drops the filler around times, e.g. "ca. 18 Uhr" or "19h"
func cleanValue(value string) string {
	s := strings.TrimSpace(fillerPattern.ReplaceAllString(value, ""))
	s = strings.TrimSuffix(s, "h")
	return strings.TrimSpace(s)
}

// parseDate prefers the date layouts so "10.05.24" is not read as a clock.
// Values that only parse as a time of day are rejected.
func parseDate(value string) (time.Time, bool) {
	s := cleanValue(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	t, ok := parseDateOrTime(value)
	if !ok || t.Year() == 0 {
		return time.Time{}, false
	}
	return t, true
}

// parseDateOrTime tries the hour-only format, then hour.minute, then the
// permissive layouts. Values parsed as a time of day have year 0.
func parseDateOrTime(value string) (time.Time, bool) {
	s := cleanValue(value)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("15", s); err == nil {
		return t, true
	}
	if t, err := time.Parse("15.04", s); err == nil {
		return t, true
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

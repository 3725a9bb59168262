// Package votes aggregates the raw votes of a poll per option and per user
// and reconciles them with the register memberships.
package votes

import (
	"errors"
	"html"
	"sort"

	"github.com/akablas/akalisten/internal/model"
)

// ErrNotSanitized is returned when the sanitized no votes are read before
// PollVotes.SanitizeNos was called.
var ErrNotSanitized = errors.New("no votes have not been sanitized yet")

// Answer is the answer of a vote
type Answer int

// answers
const (
	AnswerUnknown Answer = iota
	AnswerYes
	AnswerNo
	AnswerMaybe
)

// ParseAnswer maps the API answer string onto an Answer. Answers this
// program does not know are reported as AnswerUnknown.
func ParseAnswer(s string) Answer {
	switch s {
	case "yes":
		return AnswerYes
	case "no":
		return AnswerNo
	case "maybe":
		return AnswerMaybe
	default:
		return AnswerUnknown
	}
}

// String implements fmt.Stringer
func (a Answer) String() string {
	switch a {
	case AnswerYes:
		return "yes"
	case AnswerNo:
		return "no"
	case AnswerMaybe:
		return "maybe"
	default:
		return "unknown"
	}
}

// UserSet is a set of users keyed by user id
type UserSet map[string]model.User

// Add inserts u, replacing an entry with the same id
func (s UserSet) Add(u model.User) {
	s[u.ID] = u
}

// Has reports whether a user with id is in the set
func (s UserSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the users ordered by display name. With htmlEscape the
// escaped display name is used as the sort key.
func (s UserSet) Sorted(htmlEscape bool) []model.User {
	users := make([]model.User, 0, len(s))
	for _, u := range s {
		users = append(users, u)
	}
	key := model.User.DisplayName
	if htmlEscape {
		key = model.User.HTMLDisplayName
	}
	sort.SliceStable(users, func(i, j int) bool {
		ki, kj := key(users[i]), key(users[j])
		if ki != kj {
			return ki < kj
		}
		return users[i].ID < users[j].ID
	})
	return users
}

// OptionVotes are the votes on a single option
type OptionVotes struct {
	PollID   int
	ID       int
	Text     string
	Yes      UserSet
	No       UserSet
	Maybe    UserSet
	NotVoted UserSet

	sanitizedNo UserSet
}

func newOptionVotes(pollID, id int, text string) *OptionVotes {
	return &OptionVotes{
		PollID:   pollID,
		ID:       id,
		Text:     text,
		Yes:      UserSet{},
		No:       UserSet{},
		Maybe:    UserSet{},
		NotVoted: UserSet{},
	}
}

func (o *OptionVotes) addVote(user model.User, answer Answer) {
	delete(o.Yes, user.ID)
	delete(o.No, user.ID)
	delete(o.Maybe, user.ID)
	delete(o.NotVoted, user.ID)

	switch answer {
	case AnswerYes:
		o.Yes.Add(user)
	case AnswerNo:
		o.No.Add(user)
	case AnswerMaybe:
		o.Maybe.Add(user)
	}
}

// HasVoted reports whether the user cast any vote on the option
func (o *OptionVotes) HasVoted(id string) bool {
	return o.Yes.Has(id) || o.No.Has(id) || o.Maybe.Has(id)
}

// AddRegisterUsers adds all members that have not voted on the option to NotVoted
func (o *OptionVotes) AddRegisterUsers(members map[string]model.User) {
	for id, u := range members {
		if !o.HasVoted(id) {
			o.NotVoted.Add(u)
		}
	}
}

func (o *OptionVotes) sanitize(positive map[string]bool) {
	o.sanitizedNo = make(UserSet, len(o.No))
	for id, u := range o.No {
		if !positive[id] {
			o.sanitizedNo[id] = u
		}
	}
}

// SanitizedNo returns the no votes without the users that voted yes or maybe
// on any option of the poll.
func (o *OptionVotes) SanitizedNo() (UserSet, error) {
	if o.sanitizedNo == nil {
		return nil, ErrNotSanitized
	}
	return o.sanitizedNo, nil
}

// HTMLText returns the escaped option text
func (o *OptionVotes) HTMLText() string {
	return html.EscapeString(o.Text)
}

// MaxVotes is the size of the largest answer set
func (o *OptionVotes) MaxVotes() int {
	return max(len(o.Yes), len(o.No), len(o.Maybe))
}

// SanitizedMaxVotes is MaxVotes with the sanitized no set
func (o *OptionVotes) SanitizedMaxVotes() (int, error) {
	no, err := o.SanitizedNo()
	if err != nil {
		return 0, err
	}
	return max(len(o.Yes), len(no), len(o.Maybe)), nil
}

// SanitizedMaxVotesWithNotVoted also takes the NotVoted set into account
func (o *OptionVotes) SanitizedMaxVotesWithNotVoted() (int, error) {
	n, err := o.SanitizedMaxVotes()
	if err != nil {
		return 0, err
	}
	return max(n, len(o.NotVoted)), nil
}

// SortedYes returns the yes voters ordered by display name
func (o *OptionVotes) SortedYes(htmlEscape bool) []model.User {
	return o.Yes.Sorted(htmlEscape)
}

// SortedNo returns the no voters ordered by display name
func (o *OptionVotes) SortedNo(htmlEscape bool) []model.User {
	return o.No.Sorted(htmlEscape)
}

// SortedMaybe returns the maybe voters ordered by display name
func (o *OptionVotes) SortedMaybe(htmlEscape bool) []model.User {
	return o.Maybe.Sorted(htmlEscape)
}

// SortedNotVoted returns the register members without vote ordered by display name
func (o *OptionVotes) SortedNotVoted(htmlEscape bool) []model.User {
	return o.NotVoted.Sorted(htmlEscape)
}

// SortedSanitizedNo returns the sanitized no voters ordered by display name
func (o *OptionVotes) SortedSanitizedNo(htmlEscape bool) ([]model.User, error) {
	no, err := o.SanitizedNo()
	if err != nil {
		return nil, err
	}
	return no.Sorted(htmlEscape), nil
}

// UserAnswers are the option texts a user answered per answer kind
type UserAnswers struct {
	PollID int
	User   model.User
	Yes    map[string]bool
	No     map[string]bool
	Maybe  map[string]bool
}

func newUserAnswers(pollID int, user model.User) *UserAnswers {
	return &UserAnswers{
		PollID: pollID,
		User:   user,
		Yes:    map[string]bool{},
		No:     map[string]bool{},
		Maybe:  map[string]bool{},
	}
}

func (u *UserAnswers) addAnswer(optionText string, answer Answer) {
	delete(u.Yes, optionText)
	delete(u.No, optionText)
	delete(u.Maybe, optionText)

	switch answer {
	case AnswerYes:
		u.Yes[optionText] = true
	case AnswerNo:
		u.No[optionText] = true
	case AnswerMaybe:
		u.Maybe[optionText] = true
	}
}

// IsPositive reports whether the user voted yes or maybe on any option
func (u *UserAnswers) IsPositive() bool {
	return len(u.Yes) > 0 || len(u.Maybe) > 0
}

// PollVotes holds the aggregated votes of one poll. Options keep the order
// in which they were first added, which is the display order.
type PollVotes struct {
	PollID int

	options map[int]*OptionVotes
	order   []int
	users   map[string]*UserAnswers
}

// NewPollVotes creates an empty aggregation for a poll
func NewPollVotes(pollID int) *PollVotes {
	return &PollVotes{
		PollID:  pollID,
		options: map[int]*OptionVotes{},
		users:   map[string]*UserAnswers{},
	}
}

func (p *PollVotes) optionVotes(id int, text string) *OptionVotes {
	if o, ok := p.options[id]; ok {
		return o
	}
	o := newOptionVotes(p.PollID, id, text)
	p.options[id] = o
	p.order = append(p.order, id)
	return o
}

func (p *PollVotes) userAnswers(user model.User) *UserAnswers {
	if u, ok := p.users[user.ID]; ok {
		return u
	}
	u := newUserAnswers(p.PollID, user)
	p.users[user.ID] = u
	return u
}

// AddOption registers an option without votes. Call it for all options
// before adding votes so the display order follows the API order.
func (p *PollVotes) AddOption(option model.PollOption) {
	p.optionVotes(option.ID, option.Text)
}

// AddVote records a vote. Votes with an unknown answer are ignored.
func (p *PollVotes) AddVote(vote model.PollVote) {
	answer := ParseAnswer(vote.Answer)
	if answer == AnswerUnknown {
		return
	}

	user := model.User{Name: vote.User.DisplayName, ID: vote.User.ID}
	p.optionVotes(vote.OptionID, vote.OptionText).addVote(user, answer)
	p.userAnswers(user).addAnswer(vote.OptionText, answer)
}

// AddRegisterUsers adds the members of the register belonging to each
// option to the option's NotVoted set if they did not vote on it.
func (p *PollVotes) AddRegisterUsers(registers model.Registers) {
	for _, id := range p.order {
		o := p.options[id]
		register, ok := registers.GetFromName(o.Text)
		if !ok {
			continue
		}
		o.AddRegisterUsers(register.Members)
	}
}

// SanitizeNos computes the sanitized no votes of all options
func (p *PollVotes) SanitizeNos() {
	positive := make(map[string]bool, len(p.users))
	for id, u := range p.users {
		if u.IsPositive() {
			positive[id] = true
		}
	}
	for _, o := range p.options {
		o.sanitize(positive)
	}
}

// Options returns the options in display order
func (p *PollVotes) Options() []*OptionVotes {
	out := make([]*OptionVotes, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.options[id])
	}
	return out
}

// Option returns the votes of an option by id
func (p *PollVotes) Option(id int) (*OptionVotes, bool) {
	o, ok := p.options[id]
	return o, ok
}

// User returns the answers of a user by id
func (p *PollVotes) User(id string) (*UserAnswers, bool) {
	u, ok := p.users[id]
	return u, ok
}

// Users returns the answers of all users ordered by display name
func (p *PollVotes) Users() []*UserAnswers {
	out := make([]*UserAnswers, 0, len(p.users))
	for _, u := range p.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].User.DisplayName(), out[j].User.DisplayName()
		if di != dj {
			return di < dj
		}
		return out[i].User.ID < out[j].User.ID
	})
	return out
}

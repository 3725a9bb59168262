package votes

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/akablas/akalisten/internal/model"
)

// The snapshot encoding keeps the option order and stores sets as sorted
// lists. Sanitized no votes are derived state and are not encoded.

type optionVotesJSON struct {
	ID       int          `json:"id"`
	Text     string       `json:"text"`
	Yes      []model.User `json:"yes"`
	No       []model.User `json:"no"`
	Maybe    []model.User `json:"maybe"`
	NotVoted []model.User `json:"not_voted"`
}

type userAnswersJSON struct {
	User  model.User `json:"user"`
	Yes   []string   `json:"yes"`
	No    []string   `json:"no"`
	Maybe []string   `json:"maybe"`
}

type pollVotesJSON struct {
	PollID  int               `json:"poll_id"`
	Options []optionVotesJSON `json:"options"`
	Users   []userAnswersJSON `json:"users"`
}

// MarshalJSON implements json.Marshaler
func (p *PollVotes) MarshalJSON() ([]byte, error) {
	out := pollVotesJSON{
		PollID:  p.PollID,
		Options: make([]optionVotesJSON, 0, len(p.order)),
		Users:   make([]userAnswersJSON, 0, len(p.users)),
	}
	for _, o := range p.Options() {
		out.Options = append(out.Options, optionVotesJSON{
			ID:       o.ID,
			Text:     o.Text,
			Yes:      o.Yes.Sorted(false),
			No:       o.No.Sorted(false),
			Maybe:    o.Maybe.Sorted(false),
			NotVoted: o.NotVoted.Sorted(false),
		})
	}
	for _, u := range p.Users() {
		out.Users = append(out.Users, userAnswersJSON{
			User:  u.User,
			Yes:   sortedKeys(u.Yes),
			No:    sortedKeys(u.No),
			Maybe: sortedKeys(u.Maybe),
		})
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. SanitizeNos has to be called
// again after decoding.
func (p *PollVotes) UnmarshalJSON(data []byte) error {
	var in pollVotesJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*p = *NewPollVotes(in.PollID)
	for _, oj := range in.Options {
		if _, dup := p.options[oj.ID]; dup {
			return fmt.Errorf("duplicate option %d in poll %d", oj.ID, in.PollID)
		}
		o := p.optionVotes(oj.ID, oj.Text)
		fill(o.Yes, oj.Yes)
		fill(o.No, oj.No)
		fill(o.Maybe, oj.Maybe)
		fill(o.NotVoted, oj.NotVoted)
	}
	for _, uj := range in.Users {
		u := p.userAnswers(uj.User)
		for _, text := range uj.Yes {
			u.Yes[text] = true
		}
		for _, text := range uj.No {
			u.No[text] = true
		}
		for _, text := range uj.Maybe {
			u.Maybe[text] = true
		}
	}
	return nil
}

func fill(set UserSet, users []model.User) {
	for _, u := range users {
		set.Add(u)
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package model

// Types of the Nextcloud Polls API v1.0. Only the fields the report needs are
// decoded; unknown fields are ignored, type mismatches fail the decode.

// PollConfiguration is the editable part of a poll
type PollConfiguration struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Access      string    `json:"access"`
	AllowMaybe  bool      `json:"allowMaybe"`
	Anonymous   bool      `json:"anonymous"`
	Expire      Timestamp `json:"expire"`
	ShowResults string    `json:"showResults"`
}

// PollOwner is the owner of a poll
type PollOwner struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// PollStatus holds the lifecycle flags of a poll
type PollStatus struct {
	Created         Timestamp `json:"created"`
	LastInteraction Timestamp `json:"lastInteraction"`
	Deleted         bool      `json:"deleted"`
	Expired         bool      `json:"expired"`
}

// Poll is a single poll
type Poll struct {
	ID              int               `json:"id"`
	Type            string            `json:"type"`
	DescriptionSafe string            `json:"descriptionSafe"`
	Configuration   PollConfiguration `json:"configuration"`
	Owner           PollOwner         `json:"owner"`
	Status          PollStatus        `json:"status"`
}

// PollVoteUser is the user that cast a vote
type PollVoteUser struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Type        string `json:"type"`
	IsNoUser    bool   `json:"isNoUser"`
}

// PollVote is one answer of one user on one option
type PollVote struct {
	ID         int          `json:"id"`
	PollID     int          `json:"pollId"`
	OptionID   int          `json:"optionId"`
	OptionText string       `json:"optionText"`
	Answer     string       `json:"answer"`
	User       PollVoteUser `json:"user"`
}

// PollOptionVotes are the server side vote counters of an option
type PollOptionVotes struct {
	Count int `json:"count"`
	Yes   int `json:"yes"`
	No    int `json:"no"`
	Maybe int `json:"maybe"`
}

// PollOption is one answer line of a poll
type PollOption struct {
	ID      int             `json:"id"`
	PollID  int             `json:"pollId"`
	Text    string          `json:"text"`
	Order   int             `json:"order"`
	Hash    string          `json:"hash"`
	Locked  bool            `json:"locked"`
	Deleted int             `json:"deleted"`
	Votes   PollOptionVotes `json:"votes"`
}

// share types
const (
	PollShareTypePublic = "public"
)

// PollShare is a share of a poll
type PollShare struct {
	ID      int    `json:"id"`
	PollID  int    `json:"pollId"`
	Type    string `json:"type"`
	Token   string `json:"token"`
	Label   string `json:"label"`
	URL     string `json:"URL"`
	Locked  bool   `json:"locked"`
	Deleted bool   `json:"deleted"`
}

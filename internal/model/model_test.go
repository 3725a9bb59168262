package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Anna", "Anna"},
		{"Anna Schmidt", "Anna S."},
		{"First Last Middle", "First L.M."},
		{"Jonas Müller (Jo)", "Jonas M."},
		{"Öskar Ärmel", "Öskar Ä."},
		{"Ben <b>Bold</b>", "Ben <."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, User{Name: tt.name}.DisplayName())
		})
	}

	assert.Equal(t, "Ben &lt;.", User{Name: "Ben <b>Bold</b>"}.HTMLDisplayName())
}

func TestRegisters_GetFromName(t *testing.T) {
	registers := Registers{Registers: []RegisterCircle{
		NewRegisterCircle("Register Schlagwerk", "c1", nil),
		NewRegisterCircle("Register Bass", "c2", nil),
		NewRegisterCircle("Register Trompete+Flügelhorn", "c3", nil),
	}}

	tests := []struct {
		option string
		wantID string
		wantOK bool
	}{
		{"Schlagzeug", "c1", true},
		{"Tuba", "c2", true},
		{"Gitarre", "c2", true},
		{"Flügelhorn", "c3", true},
		{"Ba(ri)ssklagott", "", false},
		{"Horn", "", false},
		{"Dirigent", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.option, func(t *testing.T) {
			rc, ok := registers.GetFromName(tt.option)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, rc.ID)
		})
	}
}

func TestRegisterCircle_DeduplicatesMembers(t *testing.T) {
	rc := NewRegisterCircle("Register Horn", "c1", []User{
		{Name: "Bea Horn", ID: "bea"},
		{Name: "Anna Horn", ID: "anna"},
		{Name: "Bea H.", ID: "bea"},
	})

	assert.Len(t, rc.Members, 2)
	assert.Equal(t, "Horn", rc.DisplayName())
	members := rc.SortedMembers()
	require.Len(t, members, 2)
	assert.Equal(t, "anna", members[0].ID)
}

func TestCircleMember_AsUser(t *testing.T) {
	m := CircleMember{
		UserID:      "anna",
		DisplayName: "anna",
		UserType:    UserTypeUser,
		Status:      MemberStatusMember,
		BasedOn:     &BasedOn{DisplayName: "Anna Schmidt"},
	}

	assert.True(t, m.IsActiveUser())
	assert.Equal(t, User{Name: "Anna Schmidt", ID: "anna"}, m.AsUser())

	m.Status = MemberStatusInvited
	assert.False(t, m.IsActiveUser())
}

func TestTimestamp_Unmarshal(t *testing.T) {
	var v struct {
		A Timestamp `json:"a"`
		B Timestamp `json:"b"`
		C Timestamp `json:"c"`
		D Timestamp `json:"d"`
		E Timestamp `json:"e"`
	}
	data := `{"a": 1715335200, "b": 0, "c": "2024-05-10 10:00:00", "d": "", "e": null}`

	require.NoError(t, json.Unmarshal([]byte(data), &v))
	assert.Equal(t, int64(1715335200), v.A.Unix())
	assert.True(t, v.B.IsZero())
	assert.Equal(t, time.Date(2024, 5, 10, 10, 0, 0, 0, time.UTC), v.C.Time)
	assert.True(t, v.D.IsZero())
	assert.True(t, v.E.IsZero())

	out, err := json.Marshal(v.A)
	require.NoError(t, err)
	assert.Equal(t, "1715335200", string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"a": "next tuesday"}`), &v))
}

func TestPollInfo_IsActiveMuckenListe(t *testing.T) {
	today := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	base := Poll{
		ID:              3,
		DescriptionSafe: "## Infos\n* Datum: 10.05.2024\n* M2: 18",
		Configuration:   PollConfiguration{Title: "Muckenliste: Maifest", Access: "open"},
	}

	tests := []struct {
		name   string
		mutate func(p *Poll)
		want   bool
	}{
		{"active", func(p *Poll) {}, true},
		{"deleted", func(p *Poll) { p.Status.Deleted = true }, false},
		{"private", func(p *Poll) { p.Configuration.Access = "private" }, false},
		{"in the past", func(p *Poll) { p.DescriptionSafe = "## Infos\n* Datum: 10.04.2024" }, false},
		{"no gig markers", func(p *Poll) {
			p.Configuration.Title = "Sommerfest"
			p.DescriptionSafe = "Wer kommt?"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poll := base
			tt.mutate(&poll)
			assert.Equal(t, tt.want, NewPollInfo(poll, "https://cloud").IsActiveMuckenListe(today))
		})
	}
}

func TestPollInfo_EventInfoIsCached(t *testing.T) {
	p := NewPollInfo(Poll{DescriptionSafe: "## Infos\n* Ort: Clubhaus"}, "")

	first := p.EventInfo()
	p.Poll.DescriptionSafe = "## Infos\n* Ort: Mensa"
	second := p.EventInfo()

	require.NotNil(t, second.Location)
	assert.Equal(t, *first.Location, *second.Location)
	assert.Equal(t, "Clubhaus", *second.Location)
}

func TestPollInfo_URLs(t *testing.T) {
	p := NewPollInfo(Poll{ID: 12, Configuration: PollConfiguration{Title: "Muckenliste: A & B"}}, "https://cloud")
	p.AddPublicShares([]PollShare{
		{Type: "public", Token: "tok1"},
		{Type: "user", Token: "tok2"},
		{Type: "public", Token: "tok3", Deleted: true},
	})

	assert.Equal(t, "A &amp; B", p.HTMLTitle())
	assert.Equal(t, "https://cloud/index.php/apps/polls/vote/12", p.URL())
	assert.Equal(t, []string{"https://cloud/index.php/apps/polls/s/tok1"}, p.PublicURLs())
}

func TestFormInfo_IsActivePublicForm(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		form FullForm
		want bool
	}{
		{"closed", FullForm{CondensedForm: CondensedForm{State: FormStateClosed}}, false},
		{"expired", FullForm{
			CondensedForm: CondensedForm{Expires: NewTimestamp(now.Add(-time.Hour))},
			Access:        &FormAccess{PermitAllUsers: true},
		}, false},
		{"permit all users", FullForm{Access: &FormAccess{PermitAllUsers: true}}, true},
		{"link share", FullForm{Shares: []FormShare{{ShareType: FormShareTypeLink, ShareWith: "abc"}}}, true},
		{"user group share", FullForm{Shares: []FormShare{{ShareType: FormShareTypeGroup, ShareWith: "user"}}}, true},
		{"other group share", FullForm{Shares: []FormShare{{ShareType: FormShareTypeGroup, ShareWith: "admin"}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormInfo{Form: tt.form}.IsActivePublicForm(now))
		})
	}
}

func TestFormInfo_URLs(t *testing.T) {
	f := FormInfo{BaseURL: "https://cloud", Form: FullForm{
		CondensedForm: CondensedForm{Hash: "h1", Permissions: []FormPermission{FormPermissionSubmit}},
		Shares:        []FormShare{{ShareType: FormShareTypeLink, ShareWith: "pub"}},
	}}

	assert.Equal(t, "https://cloud/apps/forms/h1", f.URL())
	assert.Equal(t, "https://cloud/apps/forms/s/pub", f.PublicURL())
	assert.Empty(t, f.EmbedURL())

	f.Form.Permissions = append(f.Form.Permissions, FormPermissionEmbed)
	assert.Equal(t, "https://cloud/apps/forms/embed/pub", f.EmbedURL())
}

func TestLoadLinks(t *testing.T) {
	dir := t.TempDir()

	links, err := LoadLinks(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, links)

	valid := filepath.Join(dir, "links.json")
	require.NoError(t, os.WriteFile(valid, []byte(`[
		{"display_title": "Noten", "login_url": "https://cloud/noten"},
		{"display_title": "Kalender", "basic_url": "https://cloud/cal", "icon": "calendar"}
	]`), 0o600))
	links, err = LoadLinks(valid)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "external-link", links[0].IconName())
	assert.Equal(t, "calendar", links[1].IconName())

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`[{"display_title": "Nichts"}]`), 0o600))
	_, err = LoadLinks(invalid)
	assert.Error(t, err)
}

func TestLoadLists_OfflineWithoutURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lists.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id": "a", "display_title": "Mappe", "available_offline": true},
		{"id": "b", "display_title": "Online", "basic_url": "https://cloud/b"}
	]`), 0o600))

	lists, err := LoadLists(path)
	require.NoError(t, err)
	assert.Len(t, lists, 2)

	require.NoError(t, os.WriteFile(path, []byte(`[{"id": "c", "display_title": "Nirgends"}]`), 0o600))
	_, err = LoadLists(path)
	assert.Error(t, err)
}

func TestActiveChatGroups(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	groups := []ChatGroup{
		{Title: "B", Sorting: 2},
		{Title: "Old", Sorting: 0, ExpireDate: &past},
		{Title: "A", Sorting: 1},
	}

	active := ActiveChatGroups(groups, now)
	require.Len(t, active, 2)
	assert.Equal(t, "A", active[0].Title)
	assert.Equal(t, "B", active[1].Title)
}

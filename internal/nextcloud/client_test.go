package nextcloud

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akablas/akalisten/internal/config"
	"github.com/akablas/akalisten/internal/model"
)

func newTestClient(t *testing.T, routes map[string]string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/")
		if listType := r.URL.Query().Get("type"); listType != "" {
			key += "?type=" + listType
		}
		body, ok := routes[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if strings.HasPrefix(key, "ocs/") {
			assert.Equal(t, "true", r.Header.Get("OCS-APIRequest"))
			assert.Equal(t, "json", r.URL.Query().Get("format"))
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(config.NextcloudConfig{
		NextcloudURL:      srv.URL,
		NextcloudUser:     "user",
		NextcloudPassword: "pass",
	})
	return c
}

func ocs(data string) string {
	return fmt.Sprintf(`{"ocs":{"meta":{"status":"ok","statuscode":200,"message":"OK"},"data":%s}}`, data)
}

func TestClient_AggregatePollVotes(t *testing.T) {
	c := newTestClient(t, map[string]string{
		pollsRoot + "poll/3/options": `{"options":[
			{"id":1,"pollId":3,"text":"Trompete"},
			{"id":2,"pollId":3,"text":"Horn"},
			{"id":3,"pollId":3,"text":"Tuba"}]}`,
		pollsRoot + "poll/3/votes": `{"votes":[
			{"id":9,"pollId":3,"optionId":3,"optionText":"Tuba","answer":"yes","user":{"id":"u1","displayName":"Anna A"}},
			{"id":8,"pollId":3,"optionId":1,"optionText":"Trompete","answer":"no","user":{"id":"u2","displayName":"Ben B"}},
			{"id":7,"pollId":3,"optionId":2,"optionText":"Horn","answer":"veto","user":{"id":"u3","displayName":"Cem C"}}]}`,
	})

	pv, err := c.AggregatePollVotes(context.Background(), 3)
	require.NoError(t, err)

	var texts []string
	for _, o := range pv.Options() {
		texts = append(texts, o.Text)
	}
	assert.Equal(t, []string{"Trompete", "Horn", "Tuba"}, texts)

	tuba, ok := pv.Option(3)
	require.True(t, ok)
	assert.True(t, tuba.Yes.Has("u1"))
	horn, _ := pv.Option(2)
	assert.Empty(t, horn.Yes)
	assert.Empty(t, horn.No)
	assert.Empty(t, horn.Maybe)
}

func TestClient_GetPollInfos(t *testing.T) {
	c := newTestClient(t, map[string]string{
		pollsRoot + "polls": `{"polls":[{"id":4,"type":"textPoll","descriptionSafe":"d",
			"configuration":{"title":"Muckenliste: Park","access":"open","expire":0},
			"status":{"created":1700000000,"deleted":false,"expired":false}}]}`,
	})

	infos, err := c.GetPollInfos(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "Park", infos[0].Title())
	assert.Equal(t, c.BaseURL()+"/index.php/apps/polls/vote/4", infos[0].URL())
}

func TestClient_GetPollShares(t *testing.T) {
	c := newTestClient(t, map[string]string{
		pollsRoot + "poll/4/shares": `{"shares":[
			{"id":1,"pollId":4,"type":"public","token":"abc"},
			{"id":2,"pollId":4,"type":"user","token":"def"}]}`,
	})

	shares, err := c.GetPollShares(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, shares, 2)
	assert.Equal(t, model.PollShareTypePublic, shares[0].Type)
}

func TestClient_AggregateRegisters(t *testing.T) {
	c := newTestClient(t, map[string]string{
		circlesRoot + "circles": ocs(`[
			{"id":"c1","name":"Register Bass"},
			{"id":"c2","name":"Vorstand"},
			{"id":"c3","name":"Register Horn"}]`),
		circlesRoot + "circles/c1/members": ocs(`[
			{"id":"m1","userId":"u1","displayName":"x","userType":1,"status":"Member","basedOn":{"displayName":"Anna Alpha"}},
			{"id":"m2","userId":"u2","displayName":"Ben","userType":1,"status":"Invited"},
			{"id":"m3","userId":"g1","displayName":"Group","userType":2,"status":"Member"}]`),
		circlesRoot + "circles/c3/members": ocs(`[
			{"id":"m4","userId":"u4","displayName":"Dora Delta","userType":1,"status":"Member"}]`),
	})

	registers, err := c.AggregateRegisters(context.Background())
	require.NoError(t, err)
	require.Len(t, registers.Registers, 2)

	bass, ok := registers.GetFromName("Tuba")
	require.True(t, ok)
	assert.Equal(t, "c1", bass.ID)
	assert.Equal(t, map[string]model.User{"u1": {Name: "Anna Alpha", ID: "u1"}}, bass.Members)

	horn, ok := registers.GetFromName("Horn")
	require.True(t, ok)
	assert.Contains(t, horn.Members, "u4")
}

func TestClient_AggregateRegistersFailsOnMemberError(t *testing.T) {
	c := newTestClient(t, map[string]string{
		circlesRoot + "circles": ocs(`[{"id":"c1","name":"Register Bass"}]`),
	})

	_, err := c.AggregateRegisters(context.Background())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestClient_GetAllForms(t *testing.T) {
	c := newTestClient(t, map[string]string{
		formsRoot + "forms?type=shared": ocs(`[{"id":1,"hash":"h1","title":"A"}]`),
		formsRoot + "forms?type=owned":  ocs(`[{"id":2,"hash":"h2","title":"B"},{"id":1,"hash":"h1","title":"A"}]`),
		formsRoot + "forms/1":           ocs(`{"id":1,"hash":"h1","title":"A","expires":0,"state":0,"shares":[{"id":1,"formId":1,"shareType":3,"shareWith":"pub"}]}`),
		formsRoot + "forms/2":           ocs(`{"id":2,"hash":"h2","title":"B","expires":0,"state":1}`),
	})

	forms, err := c.GetAllForms(context.Background())
	require.NoError(t, err)
	require.Len(t, forms, 2)
	assert.Equal(t, 1, forms[0].ID())
	assert.Equal(t, c.BaseURL()+"/apps/forms/s/pub", forms[0].PublicURL())
	assert.Equal(t, 2, forms[1].ID())
}

func TestClient_DecodeErrorOnSchemaMismatch(t *testing.T) {
	c := newTestClient(t, map[string]string{
		pollsRoot + "polls": `{"polls":[{"id":"four"}]}`,
	})

	_, err := c.GetPolls(context.Background())

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, http.StatusOK, decodeErr.StatusCode)
}

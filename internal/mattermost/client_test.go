package mattermost

import (
	"errors"
	"testing"

	"github.com/mattermost/mattermost-server/v6/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	meErr   error
	postErr error
	posts   []*model.Post
}

func (f *fakeAPI) GetMe(etag string) (*model.User, *model.Response, error) {
	if f.meErr != nil {
		return nil, nil, f.meErr
	}
	return &model.User{Id: "bot", Username: "akalisten"}, &model.Response{}, nil
}

func (f *fakeAPI) CreatePost(post *model.Post) (*model.Post, *model.Response, error) {
	if f.postErr != nil {
		return nil, nil, f.postErr
	}
	f.posts = append(f.posts, post)
	return post, &model.Response{}, nil
}

func TestClient_PostMessage(t *testing.T) {
	api := &fakeAPI{}
	c, err := newClient(api)
	require.NoError(t, err)

	require.NoError(t, c.PostMessage("chan", "Listen aktualisiert"))

	require.Len(t, api.posts, 1)
	assert.Equal(t, "bot", api.posts[0].UserId)
	assert.Equal(t, "chan", api.posts[0].ChannelId)
	assert.Equal(t, "Listen aktualisiert", api.posts[0].Message)
}

func TestClient_PostMessageError(t *testing.T) {
	c, err := newClient(&fakeAPI{postErr: errors.New("forbidden")})
	require.NoError(t, err)

	assert.Error(t, c.PostMessage("chan", "x"))
}

func TestNewClient_GetMeError(t *testing.T) {
	_, err := newClient(&fakeAPI{meErr: errors.New("unauthorized")})
	assert.ErrorContains(t, err, "failed to get bot user")
}

package notification

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	channel string
	message string
	err     error
}

func (r *recorder) PostMessage(channelID, message string) error {
	r.channel = channelID
	r.message = message
	return r.err
}

func TestNotifier_Notify(t *testing.T) {
	r := &recorder{}
	n := NewNotifier(r, "town-square")

	err := n.Notify(Summary{
		PageURL:      "https://example.org/listen",
		MuckenListen: []string{"Park", "Sommerfest"},
		Polls:        2,
		Forms:        1,
	})

	require.NoError(t, err)
	assert.Equal(t, "town-square", r.channel)
	assert.Contains(t, r.message, "[Zur Übersicht](https://example.org/listen)")
	assert.Contains(t, r.message, "- Park\n- Sommerfest\n")
	assert.Contains(t, r.message, "Umfragen: 2 | Formulare: 1")
}

func TestNotifier_Disabled(t *testing.T) {
	var n *Notifier
	assert.NoError(t, n.Notify(Summary{}))
	assert.NoError(t, NewNotifier(nil, "x").Notify(Summary{}))
}

func TestNotifier_SendError(t *testing.T) {
	n := NewNotifier(&recorder{err: errors.New("down")}, "c")
	assert.ErrorContains(t, n.Notify(Summary{}), "failed to notify channel c")
}

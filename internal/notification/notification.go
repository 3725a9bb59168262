package notification

import (
	"fmt"
	"log/slog"
	"strings"
)

// MessageSender represents an interface for sending messages
type MessageSender interface {
	PostMessage(channelID, message string) error
}

// Summary describes a published report
type Summary struct {
	PageURL      string
	MuckenListen []string
	Polls        int
	Forms        int
}

// Message formats the summary as a markdown chat message
func (s Summary) Message() string {
	var b strings.Builder
	b.WriteString("#### Listen aktualisiert\n")
	if s.PageURL != "" {
		fmt.Fprintf(&b, "[Zur Übersicht](%s)\n", s.PageURL)
	}
	if len(s.MuckenListen) > 0 {
		b.WriteString("\n**Muckenlisten:**\n")
		for _, title := range s.MuckenListen {
			fmt.Fprintf(&b, "- %s\n", title)
		}
	}
	fmt.Fprintf(&b, "\nUmfragen: %d | Formulare: %d", s.Polls, s.Forms)
	return b.String()
}

// Notifier posts report summaries to one channel
type Notifier struct {
	sender    MessageSender
	channelID string
}

// NewNotifier creates a Notifier. A nil sender disables notifications.
func NewNotifier(sender MessageSender, channelID string) *Notifier {
	return &Notifier{sender: sender, channelID: channelID}
}

// Notify sends the summary if a sender is configured
func (n *Notifier) Notify(s Summary) error {
	if n == nil || n.sender == nil {
		slog.Warn("Notifier not configured, message not sent")
		return nil
	}

	if err := n.sender.PostMessage(n.channelID, s.Message()); err != nil {
		return fmt.Errorf("failed to notify channel %s: %w", n.channelID, err)
	}
	slog.Info("Notification sent", "channel_id", n.channelID)
	return nil
}

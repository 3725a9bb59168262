package wordpress

import (
	"context"
	"log/slog"
	"strings"
)

// PageAPI reads and writes page content
type PageAPI interface {
	GetPageContent(ctx context.Context, pageID int) (string, error)
	UpdatePage(ctx context.Context, pageID int, content string) error
}

// Publisher pushes rendered content to one page
type Publisher struct {
	pages  PageAPI
	pageID int
	marker string
}

// NewPublisher creates a publisher for pageID. Lines containing marker are
// ignored when comparing the current page with new content.
func NewPublisher(pages PageAPI, pageID int, marker string) *Publisher {
	return &Publisher{pages: pages, pageID: pageID, marker: marker}
}

// Publish updates the page unless its content only differs in the marked
// lines. It reports whether the page was written.
func (p *Publisher) Publish(ctx context.Context, content string) (bool, error) {
	current, err := p.pages.GetPageContent(ctx, p.pageID)
	if err != nil {
		return false, err
	}

	if p.normalize(current) == p.normalize(content) {
		slog.Info("Page content unchanged, skipping update", "page_id", p.pageID)
		return false, nil
	}

	if err := p.pages.UpdatePage(ctx, p.pageID, content); err != nil {
		return false, err
	}
	slog.Info("Page updated", "page_id", p.pageID, "bytes", len(content))
	return true, nil
}

func (p *Publisher) normalize(content string) string {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if p.marker != "" && strings.Contains(line, p.marker) {
			continue
		}
		kept = append(kept, strings.TrimRight(line, " \t"))
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

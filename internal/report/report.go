// Package report renders the report data into the HTML fragment that is
// written to disk and published to WordPress.
package report

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/akablas/akalisten/internal/eventinfo"
	"github.com/akablas/akalisten/internal/service"
)

// LastUpdatedMarker is contained in the only line of the output that
// changes on every run
const LastUpdatedMarker = `class="last-updated"`

//go:embed templates/*.tmpl
var templateFS embed.FS

var weekdays = [...]string{"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"}

// Renderer renders TemplateData
type Renderer struct {
	tmpl *template.Template
	md   goldmark.Markdown
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
		),
	}

	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"markdown":       r.markdown,
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"clock":          formatClock,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Render executes the page template
func (r *Renderer) Render(ctx context.Context, data *service.TemplateData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, service.ErrNoData
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "page", data); err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}

	slog.Info("Rendered report", "bytes", buf.Len())
	return buf.Bytes(), nil
}

// markdown converts poll descriptions. Raw HTML in the source is not passed through.
func (r *Renderer) markdown(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return weekdays[t.Weekday()] + ", " + t.Format("02.01.2006")
}

func formatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04:05")
}

func formatClock(c *eventinfo.Clock) string {
	if c == nil {
		return ""
	}
	return c.String() + " Uhr"
}

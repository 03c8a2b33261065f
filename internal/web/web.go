// Package web renders the HTML pages of the service.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/serroba/shortly/internal/shortener"
	"github.com/serroba/shortly/internal/stats"
	"github.com/serroba/shortly/internal/submission"
	"github.com/serroba/shortly/internal/token"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	PageIndex  = "index"
	PageThanks = "thanks"
	PageView   = "view"
	PageStats  = "stats"
)

// Page carries what the shared layout needs.
type Page struct {
	Title   string
	BaseURL string
}

// FormPage is the submission form. URL and Error are set when the form is
// shown again after a visible rejection.
type FormPage struct {
	Page
	Token         token.Token
	URL           string
	Error         string
	EmailSentinel string
}

// ViewPage describes one short link.
type ViewPage struct {
	Page
	Link     *shortener.ShortLink
	ShortURL string
}

// StatsPage is the daily counter table.
type StatsPage struct {
	Page
	Counters []stats.Counter
	Days     []stats.Day
}

// Renderer executes the embedded page templates.
type Renderer struct {
	pages   map[string]*template.Template
	baseURL string
}

// NewRenderer parses the embedded templates once per page.
func NewRenderer(baseURL string) (*Renderer, error) {
	pages := make(map[string]*template.Template)

	for _, name := range []string{PageIndex, PageThanks, PageView, PageStats} {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}

		pages[name] = tmpl
	}

	return &Renderer{pages: pages, baseURL: baseURL}, nil
}

func (r *Renderer) render(name string, data any) ([]byte, error) {
	tmpl, ok := r.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}

	return buf.Bytes(), nil
}

func (r *Renderer) page(title string) Page {
	return Page{Title: title, BaseURL: r.baseURL}
}

// Form renders the submission form with a fresh token.
func (r *Renderer) Form(tok token.Token, url, errMsg string) ([]byte, error) {
	return r.render(PageIndex, FormPage{
		Page:          r.page(""),
		Token:         tok,
		URL:           url,
		Error:         errMsg,
		EmailSentinel: submission.EmailSentinel,
	})
}

// Thanks renders the page shown for silently dropped submissions.
func (r *Renderer) Thanks() ([]byte, error) {
	return r.render(PageThanks, r.page("thanks"))
}

// View renders the info page of link.
func (r *Renderer) View(link *shortener.ShortLink) ([]byte, error) {
	return r.render(PageView, ViewPage{
		Page:     r.page(string(link.Code)),
		Link:     link,
		ShortURL: r.ShortURL(link.Code),
	})
}

// Stats renders the counter table for days, newest first.
func (r *Renderer) Stats(days []stats.Day) ([]byte, error) {
	return r.render(PageStats, StatsPage{
		Page:     r.page("stats"),
		Counters: stats.All,
		Days:     days,
	})
}

// ShortURL is the public address of code.
func (r *Renderer) ShortURL(code shortener.Code) string {
	return r.baseURL + "/" + string(code)
}

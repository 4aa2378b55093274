package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Render modes.
const (
	ModeClient = "client"
	ModeServer = "server"
)

// PageData feeds the today template.
type PageData struct {
	Mode string

	// Client mode
	AnonKey     string
	TasksURL    string
	CompleteURL string

	// Server mode
	Tasks      []TaskView
	CountLabel string
	Error      string
	FormAction string

	TypeBadges   map[string]string
	StatusBadges map[string]string
	DefaultBadge string
}

// Page renders the today dashboard.
type Page struct {
	tmpl *template.Template
}

// NewPage parses the embedded template.
func NewPage() (*Page, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/today.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}
	return &Page{tmpl: tmpl}, nil
}

// ClientData returns PageData for the script-driven page.
func ClientData(anonKey, tasksURL, completeURL string) PageData {
	return withBadges(PageData{
		Mode:        ModeClient,
		AnonKey:     anonKey,
		TasksURL:    tasksURL,
		CompleteURL: completeURL,
	})
}

// ServerData returns PageData for the server-rendered page. A non-empty
// errMessage selects the error state.
func ServerData(tasks []TaskView, errMessage, formAction string) PageData {
	return withBadges(PageData{
		Mode:       ModeServer,
		Tasks:      tasks,
		CountLabel: CountLabel(len(tasks)),
		Error:      errMessage,
		FormAction: formAction,
	})
}

func withBadges(d PageData) PageData {
	d.TypeBadges = TypeBadgeClasses
	d.StatusBadges = StatusBadgeClasses
	d.DefaultBadge = DefaultBadgeClass
	return d
}

// Render writes the page to w.
func (p *Page) Render(w io.Writer, data PageData) error {
	return p.tmpl.ExecuteTemplate(w, "today.html", data)
}

package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/chempath/chempath/internal/chem"
	"github.com/chempath/chempath/internal/errors"
	"github.com/chempath/chempath/internal/normalize"
)

// PageData is embedded by every page's template data.
type PageData struct {
	Title   string
	Version string
	Nav     string // active nav item: "home", "compounds", "paths", "about"
	Theme   string // "light" or "dark"
	Path    string // request path, used to return after a theme switch
}

// CompoundsPageData is the template data for the compound browser.
type CompoundsPageData struct {
	PageData
	Search     string
	Items      []chem.Compound
	Pagination normalize.Page
	Error      string
}

// PathLink is one entry of the path selector.
type PathLink struct {
	Index    int
	Steps    int
	Reagents []string
	Selected bool
	URL      string
}

// PathsPageData is the template data for the path finder.
type PathsPageData struct {
	PageData
	Options  []string
	Start    string
	End      string
	MaxSteps int
	Searched bool
	Links    []PathLink
	Selected *chem.PathInfo
	Error    string
}

// ContentPageData is the template data for static markdown pages.
type ContentPageData struct {
	PageData
	Body template.HTML
}

// ErrorPageData is the template data for the error and not-found pages.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	templates map[string]*template.Template
	version   string
	logger    *zap.Logger
}

// NewRenderer parses layout.html plus one file per page from templateFS.
// It panics on a bad template, which only happens at startup.
func NewRenderer(templateFS fs.FS, version string, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	funcMap := template.FuncMap{
		"add":   func(a, b int) int { return a + b },
		"sub":   func(a, b int) int { return a - b },
		"label": normalize.Label,
		"join":  strings.Join,
	}

	// Each page gets its own clone of the layout so "content" can be redefined.
	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"home":      "home.html",
		"compounds": "compounds.html",
		"paths":     "paths.html",
		"content":   "content.html",
		"notfound":  "notfound.html",
		"error":     "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
		logger:    logger,
	}
}

// page builds the common page fields for a request.
func (r *Renderer) page(req *http.Request, title, nav string) PageData {
	return PageData{
		Title:   title,
		Version: r.version,
		Nav:     nav,
		Theme:   themeFromRequest(req),
		Path:    req.URL.RequestURI(),
	}
}

// renderPage is renderPageStatus with 200.
func (r *Renderer) renderPage(w http.ResponseWriter, req *http.Request, name string, data any) {
	r.renderPageStatus(w, req, http.StatusOK, name, data)
}

// renderPageStatus renders page name with status.
// htmx requests get only the "content" block.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, req *http.Request, status int, name string, data any) {
	block := "layout"
	if req != nil && req.Header.Get("HX-Request") == "true" {
		block = "content"
	}
	r.renderBlock(w, status, name, block, data)
}

// renderBlock executes one block of a page into a buffer first, so a
// template failure never leaves a half-written response.
func (r *Renderer) renderBlock(w http.ResponseWriter, status int, page, block string, data any) {
	t, ok := r.templates[page]
	if !ok {
		r.logger.Error("template not found", zap.String("template", page))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, block, data); err != nil {
		r.logger.Error("template execution failed",
			zap.String("template", page),
			zap.String("block", block),
			zap.Error(err),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError writes err as an htmx fragment, JSON, or a full page,
// whichever the request asked for.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	cErr, ok := errors.As(err)
	if !ok {
		r.logger.Error("unclassified error", zap.Error(err))
		cErr = errors.NewInternal(err)
	}

	status := cErr.Status
	message := cErr.Message

	// htmx swaps the fragment in place
	if req.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprintf(w, `<div class="error-message">%s</div>`, template.HTMLEscapeString(message))
		return
	}

	if wantsJSON(req) {
		renderJSON(w, status, map[string]any{
			"error": map[string]any{
				"code":    string(cErr.Code),
				"message": message,
				"status":  status,
			},
		})
		return
	}

	data := ErrorPageData{
		PageData:   r.page(req, fmt.Sprintf("Error %d", status), ""),
		StatusCode: status,
		Message:    message,
	}
	r.renderPageStatus(w, req, status, "error", data)
}

// renderNotFound renders the not-found page.
func (r *Renderer) renderNotFound(w http.ResponseWriter, req *http.Request) {
	if wantsJSON(req) {
		renderJSON(w, http.StatusNotFound, map[string]any{
			"error": map[string]any{
				"code":    "NOT_FOUND",
				"message": "page not found",
				"status":  http.StatusNotFound,
			},
		})
		return
	}
	r.renderPageStatus(w, req, http.StatusNotFound, "notfound", ErrorPageData{
		PageData:   r.page(req, "Page not found", ""),
		StatusCode: http.StatusNotFound,
		Message:    "The page you are looking for does not exist.",
	})
}

func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func wantsJSON(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "application/json")
}

// renderMarkdown converts md with goldmark, falling back to escaped text.
func renderMarkdown(md []byte) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert(md, &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(string(md)))
	}
	return template.HTML(buf.String())
}

// userMessage picks the text shown inline for a failed query.
func userMessage(err error) string {
	if cErr, ok := errors.As(err); ok {
		return cErr.Message
	}
	return errors.MsgUpstream
}

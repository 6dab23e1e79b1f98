package web

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/chempath/chempath/internal/config"
	"github.com/chempath/chempath/internal/errors"
	"github.com/chempath/chempath/internal/ops"
)

const (
	themeCookie = "chempath_theme"
	themeLight  = "light"
	themeDark   = "dark"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	client   ops.Client
	cfg      *config.Config
	renderer *Renderer
	about    template.HTML
}

// HandleHome serves the landing page.
func (h *Handlers) HandleHome(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, r, "home", h.renderer.page(r, "ChemPath", "home"))
}

// HandleCompounds handles GET /compounds?search=&page=.
func (h *Handlers) HandleCompounds(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	data := CompoundsPageData{
		PageData: h.renderer.page(r, "Compounds", "compounds"),
		Search:   search,
	}

	status := http.StatusOK
	result, err := ops.ListCompounds(r.Context(), h.client, ops.ListCompoundsInput{
		Search:   search,
		Page:     parseIntParam(r, "page", 1),
		PageSize: h.cfg.PageSize,
	})
	if err != nil {
		if !errors.Is(err, errors.ErrNoResult) {
			status = errorStatus(err)
			data.Error = userMessage(err)
			h.renderer.logger.Warn("listing compounds failed", zap.String("search", search), zap.Error(err))
		}
	} else {
		data.Items = result.Items
		data.Pagination = result.Pagination
	}

	// If htmx targets #results, render only the results fragment
	if r.Header.Get("HX-Target") == "results" {
		h.renderer.renderBlock(w, status, "compounds", "compound-results", data)
		return
	}
	h.renderer.renderPageStatus(w, r, status, "compounds", data)
}

// HandlePaths renders the path finder form and, once start and end are
// given, its results.
func (h *Handlers) HandlePaths(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start := strings.TrimSpace(q.Get("start"))
	end := strings.TrimSpace(q.Get("end"))

	data := PathsPageData{
		PageData: h.renderer.page(r, "Path Finder", "paths"),
		Start:    start,
		End:      end,
		MaxSteps: parseIntParam(r, "max_steps", h.cfg.DefaultMaxSteps),
	}

	// Options are a convenience; the form still works without them.
	options, err := ops.CompoundOptions(r.Context(), h.client)
	if err != nil {
		h.renderer.logger.Warn("loading compound options failed", zap.Error(err))
	}
	data.Options = options

	if start == "" && end == "" {
		h.renderer.renderPage(w, r, "paths", data)
		return
	}
	if start == "" || end == "" {
		data.Error = "Select both a start and a target compound."
		h.renderer.renderPageStatus(w, r, http.StatusBadRequest, "paths", data)
		return
	}

	data.Searched = true
	result, err := ops.FindPaths(r.Context(), h.client, ops.FindPathsInput{
		Start:    start,
		End:      end,
		MaxSteps: data.MaxSteps,
	})
	if err != nil {
		data.Error = userMessage(err)
		h.renderer.logger.Info("path search failed",
			zap.String("start", start),
			zap.String("end", end),
			zap.Error(err),
		)
		h.renderer.renderPageStatus(w, r, errorStatus(err), "paths", data)
		return
	}
	data.MaxSteps = result.MaxSteps

	selected := parseIntParam(r, "path", 0)
	if selected < 0 || selected >= len(result.Paths) {
		selected = 0
	}
	for i, p := range result.Paths {
		data.Links = append(data.Links, PathLink{
			Index:    i,
			Steps:    p.TotalSteps,
			Reagents: p.Reagents,
			Selected: i == selected,
			URL:      pathURL(start, end, result.MaxSteps, i),
		})
	}
	if len(result.Paths) > 0 {
		data.Selected = &result.Paths[selected]
	}

	h.renderer.renderPage(w, r, "paths", data)
}

// HandleAbout handles GET /about.
func (h *Handlers) HandleAbout(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, r, "content", ContentPageData{
		PageData: h.renderer.page(r, "About", "about"),
		Body:     h.about,
	})
}

// HandleTheme handles POST /theme.
// An explicit theme value wins; otherwise the current theme is toggled.
func (h *Handlers) HandleTheme(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	theme := r.FormValue("theme")
	switch theme {
	case themeLight, themeDark:
	case "":
		theme = themeDark
		if themeFromRequest(r) == themeDark {
			theme = themeLight
		}
	default:
		h.renderer.renderError(w, r, errors.NewInvalidRequest("theme must be \"light\" or \"dark\""))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     themeCookie,
		Value:    theme,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, map[string]any{"theme": theme})
		return
	}
	http.Redirect(w, r, safeReturn(r.FormValue("return")), http.StatusSeeOther)
}

// HandleNotFound renders the not-found page for any unmatched route.
func (h *Handlers) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderNotFound(w, r)
}

// themeFromRequest reads the theme cookie, defaulting to light.
func themeFromRequest(r *http.Request) string {
	if c, err := r.Cookie(themeCookie); err == nil && c.Value == themeDark {
		return themeDark
	}
	return themeLight
}

// safeReturn allows only local paths as redirect targets.
func safeReturn(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}

func pathURL(start, end string, maxSteps, index int) string {
	v := url.Values{}
	v.Set("start", start)
	v.Set("end", end)
	v.Set("max_steps", strconv.Itoa(maxSteps))
	v.Set("path", strconv.Itoa(index))
	return "/paths?" + v.Encode()
}

func errorStatus(err error) int {
	if cErr, ok := errors.As(err); ok {
		return cErr.Status
	}
	return http.StatusInternalServerError
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

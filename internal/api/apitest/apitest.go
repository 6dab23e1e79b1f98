// Package apitest provides an in-process fake of the compound/pathway
// service for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/chempath/chempath/internal/api"
)

// Service is a fake upstream backed by in-memory fixtures.
type Service struct {
	mu        sync.Mutex
	compounds []api.RawCompound
	paths     map[string][]api.RawPath
	reactions []api.NewReaction
	failWith  int
	before    func(r *http.Request)
	requests  []string

	server *httptest.Server
}

// NewServer starts a fake service seeded with Fixtures. It is closed when
// the test ends.
func NewServer(t testing.TB) *Service {
	t.Helper()
	s := &Service{paths: make(map[string][]api.RawPath)}
	s.compounds = append(s.compounds, Fixtures()...)
	s.SetPaths("CH3CH2OH", "CH3COOH", EthanolToAceticAcid()...)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /compounds/{$}", s.handleList)
	mux.HandleFunc("POST /compounds/{$}", s.handleCreateCompound)
	mux.HandleFunc("GET /compounds/suggestions/{$}", s.handleSuggestions)
	mux.HandleFunc("GET /compounds/{formula}", s.handleGet)
	mux.HandleFunc("GET /paths/{$}", s.handlePaths)
	mux.HandleFunc("POST /reactions/{$}", s.handleCreateReaction)

	s.server = httptest.NewServer(s.wrap(mux))
	t.Cleanup(s.server.Close)
	return s
}

// URL returns the base URL of the fake service.
func (s *Service) URL() string { return s.server.URL }

// Client returns an api.Client pointed at the fake service.
func (s *Service) Client() *api.Client {
	return api.New(api.Config{BaseURL: s.server.URL})
}

// FailWith makes every subsequent request return status. 0 restores normal
// behavior.
func (s *Service) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = status
}

// Before installs a hook run at the start of every request, outside the
// service lock. Tests use it to hold or reorder responses.
func (s *Service) Before(fn func(r *http.Request)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.before = fn
}

// SetPaths replaces the path records returned for start → end.
func (s *Service) SetPaths(start, end string, paths ...api.RawPath) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths[pathKey(start, end)] = paths
}

// SetCompounds replaces the compound fixtures.
func (s *Service) SetCompounds(cs ...api.RawCompound) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.compounds = append([]api.RawCompound(nil), cs...)
}

// Reactions returns the reactions created so far.
func (s *Service) Reactions() []api.NewReaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.NewReaction(nil), s.reactions...)
}

// Requests returns "METHOD /path?query" for every request received.
func (s *Service) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *Service) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.RequestURI())
		before, failWith := s.before, s.failWith
		s.mu.Unlock()

		if before != nil {
			before(r)
		}
		if failWith != 0 {
			writeJSON(w, failWith, map[string]string{"detail": http.StatusText(failWith)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
}

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	search := strings.ToLower(r.URL.Query().Get("search"))
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []api.RawCompound{}
	for _, c := range s.compounds {
		if search == "" || strings.Contains(strings.ToLower(c.Formula), search) ||
			strings.Contains(strings.ToLower(deref(c.Name)), search) {
			out = append(out, c)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	prefix := strings.ToLower(r.URL.Query().Get("prefix"))
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []api.RawCompound{}
	for _, c := range s.compounds {
		if len(out) == limit {
			break
		}
		if strings.HasPrefix(strings.ToLower(c.Formula), prefix) ||
			strings.HasPrefix(strings.ToLower(deref(c.Name)), prefix) {
			out = append(out, c)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleGet(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(r.PathValue("formula"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Compound not found"})
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Service) handlePaths(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end := q.Get("start"), q.Get("end")
	if start == "" || end == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "start and end are required"})
		return
	}
	if _, ok := s.lookup(start); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Start compound not found"})
		return
	}
	if _, ok := s.lookup(end); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "End compound not found"})
		return
	}

	s.mu.Lock()
	paths := s.paths[pathKey(start, end)]
	s.mu.Unlock()

	maxSteps, err := strconv.Atoi(q.Get("max_steps"))
	if err != nil || maxSteps <= 0 {
		maxSteps = 5
	}
	out := []api.RawPath{}
	for _, p := range paths {
		if len(p.Reactions) <= maxSteps {
			out = append(out, p)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleCreateCompound(w http.ResponseWriter, r *http.Request) {
	var in api.NewCompound
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Formula == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid compound"})
		return
	}
	if _, ok := s.lookup(in.Formula); ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Compound already exists"})
		return
	}
	c := api.RawCompound{
		Formula:         in.Formula,
		Name:            in.Name,
		MolecularWeight: in.MolecularWeight,
		State:           in.State,
		Class:           in.Class,
	}
	s.mu.Lock()
	s.compounds = append(s.compounds, c)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, c)
}

func (s *Service) handleCreateReaction(w http.ResponseWriter, r *http.Request) {
	var in api.NewReaction
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Reactant == "" || in.Product == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid reaction"})
		return
	}
	s.mu.Lock()
	s.reactions = append(s.reactions, in)
	id := fmt.Sprintf("rxn-%d", len(s.reactions))
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, id)
}

func (s *Service) lookup(formula string) (api.RawCompound, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.compounds {
		if strings.EqualFold(c.Formula, formula) {
			return c, true
		}
	}
	return api.RawCompound{}, false
}

func pathKey(start, end string) string {
	return strings.ToUpper(start) + ">" + strings.ToUpper(end)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

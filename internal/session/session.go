// Package session holds the current query results for a long-lived
// interactive caller. Every query is stamped with a ticket; only the result
// of the newest ticket for a slot is kept, so a slow response can never
// overwrite a fresher one.
package session

import (
	"context"
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/chempath/chempath/internal/chem"
	"github.com/chempath/chempath/internal/errors"
	"github.com/chempath/chempath/internal/normalize"
	"github.com/chempath/chempath/internal/ops"
)

// Slot names an independent query result.
type Slot string

const (
	SlotCompounds Slot = "compounds"
	SlotPaths     Slot = "paths"
)

// Session is safe for concurrent use.
type Session struct {
	client   ops.Client
	pageSize int
	logger   *zap.Logger

	mu        sync.Mutex
	entropy   *ulid.MonotonicEntropy
	latest    map[Slot]ulid.ULID
	compounds *compoundState
	paths     *pathState
}

type compoundState struct {
	ticket ulid.ULID
	search string
	all    []chem.Compound
	page   int
}

type pathState struct {
	ticket   ulid.ULID
	result   *ops.FindPathsOutput
	selected int
}

// New creates an empty session. pageSize <= 0 uses the default of 12.
func New(client ops.Client, pageSize int, logger *zap.Logger) *Session {
	if pageSize <= 0 {
		pageSize = normalize.DefaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		client:   client,
		pageSize: pageSize,
		logger:   logger,
		entropy:  ulid.Monotonic(rand.Reader, 0),
		latest:   make(map[Slot]ulid.ULID),
	}
}

// Issue stamps a new query for slot. Any query issued earlier for the same
// slot is superseded from this point on.
func (s *Session) Issue(slot Slot) ulid.ULID {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy)
	s.latest[slot] = t
	return t
}

// current reports whether t is still the newest ticket for slot.
// Caller must hold s.mu.
func (s *Session) current(slot Slot, t ulid.ULID) bool {
	return s.latest[slot] == t
}

func (s *Session) superseded(slot Slot, t ulid.ULID) error {
	s.logger.Debug("discarding superseded result",
		zap.String("slot", string(slot)),
		zap.String("ticket", t.String()),
	)
	return errors.NewSuperseded(t.String())
}

// CompoundPage is one page of the current compound result.
type CompoundPage struct {
	Ticket     string          `json:"ticket"`
	Search     string          `json:"search"`
	Items      []chem.Compound `json:"items"`
	Pagination normalize.Page  `json:"pagination"`
}

// SearchCompounds runs a compound search and makes it the current result,
// positioned at page. A changed search term always starts again at page 1;
// repeating the held term honors page. page < 1 means page 1.
func (s *Session) SearchCompounds(ctx context.Context, search string, page int) (*CompoundPage, error) {
	search = strings.TrimSpace(search)
	t := s.Issue(SlotCompounds)

	all, err := ops.SearchCompounds(ctx, s.client, search)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(SlotCompounds, t) {
		return nil, s.superseded(SlotCompounds, t)
	}
	if err != nil {
		s.compounds = nil
		return nil, err
	}

	prevSearch := search
	if s.compounds != nil {
		prevSearch = s.compounds.search
	}
	s.compounds = &compoundState{
		ticket: t,
		search: search,
		all:    all,
		page:   normalize.ResetPage(prevSearch, search, page),
	}
	return s.compoundPage(), nil
}

// GotoPage moves the current compound result to page and returns it
// without contacting the service.
func (s *Session) GotoPage(page int) (*CompoundPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.compounds == nil {
		return nil, errors.NewInvalidRequest("no compound search has been run")
	}
	if page < 1 {
		page = 1
	}
	s.compounds.page = page
	return s.compoundPage(), nil
}

// Caller must hold s.mu.
func (s *Session) compoundPage() *CompoundPage {
	st := s.compounds
	items, page := normalize.Paginate(st.all, st.page, s.pageSize)
	return &CompoundPage{
		Ticket:     st.ticket.String(),
		Search:     st.search,
		Items:      items,
		Pagination: page,
	}
}

// PathResult is the current path-finding result with its selection.
type PathResult struct {
	Ticket   string          `json:"ticket"`
	Start    string          `json:"start"`
	End      string          `json:"end"`
	MaxSteps int             `json:"max_steps"`
	Paths    []chem.PathInfo `json:"paths"`
	Selected int             `json:"selected"` // -1 when there are no paths
}

// FindPaths runs a path query and makes it the current result, selecting
// the first path.
func (s *Session) FindPaths(ctx context.Context, input ops.FindPathsInput) (*PathResult, error) {
	t := s.Issue(SlotPaths)

	out, err := ops.FindPaths(ctx, s.client, input)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(SlotPaths, t) {
		return nil, s.superseded(SlotPaths, t)
	}
	if err != nil {
		s.paths = nil
		return nil, err
	}

	selected := -1
	if len(out.Paths) > 0 {
		selected = 0
	}
	s.paths = &pathState{ticket: t, result: out, selected: selected}
	return s.pathResult(), nil
}

// SelectPath makes the path at index (0-based) the selected one.
func (s *Session) SelectPath(index int) (*chem.PathInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paths == nil {
		return nil, errors.NewInvalidRequest("no path search has been run")
	}
	n := len(s.paths.result.Paths)
	if index < 0 || index >= n {
		return nil, errors.NewInvalidRequest("path index out of range")
	}
	s.paths.selected = index
	p := s.paths.result.Paths[index]
	return &p, nil
}

// Paths returns the current path result, or nil if none is held.
func (s *Session) Paths() *PathResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paths == nil {
		return nil
	}
	return s.pathResult()
}

// Caller must hold s.mu.
func (s *Session) pathResult() *PathResult {
	out := s.paths.result
	return &PathResult{
		Ticket:   s.paths.ticket.String(),
		Start:    out.Start,
		End:      out.End,
		MaxSteps: out.MaxSteps,
		Paths:    out.Paths,
		Selected: s.paths.selected,
	}
}

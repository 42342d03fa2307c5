// Package tools implements the bookmark tools exposed over MCP: their
// definitions, argument checking and handlers.
package tools

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-faster/errors"

	"otter/server/internal/bookmark"
	"otter/server/internal/scraper"
	"otter/server/internal/tagmatch"
)

// =============================================================================
// Tool identifiers
// =============================================================================

// Name identifies one of the registered tools.
type Name string

const (
	SearchBookmarks Name = "search_bookmarks"
	ListBookmarks   Name = "list_bookmarks"
	ListTags        Name = "list_tags"
	GetStats        Name = "get_stats"
	RandomBookmark  Name = "random_bookmark"
	CreateBookmark  Name = "create_bookmark"
	UpdateBookmark  Name = "update_bookmark"
	DeleteBookmark  Name = "delete_bookmark"
)

// Names lists every tool in the order tools/list reports them.
var Names = []Name{
	SearchBookmarks,
	ListBookmarks,
	ListTags,
	GetStats,
	RandomBookmark,
	CreateBookmark,
	UpdateBookmark,
	DeleteBookmark,
}

// =============================================================================
// Handlers and dependencies
// =============================================================================

// CallContext carries the authenticated caller into a handler.
type CallContext struct {
	Store  bookmark.Store
	UserID string
}

// Handler runs one tool. Known failures are reported as an ErrorResult; a
// returned error means the handler itself broke.
type Handler func(ctx context.Context, cc CallContext, args Args) (*ToolCallResult, error)

// Scraper fetches page metadata for create_bookmark.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*scraper.Metadata, error)
}

// Deps are the collaborators handlers use besides the store. Zero fields get
// production defaults.
type Deps struct {
	Scraper   Scraper // nil disables scraping
	CleanURL  func(rawURL string) string
	LinkType  func(rawURL string, meta *scraper.Metadata) bookmark.Type
	MatchTags func(title, description string, vocabulary []string) []string
	Intn      func(n int) int
	Now       func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.CleanURL == nil {
		d.CleanURL = scraper.CleanURL
	}
	if d.LinkType == nil {
		d.LinkType = scraper.LinkType
	}
	if d.MatchTags == nil {
		d.MatchTags = tagmatch.Match
	}
	if d.Intn == nil {
		d.Intn = rand.Intn
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// =============================================================================
// Registry
// =============================================================================

type entry struct {
	def     Tool
	handler Handler
}

// Registry is the immutable set of tools, built once at startup.
type Registry struct {
	entries map[Name]entry
	defs    []Tool
	deps    Deps
}

// NewRegistry builds the registry. Every Name gets exactly one definition and
// handler.
func NewRegistry(deps Deps) *Registry {
	r := &Registry{
		entries: make(map[Name]entry, len(Names)),
		deps:    deps.withDefaults(),
	}
	for _, name := range Names {
		e := entry{def: definition(name), handler: r.handler(name)}
		r.entries[name] = e
		r.defs = append(r.defs, e.def)
	}
	return r
}

func (r *Registry) handler(name Name) Handler {
	switch name {
	case SearchBookmarks:
		return r.searchBookmarks
	case ListBookmarks:
		return r.listBookmarks
	case ListTags:
		return r.listTags
	case GetStats:
		return r.getStats
	case RandomBookmark:
		return r.randomBookmark
	case CreateBookmark:
		return r.createBookmark
	case UpdateBookmark:
		return r.updateBookmark
	case DeleteBookmark:
		return r.deleteBookmark
	}
	panic(fmt.Sprintf("tools: no handler for %q", name))
}

// Definitions returns the tool list reported by tools/list.
func (r *Registry) Definitions() []Tool {
	out := make([]Tool, len(r.defs))
	copy(out, r.defs)
	return out
}

// Lookup resolves a tool name.
func (r *Registry) Lookup(name string) (Name, bool) {
	_, ok := r.entries[Name(name)]
	return Name(name), ok
}

// Call validates args against the tool's schema and runs its handler.
func (r *Registry) Call(ctx context.Context, name Name, args map[string]any, cc CallContext) (*ToolCallResult, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, errors.Errorf("unknown tool %q", name)
	}
	if cc.Store == nil {
		return nil, errors.New("no bookmark store for this request")
	}

	validated, err := ValidateParams(e.def.InputSchema, args)
	if err != nil {
		return ErrorResult(err.Error()), nil
	}
	return e.handler(ctx, cc, Args(validated))
}

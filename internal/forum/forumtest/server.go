// Package forumtest runs an in-memory forum backend for tests.
//
// The server answers threads/, search/, categories/ and tags/ under /api/
// with the same shapes and filter semantics as the real backend: tag filters
// match any listed tag, category filters are exact, ids restrict a listing to
// the given threads, and search matches title or body case-insensitively.
package forumtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// Thread is a fixture row.
type Thread struct {
	ID         int64
	Title      string
	Body       string
	Username   string
	CategoryID int
	Category   string
	Tags       []string
	LikeCount  int
	ReplyCount int
	CreatedAt  time.Time
	Deleted    bool
}

// Category is a fixture category.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Request records one request the server received.
type Request struct {
	Path   string
	Query  url.Values
	Header http.Header
}

// Failure forces a path to answer with Status and Body.
type Failure struct {
	Status int
	Body   string
}

// Server is a fake forum API. Its exported fields may be changed between
// requests; guard concurrent changes with Lock/Unlock.
type Server struct {
	*httptest.Server

	sync.Mutex
	Threads    []Thread
	Categories []Category
	// PageSize is the listing page size; zero means 20.
	PageSize int
	// BareArrays makes listings return [] instead of {results, count}.
	BareArrays bool
	// Failures maps an endpoint ("threads", "search", ...) to a forced error.
	Failures map[string]Failure

	requests []Request
}

// NewServer starts a server seeded with threads and categories. Callers
// should Close it, usually via t.Cleanup.
func NewServer(threads []Thread, categories []Category) *Server {
	s := &Server{
		Threads:    threads,
		Categories: categories,
		Failures:   map[string]Failure{},
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Route("/api", func(r chi.Router) {
		r.Get("/threads/", s.guard("threads", s.handleThreads))
		r.Get("/search/", s.guard("search", s.handleSearch))
		r.Get("/categories/", s.guard("categories", s.handleCategories))
		r.Get("/tags/", s.guard("tags", s.handleTags))
	})
	s.Server = httptest.NewServer(r)
	return s
}

// BaseURL is the API root to configure the client with.
func (s *Server) BaseURL() string {
	return s.URL + "/api/"
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.Lock()
	defer s.Unlock()
	return slices.Clone(s.requests)
}

// RequestsTo returns the requests for one endpoint ("threads", "search", ...).
func (s *Server) RequestsTo(endpoint string) []Request {
	var out []Request
	for _, req := range s.Requests() {
		if req.Path == "/api/"+endpoint+"/" {
			out = append(out, req)
		}
	}
	return out
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Lock()
		s.requests = append(s.requests, Request{
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
		})
		s.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) guard(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Lock()
		failure, ok := s.Failures[endpoint]
		s.Unlock()
		if ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(failure.Status)
			_, _ = w.Write([]byte(failure.Body))
			return
		}
		next(w, r)
	}
}

func (s *Server) handleThreads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tags := splitList(q.Get("tag"))
	category, _ := strconv.Atoi(q.Get("category"))
	includeDeleted := strings.EqualFold(q.Get("include_deleted"), "true")

	var ids []int64
	for _, raw := range splitList(q.Get("ids")) {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}

	s.Lock()
	var matched []Thread
	for _, th := range s.Threads {
		if th.Deleted && !includeDeleted {
			continue
		}
		if len(ids) > 0 && !slices.Contains(ids, th.ID) {
			continue
		}
		if category > 0 && th.CategoryID != category {
			continue
		}
		if len(tags) > 0 && !slices.ContainsFunc(th.Tags, func(t string) bool { return slices.Contains(tags, t) }) {
			continue
		}
		matched = append(matched, th)
	}
	pageSize := s.pageSize()
	bare := s.BareArrays
	s.Unlock()

	slices.SortStableFunc(matched, func(a, b Thread) int { return b.CreatedAt.Compare(a.CreatedAt) })

	page := positive(q.Get("page"), 1)
	rows := paginate(matched, page, pageSize)
	if bare {
		writeJSON(w, http.StatusOK, rows)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(matched),
		"results": rows,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	keyword := strings.TrimSpace(q.Get("q"))
	if keyword == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Search query is required"})
		return
	}
	if len([]rune(keyword)) > 100 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Search query too long (max 100 characters)"})
		return
	}
	page := positive(q.Get("page"), 1)
	limit := min(positive(q.Get("limit"), 20), 100)
	needle := strings.ToLower(keyword)

	s.Lock()
	var titleHits, bodyHits []Thread
	for _, th := range s.Threads {
		if th.Deleted {
			continue
		}
		switch {
		case strings.Contains(strings.ToLower(th.Title), needle):
			titleHits = append(titleHits, th)
		case strings.Contains(strings.ToLower(th.Body), needle):
			bodyHits = append(bodyHits, th)
		}
	}
	s.Unlock()

	matched := append(titleHits, bodyHits...)
	writeJSON(w, http.StatusOK, map[string]any{
		"query":         keyword,
		"type":          q.Get("type"),
		"sort":          q.Get("sort"),
		"page":          page,
		"limit":         limit,
		"threads":       paginate(matched, page, limit),
		"replies":       []any{},
		"total_threads": len(matched),
		"total_replies": 0,
		"total_results": len(matched),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	s.Lock()
	cats := slices.Clone(s.Categories)
	bare := s.BareArrays
	s.Unlock()
	if cats == nil {
		cats = []Category{}
	}
	if bare {
		writeJSON(w, http.StatusOK, cats)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(cats), "results": cats})
}

func (s *Server) handleTags(w http.ResponseWriter, _ *http.Request) {
	type tag struct {
		Name        string `json:"name"`
		IsActive    bool   `json:"is_active"`
		ThreadCount int    `json:"thread_count"`
	}
	counts := map[string]int{}
	s.Lock()
	for _, th := range s.Threads {
		if th.Deleted {
			continue
		}
		for _, t := range th.Tags {
			counts[t]++
		}
	}
	s.Unlock()

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	slices.Sort(names)
	out := make([]tag, len(names))
	for i, name := range names {
		out[i] = tag{Name: name, IsActive: true, ThreadCount: counts[name]}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) pageSize() int {
	if s.PageSize > 0 {
		return s.PageSize
	}
	return 20
}

type threadJSON struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Username          string    `json:"username"`
	AuthorDisplayName string    `json:"author_display_name"`
	Category          *Category `json:"category"`
	CategoryName      string    `json:"category_name"`
	TagsFlat          []string  `json:"tags_flat"`
	LikeCount         int       `json:"like_count"`
	ReplyCount        int       `json:"reply_count"`
	CreateTime        string    `json:"create_time"`
	IsDeleted         bool      `json:"is_deleted"`
}

func toJSON(th Thread) threadJSON {
	out := threadJSON{
		ID:                th.ID,
		Title:             th.Title,
		Username:          th.Username,
		AuthorDisplayName: th.Username,
		CategoryName:      th.Category,
		TagsFlat:          th.Tags,
		LikeCount:         th.LikeCount,
		ReplyCount:        th.ReplyCount,
		IsDeleted:         th.Deleted,
	}
	if out.TagsFlat == nil {
		out.TagsFlat = []string{}
	}
	if th.CategoryID > 0 {
		out.Category = &Category{ID: th.CategoryID, Name: th.Category}
	}
	if !th.CreatedAt.IsZero() {
		out.CreateTime = th.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return out
}

func paginate(threads []Thread, page, size int) []threadJSON {
	out := []threadJSON{}
	start := (page - 1) * size
	if start >= len(threads) {
		return out
	}
	end := min(start+size, len(threads))
	for _, th := range threads[start:end] {
		out = append(out, toJSON(th))
	}
	return out
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func positive(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

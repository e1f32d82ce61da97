package forum

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const djangoTimestampLayout = "2006-01-02 15:04:05"

// ThreadSummary is one row of a thread listing or search result.
type ThreadSummary struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	Username     string    `json:"username"`
	CategoryID   int       `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Tags         []string  `json:"tags"`
	LikeCount    int       `json:"like_count"`
	ReplyCount   int       `json:"reply_count"`
	CreatedAt    time.Time `json:"created_at"`
	Deleted      bool      `json:"deleted,omitempty"`
}

// ResultPage is one page of threads. Total is meaningful only when HasTotal
// is set; bare-array listings carry no count.
type ResultPage struct {
	Items    []ThreadSummary
	Total    int
	HasTotal bool
	Page     int
}

// IDs returns the thread ids in result order.
func (p ResultPage) IDs() []int64 {
	ids := make([]int64, len(p.Items))
	for i, item := range p.Items {
		ids[i] = item.ID
	}
	return ids
}

// Category mirrors the categories endpoint.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Tag mirrors the tags endpoint.
type Tag struct {
	Name        string `json:"name"`
	Active      bool   `json:"is_active"`
	ThreadCount int    `json:"thread_count"`
}

// threadPayload is the wire form of ThreadSummary.
type threadPayload struct {
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

func (p threadPayload) summary() ThreadSummary {
	s := ThreadSummary{
		ID:           p.ID,
		Title:        p.Title,
		Author:       p.AuthorDisplayName,
		Username:     p.Username,
		CategoryName: p.CategoryName,
		Tags:         p.TagsFlat,
		LikeCount:    p.LikeCount,
		ReplyCount:   p.ReplyCount,
		CreatedAt:    parseTime(p.CreateTime),
		Deleted:      p.IsDeleted,
	}
	if s.Author == "" {
		s.Author = p.Username
	}
	if p.Category != nil {
		s.CategoryID = p.Category.ID
		if s.CategoryName == "" {
			s.CategoryName = p.Category.Name
		}
	}
	return s
}

// paginatedThreads is the DRF paginated listing shape.
type paginatedThreads struct {
	Results *[]threadPayload `json:"results"`
	Count   *int             `json:"count"`
}

// searchPayload is the search endpoint shape. Only the thread half is used.
type searchPayload struct {
	Threads      *[]threadPayload `json:"threads"`
	TotalThreads *int             `json:"total_threads"`
	Page         int              `json:"page"`
}

// decodeThreadList normalizes a listing body that is either a bare array of
// threads or a {results, count} object.
func decodeThreadList(body []byte, page int) (ResultPage, error) {
	switch firstToken(body) {
	case '[':
		var rows []threadPayload
		if err := json.Unmarshal(body, &rows); err != nil {
			return ResultPage{}, fmt.Errorf("%w: thread array: %v", ErrMalformed, err)
		}
		return newResultPage(rows, 0, false, page), nil
	case '{':
		var obj paginatedThreads
		if err := json.Unmarshal(body, &obj); err != nil {
			return ResultPage{}, fmt.Errorf("%w: thread page: %v", ErrMalformed, err)
		}
		if obj.Results == nil {
			return ResultPage{}, fmt.Errorf("%w: thread page has no results", ErrMalformed)
		}
		total, hasTotal := 0, false
		if obj.Count != nil {
			total, hasTotal = *obj.Count, true
		}
		return newResultPage(*obj.Results, total, hasTotal, page), nil
	default:
		return ResultPage{}, fmt.Errorf("%w: expected thread array or object", ErrMalformed)
	}
}

func decodeSearch(body []byte, page int) (ResultPage, error) {
	if firstToken(body) != '{' {
		return ResultPage{}, fmt.Errorf("%w: expected search object", ErrMalformed)
	}
	var obj searchPayload
	if err := json.Unmarshal(body, &obj); err != nil {
		return ResultPage{}, fmt.Errorf("%w: search: %v", ErrMalformed, err)
	}
	if obj.Threads == nil {
		return ResultPage{}, fmt.Errorf("%w: search has no threads", ErrMalformed)
	}
	total, hasTotal := 0, false
	if obj.TotalThreads != nil {
		total, hasTotal = *obj.TotalThreads, true
	}
	if obj.Page > 0 {
		page = obj.Page
	}
	return newResultPage(*obj.Threads, total, hasTotal, page), nil
}

// decodeList handles endpoints that return either T[] or {results: T[]}.
func decodeList[T any](body []byte, what string) ([]T, error) {
	switch firstToken(body) {
	case '[':
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("%w: %s array: %v", ErrMalformed, what, err)
		}
		return items, nil
	case '{':
		var obj struct {
			Results *[]T `json:"results"`
		}
		if err := json.Unmarshal(body, &obj); err != nil {
			return nil, fmt.Errorf("%w: %s page: %v", ErrMalformed, what, err)
		}
		if obj.Results == nil {
			return nil, fmt.Errorf("%w: %s page has no results", ErrMalformed, what)
		}
		return *obj.Results, nil
	default:
		return nil, fmt.Errorf("%w: expected %s array or object", ErrMalformed, what)
	}
}

func newResultPage(rows []threadPayload, total int, hasTotal bool, page int) ResultPage {
	if page < 1 {
		page = 1
	}
	items := make([]ThreadSummary, len(rows))
	for i, row := range rows {
		items[i] = row.summary()
	}
	return ResultPage{Items: items, Total: total, HasTotal: hasTotal, Page: page}
}

func firstToken(body []byte) byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(djangoTimestampLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}

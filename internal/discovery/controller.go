package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/five82/commons/internal/filter"
	"github.com/five82/commons/internal/forum"
	"github.com/five82/commons/internal/state"
)

// DefaultPageSize matches the backend's default listing and search limit.
const DefaultPageSize = 20

// Strategy names how a State was resolved.
type Strategy string

const (
	StrategyList      Strategy = "list"
	StrategySearch    Strategy = "search"
	StrategyIntersect Strategy = "search+intersect"
)

// Viewer is the identity discovery runs on behalf of.
type Viewer struct {
	Username string
	Admin    bool
	// IncludeDeleted asks for deleted threads in listings. It only takes
	// effect for admins.
	IncludeDeleted bool
}

func (v Viewer) includeDeleted() bool {
	return v.Admin && v.IncludeDeleted
}

// Options configure a Controller.
type Options struct {
	API      forum.API
	Store    *state.Store
	Viewer   Viewer
	PageSize int
	Logger   *log.Logger
	// Registerer receives the discovery metrics. Nil disables metrics.
	Registerer prometheus.Registerer
}

// Controller resolves filter states into result pages and guards the
// committed view against out-of-order completions.
type Controller struct {
	api      forum.API
	store    *state.Store
	viewer   Viewer
	pageSize int
	logger   *log.Logger
	metrics  *metrics

	seq atomic.Uint64

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewController builds a Controller. A nil Store gets a fresh one.
func NewController(opts Options) (*Controller, error) {
	if opts.API == nil {
		return nil, fmt.Errorf("discovery: api is nil")
	}
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	var m *metrics
	if opts.Registerer != nil {
		var err error
		m, err = newMetrics(opts.Registerer)
		if err != nil {
			return nil, err
		}
	}
	return &Controller{
		api:      opts.API,
		store:    store,
		viewer:   opts.Viewer,
		pageSize: pageSize,
		logger:   logger,
		metrics:  m,
	}, nil
}

// PageSize is the number of results per page.
func (c *Controller) PageSize() int {
	return c.pageSize
}

// Viewer returns the viewer context the controller was built with.
func (c *Controller) Viewer() Viewer {
	return c.viewer
}

// Snapshot returns the committed view.
func (c *Controller) Snapshot() state.Snapshot {
	return c.store.Snapshot()
}

// Resolve issues an asynchronous request for st and returns immediately.
// Every call takes the next sequence number. The previous in-flight request
// is cancelled; if it still completes, Commit drops it.
func (c *Controller) Resolve(ctx context.Context, st filter.State) *Task {
	st = filter.Normalize(st)
	seq := c.seq.Add(1)

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	taskCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	t := newTask(seq, st)
	go func() {
		defer cancel()
		start := time.Now()
		page, strategy, err := c.Fetch(taskCtx, st)
		t.finish(Outcome{
			Seq:      seq,
			State:    st,
			Page:     page,
			Strategy: strategy,
			Err:      err,
			Duration: time.Since(start),
		})
	}()
	return t
}

// Commit makes o visible if its sequence number is the highest received so
// far and reports whether it did. A request cancelled because a newer Resolve
// replaced it is dropped like any other stale result; it is not a failure.
func (c *Controller) Commit(o Outcome) bool {
	if o.Seq < c.seq.Load() && errors.Is(o.Err, context.Canceled) {
		c.metrics.staleDropped()
		c.logger.Debug("dropped superseded request", "seq", o.Seq, "strategy", o.Strategy)
		return false
	}
	committed := c.store.Commit(state.Result{
		Seq:      o.Seq,
		State:    o.State,
		Page:     o.Page,
		Strategy: string(o.Strategy),
		Err:      o.Err,
	})
	if !committed {
		c.metrics.staleDropped()
		c.logger.Debug("dropped stale result", "seq", o.Seq, "strategy", o.Strategy)
	}
	return committed
}

// Fetch runs the resolution strategy for st synchronously.
func (c *Controller) Fetch(ctx context.Context, st filter.State) (forum.ResultPage, Strategy, error) {
	st = filter.Normalize(st)
	start := time.Now()
	page, strategy, err := c.fetch(ctx, st)
	c.metrics.observe(strategy, start, err)
	if err != nil {
		c.logger.Warn("discovery failed", "strategy", strategy, "link", filter.Encode(st), "err", err)
	} else {
		c.logger.Debug("discovery resolved",
			"strategy", strategy,
			"link", filter.Encode(st),
			"items", len(page.Items),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	}
	return page, strategy, err
}

func (c *Controller) fetch(ctx context.Context, st filter.State) (forum.ResultPage, Strategy, error) {
	if st.Keyword == "" {
		q := c.listQuery(st)
		q.Page = st.Page
		page, err := c.api.ListThreads(ctx, q)
		if err != nil {
			return forum.ResultPage{}, StrategyList, fmt.Errorf("list threads: %w", err)
		}
		return page, StrategyList, nil
	}

	if utf8.RuneCountInString(st.Keyword) > forum.MaxKeywordLength {
		return forum.ResultPage{}, StrategySearch, fmt.Errorf("%w: keyword longer than %d characters", ErrInvalidQuery, forum.MaxKeywordLength)
	}
	hits, err := c.api.SearchThreads(ctx, forum.SearchQuery{
		Keyword: st.Keyword,
		Page:    st.Page,
		Limit:   c.pageSize,
	})
	if err != nil {
		return forum.ResultPage{}, StrategySearch, fmt.Errorf("search threads: %w", err)
	}
	if !st.Filtered() || len(hits.Items) == 0 {
		return hits, StrategySearch, nil
	}

	// Search has no tag or category filters, so narrow this page of hits
	// with an ids-restricted listing. The total stays the search total.
	q := c.listQuery(st)
	q.IDs = hits.IDs()
	narrowed, err := c.api.ListThreads(ctx, q)
	if err != nil {
		return forum.ResultPage{}, StrategyIntersect, fmt.Errorf("intersect search results: %w", err)
	}
	return forum.ResultPage{
		Items:    narrowed.Items,
		Total:    hits.Total,
		HasTotal: hits.HasTotal,
		Page:     hits.Page,
	}, StrategyIntersect, nil
}

func (c *Controller) listQuery(st filter.State) forum.ListQuery {
	q := forum.ListQuery{
		Tags:           st.Tags,
		IncludeDeleted: c.viewer.includeDeleted(),
	}
	if st.HasCategory {
		q.CategoryID = st.CategoryID
	}
	return q
}

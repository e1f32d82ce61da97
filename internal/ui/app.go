package ui

import (
	"context"
	"io"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/five82/commons/internal/compose"
	"github.com/five82/commons/internal/discovery"
	"github.com/five82/commons/internal/filter"
	"github.com/five82/commons/internal/forum"
	"github.com/five82/commons/internal/history"
	"github.com/five82/commons/internal/nav"
	"github.com/five82/commons/internal/prefs"
	"github.com/five82/commons/internal/state"
)

type focus int

const (
	focusList focus = iota
	focusSearch
	focusTags
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller *discovery.Controller
	// API supplies the category picker and tag hints. Nil skips both.
	API forum.API
	// History records visited links. Nil disables recent links.
	History *history.Store
	// Link is the deep link shown first.
	Link      string
	Prefs     prefs.Prefs
	PrefsPath string
	Logger    *log.Logger
	// Clipboard receives copied links; nil uses the system clipboard.
	Clipboard func(string) error
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	ctrl      *discovery.Controller
	api       forum.API
	hist      *history.Store
	logger    *log.Logger
	copyLink  func(string) error
	prefs     prefs.Prefs
	prefsPath string

	keys   keyMap
	help   help.Model
	theme  Theme
	width  int
	height int
	ready  bool

	// Location. link is always filter.Encode(state).
	nav      *nav.History
	link     string
	state    filter.State
	inflight uint64
	loading  bool
	snap     state.Snapshot

	focus    focus
	search   textinput.Model
	composer *compose.Composer
	spinner  spinner.Model
	results  viewport.Model
	selected int

	categories []forum.Category
	tagNames   []string

	showHelp bool
	modal    Modal
	notice   string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	copyLink := opts.Clipboard
	if copyLink == nil {
		copyLink = clipboard.WriteAll
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := opts.Prefs
	if userPrefs.Theme == "" {
		userPrefs = prefs.Default()
	}

	st := filter.Decode(opts.Link)
	link := filter.Encode(st)

	search := textinput.New()
	search.Prompt = ""
	search.Placeholder = "search threads"
	_ = search.Cursor.SetMode(cursor.CursorStatic)
	search.SetValue(st.Keyword)

	return Model{
		ctx:       ctx,
		ctrl:      opts.Controller,
		api:       opts.API,
		hist:      opts.History,
		logger:    logger,
		copyLink:  copyLink,
		prefs:     userPrefs,
		prefsPath: prefsPath,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		theme:     GetTheme(userPrefs.Theme),
		nav:       nav.New(link, nav.DefaultCapacity),
		link:      link,
		state:     st,
		search:    search,
		composer:  compose.New(compose.Options{Tags: st.Tags}),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		results:   viewport.New(0, 0),
	}
}

// Link returns the current deep link.
func (m Model) Link() string {
	return m.link
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return loadCmd
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.search.Width = max(10, msg.Width-12)
		m.ready = true
		m.refreshResults()
		return m, nil

	case loadMsg:
		cmds := []tea.Cmd{m.resolve(), m.record()}
		if m.api != nil {
			cmds = append(cmds, fetchCategoriesCmd(m.ctx, m.api), fetchTagsCmd(m.ctx, m.api))
		}
		return m, tea.Batch(cmds...)

	case navigateMsg:
		return m.navigate(msg.link)

	case RefreshMsg:
		if m.loading {
			return m, nil
		}
		return m, m.resolve()

	case outcomeMsg:
		return m.handleOutcome(discovery.Outcome(msg))

	case categoriesMsg:
		if msg.err != nil {
			m.logger.Warn("category list unavailable", "err", msg.err)
			return m, nil
		}
		m.categories = msg.items
		return m, nil

	case tagsMsg:
		if msg.err != nil {
			m.logger.Warn("tag list unavailable", "err", msg.err)
			return m, nil
		}
		m.tagNames = msg.names
		return m, nil

	case recentMsg:
		if msg.err != nil {
			m.notice = "Could not load recent links: " + msg.err.Error()
			return m, nil
		}
		m.modal = newRecentModal(msg.entries)
		return m, nil

	case noticeMsg:
		m.notice = string(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// resolve issues a request for the current state.
func (m *Model) resolve() tea.Cmd {
	task := m.ctrl.Resolve(m.ctx, m.state)
	m.inflight = task.Seq
	m.loading = true
	return tea.Batch(waitCmd(m.ctx, task), m.spinner.Tick)
}

func (m *Model) record() tea.Cmd {
	if m.hist == nil || m.link == "" {
		return nil
	}
	return recordCmd(m.ctx, m.hist, m.link, m.describe(m.state))
}

// apply moves to st as a new history entry. Producing the current link
// again does nothing.
func (m Model) apply(st filter.State) (tea.Model, tea.Cmd) {
	link := filter.Encode(st)
	if !m.nav.Push(link) {
		return m, nil
	}
	return m.visit(link)
}

// navigate handles links arriving from outside the filter controls, such as
// the recent-links list.
func (m Model) navigate(link string) (tea.Model, tea.Cmd) {
	return m.apply(filter.Decode(link))
}

// visit shows link without touching the back/forward stack.
func (m Model) visit(link string) (tea.Model, tea.Cmd) {
	m.setLocation(link)
	return m, tea.Batch(m.resolve(), m.record())
}

func (m *Model) setLocation(link string) {
	m.state = filter.Decode(link)
	m.link = filter.Encode(m.state)
	m.composer.SetTags(m.state.Tags)
	if m.focus != focusSearch {
		m.search.SetValue(m.state.Keyword)
	}
	m.selected = 0
	m.notice = ""
}

func (m Model) handleOutcome(o discovery.Outcome) (tea.Model, tea.Cmd) {
	committed := m.ctrl.Commit(o)
	if o.Seq == m.inflight {
		m.loading = false
	}
	m.snap = m.ctrl.Snapshot()
	if !committed {
		return m, nil
	}
	if o.Err != nil {
		f := discovery.Classify(o.Err)
		m.logger.Warn("discovery request failed", "seq", o.Seq, "kind", f.Kind, "err", o.Err)
		m.refreshResults()
		return m, nil
	}

	pageSize := m.ctrl.PageSize()
	if discovery.OutOfRange(o.Page, pageSize) && o.State.Equal(m.state) {
		page := discovery.ClampPage(o.State.Page, o.Page.Total, pageSize)
		link := filter.Encode(m.state.WithPage(page))
		m.nav.Replace(link)
		return m.visit(link)
	}
	m.refreshResults()
	return m, nil
}

// pageSettled reports whether the committed page belongs to the current
// link, so paging decisions can trust its totals.
func (m Model) pageSettled() bool {
	return m.snap.HasPage && m.snap.State.Equal(m.state)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	_, err := NewProgram(opts).Run()
	return err
}

// NewProgram builds the program without starting it, so callers can send
// messages to it from other goroutines.
func NewProgram(opts Options) *tea.Program {
	return tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(optsContext(opts)))
}

func optsContext(opts Options) context.Context {
	if opts.Context == nil {
		return context.Background()
	}
	return opts.Context
}

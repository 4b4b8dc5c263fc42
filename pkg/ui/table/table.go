// Package table is a paginated data table component for Bubble Tea.
//
// A [Model] reads rows from a [rows.Source] and keeps its pagination state in
// a [pagination.Controller]. Key presses go through a [keys.Dispatcher],
// where a [navigator.Navigator] turns them into pagination intents before
// the table's own bindings see them.
//
// In-memory sources are paginated by the table. Sources that report
// [rows.Source.Manual] are asked for one page at a time in the background,
// and the table shows a loading indicator while a page is in flight.
package table

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/ansi"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/tabula/pkg/keys"
	"github.com/macropower/tabula/pkg/pagination"
	"github.com/macropower/tabula/pkg/rows"
	"github.com/macropower/tabula/pkg/ui/navigator"
	"github.com/macropower/tabula/pkg/ui/overlay"
	"github.com/macropower/tabula/pkg/ui/statusbar"
	"github.com/macropower/tabula/pkg/ui/theme"
)

const (
	StatusMessageTimeout = time.Second * 3 // How long to show status messages.

	maxColumnWidth = 40
	minTableHeight = 3

	detailWidthFraction = 0.6
)

var ErrNoSource = errors.New("no row source")

// Config configures a [Model].
type Config struct {
	Source             rows.Source
	Theme              *theme.Theme
	KeyBinds           *KeyBinds
	NavigationKeyBinds *navigator.KeyBinds
	Pagination         *pagination.Override

	// InitialState seeds the page in uncontrolled mode.
	InitialState *pagination.State
	// State selects controlled mode. The table never changes it: requested
	// states go to OnStateChange and are shown once pushed back with
	// [Model.SetState] or a [StateMsg].
	State         *pagination.State
	OnStateChange func(pagination.State)

	// Reloads delivers change notifications for the source's rows.
	Reloads <-chan rows.ReloadEvent

	// Clipboard receives copied pages. Defaults to the system clipboard.
	Clipboard func(string) error

	// Title is shown in the status bar.
	Title            string
	FallbackPageSize int
}

type (
	// StateMsg pushes a caller-owned state into a controlled table.
	StateMsg struct {
		State pagination.State
	}

	// ReloadMsg reports that the rows of the source changed.
	ReloadMsg struct {
		Event rows.ReloadEvent
	}

	fetchedMsg struct {
		err  error
		page rows.Page
		req  rows.Request
		seq  int
	}

	statusTimeoutMsg struct {
		id int
	}
)

type status struct {
	message string
	style   statusbar.Style
	id      int
}

// Model is the paginated table.
type Model struct {
	ctx         context.Context //nolint:containedctx // Used by fetch commands.
	source      rows.Source
	theme       *theme.Theme
	kb          *KeyBinds
	ctrl        *pagination.Controller
	nav         *navigator.Navigator
	dispatcher  *keys.Dispatcher
	jump        *jumpField
	help        *statusbar.Help
	detail      *overlay.Overlay
	clipboard   func(string) error
	unsubscribe func()
	lastReq     *rows.Request
	all         []rows.Row // Every row matching the query, for in-memory sources.
	visible     []rows.Row
	status      status
	query       string
	cfg         Config
	page        rows.Page // Last fetched page, for manual sources.
	pageSize    int       // Page size the last page was fetched with.
	filter      textinput.Model
	spinner     spinner.Model
	table       table.Model
	shownIndex  int
	seq         int
	width       int
	height      int
	loaded      bool
	loading     bool
	stale       bool
	resetPage   bool
	pendingInit bool
	showHelp    bool
	showDetail  bool
}

// New creates a [Model]. In-memory sources are read immediately.
func New(ctx context.Context, cfg Config) (*Model, error) {
	if cfg.Source == nil {
		return nil, ErrNoSource
	}
	if cfg.Theme == nil {
		cfg.Theme = theme.Default
	}
	if cfg.KeyBinds == nil {
		cfg.KeyBinds = &KeyBinds{}
	}
	if cfg.Clipboard == nil {
		cfg.Clipboard = clipboard.WriteAll
	}

	cfg.KeyBinds.EnsureDefaults()

	m := &Model{
		ctx:         ctx,
		cfg:         cfg,
		source:      cfg.Source,
		theme:       cfg.Theme,
		kb:          cfg.KeyBinds,
		dispatcher:  keys.NewDispatcher(),
		jump:        newJumpField(cfg.Theme),
		detail:      overlay.New(cfg.Theme),
		filter:      newFilterInput(cfg.Theme),
		clipboard:   cfg.Clipboard,
		pendingInit: cfg.InitialState != nil && cfg.InitialState.PageIndex > 0,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Line),
			spinner.WithStyle(cfg.Theme.SpinnerStyle),
		),
		table: table.New(
			table.WithFocused(true),
			table.WithKeyMap(cfg.KeyBinds.tableKeyMap()),
			table.WithStyles(table.Styles{
				Header:   cfg.Theme.HeaderStyle,
				Cell:     cfg.Theme.CellStyle,
				Selected: cfg.Theme.SelectedStyle,
			}),
		),
	}

	if !m.source.Manual() {
		err := m.load()
		if err != nil {
			return nil, err
		}

		m.pendingInit = false
	}

	ctrl, err := pagination.New(m.props())
	if err != nil {
		return nil, fmt.Errorf("create pagination controller: %w", err)
	}

	m.ctrl = ctrl
	m.nav = navigator.New(ctrl, m.jump, cfg.NavigationKeyBinds)
	m.nav.Attach(m.dispatcher)
	m.unsubscribe = m.dispatcher.Subscribe(m.handleKey)
	m.help = statusbar.NewHelp(m.theme, m.helpColumns())

	if !m.source.Manual() {
		m.showLocalPage()
	}

	return m, nil
}

func newFilterInput(t *theme.Theme) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter rows"
	ti.PromptStyle = t.FilterPromptStyle

	return ti
}

// Close detaches all key listeners. It implements [io.Closer].
func (m *Model) Close() error {
	m.unsubscribe()

	return m.nav.Close()
}

// Controller returns the pagination controller.
func (m *Model) Controller() *pagination.Controller {
	return m.ctrl
}

// Rows returns the rows of the displayed page.
func (m *Model) Rows() []rows.Row {
	return m.visible
}

// Loading reports whether a page is being fetched.
func (m *Model) Loading() bool {
	return m.loading
}

// Focus reports which input holds focus.
func (m *Model) Focus() keys.Focus {
	switch {
	case m.jump.Focused():
		return keys.FocusJumpInput
	case m.filter.Focused():
		return keys.FocusText
	default:
		return keys.FocusTable
	}
}

// SetState pushes the caller-owned state of a controlled table. The rows
// follow on the next update.
func (m *Model) SetState(s pagination.State) error {
	prev := m.cfg.State
	m.cfg.State = &s

	err := m.ctrl.SetProps(m.props())
	if err != nil {
		m.cfg.State = prev

		return fmt.Errorf("set pagination state: %w", err)
	}

	return nil
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.sync(), m.waitForReload())
}

//nolint:ireturn // Must satisfy [tea.Model].
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case fetchedMsg:
		cmds = append(cmds, m.handleFetched(msg))

	case StateMsg:
		err := m.SetState(msg.State)
		if err != nil {
			cmds = append(cmds, m.fail(err))
		}

	case ReloadMsg:
		if msg.Event.Err != nil {
			cmds = append(cmds, m.fail(fmt.Errorf("reload: %w", msg.Event.Err)))
		} else {
			m.stale = true
			m.lastReq = nil
			cmds = append(cmds, m.sendStatus("reloaded "+rowCount(msg.Event.Rows), statusbar.StyleSuccess))
		}

		cmds = append(cmds, m.waitForReload())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd

			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case statusTimeoutMsg:
		if msg.id == m.status.id {
			m.status = status{id: m.status.id}
		}
	}

	cmds = append(cmds, m.sync())
	m.resize()

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	focus := m.Focus()

	handled, cmd := m.dispatcher.Dispatch(keys.NewEvent(msg, focus))
	if handled {
		// The jump input can take focus from the filter.
		if m.jump.Focused() {
			m.filter.Blur()
		}

		return cmd
	}

	switch focus {
	case keys.FocusJumpInput:
		return m.jump.Update(msg)

	case keys.FocusText:
		m.filter, cmd = m.filter.Update(msg)

		return cmd

	default:
		m.table, cmd = m.table.Update(msg)

		return cmd
	}
}

// handleKey is the table's own [keys.Listener]. It runs after the navigator.
func (m *Model) handleKey(ev keys.Event) (bool, tea.Cmd) {
	kb := m.kb

	// Only ctrl+c quits from inside an input, q is typed.
	if kb.Quit.Match(ev.Key) && (ev.Key == "ctrl+c" || !ev.Focus.IsFormControl()) {
		return true, tea.Quit
	}

	switch ev.Focus {
	case keys.FocusText:
		switch {
		case ev.Key == "enter":
			m.filter.Blur()

			return true, nil

		case kb.Escape.Match(ev.Key):
			m.filter.Reset()
			m.filter.Blur()

			return true, nil
		}

		return false, nil

	case keys.FocusJumpInput:
		return false, nil
	}

	switch {
	case kb.Filter.Match(ev.Key):
		return true, m.filter.Focus()

	case kb.Escape.Match(ev.Key):
		if m.showDetail {
			m.showDetail = false

			return true, nil
		}
		if m.showHelp {
			m.showHelp = false

			return true, nil
		}
		if m.filter.Value() == "" {
			return false, nil
		}

		m.filter.Reset()

		return true, nil

	case kb.Reload.Match(ev.Key):
		m.stale = true
		m.lastReq = nil

		return true, nil

	case kb.Copy.Match(ev.Key):
		return true, m.copyPage()

	case kb.Detail.Match(ev.Key):
		m.showDetail = !m.showDetail && m.selectedRow() != nil

		return true, nil

	case kb.Help.Match(ev.Key):
		m.showHelp = !m.showHelp

		return true, nil

	case kb.Suspend.Match(ev.Key):
		return true, tea.Suspend
	}

	return false, nil
}

func (m *Model) handleFetched(msg fetchedMsg) tea.Cmd {
	if msg.seq != m.seq {
		slog.Debug("drop stale page",
			slog.Int("page_index", msg.req.PageIndex),
			slog.Int("page_size", msg.req.PageSize),
		)

		return nil
	}

	m.loading = false

	if msg.err != nil {
		return tea.Batch(m.setProps(), m.fail(fmt.Errorf("fetch rows: %w", msg.err)))
	}

	m.page = msg.page
	m.pageSize = msg.req.PageSize
	m.loaded = true

	cmd := m.setProps()

	if m.pendingInit {
		m.pendingInit = false
		m.ctrl.GoToPage(m.cfg.InitialState.PageIndex + 1)
	}

	m.setRows(msg.page.Rows, msg.req.PageIndex)

	return cmd
}

// props returns the controller inputs for the current data.
func (m *Model) props() pagination.Props {
	p := pagination.Props{
		Pagination:       m.cfg.Pagination,
		FallbackPageSize: m.cfg.FallbackPageSize,
		InitialState:     m.cfg.InitialState,
		State:            m.cfg.State,
		OnStateChange:    m.cfg.OnStateChange,
		Manual:           m.source.Manual(),
		Loading:          m.loading,
		TotalRows:        len(m.all),
	}

	if p.State != nil {
		p.InitialState = nil
	}

	if p.Manual {
		p.TotalRows = len(m.page.Rows)

		if m.loaded {
			total := m.page.TotalRows
			p.RowCount = &total

			// The server's page count only holds for the size it was fetched
			// with. After a resize it is derived from the row count.
			if m.pageSize == m.currentPageSize(p) {
				pages := m.page.PageCount
				p.PageCount = &pages
			}
		}
	}

	return p
}

func (m *Model) setProps() tea.Cmd {
	if m.ctrl == nil {
		return nil
	}

	err := m.ctrl.SetProps(m.props())
	if err != nil {
		return m.fail(err)
	}

	return nil
}

// sync brings the displayed rows in line with the query and the pagination
// state. Manual sources get a fetch command when the wanted page changed.
func (m *Model) sync() tea.Cmd {
	if q := m.filter.Value(); q != m.query {
		m.query = q
		m.stale = true
		m.resetPage = true
	}

	if m.source.Manual() {
		// A resize may have invalidated the page count of the last page.
		cmd := m.setProps()

		if m.resetPage {
			m.resetPage = false
			m.ctrl.GoFirst()
		}

		req := m.request()
		if m.lastReq != nil && *m.lastReq == req {
			return cmd
		}

		return tea.Batch(cmd, m.fetch(req))
	}

	var cmds []tea.Cmd

	if m.stale {
		err := m.load()
		if err != nil {
			cmds = append(cmds, m.fail(err))
		}

		cmds = append(cmds, m.setProps())
	}

	if m.resetPage {
		m.resetPage = false
		m.ctrl.GoFirst()
	}

	m.showLocalPage()

	return tea.Batch(cmds...)
}

// request returns the page a manual source should be asked for.
func (m *Model) request() rows.Request {
	req := rows.Request{Query: m.query}

	switch {
	case !m.loaded:
		// Nothing is known about the dataset yet, ask for the configured page.
		s := m.ownerState()
		if m.pendingInit {
			s = *m.cfg.InitialState
		}

		req.PageIndex = s.PageIndex
		req.PageSize = s.PageSize

	case m.ctrl.Policy().Active:
		req.PageIndex = m.ctrl.Snapshot().CurrentPage - 1
		req.PageSize = m.ctrl.State().PageSize
	}

	return req
}

// currentPageSize is the page size the owner of the state asks for.
func (m *Model) currentPageSize(p pagination.Props) int {
	if p.State != nil {
		return p.State.PageSize
	}
	if m.ctrl == nil {
		return 0
	}

	return m.ownerState().PageSize
}

// ownerState returns the state held by the owner, whether or not
// pagination is active.
func (m *Model) ownerState() pagination.State {
	switch o := m.ctrl.Owner().(type) {
	case *pagination.External:
		return o.State
	case *pagination.Internal:
		return o.State
	}

	return pagination.State{}
}

func (m *Model) fetch(req rows.Request) tea.Cmd {
	m.seq++
	m.lastReq = &req
	m.loading = true

	seq, src, ctx := m.seq, m.source, m.ctx

	slog.Debug("fetch page",
		slog.Int("seq", seq),
		slog.Int("page_index", req.PageIndex),
		slog.Int("page_size", req.PageSize),
		slog.String("query", req.Query),
	)

	return tea.Batch(m.setProps(), m.spinner.Tick, func() tea.Msg {
		page, err := src.Fetch(ctx, req)

		return fetchedMsg{seq: seq, req: req, page: page, err: err}
	})
}

// load reads every row matching the query from an in-memory source.
func (m *Model) load() error {
	m.stale = false

	page, err := m.source.Fetch(m.ctx, rows.Request{Query: m.query})
	if err != nil {
		return fmt.Errorf("load rows: %w", err)
	}

	m.all = page.Rows
	m.loaded = true

	return nil
}

func (m *Model) showLocalPage() {
	if !m.ctrl.Policy().Active {
		m.setRows(m.all, 0)

		return
	}

	snap := m.ctrl.Snapshot()
	if snap.TotalRows == 0 {
		m.setRows(nil, 0)

		return
	}

	m.setRows(m.all[snap.StartRow-1:snap.EndRow], snap.CurrentPage-1)
}

func (m *Model) setRows(rs []rows.Row, pageIndex int) {
	cols := m.source.Columns()

	trs := make([]table.Row, 0, len(rs))
	for _, r := range rs {
		cells := make(table.Row, len(cols))
		for i, c := range cols {
			cells[i] = r.Cell(c.Key)
		}

		trs = append(trs, cells)
	}

	m.visible = rs
	m.table.SetColumns(columns(cols, trs))
	m.table.SetRows(trs)

	if pageIndex != m.shownIndex {
		m.shownIndex = pageIndex
		m.table.GotoTop()
	}
}

// columns sizes each column to its content unless a width is configured.
func columns(cols []rows.Column, trs []table.Row) []table.Column {
	out := make([]table.Column, 0, len(cols))
	for i, c := range cols {
		width := c.Width
		if width <= 0 {
			width = ansi.PrintableRuneWidth(c.Header())
			for _, r := range trs {
				width = max(width, ansi.PrintableRuneWidth(r[i]))
			}

			width = min(width, maxColumnWidth)
		}

		out = append(out, table.Column{Title: c.Header(), Width: width})
	}

	return out
}

func (m *Model) copyPage() tea.Cmd {
	cols := m.source.Columns()

	var b strings.Builder

	headers := make([]string, 0, len(cols))
	for _, c := range cols {
		headers = append(headers, c.Header())
	}

	b.WriteString(strings.Join(headers, "\t"))
	b.WriteString("\n")

	for _, r := range m.visible {
		cells := make([]string, 0, len(cols))
		for _, c := range cols {
			cells = append(cells, r.Cell(c.Key))
		}

		b.WriteString(strings.Join(cells, "\t"))
		b.WriteString("\n")
	}

	err := m.clipboard(b.String())
	if err != nil {
		return m.fail(fmt.Errorf("copy page: %w", err))
	}

	return m.sendStatus("copied "+rowCount(len(m.visible)), statusbar.StyleSuccess)
}

func (m *Model) waitForReload() tea.Cmd {
	ch := m.cfg.Reloads
	if ch == nil {
		return nil
	}

	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return nil
		}

		return ReloadMsg{Event: evt}
	}
}

// sendStatus shows a message in the status bar for [StatusMessageTimeout].
func (m *Model) sendStatus(msg string, style statusbar.Style) tea.Cmd {
	m.status.id++
	m.status.message = msg
	m.status.style = style

	id := m.status.id

	return tea.Tick(StatusMessageTimeout, func(time.Time) tea.Msg {
		return statusTimeoutMsg{id: id}
	})
}

func (m *Model) fail(err error) tea.Cmd {
	slog.Error("table", slog.Any("err", err))

	return m.sendStatus(err.Error(), statusbar.StyleError)
}

func (m *Model) resize() {
	h := m.height - 2 // Footer and status bar.
	if m.filter.Focused() || m.filter.Value() != "" {
		h--
	}
	if m.showHelp {
		h -= m.help.Height(m.width)
	}

	m.table.SetWidth(m.width)
	m.table.SetHeight(max(h, minTableHeight))
	m.detail.SetSize(m.width, m.height)
}

// selectedRow returns the row under the cursor, or nil when the page is empty.
func (m *Model) selectedRow() rows.Row {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return nil
	}

	return m.visible[i]
}

// detailView lists every cell of the selected row, one per line.
func (m *Model) detailView() string {
	r := m.selectedRow()
	if r == nil {
		return ""
	}

	cols := m.source.Columns()

	width := 0
	for _, c := range cols {
		width = max(width, ansi.PrintableRuneWidth(c.Header()))
	}

	lines := make([]string, 0, len(cols))
	for _, c := range cols {
		h := c.Header()
		pad := strings.Repeat(" ", width-ansi.PrintableRuneWidth(h))
		lines = append(lines, m.theme.SubtleStyle.Render(h)+pad+"  "+r.Cell(c.Key))
	}

	return strings.Join(lines, "\n")
}

func (m *Model) helpColumns() *keys.HelpRenderer {
	nkb := m.nav.KeyBinds()

	kbr := &keys.HelpRenderer{}
	kbr.AddColumn(*nkb.Previous, *nkb.Next, *nkb.First, *nkb.Last)
	kbr.AddColumn(*nkb.SkipBack, *nkb.SkipForward, *nkb.Jump, *nkb.Smaller, *nkb.Larger)
	kbr.AddColumn(*m.kb.Up, *m.kb.Down, *m.kb.Filter, *m.kb.Escape, *m.kb.Copy)
	kbr.AddColumn(*m.kb.Detail, *m.kb.Reload, *m.kb.Help, *m.kb.Quit)

	return kbr
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.table.View())
	b.WriteString("\n")

	if m.filter.Focused() || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}

	b.WriteString(m.footer().Render())
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(m.help.View(m.width))
		b.WriteString("\n")
	}

	b.WriteString(m.statusBar())

	if m.showDetail {
		if d := m.detailView(); d != "" {
			return m.detail.Place(b.String(), d, detailWidthFraction, m.theme.DetailStyle)
		}
	}

	return b.String()
}

func (m *Model) footer() footer {
	f := footer{
		theme:    m.theme,
		policy:   m.ctrl.Policy(),
		snap:     m.ctrl.Snapshot(),
		pageSize: m.ctrl.State().PageSize,
		jumpHint: m.nav.KeyBinds().Jump.String(),
		width:    m.width,
	}
	if m.loading {
		f.loading = m.spinner.View()
	}
	if m.jump.Focused() {
		f.jump = m.jump.View()
	}

	return f
}

func (m *Model) statusBar() string {
	note := m.cfg.Title
	if l, ok := m.source.(rows.Local); ok && m.query != "" {
		note += fmt.Sprintf(" (%s of %s match)",
			humanize.Comma(int64(len(m.all))), humanize.Comma(int64(l.Len())))
	}

	info := ""
	if m.ctrl.Policy().Active {
		snap := m.ctrl.Snapshot()
		info = fmt.Sprintf("page %d/%d", snap.CurrentPage, max(snap.PageCount, 1))
	}

	var opts []statusbar.StatusBarOpt
	if m.status.message != "" {
		opts = append(opts, statusbar.WithMessage(m.status.message, m.status.style))
	}

	return statusbar.NewStatusBarRenderer(m.theme, m.width, opts...).Render(note, info)
}

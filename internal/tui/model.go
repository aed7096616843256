// Package tui is the interactive terminal explorer: a search bar, a
// timeline pane and a force-directed graph pane.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"charm.land/bubbles/v2/progress"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/raphaelgruber/etymon/internal/explorer"
	"github.com/raphaelgruber/etymon/internal/layout"
	"github.com/raphaelgruber/etymon/internal/models"
	"github.com/raphaelgruber/etymon/internal/service"
)

// wideWidth is the minimum terminal width that shows both panes side by side.
const wideWidth = 100

type focus int

const (
	focusSearch focus = iota
	focusTimeline
	focusGraph
)

const (
	zoomStep     = 1.25
	panCols      = 4
	panRows      = 2
	dragCols     = 2
	dragRows     = 1
	detailHeight = 10
)

// Options configures the explorer UI.
type Options struct {
	Fetcher  service.Fetcher
	Word     string
	Language string
	Logger   *slog.Logger
}

// Model is the bubbletea model for the explorer.
type Model struct {
	ctx     context.Context
	fetcher service.Fetcher
	logger  *slog.Logger
	theme   Theme

	exp     *explorer.Explorer
	pending *explorer.Request

	input     textinput.Model
	languages []string
	langIdx   int
	focus     focus

	width, height int
	cursor        int

	sim      *layout.Simulation
	gen      int
	ticking  bool
	view     layout.Viewport
	autoFit  bool
	dragging bool
	progress progress.Model

	notice   string
	quitting bool
}

// New creates the model and submits the startup query.
func New(ctx context.Context, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = "Enter a word"
	input.CharLimit = 64
	input.SetValue(opts.Word)
	input.Focus()

	languages := append([]string(nil), models.Languages...)
	idx := models.LanguageIndex(opts.Language)
	if idx < 0 && strings.TrimSpace(opts.Language) != "" {
		languages = append(languages, strings.TrimSpace(opts.Language))
		idx = len(languages) - 1
	}
	idx = max(idx, 0)

	m := Model{
		ctx:       ctx,
		fetcher:   opts.Fetcher,
		logger:    logger,
		theme:     defaultTheme,
		exp:       explorer.New(),
		input:     input,
		languages: languages,
		langIdx:   idx,
		view:      layout.NewViewport(0, 0),
		progress: progress.New(
			progress.WithDefaultBlend(),
			progress.WithWidth(20),
			progress.WithoutPercentage(),
		),
	}

	if req, ok := m.exp.Submit(opts.Word, languages[idx]); ok {
		m.pending = &req
		logger.Info("startup query", "word", req.Query.Word, "language", req.Query.Language, "seq", req.Seq)
	}
	return m
}

// Init starts cursor blinking and the startup fetch.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.progress.Init()}
	if m.pending != nil {
		cmds = append(cmds, fetchCmd(m.ctx, m.fetcher, *m.pending))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case fetchDoneMsg:
		return m.handleResult(msg.result)

	case frameMsg:
		if msg.gen != m.gen || m.sim == nil {
			return m, nil
		}
		m.sim.Tick(ticksPerFrame)
		if m.sim.Running() {
			return m, frameCmd(m.gen)
		}
		m.ticking = false
		return m, nil

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleResult(r explorer.Result) (tea.Model, tea.Cmd) {
	if !m.exp.Resolve(r) {
		m.logger.Debug("discarding stale result", "seq", r.Seq)
		return m, nil
	}
	q := m.exp.Query()
	if m.exp.Status() != explorer.StatusSuccess {
		m.logger.Error("fetch failed", "word", q.Word, "language", q.Language, "seq", r.Seq, "error", r.Err)
		return m, nil
	}

	m.logger.Info("fetch succeeded", "word", q.Word, "language", q.Language, "seq", r.Seq,
		"nodes", len(r.Data.Graph.Nodes), "links", len(r.Data.Graph.Links))
	return m, m.resetGraph(r.Data.Graph)
}

// resetGraph disposes the previous simulation and seeds one for g.
func (m *Model) resetGraph(g models.Graph) tea.Cmd {
	if m.sim != nil {
		m.sim.Stop()
	}
	m.gen++
	m.sim = layout.NewSimulation(g)
	m.view.Reset()
	m.autoFit = true
	m.dragging = false
	m.cursor = 0
	m.ticking = true
	return frameCmd(m.gen)
}

// ensureTicking restarts the frame loop after the simulation was reheated.
func (m *Model) ensureTicking() tea.Cmd {
	if m.ticking || m.sim == nil || !m.sim.Running() {
		return nil
	}
	m.ticking = true
	return frameCmd(m.gen)
}

func (m *Model) submit() tea.Cmd {
	m.endDrag()
	req, ok := m.exp.Submit(m.input.Value(), m.languages[m.langIdx])
	if !ok {
		return nil
	}
	m.logger.Info("query submitted", "word", req.Query.Word, "language", req.Query.Language, "seq", req.Seq)
	return fetchCmd(m.ctx, m.fetcher, req)
}

func (m *Model) retry() tea.Cmd {
	if m.exp.Status() != explorer.StatusError {
		return nil
	}
	req, ok := m.exp.Retry()
	if !ok {
		return nil
	}
	m.logger.Info("retrying query", "word", req.Query.Word, "language", req.Query.Language, "seq", req.Seq)
	return fetchCmd(m.ctx, m.fetcher, req)
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		m.stop()
		return m, tea.Quit
	case "tab":
		m.setFocus((m.focus + 1) % 3)
		return m, nil
	case "shift+tab":
		m.setFocus((m.focus + 2) % 3)
		return m, nil
	case "ctrl+r":
		return m, m.retry()
	}

	if m.focus == focusSearch {
		return m.searchKey(msg)
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		m.stop()
		return m, tea.Quit
	case "/":
		m.setFocus(focusSearch)
		return m, nil
	case "r":
		return m, m.retry()
	}

	if m.focus == focusTimeline {
		return m.timelineKey(msg)
	}
	return m.graphKey(msg)
}

func (m Model) searchKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m, m.submit()
	case "up":
		m.langIdx = (m.langIdx - 1 + len(m.languages)) % len(m.languages)
		return m, nil
	case "down":
		m.langIdx = (m.langIdx + 1) % len(m.languages)
		return m, nil
	case "esc":
		m.setFocus(focusTimeline)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) timelineKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	data := m.exp.Data()
	if data == nil || len(data.Timeline) == 0 {
		return m, nil
	}
	switch msg.String() {
	case "up", "k":
		m.cursor = max(0, m.cursor-1)
	case "down", "j":
		m.cursor = min(len(data.Timeline)-1, m.cursor+1)
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = max(0, len(data.Timeline)-1)
	case "enter":
		m.endDrag()
		if m.exp.SelectStep(m.cursor) {
			m.focus = focusGraph
		} else {
			m.notice = "No matching node in the graph"
		}
	case "esc":
		m.endDrag()
		m.exp.ClearSelection()
	}
	return m, nil
}

func (m Model) graphKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.sim == nil {
		return m, nil
	}
	key := msg.String()

	if m.dragging {
		dx, dy := 0, 0
		switch key {
		case "left", "h":
			dx = -dragCols
		case "right", "l":
			dx = dragCols
		case "up", "k":
			dy = -dragRows
		case "down", "j":
			dy = dragRows
		case "m", "enter", "esc":
			m.endDrag()
			return m, nil
		default:
			return m, nil
		}
		id := m.exp.SelectedID()
		if p, ok := m.sim.Position(id); ok {
			col, row, _ := m.view.Project(p.X, p.Y)
			x, y := m.view.Unproject(col+dx, row+dy)
			m.sim.DragTo(id, x, y)
		}
		return m, m.ensureTicking()
	}

	switch key {
	case "left", "h":
		m.freezeView()
		m.view.Pan(-panCols, 0)
	case "right", "l":
		m.freezeView()
		m.view.Pan(panCols, 0)
	case "up", "k":
		m.freezeView()
		m.view.Pan(0, -panRows)
	case "down", "j":
		m.freezeView()
		m.view.Pan(0, panRows)
	case "+", "=":
		m.freezeView()
		m.view.ZoomBy(zoomStep)
	case "-", "_":
		m.freezeView()
		m.view.ZoomBy(1 / zoomStep)
	case "0":
		m.autoFit = true
	case "n":
		m.cycleNode(1)
	case "p", "N":
		m.cycleNode(-1)
	case "enter":
		if m.exp.SelectedID() == "" {
			m.cycleNode(1)
		}
	case "m":
		id := m.exp.SelectedID()
		if id != "" && m.sim.DragStart(id) {
			m.freezeView()
			m.dragging = true
			return m, m.ensureTicking()
		}
	case "esc":
		m.exp.ClearSelection()
	}
	return m, nil
}

// cycleNode moves the selection by delta through the nodes in graph order.
func (m *Model) cycleNode(delta int) {
	data := m.exp.Data()
	if data == nil || len(data.Graph.Nodes) == 0 {
		return
	}
	nodes := data.Graph.Nodes
	next := 0
	if delta < 0 {
		next = len(nodes) - 1
	}
	for i, n := range nodes {
		if n.ID == m.exp.SelectedID() {
			next = (i + delta + len(nodes)) % len(nodes)
			break
		}
	}
	m.exp.SelectNode(nodes[next].ID)
}

func (m *Model) endDrag() {
	if !m.dragging {
		return
	}
	if m.sim != nil {
		m.sim.DragEnd(m.exp.SelectedID())
	}
	m.dragging = false
}

// stop disposes the running simulation when the view is torn down.
func (m *Model) stop() {
	if m.sim != nil {
		m.sim.Stop()
	}
}

// setFocus moves keyboard focus. On narrow terminals the visible pane
// follows the focus.
func (m *Model) setFocus(f focus) {
	m.focus = f
	m.notice = ""
	switch f {
	case focusSearch:
		m.input.Focus()
	case focusTimeline:
		m.input.Blur()
		m.exp.SetPane(explorer.PaneTimeline)
	case focusGraph:
		m.input.Blur()
		m.exp.SetPane(explorer.PaneGraph)
	}
}

// freezeView stops auto-fitting and keeps the currently fitted view so
// manual pan and zoom start from what is on screen.
func (m *Model) freezeView() {
	if !m.autoFit {
		return
	}
	m.view = m.fittedView()
	m.autoFit = false
}

// fittedView returns the viewport sized to the graph canvas, fitted to
// the current node positions when auto-fit is on.
func (m Model) fittedView() layout.Viewport {
	w, h := m.graphCanvasSize()
	v := m.view
	v.Resize(w, h)
	if m.autoFit && m.sim != nil {
		v.Fit(m.sim.Positions())
	}
	return v
}

// View renders the explorer.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.WindowTitle = "etymon"
	return v
}

func (m Model) render() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading...\n"
	}

	header := m.renderHeader()
	status := m.renderStatus()
	footer := m.renderFooter()

	bodyH := m.height - lipgloss.Height(header) - lipgloss.Height(status) - lipgloss.Height(footer)
	body := m.renderBody(bodyH)

	return lipgloss.JoinVertical(lipgloss.Left, header, status, body, footer)
}

func (m Model) renderHeader() string {
	title := m.theme.titleStyle().Render("etymon")

	lang := m.languages[m.langIdx]
	langStyle := lipgloss.NewStyle()
	if m.focus == focusSearch {
		langStyle = langStyle.Foreground(m.theme.Focus)
	}
	selector := langStyle.Render("◂ " + lang + " ▸")

	return title + "  " + m.input.View() + "  " + selector
}

func (m Model) renderStatus() string {
	width := max(m.width, 10)
	var lines []string
	switch m.exp.Status() {
	case explorer.StatusIdle:
		lines = []string{m.theme.hintStyle().Render("Type a word and press enter")}
	case explorer.StatusLoading:
		q := m.exp.Query()
		lines = []string{m.theme.statusStyle().Render(fmt.Sprintf("Tracing %q in %s...", q.Word, q.Language))}
	case explorer.StatusError:
		lines = []string{m.theme.errorStyle().Render("✗ "+m.exp.Err()) + m.theme.hintStyle().Render("  press r to retry")}
	case explorer.StatusSuccess:
		if data := m.exp.Data(); data != nil {
			summary := wrap(data.Summary, width)
			if len(summary) > 2 {
				summary = summary[:2]
				summary[1] = truncate(summary[1]+" …", width)
			}
			for _, l := range summary {
				lines = append(lines, m.theme.dimStyle().Render(l))
			}
		}
	}
	if m.notice != "" {
		lines = append(lines, m.theme.hintStyle().Render(m.notice))
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	var help string
	switch m.focus {
	case focusSearch:
		help = "enter search • ↑/↓ language • tab panes • ctrl+c quit"
	case focusTimeline:
		help = "↑/↓ move • enter show in graph • / search • tab next • q quit"
	case focusGraph:
		if m.dragging {
			help = "←↑↓→ move node • m/esc release"
		} else {
			help = "←↑↓→ pan • +/- zoom • 0 fit • n/p node • m drag • esc clear • q quit"
		}
	}
	if m.exp.Status() == explorer.StatusError && m.focus != focusSearch {
		help += " • r retry"
	}
	return m.theme.hintStyle().Render(truncate(help, max(m.width, 1)))
}

func (m Model) wide() bool {
	return m.width >= wideWidth
}

// paneWidths returns the outer widths of the timeline and graph panes.
// In narrow mode only one pane is shown at full width.
func (m Model) paneWidths() (timeline, graph int) {
	if !m.wide() {
		return m.width, m.width
	}
	timeline = max(30, m.width*2/5)
	return timeline, m.width - timeline
}

// bodyHeight returns the rows available to panes, matching render.
func (m Model) bodyHeight() int {
	h := m.height - lipgloss.Height(m.renderHeader()) - lipgloss.Height(m.renderStatus()) - lipgloss.Height(m.renderFooter())
	if !m.wide() {
		h-- // tab bar
	}
	return h
}

// graphCanvasSize returns the cells available for drawing the graph.
func (m Model) graphCanvasSize() (w, h int) {
	_, gw := m.paneWidths()
	w = gw - 2
	h = m.bodyHeight() - 2 - 1 // border, pane title
	if m.exp.SelectedID() != "" {
		h -= detailHeight
	}
	return max(w, 0), max(h, 0)
}

func (m Model) renderBody(height int) string {
	if height < 4 {
		return ""
	}
	tw, gw := m.paneWidths()

	if m.wide() {
		timeline := m.renderTimeline(tw, height)
		graph := m.renderGraph(gw, height)
		return lipgloss.JoinHorizontal(lipgloss.Top, timeline, graph)
	}

	tabs := m.renderTabs()
	var pane string
	if m.exp.ActivePane() == explorer.PaneGraph {
		pane = m.renderGraph(gw, height-1)
	} else {
		pane = m.renderTimeline(tw, height-1)
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabs, pane)
}

func (m Model) renderTabs() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Focus)
	inactive := m.theme.hintStyle()
	tl, gr := inactive.Render(" Timeline "), inactive.Render(" Graph ")
	if m.exp.ActivePane() == explorer.PaneGraph {
		gr = active.Render("[Graph]")
	} else {
		tl = active.Render("[Timeline]")
	}
	return tl + " " + gr
}

func (m Model) renderTimeline(width, height int) string {
	innerW, innerH := max(width-2, 1), max(height-2, 1)
	title := lipgloss.NewStyle().Bold(true).Render("Timeline")

	var content string
	data := m.exp.Data()
	switch {
	case data == nil:
		content = m.theme.hintStyle().Render("Nothing to show yet")
	case len(data.Timeline) == 0:
		content = m.theme.hintStyle().Render("No timeline for this word")
	default:
		lines, start, end := timelineLines(data.Timeline, m.cursor, innerW, m.focus == focusTimeline, m.theme)
		visible := innerH - 1
		off := scrollWindow(0, start, end, visible, len(lines))
		lines = lines[off:min(len(lines), off+visible)]
		for i, l := range lines {
			lines[i] = truncateStyled(l, innerW)
		}
		content = strings.Join(lines, "\n")
	}

	return m.theme.paneStyle(m.focus == focusTimeline).
		Width(innerW).Height(innerH).
		Render(title + "\n" + content)
}

func (m Model) renderGraph(width, height int) string {
	innerW, innerH := max(width-2, 1), max(height-2, 1)
	title := lipgloss.NewStyle().Bold(true).Render("Graph")
	if m.sim != nil && m.sim.Running() {
		title += "  " + m.theme.hintStyle().Render("settling ") + m.progress.ViewAs(m.sim.Progress())
	}

	data := m.exp.Data()
	var content string
	if data == nil || m.sim == nil {
		content = m.theme.hintStyle().Render("Nothing to show yet")
	} else {
		view := m.fittedView()
		scene := graphScene{
			graph:    data.Graph,
			sim:      m.sim,
			view:     view,
			selected: m.exp.SelectedID(),
			dragging: m.dragging,
			theme:    m.theme,
		}
		content = scene.render()
		if node, ok := m.exp.Selected(); ok {
			content += "\n" + m.renderDetail(node, data.Graph, innerW)
		}
	}

	return m.theme.paneStyle(m.focus == focusGraph).
		Width(innerW).Height(innerH).
		Render(title + "\n" + content)
}

func (m Model) renderDetail(n models.GraphNode, g models.Graph, width int) string {
	lines := detailLines(n, g, m.theme)
	for i, l := range lines {
		lines[i] = truncateStyled(l, max(width-4, 1))
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.nodeColor(n.Kind)).
		Padding(0, 1).
		Width(max(width-2, 1)).
		Height(detailHeight - 2)
	hint := m.theme.hintStyle().Render("esc close")
	return box.Render(strings.Join(lines, "\n") + "\n" + hint)
}

// truncateStyled clips a possibly styled line to width columns.
func truncateStyled(s string, width int) string {
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}

package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/raphaelgruber/etymon/internal/layout"
	"github.com/raphaelgruber/etymon/internal/models"
)

// graphScene is everything needed to draw one frame of the graph pane.
type graphScene struct {
	graph    models.Graph
	sim      *layout.Simulation
	view     layout.Viewport
	selected string
	dragging bool
	theme    Theme
}

// render draws links, then nodes, then labels, so labels stay readable.
// When a node is selected, every other node and every link not touching it is dimmed.
func (s graphScene) render() string {
	c := newCanvas(s.view.Width, s.view.Height)
	if s.sim == nil {
		return c.render()
	}

	type placed struct {
		node     models.GraphNode
		col, row int
		visible  bool
	}
	nodes := make(map[string]placed, len(s.graph.Nodes))
	for _, n := range s.graph.Nodes {
		p, ok := s.sim.Position(n.ID)
		if !ok {
			continue
		}
		col, row, visible := s.view.Project(p.X, p.Y)
		nodes[n.ID] = placed{node: n, col: col, row: row, visible: visible}
	}

	dimmed := func(ids ...string) bool {
		if s.selected == "" {
			return false
		}
		for _, id := range ids {
			if id == s.selected {
				return false
			}
		}
		return true
	}
	dim := c.style("dim", s.theme.dimStyle())

	for _, l := range s.graph.ResolvedLinks() {
		a, b := nodes[l.Source], nodes[l.Target]
		style := dim
		if !dimmed(l.Source, l.Target) {
			style = c.style("link:"+string(l.Kind), lipgloss.NewStyle().Foreground(s.theme.linkColor(l.Kind)))
		}
		c.line(a.col, a.row, b.col, b.row, l.Kind.Dashed(), style)
	}

	// Selected node last so its glyph and label win overlaps.
	order := make([]placed, 0, len(nodes))
	var sel *placed
	for _, n := range s.graph.Nodes {
		p, ok := nodes[n.ID]
		if !ok {
			continue
		}
		if n.ID == s.selected {
			sel = &p
			continue
		}
		order = append(order, p)
	}
	if sel != nil {
		order = append(order, *sel)
	}

	for _, p := range order {
		if !p.visible {
			continue
		}
		id := p.node.ID
		glyphStyle, labelStyle := dim, dim
		switch {
		case id == s.selected:
			st := lipgloss.NewStyle().Foreground(s.theme.nodeColor(p.node.Kind)).Bold(true)
			glyphStyle = c.style("sel:"+string(p.node.Kind), st)
			labelStyle = c.style("sel-label", lipgloss.NewStyle().Bold(true).Underline(true))
		case !dimmed(id):
			glyphStyle = c.style("node:"+string(p.node.Kind), lipgloss.NewStyle().Foreground(s.theme.nodeColor(p.node.Kind)))
			labelStyle = 0
		}

		glyph := nodeGlyph(p.node.Kind)
		if id == s.selected && s.dragging {
			glyph = '✥'
		}
		c.set(p.col, p.row, glyph, glyphStyle)
		c.text(p.col+2, p.row, p.node.DisplayName(), labelStyle)
	}

	return c.render()
}

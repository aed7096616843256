package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/raphaelgruber/etymon/internal/models"
)

// timelineLines renders the steps as lines and reports the line range of
// the step under the cursor.
func timelineLines(steps []models.TimelineStep, cursor, width int, focused bool, t Theme) (lines []string, curStart, curEnd int) {
	if width < 4 {
		width = 4
	}
	for i, s := range steps {
		if i == cursor {
			curStart = len(lines)
		}
		marker := "  "
		if i == cursor && focused {
			marker = lipgloss.NewStyle().Foreground(t.Focus).Render("▌ ")
		}

		color := t.stepColor(s.Kind)
		head := lipgloss.NewStyle().Foreground(color).Render(string(stepGlyph(s.Kind))) + " " +
			lipgloss.NewStyle().Bold(true).Render(truncate(s.Era, width-6))
		if s.Year != "" {
			head += t.hintStyle().Render(" · " + s.Year)
		}
		lines = append(lines, marker+head)

		word := lipgloss.NewStyle().Foreground(color).Render(s.DisplayName())
		lines = append(lines, marker+"  "+word+t.hintStyle().Render(" "+s.Language))

		if s.Meaning != "" {
			lines = append(lines, marker+"  \""+truncate(s.Meaning, width-8)+"\"")
		}
		for _, l := range wrap(s.Description, width-4) {
			lines = append(lines, marker+"  "+t.dimStyle().Render(l))
		}
		if i == cursor {
			curEnd = len(lines)
		}
		if i < len(steps)-1 {
			lines = append(lines, "  "+t.dimStyle().Render("│"))
		}
	}
	return lines, curStart, curEnd
}

// scrollWindow returns the first line to show so that [start, end) is
// visible in a window of height lines, moving as little as possible from offset.
func scrollWindow(offset, start, end, height, total int) int {
	if height <= 0 {
		return 0
	}
	if end-start > height {
		end = start + height
	}
	if start < offset {
		offset = start
	}
	if end > offset+height {
		offset = end - height
	}
	return max(0, min(offset, max(0, total-height)))
}

// detailLines renders the node detail overlay content.
func detailLines(n models.GraphNode, g models.Graph, t Theme) []string {
	title := lipgloss.NewStyle().Foreground(t.nodeColor(n.Kind)).Bold(true).
		Render(string(nodeGlyph(n.Kind)) + " " + n.Label)
	lines := []string{title}
	field := func(name, value string) {
		if value == "" {
			return
		}
		lines = append(lines, t.hintStyle().Render(fmt.Sprintf("%-16s", name))+value)
	}
	field("Language", n.Language)
	field("Era", n.Era)
	field("Transliteration", n.Transliteration)
	field("Kind", string(n.Kind))
	field("Definition", n.Definition)

	var linked []string
	for _, id := range g.Neighbors(n.ID) {
		if other, ok := g.Node(id); ok {
			linked = append(linked, other.Label)
		}
	}
	field("Linked", strings.Join(linked, ", "))
	return lines
}

// truncate shortens s to at most n columns, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= n {
		return s
	}
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if w+rw > n-1 {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String() + "…"
}

// wrap breaks s into lines of at most width columns on spaces.
func wrap(s string, width int) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if width < 8 {
		return []string{truncate(s, max(width, 1))}
	}
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(s) {
		ww := lipgloss.Width(word)
		cw := lipgloss.Width(cur.String())
		if cw > 0 && cw+1+ww > width {
			lines = append(lines, cur.String())
			cur.Reset()
			cw = 0
		}
		if cw > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(truncate(word, width))
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

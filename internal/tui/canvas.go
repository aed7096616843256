package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// cell is one terminal position. style indexes the canvas palette; a
// continuation cell is the right half of a wide rune and is not printed.
type cell struct {
	r     rune
	style int
	cont  bool
}

// canvas is a fixed-size character grid with a style palette.
type canvas struct {
	w, h    int
	cells   [][]cell
	palette []lipgloss.Style
	ids     map[string]int
}

func newCanvas(w, h int) *canvas {
	w, h = max(w, 0), max(h, 0)
	c := &canvas{
		w:       w,
		h:       h,
		cells:   make([][]cell, h),
		palette: []lipgloss.Style{lipgloss.NewStyle()},
		ids:     map[string]int{"": 0},
	}
	for y := range c.cells {
		row := make([]cell, w)
		for x := range row {
			row[x] = cell{r: ' '}
		}
		c.cells[y] = row
	}
	return c
}

// style registers s under key and returns its palette index.
func (c *canvas) style(key string, s lipgloss.Style) int {
	if id, ok := c.ids[key]; ok {
		return id
	}
	c.palette = append(c.palette, s)
	id := len(c.palette) - 1
	c.ids[key] = id
	return id
}

func (c *canvas) inside(x, y int) bool {
	return x >= 0 && x < c.w && y >= 0 && y < c.h
}

// set writes r at (x, y) unless the position is outside the grid.
func (c *canvas) set(x, y int, r rune, style int) {
	if !c.inside(x, y) {
		return
	}
	c.clearWide(x, y)
	c.cells[y][x] = cell{r: r, style: style}
}

// clearWide blanks the other half of a wide rune overlapping (x, y).
func (c *canvas) clearWide(x, y int) {
	row := c.cells[y]
	if row[x].cont && x > 0 {
		row[x-1] = cell{r: ' '}
	}
	if x+1 < c.w && row[x+1].cont {
		row[x+1] = cell{r: ' '}
	}
}

// text writes s starting at (x, y), clipping at the right edge.
// Returns the number of columns written.
func (c *canvas) text(x, y int, s string, style int) int {
	if y < 0 || y >= c.h {
		return 0
	}
	col := x
	for _, r := range s {
		w := lipgloss.Width(string(r))
		if w == 0 {
			continue
		}
		if col+w > c.w {
			break
		}
		if col >= 0 {
			c.set(col, y, r, style)
			if w == 2 {
				c.clearWide(col+1, y)
				c.cells[y][col+1] = cell{cont: true, style: style}
			}
		}
		col += w
	}
	return col - x
}

// line draws a line from (x0, y0) to (x1, y1) with Bresenham stepping.
// Dashed lines leave every other cell empty. Endpoints are not drawn so
// node glyphs stay visible.
func (c *canvas) line(x0, y0, x1, y1 int, dashed bool, style int) {
	ch := lineRune(x1-x0, y1-y0)
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	x, y := x0, y0
	for i := 0; ; i++ {
		endpoint := (x == x0 && y == y0) || (x == x1 && y == y1)
		if !endpoint && (!dashed || i%2 == 0) {
			c.set(x, y, ch, style)
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// lineRune picks a character approximating the slope of (dx, dy).
// Rows are about twice as tall as columns.
func lineRune(dx, dy int) rune {
	adx, ady := abs(dx), abs(dy)*2
	switch {
	case ady == 0 || adx > 2*ady:
		return '─'
	case adx == 0 || ady > 2*adx:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

// render returns the grid as text, styling runs of equal style together.
func (c *canvas) render() string {
	var b strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		current := -1
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if current == 0 {
				b.WriteString(run.String())
			} else {
				b.WriteString(c.palette[current].Render(run.String()))
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.cont {
				continue
			}
			if cl.style != current {
				flush()
				current = cl.style
			}
			run.WriteRune(cl.r)
		}
		flush()
	}
	return b.String()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

package layout

import "math"

// Zoom bounds.
const (
	MinZoom = 0.25
	MaxZoom = 4.0
)

// Default world units covered by one terminal cell at zoom 1.
// Cells are roughly twice as tall as they are wide.
const (
	DefaultCellWidth  = 8.0
	DefaultCellHeight = 16.0
)

// Viewport maps world coordinates onto a grid of terminal cells.
// The world point (CenterX, CenterY) is drawn in the middle of the grid.
type Viewport struct {
	Width, Height int

	CenterX, CenterY float64
	Zoom             float64

	CellWidth, CellHeight float64
}

// NewViewport returns a viewport of the given size centered on the origin at zoom 1.
func NewViewport(width, height int) Viewport {
	return Viewport{
		Width:      width,
		Height:     height,
		Zoom:       1,
		CellWidth:  DefaultCellWidth,
		CellHeight: DefaultCellHeight,
	}
}

// Resize changes the grid size, keeping the center and zoom.
func (v *Viewport) Resize(width, height int) {
	v.Width, v.Height = width, height
}

// Reset recenters on the origin at zoom 1.
func (v *Viewport) Reset() {
	v.CenterX, v.CenterY = 0, 0
	v.Zoom = 1
}

// Pan moves the view by dx columns and dy rows. Positive values reveal
// content to the right and below.
func (v *Viewport) Pan(dx, dy int) {
	v.CenterX += float64(dx) * v.CellWidth / v.Zoom
	v.CenterY += float64(dy) * v.CellHeight / v.Zoom
}

// ZoomBy multiplies the zoom by factor, clamped to [MinZoom, MaxZoom].
func (v *Viewport) ZoomBy(factor float64) {
	v.SetZoom(v.Zoom * factor)
}

// SetZoom sets the zoom, clamped to [MinZoom, MaxZoom].
func (v *Viewport) SetZoom(z float64) {
	if math.IsNaN(z) {
		return
	}
	v.Zoom = math.Max(MinZoom, math.Min(MaxZoom, z))
}

// Project returns the cell for a world point and whether it falls inside the grid.
func (v Viewport) Project(x, y float64) (col, row int, visible bool) {
	fc := (x-v.CenterX)*v.Zoom/v.CellWidth + float64(v.Width)/2
	fr := (y-v.CenterY)*v.Zoom/v.CellHeight + float64(v.Height)/2
	col = int(math.Floor(fc))
	row = int(math.Floor(fr))
	visible = col >= 0 && col < v.Width && row >= 0 && row < v.Height
	return col, row, visible
}

// Unproject returns the world point at the center of cell (col, row).
func (v Viewport) Unproject(col, row int) (x, y float64) {
	x = (float64(col)+0.5-float64(v.Width)/2)*v.CellWidth/v.Zoom + v.CenterX
	y = (float64(row)+0.5-float64(v.Height)/2)*v.CellHeight/v.Zoom + v.CenterY
	return x, y
}

// Fit centers on pts and picks the largest zoom that shows all of them,
// within the zoom bounds.
func (v *Viewport) Fit(pts []Point) {
	if len(pts) == 0 || v.Width <= 0 || v.Height <= 0 {
		v.Reset()
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	v.CenterX = (minX + maxX) / 2
	v.CenterY = (minY + maxY) / 2

	// Leave a margin of two cells on each side for labels.
	usableW := math.Max(1, float64(v.Width-4)) * v.CellWidth
	usableH := math.Max(1, float64(v.Height-4)) * v.CellHeight
	zx, zy := MaxZoom, MaxZoom
	if span := maxX - minX; span > 0 {
		zx = usableW / span
	}
	if span := maxY - minY; span > 0 {
		zy = usableH / span
	}
	v.SetZoom(math.Min(zx, zy))
}

package sections

// DefaultBand excludes the top 40% and the bottom 55% of the viewport,
// leaving a thin strip just above the middle of the screen.
var DefaultBand = Band{Top: 0.40, Bottom: 0.55}

// Band is the vertical slice of the viewport a region has to reach to
// become current. Top and Bottom are the fractions of viewport height cut
// away at each edge.
type Band struct {
	Top    float64
	Bottom float64
}

// Valid reports whether the band leaves a non-empty strip.
func (b Band) Valid() bool {
	return b.Top >= 0 && b.Bottom >= 0 && b.Top+b.Bottom < 1
}

// Viewport is the visible window in document coordinates.
type Viewport struct {
	ScrollY float64 `json:"scrollY"`
	Height  float64 `json:"height"`
}

// Rect is the vertical extent of a region in document coordinates.
type Rect struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// Bottom returns the end of the region.
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// Span returns the band's interval in document coordinates.
func (b Band) Span(v Viewport) (top, bottom float64) {
	top = v.ScrollY + v.Height*b.Top
	bottom = v.ScrollY + v.Height - v.Height*b.Bottom
	return top, bottom
}

// Intersect returns how much of r lies inside the band: the overlap
// length and the overlap as a fraction of the region's height.
func (b Band) Intersect(r Rect, v Viewport) (overlap, ratio float64) {
	top, bottom := b.Span(v)
	overlap = min(bottom, r.Bottom()) - max(top, r.Top)
	if overlap <= 0 {
		return 0, 0
	}
	if r.Height <= 0 {
		return overlap, 0
	}
	return overlap, overlap / r.Height
}

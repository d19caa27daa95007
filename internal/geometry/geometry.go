// Package geometry contains the dimension and rectangle types used by the
// editable-region subsystem. Sizes are persisted across sessions, so the
// types here define the canonical JSON forms as well.
package geometry

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Dimension is a single axis measurement: either a fixed pixel count or
// "auto" (let the renderer decide). The zero value is Auto.
type Dimension struct {
	px    int
	fixed bool
}

// Fixed returns a pixel dimension.
func Fixed(px int) Dimension {
	return Dimension{px: px, fixed: true}
}

// Auto is the unconstrained dimension.
var Auto = Dimension{}

// IsAuto reports whether the dimension is unconstrained.
func (d Dimension) IsAuto() bool { return !d.fixed }

// Px returns the pixel value and whether the dimension is fixed.
func (d Dimension) Px() (int, bool) { return d.px, d.fixed }

// String returns "auto" or the pixel count.
func (d Dimension) String() string {
	if !d.fixed {
		return "auto"
	}
	return strconv.Itoa(d.px)
}

// MarshalJSON encodes a fixed dimension as a JSON number and auto as the
// string "auto", matching the persisted record format.
func (d Dimension) MarshalJSON() ([]byte, error) {
	if !d.fixed {
		return json.Marshal("auto")
	}
	return json.Marshal(d.px)
}

// UnmarshalJSON accepts a number, a numeric string, or "auto".
func (d *Dimension) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*d = Fixed(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("dimension: cannot decode %q", string(data))
	}
	if s == "auto" || s == "" {
		*d = Auto
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("dimension: cannot decode %q", s)
	}
	*d = Fixed(n)
	return nil
}

// Size is a width/height pair describing an element's rendered size.
type Size struct {
	Width  Dimension `json:"width"`
	Height Dimension `json:"height"`
}

// FixedSize builds a Size with both axes fixed.
func FixedSize(w, h int) Size {
	return Size{Width: Fixed(w), Height: Fixed(h)}
}

// WidthOnly builds a Size with a fixed width and auto height.
func WidthOnly(w int) Size {
	return Size{Width: Fixed(w), Height: Auto}
}

// Aspect returns width/height when both axes are fixed and height is
// non-zero. Used to preserve an element's shape during a drag.
func (s Size) Aspect() (float64, bool) {
	w, wok := s.Width.Px()
	h, hok := s.Height.Px()
	if !wok || !hok || h == 0 {
		return 0, false
	}
	return float64(w) / float64(h), true
}

// Point is a 2D coordinate in page space.
type Point struct {
	X, Y int
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect is an element's rendered bounding box.
type Rect struct {
	X, Y, Width, Height int
}

// Contains checks if a point is inside the rect.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Translate returns the rect shifted by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Right returns the x coordinate just past the right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the y coordinate just past the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Handle identifies a corner resize handle.
type Handle int

const (
	HandleNW Handle = iota
	HandleNE
	HandleSW
	HandleSE
)

// String returns the compass name of the handle.
func (h Handle) String() string {
	switch h {
	case HandleNW:
		return "nw"
	case HandleNE:
		return "ne"
	case HandleSW:
		return "sw"
	case HandleSE:
		return "se"
	default:
		return "unknown"
	}
}

// SignX returns -1 for handles on the west side, +1 otherwise. Dragging a
// west handle toward positive x must shrink the element, not grow it.
func (h Handle) SignX() int {
	switch h {
	case HandleNW, HandleSW:
		return -1
	default:
		return 1
	}
}

// SignY returns -1 for handles on the north side, +1 otherwise.
func (h Handle) SignY() int {
	switch h {
	case HandleNW, HandleNE:
		return -1
	default:
		return 1
	}
}

// Clamp bounds the sizes a drag may produce. Apply is total: no input,
// however extreme, yields a width outside [MinWidth, MaxWidth] or a fixed
// height below MinHeight.
type Clamp struct {
	MinWidth  int
	MaxWidth  int
	MinHeight int
}

// Apply clamps both axes. Auto dimensions pass through untouched.
func (c Clamp) Apply(s Size) Size {
	if w, ok := s.Width.Px(); ok {
		s.Width = Fixed(clampInt(w, c.MinWidth, c.MaxWidth))
	}
	if h, ok := s.Height.Px(); ok {
		if h < c.MinHeight {
			h = c.MinHeight
		}
		s.Height = Fixed(h)
	}
	return s
}

// ClampWidth clamps a bare pixel width.
func (c Clamp) ClampWidth(w int) int {
	return clampInt(w, c.MinWidth, c.MaxWidth)
}

func clampInt(v, lo, hi int) int {
	if hi > 0 && v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

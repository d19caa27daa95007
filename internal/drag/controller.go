// Package drag implements the pointer-drag resize state machine. A
// controller owns at most one session at a time: Idle -> Dragging ->
// Idle, entered on pointer-down over a handle and left on pointer-up
// (persisting) or cancel (not persisting). Controllers are headless;
// callers feed them pointer coordinates from whatever input source they
// have, which keeps the machine unit-testable without a UI.
package drag

import (
	"errors"
	"math"

	"go.uber.org/zap"

	"liveedit/internal/geometry"
)

// ErrSessionActive is returned when Start is called while a session is
// already in flight. A second pointer-down is never silently merged into
// the active session.
var ErrSessionActive = errors.New("drag: session already active")

// ErrInactive is returned when Start is called while the mode gate is
// off.
var ErrInactive = errors.New("drag: resize not active")

// ErrNoWidth is returned when the starting size has no fixed width to
// resize from.
var ErrNoWidth = errors.New("drag: starting size has no fixed width")

// AspectPolicy selects how the height axis follows the width axis.
type AspectPolicy int

const (
	// AspectFromStart derives height from width using the aspect ratio
	// captured at pointer-down.
	AspectFromStart AspectPolicy = iota
	// AspectFree moves each axis independently.
	AspectFree
	// WidthOnly resizes width and forces height to auto.
	WidthOnly
)

// Session is the transient drag state between pointer-down and
// pointer-up. It is owned exclusively by its controller and discarded on
// release or cancel.
type Session struct {
	Handle      geometry.Handle
	Start       geometry.Point
	StartSize   geometry.Size
	startWidth  int
	startHeight int
	startAspect float64
	hasAspect   bool
}

// Config wires a controller to its region.
type Config struct {
	RegionID string
	Clamp    geometry.Clamp
	Policy   AspectPolicy
	// Active gates the whole machine; usually Authority.ResizeMode or
	// Authority.EditMode.
	Active func() bool
	// Store receives the final geometry on release. Nil means the
	// controller tracks size without persisting (overlay widgets hand
	// the result to their host instead).
	Store Saver
	Log   *zap.Logger
}

// Saver is the narrow view of the geometry store this package needs, so
// it does not depend on a concrete persistence type.
type Saver interface {
	Save(regionID string, s geometry.Size)
}

// Controller runs one region's resize state machine.
type Controller struct {
	cfg     Config
	log     *zap.Logger
	session *Session
	current geometry.Size
}

// New builds an idle controller.
func New(cfg Config) *Controller {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	return &Controller{cfg: cfg, log: cfg.Log}
}

// Dragging reports whether a session is in flight.
func (c *Controller) Dragging() bool { return c.session != nil }

// Start enters Dragging. It records the pointer origin and the element's
// current rendered size; the session exists until End or Cancel.
func (c *Controller) Start(h geometry.Handle, at geometry.Point, size geometry.Size) error {
	if c.cfg.Active != nil && !c.cfg.Active() {
		return ErrInactive
	}
	if c.session != nil {
		return ErrSessionActive
	}
	w, ok := size.Width.Px()
	if !ok {
		return ErrNoWidth
	}

	s := &Session{Handle: h, Start: at, StartSize: size, startWidth: w}
	if hgt, ok := size.Height.Px(); ok {
		s.startHeight = hgt
	}
	if aspect, ok := size.Aspect(); ok {
		s.startAspect = aspect
		s.hasAspect = true
	}
	c.session = s
	c.current = size
	return nil
}

// Move recomputes the size from the pointer delta. The new size is
// returned for immediate visual feedback; no throttling. If the mode
// gate flipped off mid-drag the session is force-cancelled and Move
// reports false.
func (c *Controller) Move(at geometry.Point) (geometry.Size, bool) {
	if c.session == nil {
		return geometry.Size{}, false
	}
	if c.cfg.Active != nil && !c.cfg.Active() {
		// Mode revoked mid-session: the drag stops responding rather
		// than mutating geometry the user can no longer see handles for.
		c.Cancel()
		return geometry.Size{}, false
	}

	s := c.session
	delta := at.Sub(s.Start)
	width := s.startWidth + delta.X*s.Handle.SignX()
	width = c.cfg.Clamp.ClampWidth(width)

	size := geometry.Size{Width: geometry.Fixed(width)}
	switch c.cfg.Policy {
	case AspectFromStart:
		if s.hasAspect {
			h := int(math.Round(float64(width) / s.startAspect))
			size.Height = geometry.Fixed(h)
		} else {
			size.Height = geometry.Auto
		}
	case AspectFree:
		if _, ok := s.StartSize.Height.Px(); ok {
			size.Height = geometry.Fixed(s.startHeight + delta.Y*s.Handle.SignY())
		} else {
			size.Height = geometry.Auto
		}
	case WidthOnly:
		size.Height = geometry.Auto
	}

	size = c.cfg.Clamp.Apply(size)
	c.current = size
	return size, true
}

// End leaves Dragging via pointer-up. The final geometry is persisted
// unconditionally, even when nothing changed; re-saving identical
// geometry is harmless.
func (c *Controller) End() (geometry.Size, bool) {
	if c.session == nil {
		return geometry.Size{}, false
	}
	final := c.current
	c.session = nil
	if c.cfg.Store != nil {
		c.cfg.Store.Save(c.cfg.RegionID, final)
	}
	return final, true
}

// Cancel leaves Dragging without persisting. Safe to call while idle;
// component unmount calls it to stop a stale session from mutating a
// detached element.
func (c *Controller) Cancel() {
	c.session = nil
}

// Current returns the last computed size, or the start size before any
// movement.
func (c *Controller) Current() geometry.Size { return c.current }

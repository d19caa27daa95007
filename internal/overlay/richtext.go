package overlay

import (
	"fmt"

	"go.uber.org/zap"

	"liveedit/internal/drag"
	"liveedit/internal/geometry"
)

// HandleSize is the edge length of a corner drag handle, in page units.
const HandleSize = 8

// Highlighter is the highlight-only selection widget for inline images
// in a rich-text document: a non-interactive dashed rectangle over the
// clicked image. Exactly one rectangle exists at a time; selecting a
// second image replaces the first.
type Highlighter struct {
	host     RichTextHost
	selected *ImageRef
	box      geometry.Rect
}

// NewHighlighter attaches the widget to a rich-text host.
func NewHighlighter(host RichTextHost) *Highlighter {
	return &Highlighter{host: host}
}

// Click handles a click in the document. Clicking an image selects it;
// clicking anything else removes the rectangle.
func (h *Highlighter) Click(p geometry.Point) {
	ref, ok := h.host.ImageAt(p)
	if !ok {
		h.selected = nil
		return
	}
	h.selected = &ref
	h.reposition()
}

// Box returns the highlight rectangle, positioned over the image's
// rendered bounds minus the container scroll offset.
func (h *Highlighter) Box() (geometry.Rect, bool) {
	if h.selected == nil {
		return geometry.Rect{}, false
	}
	return h.box, true
}

// Scroll repositions the rectangle without dropping the selection.
func (h *Highlighter) Scroll() {
	h.reposition()
}

// Detach clears the selection and releases the host. The widget holds
// no other resources, so after Detach nothing references the document.
func (h *Highlighter) Detach() {
	h.selected = nil
	h.host = nil
}

func (h *Highlighter) reposition() {
	if h.selected == nil || h.host == nil {
		return
	}
	bounds, ok := h.host.ImageBounds(*h.selected)
	if !ok {
		// Image left the document; drop the selection.
		h.selected = nil
		return
	}
	scroll := h.host.ScrollOffset()
	h.box = bounds.Translate(-scroll.X, -scroll.Y)
}

// Resizer is the full selection widget: the highlight box plus four
// draggable corner handles and a live size label. Dragging a handle
// resizes the image preserving its aspect ratio at drag start; release
// applies the width to the host (height auto) and asks it to re-sync
// silently. Escape or an outside click removes everything, leaving the
// image exactly as it was before the drag began.
type Resizer struct {
	host  RichTextHost
	clamp geometry.Clamp
	log   *zap.Logger

	selected *ImageRef
	box      geometry.Rect
	ctrl     *drag.Controller
}

// NewResizer attaches the resize widget to a rich-text host.
func NewResizer(host RichTextHost, clamp geometry.Clamp, log *zap.Logger) *Resizer {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Resizer{host: host, clamp: clamp, log: log}
	r.ctrl = drag.New(drag.Config{
		Clamp:  clamp,
		Policy: drag.AspectFromStart,
		Active: func() bool { return r.selected != nil },
		Log:    log,
	})
	return r
}

// Selected returns the currently selected image.
func (r *Resizer) Selected() (ImageRef, bool) {
	if r.selected == nil {
		return ImageRef{}, false
	}
	return *r.selected, true
}

// Box returns the selection rectangle.
func (r *Resizer) Box() (geometry.Rect, bool) {
	if r.selected == nil {
		return geometry.Rect{}, false
	}
	return r.box, true
}

// HandleRects returns the four corner handle rectangles, keyed by
// handle.
func (r *Resizer) HandleRects() (map[geometry.Handle]geometry.Rect, bool) {
	if r.selected == nil {
		return nil, false
	}
	b := r.box
	half := HandleSize / 2
	at := func(x, y int) geometry.Rect {
		return geometry.Rect{X: x - half, Y: y - half, Width: HandleSize, Height: HandleSize}
	}
	return map[geometry.Handle]geometry.Rect{
		geometry.HandleNW: at(b.X, b.Y),
		geometry.HandleNE: at(b.Right(), b.Y),
		geometry.HandleSW: at(b.X, b.Bottom()),
		geometry.HandleSE: at(b.Right(), b.Bottom()),
	}, true
}

// SizeLabel returns the live "W x H" readout for the selection.
func (r *Resizer) SizeLabel() (string, bool) {
	if r.selected == nil {
		return "", false
	}
	return fmt.Sprintf("%d × %d", r.box.Width, r.box.Height), true
}

// Dragging reports whether a handle drag is in flight.
func (r *Resizer) Dragging() bool { return r.ctrl.Dragging() }

// Press handles pointer-down. On a handle it starts the drag; on an
// image it (re)selects; anywhere else it clears the selection.
func (r *Resizer) Press(p geometry.Point) {
	if handles, ok := r.HandleRects(); ok {
		for h, rect := range handles {
			if rect.Contains(p) {
				size := geometry.FixedSize(r.box.Width, r.box.Height)
				if err := r.ctrl.Start(h, p, size); err != nil {
					r.log.Debug("handle drag rejected", zap.Error(err))
				}
				return
			}
		}
	}

	ref, ok := r.host.ImageAt(p)
	if !ok {
		r.clear()
		return
	}
	r.selected = &ref
	r.reposition()
}

// Move tracks an in-flight handle drag, resizing the selection box for
// immediate feedback. A drag whose image vanished mid-session aborts
// cleanly.
func (r *Resizer) Move(p geometry.Point) {
	if !r.ctrl.Dragging() {
		return
	}
	if r.selected != nil {
		if _, ok := r.host.ImageBounds(*r.selected); !ok {
			r.ctrl.Cancel()
			r.clear()
			return
		}
	}
	size, ok := r.ctrl.Move(p)
	if !ok {
		return
	}
	if w, fixed := size.Width.Px(); fixed {
		r.box.Width = w
	}
	if h, fixed := size.Height.Px(); fixed {
		r.box.Height = h
	}
}

// Release ends the drag: the final width is applied to the host image
// with auto height, and the host re-syncs its model without emitting a
// change event.
func (r *Resizer) Release() {
	final, ok := r.ctrl.End()
	if !ok || r.selected == nil {
		return
	}
	if w, fixed := final.Width.Px(); fixed {
		r.host.SetImageWidth(*r.selected, w)
		r.host.SyncSilently()
	}
	r.reposition()
}

// Escape aborts: any in-flight drag is discarded unapplied, and the
// selection box and handles are removed.
func (r *Resizer) Escape() {
	r.ctrl.Cancel()
	r.clear()
}

// Scroll repositions the selection without dropping it.
func (r *Resizer) Scroll() {
	if r.ctrl.Dragging() {
		return
	}
	r.reposition()
}

// Detach tears the widget down: an active drag is cancelled and every
// reference into the document is dropped, so mount/unmount cycles leak
// nothing.
func (r *Resizer) Detach() {
	r.ctrl.Cancel()
	r.selected = nil
	r.host = nil
}

func (r *Resizer) clear() {
	r.selected = nil
}

func (r *Resizer) reposition() {
	if r.selected == nil || r.host == nil {
		return
	}
	bounds, ok := r.host.ImageBounds(*r.selected)
	if !ok {
		r.selected = nil
		return
	}
	scroll := r.host.ScrollOffset()
	r.box = bounds.Translate(-scroll.X, -scroll.Y)
}

// Package overlay implements the editable-region widgets: in-place text,
// click-to-replace images with drag resize, and the floating selection
// overlays bundled for the rich-text editor. Widgets are headless state
// machines; the host (a page, a TUI, a test) feeds them input events and
// renders whatever state they expose. Nothing here touches a real UI.
package overlay

import (
	"go.uber.org/zap"

	"liveedit/internal/geometry"
	"liveedit/internal/logging"
	"liveedit/internal/store"
)

// ModeGate exposes the authority flags a widget consults before reacting
// to input. authority.Authority satisfies it.
type ModeGate interface {
	EditMode() bool
	ResizeMode() bool
}

// FilePicker is the file-dialog port used by editable images.
type FilePicker interface {
	// Pick returns the chosen file's name and contents, or an error when
	// the dialog fails. A cancel is (_, nil, nil) with ok == false.
	Pick() (name string, data []byte, ok bool, err error)
}

// Prompter is the text-prompt port used for URL replacement.
type Prompter interface {
	// Prompt shows msg with a default answer and reports the entered
	// text; ok is false when the user dismissed the prompt.
	Prompt(msg, def string) (answer string, ok bool)
}

// Notifier receives the one-shot "saved" confirmation for a region. The
// host owns the auto-dismiss timer.
type Notifier interface {
	Saved(regionID string)
}

// Meta identifies the source location that owns a region, recorded into
// every persisted record and activity entry.
type Meta struct {
	FilePath      string
	ComponentName string
}

// Deps bundles what every editable widget needs. Activity, Notifier,
// Picker and Prompter may be nil when the capability is absent.
type Deps struct {
	Gate     ModeGate
	Content  *store.ContentStore
	Geometry *store.GeometryStore
	Activity *logging.ActivityLog
	Picker   FilePicker
	Prompter Prompter
	Notifier Notifier
	Log      *zap.Logger
}

func (d *Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

func (d *Deps) appendActivity(text string, meta Meta, triggeredBy string) {
	if d.Activity == nil {
		return
	}
	d.Activity.Append(logging.ActivityEntry{
		Text:          text,
		FilePath:      meta.FilePath,
		ComponentName: meta.ComponentName,
		TriggeredBy:   triggeredBy,
	})
}

func (d *Deps) notifySaved(regionID string) {
	if d.Notifier != nil {
		d.Notifier.Saved(regionID)
	}
}

// ImageRef identifies one inline image inside a rich-text document.
type ImageRef struct {
	ID string
}

// RichTextHost is the content-editable rich-text editor port the
// floating selection widgets attach to.
type RichTextHost interface {
	// ImageAt returns the inline image under p, if any.
	ImageAt(p geometry.Point) (ImageRef, bool)
	// ImageBounds returns the image's current rendered bounding box;
	// false when the image is no longer in the document.
	ImageBounds(ref ImageRef) (geometry.Rect, bool)
	// ScrollOffset is the host container's current scroll position.
	ScrollOffset() geometry.Point
	// SetImageWidth applies a new rendered width; height becomes auto.
	SetImageWidth(ref ImageRef, px int)
	// SyncSilently asks the host to re-read its document model without
	// emitting a user-visible change event.
	SyncSilently()
}

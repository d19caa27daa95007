package overlay

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"liveedit/internal/store"
)

// EditableText is an in-place text region. Admins in edit mode get a
// focusable, directly editable surface; everyone else gets the persisted
// text read-only. Outside edit mode every mutator on this type is inert,
// which is a hard requirement rather than an optimization.
type EditableText struct {
	id   string
	def  string
	meta Meta
	deps Deps

	editing bool
	buffer  []rune
}

// NewEditableText mounts a text region. def is the caller-supplied
// fallback shown until the region is first persisted.
func NewEditableText(id, def string, meta Meta, deps Deps) *EditableText {
	return &EditableText{id: id, def: def, meta: meta, deps: deps}
}

// ID returns the region id.
func (t *EditableText) ID() string { return t.id }

// Text returns what the region currently displays: the in-progress
// buffer while editing, else the persisted text, else the default.
func (t *EditableText) Text() string {
	if t.editing {
		return string(t.buffer)
	}
	return t.deps.Content.LoadText(t.id, t.def).Text
}

// Editable reports whether the surface accepts input right now.
func (t *EditableText) Editable() bool {
	return t.deps.Gate != nil && t.deps.Gate.EditMode()
}

// Editing reports whether the region currently has focus.
func (t *EditableText) Editing() bool { return t.editing }

// Focus begins an edit, seeding the buffer with the displayed text.
// Ignored outside edit mode.
func (t *EditableText) Focus() {
	if !t.Editable() || t.editing {
		return
	}
	t.buffer = []rune(t.Text())
	t.editing = true
}

// Input appends a typed rune to the buffer.
func (t *EditableText) Input(r rune) {
	if !t.editing {
		return
	}
	t.buffer = append(t.buffer, r)
}

// Backspace removes the last rune.
func (t *EditableText) Backspace() {
	if !t.editing || len(t.buffer) == 0 {
		return
	}
	t.buffer = t.buffer[:len(t.buffer)-1]
}

// Paste inserts pasted content forced to plain text: rich markup is the
// caller's problem to strip, newlines and tabs collapse to spaces here
// so a paste can never smuggle structure into a single-line region.
func (t *EditableText) Paste(s string) {
	if !t.editing {
		return
	}
	t.buffer = append(t.buffer, []rune(flattenPlainText(s))...)
}

// Enter commits the edit. The region is a single-line surface, so Enter
// blurs instead of inserting a newline.
func (t *EditableText) Enter() {
	t.Blur()
}

// Blur ends the edit. If the content changed it is persisted along with
// one activity entry; an unchanged blur writes nothing.
func (t *EditableText) Blur() {
	if !t.editing {
		return
	}
	t.editing = false
	next := string(t.buffer)
	t.buffer = nil

	prev := t.deps.Content.LoadText(t.id, t.def).Text
	if next == prev {
		return
	}

	t.deps.Content.SaveText(t.id, store.TextRecord{
		Text:          next,
		FilePath:      t.meta.FilePath,
		ComponentName: t.meta.ComponentName,
		UpdatedAt:     time.Now().UTC(),
	})
	t.deps.appendActivity(next, t.meta, "")
	t.deps.notifySaved(t.id)
	t.deps.logger().Info("text region updated", zap.String("region", t.id))
}

// Cancel abandons the in-progress edit without persisting.
func (t *EditableText) Cancel() {
	t.editing = false
	t.buffer = nil
}

func flattenPlainText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return s
}

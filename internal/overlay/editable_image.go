package overlay

import (
	"encoding/base64"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"liveedit/internal/drag"
	"liveedit/internal/geometry"
	"liveedit/internal/store"
)

// EditableImage is a click-to-replace image region. In edit mode a click
// opens the file picker, a secondary click prompts for a replacement
// URL, and a primary-button drag from the image body resizes width-only
// (height stays auto). Outside edit mode all three paths are inert and
// no drag controller ever sees a pointer event.
type EditableImage struct {
	id   string
	def  string
	meta Meta
	deps Deps

	size geometry.Size
	ctrl *drag.Controller
}

// NewEditableImage mounts an image region. def is the fallback source;
// defSize the rendered size used until a resize is persisted.
func NewEditableImage(id, def string, defSize geometry.Size, clamp geometry.Clamp, meta Meta, deps Deps) *EditableImage {
	img := &EditableImage{id: id, def: def, meta: meta, deps: deps}
	img.size = deps.Geometry.Load(id, defSize)
	img.ctrl = drag.New(drag.Config{
		RegionID: id,
		Clamp:    clamp,
		Policy:   drag.WidthOnly,
		Active:   img.Editable,
		Store:    deps.Geometry,
		Log:      deps.Log,
	})
	return img
}

// ID returns the region id.
func (i *EditableImage) ID() string { return i.id }

// Source returns the displayed image source.
func (i *EditableImage) Source() string {
	return i.deps.Content.LoadImage(i.id, i.def).Source
}

// Size returns the current rendered size.
func (i *EditableImage) Size() geometry.Size { return i.size }

// Editable reports whether edit mode is active for this region.
func (i *EditableImage) Editable() bool {
	return i.deps.Gate != nil && i.deps.Gate.EditMode()
}

// Dragging reports whether a resize drag is in flight.
func (i *EditableImage) Dragging() bool { return i.ctrl.Dragging() }

// Click opens the file picker and replaces the image with the chosen
// file as an inline data URI. The returned error is the transient
// "upload failed" message for the host to flash; a cancelled picker is
// a silent no-op.
func (i *EditableImage) Click() error {
	if !i.Editable() || i.deps.Picker == nil {
		return nil
	}
	name, data, ok, err := i.deps.Picker.Pick()
	if err != nil {
		i.deps.logger().Warn("image upload failed", zap.String("region", i.id), zap.Error(err))
		return fmt.Errorf("upload failed: %w", err)
	}
	if !ok {
		return nil
	}
	i.save(dataURI(name, data))
	return nil
}

// SecondaryClick prompts for a replacement URL. Empty or whitespace
// input is a no-op, as is a dismissed prompt.
func (i *EditableImage) SecondaryClick() {
	if !i.Editable() || i.deps.Prompter == nil {
		return
	}
	answer, ok := i.deps.Prompter.Prompt("Replace image URL", i.Source())
	if !ok {
		return
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return
	}
	i.save(answer)
}

// DragStart begins a width-only body drag. Rejected outside edit mode
// and while another session is active.
func (i *EditableImage) DragStart(at geometry.Point) error {
	return i.ctrl.Start(geometry.HandleSE, at, i.size)
}

// DragMove tracks the pointer, updating the displayed size immediately.
func (i *EditableImage) DragMove(at geometry.Point) {
	if size, ok := i.ctrl.Move(at); ok {
		i.size = size
	}
}

// DragEnd releases the drag, persisting the final size under the
// region's size key and logging one activity entry.
func (i *EditableImage) DragEnd() {
	final, ok := i.ctrl.End()
	if !ok {
		return
	}
	i.size = final
	i.deps.appendActivity(fmt.Sprintf("Resized image to %s", final.Width), i.meta, "")
	i.deps.notifySaved(i.id)
}

// Unmount cancels any in-flight drag so a stale session cannot mutate a
// detached region.
func (i *EditableImage) Unmount() {
	i.ctrl.Cancel()
}

func (i *EditableImage) save(source string) {
	i.deps.Content.SaveImage(i.id, store.ImageRecord{
		Source:        source,
		FilePath:      i.meta.FilePath,
		ComponentName: i.meta.ComponentName,
		UpdatedAt:     time.Now().UTC(),
	})
	i.deps.appendActivity("Replaced image", i.meta, "")
	i.deps.notifySaved(i.id)
}

// dataURI encodes uploaded bytes as an inline data URI, guessing the
// media type from the file extension.
func dataURI(name string, data []byte) string {
	mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if mt == "" {
		mt = "application/octet-stream"
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(data)
}

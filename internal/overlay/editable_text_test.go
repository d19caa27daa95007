package overlay

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liveedit/internal/logging"
	"liveedit/internal/store"
)

// fakeGate is a settable ModeGate.
type fakeGate struct {
	edit   bool
	resize bool
}

func (g *fakeGate) EditMode() bool   { return g.edit }
func (g *fakeGate) ResizeMode() bool { return g.resize }

// savedRecorder counts Saved notifications per region.
type savedRecorder struct {
	saved []string
}

func (s *savedRecorder) Saved(regionID string) { s.saved = append(s.saved, regionID) }

func newTextDeps(t *testing.T, gate ModeGate) (Deps, store.KV, *logging.ActivityLog) {
	t.Helper()
	kv := store.NewMemKV()
	activity, err := logging.OpenActivityLog(filepath.Join(t.TempDir(), "activity.log"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { activity.Close() })
	return Deps{
		Gate:     gate,
		Content:  store.NewContentStore(kv, nil),
		Geometry: store.NewGeometryStore(kv, nil),
		Activity: activity,
	}, kv, activity
}

var testMeta = Meta{FilePath: "src/pages/Home.jsx", ComponentName: "HeroBanner"}

func TestTextReadOnlyOutsideEditMode(t *testing.T) {
	deps, _, activity := newTextDeps(t, &fakeGate{edit: false})
	txt := NewEditableText("headline", "Welcome", testMeta, deps)

	txt.Focus()
	txt.Input('x')
	txt.Paste("injected")
	txt.Blur()

	assert.False(t, txt.Editing())
	assert.Equal(t, "Welcome", txt.Text())
	assert.Equal(t, 0, activity.Count())
}

func TestTextEditCommitOnBlur(t *testing.T) {
	deps, _, activity := newTextDeps(t, &fakeGate{edit: true})
	notifier := &savedRecorder{}
	deps.Notifier = notifier
	txt := NewEditableText("headline", "Welcome", testMeta, deps)

	txt.Focus()
	require.True(t, txt.Editing())
	for _, r := range " back" {
		txt.Input(r)
	}
	txt.Blur()

	assert.Equal(t, "Welcome back", txt.Text())
	rec := deps.Content.LoadText("headline", "")
	assert.Equal(t, "Welcome back", rec.Text)
	assert.Equal(t, "src/pages/Home.jsx", rec.FilePath)
	assert.Equal(t, "HeroBanner", rec.ComponentName)
	assert.False(t, rec.UpdatedAt.IsZero())
	assert.Equal(t, 1, activity.Count())
	assert.Equal(t, []string{"headline"}, notifier.saved)
}

func TestTextUnchangedBlurWritesNothing(t *testing.T) {
	deps, kv, activity := newTextDeps(t, &fakeGate{edit: true})
	txt := NewEditableText("headline", "Welcome", testMeta, deps)

	txt.Focus()
	txt.Blur()

	assert.Equal(t, 0, activity.Count())
	if _, ok := kv.Get("headline"); ok {
		t.Error("unchanged blur should not persist a record")
	}
}

func TestTextPasteIsForcedPlain(t *testing.T) {
	deps, _, _ := newTextDeps(t, &fakeGate{edit: true})
	txt := NewEditableText("headline", "", testMeta, deps)

	txt.Focus()
	txt.Paste("multi\nline\r\npaste\twith\rbreaks")
	txt.Blur()

	assert.Equal(t, "multi line paste with breaks", txt.Text())
}

func TestTextEnterCommitsInsteadOfNewline(t *testing.T) {
	deps, _, _ := newTextDeps(t, &fakeGate{edit: true})
	txt := NewEditableText("headline", "", testMeta, deps)

	txt.Focus()
	txt.Input('h')
	txt.Input('i')
	txt.Enter()

	assert.False(t, txt.Editing())
	assert.Equal(t, "hi", txt.Text())
}

func TestTextCancelAbandonsEdit(t *testing.T) {
	deps, _, activity := newTextDeps(t, &fakeGate{edit: true})
	txt := NewEditableText("headline", "Welcome", testMeta, deps)

	txt.Focus()
	txt.Input('!')
	txt.Cancel()

	assert.Equal(t, "Welcome", txt.Text())
	assert.Equal(t, 0, activity.Count())
}

func TestTextBackspace(t *testing.T) {
	deps, _, _ := newTextDeps(t, &fakeGate{edit: true})
	txt := NewEditableText("headline", "ab", testMeta, deps)

	txt.Focus()
	txt.Backspace()
	txt.Blur()

	assert.Equal(t, "a", txt.Text())
}

func TestTextMalformedStoredValueShownVerbatim(t *testing.T) {
	deps, kv, _ := newTextDeps(t, &fakeGate{edit: false})
	require.NoError(t, kv.Set("headline", "not-json"))
	txt := NewEditableText("headline", "default", testMeta, deps)

	assert.Equal(t, "not-json", txt.Text())
}

func TestTextRevokedMidEditStillDisplaysReadOnly(t *testing.T) {
	gate := &fakeGate{edit: true}
	deps, _, _ := newTextDeps(t, gate)
	txt := NewEditableText("headline", "Welcome", testMeta, deps)

	txt.Focus()
	txt.Input('!')
	gate.edit = false

	// The in-flight edit still commits on blur; new focus attempts are
	// inert.
	txt.Blur()
	txt.Focus()
	assert.False(t, txt.Editing())
}

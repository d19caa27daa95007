package authority

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liveedit/internal/logging"
	"liveedit/internal/store"
)

type fakeIdentity struct {
	mu    sync.Mutex
	admin bool
}

func (f *fakeIdentity) IsAdmin() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.admin
}

func (f *fakeIdentity) setAdmin(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.admin = v
}

// countingKV counts writes so tests can assert write-count equals
// transition-count.
type countingKV struct {
	store.KV
	sets map[string]int
}

func newCountingKV() *countingKV {
	return &countingKV{KV: store.NewMemKV(), sets: make(map[string]int)}
}

func (c *countingKV) Set(key, value string) error {
	c.sets[key]++
	return c.KV.Set(key, value)
}

func newTestActivity(t *testing.T) *logging.ActivityLog {
	t.Helper()
	log, err := logging.OpenActivityLog(filepath.Join(t.TempDir(), "activity.log"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

func TestNonAdminSetEditModeNeverEnables(t *testing.T) {
	id := &fakeIdentity{admin: false}
	kv := store.NewMemKV()
	a := New(id, kv, nil, nil)

	a.SetEditMode(true, "visitor")

	assert.False(t, a.EditMode())
	v, ok := kv.Get(EditModeKey)
	assert.True(t, ok, "rejection still persists false")
	assert.Equal(t, "false", v)
}

func TestAdminTransitionsWriteOncePerCall(t *testing.T) {
	id := &fakeIdentity{admin: true}
	kv := newCountingKV()
	activity := newTestActivity(t)
	a := New(id, kv, activity, nil)

	a.SetEditMode(true, "admin@shop")
	a.SetEditMode(false, "admin@shop")
	a.SetEditMode(true, "admin@shop")
	a.SetResizeMode(true, "admin@shop")

	// No coalescing: one storage write and one activity entry per
	// accepted transition.
	assert.Equal(t, 3, kv.sets[EditModeKey])
	assert.Equal(t, 1, kv.sets[ResizeModeKey])
	assert.Equal(t, 4, activity.Count())

	entries, err := activity.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "Enabled edit mode", entries[0].Text)
	assert.Equal(t, "admin@shop", entries[0].TriggeredBy)
}

func TestRestoreHonorsPersistedOnlyForAdmins(t *testing.T) {
	kv := store.NewMemKV()
	require.NoError(t, kv.Set(EditModeKey, "true"))
	require.NoError(t, kv.Set(ResizeModeKey, "true"))

	// Non-admin: stale true is not trusted and storage is overwritten.
	a := New(&fakeIdentity{admin: false}, kv, nil, nil)
	a.Restore()
	assert.False(t, a.EditMode())
	assert.False(t, a.ResizeMode())
	v, _ := kv.Get(EditModeKey)
	assert.Equal(t, "false", v)

	// Admin: persisted true applies.
	require.NoError(t, kv.Set(EditModeKey, "true"))
	b := New(&fakeIdentity{admin: true}, kv, nil, nil)
	b.Restore()
	assert.True(t, b.EditMode())
	assert.False(t, b.ResizeMode())
}

func TestRevocationCollapsesOnNextEvaluation(t *testing.T) {
	id := &fakeIdentity{admin: true}
	kv := store.NewMemKV()
	activity := newTestActivity(t)
	a := New(id, kv, activity, nil)

	a.SetEditMode(true, "admin@shop")
	a.SetResizeMode(true, "admin@shop")
	require.True(t, a.EditMode())

	var notified []bool
	cancel := a.SubscribeEdit(func(enabled bool) { notified = append(notified, enabled) })
	defer cancel()

	id.setAdmin(false)

	assert.False(t, a.EditMode(), "flag collapses on next evaluation")
	assert.False(t, a.ResizeMode())
	v, _ := kv.Get(EditModeKey)
	assert.Equal(t, "false", v)
	assert.Equal(t, []bool{false}, notified)
	// Two enables plus two collapse entries.
	assert.Equal(t, 4, activity.Count())
}

func TestSubscribeNotifyAndCancel(t *testing.T) {
	id := &fakeIdentity{admin: true}
	a := New(id, store.NewMemKV(), nil, nil)

	var got []bool
	cancel := a.SubscribeEdit(func(enabled bool) { got = append(got, enabled) })

	a.SetEditMode(true, "admin@shop")
	a.SetEditMode(false, "admin@shop")
	assert.Equal(t, []bool{true, false}, got)

	cancel()
	cancel() // idempotent
	a.SetEditMode(true, "admin@shop")
	assert.Equal(t, []bool{true, false}, got, "cancelled subscriber must not fire")
	assert.Equal(t, 0, a.SubscriberCount())
}

func TestResizeSubscribersAreIndependent(t *testing.T) {
	a := New(&fakeIdentity{admin: true}, store.NewMemKV(), nil, nil)

	edits, resizes := 0, 0
	defer a.SubscribeEdit(func(bool) { edits++ })()
	defer a.SubscribeResize(func(bool) { resizes++ })()

	a.SetResizeMode(true, "admin@shop")
	assert.Equal(t, 0, edits)
	assert.Equal(t, 1, resizes)
}

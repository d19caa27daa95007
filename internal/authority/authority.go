// Package authority owns the process-wide edit-mode and resize-mode
// flags. Both are gated on the current identity's admin privilege, and
// the gate is re-checked on every state evaluation: revoking admin
// status mid-session collapses the flags the next time anyone asks.
package authority

import (
	"sync"

	"go.uber.org/zap"

	"liveedit/internal/logging"
	"liveedit/internal/store"
)

// Storage keys for the persisted flags. Values are the strings "true"
// and "false", matching what the legacy pages wrote.
const (
	EditModeKey   = "editMode"
	ResizeModeKey = "resizeMode"
)

// Identity is the admin-identity provider port.
type Identity interface {
	IsAdmin() bool
}

// State is a snapshot of both flags.
type State struct {
	EditMode   bool
	ResizeMode bool
}

// Authority coordinates the two mode flags, their persistence, the
// activity log and the mode-change subscribers. It is built for a single
// event loop; only the subscriber registry is mutex-guarded because
// cancel funcs may outlive the loop that created them.
type Authority struct {
	identity Identity
	kv       store.KV
	activity *logging.ActivityLog
	log      *zap.Logger

	editMode   bool
	resizeMode bool

	mu     sync.Mutex
	nextID int
	editSubs   map[int]func(bool)
	resizeSubs map[int]func(bool)
}

// New builds an Authority. activity may be nil when no audit trail is
// wanted (tests); log may be nil.
func New(identity Identity, kv store.KV, activity *logging.ActivityLog, log *zap.Logger) *Authority {
	if log == nil {
		log = zap.NewNop()
	}
	return &Authority{
		identity:   identity,
		kv:         kv,
		activity:   activity,
		log:        log,
		editSubs:   make(map[int]func(bool)),
		resizeSubs: make(map[int]func(bool)),
	}
}

// Restore applies previously persisted flags. Persisted true values are
// honored only for admins; for anyone else both flags initialize to
// false and storage is overwritten to false, so a later privilege grant
// cannot resurrect stale state.
func (a *Authority) Restore() {
	if !a.identity.IsAdmin() {
		a.editMode = false
		a.resizeMode = false
		a.persist(EditModeKey, false)
		a.persist(ResizeModeKey, false)
		return
	}
	a.editMode = a.kv != nil && readFlag(a.kv, EditModeKey)
	a.resizeMode = a.kv != nil && readFlag(a.kv, ResizeModeKey)
}

// EditMode reports whether edit mode is active. Evaluating the flag
// re-checks the admin gate.
func (a *Authority) EditMode() bool {
	a.evaluate("system")
	return a.editMode
}

// ResizeMode reports whether resize mode is active.
func (a *Authority) ResizeMode() bool {
	a.evaluate("system")
	return a.resizeMode
}

// Snapshot returns both flags after re-evaluating the gate.
func (a *Authority) Snapshot() State {
	a.evaluate("system")
	return State{EditMode: a.editMode, ResizeMode: a.resizeMode}
}

// SetEditMode flips edit mode. For non-admins the call is a silent
// rejection: the flag is forced false and persisted false, no error.
func (a *Authority) SetEditMode(enabled bool, triggeredBy string) {
	a.setFlag(&a.editMode, EditModeKey, "edit mode", enabled, triggeredBy, a.snapshotEditSubs)
}

// SetResizeMode flips resize mode under the same admin gate.
func (a *Authority) SetResizeMode(enabled bool, triggeredBy string) {
	a.setFlag(&a.resizeMode, ResizeModeKey, "resize mode", enabled, triggeredBy, a.snapshotResizeSubs)
}

// Refresh re-evaluates the admin gate after an identity change. A
// revoked admin loses both flags immediately, with the same persist,
// log and notify side effects as an explicit transition to false.
func (a *Authority) Refresh(triggeredBy string) {
	a.evaluate(triggeredBy)
}

// SubscribeEdit registers fn for edit-mode changes and returns a cancel
// func. Cancel is idempotent. Delivery order across subscribers is not
// specified.
func (a *Authority) SubscribeEdit(fn func(enabled bool)) func() {
	return a.subscribe(a.editSubs, fn)
}

// SubscribeResize registers fn for resize-mode changes.
func (a *Authority) SubscribeResize(fn func(enabled bool)) func() {
	return a.subscribe(a.resizeSubs, fn)
}

// SubscriberCount reports the live subscriptions across both topics.
func (a *Authority) SubscriberCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.editSubs) + len(a.resizeSubs)
}

func (a *Authority) subscribe(subs map[int]func(bool), fn func(bool)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.nextID
	a.nextID++
	subs[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			defer a.mu.Unlock()
			delete(subs, id)
		})
	}
}

func (a *Authority) snapshotEditSubs() []func(bool)   { return a.snapshotSubs(a.editSubs) }
func (a *Authority) snapshotResizeSubs() []func(bool) { return a.snapshotSubs(a.resizeSubs) }

func (a *Authority) snapshotSubs(subs map[int]func(bool)) []func(bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]func(bool), 0, len(subs))
	for _, fn := range subs {
		out = append(out, fn)
	}
	return out
}

// setFlag is the single transition path: gate, mutate, persist, append
// one activity entry, notify. Every accepted transition produces exactly
// one storage write and one log entry, never coalesced.
func (a *Authority) setFlag(flag *bool, key, label string, enabled bool, triggeredBy string, subs func() []func(bool)) {
	if !a.identity.IsAdmin() {
		// Silent rejection: force and persist false. Non-admins should
		// not see error chatter for an action they should not even see.
		if *flag {
			*flag = false
			a.persist(key, false)
			a.notify(subs(), false)
		} else {
			a.persist(key, false)
		}
		a.log.Debug("rejected mode change for non-admin", zap.String("key", key))
		return
	}

	*flag = enabled
	a.persist(key, enabled)
	a.append(label, enabled, triggeredBy)
	a.notify(subs(), enabled)
}

// evaluate enforces the gate outside an explicit transition. Only a
// collapse (admin revoked while a flag is up) has side effects.
func (a *Authority) evaluate(triggeredBy string) {
	if a.identity.IsAdmin() {
		return
	}
	if a.editMode {
		a.editMode = false
		a.persist(EditModeKey, false)
		a.append("edit mode", false, triggeredBy)
		a.notify(a.snapshotEditSubs(), false)
	}
	if a.resizeMode {
		a.resizeMode = false
		a.persist(ResizeModeKey, false)
		a.append("resize mode", false, triggeredBy)
		a.notify(a.snapshotResizeSubs(), false)
	}
}

func (a *Authority) persist(key string, enabled bool) {
	if a.kv == nil {
		return
	}
	v := "false"
	if enabled {
		v = "true"
	}
	if err := a.kv.Set(key, v); err != nil {
		a.log.Error("failed to persist mode flag", zap.String("key", key), zap.Error(err))
	}
}

func (a *Authority) append(label string, enabled bool, triggeredBy string) {
	if a.activity == nil {
		return
	}
	text := "Disabled " + label
	if enabled {
		text = "Enabled " + label
	}
	a.activity.Append(logging.ActivityEntry{
		Text:          text,
		ComponentName: "EditModeAuthority",
		TriggeredBy:   triggeredBy,
	})
}

func (a *Authority) notify(subs []func(bool), enabled bool) {
	for _, fn := range subs {
		fn(enabled)
	}
}

func readFlag(kv store.KV, key string) bool {
	v, ok := kv.Get(key)
	return ok && v == "true"
}

package drag

import (
	"testing"

	"liveedit/internal/geometry"
)

// recordingSaver captures every persisted geometry.
type recordingSaver struct {
	regions []string
	sizes   []geometry.Size
}

func (r *recordingSaver) Save(regionID string, s geometry.Size) {
	r.regions = append(r.regions, regionID)
	r.sizes = append(r.sizes, s)
}

func alwaysActive() bool { return true }

func newTestController(policy AspectPolicy, saver Saver, active func() bool) *Controller {
	return New(Config{
		RegionID: "hero",
		Clamp:    geometry.Clamp{MinWidth: 50, MaxWidth: 1000, MinHeight: 20},
		Policy:   policy,
		Active:   active,
		Store:    saver,
	})
}

func TestSouthEastDragPreservesAspect(t *testing.T) {
	// Drag "se" from (100,100) to (150,130) on a 200x100 image,
	// aspect 2:1 -> width 250, height 125.
	c := newTestController(AspectFromStart, nil, alwaysActive)
	if err := c.Start(geometry.HandleSE, geometry.Point{X: 100, Y: 100}, geometry.FixedSize(200, 100)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	size, ok := c.Move(geometry.Point{X: 150, Y: 130})
	if !ok {
		t.Fatal("Move reported inactive session")
	}
	if w, _ := size.Width.Px(); w != 250 {
		t.Errorf("width = %d, want 250", w)
	}
	if h, _ := size.Height.Px(); h != 125 {
		t.Errorf("height = %d, want 125", h)
	}
}

func TestNorthWestDragInvertsDelta(t *testing.T) {
	// Positive dx on an "nw" handle must shrink, not grow.
	c := newTestController(WidthOnly, nil, alwaysActive)
	if err := c.Start(geometry.HandleNW, geometry.Point{X: 0, Y: 0}, geometry.WidthOnly(200)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	size, _ := c.Move(geometry.Point{X: 20, Y: 0})
	if w, _ := size.Width.Px(); w != 180 {
		t.Errorf("width = %d, want 180", w)
	}
}

func TestDragClampIsTotal(t *testing.T) {
	handles := []geometry.Handle{geometry.HandleNW, geometry.HandleNE, geometry.HandleSW, geometry.HandleSE}
	deltas := []geometry.Point{
		{X: 1 << 20, Y: 1 << 20},
		{X: -(1 << 20), Y: -(1 << 20)},
		{X: 999999, Y: -5},
		{X: -999999, Y: 5},
	}
	for _, h := range handles {
		for _, d := range deltas {
			c := newTestController(AspectFromStart, nil, alwaysActive)
			if err := c.Start(h, geometry.Point{}, geometry.FixedSize(200, 100)); err != nil {
				t.Fatalf("Start: %v", err)
			}
			size, ok := c.Move(d)
			if !ok {
				t.Fatalf("%v %v: session dropped", h, d)
			}
			w, _ := size.Width.Px()
			if w < 50 || w > 1000 {
				t.Errorf("%v delta %v: width %d escaped [50,1000]", h, d, w)
			}
			if hgt, fixed := size.Height.Px(); fixed && hgt < 20 {
				t.Errorf("%v delta %v: height %d below floor", h, d, hgt)
			}
		}
	}
}

func TestZeroDeltaReleasePersistsStartSize(t *testing.T) {
	saver := &recordingSaver{}
	c := newTestController(AspectFromStart, saver, alwaysActive)
	start := geometry.FixedSize(200, 100)
	if err := c.Start(geometry.HandleSE, geometry.Point{X: 10, Y: 10}, start); err != nil {
		t.Fatalf("Start: %v", err)
	}
	final, ok := c.End()
	if !ok {
		t.Fatal("End reported no session")
	}
	if final != start {
		t.Errorf("final = %v, want start size %v", final, start)
	}
	if len(saver.sizes) != 1 || saver.sizes[0] != start {
		t.Errorf("persisted %v, want exactly one save of %v", saver.sizes, start)
	}
	if saver.regions[0] != "hero" {
		t.Errorf("persisted under %q, want region id", saver.regions[0])
	}
}

func TestReleaseAlwaysPersistsEvenUnchanged(t *testing.T) {
	saver := &recordingSaver{}
	c := newTestController(WidthOnly, saver, alwaysActive)
	for i := 0; i < 3; i++ {
		if err := c.Start(geometry.HandleSE, geometry.Point{}, geometry.WidthOnly(300)); err != nil {
			t.Fatalf("Start %d: %v", i, err)
		}
		if _, ok := c.End(); !ok {
			t.Fatalf("End %d: no session", i)
		}
	}
	if len(saver.sizes) != 3 {
		t.Errorf("persisted %d times, want 3 (idempotent re-saves are fine)", len(saver.sizes))
	}
}

func TestCancelDoesNotPersist(t *testing.T) {
	saver := &recordingSaver{}
	c := newTestController(WidthOnly, saver, alwaysActive)
	if err := c.Start(geometry.HandleSE, geometry.Point{}, geometry.WidthOnly(300)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	c.Move(geometry.Point{X: 100})
	c.Cancel()
	if len(saver.sizes) != 0 {
		t.Errorf("cancel persisted %v, want nothing", saver.sizes)
	}
	if c.Dragging() {
		t.Error("still dragging after cancel")
	}
	// End after cancel is a no-op.
	if _, ok := c.End(); ok {
		t.Error("End after cancel should report no session")
	}
}

func TestSecondStartRejectedWhileDragging(t *testing.T) {
	c := newTestController(WidthOnly, nil, alwaysActive)
	if err := c.Start(geometry.HandleSE, geometry.Point{}, geometry.WidthOnly(300)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	err := c.Start(geometry.HandleNW, geometry.Point{}, geometry.WidthOnly(300))
	if err != ErrSessionActive {
		t.Errorf("err = %v, want ErrSessionActive", err)
	}
}

func TestStartRejectedWhenGateOff(t *testing.T) {
	c := newTestController(WidthOnly, nil, func() bool { return false })
	err := c.Start(geometry.HandleSE, geometry.Point{}, geometry.WidthOnly(300))
	if err != ErrInactive {
		t.Errorf("err = %v, want ErrInactive", err)
	}
}

func TestStartRejectedWithoutFixedWidth(t *testing.T) {
	c := newTestController(WidthOnly, nil, alwaysActive)
	err := c.Start(geometry.HandleSE, geometry.Point{}, geometry.Size{Width: geometry.Auto, Height: geometry.Auto})
	if err != ErrNoWidth {
		t.Errorf("err = %v, want ErrNoWidth", err)
	}
}

func TestGateFlipMidDragForceCancels(t *testing.T) {
	active := true
	saver := &recordingSaver{}
	c := newTestController(WidthOnly, saver, func() bool { return active })
	if err := c.Start(geometry.HandleSE, geometry.Point{}, geometry.WidthOnly(300)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, ok := c.Move(geometry.Point{X: 10}); !ok {
		t.Fatal("first Move should track")
	}

	active = false

	if _, ok := c.Move(geometry.Point{X: 50}); ok {
		t.Error("Move after gate flip must not produce geometry")
	}
	if c.Dragging() {
		t.Error("session must be force-cancelled when the gate flips off")
	}
	if len(saver.sizes) != 0 {
		t.Errorf("cancelled drag persisted %v", saver.sizes)
	}
}

func TestWidthOnlyForcesAutoHeight(t *testing.T) {
	c := newTestController(WidthOnly, nil, alwaysActive)
	if err := c.Start(geometry.HandleSE, geometry.Point{}, geometry.FixedSize(200, 100)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	size, _ := c.Move(geometry.Point{X: 40, Y: 40})
	if !size.Height.IsAuto() {
		t.Errorf("height = %v, want auto", size.Height)
	}
}

func TestAspectFreeClampsHeightFloor(t *testing.T) {
	c := newTestController(AspectFree, nil, alwaysActive)
	if err := c.Start(geometry.HandleSE, geometry.Point{}, geometry.FixedSize(200, 100)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	size, _ := c.Move(geometry.Point{X: 0, Y: -500})
	if h, _ := size.Height.Px(); h != 20 {
		t.Errorf("height = %d, want floor 20", h)
	}
}

func TestMoveWhileIdleIsNoop(t *testing.T) {
	c := newTestController(WidthOnly, nil, alwaysActive)
	if _, ok := c.Move(geometry.Point{X: 10}); ok {
		t.Error("Move without a session should report false")
	}
}

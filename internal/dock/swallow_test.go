package dock

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/godock/godock/internal/x11"
)

// The live X connection must satisfy the swallower's view of the server.
var _ Adopter = (*x11.Connection)(nil)

const testContainer xproto.Window = 1

type reparentCall struct {
	win    xproto.Window
	parent xproto.Window
	x, y   int
}

// fakeX records every operation the swallower performs.
type fakeX struct {
	wm       bool
	resNames map[xproto.Window]string
	icons    map[xproto.Window]xproto.Window
	sizes    map[xproto.Window][2]int

	iconQueries int
	reparents   []reparentCall
	unmapped    []xproto.Window
	mapped      []xproto.Window
	stripped    []xproto.Window
	rootStopped bool
}

func (f *fakeX) CheckWindowManager() bool { return f.wm }

func (f *fakeX) IconWindow(win xproto.Window) (xproto.Window, bool) {
	f.iconQueries++
	icon, ok := f.icons[win]
	return icon, ok
}

func (f *fakeX) ResourceName(win xproto.Window) (string, bool) {
	name, ok := f.resNames[win]
	return name, ok
}

func (f *fakeX) WindowSize(win xproto.Window) (int, int) {
	size := f.sizes[win]
	return size[0], size[1]
}

func (f *fakeX) StripBorder(win xproto.Window) { f.stripped = append(f.stripped, win) }

func (f *fakeX) Reparent(win, parent xproto.Window, x, y int) {
	f.reparents = append(f.reparents, reparentCall{win, parent, x, y})
}

func (f *fakeX) MapRaised(win xproto.Window) { f.mapped = append(f.mapped, win) }
func (f *fakeX) Unmap(win xproto.Window)     { f.unmapped = append(f.unmapped, win) }
func (f *fakeX) Flush()                      {}
func (f *fakeX) StopRootNotify()             { f.rootStopped = true }

func testSwallower(t *testing.T, x *fakeX, reg *Registry, horizontal bool, onComplete func()) (*Swallower, *[]time.Duration) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewSwallower(x, reg, testContainer, 64, horizontal, logger, onComplete)
	var slept []time.Duration
	s.sleep = func(d time.Duration) { slept = append(slept, d) }
	return s, &slept
}

func TestHandleCreate_AdoptsAndCenters(t *testing.T) {
	reg := dockappRegistry(t, "wmclock")
	x := &fakeX{
		resNames: map[xproto.Window]string{100: "wmclock"},
		icons:    map[xproto.Window]xproto.Window{100: 101},
		sizes:    map[xproto.Window][2]int{101: {56, 56}},
	}
	completed := false
	s, _ := testSwallower(t, x, reg, false, func() { completed = true })

	s.HandleCreate(100)

	if reg.Get(0).Window != 101 {
		t.Fatalf("expected icon window 101 adopted, got %d", reg.Get(0).Window)
	}
	if !reg.AllDockappsAdopted() {
		t.Fatalf("expected all dockapps adopted")
	}
	if !completed {
		t.Fatalf("expected completion callback to fire")
	}
	if !x.rootStopped {
		t.Fatalf("expected root notifications stopped after completion")
	}

	// Without a window manager, one reparent pass only: main then icon.
	if len(x.reparents) != 2 {
		t.Fatalf("expected 2 reparents, got %d", len(x.reparents))
	}
	icon := x.reparents[1]
	if icon.win != 101 || icon.parent != testContainer || icon.x != 4 || icon.y != 4 {
		t.Fatalf("expected icon reparented to (4,4), got %+v", icon)
	}
	main := x.reparents[0]
	if main.win != 100 || main.x != 128 || main.y != 4 {
		t.Fatalf("expected main window pushed to (128,4), got %+v", main)
	}
	if len(x.unmapped) != 0 {
		t.Fatalf("expected no unmaps without a window manager")
	}
}

func TestHandleCreate_HorizontalCrossAxis(t *testing.T) {
	reg := dockappRegistry(t, "wmclock")
	x := &fakeX{
		resNames: map[xproto.Window]string{100: "wmclock"},
		icons:    map[xproto.Window]xproto.Window{100: 101},
		sizes:    map[xproto.Window][2]int{101: {56, 56}},
	}
	s, _ := testSwallower(t, x, reg, true, nil)

	s.HandleCreate(100)

	main := x.reparents[0]
	if main.x != 4 || main.y != 128 {
		t.Fatalf("expected main window pushed to (4,128), got %+v", main)
	}
}

func TestHandleCreate_ZeroSizePlacesAtTileOrigin(t *testing.T) {
	reg := dockappRegistry(t, "wmclock", "wmcpu")
	x := &fakeX{
		resNames: map[xproto.Window]string{200: "wmcpu"},
		icons:    map[xproto.Window]xproto.Window{200: 201},
	}
	s, _ := testSwallower(t, x, reg, false, nil)

	s.HandleCreate(200)

	icon := x.reparents[1]
	if icon.x != 0 || icon.y != 64 {
		t.Fatalf("expected zero-sized icon at tile origin (0,64), got %+v", icon)
	}
}

func TestHandleCreate_GivesUpAfterTwoIconAttempts(t *testing.T) {
	reg := dockappRegistry(t, "wmclock")
	x := &fakeX{
		resNames: map[xproto.Window]string{100: "wmclock"},
	}
	s, slept := testSwallower(t, x, reg, false, nil)

	s.HandleCreate(100)

	if x.iconQueries != 2 {
		t.Fatalf("expected exactly 2 icon attempts, got %d", x.iconQueries)
	}
	if len(*slept) != 2 || (*slept)[0] != 100*time.Millisecond {
		t.Fatalf("expected two 100ms inter-attempt delays, got %v", *slept)
	}
	if !reg.Get(0).Abandoned() {
		t.Fatalf("expected tile abandoned")
	}
	if reg.AllDockappsAdopted() {
		t.Fatalf("abandoned tile must keep the panel incomplete")
	}
	if len(x.reparents) != 0 {
		t.Fatalf("expected no reparenting for an abandoned tile")
	}

	// A second identical notification must not rematch the abandoned tile.
	s.HandleCreate(100)
	if x.iconQueries != 2 {
		t.Fatalf("expected abandoned tile to be ignored, got %d icon attempts", x.iconQueries)
	}
}

func TestHandleCreate_NoClassHintIgnored(t *testing.T) {
	reg := dockappRegistry(t, "wmclock")
	x := &fakeX{resNames: map[xproto.Window]string{}}
	s, _ := testSwallower(t, x, reg, false, nil)

	s.HandleCreate(100)

	if x.iconQueries != 0 || len(x.reparents) != 0 {
		t.Fatalf("expected window without class hint to be ignored")
	}
}

func TestHandleCreate_AtMostOneMatchPerNotification(t *testing.T) {
	reg := dockappRegistry(t, "wmclock", "wmclock")
	x := &fakeX{
		resNames: map[xproto.Window]string{100: "wmclock", 200: "wmclock"},
		icons:    map[xproto.Window]xproto.Window{100: 101, 200: 201},
		sizes:    map[xproto.Window][2]int{101: {56, 56}, 201: {56, 56}},
	}
	s, _ := testSwallower(t, x, reg, false, nil)

	s.HandleCreate(100)
	if reg.Get(0).Window != 101 {
		t.Fatalf("expected first notification to adopt the earlier tile")
	}
	if reg.Get(1).Window != 0 {
		t.Fatalf("expected second tile untouched by first notification")
	}

	s.HandleCreate(200)
	if reg.Get(1).Window != 201 {
		t.Fatalf("expected second notification to adopt the second tile")
	}
}

func TestHandleCreate_WindowManagerWorkaround(t *testing.T) {
	reg := dockappRegistry(t, "wmclock")
	x := &fakeX{
		wm:       true,
		resNames: map[xproto.Window]string{100: "wmclock"},
		icons:    map[xproto.Window]xproto.Window{100: 101},
		sizes:    map[xproto.Window][2]int{101: {56, 56}},
	}
	s, slept := testSwallower(t, x, reg, false, nil)

	s.HandleCreate(100)

	if len(x.unmapped) != 2 {
		t.Fatalf("expected both windows unmapped, got %v", x.unmapped)
	}
	// Workaround pass plus the unconditional pass.
	if len(x.reparents) != 4 {
		t.Fatalf("expected 4 reparents with workaround, got %d", len(x.reparents))
	}
	for i := 0; i < 2; i++ {
		if x.reparents[i] != x.reparents[i+2] {
			t.Fatalf("expected second pass to repeat the first: %+v vs %+v",
				x.reparents[i], x.reparents[i+2])
		}
	}
	want := []time.Duration{100 * time.Millisecond, 50 * time.Millisecond, 50 * time.Millisecond}
	if fmt.Sprint(*slept) != fmt.Sprint(want) {
		t.Fatalf("expected delays %v, got %v", want, *slept)
	}
	if reg.Get(0).Window != 101 {
		t.Fatalf("expected adoption to complete despite workaround")
	}
}

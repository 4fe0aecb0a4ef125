package loom

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/loom/render"
	"github.com/lixenwraith/loom/terminal"
)

// fakeTerm is an in-memory Terminal recording flushes and serving
// scripted events
type fakeTerm struct {
	mu      sync.Mutex
	w, h    int
	flushes []fakeFlush
	inited  bool
	finied  bool
	mouse   terminal.MouseMode

	events   chan terminal.Event
	resizeCh chan terminal.ResizeEvent
}

type fakeFlush struct {
	cells []terminal.Cell
	w, h  int
}

func newFakeTerm(w, h int) *fakeTerm {
	return &fakeTerm{
		w: w, h: h,
		events:   make(chan terminal.Event, 16),
		resizeCh: make(chan terminal.ResizeEvent, 1),
	}
}

func (f *fakeTerm) Init() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inited = true
	return nil
}

func (f *fakeTerm) Fini() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finied = true
}

func (f *fakeTerm) Size() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.w, f.h
}

func (f *fakeTerm) ResizeChan() <-chan terminal.ResizeEvent { return f.resizeCh }
func (f *fakeTerm) Profile() terminal.ColorProfile          { return terminal.ProfileTrueColor }

func (f *fakeTerm) Flush(cells []terminal.Cell, width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := make([]terminal.Cell, len(cells))
	copy(copied, cells)
	f.flushes = append(f.flushes, fakeFlush{cells: copied, w: width, h: height})
}

func (f *fakeTerm) Clear()                  {}
func (f *fakeTerm) SetCursorVisible(bool)   {}
func (f *fakeTerm) MoveCursor(x, y int)     {}
func (f *fakeTerm) Sync()                   {}
func (f *fakeTerm) PostEvent(terminal.Event) {}

func (f *fakeTerm) PollEvent() terminal.Event {
	ev, ok := <-f.events
	if !ok {
		return terminal.Event{Type: terminal.EventClosed}
	}
	return ev
}

func (f *fakeTerm) SetMouseMode(mode terminal.MouseMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mouse = mode
	return nil
}

func (f *fakeTerm) flushCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.flushes)
}

func (f *fakeTerm) waitForFlush(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if f.flushCount() > 0 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("no flush before deadline")
}

func runApp(t *testing.T, term *fakeTerm, root Component) (*App, <-chan error) {
	t.Helper()
	app := NewApp(Config{Terminal: term, FrameCap: time.Millisecond})
	errCh := make(chan error, 1)
	go func() { errCh <- app.Run(root) }()
	return app, errCh
}

func waitExit(t *testing.T, errCh <-chan error) {
	t.Helper()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestRunFlushesFrameAndExitsOnCtrlC(t *testing.T) {
	term := newFakeTerm(20, 5)
	_, errCh := runApp(t, term, Text{Content: "hi"})

	term.waitForFlush(t)
	term.events <- terminal.Event{Type: terminal.EventKey, Key: terminal.KeyCtrlC}
	waitExit(t, errCh)

	term.mu.Lock()
	defer term.mu.Unlock()
	if !term.inited || !term.finied {
		t.Errorf("lifecycle: inited=%v finied=%v", term.inited, term.finied)
	}
	first := term.flushes[0]
	if first.w != 20 || first.h != 5 {
		t.Fatalf("flush dims = %dx%d", first.w, first.h)
	}
	if first.cells[0].Rune != 'h' || first.cells[1].Rune != 'i' {
		t.Errorf("frame content = %q %q", first.cells[0].Rune, first.cells[1].Rune)
	}
}

func TestRunExitsWhenTerminalCloses(t *testing.T) {
	term := newFakeTerm(10, 3)
	_, errCh := runApp(t, term, Text{Content: "x"})

	term.waitForFlush(t)
	close(term.events)
	waitExit(t, errCh)
}

func TestKeyEventDrivesRepaint(t *testing.T) {
	term := newFakeTerm(10, 1)
	app := NewApp(Config{Terminal: term, FrameCap: time.Millisecond})

	root := keyProbe{
		onKey: func(ev terminal.Event) bool {
			if ev.Key != terminal.KeyRune || ev.Rune != '+' {
				return false
			}
			st := findCounterState(app.root)
			if st == nil {
				return false
			}
			st.SetState(func() { st.count++ })
			return true
		},
		content: counterComponent{},
	}

	errCh := make(chan error, 1)
	go func() { errCh <- app.Run(root) }()
	term.waitForFlush(t)

	term.events <- terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: '+'}

	deadline := time.Now().Add(2 * time.Second)
	for {
		term.mu.Lock()
		last := term.flushes[len(term.flushes)-1]
		term.mu.Unlock()
		if last.cells[0].Rune == '1' {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("counter frame never painted, last cell %q", last.cells[0].Rune)
		}
		time.Sleep(time.Millisecond)
	}

	app.Shutdown()
	waitExit(t, errCh)
}

func TestScheduleFrameCoalesces(t *testing.T) {
	app := NewApp(Config{Terminal: newFakeTerm(5, 5)})
	app.running.Store(true)

	app.ScheduleFrame()
	app.ScheduleFrame()
	app.ScheduleFrame()
	if n := len(app.frameCh); n != 1 {
		t.Errorf("pending frames = %d, want 1", n)
	}

	<-app.frameCh
	app.Shutdown()
	app.ScheduleFrame()
	if n := len(app.frameCh); n != 0 {
		t.Errorf("frame scheduled after shutdown: %d pending", n)
	}
}

func TestAppForwardsLayoutViolations(t *testing.T) {
	var got error
	app := NewApp(Config{
		Terminal: newFakeTerm(10, 3),
		OnError:  func(err error) { got = err },
	})
	app.root = app.owner.MountRoot(oversizeBox{})
	app.owner.FlushBuild()
	Layout(app.root.firstRenderObject(), TightFor(10, 3))

	var v LayoutViolation
	if got == nil || !errors.As(got, &v) {
		t.Fatalf("sink got %v, want a layout violation", got)
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	app := NewApp(Config{Terminal: newFakeTerm(5, 5)})
	app.Shutdown()
	app.Shutdown()
	select {
	case <-app.shutdownCh:
	default:
		t.Error("shutdown channel not closed")
	}
}

// keyProbe consumes key events via a callback, passing layout through
type keyProbe struct {
	ComponentBase
	onKey   func(terminal.Event) bool
	content Component
}

func (k keyProbe) Child() Component { return k.content }

func (k keyProbe) CreateRenderObject() RenderObject {
	return &renderKeyProbe{onKey: k.onKey}
}

func (k keyProbe) UpdateRenderObject(ro RenderObject) {
	ro.(*renderKeyProbe).onKey = k.onKey
}

type renderKeyProbe struct {
	RenderBase
	onKey func(terminal.Event) bool
}

func (r *renderKeyProbe) PerformLayout(c Constraints) Size {
	child := r.ChildAt(0)
	if child == nil {
		return c.Constrain(Size{})
	}
	sz := r.LayoutChild(child, c, true)
	r.SetChildOffset(child, Offset{})
	return sz
}

func (r *renderKeyProbe) Paint(canvas *render.Canvas, origin Offset) {
	if child := r.ChildAt(0); child != nil {
		PaintChild(canvas, child, origin)
	}
}

func (r *renderKeyProbe) HandleKey(ev terminal.Event) bool {
	if r.onKey == nil {
		return false
	}
	return r.onKey(ev)
}

func TestHandledCtrlCDoesNotShutDown(t *testing.T) {
	app := NewApp(Config{Terminal: newFakeTerm(10, 3)})
	var got []terminal.Event
	app.root = app.owner.MountRoot(keyProbe{
		onKey: func(ev terminal.Event) bool {
			got = append(got, ev)
			return true
		},
		content: Text{Content: "x"},
	})
	app.owner.FlushBuild()

	app.dispatchKey(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyCtrlC})
	select {
	case <-app.shutdownCh:
		t.Error("shutdown despite handled Ctrl+C")
	default:
	}
	if len(got) != 1 || got[0].Key != terminal.KeyCtrlC {
		t.Errorf("handler saw %+v", got)
	}
}

func TestUnhandledQuitKeysShutDown(t *testing.T) {
	for _, key := range []terminal.Key{terminal.KeyCtrlC, terminal.KeyEscape} {
		app := NewApp(Config{Terminal: newFakeTerm(10, 3)})
		app.root = app.owner.MountRoot(Text{Content: "x"})
		app.owner.FlushBuild()

		app.dispatchKey(terminal.Event{Type: terminal.EventKey, Key: key})
		select {
		case <-app.shutdownCh:
		default:
			t.Errorf("unhandled %v did not shut down", key)
		}
	}
}

func TestKeyOfferedInnermostFirst(t *testing.T) {
	app := NewApp(Config{Terminal: newFakeTerm(10, 3)})
	var order []string
	probe := func(name string, consume bool, content Component) keyProbe {
		return keyProbe{
			onKey: func(terminal.Event) bool {
				order = append(order, name)
				return consume
			},
			content: content,
		}
	}
	app.root = app.owner.MountRoot(
		probe("outer", true, probe("inner", false, Text{Content: "x"})),
	)
	app.owner.FlushBuild()

	app.dispatchKey(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'a'})
	if len(order) != 2 || order[0] != "inner" || order[1] != "outer" {
		t.Errorf("offer order = %v", order)
	}
}

func TestMouseWheelReachesViewport(t *testing.T) {
	app := NewApp(Config{Terminal: newFakeTerm(5, 3)})
	items := make([]Component, 10)
	for i := range items {
		items[i] = Text{Content: "x"}
	}
	app.root = app.owner.MountRoot(ScrollView{Content: Column{Items: items}})
	app.owner.FlushBuild()

	ro := app.root.firstRenderObject()
	Layout(ro, TightFor(5, 3))
	buf := render.NewBuffer(5, 3)
	ro.Base().worldOffset = Offset{}
	ro.Paint(render.NewCanvas(buf), Offset{})

	app.dispatchMouse(terminal.Event{
		Type:     terminal.EventMouse,
		MouseBtn: terminal.MouseBtnWheelDown,
		MouseX:   2, MouseY: 1,
	})
	if len(app.owner.dirty) == 0 {
		t.Error("wheel over viewport scheduled no rebuild")
	}

	// A wheel outside the tree must be ignored
	app.owner.FlushBuild()
	app.dispatchMouse(terminal.Event{
		Type:     terminal.EventMouse,
		MouseBtn: terminal.MouseBtnWheelUp,
		MouseX:   40, MouseY: 40,
	})
	if len(app.owner.dirty) != 0 {
		t.Error("wheel outside tree scheduled a rebuild")
	}
}

func TestEventsStreamPublishes(t *testing.T) {
	term := newFakeTerm(10, 3)
	app, errCh := runApp(t, term, Text{Content: "x"})
	sub, cancel := app.Events().Subscribe(8)
	defer cancel()

	term.waitForFlush(t)
	term.events <- terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'z'}

	select {
	case ev := <-sub:
		if ev.Key != terminal.KeyRune || ev.Rune != 'z' {
			t.Errorf("published event = %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event not published to stream")
	}

	app.Shutdown()
	waitExit(t, errCh)
}

func TestResizeEventSchedulesFrame(t *testing.T) {
	term := newFakeTerm(10, 3)
	app, errCh := runApp(t, term, Text{Content: "resize me"})
	term.waitForFlush(t)

	before := term.flushCount()
	term.mu.Lock()
	term.w, term.h = 30, 8
	term.mu.Unlock()
	term.events <- terminal.Event{Type: terminal.EventResize, Width: 30, Height: 8}

	deadline := time.Now().Add(2 * time.Second)
	for {
		term.mu.Lock()
		n := len(term.flushes)
		var last fakeFlush
		if n > 0 {
			last = term.flushes[n-1]
		}
		term.mu.Unlock()
		if n > before && last.w == 30 && last.h == 8 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no frame at new size")
		}
		time.Sleep(time.Millisecond)
	}

	app.Shutdown()
	waitExit(t, errCh)
}

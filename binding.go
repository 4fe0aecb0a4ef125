package loom

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/loom/render"
	"github.com/lixenwraith/loom/terminal"
)

// KeyboardHandler is implemented by render objects that consume key
// events. Events are offered innermost first; returning true stops
// propagation.
type KeyboardHandler interface {
	HandleKey(ev terminal.Event) bool
}

// ScrollHandler is implemented by render objects that consume wheel
// events. The innermost handler under the pointer is offered first;
// delta is negative for wheel up.
type ScrollHandler interface {
	HandleScroll(delta int) bool
}

// MouseHandler is implemented by render objects that consume
// non-wheel mouse events. Coordinates are local to the object.
type MouseHandler interface {
	HandleMouse(ev terminal.Event) bool
}

// Config parameterizes an App
type Config struct {
	// Terminal to drive; when nil a default ANSI terminal is created
	Terminal terminal.Terminal
	// MouseMode to enable after init
	MouseMode terminal.MouseMode
	// FrameCap is the minimum interval between frames; zero means the
	// 16ms default
	FrameCap time.Duration
	// OnError receives non-fatal pipeline errors; nil drops them
	OnError func(error)
}

const defaultFrameCap = 16 * time.Millisecond

// App owns the element tree, the frame scheduler, and the event loop
type App struct {
	term      terminal.Terminal
	pipeline  *PipelineOwner
	owner     *BuildOwner
	root      Element
	frameCap  time.Duration
	onError   func(error)
	mouseMode terminal.MouseMode

	events *Stream[terminal.Event]

	frameCh    chan struct{}
	shutdownCh chan struct{}
	done       sync.Once
	running    atomic.Bool

	lastFrame time.Time
}

// NewApp creates an app for the given root component
func NewApp(cfg Config) *App {
	term := cfg.Terminal
	if term == nil {
		term = terminal.New()
	}

	frameCap := cfg.FrameCap
	if frameCap <= 0 {
		frameCap = defaultFrameCap
	}

	pipeline := NewPipelineOwner()
	owner := NewBuildOwner(pipeline)

	a := &App{
		term:       term,
		pipeline:   pipeline,
		owner:      owner,
		frameCap:   frameCap,
		onError:    cfg.OnError,
		mouseMode:  cfg.MouseMode,
		events:     NewStream[terminal.Event](),
		frameCh:    make(chan struct{}, 1),
		shutdownCh: make(chan struct{}),
	}
	owner.OnBuildScheduled(a.ScheduleFrame)
	pipeline.OnNeedsVisualUpdate(a.ScheduleFrame)
	pipeline.OnError(a.reportError)
	return a
}

// Events returns the broadcast stream of raw terminal events. Values
// are published after framework dispatch, whether or not a handler
// consumed them.
func (a *App) Events() *Stream[terminal.Event] {
	return a.events
}

// ScheduleFrame requests a frame. Requests coalesce: any number of
// calls before the next frame produce exactly one frame. After
// shutdown it is a no-op.
func (a *App) ScheduleFrame() {
	if !a.running.Load() {
		return
	}
	select {
	case a.frameCh <- struct{}{}:
	default:
	}
}

// Shutdown stops the event loop. Safe to call from any goroutine and
// more than once.
func (a *App) Shutdown() {
	a.done.Do(func() {
		a.running.Store(false)
		close(a.shutdownCh)
	})
}

// Run initializes the terminal, mounts the root component, and drives
// the event loop until Shutdown. It restores the terminal before
// returning.
func (a *App) Run(root Component) error {
	if err := a.term.Init(); err != nil {
		return errors.Wrap(err, "init terminal")
	}
	defer a.term.Fini()

	if a.mouseMode != terminal.MouseModeOff {
		if err := a.term.SetMouseMode(a.mouseMode); err != nil {
			a.reportError(errors.Wrap(err, "set mouse mode"))
		}
	}

	a.running.Store(true)
	a.root = a.owner.MountRoot(root)
	defer func() {
		a.root.Unmount()
		a.events.Close()
	}()

	a.ScheduleFrame()

	eventCh := make(chan terminal.Event, 64)
	go a.pumpEvents(eventCh)

	sizeTicker := time.NewTicker(time.Second)
	defer sizeTicker.Stop()
	lastW, lastH := a.term.Size()

	for {
		select {
		case <-a.shutdownCh:
			return nil

		case ev := <-eventCh:
			a.dispatchEvent(ev)

		case <-a.frameCh:
			a.throttleFrame()
			a.drawFrame()

		case <-sizeTicker.C:
			// Safety net for hosts that never deliver resize events
			if w, h := a.term.Size(); w != lastW || h != lastH {
				lastW, lastH = w, h
				a.ScheduleFrame()
			}
		}
	}
}

// pumpEvents moves terminal events onto the loop channel until the
// terminal closes or the app shuts down
func (a *App) pumpEvents(out chan<- terminal.Event) {
	for {
		ev := a.term.PollEvent()
		select {
		case out <- ev:
		case <-a.shutdownCh:
			return
		}
		if ev.Type == terminal.EventClosed {
			return
		}
	}
}

func (a *App) throttleFrame() {
	if a.lastFrame.IsZero() {
		return
	}
	if wait := a.frameCap - time.Since(a.lastFrame); wait > 0 {
		time.Sleep(wait)
	}
}

// drawFrame runs one full pipeline pass: build, layout, paint, emit
func (a *App) drawFrame() {
	if !a.running.Load() {
		return
	}
	a.lastFrame = time.Now()

	a.owner.FlushBuild()

	w, h := a.term.Size()
	if w <= 0 || h <= 0 {
		return
	}

	rootRO := a.root.firstRenderObject()
	if rootRO == nil {
		return
	}

	Layout(rootRO, TightFor(float64(w), float64(h)))
	a.pipeline.FlushLayout()

	buf := render.NewBuffer(w, h)
	canvas := render.NewCanvas(buf)
	rootRO.Base().worldOffset = Offset{}
	rootRO.Paint(canvas, Offset{})

	a.term.Flush(buf.Cells(), w, h)
}

// PaintChild paints a child at its layout offset relative to origin,
// recording the child's absolute position for hit testing
func PaintChild(canvas *render.Canvas, child RenderObject, origin Offset) {
	b := child.Base()
	childOrigin := origin.Add(b.parentOffset)
	var parentWorld Offset
	if b.parent != nil {
		parentWorld = b.parent.Base().worldOffset
	}
	b.worldOffset = parentWorld.Add(b.parentOffset)
	child.Paint(canvas, childOrigin)
}

func (a *App) dispatchEvent(ev terminal.Event) {
	switch ev.Type {
	case terminal.EventKey:
		a.dispatchKey(ev)
	case terminal.EventMouse:
		a.dispatchMouse(ev)
	case terminal.EventResize:
		a.ScheduleFrame()
	case terminal.EventError:
		a.reportError(ev.Err)
	case terminal.EventClosed:
		a.Shutdown()
		return
	}
	a.events.Publish(ev)
}

// dispatchKey offers the event to handlers deepest first; an unhandled
// Ctrl+C or Escape shuts the app down
func (a *App) dispatchKey(ev terminal.Event) {
	handled := false
	if root := a.root.firstRenderObject(); root != nil {
		handled = offerKey(root, ev)
	}
	if !handled && (ev.Key == terminal.KeyCtrlC || ev.Key == terminal.KeyEscape) {
		a.Shutdown()
	}
}

func offerKey(ro RenderObject, ev terminal.Event) bool {
	for _, child := range ro.Base().children {
		if offerKey(child, ev) {
			return true
		}
	}
	if h, ok := ro.(KeyboardHandler); ok {
		return h.HandleKey(ev)
	}
	return false
}

// dispatchMouse hit-tests the render tree at the pointer position and
// offers the event innermost first
func (a *App) dispatchMouse(ev terminal.Event) {
	root := a.root.firstRenderObject()
	if root == nil {
		return
	}

	var path []RenderObject
	collectHits(root, float64(ev.MouseX), float64(ev.MouseY), &path)

	for i := len(path) - 1; i >= 0; i-- {
		ro := path[i]
		switch ev.MouseBtn {
		case terminal.MouseBtnWheelUp, terminal.MouseBtnWheelDown:
			if h, ok := ro.(ScrollHandler); ok {
				delta := 1
				if ev.MouseBtn == terminal.MouseBtnWheelUp {
					delta = -1
				}
				if h.HandleScroll(delta) {
					return
				}
			}
		default:
			if h, ok := ro.(MouseHandler); ok {
				local := ev
				local.MouseX = ev.MouseX - int(ro.Base().worldOffset.X)
				local.MouseY = ev.MouseY - int(ro.Base().worldOffset.Y)
				if h.HandleMouse(local) {
					return
				}
			}
		}
	}
}

// collectHits appends every render object containing the point,
// outermost first
func collectHits(ro RenderObject, x, y float64, out *[]RenderObject) {
	b := ro.Base()
	if x < b.worldOffset.X || x >= b.worldOffset.X+b.size.W ||
		y < b.worldOffset.Y || y >= b.worldOffset.Y+b.size.H {
		return
	}
	*out = append(*out, ro)
	for _, child := range b.children {
		collectHits(child, x, y, out)
	}
}

func (a *App) reportError(err error) {
	if err == nil {
		return
	}
	if a.onError != nil {
		a.onError(err)
	}
}

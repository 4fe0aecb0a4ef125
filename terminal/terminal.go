package terminal

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// Terminal provides low-level terminal access
type Terminal interface {
	// Init enters raw mode, alternate screen buffer, hides cursor
	Init() error

	// Fini restores terminal state. Safe to call multiple times
	Fini()

	// Size returns current terminal dimensions
	Size() (width, height int)

	// ResizeChan returns channel that receives resize events
	ResizeChan() <-chan ResizeEvent

	// Profile returns detected color capability
	Profile() ColorProfile

	// Flush writes cell buffer to terminal.
	// Cells are row-major: cells[y*width + x]
	Flush(cells []Cell, width, height int)

	// Clear erases the screen and resets the diff state
	Clear()

	// SetCursorVisible shows/hides cursor
	SetCursorVisible(visible bool)

	// MoveCursor positions cursor (0-indexed)
	MoveCursor(x, y int)

	// Sync forces full redraw on next Flush
	Sync()

	// PollEvent blocks until next input event
	PollEvent() Event

	// PostEvent injects a synthetic event
	PostEvent(Event)

	// SetMouseMode selects which mouse events are reported
	SetMouseMode(mode MouseMode) error
}

// backendWriter adapts Backend's Write([]byte) error to io.Writer.
type backendWriter struct {
	b Backend
}

func (w backendWriter) Write(p []byte) (int, error) {
	if err := w.b.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// ResizeEvent represents a terminal resize
type ResizeEvent struct {
	Width  int
	Height int
}

// termImpl implements Terminal over a Backend with direct ANSI output
type termImpl struct {
	backend Backend

	output      *outputBuffer
	parser      *Parser
	eventCh     chan Event
	syntheticCh chan Event
	resizeCh    chan ResizeEvent
	stopCh      chan struct{}
	readerDone  chan struct{}

	cursorVisible atomic.Bool

	mu          sync.Mutex
	initialized bool
	finalized   bool
	mouseMode   MouseMode
}

// New creates a Terminal writing direct ANSI to stdout. The color
// profile is detected from the environment unless given explicitly.
func New(profile ...ColorProfile) Terminal {
	b := newBackend()

	var p ColorProfile
	if len(profile) == 0 {
		p = DetectColorProfile()
	} else {
		p = profile[0]
	}

	return &termImpl{
		backend:     b,
		output:      newOutputBuffer(backendWriter{b}, p),
		parser:      NewParser(),
		eventCh:     make(chan Event, 256),
		syntheticCh: make(chan Event, 16),
		resizeCh:    make(chan ResizeEvent, 1),
	}
}

// Init enters raw mode and sets up the terminal
func (t *termImpl) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}

	if err := t.backend.Init(); err != nil {
		return err
	}

	w, h := t.backend.Size()
	t.output.resize(w, h)

	t.backend.SetResizeHandler(func(w, h int) {
		// Keep only the latest pending size
		select {
		case t.resizeCh <- ResizeEvent{Width: w, Height: h}:
		default:
			select {
			case <-t.resizeCh:
			default:
			}
			select {
			case t.resizeCh <- ResizeEvent{Width: w, Height: h}:
			default:
			}
		}
	})

	t.writeRaw(csiAltScreenEnter)
	t.writeRaw(csiCursorHide)

	// Prevents terminal scroll on bottom-right corner write
	t.writeRaw(csiAutoWrapOff)

	t.cursorVisible.Store(false)

	t.output.clear()

	t.stopCh = make(chan struct{})
	t.readerDone = make(chan struct{})
	go t.readLoop()

	t.initialized = true
	return nil
}

// Fini restores terminal state
func (t *termImpl) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	// All four disable codes, whatever tier is active
	t.writeRaw(csiMouseMotionOff)
	t.writeRaw(csiMouseDragOff)
	t.writeRaw(csiMouseClickOff)
	t.writeRaw(csiMouseSGROff)
	t.mouseMode = MouseModeOff

	close(t.stopCh)
	<-t.readerDone

	t.writeRaw(csiCursorShow)
	t.writeRaw(csiAltScreenExit)
	// Re-enable wrap after leaving the alternate screen so the main
	// buffer keeps normal behavior
	t.writeRaw(csiAutoWrapOn)
	t.writeRaw(csiReset)

	t.backend.Fini()

	t.finalized = true
}

// readLoop feeds raw bytes through the parser on a dedicated goroutine
func (t *termImpl) readLoop() {
	defer close(t.readerDone)

	for {
		select {
		case <-t.stopCh:
			t.sendEvent(Event{Type: EventClosed})
			return
		default:
		}

		data, err := t.backend.Read(t.stopCh)
		if err != nil {
			t.sendEvent(Event{Type: EventError, Err: err})
			return
		}

		if len(data) == 0 {
			// Poll timeout: a buffered lone ESC is now the Escape key
			if ev, ok := t.parser.FlushEscape(); ok {
				t.sendEvent(ev)
			}
			continue
		}

		t.parser.Feed(data)
		for {
			ev, ok := t.parser.Next()
			if !ok {
				break
			}
			t.sendEvent(ev)
		}
	}
}

// sendEvent sends an event to the channel, non-blocking
func (t *termImpl) sendEvent(ev Event) {
	select {
	case t.eventCh <- ev:
	default:
		// Channel full, drop event
	}
}

// Size returns current terminal dimensions
func (t *termImpl) Size() (int, int) {
	return t.backend.Size()
}

// ResizeChan returns the resize event channel
func (t *termImpl) ResizeChan() <-chan ResizeEvent {
	return t.resizeCh
}

// Profile returns detected color capability
func (t *termImpl) Profile() ColorProfile {
	return t.output.profile
}

// Flush writes cell buffer to terminal.
// Holds the lock for the whole diff to avoid racing Clear/MoveCursor.
func (t *termImpl) Flush(cells []Cell, width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	// Drop stale frames during a resize race
	currW, currH := t.backend.Size()
	if currW != width || currH != height {
		return
	}

	t.output.flush(cells, width, height)
}

// Clear erases the screen
func (t *termImpl) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	t.output.clear()
}

// SetCursorVisible shows/hides cursor
func (t *termImpl) SetCursorVisible(visible bool) {
	if t.cursorVisible.Swap(visible) == visible {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	w := t.output.writer
	if visible {
		w.Write(csiCursorShow)
	} else {
		w.Write(csiCursorHide)
	}
	w.Flush()
}

// MoveCursor positions cursor (0-indexed)
func (t *termImpl) MoveCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	t.output.invalidateCursor()

	w, h := t.backend.Size()
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x >= w {
		x = w - 1
	}
	if y >= h {
		y = h - 1
	}

	wBuf := t.output.writer
	writeCursorPos(wBuf, x, y)
	wBuf.Flush()
}

// Sync forces full redraw
func (t *termImpl) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	// Diffing assumes the physical screen matches the front buffer, so
	// clear before invalidating
	t.output.clear()
	t.output.forceFullRedraw()
}

// PollEvent blocks until next input event
func (t *termImpl) PollEvent() Event {
	select {
	case ev := <-t.syntheticCh:
		return ev
	default:
	}

	select {
	case ev := <-t.syntheticCh:
		return ev
	case ev := <-t.eventCh:
		return ev
	case re := <-t.resizeCh:
		return Event{Type: EventResize, Width: re.Width, Height: re.Height}
	}
}

// PostEvent injects a synthetic event
func (t *termImpl) PostEvent(ev Event) {
	select {
	case t.syntheticCh <- ev:
	default:
		// Channel full, drop
	}
}

// SetMouseMode selects mouse reporting level
func (t *termImpl) SetMouseMode(mode MouseMode) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return nil
	}

	old := t.mouseMode
	t.mouseMode = mode
	if old != mode {
		t.writeMouseMode(old, mode)
	}
	return nil
}

// writeMouseMode emits the transitions between two reporting levels.
// Levels nest: click < drag < motion, with SGR encoding toggled after
// the tier codes in both directions.
func (t *termImpl) writeMouseMode(old, mode MouseMode) {
	w := t.output.writer

	if mode < old {
		if old >= MouseModeMotion && mode < MouseModeMotion {
			w.Write(csiMouseMotionOff)
		}
		if old >= MouseModeDrag && mode < MouseModeDrag {
			w.Write(csiMouseDragOff)
		}
		if old >= MouseModeClick && mode < MouseModeClick {
			w.Write(csiMouseClickOff)
		}
		if mode == MouseModeOff {
			w.Write(csiMouseSGROff)
		}
	} else {
		if old == MouseModeOff {
			w.Write(csiMouseClickOn)
		}
		if mode >= MouseModeDrag && old < MouseModeDrag {
			w.Write(csiMouseDragOn)
		}
		if mode >= MouseModeMotion && old < MouseModeMotion {
			w.Write(csiMouseMotionOn)
		}
		if old == MouseModeOff {
			w.Write(csiMouseSGROn)
		}
	}

	w.Flush()
}

// writeRaw writes raw bytes directly to the backend
func (t *termImpl) writeRaw(data []byte) {
	t.backend.Write(data)
}

// EmergencyReset attempts to restore the terminal to a sane state.
// Call from panic recovery when Fini cannot run normally.
func EmergencyReset(w io.Writer) {
	w.Write(csiMouseMotionOff)
	w.Write(csiMouseDragOff)
	w.Write(csiMouseClickOff)
	w.Write(csiMouseSGROff)

	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiReset)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone do not restore termios
	resetTerminalMode()
}

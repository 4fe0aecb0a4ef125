package terminal

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
)

// tcellTerminal implements Terminal over a tcell.Screen for hosts that
// need terminfo-driven output instead of direct ANSI.
type tcellTerminal struct {
	screen tcell.Screen

	eventCh     chan Event
	syntheticCh chan Event
	resizeCh    chan ResizeEvent
	stopCh      chan struct{}
	pollerDone  chan struct{}

	mu          sync.Mutex
	initialized bool
	finalized   bool
	mouseMode   MouseMode
	cursorX     int
	cursorY     int
	cursorShown bool
	lastButtons tcell.ButtonMask
}

// NewTcellTerminal creates a Terminal backed by tcell
func NewTcellTerminal() (Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.Wrap(err, "create tcell screen")
	}
	return &tcellTerminal{
		screen:      screen,
		eventCh:     make(chan Event, 256),
		syntheticCh: make(chan Event, 16),
		resizeCh:    make(chan ResizeEvent, 1),
	}, nil
}

func (t *tcellTerminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}
	if err := t.screen.Init(); err != nil {
		return errors.Wrap(err, "init tcell screen")
	}
	t.screen.HideCursor()
	t.screen.Clear()

	t.stopCh = make(chan struct{})
	t.pollerDone = make(chan struct{})
	go t.pollLoop()

	t.initialized = true
	return nil
}

func (t *tcellTerminal) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}
	close(t.stopCh)
	t.screen.Fini() // Unblocks PollEvent with a nil event
	<-t.pollerDone
	t.finalized = true
}

// pollLoop translates tcell events into terminal events
func (t *tcellTerminal) pollLoop() {
	defer close(t.pollerDone)

	for {
		tev := t.screen.PollEvent()
		if tev == nil {
			t.sendEvent(Event{Type: EventClosed})
			return
		}

		switch ev := tev.(type) {
		case *tcell.EventKey:
			t.sendEvent(translateTcellKey(ev))
		case *tcell.EventMouse:
			t.sendEvent(t.translateTcellMouse(ev))
		case *tcell.EventResize:
			w, h := ev.Size()
			select {
			case t.resizeCh <- ResizeEvent{Width: w, Height: h}:
			default:
			}
			t.sendEvent(Event{Type: EventResize, Width: w, Height: h})
		case *tcell.EventError:
			t.sendEvent(Event{Type: EventError, Err: ev})
		}
	}
}

func (t *tcellTerminal) sendEvent(ev Event) {
	select {
	case t.eventCh <- ev:
	default:
	}
}

func (t *tcellTerminal) Size() (int, int) {
	return t.screen.Size()
}

func (t *tcellTerminal) ResizeChan() <-chan ResizeEvent {
	return t.resizeCh
}

func (t *tcellTerminal) Profile() ColorProfile {
	if t.screen.Colors() >= 1<<24 {
		return ProfileTrueColor
	}
	return Profile256
}

func (t *tcellTerminal) Flush(cells []Cell, width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}
	if len(cells) < width*height {
		return
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := cells[y*width+x]
			if c.IsContinuation() {
				continue // tcell manages wide-rune spill itself
			}
			t.screen.SetContent(x, y, c.Rune, nil, tcellStyle(c.Style))
		}
	}
	t.screen.Show()
}

func (t *tcellTerminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}
	t.screen.Clear()
	t.screen.Show()
}

func (t *tcellTerminal) SetCursorVisible(visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}
	t.cursorShown = visible
	if visible {
		t.screen.ShowCursor(t.cursorX, t.cursorY)
	} else {
		t.screen.HideCursor()
	}
	t.screen.Show()
}

func (t *tcellTerminal) MoveCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}
	t.cursorX, t.cursorY = x, y
	if t.cursorShown {
		t.screen.ShowCursor(x, y)
		t.screen.Show()
	}
}

func (t *tcellTerminal) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}
	t.screen.Sync()
}

func (t *tcellTerminal) PollEvent() Event {
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
	}
}

func (t *tcellTerminal) PostEvent(ev Event) {
	select {
	case t.syntheticCh <- ev:
	default:
	}
}

func (t *tcellTerminal) SetMouseMode(mode MouseMode) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return nil
	}
	t.mouseMode = mode

	switch mode {
	case MouseModeOff:
		t.screen.DisableMouse()
	case MouseModeClick:
		t.screen.EnableMouse(tcell.MouseButtonEvents)
	case MouseModeDrag:
		t.screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)
	case MouseModeMotion:
		t.screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents | tcell.MouseMotionEvents)
	}
	return nil
}

// tcellStyle converts a cell style to a tcell style
func tcellStyle(s Style) tcell.Style {
	st := tcell.StyleDefault.
		Foreground(tcellColor(s.Fg)).
		Background(tcellColor(s.Bg))
	if s.Attrs.Has(AttrBold) {
		st = st.Bold(true)
	}
	if s.Attrs.Has(AttrDim) {
		st = st.Dim(true)
	}
	if s.Attrs.Has(AttrItalic) {
		st = st.Italic(true)
	}
	if s.Attrs.Has(AttrUnderline) {
		st = st.Underline(true)
	}
	if s.Attrs.Has(AttrBlink) {
		st = st.Blink(true)
	}
	if s.Attrs.Has(AttrReverse) {
		st = st.Reverse(true)
	}
	return st
}

// tcellColor converts a Color to a tcell color
func tcellColor(c Color) tcell.Color {
	switch c.Kind {
	case ColorBasic, ColorPalette:
		return tcell.PaletteColor(int(c.Index))
	case ColorRGB:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	default:
		return tcell.ColorDefault
	}
}

// translateTcellKey converts a tcell key event
func translateTcellKey(ev *tcell.EventKey) Event {
	out := Event{Type: EventKey}

	mods := ev.Modifiers()
	if mods&tcell.ModShift != 0 {
		out.Modifiers |= ModShift
	}
	if mods&tcell.ModAlt != 0 {
		out.Modifiers |= ModAlt
	}
	if mods&tcell.ModCtrl != 0 {
		out.Modifiers |= ModCtrl
	}

	switch key := ev.Key(); key {
	case tcell.KeyRune:
		out.Key = KeyRune
		out.Rune = ev.Rune()
	case tcell.KeyEscape:
		out.Key = KeyEscape
	case tcell.KeyEnter:
		out.Key = KeyEnter
	case tcell.KeyTab:
		out.Key = KeyTab
	case tcell.KeyBacktab:
		out.Key = KeyBacktab
		out.Modifiers |= ModShift
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		out.Key = KeyBackspace
	case tcell.KeyDelete:
		out.Key = KeyDelete
	case tcell.KeyUp:
		out.Key = KeyUp
	case tcell.KeyDown:
		out.Key = KeyDown
	case tcell.KeyLeft:
		out.Key = KeyLeft
	case tcell.KeyRight:
		out.Key = KeyRight
	case tcell.KeyHome:
		out.Key = KeyHome
	case tcell.KeyEnd:
		out.Key = KeyEnd
	case tcell.KeyPgUp:
		out.Key = KeyPageUp
	case tcell.KeyPgDn:
		out.Key = KeyPageDown
	case tcell.KeyInsert:
		out.Key = KeyInsert
	default:
		if key >= tcell.KeyF1 && key <= tcell.KeyF12 {
			out.Key = KeyF1 + Key(key-tcell.KeyF1)
		} else if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
			out.Key = KeyCtrlA + Key(key-tcell.KeyCtrlA)
		} else {
			out.Key = KeyNone
		}
	}
	return out
}

// translateTcellMouse converts a tcell mouse event, inferring the
// press/release/drag action from button state transitions
func (t *tcellTerminal) translateTcellMouse(ev *tcell.EventMouse) Event {
	x, y := ev.Position()
	out := Event{Type: EventMouse, MouseX: x, MouseY: y}

	mods := ev.Modifiers()
	if mods&tcell.ModShift != 0 {
		out.Modifiers |= ModShift
	}
	if mods&tcell.ModAlt != 0 {
		out.Modifiers |= ModAlt
	}
	if mods&tcell.ModCtrl != 0 {
		out.Modifiers |= ModCtrl
	}

	buttons := ev.Buttons()

	if buttons&tcell.WheelUp != 0 {
		out.MouseBtn = MouseBtnWheelUp
		out.MouseAction = MouseActionPress
		return out
	}
	if buttons&tcell.WheelDown != 0 {
		out.MouseBtn = MouseBtnWheelDown
		out.MouseAction = MouseActionPress
		return out
	}

	held := buttons & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	prev := t.lastButtons & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	t.lastButtons = buttons

	switch {
	case held != 0 && prev == 0:
		out.MouseAction = MouseActionPress
		out.MouseBtn = tcellButton(held)
	case held == 0 && prev != 0:
		out.MouseAction = MouseActionRelease
		out.MouseBtn = tcellButton(prev)
	case held != 0:
		out.MouseAction = MouseActionDrag
		out.MouseBtn = tcellButton(held)
	default:
		out.MouseAction = MouseActionMove
		out.MouseBtn = MouseBtnNone
	}
	return out
}

func tcellButton(b tcell.ButtonMask) MouseButton {
	switch {
	case b&tcell.Button1 != 0:
		return MouseBtnLeft
	case b&tcell.Button3 != 0:
		return MouseBtnMiddle
	case b&tcell.Button2 != 0:
		return MouseBtnRight
	default:
		return MouseBtnNone
	}
}

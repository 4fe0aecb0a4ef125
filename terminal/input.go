package terminal

import (
	"time"
)

// EventType distinguishes input event categories
type EventType uint8

const (
	EventKey EventType = iota
	EventMouse
	EventResize
	EventError  // Read error
	EventClosed // Input closed
)

// Event represents a terminal input event
type Event struct {
	Type      EventType
	Key       Key
	Rune      rune
	Modifiers Modifier
	Width     int   // For EventResize
	Height    int   // For EventResize
	Err       error // For EventError

	MouseX      int
	MouseY      int
	MouseBtn    MouseButton
	MouseAction MouseAction
}

// escapeTimeout is the duration to wait after a lone ESC to distinguish
// the Escape key from the start of an escape sequence
const escapeTimeout = 50 * time.Millisecond

// Parser assembles raw terminal bytes into input events. Feed appends
// bytes from the wire; Next pulls complete events one at a time, leaving
// partial sequences buffered for the next read. A Parser is not safe for
// concurrent use.
type Parser struct {
	buf []byte
}

// NewParser creates an input parser
func NewParser() *Parser {
	return &Parser{buf: make([]byte, 0, 256)}
}

// Feed appends raw bytes to the parse buffer
func (p *Parser) Feed(data []byte) {
	p.buf = append(p.buf, data...)
}

// Pending reports whether unconsumed bytes remain
func (p *Parser) Pending() bool {
	return len(p.buf) > 0
}

// consume drops n bytes from the front of the buffer
func (p *Parser) consume(n int) {
	if n >= len(p.buf) {
		p.buf = p.buf[:0]
		return
	}
	copy(p.buf, p.buf[n:])
	p.buf = p.buf[:len(p.buf)-n]
}

// Next parses one event from the buffer. Returns false when the buffer
// is empty or holds only an incomplete sequence. Unknown but
// syntactically valid sequences are swallowed and parsing continues.
func (p *Parser) Next() (Event, bool) {
	for len(p.buf) > 0 {
		b := p.buf[0]

		// Fast path: printable ASCII
		if b >= 0x20 && b < 0x7f {
			p.consume(1)
			return Event{Type: EventKey, Key: KeyRune, Rune: rune(b)}, true
		}

		if b == 0x1b {
			if len(p.buf) < 2 {
				return Event{}, false // Wait for more data or timeout
			}
			consumed, ev, complete := p.parseEscape(p.buf)
			if !complete {
				return Event{}, false
			}
			p.consume(consumed)
			if ev.Type == EventKey && ev.Key == KeyNone {
				continue // Swallowed unknown sequence
			}
			return ev, true
		}

		// Control characters
		if b < 0x20 {
			p.consume(1)
			return parseControl(b), true
		}

		// DEL
		if b == 0x7f {
			p.consume(1)
			return Event{Type: EventKey, Key: KeyBackspace}, true
		}

		// UTF-8 multibyte
		seqLen := utf8SeqLen(b)
		if seqLen == 0 {
			p.consume(1)
			return Event{Type: EventKey, Key: KeyRune, Rune: 0xFFFD}, true
		}
		if len(p.buf) < seqLen {
			return Event{}, false // Incomplete rune
		}
		rn, size := decodeRune(p.buf)
		p.consume(size)
		return Event{Type: EventKey, Key: KeyRune, Rune: rn}, true
	}
	return Event{}, false
}

// FlushEscape resolves a lone buffered ESC as the Escape key. Called by
// the reader after escapeTimeout elapses with no further bytes.
func (p *Parser) FlushEscape() (Event, bool) {
	if len(p.buf) == 1 && p.buf[0] == 0x1b {
		p.buf = p.buf[:0]
		return Event{Type: EventKey, Key: KeyEscape}, true
	}
	return Event{}, false
}

// parseEscape parses a sequence starting with ESC. Returns complete=false
// when more bytes are needed.
func (p *Parser) parseEscape(data []byte) (int, Event, bool) {
	// ESC ESC -> Alt+Escape
	if data[1] == 0x1b {
		return 2, Event{Type: EventKey, Key: KeyEscape, Modifiers: ModAlt}, true
	}

	if data[1] == '[' {
		return p.parseCSI(data)
	}
	if data[1] == 'O' {
		return p.parseSS3(data)
	}

	// Alt+control character
	if data[1] < 0x20 {
		ev := parseControl(data[1])
		ev.Modifiers |= ModAlt
		return 2, ev, true
	}

	// Alt+printable
	if data[1] >= 0x20 && data[1] < 0x7f {
		return 2, Event{Type: EventKey, Key: KeyRune, Rune: rune(data[1]), Modifiers: ModAlt}, true
	}

	// ESC + 0x7f -> Alt+Backspace
	if data[1] == 0x7f {
		return 2, Event{Type: EventKey, Key: KeyBackspace, Modifiers: ModAlt}, true
	}

	// ESC + UTF-8 lead byte; drop the ESC and reparse the rune alone
	return 1, Event{Type: EventKey, Key: KeyNone}, true
}

// parseCSI parses CSI sequences: ESC [ params final
func (p *Parser) parseCSI(data []byte) (int, Event, bool) {
	if len(data) < 3 {
		return 0, Event{}, false
	}

	// SGR mouse: ESC [ < Btn ; X ; Y M/m
	if data[2] == '<' {
		return p.parseSGRMouse(data)
	}

	var params [4]int
	nparams := 0
	val := 0
	haveDigit := false

	i := 2
	for ; i < len(data); i++ {
		b := data[i]
		switch {
		case b >= '0' && b <= '9':
			val = val*10 + int(b-'0')
			if val > 9999 {
				return i + 1, Event{Type: EventKey, Key: KeyNone}, true
			}
			haveDigit = true
		case b == ';':
			if nparams < len(params) {
				params[nparams] = val
			}
			nparams++
			val = 0
			haveDigit = false
		case b >= 0x40 && b <= 0x7e:
			// Final byte
			if haveDigit {
				if nparams < len(params) {
					params[nparams] = val
				}
				nparams++
			}
			return i + 1, p.csiEvent(params[:min(nparams, len(params))], b), true
		default:
			// Malformed, swallow up to here
			return i + 1, Event{Type: EventKey, Key: KeyNone}, true
		}
		if i > 32 {
			// Runaway sequence, discard
			return i + 1, Event{Type: EventKey, Key: KeyNone}, true
		}
	}
	return 0, Event{}, false // No final byte yet
}

// csiEvent resolves a parsed CSI parameter list and final byte to a key
func (p *Parser) csiEvent(params []int, final byte) Event {
	var mod Modifier
	if len(params) >= 2 {
		mod = decodeModifier(params[1])
	}

	if final == '~' {
		if len(params) >= 1 {
			if key, ok := csiTildeKeys[params[0]]; ok {
				return Event{Type: EventKey, Key: key, Modifiers: mod}
			}
		}
		return Event{Type: EventKey, Key: KeyNone}
	}

	if final == 'Z' {
		return Event{Type: EventKey, Key: KeyBacktab, Modifiers: ModShift}
	}

	if key, ok := csiFinalKeys[final]; ok {
		return Event{Type: EventKey, Key: key, Modifiers: mod}
	}

	return Event{Type: EventKey, Key: KeyNone}
}

// parseSS3 parses SS3 sequences: ESC O final
func (p *Parser) parseSS3(data []byte) (int, Event, bool) {
	if len(data) < 3 {
		return 0, Event{}, false
	}
	if key, ok := ss3Keys[data[2]]; ok {
		return 3, Event{Type: EventKey, Key: key}, true
	}
	// Unknown SS3, consume to prevent garbage
	return 3, Event{Type: EventKey, Key: KeyNone}, true
}

// parseSGRMouse parses SGR mouse reports: ESC [ < Btn ; X ; Y M/m
func (p *Parser) parseSGRMouse(data []byte) (int, Event, bool) {
	end := 3
	for end < len(data) {
		if data[end] == 'M' || data[end] == 'm' {
			break
		}
		if end > 32 {
			return end, Event{Type: EventKey, Key: KeyNone}, true
		}
		end++
	}
	if end >= len(data) {
		return 0, Event{}, false
	}

	btn, x, y, ok := parseSGRParams(data[3:end])
	if !ok {
		return end + 1, Event{Type: EventKey, Key: KeyNone}, true
	}

	// Reports are 1-indexed
	ev := Event{Type: EventMouse, MouseX: x - 1, MouseY: y - 1}

	// Bits 0-1: button, bit 5: motion, bit 6: wheel
	buttonID := btn & 0x03
	isMotion := btn&32 != 0
	isWheel := btn&64 != 0

	if isWheel {
		if buttonID == 0 {
			ev.MouseBtn = MouseBtnWheelUp
		} else {
			ev.MouseBtn = MouseBtnWheelDown
		}
		ev.MouseAction = MouseActionPress // Wheel is instantaneous
	} else {
		switch buttonID {
		case 0:
			ev.MouseBtn = MouseBtnLeft
		case 1:
			ev.MouseBtn = MouseBtnMiddle
		case 2:
			ev.MouseBtn = MouseBtnRight
		case 3:
			ev.MouseBtn = MouseBtnNone
		}

		if data[end] == 'M' {
			if isMotion {
				if ev.MouseBtn != MouseBtnNone {
					ev.MouseAction = MouseActionDrag
				} else {
					ev.MouseAction = MouseActionMove
				}
			} else {
				ev.MouseAction = MouseActionPress
			}
		} else {
			ev.MouseAction = MouseActionRelease
		}
	}

	if btn&4 != 0 {
		ev.Modifiers |= ModShift
	}
	if btn&8 != 0 {
		ev.Modifiers |= ModAlt
	}
	if btn&16 != 0 {
		ev.Modifiers |= ModCtrl
	}

	return end + 1, ev, true
}

// parseSGRParams extracts btn, x, y from "Btn;X;Y"
func parseSGRParams(data []byte) (btn, x, y int, ok bool) {
	state := 0
	val := 0

	for _, b := range data {
		if b == ';' {
			switch state {
			case 0:
				btn = val
			case 1:
				x = val
			}
			state++
			val = 0
			if state > 2 {
				return 0, 0, 0, false
			}
		} else if b >= '0' && b <= '9' {
			val = val*10 + int(b-'0')
			if val > 9999 {
				return 0, 0, 0, false
			}
		} else {
			return 0, 0, 0, false
		}
	}

	if state != 2 {
		return 0, 0, 0, false
	}
	y = val
	return btn, x, y, true
}

// parseControl maps control characters to keys
func parseControl(b byte) Event {
	switch b {
	case 0x00:
		return Event{Type: EventKey, Key: KeyCtrlSpace}
	case 0x08:
		return Event{Type: EventKey, Key: KeyBackspace}
	case 0x09:
		return Event{Type: EventKey, Key: KeyTab}
	case 0x0a, 0x0d:
		return Event{Type: EventKey, Key: KeyEnter}
	case 0x1b:
		return Event{Type: EventKey, Key: KeyEscape}
	case 0x1c:
		return Event{Type: EventKey, Key: KeyCtrlBackslash}
	case 0x1d:
		return Event{Type: EventKey, Key: KeyCtrlBracketRight}
	case 0x1e:
		return Event{Type: EventKey, Key: KeyCtrlCaret}
	case 0x1f:
		return Event{Type: EventKey, Key: KeyCtrlUnderscore}
	}
	if b >= 0x01 && b <= 0x1a {
		return Event{Type: EventKey, Key: KeyCtrlA + Key(b-0x01)}
	}
	return Event{Type: EventKey, Key: KeyNone}
}

// utf8SeqLen returns expected UTF-8 sequence length from start byte, 0 if invalid
func utf8SeqLen(b byte) int {
	if b < 0x80 {
		return 1
	}
	if b&0xe0 == 0xc0 {
		return 2
	}
	if b&0xf0 == 0xe0 {
		return 3
	}
	if b&0xf8 == 0xf0 {
		return 4
	}
	return 0
}

// decodeRune decodes the first UTF-8 rune from data
func decodeRune(data []byte) (rune, int) {
	if len(data) == 0 {
		return 0, 0
	}

	b := data[0]
	if b < 0x80 {
		return rune(b), 1
	}

	var size int
	var minRune rune
	var r rune

	switch {
	case b&0xe0 == 0xc0:
		size = 2
		minRune = 0x80
		r = rune(b & 0x1f)
	case b&0xf0 == 0xe0:
		size = 3
		minRune = 0x800
		r = rune(b & 0x0f)
	case b&0xf8 == 0xf0:
		size = 4
		minRune = 0x10000
		r = rune(b & 0x07)
	default:
		return 0xFFFD, 1
	}

	if len(data) < size {
		return 0xFFFD, 1
	}

	for i := 1; i < size; i++ {
		if data[i]&0xc0 != 0x80 {
			return 0xFFFD, 1
		}
		r = r<<6 | rune(data[i]&0x3f)
	}

	if r < minRune {
		return 0xFFFD, 1 // Overlong encoding
	}

	return r, size
}

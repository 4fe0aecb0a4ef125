// Command input-probe displays raw terminal events as they arrive:
// keys with modifiers, mouse position and buttons, and resizes. Useful
// for checking what a terminal emulator actually sends. Ctrl+C quits.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/lixenwraith/loom/render"
	"github.com/lixenwraith/loom/terminal"
)

const maxLog = 32

var (
	bg     = terminal.Style{}.Background(terminal.RGBColor(20, 20, 30))
	fg     = bg.Foreground(terminal.RGBColor(200, 200, 200))
	dim    = bg.Foreground(terminal.RGBColor(100, 100, 100))
	accent = bg.Foreground(terminal.RGBColor(100, 200, 220)).Bold()
)

func main() {
	term := terminal.New()
	if err := term.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "input-probe: init failed: %v\n", err)
		os.Exit(1)
	}
	defer term.Fini()

	term.SetMouseMode(terminal.MouseModeMotion)

	var log []string
	addLog := func(s string) {
		if len(log) >= maxLog {
			copy(log, log[1:])
			log = log[:maxLog-1]
		}
		log = append(log, s)
	}

	count := 0
	for {
		w, h := term.Size()
		buf := render.NewBuffer(w, h)
		canvas := render.NewCanvas(buf)

		canvas.Fill(render.Rect{W: w, H: h}, ' ', bg)
		canvas.DrawText(1, 0, "input-probe", accent)
		canvas.DrawText(14, 0, "press keys, move the mouse · Ctrl+C quits", dim)

		visible := log
		if limit := h - 3; limit > 0 && len(visible) > limit {
			visible = visible[len(visible)-limit:]
		}
		for i, entry := range visible {
			canvas.DrawText(1, 2+i, entry, fg)
		}
		canvas.DrawText(1, h-1, fmt.Sprintf("events: %d  size: %dx%d", count, w, h), dim)

		term.Flush(buf.Cells(), w, h)

		ev := term.PollEvent()
		count++
		switch ev.Type {
		case terminal.EventKey:
			if ev.Key == terminal.KeyCtrlC {
				return
			}
			addLog(describeKey(ev))
		case terminal.EventMouse:
			addLog(fmt.Sprintf("mouse %s %s at (%d,%d)%s",
				ev.MouseBtn, ev.MouseAction, ev.MouseX, ev.MouseY, describeMods(ev.Modifiers)))
		case terminal.EventResize:
			addLog(fmt.Sprintf("resize %dx%d", ev.Width, ev.Height))
		case terminal.EventError:
			addLog(fmt.Sprintf("error: %v", ev.Err))
		case terminal.EventClosed:
			return
		}
	}
}

func describeKey(ev terminal.Event) string {
	if ev.Key == terminal.KeyRune {
		return fmt.Sprintf("key %q%s", ev.Rune, describeMods(ev.Modifiers))
	}
	return fmt.Sprintf("key %s%s", ev.Key, describeMods(ev.Modifiers))
}

func describeMods(m terminal.Modifier) string {
	if m == 0 {
		return ""
	}
	var parts []string
	if m&terminal.ModCtrl != 0 {
		parts = append(parts, "ctrl")
	}
	if m&terminal.ModAlt != 0 {
		parts = append(parts, "alt")
	}
	if m&terminal.ModShift != 0 {
		parts = append(parts, "shift")
	}
	return " [" + strings.Join(parts, "+") + "]"
}

// Command demo shows the component pipeline end to end: a bordered
// layout with centered wide-rune text, a counter driven by SetState,
// and a wheel-scrollable list. Press + and - to change the counter,
// scroll over the list, Ctrl+C or q to quit.
package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/loom"
	"github.com/lixenwraith/loom/render"
	"github.com/lixenwraith/loom/terminal"
)

// appConfig is loaded from demo.toml in the working directory when
// present
type appConfig struct {
	Title       string `toml:"title"`
	ListItems   int    `toml:"list_items"`
	AccentColor int64  `toml:"accent_color"`
}

func defaultConfig() appConfig {
	return appConfig{
		Title:       "loom demo",
		ListItems:   40,
		AccentColor: 0x64c8dc,
	}
}

func loadConfig(path string) appConfig {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "demo: bad config %s: %v\n", path, err)
		return defaultConfig()
	}
	return cfg
}

var (
	bgStyle     = terminal.Style{}.Background(terminal.RGBColor(20, 20, 30))
	textStyle   = bgStyle.Foreground(terminal.RGBColor(200, 200, 200))
	dimStyle    = bgStyle.Foreground(terminal.RGBColor(100, 100, 100))
	borderStyle = bgStyle.Foreground(terminal.RGBColor(80, 100, 140))
)

func accentStyle(hex int64) terminal.Style {
	if hex < 0 || hex > 0xffffff {
		hex = 0x64c8dc
	}
	return bgStyle.Foreground(terminal.Hex(uint32(hex))).Bold()
}

type demoApp struct {
	loom.ComponentBase
	cfg appConfig
}

func (d demoApp) CreateState() loom.State {
	return &demoState{cfg: d.cfg}
}

type demoState struct {
	loom.StateBase
	cfg     appConfig
	counter int
}

func (s *demoState) Build(ctx loom.BuildContext) loom.Component {
	accent := accentStyle(s.cfg.AccentColor)

	items := make([]loom.Component, 0, s.cfg.ListItems)
	for i := 0; i < s.cfg.ListItems; i++ {
		items = append(items, loom.Text{
			Content: fmt.Sprintf("item %2d", i+1),
			Style:   textStyle,
		})
	}

	return keyCatcher{
		onKey: s.handleKey,
		content: loom.Container{
			Background:  bgStyle,
			Border:      true,
			BorderStyle: render.BorderRounded,
			BorderColor: borderStyle,
			Content: loom.Column{
				MainAlignment:  loom.MainCenter,
				CrossAlignment: loom.CrossCenter,
				Gap:            1,
				Items: []loom.Component{
					loom.Text{Content: s.cfg.Title, Style: accent},
					loom.Text{Content: "✨ 世界 Hello 🌍", Style: textStyle},
					loom.Text{Content: fmt.Sprintf("counter: %d", s.counter), Style: accent},
					loom.SizedBox{
						Height: 8,
						Width:  24,
						Content: loom.ScrollView{
							Content: loom.Column{Items: items},
						},
					},
					loom.Text{Content: "+/- counter · wheel scrolls · q quits", Style: dimStyle},
				},
			},
		},
	}
}

func (s *demoState) handleKey(ev terminal.Event) bool {
	if ev.Key != terminal.KeyRune {
		return false
	}
	switch ev.Rune {
	case '+':
		s.SetState(func() { s.counter++ })
		return true
	case '-':
		s.SetState(func() { s.counter-- })
		return true
	}
	return false
}

// keyCatcher routes key events to a callback without affecting layout
type keyCatcher struct {
	loom.ComponentBase
	onKey   func(terminal.Event) bool
	content loom.Component
}

func (k keyCatcher) Child() loom.Component { return k.content }

func (k keyCatcher) CreateRenderObject() loom.RenderObject {
	return &renderKeyCatcher{onKey: k.onKey}
}

func (k keyCatcher) UpdateRenderObject(ro loom.RenderObject) {
	ro.(*renderKeyCatcher).onKey = k.onKey
}

type renderKeyCatcher struct {
	loom.RenderBase
	onKey func(terminal.Event) bool
}

func (r *renderKeyCatcher) PerformLayout(c loom.Constraints) loom.Size {
	child := r.ChildAt(0)
	if child == nil {
		return c.Constrain(loom.Size{})
	}
	sz := r.LayoutChild(child, c, true)
	r.SetChildOffset(child, loom.Offset{})
	return sz
}

func (r *renderKeyCatcher) Paint(canvas *render.Canvas, origin loom.Offset) {
	if child := r.ChildAt(0); child != nil {
		loom.PaintChild(canvas, child, origin)
	}
}

func (r *renderKeyCatcher) HandleKey(ev terminal.Event) bool {
	if r.onKey == nil {
		return false
	}
	return r.onKey(ev)
}

func main() {
	cfg := loadConfig("demo.toml")

	app := loom.NewApp(loom.Config{
		MouseMode: terminal.MouseModeClick,
		OnError: func(err error) {
			fmt.Fprintf(os.Stderr, "demo: %v\n", err)
		},
	})

	// Quit on q without a focused widget claiming it first
	go func() {
		events, cancel := app.Events().Subscribe(16)
		defer cancel()
		for ev := range events {
			if ev.Type == terminal.EventKey && ev.Key == terminal.KeyRune && ev.Rune == 'q' {
				app.Shutdown()
			}
		}
	}()

	if err := app.Run(demoApp{cfg: cfg}); err != nil {
		fmt.Fprintf(os.Stderr, "demo: %v\n", err)
		os.Exit(1)
	}
}

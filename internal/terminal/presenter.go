// Package terminal presents a deck live in the terminal. Elements are drawn
// as coloured boxes whose position, size and brightness follow the stage.
package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ivlev/phenomenon/internal/deck"
	"github.com/ivlev/phenomenon/internal/lightning"
	"github.com/ivlev/phenomenon/internal/lightning/timeline"
	"github.com/ivlev/phenomenon/internal/scenario"
	"github.com/ivlev/phenomenon/internal/stage"
)

type Presenter struct {
	screen tcell.Screen
	deck   *scenario.Deck
	steps  *deck.Deck
	engine *lightning.Engine
	stage  *stage.Stage
	fps    int

	showHelp bool
	bg       colorful.Color
}

// New wires a presenter. The engine must write into st.
func New(screen tcell.Screen, d *scenario.Deck, steps *deck.Deck, eng *lightning.Engine, st *stage.Stage, fps int) *Presenter {
	if fps <= 0 {
		fps = lightning.DefaultFPS
	}
	p := &Presenter{
		screen: screen,
		deck:   d,
		steps:  steps,
		engine: eng,
		stage:  st,
		fps:    fps,
		bg:     colorful.Color{},
	}
	if d.Background != "" {
		if c, err := colorful.Hex(d.Background); err == nil {
			p.bg = c
		}
	}
	return p
}

// Run redraws at the configured rate until the user quits or ctx ends.
// The caller owns the screen and finalises it.
func (p *Presenter) Run(ctx context.Context) error {
	p.engine.Prepare()

	done := make(chan struct{})
	defer close(done)

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(p.fps))
	defer ticker.Stop()

	p.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !p.handle(ev) {
				return nil
			}
			p.draw()
		case <-ticker.C:
			p.draw()
		}
	}
}

// handle applies one input event and reports whether to keep running.
func (p *Presenter) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRight:
			p.engine.Next()
		case tcell.KeyLeft, tcell.KeyBackspace, tcell.KeyBackspace2:
			p.engine.Back()
		case tcell.KeyHome:
			p.engine.Seek(0)
		case tcell.KeyEnd:
			p.engine.Seek(p.engine.Total())
		case tcell.KeyRune:
			return p.handleRune(ev.Rune())
		}
	case *tcell.EventResize:
		p.screen.Sync()
	}
	return true
}

func (p *Presenter) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case ' ', 'd':
		p.engine.Next()
	case 'a':
		p.engine.Back()
	case 's':
		p.engine.Seek(0)
	case 'r':
		p.engine.SnapToClosestPause()
	case 'p':
		if p.engine.State() == lightning.Playing {
			p.engine.Pause()
		} else {
			p.engine.Play()
		}
	case 'h':
		p.showHelp = !p.showHelp
	default:
		if r >= '0' && r <= '9' {
			p.engine.SeekPercent(float64(r-'0') / 10)
		}
	}
	return true
}

func formatTime(d time.Duration) string {
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d.%03d", ms/60000, ms/1000%60, ms%1000)
}

func (p *Presenter) statusLine() string {
	st := p.engine.Status()
	mark := "||"
	if st.Playing {
		mark = "> "
	}
	line := fmt.Sprintf(" %s %s / %s", mark, formatTime(st.CurrentTime), formatTime(st.Total))
	if s, ok := p.steps.StepAt(st.CurrentTime); ok {
		line += "  " + s.Label()
	}
	return line + "   [h] help"
}

func (p *Presenter) draw() {
	p.screen.Clear()
	w, h := p.screen.Size()
	if w <= 0 || h <= 1 {
		p.screen.Show()
		return
	}

	for _, el := range p.deck.Elements {
		p.drawElement(el, w, h-1)
	}

	bar := tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack)
	p.fillRow(h-1, w, bar)
	p.putString(0, h-1, w, p.statusLine(), bar)

	if p.showHelp {
		p.drawHelp(w, h-1)
	}
	p.screen.Show()
}

func (p *Presenter) fillRow(y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		p.screen.SetContent(x, y, ' ', nil, style)
	}
}

func (p *Presenter) putString(x, y, maxX int, s string, style tcell.Style) {
	for _, r := range s {
		if x >= maxX {
			return
		}
		p.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// shade blends c into the background by opacity.
func (p *Presenter) shade(c colorful.Color, opacity float64) tcell.Color {
	r, g, b := p.bg.BlendRgb(c, opacity).Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func (p *Presenter) elementColor(el scenario.Element) colorful.Color {
	prop, fallback := "fill", el.Fill
	if el.Kind == scenario.KindText {
		prop, fallback = "color", el.Color
	}
	if c, ok := p.stage.Color(timeline.Target(el.ID), prop); ok {
		return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	}
	if c, err := colorful.Hex(fallback); err == nil {
		return c
	}
	return colorful.Color{R: 0.8, G: 0.8, B: 0.8}
}

func (p *Presenter) drawElement(el scenario.Element, cols, rows int) {
	id := timeline.Target(el.ID)
	if !p.stage.Visible(id) {
		return
	}
	opacity := p.stage.Opacity(id)
	if opacity <= 0 {
		return
	}

	bw, bh := float64(el.W), float64(el.H)
	if v, ok := p.stage.Length(id, "width"); ok {
		bw = v
	}
	if v, ok := p.stage.Length(id, "height"); ok {
		bh = v
	}
	tr := p.stage.Transform(id)
	dx, dy := tr.Offset()
	scale := tr.Scale()
	bw, bh = bw*scale, bh*scale
	cx := float64(el.X) + float64(el.W)/2 + dx
	cy := float64(el.Y) + float64(el.H)/2 + dy

	sx := float64(cols) / float64(p.deck.Width)
	sy := float64(rows) / float64(p.deck.Height)
	x0 := int((cx - bw/2) * sx)
	y0 := int((cy - bh/2) * sy)
	x1 := max(int((cx+bw/2)*sx), x0+1)
	y1 := max(int((cy+bh/2)*sy), y0+1)

	col := p.elementColor(el)
	label := el.ID
	style := tcell.StyleDefault.Background(p.shade(col, opacity)).Foreground(tcell.ColorBlack)
	if el.Kind == scenario.KindText {
		label = el.Text
		style = tcell.StyleDefault.Foreground(p.shade(col, opacity))
	}

	if el.Kind != scenario.KindText {
		for y := max(y0, 0); y < min(y1, rows); y++ {
			for x := max(x0, 0); x < min(x1, cols); x++ {
				p.screen.SetContent(x, y, ' ', nil, style)
			}
		}
	}
	ly := (y0 + y1 - 1) / 2
	if ly >= 0 && ly < rows {
		p.putString(max(x0, 0), ly, min(max(x1, x0+len(label)), cols), label, style)
	}
}

func (p *Presenter) drawHelp(cols, rows int) {
	lines := []string{
		"Keys",
		"  space, right, d   next",
		"  left, bksp, a     back",
		"  home, s           start",
		"  p                 play/pause",
		"  r                 snap to stop",
		"  0-9               jump to 0%-90%",
		"  q, esc            quit",
		"",
		"Steps",
	}
	for _, s := range p.steps.Steps() {
		lines = append(lines, fmt.Sprintf("  %-10s %s", formatTime(s.Start), s.Label()))
	}

	style := tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	width := 0
	for _, l := range lines {
		width = max(width, len(l)+2)
	}
	for i, l := range lines {
		if i+1 >= rows {
			break
		}
		for x := 1; x < min(width+1, cols); x++ {
			p.screen.SetContent(x, i+1, ' ', nil, style)
		}
		p.putString(2, i+1, cols, l, style)
	}
}

// Package render turns a deck into video frames offline.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"path/filepath"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/phenomenon/internal/lightning/timeline"
	"github.com/ivlev/phenomenon/internal/scenario"
	"github.com/ivlev/phenomenon/internal/source"
	"github.com/ivlev/phenomenon/internal/stage"
)

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Compositor draws the elements of a deck as the stage currently describes
// them. Assets are loaded once and shared read-only between workers.
type Compositor struct {
	deck   *scenario.Deck
	bg     color.NRGBA
	assets map[string]image.Image
}

// NewCompositor loads image, pdf and qr assets. Relative sources are resolved
// against baseDir.
func NewCompositor(d *scenario.Deck, baseDir string, dpi int) (*Compositor, error) {
	c := &Compositor{
		deck:   d,
		bg:     color.NRGBA{A: 255},
		assets: make(map[string]image.Image),
	}
	if d.Background != "" {
		bg, err := stage.ParseColor(d.Background)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		c.bg = bg
	}

	for _, el := range d.Elements {
		switch el.Kind {
		case scenario.KindImage, scenario.KindPDF:
			path := el.Src
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			img, err := source.Load(path, el.Page, dpi)
			if err != nil {
				return nil, fmt.Errorf("element %s: %w", el.ID, err)
			}
			c.assets[el.ID] = img
		case scenario.KindQR:
			q, err := qrcode.New(el.Content, qrcode.Medium)
			if err != nil {
				return nil, fmt.Errorf("element %s: %w", el.ID, err)
			}
			c.assets[el.ID] = q.Image(max(el.W, el.H, 64))
		}
	}
	return c, nil
}

func (c *Compositor) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.deck.Width, c.deck.Height)
}

// Draw paints the background and every visible element in declaration order.
func (c *Compositor) Draw(dst *image.RGBA, st *stage.Stage) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c.bg), image.Point{}, draw.Src)
	for _, el := range c.deck.Elements {
		c.drawElement(dst, el, st)
	}
}

func (c *Compositor) drawElement(dst *image.RGBA, el scenario.Element, st *stage.Stage) {
	id := timeline.Target(el.ID)
	if !st.Visible(id) {
		return
	}
	alpha := st.Opacity(id)
	if alpha <= 0 {
		return
	}

	x, y := float64(el.X), float64(el.Y)
	w, h := float64(el.W), float64(el.H)
	if v, ok := st.Length(id, "left"); ok {
		x = v
	}
	if v, ok := st.Length(id, "top"); ok {
		y = v
	}
	if v, ok := st.Length(id, "width"); ok {
		w = v
	}
	if v, ok := st.Length(id, "height"); ok {
		h = v
	}
	if w <= 0 || h <= 0 {
		return
	}

	src, sr := c.sprite(el, st, w, h)
	if src == nil || sr.Empty() {
		return
	}
	if el.Kind == scenario.KindText {
		// text keeps its aspect ratio; the box height sets the glyph size
		w = float64(sr.Dx()) * h / float64(sr.Dy())
	}

	// sprite space -> element box -> element transform about its centre
	ops := []stage.Op{{Fn: "translate", Args: []float64{x + w/2, y + h/2}}}
	ops = append(ops, st.Transform(id).Ops...)
	ops = append(ops,
		stage.Op{Fn: "translate", Args: []float64{-w / 2, -h / 2}},
		stage.Op{Fn: "scale", Args: []float64{w / float64(sr.Dx()), h / float64(sr.Dy())}},
	)
	m := stage.Transform{Ops: ops}.Matrix()

	opts := &draw.Options{}
	if alpha < 1 {
		opts.SrcMask = image.NewUniform(color.Alpha{A: uint8(math.Round(alpha * 255))})
	}
	draw.BiLinear.Transform(dst, m, src, sr, draw.Over, opts)
}

func (c *Compositor) colorOf(st *stage.Stage, el scenario.Element, prop, fallback string) color.NRGBA {
	if col, ok := st.Color(timeline.Target(el.ID), prop); ok {
		return col
	}
	if fallback != "" {
		if col, err := stage.ParseColor(fallback); err == nil {
			return col
		}
	}
	return white
}

func (c *Compositor) sprite(el scenario.Element, st *stage.Stage, w, h float64) (image.Image, image.Rectangle) {
	switch el.Kind {
	case scenario.KindBox:
		fill := c.colorOf(st, el, "fill", el.Fill)
		return image.NewUniform(fill), image.Rect(0, 0, int(math.Ceil(w)), int(math.Ceil(h)))

	case scenario.KindText:
		return textSprite(el.Text, c.colorOf(st, el, "color", el.Color))

	default:
		img, ok := c.assets[el.ID]
		if !ok {
			return nil, image.Rectangle{}
		}
		return img, img.Bounds()
	}
}

// textSprite renders s at the native size of the built-in face.
func textSprite(s string, col color.Color) (image.Image, image.Rectangle) {
	face := basicfont.Face7x13
	d := font.Drawer{Face: face}
	width := d.MeasureString(s).Ceil()
	if width == 0 {
		return nil, image.Rectangle{}
	}

	img := image.NewRGBA(image.Rect(0, 0, width, face.Height))
	d.Dst = img
	d.Src = image.NewUniform(col)
	d.Dot = fixed.P(0, face.Ascent)
	d.DrawString(s)
	return img, img.Bounds()
}

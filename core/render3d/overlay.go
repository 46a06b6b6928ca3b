package render3d

import (
	"image/color"

	"tinygo.org/x/tinyfont"
)

// Overlay draws text on top of a rendered frame.
type Overlay struct {
	t    Target
	font tinyfont.Fonter
}

// NewOverlay returns an overlay using font, or TomThumb when font is nil.
func NewOverlay(font tinyfont.Fonter) *Overlay {
	if font == nil {
		font = &tinyfont.TomThumb
	}
	return &Overlay{font: font}
}

// Attach sets the target for subsequent draws.
func (o *Overlay) Attach(t Target) { o.t = t }

func (o *Overlay) LineHeight() int { return int(o.font.GetYAdvance()) }

// Width returns the advance width of s in pixels.
func (o *Overlay) Width(s string) int {
	_, w := tinyfont.LineWidth(o.font, s)
	return int(w)
}

// Text draws s with its top-left corner at (x, y).
func (o *Overlay) Text(x, y int, c Color, s string) {
	if o.t == nil || s == "" {
		return
	}
	base := y + o.LineHeight() - 1
	tinyfont.WriteLine(o, o.font, int16(x), int16(base), s, c.RGBA())
}

// Lines draws one line per entry starting at (x, y).
func (o *Overlay) Lines(x, y int, c Color, lines ...string) {
	for _, s := range lines {
		o.Text(x, y, c, s)
		y += o.LineHeight() + 1
	}
}

// Size, SetPixel and Display adapt the target to tinyfont.Displayer.

func (o *Overlay) Size() (x, y int16) {
	w, h := o.t.Size()
	return int16(min(w, 0x7FFF)), int16(min(h, 0x7FFF))
}

func (o *Overlay) SetPixel(x, y int16, c color.RGBA) {
	o.t.SetPixel(int(x), int(y), Color{R: c.R, G: c.G, B: c.B})
}

func (o *Overlay) Display() error { return nil }

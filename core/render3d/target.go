package render3d

import "tandem/hal"

// Target is a pixel sink. Implementations clip out-of-bounds coordinates.
type Target interface {
	Size() (w, h int)
	SetPixel(x, y int, c Color)
	Clear(c Color)
}

// RGB565Target draws into a little-endian RGB565 buffer.
type RGB565Target struct {
	Buf    []byte
	Stride int // bytes per row
	W, H   int
}

// FramebufferTarget wraps the current view of fb. It reports false when fb
// is not RGB565.
func FramebufferTarget(fb hal.Framebuffer) (*RGB565Target, bool) {
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
		return nil, false
	}
	return &RGB565Target{Buf: fb.Buffer(), Stride: fb.StrideBytes(), W: fb.Width(), H: fb.Height()}, true
}

func (t *RGB565Target) Size() (w, h int) { return t.W, t.H }

func (t *RGB565Target) valid() bool {
	return t != nil && t.Buf != nil && t.Stride > 0 && t.W > 0 && t.H > 0
}

func (t *RGB565Target) Clear(c Color) {
	if !t.valid() {
		return
	}
	p := hal.PackRGB565(c.R, c.G, c.B)
	lo, hi := byte(p), byte(p>>8)
	for y := 0; y < t.H; y++ {
		row := y * t.Stride
		for x := 0; x < t.W; x++ {
			off := row + x*2
			if off+1 >= len(t.Buf) {
				return
			}
			t.Buf[off] = lo
			t.Buf[off+1] = hi
		}
	}
}

// offset returns the byte offset of (x, y), or false when it lies outside the
// buffer.
func (t *RGB565Target) offset(x, y int) (int, bool) {
	if !t.valid() || x < 0 || y < 0 || x >= t.W || y >= t.H {
		return 0, false
	}
	off := y*t.Stride + x*2
	return off, off+1 < len(t.Buf)
}

func (t *RGB565Target) SetPixel(x, y int, c Color) {
	off, ok := t.offset(x, y)
	if !ok {
		return
	}
	p := hal.PackRGB565(c.R, c.G, c.B)
	t.Buf[off], t.Buf[off+1] = byte(p), byte(p>>8)
}

// Pixel returns the packed value at (x, y), or 0 when out of bounds.
func (t *RGB565Target) Pixel(x, y int) uint16 {
	off, ok := t.offset(x, y)
	if !ok {
		return 0
	}
	return uint16(t.Buf[off]) | uint16(t.Buf[off+1])<<8
}

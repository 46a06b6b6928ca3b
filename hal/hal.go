package hal

import (
	"errors"

	"tandem/core/geom"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
//
// The host may resize it between frames; callers read Width, Height,
// StrideBytes and Buffer once per frame and draw with that view.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Screen reports where the local window sits on the desktop.
type Screen interface {
	// Placement returns the window rectangle in desktop coordinates
	// (device-independent pixels).
	Placement() geom.Rect
	// Scale returns the device pixel ratio of the display.
	Scale() float64
}

// App is driven by a host runner: Step once per display frame, Close once
// when the host shuts down.
type App interface {
	Step() error
	Close() error
}

// Titled is implemented by apps that name their window. The window runner
// polls it every frame.
type Titled interface {
	Title() string
}

// HAL provides the only contact point between the program and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Screen() Screen
}

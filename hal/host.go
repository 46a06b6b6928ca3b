package hal

import (
	"fmt"
	"os"
	"sync"

	"tandem/core/geom"
)

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	screen *hostScreen
}

// New returns a host HAL implementation with the given initial placement.
func New(place geom.Rect, scale float64) HAL {
	return newHost(place, scale)
}

func newHost(place geom.Rect, scale float64) *hostHAL {
	if scale <= 0 {
		scale = 1
	}
	s := &hostScreen{place: place, scale: scale}
	w, h := s.pixelSize()
	return &hostHAL{
		logger: &hostLogger{w: os.Stdout},
		fb:     newHostFramebuffer(w, h),
		screen: s,
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Screen() Screen   { return h.screen }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostScreen struct {
	mu    sync.Mutex
	place geom.Rect
	scale float64
}

func (s *hostScreen) Placement() geom.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.place
}

func (s *hostScreen) Scale() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scale
}

func (s *hostScreen) setPosition(x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.place.X = x
	s.place.Y = y
}

func (s *hostScreen) setSize(w, h int, scale float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.place.W = w
	s.place.H = h
	if scale > 0 {
		s.scale = scale
	}
}

// pixelSize returns the framebuffer size for the current placement.
func (s *hostScreen) pixelSize() (w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return scaledSize(s.place.W, s.place.H, s.scale)
}

func scaledSize(w, h int, scale float64) (int, int) {
	pw := int(float64(w)*scale + 0.5)
	ph := int(float64(h)*scale + 0.5)
	if pw < 1 {
		pw = 1
	}
	if ph < 1 {
		ph = 1
	}
	return pw, ph
}

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

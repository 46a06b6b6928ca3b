//go:build cgo

package hal

import (
	"errors"

	"tandem/core/geom"
	"tandem/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Title string
	// W and H give the initial logical window size.
	W, H int
	TPS  int
}

// RunWindow opens a desktop window that presents the framebuffer once per
// display frame. The app is created on the first frame. RunWindow blocks until
// the window closes (or Escape is pressed), then closes the app.
func RunWindow(newApp func(HAL) (App, error), cfg WindowConfig) (err error) {
	if cfg.W <= 0 {
		cfg.W = 640
	}
	if cfg.H <= 0 {
		cfg.H = 480
	}
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}
	if cfg.Title == "" {
		cfg.Title = "Tandem"
	}

	ebiten.SetWindowTitle(windowTitle(cfg.Title))
	ebiten.SetWindowSize(cfg.W, cfg.H)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TPS)

	g := &hostGame{
		h:      newHost(geom.Rect{W: cfg.W, H: cfg.H}, 1),
		newApp: newApp,
	}
	defer func() {
		if g.app == nil {
			return
		}
		if cerr := g.app.Close(); err == nil {
			err = cerr
		}
	}()

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

type hostGame struct {
	h      *hostHAL
	newApp func(HAL) (App, error)
	app    App
	title  string
	pix    []byte
	fbImg  *ebiten.Image
}

func (g *hostGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	x, y := ebiten.WindowPosition()
	g.h.screen.setPosition(x, y)

	// The app starts on the first frame: window position and size are only
	// reliable once the window exists.
	if g.app == nil {
		app, err := g.newApp(g.h)
		if err != nil {
			return err
		}
		g.app = app
	}
	if err := g.app.Step(); err != nil {
		return err
	}
	if t, ok := g.app.(Titled); ok {
		if title := t.Title(); title != g.title {
			g.title = title
			ebiten.SetWindowTitle(windowTitle(title))
		}
	}
	return nil
}

func windowTitle(s string) string { return s + " (" + buildinfo.Short() + ")" }

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	w, h := fb.Width(), fb.Height()
	if g.fbImg == nil || g.fbImg.Bounds().Dx() != w || g.fbImg.Bounds().Dy() != h {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(w, h)
		g.pix = make([]byte, w*h*4)
	}
	fb.snapshotRGBA(g.pix)
	g.fbImg.WritePixels(g.pix)
	screen.DrawImage(g.fbImg, nil)
}

// Layout tracks the logical window size and sizes the framebuffer in device
// pixels so the scene renders at native density.
func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	g.h.screen.setSize(outsideWidth, outsideHeight, scale)
	w, h := scaledSize(outsideWidth, outsideHeight, scale)
	g.h.fb.resize(w, h)
	return w, h
}

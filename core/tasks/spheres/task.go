// Package spheres is the render loop: one wireframe sphere per peer window,
// positioned in desktop coordinates and viewed through the local window.
package spheres

import (
	"fmt"
	"math"

	"tandem/core/clock"
	logclient "tandem/core/client/logger"
	"tandem/core/compose"
	"tandem/core/geom"
	"tandem/core/kernel"
	"tandem/core/peers"
	"tandem/core/proto"
	"tandem/core/render3d"
	"tandem/core/smooth"
	"tandem/hal"
	"tandem/internal/buildinfo"
)

const (
	DefaultSegments = 10

	rotXRate = 0.5
	rotYRate = 0.3
)

// Config tunes the scene.
type Config struct {
	Compose  compose.Params
	Damping  float64
	Segments int
	Meta     map[string]string
	HUD      bool

	// Clock overrides the time base.
	Clock *clock.Clock
}

// DefaultConfig returns the stock scene with the HUD enabled.
func DefaultConfig() Config {
	return Config{
		Compose:  compose.DefaultParams(),
		Damping:  smooth.DefaultDamping,
		Segments: DefaultSegments,
		HUD:      true,
	}
}

var hudColor = render3d.RGB(0xCC, 0xCC, 0xCC)

type Task struct {
	cfg    Config
	disp   hal.Display
	screen hal.Screen
	reg    peers.Registry
	clk    *clock.Clock

	ep     kernel.Capability
	logCap kernel.Capability

	sub     peers.Subscription
	running bool

	comp *compose.Composer
	snap *compose.Snapshot
	sm   *smooth.Smoother

	r   *render3d.Renderer
	s   *render3d.Scene
	hud *render3d.Overlay

	sphereIDs []int

	frames   uint64
	rebuilds uint64
}

// New returns an uninitialized task. ep must carry both rights: the task
// receives on it and the registry notifier posts to it.
func New(disp hal.Display, screen hal.Screen, reg peers.Registry, ep, logCap kernel.Capability, cfg Config) *Task {
	if cfg.Segments <= 0 {
		cfg.Segments = DefaultSegments
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Task{
		cfg:    cfg,
		disp:   disp,
		screen: screen,
		reg:    reg,
		clk:    clk,
		ep:     ep,
		logCap: logCap,
		comp:   compose.New(cfg.Compose),
		sm:     smooth.New(cfg.Damping),
	}
}

// Start joins the session and builds the first frame's scene. On error the
// task stays uninitialized and Step does nothing.
func (t *Task) Start(s kernel.Sender) error {
	if t.running {
		return nil
	}
	if err := t.reg.Init(t.cfg.Meta); err != nil {
		return fmt.Errorf("spheres: join session: %w", err)
	}
	t.sub = t.reg.Subscribe(&notifier{s: s, to: t.ep.Restrict(kernel.RightSend), reg: t.reg})

	t.r = render3d.NewRenderer()
	t.s = render3d.CreateScene(16)
	if t.cfg.HUD {
		t.hud = render3d.NewOverlay(nil)
	}
	t.rebuild()
	t.sm.SetOffsetTarget(t.screen.Placement().Origin().Neg(), true)
	t.running = true

	logclient.Logf(s, t.logCap, "spheres: joined window=%d peers=%d", t.reg.ID(), t.snap.Len())
	return nil
}

// Stop drops the registry subscription. Closing the registry is left to the
// owner.
func (t *Task) Stop() {
	if t.sub != nil {
		t.sub.Cancel()
		t.sub = nil
	}
	t.running = false
}

func (t *Task) Running() bool               { return t.running }
func (t *Task) Snapshot() *compose.Snapshot { return t.snap }
func (t *Task) Offset() smooth.Offset       { return t.sm.Offset() }
func (t *Task) Position(i int) geom.Vec2    { return t.sm.Position(i) }
func (t *Task) Frames() uint64              { return t.frames }
func (t *Task) Rebuilds() uint64            { return t.rebuilds }

func (t *Task) Step(ctx *kernel.Context) {
	if !t.running {
		return
	}
	if reported, ok := t.drain(ctx); ok {
		t.rebuild()
		logclient.Logf(ctx, t.logCap, "spheres: peers=%d reported=%d anchor=%d", t.snap.Len(), reported, t.snap.Anchor)
	}

	now := t.clk.Now()
	t.reg.Housekeeping()
	t.sm.Tick(peers.Shapes(t.reg.Peers()))
	t.draw(now)
	t.frames++
}

// drain handles queued notifications. rebuild reports whether a rebuild is
// due; reported is the peer count carried by the last PeersChanged.
func (t *Task) drain(ctx *kernel.Context) (reported int, rebuild bool) {
	for {
		msg, ok := ctx.TryRecv(t.ep)
		if !ok {
			return reported, rebuild
		}
		switch proto.Kind(msg.Kind) {
		case proto.MsgPeersChanged:
			if n, ok := proto.DecodePeersChangedPayload(msg.Payload()); ok {
				reported = n
			}
			rebuild = true
		case proto.MsgPlacementChanged:
			easing, ok := proto.DecodePlacementChangedPayload(msg.Payload())
			if !ok {
				continue
			}
			t.sm.SetOffsetTarget(t.screen.Placement().Origin().Neg(), !easing)
		}
	}
}

// rebuild recomposes the scene from the registry's current peer list.
func (t *Task) rebuild() {
	t.snap = t.comp.Rebuild(t.reg.Peers())
	t.sm.Reseed(t.snap.Seeds())
	t.rebuilds++

	t.s.Clear()
	t.sphereIDs = t.sphereIDs[:0]
	for _, o := range t.snap.Objects {
		m := render3d.NewSphereMesh(render3d.Scalar(o.Radius), t.cfg.Segments, t.cfg.Segments)
		m.Color = render3d.HSL(o.Hue, 1, 0.5)
		m.Transform = render3d.Translate(vec3(o.Seed))
		t.sphereIDs = append(t.sphereIDs, t.s.AddMesh(m))
	}
	for _, e := range t.snap.Edges {
		t.s.AddMesh(render3d.NewLineMesh(vec3(e.From), vec3(e.To), render3d.White))
	}
}

func (t *Task) draw(now float64) {
	place := t.screen.Placement()
	t.s.Camera.SetBounds(place.W, place.H)

	off := t.sm.Offset().Current
	t.s.World = render3d.Translate(vec3(off))

	rot := render3d.Mul(
		render3d.RotateX(phase(now*rotXRate)),
		render3d.RotateY(phase(now*rotYRate)),
	)
	for i, id := range t.sphereIDs {
		if i >= t.sm.Len() {
			break
		}
		t.s.UpdateMeshTransform(id, render3d.Mul(render3d.Translate(vec3(t.sm.Position(i))), rot))
	}

	if t.disp == nil {
		return
	}
	fb := t.disp.Framebuffer()
	tg, ok := render3d.FramebufferTarget(fb)
	if !ok {
		return
	}
	t.r.Render(tg, t.s)
	if t.hud != nil {
		t.drawHUD(tg)
	}
	_ = fb.Present()
}

func (t *Task) drawHUD(tg render3d.Target) {
	t.hud.Attach(tg)
	lines := []string{
		fmt.Sprintf("window %d  peers %d", t.reg.ID(), t.snap.Len()),
	}
	if a := t.snap.Anchor; a >= 0 {
		o := t.snap.Objects[a]
		lines = append(lines, fmt.Sprintf("anchor #%d r=%.0f", o.PeerID, o.Radius))
	}
	lines = append(lines, buildinfo.Short())
	t.hud.Lines(4, 4, hudColor, lines...)
}

// phase reduces an angle to [0, 2π) before it is narrowed to float32.
func phase(rad float64) render3d.Scalar {
	return render3d.Scalar(math.Mod(rad, 2*math.Pi))
}

func vec3(p geom.Vec2) render3d.Vec3 {
	return render3d.V3(render3d.Scalar(p.X), render3d.Scalar(p.Y), 0)
}

// notifier forwards registry notifications to the task endpoint. A full
// mailbox drops the message; the pending one already covers it.
type notifier struct {
	s   kernel.Sender
	to  kernel.Capability
	reg peers.Registry
}

func (n *notifier) PeersChanged() {
	n.s.SendTo(n.to, uint16(proto.MsgPeersChanged), proto.PeersChangedPayload(len(n.reg.Peers())))
}

func (n *notifier) PlacementChanged(easing bool) {
	n.s.SendTo(n.to, uint16(proto.MsgPlacementChanged), proto.PlacementChangedPayload(easing))
}

package render3d

import (
	"math"
	"testing"

	"tandem/hal"
)

func newTarget(w, h int) *RGB565Target {
	return &RGB565Target{Buf: make([]byte, w*h*2), Stride: w * 2, W: w, H: h}
}

func TestMulIdentity(t *testing.T) {
	b := Translate(V3(1, 2, 3))
	if got := Mul(Identity(), b); got != b {
		t.Fatalf("I*b = %v, want %v", got, b)
	}
	if got := Mul(b, Identity()); got != b {
		t.Fatalf("b*I = %v, want %v", got, b)
	}
}

func TestTranslateApply(t *testing.T) {
	p := Mul(Translate(V3(10, 0, 0)), Translate(V3(0, 5, 0))).Apply(V3(1, 1, 1))
	if p != (Vec4{X: 11, Y: 6, Z: 1, W: 1}) {
		t.Fatalf("Apply = %+v", p)
	}
}

func TestRotateXQuarterTurn(t *testing.T) {
	p := RotateX(math.Pi / 2).Apply(V3(0, 1, 0))
	if math.Abs(float64(p.Y)) > 1e-6 || math.Abs(float64(p.Z)-1) > 1e-6 {
		t.Fatalf("RotateX(pi/2)*(0,1,0) = %+v, want (0,0,1)", p)
	}
}

func TestScreenCameraCorners(t *testing.T) {
	const w, h = 200, 100
	cam := ScreenCamera(w, h)
	vp := Mul(cam.Projection(), cam.View())

	tl := project(vp.Apply(V3(0, 0, 0)), w, h)
	if round(tl.X) != 0 || round(tl.Y) != 0 {
		t.Fatalf("(0,0) -> (%v,%v), want top-left pixel", tl.X, tl.Y)
	}
	br := project(vp.Apply(V3(w, h, 0)), w, h)
	if round(br.X) != w-1 || round(br.Y) != h-1 {
		t.Fatalf("(w,h) -> (%v,%v), want (%d,%d)", br.X, br.Y, w-1, h-1)
	}
}

func TestHSLPrimaries(t *testing.T) {
	cases := []struct {
		h    float64
		want Color
	}{
		{0, RGB(255, 0, 0)},
		{1.0 / 3, RGB(0, 255, 0)},
		{2.0 / 3, RGB(0, 0, 255)},
		{1, RGB(255, 0, 0)},
		{-1.0 / 3, RGB(0, 0, 255)},
	}
	for _, tc := range cases {
		if got := HSL(tc.h, 1, 0.5); got != tc.want {
			t.Fatalf("HSL(%v,1,0.5) = %+v, want %+v", tc.h, got, tc.want)
		}
	}
	if got := HSL(0.3, 0, 1); got != White {
		t.Fatalf("HSL(_,0,1) = %+v, want white", got)
	}
	if got := HSL(0.3, 1, 0); got != Black {
		t.Fatalf("HSL(_,1,0) = %+v, want black", got)
	}
}

func TestSphereMeshCounts(t *testing.T) {
	m := NewSphereMesh(50, 10, 10)
	if len(m.Vertices) != 121 {
		t.Fatalf("vertices = %d, want 121", len(m.Vertices))
	}
	if len(m.Indices) != 180*3 {
		t.Fatalf("indices = %d, want %d", len(m.Indices), 180*3)
	}
	for _, v := range m.Vertices {
		r := math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z))
		if math.Abs(r-50) > 1e-3 {
			t.Fatalf("vertex %+v at radius %v, want 50", v, r)
		}
	}
	for _, i := range m.Indices {
		if int(i) >= len(m.Vertices) {
			t.Fatalf("index %d out of range", i)
		}
	}
}

func TestSceneAddRemoveGrow(t *testing.T) {
	s := CreateScene(1)
	a := s.AddMesh(NewLineMesh(V3(0, 0, 0), V3(1, 1, 0), White))
	b := s.AddMesh(NewLineMesh(V3(0, 0, 0), V3(1, 1, 0), White))
	if a != 0 || b != 1 || s.Len() != 2 {
		t.Fatalf("ids %d,%d len %d, want 0,1 len 2", a, b, s.Len())
	}
	s.RemoveMesh(a)
	s.RemoveMesh(a)
	if s.Len() != 1 {
		t.Fatalf("Len after remove = %d, want 1", s.Len())
	}
	if c := s.AddMesh(Mesh{}); c != 0 {
		t.Fatalf("reused id = %d, want 0", c)
	}
	m, ok := s.Mesh(0)
	if !ok || m.Transform != Identity() || !m.Enabled {
		t.Fatalf("added mesh = %+v ok=%v", m, ok)
	}
	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("Len after Clear = %d", s.Len())
	}
	if _, ok := s.Mesh(1); ok {
		t.Fatalf("mesh survived Clear")
	}
}

func TestRenderLine(t *testing.T) {
	tg := newTarget(100, 100)
	s := CreateScene(1)
	s.Camera = ScreenCamera(100, 100)
	s.AddMesh(NewLineMesh(V3(10, 10, 0), V3(90, 10, 0), White))

	NewRenderer().Render(tg, s)
	white := hal.PackRGB565(255, 255, 255)
	if got := tg.Pixel(50, 10); got != white {
		t.Fatalf("pixel on line = %#04x, want %#04x", got, white)
	}
	if got := tg.Pixel(50, 50); got != 0 {
		t.Fatalf("pixel off line = %#04x, want 0", got)
	}
}

func TestRenderWorldOffset(t *testing.T) {
	tg := newTarget(100, 100)
	s := CreateScene(1)
	s.Camera = ScreenCamera(100, 100)
	s.World = Translate(V3(0, 30, 0))
	s.AddMesh(NewLineMesh(V3(10, 10, 0), V3(90, 10, 0), White))

	NewRenderer().Render(tg, s)
	if tg.Pixel(50, 10) != 0 {
		t.Fatalf("line drawn without world offset")
	}
	if tg.Pixel(50, 40) == 0 {
		t.Fatalf("line not drawn at offset position")
	}
}

func TestRenderDisabledMesh(t *testing.T) {
	tg := newTarget(50, 50)
	s := CreateScene(1)
	s.Camera = ScreenCamera(50, 50)
	id := s.AddMesh(NewLineMesh(V3(0, 25, 0), V3(50, 25, 0), White))
	s.SetMeshEnabled(id, false)
	NewRenderer().Render(tg, s)
	for _, b := range tg.Buf {
		if b != 0 {
			t.Fatalf("disabled mesh drew pixels")
		}
	}
}

func TestRenderClipsOffscreen(t *testing.T) {
	tg := newTarget(50, 50)
	s := CreateScene(2)
	s.Camera = ScreenCamera(50, 50)
	s.AddMesh(NewLineMesh(V3(-1e6, 20, 0), V3(1e6, 20, 0), White))
	s.AddMesh(NewLineMesh(V3(-500, -500, 0), V3(-100, -10, 0), White))
	NewRenderer().Render(tg, s)
	if tg.Pixel(0, 20) == 0 || tg.Pixel(49, 20) == 0 {
		t.Fatalf("clipped line missing its visible part")
	}
}

func TestClipLine(t *testing.T) {
	if _, _, _, _, ok := clipLine(-10, -10, -1, -5, 9, 9); ok {
		t.Fatalf("segment left of target accepted")
	}
	x0, y0, x1, y1, ok := clipLine(-10, 5, 20, 5, 9, 9)
	near := func(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-4 }
	if !ok || !near(x0, 0) || !near(x1, 9) || y0 != 5 || y1 != 5 {
		t.Fatalf("clipLine = %v,%v,%v,%v,%v", x0, y0, x1, y1, ok)
	}
}

func TestRGB565TargetClear(t *testing.T) {
	tg := newTarget(3, 2)
	tg.Clear(RGB(255, 0, 0))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if got := tg.Pixel(x, y); got != 0xF800 {
				t.Fatalf("pixel(%d,%d) = %#04x, want 0xf800", x, y, got)
			}
		}
	}
	tg.SetPixel(-1, 0, White)
	tg.SetPixel(3, 0, White)
	if tg.Pixel(3, 0) != 0 {
		t.Fatalf("out-of-bounds read returned a value")
	}
}

func TestOverlayDrawsText(t *testing.T) {
	tg := newTarget(40, 10)
	o := NewOverlay(nil)
	o.Attach(tg)
	if o.Width("HI") <= 0 {
		t.Fatalf("Width(HI) = %d", o.Width("HI"))
	}
	o.Text(1, 1, White, "HI")
	lit := 0
	for y := 0; y < tg.H; y++ {
		for x := 0; x < tg.W; x++ {
			if tg.Pixel(x, y) != 0 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatalf("overlay drew no pixels")
	}
}

func TestSphereMeshClampsSegments(t *testing.T) {
	m := NewSphereMesh(10, 300, 300)
	n := MaxSphereSegments + 1
	if len(m.Vertices) != n*n {
		t.Fatalf("vertices = %d, want %d", len(m.Vertices), n*n)
	}
	for i, ix := range m.Indices {
		if int(ix) >= len(m.Vertices) {
			t.Fatalf("index %d = %d out of %d vertices", i, ix, len(m.Vertices))
		}
	}
	if last := m.Indices[len(m.Indices)-1]; int(last) != n*n-1 {
		t.Fatalf("last index = %d, want %d", last, n*n-1)
	}
}

package render3d

// Renderer draws scenes as wireframe. Create it once and reuse it; the
// projected vertex buffer is kept between frames.
type Renderer struct {
	ClearColor Color

	proj []screenPoint
}

func NewRenderer() *Renderer { return &Renderer{ClearColor: Black} }

type screenPoint struct {
	X, Y float32
	ok   bool
}

// Render clears t and draws every enabled mesh of s.
func (r *Renderer) Render(t Target, s *Scene) {
	if r == nil || t == nil || s == nil {
		return
	}
	w, h := t.Size()
	if w <= 0 || h <= 0 {
		return
	}
	t.Clear(r.ClearColor)

	vp := Mul(s.Camera.Projection(), Mul(s.Camera.View(), s.World))
	s.eachMesh(func(m *Mesh) {
		if !m.Enabled || len(m.Vertices) == 0 {
			return
		}
		r.renderMesh(t, w, h, Mul(vp, m.Transform), m)
	})
}

func (r *Renderer) renderMesh(t Target, w, h int, mvp Mat4, m *Mesh) {
	if cap(r.proj) < len(m.Vertices) {
		r.proj = make([]screenPoint, len(m.Vertices))
	}
	pts := r.proj[:len(m.Vertices)]
	for i, v := range m.Vertices {
		pts[i] = project(mvp.Apply(v), w, h)
	}

	edge := func(a, b uint16) {
		if int(a) >= len(pts) || int(b) >= len(pts) {
			return
		}
		p, q := pts[a], pts[b]
		if !p.ok || !q.ok {
			return
		}
		drawLine(t, w, h, p.X, p.Y, q.X, q.Y, m.Color)
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		edge(a, b)
		edge(b, c)
		edge(c, a)
	}
	for i := 0; i+1 < len(m.Lines); i += 2 {
		edge(m.Lines[i], m.Lines[i+1])
	}
}

// project maps a clip-space point to pixel coordinates. NDC (-1, 1) is the
// top-left pixel.
func project(p Vec4, w, h int) screenPoint {
	if p.W == 0 {
		return screenPoint{}
	}
	inv := 1 / p.W
	x, y := p.X*inv, p.Y*inv
	return screenPoint{
		X:  (x*0.5 + 0.5) * float32(w-1),
		Y:  (1 - (y*0.5 + 0.5)) * float32(h-1),
		ok: true,
	}
}

// drawLine clips the segment to the target and rasterizes what is left.
func drawLine(t Target, w, h int, x0, y0, x1, y1 float32, c Color) {
	x0, y0, x1, y1, ok := clipLine(x0, y0, x1, y1, float32(w-1), float32(h-1))
	if !ok {
		return
	}
	bresenham(t, round(x0), round(y0), round(x1), round(y1), c)
}

// clipLine clips a segment to [0, xmax]×[0, ymax] (Liang-Barsky).
func clipLine(x0, y0, x1, y1, xmax, ymax float32) (float32, float32, float32, float32, bool) {
	t0, t1 := float32(0), float32(1)
	dx, dy := x1-x0, y1-y0
	for _, e := range [4][2]float32{{-dx, x0}, {dx, xmax - x0}, {-dy, y0}, {dy, ymax - y0}} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func bresenham(t Target, x0, y0, x1, y1 int, c Color) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		t.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func round(v float32) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

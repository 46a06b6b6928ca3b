package render3d

// Camera is an orthographic camera with explicit extents.
type Camera struct {
	Position Vec3

	Left, Right Scalar
	Top, Bottom Scalar
	Near, Far   Scalar
}

// ScreenCamera returns a camera whose units are logical pixels with the
// origin at the top-left corner of a w×h viewport.
func ScreenCamera(w, h int) Camera {
	c := Camera{
		Position: V3(0, 0, 2.5),
		Near:     -10000,
		Far:      10000,
	}
	c.SetBounds(w, h)
	return c
}

// SetBounds sets left=0, right=w, top=0, bottom=h.
func (c *Camera) SetBounds(w, h int) {
	c.Left, c.Right = 0, Scalar(w)
	c.Top, c.Bottom = 0, Scalar(h)
}

// View returns the camera view matrix. The camera looks down -Z.
func (c Camera) View() Mat4 { return Translate(c.Position.Mul(-1)) }

func (c Camera) Projection() Mat4 {
	return Ortho(c.Left, c.Right, c.Bottom, c.Top, c.Near, c.Far)
}

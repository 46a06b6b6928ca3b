package render3d

import "math"

// Mesh is drawn as wireframe: every triangle edge from Indices and every
// segment from Lines.
type Mesh struct {
	Enabled bool

	Vertices []Vec3
	Indices  []uint16 // triangle list
	Lines    []uint16 // segment pairs

	Transform Mat4
	Color     Color
}

// MaxSphereSegments keeps a sphere's (segments+1)^2 vertices addressable by
// uint16 indices.
const MaxSphereSegments = 255

// NewSphereMesh builds a UV sphere with widthSegments around the equator and
// heightSegments from pole to pole. Segment counts above MaxSphereSegments
// are clamped.
func NewSphereMesh(radius Scalar, widthSegments, heightSegments int) Mesh {
	widthSegments = min(max(widthSegments, 3), MaxSphereSegments)
	heightSegments = min(max(heightSegments, 2), MaxSphereSegments)

	verts := make([]Vec3, 0, (widthSegments+1)*(heightSegments+1))
	grid := make([][]uint16, heightSegments+1)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		grid[iy] = make([]uint16, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			r := float64(radius)
			verts = append(verts, Vec3{
				X: Scalar(-r * math.Cos(u*2*math.Pi) * math.Sin(v*math.Pi)),
				Y: Scalar(r * math.Cos(v*math.Pi)),
				Z: Scalar(r * math.Sin(u*2*math.Pi) * math.Sin(v*math.Pi)),
			})
			grid[iy][ix] = uint16(len(verts) - 1)
		}
	}

	var idx []uint16
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				idx = append(idx, a, b, d)
			}
			if iy != heightSegments-1 {
				idx = append(idx, b, c, d)
			}
		}
	}

	return Mesh{
		Vertices:  verts,
		Indices:   idx,
		Transform: Identity(),
		Color:     White,
	}
}

// NewLineMesh builds a single segment from a to b.
func NewLineMesh(a, b Vec3, c Color) Mesh {
	return Mesh{
		Vertices:  []Vec3{a, b},
		Lines:     []uint16{0, 1},
		Transform: Identity(),
		Color:     c,
	}
}

// Package compose turns the ordered peer list into the scene's identity
// objects and connector edges.
package compose

import (
	"math"

	"tandem/core/geom"
	"tandem/core/peers"
)

// Params controls the size and color ramp of identity objects.
type Params struct {
	Base      float64 // radius of the first object
	Increment float64 // radius added per index
	HueStep   float64 // hue added per index, wrapped to [0, 1)
}

// DefaultParams returns radius 50 + i*25 and hue i*0.1.
func DefaultParams() Params {
	return Params{Base: 50, Increment: 25, HueStep: 0.1}
}

// Identity is the per-peer visual identity. Its live position is owned by
// the smoother; Seed is where it starts.
type Identity struct {
	PeerID uint32
	Index  int
	Radius float64
	Hue    float64
	Seed   geom.Vec2
}

// Edge connects a non-anchor identity to the anchor. Both ends are fixed at
// composition time.
type Edge struct {
	Index    int // identity the edge starts at
	From, To geom.Vec2
}

// Snapshot is one composition result. It is never modified after Rebuild
// returns it.
type Snapshot struct {
	Objects []Identity
	Anchor  int // index into Objects, -1 when empty
	Edges   []Edge
}

// Len returns the number of identity objects.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Objects)
}

// Seeds returns the seeded centers in object order.
func (s *Snapshot) Seeds() []geom.Vec2 {
	if s == nil {
		return nil
	}
	out := make([]geom.Vec2, len(s.Objects))
	for i, o := range s.Objects {
		out[i] = o.Seed
	}
	return out
}

// Composer builds snapshots.
type Composer struct {
	p Params
}

func New(p Params) *Composer { return &Composer{p: p} }

func (c *Composer) Params() Params { return c.p }

// Radius returns the radius of the object at index i.
func (c *Composer) Radius(i int) float64 { return c.p.Base + float64(i)*c.p.Increment }

// Hue returns the hue of the object at index i in [0, 1).
func (c *Composer) Hue(i int) float64 {
	h := math.Mod(float64(i)*c.p.HueStep, 1)
	if h < 0 {
		h++
	}
	return h
}

// Rebuild composes a fresh snapshot for ps in order.
func (c *Composer) Rebuild(ps []peers.PeerWindow) *Snapshot {
	s := &Snapshot{Anchor: -1}
	if len(ps) == 0 {
		return s
	}
	s.Objects = make([]Identity, len(ps))
	for i, p := range ps {
		s.Objects[i] = Identity{
			PeerID: p.ID,
			Index:  i,
			Radius: c.Radius(i),
			Hue:    c.Hue(i),
			Seed:   p.Shape.Center(),
		}
	}

	s.Anchor = 0
	for i := 1; i < len(s.Objects); i++ {
		if s.Objects[i].Radius < s.Objects[s.Anchor].Radius {
			s.Anchor = i
		}
	}

	to := s.Objects[s.Anchor].Seed
	s.Edges = make([]Edge, 0, len(s.Objects)-1)
	for i, o := range s.Objects {
		if i == s.Anchor {
			continue
		}
		s.Edges = append(s.Edges, Edge{Index: i, From: o.Seed, To: to})
	}
	return s
}

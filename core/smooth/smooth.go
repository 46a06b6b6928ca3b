// Package smooth eases the viewport offset and the identity object positions
// toward their targets with exponential damping.
package smooth

import "tandem/core/geom"

// DefaultDamping is the fraction of the remaining distance covered per tick.
const DefaultDamping = 0.05

// Offset is the world translation applied to the scene root.
type Offset struct {
	Current geom.Vec2
	Target  geom.Vec2
}

// Smoother owns the viewport offset and per-object positions.
type Smoother struct {
	k      float64
	offset Offset
	pos    []geom.Vec2
}

// New returns a smoother with damping k. Values outside (0, 1] fall back to
// DefaultDamping.
func New(k float64) *Smoother {
	if !(k > 0 && k <= 1) {
		k = DefaultDamping
	}
	return &Smoother{k: k}
}

func (s *Smoother) Damping() float64 { return s.k }

// SetOffsetTarget sets the offset target. immediate also snaps Current.
func (s *Smoother) SetOffsetTarget(p geom.Vec2, immediate bool) {
	s.offset.Target = p
	if immediate {
		s.offset.Current = p
	}
}

// Reseed replaces the per-object positions.
func (s *Smoother) Reseed(seeds []geom.Vec2) {
	s.pos = append(s.pos[:0], seeds...)
}

// Tick advances one frame. Object i eases toward the center of shapes[i];
// objects without a matching shape keep their position. It returns the
// number of objects updated.
func (s *Smoother) Tick(shapes []geom.Rect) int {
	s.offset.Current = s.ease(s.offset.Current, s.offset.Target)
	n := min(len(shapes), len(s.pos))
	for i := 0; i < n; i++ {
		s.pos[i] = s.ease(s.pos[i], shapes[i].Center())
	}
	return n
}

func (s *Smoother) ease(cur, target geom.Vec2) geom.Vec2 {
	return geom.Vec2{
		X: cur.X + (target.X-cur.X)*s.k,
		Y: cur.Y + (target.Y-cur.Y)*s.k,
	}
}

func (s *Smoother) Offset() Offset { return s.offset }

// Position returns the live position of object i.
func (s *Smoother) Position(i int) geom.Vec2 { return s.pos[i] }

func (s *Smoother) Len() int { return len(s.pos) }

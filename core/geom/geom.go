// Package geom holds the small 2D value types shared by the registry, the
// composer and the smoother.
package geom

import "math"

// Vec2 is a 2D point or offset in desktop coordinates.
type Vec2 struct {
	X, Y float64
}

func V2(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2     { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2     { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(s float64) Vec2  { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Neg() Vec2           { return Vec2{-v.X, -v.Y} }
func (v Vec2) Len() float64        { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }

// Rect is an axis-aligned window rectangle in desktop coordinates.
type Rect struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	W int `json:"w" yaml:"w"`
	H int `json:"h" yaml:"h"`
}

// Origin returns the top-left corner.
func (r Rect) Origin() Vec2 { return Vec2{float64(r.X), float64(r.Y)} }

// Center returns the rectangle center (x + w/2, y + h/2).
func (r Rect) Center() Vec2 {
	return Vec2{
		X: float64(r.X) + float64(r.W)*0.5,
		Y: float64(r.Y) + float64(r.H)*0.5,
	}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

package geom

import "testing"

func TestRectCenter(t *testing.T) {
	r := Rect{X: 200, Y: 0, W: 100, H: 100}
	if got := r.Center(); got != V2(250, 50) {
		t.Fatalf("Center() = %v, want (250,50)", got)
	}
	odd := Rect{X: -10, Y: 5, W: 15, H: 7}
	if got := odd.Center(); got != V2(-2.5, 8.5) {
		t.Fatalf("Center() = %v, want (-2.5,8.5)", got)
	}
}

func TestRectEmpty(t *testing.T) {
	if !(Rect{W: 0, H: 10}).Empty() {
		t.Fatal("zero width rect not empty")
	}
	if (Rect{W: 1, H: 1}).Empty() {
		t.Fatal("1x1 rect reported empty")
	}
}

func TestVec2Ops(t *testing.T) {
	a := V2(3, 4)
	if a.Len() != 5 {
		t.Fatalf("Len() = %v, want 5", a.Len())
	}
	if got := a.Neg(); got != V2(-3, -4) {
		t.Fatalf("Neg() = %v", got)
	}
	if got := a.Sub(V2(1, 1)).Mul(2); got != V2(4, 6) {
		t.Fatalf("Sub/Mul = %v, want (4,6)", got)
	}
}

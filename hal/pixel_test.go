package hal

import "testing"

func TestRGB565RoundTripPrimaries(t *testing.T) {
	cases := [][3]uint8{
		{0, 0, 0},
		{255, 255, 255},
		{255, 0, 0},
		{0, 255, 0},
		{0, 0, 255},
	}
	for _, c := range cases {
		r, g, b := UnpackRGB565(PackRGB565(c[0], c[1], c[2]))
		if r != c[0] || g != c[1] || b != c[2] {
			t.Fatalf("round trip %v = %d,%d,%d", c, r, g, b)
		}
	}
}

func TestPackRGB565Layout(t *testing.T) {
	if got := PackRGB565(255, 0, 0); got != 0xF800 {
		t.Fatalf("red = %#04x, want 0xf800", got)
	}
	if got := PackRGB565(0, 255, 0); got != 0x07E0 {
		t.Fatalf("green = %#04x, want 0x07e0", got)
	}
	if got := PackRGB565(0, 0, 255); got != 0x001F {
		t.Fatalf("blue = %#04x, want 0x001f", got)
	}
}

func TestFramebufferResize(t *testing.T) {
	fb := newHostFramebuffer(4, 3)
	if fb.StrideBytes() != 8 || len(fb.Buffer()) != 24 {
		t.Fatalf("stride=%d len=%d", fb.StrideBytes(), len(fb.Buffer()))
	}
	if fb.resize(4, 3) {
		t.Fatal("resize to same size reallocated")
	}
	if !fb.resize(10, 2) {
		t.Fatal("resize to new size did not reallocate")
	}
	if fb.Width() != 10 || fb.Height() != 2 || len(fb.Buffer()) != 40 {
		t.Fatalf("after resize: %dx%d len=%d", fb.Width(), fb.Height(), len(fb.Buffer()))
	}

	fb.ClearRGB(255, 0, 0)
	dst := make([]byte, 10*2*4)
	fb.snapshotRGBA(dst)
	if dst[0] != 255 || dst[1] != 0 || dst[2] != 0 || dst[3] != 255 {
		t.Fatalf("first pixel = %v", dst[:4])
	}
}

func TestScaledSize(t *testing.T) {
	w, h := scaledSize(400, 300, 2)
	if w != 800 || h != 600 {
		t.Fatalf("scaledSize = %dx%d, want 800x600", w, h)
	}
	w, h = scaledSize(0, 0, 1)
	if w != 1 || h != 1 {
		t.Fatalf("scaledSize(0,0) = %dx%d, want 1x1", w, h)
	}
}

package proto

import "testing"

func TestPlacementChangedPayload(t *testing.T) {
	for _, easing := range []bool{true, false} {
		got, ok := DecodePlacementChangedPayload(PlacementChangedPayload(easing))
		if !ok || got != easing {
			t.Fatalf("decode(%v) = %v,%v", easing, got, ok)
		}
	}
	if _, ok := DecodePlacementChangedPayload(nil); ok {
		t.Fatal("empty payload decoded")
	}
	if _, ok := DecodePlacementChangedPayload([]byte{1, 0}); ok {
		t.Fatal("oversized payload decoded")
	}
}

func TestPeersChangedPayloadClamps(t *testing.T) {
	if n, ok := DecodePeersChangedPayload(PeersChangedPayload(-4)); !ok || n != 0 {
		t.Fatalf("negative count = %d,%v want 0,true", n, ok)
	}
	if n, ok := DecodePeersChangedPayload(PeersChangedPayload(1 << 20)); !ok || n != 0xFFFF {
		t.Fatalf("large count = %d,%v want 65535,true", n, ok)
	}
	if _, ok := DecodePeersChangedPayload([]byte{1}); ok {
		t.Fatal("short payload decoded")
	}
}

func TestKindString(t *testing.T) {
	if MsgPlacementChanged.String() != "placement_changed" {
		t.Fatalf("String() = %q", MsgPlacementChanged.String())
	}
	if Kind(999).String() != "unknown" {
		t.Fatalf("String() = %q", Kind(999).String())
	}
}

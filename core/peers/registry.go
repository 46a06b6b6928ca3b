// Package peers tracks the windows taking part in a session: which exist, in
// what order they joined, and where each one sits on the desktop.
//
// The scene only consumes the Registry interface. Two implementations exist:
// SessionRegistry shares membership between processes through a session file,
// MemoryRegistry keeps everything in-process for tests and demos.
package peers

import (
	"errors"

	"tandem/core/geom"
)

var (
	ErrNotInitialized = errors.New("peers: registry not initialized")
	ErrAlreadyJoined  = errors.New("peers: registry already initialized")
	ErrClosed         = errors.New("peers: registry closed")
	ErrCorrupt        = errors.New("peers: corrupt session file")
)

// PeerWindow is one window of the session.
type PeerWindow struct {
	ID    uint32
	Shape geom.Rect
	Meta  map[string]string
}

// Listener receives registry notifications. Calls happen on the thread that
// runs Housekeeping and must not block.
type Listener interface {
	// PeersChanged fires when membership or order changed. Re-query Peers.
	PeersChanged()
	// PlacementChanged fires when the local window moved or resized. easing
	// false requests an immediate snap.
	PlacementChanged(easing bool)
}

// Subscription is a cancelable listener registration.
type Subscription interface {
	Cancel()
}

// Locator reports the local window placement.
type Locator func() geom.Rect

// Registry is the peer registry contract the scene consumes.
type Registry interface {
	// Init joins the session with opaque metadata. It must be called exactly
	// once before any other call.
	Init(meta map[string]string) error
	// ID returns the local window's peer ID (0 before Init).
	ID() uint32
	// Peers returns the current snapshot in join order.
	Peers() []PeerWindow
	Subscribe(l Listener) Subscription
	// Housekeeping refreshes liveness and delivers pending notifications.
	// Call it once per frame.
	Housekeeping()
	// Close leaves the session.
	Close() error
}

// Shapes returns the placements of ps in order.
func Shapes(ps []PeerWindow) []geom.Rect {
	out := make([]geom.Rect, len(ps))
	for i, p := range ps {
		out[i] = p.Shape
	}
	return out
}

// sameMembership reports whether a and b hold the same IDs in the same order.
func sameMembership(a, b []PeerWindow) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

func copyMeta(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

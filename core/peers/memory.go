package peers

import "tandem/core/geom"

// MemoryRegistry is an in-process Registry. Other peers are added and moved
// with Join, Leave and Move; notifications are delivered from Housekeeping,
// like the session registry does.
type MemoryRegistry struct {
	locate Locator

	id     uint32
	nextID uint32
	joined bool
	closed bool

	peers     []PeerWindow
	lastShape geom.Rect

	dirty bool
	hub   hub
}

// NewMemoryRegistry returns an empty registry. locate may be nil, in which
// case the local window never moves.
func NewMemoryRegistry(locate Locator) *MemoryRegistry {
	return &MemoryRegistry{locate: locate}
}

func (r *MemoryRegistry) Init(meta map[string]string) error {
	if r.closed {
		return ErrClosed
	}
	if r.joined {
		return ErrAlreadyJoined
	}
	var shape geom.Rect
	if r.locate != nil {
		shape = r.locate()
	}
	r.id = r.Join(shape, meta)
	r.lastShape = shape
	r.joined = true
	r.dirty = false
	return nil
}

func (r *MemoryRegistry) ID() uint32 { return r.id }

func (r *MemoryRegistry) Peers() []PeerWindow {
	out := make([]PeerWindow, len(r.peers))
	copy(out, r.peers)
	return out
}

func (r *MemoryRegistry) Subscribe(l Listener) Subscription { return r.hub.add(l) }

// Join appends a peer and returns its ID. The change is announced on the next
// Housekeeping call.
func (r *MemoryRegistry) Join(shape geom.Rect, meta map[string]string) uint32 {
	r.nextID++
	r.peers = append(r.peers, PeerWindow{ID: r.nextID, Shape: shape, Meta: copyMeta(meta)})
	r.dirty = true
	return r.nextID
}

// Leave removes a peer. It reports whether the peer existed.
func (r *MemoryRegistry) Leave(id uint32) bool {
	for i, p := range r.peers {
		if p.ID == id {
			r.peers = append(r.peers[:i:i], r.peers[i+1:]...)
			r.dirty = true
			return true
		}
	}
	return false
}

// Move updates a peer placement without a membership notification.
func (r *MemoryRegistry) Move(id uint32, shape geom.Rect) bool {
	for i := range r.peers {
		if r.peers[i].ID == id {
			r.peers[i].Shape = shape
			return true
		}
	}
	return false
}

func (r *MemoryRegistry) Housekeeping() {
	if !r.joined || r.closed {
		return
	}
	if r.locate != nil {
		if shape := r.locate(); shape != r.lastShape {
			r.lastShape = shape
			r.Move(r.id, shape)
			r.hub.placementChanged(true)
		}
	}
	if r.dirty {
		r.dirty = false
		r.hub.peersChanged()
	}
}

func (r *MemoryRegistry) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.joined {
		r.Leave(r.id)
	}
	return nil
}

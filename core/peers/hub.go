package peers

// hub fans notifications out to subscribed listeners. Not safe for
// concurrent use; it lives on the frame thread.
type hub struct {
	next uint64
	subs []hubEntry
}

type hubEntry struct {
	id uint64
	l  Listener
}

type hubSub struct {
	h  *hub
	id uint64
}

func (s *hubSub) Cancel() {
	if s == nil || s.h == nil {
		return
	}
	s.h.remove(s.id)
	s.h = nil
}

func (h *hub) add(l Listener) Subscription {
	if l == nil {
		return &hubSub{}
	}
	h.next++
	h.subs = append(h.subs, hubEntry{id: h.next, l: l})
	return &hubSub{h: h, id: h.next}
}

func (h *hub) remove(id uint64) {
	for i, e := range h.subs {
		if e.id == id {
			h.subs = append(h.subs[:i], h.subs[i+1:]...)
			return
		}
	}
}

func (h *hub) peersChanged() {
	for _, e := range h.subs {
		e.l.PeersChanged()
	}
}

func (h *hub) placementChanged(easing bool) {
	for _, e := range h.subs {
		e.l.PlacementChanged(easing)
	}
}

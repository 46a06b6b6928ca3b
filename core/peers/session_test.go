package peers

import (
	"os"
	"testing"
	"time"

	"tandem/core/geom"
)

func newTestSession(t *testing.T, dir string, shape *geom.Rect) *SessionRegistry {
	t.Helper()
	r, err := NewSessionRegistry(SessionConfig{
		Dir:               dir,
		Name:              "test",
		PollInterval:      5 * time.Millisecond,
		HeartbeatInterval: 10 * time.Millisecond,
		StaleAfter:        time.Minute,
		Locate:            func() geom.Rect { return *shape },
	})
	if err != nil {
		t.Fatalf("NewSessionRegistry: %v", err)
	}
	return r
}

// waitFor runs Housekeeping on r until cond holds or the deadline passes.
func waitFor(t *testing.T, r *SessionRegistry, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		r.Housekeeping()
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not reached before deadline")
}

func TestSessionRegistryJoinLeave(t *testing.T) {
	dir := t.TempDir()
	shapeA := geom.Rect{X: 0, Y: 0, W: 100, H: 100}
	shapeB := geom.Rect{X: 300, Y: 0, W: 100, H: 100}

	a := newTestSession(t, dir, &shapeA)
	if err := a.Init(map[string]string{"name": "a"}); err != nil {
		t.Fatalf("a.Init: %v", err)
	}
	defer a.Close()
	la := &countingListener{}
	a.Subscribe(la)

	b := newTestSession(t, dir, &shapeB)
	if err := b.Init(nil); err != nil {
		t.Fatalf("b.Init: %v", err)
	}
	if a.ID() == b.ID() {
		t.Fatalf("duplicate id %d", a.ID())
	}

	waitFor(t, a, func() bool { return len(a.Peers()) == 2 })
	if la.peers == 0 {
		t.Fatalf("PeersChanged not fired on join")
	}
	ps := a.Peers()
	if ps[0].ID != a.ID() || ps[1].ID != b.ID() {
		t.Fatalf("join order = %d,%d, want %d,%d", ps[0].ID, ps[1].ID, a.ID(), b.ID())
	}
	if ps[1].Shape != shapeB {
		t.Fatalf("peer shape = %+v, want %+v", ps[1].Shape, shapeB)
	}
	if ps[0].Meta["name"] != "a" {
		t.Fatalf("meta = %v", ps[0].Meta)
	}

	if err := b.Close(); err != nil {
		t.Fatalf("b.Close: %v", err)
	}
	before := la.peers
	waitFor(t, a, func() bool { return len(a.Peers()) == 1 })
	if la.peers <= before {
		t.Fatalf("PeersChanged not fired on leave")
	}
}

func TestSessionRegistryPlacementPropagates(t *testing.T) {
	dir := t.TempDir()
	shapeA := geom.Rect{W: 100, H: 100}
	shapeB := geom.Rect{X: 500, W: 100, H: 100}
	a := newTestSession(t, dir, &shapeA)
	b := newTestSession(t, dir, &shapeB)
	if err := a.Init(nil); err != nil {
		t.Fatalf("a.Init: %v", err)
	}
	defer a.Close()
	if err := b.Init(nil); err != nil {
		t.Fatalf("b.Init: %v", err)
	}
	defer b.Close()

	lb := &countingListener{}
	b.Subscribe(lb)
	shapeB.X = 700
	b.Housekeeping()
	if lb.placement != 1 || !lb.easing[0] {
		t.Fatalf("PlacementChanged = %d %v, want 1 [true]", lb.placement, lb.easing)
	}
	if got := b.Peers(); got[len(got)-1].Shape.X != 700 {
		t.Fatalf("local shape not updated: %+v", got)
	}

	waitFor(t, a, func() bool {
		ps := a.Peers()
		return len(ps) == 2 && ps[1].Shape.X == 700
	})
}

func TestSessionRegistryPrunesStale(t *testing.T) {
	dir := t.TempDir()
	st, err := OpenStore(dir, "test")
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	st.Update(func(s *Session) error {
		s.join(geom.Rect{}, nil, time.Now().Add(-time.Hour))
		return nil
	})

	shape := geom.Rect{W: 10, H: 10}
	r := newTestSession(t, dir, &shape)
	if err := r.Init(nil); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer r.Close()
	ps := r.Peers()
	if len(ps) != 1 || ps[0].ID != r.ID() {
		t.Fatalf("Peers = %+v, want only local", ps)
	}
	if r.ID() != 2 {
		t.Fatalf("ID = %d, want 2 (ids are never reused)", r.ID())
	}
}

func TestSessionRegistryRejoinsAfterClear(t *testing.T) {
	dir := t.TempDir()
	shape := geom.Rect{W: 10, H: 10}
	r := newTestSession(t, dir, &shape)
	if err := r.Init(nil); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer r.Close()
	if err := r.Store().Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		sess, err := r.Store().Read()
		if err == nil && len(sess.Windows) == 1 && sess.Windows[0].ID == r.ID() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("local window not re-added after clear")
}

func TestSessionRegistryInitFailure(t *testing.T) {
	dir := t.TempDir()
	shape := geom.Rect{}
	r := newTestSession(t, dir, &shape)
	// A directory where the session file belongs cannot be read or replaced.
	if err := os.Mkdir(r.Store().Path(), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if err := r.Init(nil); err == nil {
		t.Fatalf("Init with unreadable session succeeded")
	}
	if r.ID() != 0 {
		t.Fatalf("ID after failed Init = %d", r.ID())
	}
	r.Housekeeping()
	if err := r.Close(); err != nil {
		t.Fatalf("Close after failed Init: %v", err)
	}
}

func TestSessionRegistryCloseLeaves(t *testing.T) {
	dir := t.TempDir()
	shape := geom.Rect{}
	r := newTestSession(t, dir, &shape)
	if err := r.Init(nil); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	sess, err := r.Store().Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(sess.Windows) != 0 {
		t.Fatalf("windows after Close = %+v", sess.Windows)
	}
	if err := r.Init(nil); err != ErrClosed {
		t.Fatalf("Init after Close = %v, want %v", err, ErrClosed)
	}
}

func TestSessionRegistryKeepsNewestSnapshot(t *testing.T) {
	shape := geom.Rect{W: 10, H: 10}
	r, err := NewSessionRegistry(SessionConfig{
		Dir:               t.TempDir(),
		Name:              "test",
		PollInterval:      time.Hour,
		HeartbeatInterval: time.Hour,
		Locate:            func() geom.Rect { return shape },
	})
	if err != nil {
		t.Fatalf("NewSessionRegistry: %v", err)
	}
	if err := r.Init(nil); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer r.Close()
	l := &countingListener{}
	r.Subscribe(l)

	older, err := r.Store().Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	newer, err := r.Store().Update(func(s *Session) error {
		s.join(geom.Rect{X: 200, W: 10, H: 10}, nil, time.Now())
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if !r.publish(newer) {
		t.Fatalf("publish(v%d) rejected", newer.Version)
	}
	r.Housekeeping()
	if r.publish(older) {
		t.Fatalf("publish(v%d) replaced v%d", older.Version, newer.Version)
	}
	r.Housekeeping()
	if r.publish(newer) {
		t.Fatalf("publish of the current snapshot succeeded")
	}
	r.Housekeeping()

	if l.peers != 1 {
		t.Fatalf("PeersChanged = %d for one join, want 1", l.peers)
	}
	if got := len(r.Peers()); got != 2 {
		t.Fatalf("len(Peers) = %d, want 2", got)
	}

	reset := &Session{Epoch: newer.Epoch + 1, Version: 1}
	if !r.publish(reset) {
		t.Fatalf("snapshot from a newer epoch rejected")
	}
}

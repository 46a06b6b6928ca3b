package peers

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"tandem/core/geom"
	"tandem/hal"
)

const (
	DefaultPollInterval      = 100 * time.Millisecond
	DefaultHeartbeatInterval = 500 * time.Millisecond
	DefaultStaleAfter        = 3 * time.Second
)

// SessionConfig configures a SessionRegistry.
type SessionConfig struct {
	Dir  string
	Name string

	PollInterval      time.Duration
	HeartbeatInterval time.Duration
	// StaleAfter is the heartbeat age after which a peer is pruned.
	// Zero disables pruning.
	StaleAfter time.Duration

	Locate Locator
	Logger hal.Logger

	// Now overrides the wall clock used for heartbeats.
	Now func() time.Time
}

func (c *SessionConfig) setDefaults() {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// SessionRegistry shares membership between window processes through a
// session file.
//
// Two goroutines do all file I/O. The poller reads the file and publishes the
// decoded session through an atomic pointer; the writer upserts the local
// entry on every heartbeat or placement change. Everything else runs on the
// frame thread.
type SessionRegistry struct {
	cfg   SessionConfig
	store *Store

	id   uint32
	meta map[string]string

	snap      atomic.Pointer[Session]
	placement chan geom.Rect

	cancel context.CancelFunc
	group  *errgroup.Group

	// Frame thread only.
	joined    bool
	closed    bool
	lastShape geom.Rect
	lastSnap  *Session
	lastPeers []PeerWindow
	hub       hub
}

// NewSessionRegistry opens the session store. Nothing is written before Init.
func NewSessionRegistry(cfg SessionConfig) (*SessionRegistry, error) {
	cfg.setDefaults()
	st, err := OpenStore(cfg.Dir, cfg.Name)
	if err != nil {
		return nil, err
	}
	return &SessionRegistry{
		cfg:       cfg,
		store:     st,
		placement: make(chan geom.Rect, 1),
	}, nil
}

func (r *SessionRegistry) Store() *Store { return r.store }

func (r *SessionRegistry) ID() uint32 { return r.id }

func (r *SessionRegistry) Init(meta map[string]string) error {
	if r.closed {
		return ErrClosed
	}
	if r.joined {
		return ErrAlreadyJoined
	}
	shape := r.locate()
	r.meta = copyMeta(meta)

	now := r.cfg.Now()
	sess, err := r.store.Update(func(s *Session) error {
		s.prune(0, now, r.cfg.StaleAfter)
		r.id = s.join(shape, r.meta, now)
		return nil
	})
	if err != nil {
		return fmt.Errorf("peers: join session %q: %w", r.cfg.Name, err)
	}
	r.publish(sess)
	r.lastSnap = sess
	r.lastPeers = r.Peers()
	r.lastShape = shape
	r.joined = true

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	r.cancel = cancel
	r.group = g
	g.Go(func() error { return r.poll(ctx) })
	g.Go(func() error { return r.write(ctx, shape) })
	return nil
}

// Peers returns the last published session in join order. The local entry
// carries the most recent local placement.
func (r *SessionRegistry) Peers() []PeerWindow {
	ps := r.snap.Load().PeerWindows()
	if r.joined {
		for i := range ps {
			if ps[i].ID == r.id {
				ps[i].Shape = r.lastShape
			}
		}
	}
	return ps
}

func (r *SessionRegistry) Subscribe(l Listener) Subscription { return r.hub.add(l) }

func (r *SessionRegistry) Housekeeping() {
	if !r.joined || r.closed {
		return
	}
	if shape := r.locate(); shape != r.lastShape {
		r.lastShape = shape
		r.offer(shape)
		r.hub.placementChanged(true)
	}
	sess := r.snap.Load()
	if sess == r.lastSnap {
		return
	}
	r.lastSnap = sess
	ps := r.Peers()
	if !sameMembership(ps, r.lastPeers) {
		r.lastPeers = ps
		r.hub.peersChanged()
	}
}

// Close stops the background goroutines and removes the local entry.
func (r *SessionRegistry) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if !r.joined {
		return nil
	}
	r.cancel()
	werr := r.group.Wait()
	_, lerr := r.store.Update(func(s *Session) error {
		s.leave(r.id)
		return nil
	})
	if lerr != nil {
		lerr = fmt.Errorf("peers: leave session %q: %w", r.cfg.Name, lerr)
	}
	return errors.Join(werr, lerr)
}

func (r *SessionRegistry) locate() geom.Rect {
	if r.cfg.Locate == nil {
		return r.lastShape
	}
	return r.cfg.Locate()
}

// offer replaces any pending placement with shape.
func (r *SessionRegistry) offer(shape geom.Rect) {
	select {
	case <-r.placement:
	default:
	}
	select {
	case r.placement <- shape:
	default:
	}
}

func (r *SessionRegistry) poll(ctx context.Context) error {
	t := time.NewTicker(r.cfg.PollInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
		sess, err := r.store.Read()
		if err != nil {
			r.logf("peers: poll: %v", err)
			continue
		}
		r.publish(sess)
	}
}

func (r *SessionRegistry) write(ctx context.Context, shape geom.Rect) error {
	t := time.NewTicker(r.cfg.HeartbeatInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case shape = <-r.placement:
		case <-t.C:
		}
		sess, err := r.store.Update(func(s *Session) error {
			r.heartbeat(s, shape)
			return nil
		})
		if err != nil {
			r.logf("peers: heartbeat: %v", err)
			continue
		}
		r.publish(sess)
	}
}

// publish installs sess as the current snapshot unless a newer one is already
// there. Unlocked poll reads may lag a write that was published first.
func (r *SessionRegistry) publish(sess *Session) bool {
	for {
		cur := r.snap.Load()
		if !sess.NewerThan(cur) {
			return false
		}
		if r.snap.CompareAndSwap(cur, sess) {
			return true
		}
	}
}

// heartbeat refreshes the local entry, re-adding it under the same ID if
// another process pruned it, and drops stale peers.
func (r *SessionRegistry) heartbeat(s *Session, shape geom.Rect) {
	now := r.cfg.Now()
	if !s.touch(r.id, shape, now) {
		s.Windows = append(s.Windows, Window{ID: r.id, Shape: shape, Meta: copyMeta(r.meta), Seen: now.UnixMilli()})
		if s.NextID < r.id {
			s.NextID = r.id
		}
	}
	if n := s.prune(r.id, now, r.cfg.StaleAfter); n > 0 {
		r.logf("peers: pruned %d stale window(s)", n)
	}
}

func (r *SessionRegistry) logf(format string, args ...any) {
	if r.cfg.Logger == nil {
		return
	}
	r.cfg.Logger.WriteLineString(fmt.Sprintf(format, args...))
}

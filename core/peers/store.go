package peers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"tandem/core/geom"
)

// Session is the on-disk session document.
//
// Version grows by one on every write. Epoch is stamped when a session file is
// created from scratch (first join, after Clear, after a corrupt file), so
// (Epoch, Version) orders every snapshot ever written under one path.
type Session struct {
	Epoch   int64    `json:"epoch"`
	Version uint64   `json:"version"`
	NextID  uint32   `json:"next_id"`
	Windows []Window `json:"windows"`
}

// Window is one peer entry of a Session.
type Window struct {
	ID    uint32            `json:"id"`
	Shape geom.Rect         `json:"shape"`
	Meta  map[string]string `json:"meta,omitempty"`
	Seen  int64             `json:"seen"`
}

// SeenTime returns the last heartbeat as a time.
func (w Window) SeenTime() time.Time { return time.UnixMilli(w.Seen) }

// NewerThan reports whether s was written after o. A nil o is older than
// anything.
func (s *Session) NewerThan(o *Session) bool {
	if o == nil {
		return true
	}
	if s.Epoch != o.Epoch {
		return s.Epoch > o.Epoch
	}
	return s.Version > o.Version
}

// PeerWindows converts the session entries to peers in join order.
func (s *Session) PeerWindows() []PeerWindow {
	if s == nil {
		return nil
	}
	out := make([]PeerWindow, len(s.Windows))
	for i, w := range s.Windows {
		out[i] = PeerWindow{ID: w.ID, Shape: w.Shape, Meta: copyMeta(w.Meta)}
	}
	return out
}

func (s *Session) index(id uint32) int {
	for i := range s.Windows {
		if s.Windows[i].ID == id {
			return i
		}
	}
	return -1
}

// Store is a session file guarded by an advisory lock file.
type Store struct {
	path string
	lock string
}

// OpenStore prepares <dir>/<name>.json, creating dir if needed.
func OpenStore(dir, name string) (*Store, error) {
	if name == "" {
		return nil, errors.New("peers: empty session name")
	}
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("peers: session dir: %w", err)
	}
	return &Store{
		path: filepath.Join(dir, name+".json"),
		lock: filepath.Join(dir, name+".lock"),
	}, nil
}

// DefaultDir returns the per-user directory holding session files.
func DefaultDir() string {
	if d, err := os.UserCacheDir(); err == nil {
		return filepath.Join(d, "tandem")
	}
	return filepath.Join(os.TempDir(), "tandem")
}

func (s *Store) Path() string { return s.path }

// Read returns the current session. A missing file reads as an empty session.
func (s *Store) Read() (*Session, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("peers: read session: %w", err)
	}
	var sess Session
	if len(b) == 0 {
		return &sess, nil
	}
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	return &sess, nil
}

// Update runs fn on the current session under the lock and writes the result
// back atomically. The version is bumped on every write. If fn returns an
// error nothing is written. A corrupt file is replaced by a fresh session.
func (s *Store) Update(fn func(*Session) error) (*Session, error) {
	unlock, err := lockFile(s.lock)
	if err != nil {
		return nil, fmt.Errorf("peers: lock session: %w", err)
	}
	defer unlock()

	sess, err := s.Read()
	if errors.Is(err, ErrCorrupt) {
		sess, err = &Session{}, nil
	}
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	if sess.Epoch == 0 {
		sess.Epoch = time.Now().UnixNano()
	}
	sess.Version++
	if err := s.write(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Store) write(sess *Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("peers: encode session: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("peers: write session: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("peers: write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("peers: write session: %w", err)
	}
	if err := os.Rename(name, s.path); err != nil {
		os.Remove(name)
		return fmt.Errorf("peers: write session: %w", err)
	}
	return nil
}

// Clear removes the session file. A missing file is not an error.
func (s *Store) Clear() error {
	unlock, err := lockFile(s.lock)
	if err != nil {
		return fmt.Errorf("peers: lock session: %w", err)
	}
	defer unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("peers: clear session: %w", err)
	}
	return nil
}

// join appends a new window and returns its ID.
func (s *Session) join(shape geom.Rect, meta map[string]string, now time.Time) uint32 {
	s.NextID++
	id := s.NextID
	s.Windows = append(s.Windows, Window{ID: id, Shape: shape, Meta: copyMeta(meta), Seen: now.UnixMilli()})
	return id
}

// touch refreshes a window's shape and heartbeat. It reports false when the
// window is no longer present.
func (s *Session) touch(id uint32, shape geom.Rect, now time.Time) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.Windows[i].Shape = shape
	s.Windows[i].Seen = now.UnixMilli()
	return true
}

func (s *Session) leave(id uint32) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.Windows = append(s.Windows[:i:i], s.Windows[i+1:]...)
	return true
}

// prune drops windows whose heartbeat is older than staleAfter, keeping keep.
// It returns the number of windows removed.
func (s *Session) prune(keep uint32, now time.Time, staleAfter time.Duration) int {
	if staleAfter <= 0 {
		return 0
	}
	cutoff := now.Add(-staleAfter).UnixMilli()
	kept := s.Windows[:0]
	n := 0
	for _, w := range s.Windows {
		if w.ID != keep && w.Seen < cutoff {
			n++
			continue
		}
		kept = append(kept, w)
	}
	s.Windows = kept
	return n
}

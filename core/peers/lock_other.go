//go:build !unix

package peers

import "os"

// Without flock the session file is still written atomically; concurrent
// writers may lose an update, which the next heartbeat repairs.
func lockFile(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	return func() { f.Close() }, nil
}

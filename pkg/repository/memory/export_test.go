package memory

import "time"

// SetNowFunc replaces the pending store clock for expiry tests
func (s *PendingStore) SetNowFunc(f func() time.Time) {
	s.now = f
}

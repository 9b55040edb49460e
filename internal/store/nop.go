package store

import "time"

// NopStore is a no-op seen-store used in dry-run mode: nothing is recorded,
// so every job appears new.
type NopStore struct{}

// NewNopStore returns a seen-store that never records anything.
func NewNopStore() *NopStore {
	return &NopStore{}
}

func (s *NopStore) HasSeen(string) (bool, error) { return false, nil }

func (s *NopStore) MarkSeen(string) error { return nil }

func (s *NopStore) Cleanup(time.Duration) error { return nil }

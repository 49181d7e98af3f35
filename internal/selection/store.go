package selection

import (
	"github.com/google/uuid"

	"dropstage/internal/domain"
	"dropstage/internal/eventbus"
)

// Store holds the deduplicated, ordered set of files staged for upload.
// It is owned by the widget instance and mutated only from the update loop.
type Store struct {
	bus   eventbus.EventBus
	files []domain.SelectedFile
	keys  map[domain.FileKey]struct{}
}

// NewStore creates an empty selection store
func NewStore(bus eventbus.EventBus) *Store {
	return &Store{
		bus:  bus,
		keys: make(map[domain.FileKey]struct{}),
	}
}

// AddFiles appends each candidate whose (name, size) key is not already
// present, preserving the order candidates were presented. Duplicates are
// silently skipped; first-seen wins. Candidates without an ID are assigned
// one, so removal can distinguish two handles that coincide on the key.
// Returns the accepted entries.
func (s *Store) AddFiles(candidates []domain.SelectedFile) []domain.SelectedFile {
	var accepted []domain.SelectedFile
	skipped := 0

	for _, c := range candidates {
		key := c.Key()
		if _, exists := s.keys[key]; exists {
			skipped++
			continue
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		s.keys[key] = struct{}{}
		s.files = append(s.files, c)
		accepted = append(accepted, c)
	}

	if len(accepted) > 0 || skipped > 0 {
		s.publish(eventbus.FilesAddedEvent{Files: accepted, Skipped: skipped})
	}

	return accepted
}

// Remove removes the entry with the given ID. Removal keys off the per-pick
// identity rather than the (name, size) pair, so two distinct handles that
// coincide on both fields never delete each other. Returns false if no
// entry has that ID.
func (s *Store) Remove(id string) bool {
	for i, f := range s.files {
		if f.ID != id {
			continue
		}
		s.files = append(s.files[:i], s.files[i+1:]...)
		delete(s.keys, f.Key())
		s.publish(eventbus.FileRemovedEvent{File: f})
		return true
	}
	return false
}

// Clear empties the selection. Called after a successful submission and
// nowhere else.
func (s *Store) Clear() {
	n := len(s.files)
	s.files = nil
	s.keys = make(map[domain.FileKey]struct{})
	s.publish(eventbus.SelectionClearedEvent{Removed: n})
}

// Snapshot returns the current ordered selection as a copy; mutating the
// returned slice does not affect the store.
func (s *Store) Snapshot() []domain.SelectedFile {
	out := make([]domain.SelectedFile, len(s.files))
	copy(out, s.files)
	return out
}

// Contains reports whether an entry with the given dedup key is present
func (s *Store) Contains(name string, size int64) bool {
	_, ok := s.keys[domain.FileKey{Name: name, Size: size}]
	return ok
}

// Len returns the number of staged files
func (s *Store) Len() int {
	return len(s.files)
}

// TotalSize returns the combined size of all staged files in bytes
func (s *Store) TotalSize() int64 {
	var total int64
	for _, f := range s.files {
		total += f.Size
	}
	return total
}

func (s *Store) publish(e eventbus.DomainEvent) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

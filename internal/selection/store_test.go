package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dropstage/internal/domain"
)

func file(name string, size int64) domain.SelectedFile {
	return domain.SelectedFile{Name: name, Size: size, Path: "/tmp/" + name}
}

func TestAddFilesDeduplicates(t *testing.T) {
	s := NewStore(nil)

	accepted := s.AddFiles([]domain.SelectedFile{
		file("a.txt", 10),
		file("b.txt", 20),
		file("a.txt", 10), // duplicate within one call
	})

	require.Len(t, accepted, 2)
	require.Equal(t, 2, s.Len())

	// Same key again, picked independently
	accepted = s.AddFiles([]domain.SelectedFile{file("a.txt", 10)})
	assert.Empty(t, accepted)
	assert.Equal(t, 2, s.Len())

	// Same name, different size is a different logical file
	accepted = s.AddFiles([]domain.SelectedFile{file("a.txt", 11)})
	assert.Len(t, accepted, 1)
	assert.Equal(t, 3, s.Len())
}

func TestAddFilesPreservesFirstSeenOrder(t *testing.T) {
	s := NewStore(nil)

	s.AddFiles([]domain.SelectedFile{file("c.txt", 3), file("a.txt", 1)})
	s.AddFiles([]domain.SelectedFile{file("a.txt", 1), file("b.txt", 2)})

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "c.txt", snap[0].Name)
	assert.Equal(t, "a.txt", snap[1].Name)
	assert.Equal(t, "b.txt", snap[2].Name)
}

func TestAddFilesEmptyIsNoOp(t *testing.T) {
	s := NewStore(nil)
	s.AddFiles([]domain.SelectedFile{file("a.txt", 1)})

	accepted := s.AddFiles(nil)
	assert.Empty(t, accepted)
	assert.Equal(t, 1, s.Len())
}

func TestAddFilesAssignsIDs(t *testing.T) {
	s := NewStore(nil)

	accepted := s.AddFiles([]domain.SelectedFile{file("a.txt", 1), file("b.txt", 2)})
	require.Len(t, accepted, 2)
	assert.NotEmpty(t, accepted[0].ID)
	assert.NotEmpty(t, accepted[1].ID)
	assert.NotEqual(t, accepted[0].ID, accepted[1].ID)
}

func TestRemoveByIdentity(t *testing.T) {
	s := NewStore(nil)
	accepted := s.AddFiles([]domain.SelectedFile{file("a.txt", 1), file("b.txt", 2)})
	require.Len(t, accepted, 2)

	require.True(t, s.Remove(accepted[0].ID))
	assert.Equal(t, 1, s.Len())
	assert.False(t, s.Contains("a.txt", 1))
	assert.True(t, s.Contains("b.txt", 2))

	// Unknown ID is a no-op
	assert.False(t, s.Remove("nope"))
	assert.Equal(t, 1, s.Len())
}

func TestRemoveClearsDedupKey(t *testing.T) {
	s := NewStore(nil)
	accepted := s.AddFiles([]domain.SelectedFile{file("a.txt", 1)})
	require.Len(t, accepted, 1)

	require.True(t, s.Remove(accepted[0].ID))

	// A distinct handle with the same (name, size) can be re-added
	readded := s.AddFiles([]domain.SelectedFile{file("a.txt", 1)})
	require.Len(t, readded, 1)
	assert.NotEqual(t, accepted[0].ID, readded[0].ID)
	assert.Equal(t, 1, s.Len())
}

func TestClear(t *testing.T) {
	s := NewStore(nil)
	s.AddFiles([]domain.SelectedFile{file("a.txt", 1), file("b.txt", 2)})

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Snapshot())

	// Keys are gone too
	accepted := s.AddFiles([]domain.SelectedFile{file("a.txt", 1)})
	assert.Len(t, accepted, 1)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore(nil)
	s.AddFiles([]domain.SelectedFile{file("a.txt", 1), file("b.txt", 2)})

	snap := s.Snapshot()
	snap[0].Name = "mutated"

	assert.Equal(t, "a.txt", s.Snapshot()[0].Name)
}

func TestTotalSize(t *testing.T) {
	s := NewStore(nil)
	s.AddFiles([]domain.SelectedFile{file("a.txt", 10), file("b.txt", 32)})
	assert.Equal(t, int64(42), s.TotalSize())
}

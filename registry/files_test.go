package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"sharebox/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "files_metadata.json"))
}

func sampleFile(size int64) *model.StoredFile {
	return &model.StoredFile{
		Size:         size,
		UploadDate:   time.Now(),
		MD5:          "d41d8cd98f00b204e9800998ecf8427e",
		FolderPath:   "docs",
		OriginalName: "report.pdf",
	}
}

func TestFileStorePutGetDelete(t *testing.T) {
	s := newFileStore(t)

	s.Put("docs/report.pdf", sampleFile(42))

	got, ok := s.Get("docs/report.pdf")
	require.True(t, ok)
	assert.Equal(t, int64(42), got.Size)

	assert.True(t, s.Delete("docs/report.pdf"))
	assert.False(t, s.Delete("docs/report.pdf"))

	_, ok = s.Get("docs/report.pdf")
	assert.False(t, ok)
}

func TestFileStoreIncrementDownloads(t *testing.T) {
	s := newFileStore(t)
	s.Put("a.txt", sampleFile(1))

	n, ok := s.IncrementDownloads("a.txt")
	require.True(t, ok)
	assert.Equal(t, int64(1), n)

	n, _ = s.IncrementDownloads("a.txt")
	assert.Equal(t, int64(2), n)

	_, ok = s.IncrementDownloads("missing")
	assert.False(t, ok)
}

func TestFileStoreTotals(t *testing.T) {
	s := newFileStore(t)
	s.Put("a.txt", sampleFile(100))
	s.Put("b.txt", sampleFile(50))
	s.IncrementDownloads("a.txt")

	files, size, downloads := s.Totals()
	assert.Equal(t, 2, files)
	assert.Equal(t, int64(150), size)
	assert.Equal(t, int64(1), downloads)
}

func TestFileStorePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "files_metadata.json")

	s := NewFileStore(path)
	s.Put("docs/report.pdf", sampleFile(42))

	reloaded := NewFileStore(path)
	got, ok := reloaded.Get("docs/report.pdf")
	require.True(t, ok)
	assert.Equal(t, int64(42), got.Size)
	assert.Equal(t, "report.pdf", got.OriginalName)
}

func TestFileStoreRecoversFromCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "files_metadata.json")
	require.NoError(t, os.WriteFile(path, []byte("{ not json"), 0o644))

	// A mangled document starts the store empty instead of failing
	s := NewFileStore(path)
	assert.Equal(t, 0, s.Len())

	s.Put("a.txt", sampleFile(1))
	assert.Equal(t, 1, NewFileStore(path).Len())
}

func TestFileStoreSnapshotIsCopy(t *testing.T) {
	s := newFileStore(t)
	s.Put("a.txt", sampleFile(1))

	snap := s.Snapshot()
	delete(snap, "a.txt")

	_, ok := s.Get("a.txt")
	assert.True(t, ok)
}

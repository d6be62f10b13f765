package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sharebox/registry"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUploader(t *testing.T) *Uploader {
	t.Helper()
	viper.Set("upload.max_size", int64(1<<20))

	dir := t.TempDir()
	return &Uploader{
		Files:    registry.NewFileStore(filepath.Join(dir, "files_metadata.json")),
		Shares:   registry.NewShareStore(filepath.Join(dir, "share_links.json")),
		Root:     filepath.Join(dir, "uploads"),
		ThumbDir: filepath.Join(dir, "thumbnails"),
	}
}

func TestUploadStoresAndRegisters(t *testing.T) {
	u := newUploader(t)
	body := "hello sharebox"

	res, err := u.Do(strings.NewReader(body), "note.txt", int64(len(body)), UploadOptions{Folder: "docs"})
	require.NoError(t, err)

	assert.Equal(t, "note.txt", res.Filename)
	assert.Equal(t, "docs/note.txt", res.Key)
	assert.Equal(t, int64(len(body)), res.Size)
	assert.NotEmpty(t, res.Token)
	assert.False(t, res.IsImage)

	onDisk, err := os.ReadFile(filepath.Join(u.Root, "docs", "note.txt"))
	require.NoError(t, err)
	assert.Equal(t, body, string(onDisk))

	f, ok := u.Files.Get("docs/note.txt")
	require.True(t, ok)
	assert.Equal(t, "docs", f.FolderPath)
	assert.Equal(t, "note.txt", f.OriginalName)

	// Stored checksum matches an independent recompute
	sum, err := ChecksumFile(filepath.Join(u.Root, "docs", "note.txt"))
	require.NoError(t, err)
	assert.Equal(t, sum, res.MD5)

	_, err = u.Shares.Resolve(res.Token)
	assert.NoError(t, err)
}

func TestUploadDeduplicatesName(t *testing.T) {
	u := newUploader(t)

	first, err := u.Do(strings.NewReader("one"), "report.pdf", 3, UploadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", first.Filename)

	second, err := u.Do(strings.NewReader("two"), "report.pdf", 3, UploadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "report_1.pdf", second.Filename)
	assert.Equal(t, "report.pdf", second.OriginalName)

	third, err := u.Do(strings.NewReader("three"), "report.pdf", 5, UploadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "report_2.pdf", third.Filename)
}

func TestUploadChatNaming(t *testing.T) {
	u := newUploader(t)

	res, err := u.Do(strings.NewReader("x"), "pic.png", 1, UploadOptions{
		Folder:     "chat",
		ViaChat:    true,
		UploadedBy: "alice",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Filename, "chat_"))
	assert.True(t, strings.HasSuffix(res.Filename, "_pic.png"))

	f, ok := u.Files.Get(res.Key)
	require.True(t, ok)
	assert.True(t, f.ChatUpload)
	assert.Equal(t, "alice", f.UploadedBy)
	assert.Equal(t, "pic.png", f.OriginalName)
}

func TestUploadRejectsBadInput(t *testing.T) {
	u := newUploader(t)

	_, err := u.Do(strings.NewReader("x"), "tool.exe", 1, UploadOptions{})
	assert.Error(t, err)

	_, err = u.Do(strings.NewReader("x"), "..", 1, UploadOptions{})
	assert.Error(t, err)

	// Nothing was registered or written
	assert.Equal(t, 0, u.Files.Len())
	assert.Equal(t, 0, u.Shares.Len())
}

func TestUploadSanitizesTraversalName(t *testing.T) {
	u := newUploader(t)

	res, err := u.Do(strings.NewReader("x"), "../../escape.txt", 1, UploadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "escape.txt", res.Filename)

	_, err = os.Stat(filepath.Join(u.Root, "escape.txt"))
	assert.NoError(t, err)
}

func TestUploadAPIFlags(t *testing.T) {
	u := newUploader(t)

	res, err := u.Do(strings.NewReader("x"), "data.xlsx", 1, UploadOptions{
		ViaAPI: true,
		APIKey: "some-key",
	})
	require.NoError(t, err)

	f, ok := u.Files.Get(res.Key)
	require.True(t, ok)
	assert.True(t, f.APIUpload)
	assert.Equal(t, "some-key", f.APIKey)
}

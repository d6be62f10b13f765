package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanRelPath(t *testing.T) {
	cases := map[string]string{
		"":              "",
		".":             "",
		"/":             "",
		"docs":          "docs",
		"/docs/sub":     "docs/sub",
		"docs//sub/":    "docs/sub",
		"a\\b":          "a/b",
		"../etc/passwd": "etc/passwd",
		"a/../b":        "b",
		"  docs  ":      "docs",
	}

	for in, want := range cases {
		assert.Equal(t, want, CleanRelPath(in), "input %q", in)
	}
}

func TestJoinWithinRoot(t *testing.T) {
	root := t.TempDir()

	abs, err := JoinWithinRoot(root, "docs/report.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "docs", "report.pdf"), abs)

	abs, err = JoinWithinRoot(root, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(root), abs)

	// Traversal collapses inside the root rather than escaping
	abs, err = JoinWithinRoot(root, "../..")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(root), abs)

	_, err = JoinWithinRoot(root, "a\x00b")
	assert.ErrorIs(t, err, ErrPathEscape)
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"report.pdf":          "report.pdf",
		"../../etc/passwd":    "passwd",
		"dir/nested/name.txt": "name.txt",
		"with space.txt":      "with_space.txt",
		"..":                  "",
		".hidden":             "hidden",
		"C:\\Users\\x\\a.doc": "a.doc",
	}

	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()

	target, name := UniquePath(dir, "report.pdf")
	assert.Equal(t, "report.pdf", name)
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	target, name = UniquePath(dir, "report.pdf")
	assert.Equal(t, "report_1.pdf", name)
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	_, name = UniquePath(dir, "report.pdf")
	assert.Equal(t, "report_2.pdf", name)
}

func TestFileKey(t *testing.T) {
	assert.Equal(t, "a.txt", FileKey("", "a.txt"))
	assert.Equal(t, "a.txt", FileKey("/", "a.txt"))
	assert.Equal(t, "docs/a.txt", FileKey("docs", "a.txt"))
	assert.Equal(t, "docs/sub/a.txt", FileKey("/docs/sub/", "a.txt"))
}

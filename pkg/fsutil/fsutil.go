// Package fsutil keeps every piece of client-supplied path handling in
// one place. All entry points that accept a path must go through here.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var ErrPathEscape = errors.New("path escapes storage root")

// CleanRelPath normalizes a user path like "", ".", "/a/b" or "a\\b" into
// a slash-based relative path with no leading slash. "" means the root.
func CleanRelPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "." || p == "/" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)
	p = strings.TrimPrefix(p, "/")
	if p == "." {
		return ""
	}
	return p
}

// JoinWithinRoot resolves rel against rootAbs and rejects anything that
// would land outside the root, including ".." tricks and NUL bytes.
func JoinWithinRoot(rootAbs, rel string) (string, error) {
	rel = CleanRelPath(rel)
	if strings.Contains(rel, "\x00") {
		return "", ErrPathEscape
	}
	if rel == "" {
		return filepath.Clean(rootAbs), nil
	}

	abs := filepath.Clean(filepath.Join(rootAbs, filepath.FromSlash(rel)))
	root := filepath.Clean(rootAbs)

	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", ErrPathEscape
	}
	return abs, nil
}

// SanitizeFilename reduces a client filename to a safe basename: path
// separators and parent references are stripped, whitespace collapses
// to underscores. Returns "" if nothing usable remains.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.TrimSpace(name)
	if name == "." || name == ".." {
		return ""
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r == ' ' || r == '\t':
			b.WriteRune('_')
		case r == '/' || r == '\x00':
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "._")
}

// UniquePath appends a numeric suffix before the extension until the
// target no longer exists: name.ext, name_1.ext, name_2.ext, ...
// Returns the absolute path and the final basename.
func UniquePath(dir, filename string) (string, string) {
	target := filepath.Join(dir, filename)
	ext := path.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	for counter := 1; ; counter++ {
		if _, err := os.Stat(target); os.IsNotExist(err) {
			return target, filename
		}
		filename = fmt.Sprintf("%s_%d%s", stem, counter, ext)
		target = filepath.Join(dir, filename)
	}
}

// FileKey builds the forward-slash registry key for a file in a folder.
func FileKey(folder, filename string) string {
	folder = CleanRelPath(folder)
	if folder == "" {
		return filename
	}
	return folder + "/" + filename
}

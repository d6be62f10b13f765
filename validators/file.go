// Package validators checks client input before it reaches a pipeline
package validators

import (
	"errors"
	"path"
	"strings"

	"github.com/spf13/viper"
)

var (
	ErrNoFile              = errors.New("no file provided")
	ErrFileTooLarge        = errors.New("file too large")
	ErrFileNameTooLong     = errors.New("file name is too long")
	ErrFileTypeUnsupported = errors.New("file type not allowed")
)

// Takes into account the thumb_ prefix and .jpg suffix of thumbnails
const maxFileNameLen = 240

// Textual, archive, office and common image formats.
var allowedExtensions = map[string]bool{
	"txt":  true,
	"pdf":  true,
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"zip":  true,
	"doc":  true,
	"docx": true,
	"xls":  true,
	"xlsx": true,
}

var imageExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"bmp":  true,
	"webp": true,
}

// ValidateUpload runs the checks shared by every upload variant:
// non-empty name, allowed extension, name length and size cap. The
// transport layer rejects oversized bodies earlier, this is the
// backstop for the base64 path where Content-Length lies.
func ValidateUpload(filename string, size int64) error {
	if strings.TrimSpace(filename) == "" {
		return ErrNoFile
	}

	if len(filename) > maxFileNameLen {
		return ErrFileNameTooLong
	}

	if !AllowedFile(filename) {
		return ErrFileTypeUnsupported
	}

	if size > viper.GetInt64("upload.max_size") {
		return ErrFileTooLarge
	}

	return nil
}

// AllowedFile reports whether filename carries an allowed extension.
func AllowedFile(filename string) bool {
	return allowedExtensions[extOf(filename)]
}

// IsImage reports whether filename looks like an image we can thumbnail.
func IsImage(filename string) bool {
	return imageExtensions[extOf(filename)]
}

func extOf(filename string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
}

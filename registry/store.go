// Package registry implements the four persistent stores backing the
// service: file metadata, share links, API keys and user credentials.
// Each store owns one flat JSON document that is reloaded at startup
// and rewritten in full on every mutation. Last write wins, there is no
// incremental format and no schema versioning.
package registry

import (
	"encoding/json"
	"errors"
	"os"

	"go.uber.org/zap"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrExpired       = errors.New("share link expired")
	ErrQuotaExceeded = errors.New("download limit reached")
	ErrAlreadyExists = errors.New("already exists")
)

// loadDocument fills dst from the JSON document at path. A missing or
// unreadable document leaves dst untouched so the store starts empty.
func loadDocument(path string, dst any) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			zap.L().Warn("Failed to read registry document, starting empty",
				zap.String("path", path), zap.Error(err))
		}
		return
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		zap.L().Warn("Failed to parse registry document, starting empty",
			zap.String("path", path), zap.Error(err))
	}
}

// saveDocument rewrites the whole document. Write failures are logged
// and swallowed: a failed save is indistinguishable from success to the
// caller. Known weakness, kept deliberately.
func saveDocument(path string, src any) {
	raw, err := json.MarshalIndent(src, "", "  ")
	if err != nil {
		zap.L().Warn("Failed to encode registry document", zap.String("path", path), zap.Error(err))
		return
	}

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		zap.L().Warn("Failed to write registry document", zap.String("path", path), zap.Error(err))
	}
}

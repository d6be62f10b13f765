package model

import "time"

// ShareLink grants time- and optionally count-bounded access to one file.
// The registry key is the unguessable URL-safe token.
type ShareLink struct {
	Filename      string    `json:"filename"`
	FolderPath    string    `json:"folder_path"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	DownloadCount int64     `json:"download_count"`

	// nil means unlimited
	MaxDownloads *int64 `json:"max_downloads"`
}

// Key returns the file registry key the link points at.
func (l *ShareLink) Key() string {
	if l.FolderPath == "" {
		return l.Filename
	}
	return l.FolderPath + "/" + l.Filename
}

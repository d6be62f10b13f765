package model

import "time"

// StoredFile is keyed by the folder-relative, forward-slash path of the
// file under the storage root.
type StoredFile struct {
	Size       int64     `json:"size"`
	UploadDate time.Time `json:"upload_date"`
	Downloads  int64     `json:"downloads"`

	// Hex MD5 of the bytes at upload time. Never recomputed afterwards,
	// treat it as an integrity check rather than a security control.
	MD5 string `json:"md5"`

	FolderPath   string `json:"folder_path"`
	OriginalName string `json:"original_name"`

	APIUpload  bool   `json:"api_upload,omitempty"`
	APIKey     string `json:"api_key,omitempty"`
	ChatUpload bool   `json:"chat_upload,omitempty"`
	UploadedBy string `json:"uploaded_by,omitempty"`
}

package model

import "time"

const (
	ChatText  = "text"
	ChatImage = "image"
	ChatFile  = "file"
)

type ChatMessage struct {
	ID        int64         `json:"id"`
	Username  string        `json:"username"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Type      string        `json:"type"`
	FileData  *ChatFileData `json:"file_data,omitempty"`
}

// ChatFileData summarizes a file attached to a chat message.
type ChatFileData struct {
	Filename     string  `json:"filename"`
	OriginalName string  `json:"original_name"`
	FolderPath   string  `json:"folder_path"`
	SizeMB       float64 `json:"size"`
	MD5          string  `json:"md5"`
	ShareLink    string  `json:"share_link"`
}

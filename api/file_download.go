package api

import (
	"net/http"
	"os"
	"path"
	"strings"

	"sharebox/pkg/fsutil"
	"sharebox/ws"

	"github.com/gin-gonic/gin"
)

// FileDownload is the owner-path attachment download: session holders
// resolve directly by registry key, no token involved. Counter and
// announce side effects match the token-based attachment.
func (a *API) FileDownload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	key := strings.TrimPrefix(c.Param("filepath"), "/")
	key = strings.ReplaceAll(key, "\\", "/")

	meta, ok := a.Files.Get(key)
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "File not found",
			"requestID": requestID,
		})
		return
	}

	abs, err := fsutil.JoinWithinRoot(a.root, key)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid path",
			"requestID": requestID,
		})
		return
	}

	if _, err := os.Stat(abs); err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "File not found",
			"requestID": requestID,
		})
		return
	}

	filename := path.Base(key)

	downloads, _ := a.Files.IncrementDownloads(key)
	a.Hub.Broadcast(ws.EvFileDownloaded, map[string]any{
		"filename":    filename,
		"folder_path": meta.FolderPath,
		"downloads":   downloads,
	})

	c.FileAttachment(abs, filename)
}

package api

import (
	"net/http"
	"os"
	"path"
	"strings"

	"sharebox/pkg/fsutil"
	"sharebox/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FileDelete removes the bytes, the registry entry and every share link
// pointing at the file. There is no rollback: a failure partway through
// can leave the stores inconsistent, which is accepted.
func (a *API) FileDelete(c *gin.Context) {
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

	// Already-absent bytes are fine, the registry entry still goes
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to remove file from disk", zap.String("key", key), zap.Error(err))
		return
	}

	filename := path.Base(key)

	a.Files.Delete(key)
	removed := a.Shares.DeleteFor(filename, meta.FolderPath)

	a.Hub.Broadcast(ws.EvFileDeleted, map[string]any{
		"filename":    filename,
		"folder_path": meta.FolderPath,
	})

	zap.L().Debug("File deleted",
		zap.String("key", key),
		zap.Int("share_links_removed", removed))

	c.JSON(http.StatusOK, gin.H{
		"message": "File deleted successfully",
	})
}

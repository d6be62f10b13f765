package api

import (
	"errors"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"sharebox/model"
	"sharebox/pkg/fsutil"
	"sharebox/registry"
	"sharebox/ws"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

// ShareDownload streams a file as an attachment through a share token,
// enforcing expiry and the download cap and counting the download.
func (a *API) ShareDownload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	token := c.Param("token")

	link, err := a.Shares.Resolve(token)
	if err != nil {
		a.abortShareErr(c, requestID, err)
		return
	}

	abs, ok := a.linkTarget(c, requestID, &link)
	if !ok {
		return
	}

	// The quota burns only once the bytes are known to exist
	link, err = a.Shares.Consume(token)
	if err != nil {
		a.abortShareErr(c, requestID, err)
		return
	}

	downloads, _ := a.Files.IncrementDownloads(link.Key())
	a.Hub.Broadcast(ws.EvFileDownloaded, map[string]any{
		"filename":    link.Filename,
		"folder_path": link.FolderPath,
		"downloads":   downloads,
	})

	c.FileAttachment(abs, link.Filename)
}

// FileDirect serves raw bytes through a token, S3-object style. Only
// expiry is enforced: direct access has no counter side effects.
func (a *API) FileDirect(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	link, err := a.Shares.Resolve(c.Param("token"))
	if err != nil {
		a.abortShareErr(c, requestID, err)
		return
	}

	abs, ok := a.linkTarget(c, requestID, &link)
	if !ok {
		return
	}

	c.Header("Content-Type", contentTypeFor(abs, link.Filename))
	c.File(abs)
}

// FilePreview is FileDirect with a forced inline disposition so
// browsers render instead of download.
func (a *API) FilePreview(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	link, err := a.Shares.Resolve(c.Param("token"))
	if err != nil {
		a.abortShareErr(c, requestID, err)
		return
	}

	abs, ok := a.linkTarget(c, requestID, &link)
	if !ok {
		return
	}

	c.Header("Content-Type", contentTypeFor(abs, link.Filename))
	c.Header("Content-Disposition", "inline")
	c.File(abs)
}

// Thumbnail serves derived thumbnails keyed purely by name. No expiry
// or ownership checks: thumbnails are non-sensitive derived data.
func (a *API) Thumbnail(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	name := fsutil.SanitizeFilename(c.Param("name"))
	if name == "" {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "Thumbnail not found",
			"requestID": requestID,
		})
		return
	}

	abs := filepath.Join(a.thumbDir, name)
	if _, err := os.Stat(abs); err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "Thumbnail not found",
			"requestID": requestID,
		})
		return
	}

	c.Header("Content-Type", "image/jpeg")
	c.File(abs)
}

func (a *API) abortShareErr(c *gin.Context, requestID string, err error) {
	switch {
	case errors.Is(err, registry.ErrExpired):
		c.AbortWithStatusJSON(http.StatusGone, gin.H{
			"error":     "Share link has expired",
			"requestID": requestID,
		})
	case errors.Is(err, registry.ErrQuotaExceeded):
		c.AbortWithStatusJSON(http.StatusGone, gin.H{
			"error":     "Download limit reached",
			"requestID": requestID,
		})
	default:
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "Invalid or expired share link",
			"requestID": requestID,
		})
	}
}

// linkTarget resolves a link to an on-disk path, writing the 404
// itself when the bytes are gone (swept files with surviving links).
func (a *API) linkTarget(c *gin.Context, requestID string, link *model.ShareLink) (string, bool) {
	abs, err := fsutil.JoinWithinRoot(a.root, link.Key())
	if err == nil {
		if _, statErr := os.Stat(abs); statErr == nil {
			return abs, true
		}
	}

	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
		"error":     "File not found",
		"requestID": requestID,
	})
	return "", false
}

// contentTypeFor guesses by extension first and falls back to content
// sniffing for extensionless or unknown files.
func contentTypeFor(abs, filename string) string {
	if t := mime.TypeByExtension(path.Ext(filename)); t != "" {
		return t
	}

	if m, err := mimetype.DetectFile(abs); err == nil {
		return m.String()
	}
	return "application/octet-stream"
}

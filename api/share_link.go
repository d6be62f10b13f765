package api

import (
	"net/http"
	"path"
	"strings"

	"sharebox/registry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type shareLinkBody struct {
	ExpiresInDays int    `json:"expires_in_days"`
	MaxDownloads  *int64 `json:"max_downloads"`
}

// GenerateShareLink mints a link with custom expiry and an optional
// download cap for an already-registered file.
func (a *API) GenerateShareLink(c *gin.Context) {
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

	data := shareLinkBody{ExpiresInDays: registry.DefaultExpiryDays}
	if err := c.ShouldBindJSON(&data); err != nil && c.Request.ContentLength > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}
	if data.ExpiresInDays <= 0 {
		data.ExpiresInDays = registry.DefaultExpiryDays
	}

	token, err := a.Shares.Mint(path.Base(key), meta.FolderPath, data.ExpiresInDays, data.MaxDownloads)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to mint share link", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	link, _ := a.Shares.Get(token)
	c.JSON(http.StatusOK, gin.H{
		"share_link":    "/share/" + token,
		"expires_at":    link.ExpiresAt,
		"max_downloads": data.MaxDownloads,
	})
}

package api

import (
	"net/http"
	"os"
	"strings"

	"sharebox/pkg/fsutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createFolderBody struct {
	FolderPath string `json:"folder_path"`
}

func (a *API) CreateFolder(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data createFolderBody
	if err := c.ShouldBindJSON(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	folder := strings.TrimSpace(data.FolderPath)
	if folder == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Folder path is required",
			"requestID": requestID,
		})
		return
	}

	if strings.Contains(folder, "..") || strings.HasPrefix(folder, "/") {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid folder path",
			"requestID": requestID,
		})
		return
	}

	abs, err := fsutil.JoinWithinRoot(a.root, folder)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid folder path",
			"requestID": requestID,
		})
		return
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to create folder",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create folder", zap.String("folder", folder), zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Folder \"" + folder + "\" created successfully",
		"folder_path": fsutil.CleanRelPath(folder),
	})
}

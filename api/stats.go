package api

import (
	"net/http"

	"sharebox/pkg/util"

	"github.com/gin-gonic/gin"
)

func (a *API) Stats(c *gin.Context) {
	files, size, downloads := a.Files.Totals()

	c.JSON(http.StatusOK, gin.H{
		"total_files":     files,
		"total_size_mb":   util.SizeMB(size),
		"total_downloads": downloads,
	})
}

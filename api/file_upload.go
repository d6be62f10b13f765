package api

import (
	"errors"
	"net/http"

	"sharebox/pkg/util"
	"sharebox/service"
	"sharebox/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FileUpload is the interactive multipart entry into the upload
// pipeline.
func (a *API) FileUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	username := c.MustGet("username").(string)

	fh, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No file selected",
			"requestID": requestID,
		})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to open multipart file", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	defer f.Close()

	res, err := a.Uploader.Do(f, fh.Filename, fh.Size, service.UploadOptions{
		Folder:     c.PostForm("folder_path"),
		UploadedBy: username,
		Thumbnail:  true,
		Announce:   true,
	})
	if err != nil {
		a.abortUploadErr(c, requestID, err)
		return
	}

	resp := gin.H{
		"message":     "File uploaded successfully",
		"filename":    res.Filename,
		"folder_path": res.Folder,
		"size":        util.SizeMB(res.Size),
		"md5":         res.MD5,
		"share_link":  "/share/" + res.Token,
		"direct_url":  "/file/" + res.Token,
	}
	if res.IsImage {
		resp["preview_url"] = "/preview/" + res.Token
	}
	if res.Thumbnail != "" {
		resp["thumbnail_url"] = "/thumbnail/" + res.Thumbnail
	}

	c.JSON(http.StatusOK, resp)
}

// abortUploadErr maps pipeline failures onto the response taxonomy:
// validation problems are the client's fault, everything else is a
// generic 500.
func (a *API) abortUploadErr(c *gin.Context, requestID string, err error) {
	switch {
	case errors.Is(err, validators.ErrNoFile),
		errors.Is(err, validators.ErrFileTypeUnsupported),
		errors.Is(err, validators.ErrFileNameTooLong):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
	case errors.Is(err, validators.ErrFileTooLarge):
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Upload failed", zap.Error(err), zap.String("requestID", requestID))
	}
}

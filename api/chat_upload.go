package api

import (
	"net/http"

	"sharebox/model"
	"sharebox/pkg/util"
	"sharebox/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatUpload stores a file shared from the chat and broadcasts it as a
// message. Chat uploads land in a fixed folder with a timestamp prefix
// instead of the usual suffix dedup.
func (a *API) ChatUpload(c *gin.Context) {
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

	folder := c.DefaultPostForm("folder_path", "chat")

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
		Folder:     folder,
		ViaChat:    true,
		UploadedBy: username,
	})
	if err != nil {
		a.abortUploadErr(c, requestID, err)
		return
	}

	kind := model.ChatFile
	if res.IsImage {
		kind = model.ChatImage
	}

	msg := a.Hub.PostFileMessage(model.ChatMessage{
		Username: username,
		Message:  "shared a " + kind,
		Type:     kind,
		FileData: &model.ChatFileData{
			Filename:     res.Filename,
			OriginalName: res.OriginalName,
			FolderPath:   res.Folder,
			SizeMB:       util.SizeMB(res.Size),
			MD5:          res.MD5,
			ShareLink:    "/share/" + res.Token,
		},
	})

	c.JSON(http.StatusOK, gin.H{
		"message":       "File uploaded successfully",
		"filename":      res.Filename,
		"original_name": res.OriginalName,
		"folder_path":   res.Folder,
		"size":          util.SizeMB(res.Size),
		"type":          msg.Type,
		"share_link":    "/share/" + res.Token,
	})
}

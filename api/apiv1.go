package api

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"os"
	"path"
	"sort"
	"strings"

	"sharebox/pkg/fsutil"
	"sharebox/pkg/util"
	"sharebox/service"
	"sharebox/validators"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// V1Upload is the key-gated multipart variant of the upload pipeline.
func (a *API) V1Upload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	apiKey := c.MustGet("apiKey").(string)

	fh, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	generatePreview := strings.ToLower(c.DefaultPostForm("generate_preview", "true")) == "true"
	notify := strings.ToLower(c.DefaultPostForm("notify", "false")) == "true"

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
		Folder:    c.PostForm("folder_path"),
		ViaAPI:    true,
		APIKey:    apiKey,
		Thumbnail: generatePreview,
		Announce:  notify,
	})
	if err != nil {
		a.abortUploadErr(c, requestID, err)
		return
	}

	a.Keys.Touch(apiKey)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "File uploaded successfully",
		"data":    v1UploadData(res),
	})
}

type base64UploadBody struct {
	APIKey     string `json:"api_key"`
	FileData   string `json:"file_data"`
	Filename   string `json:"filename"`
	FolderPath string `json:"folder_path"`
}

// V1UploadBase64 accepts the file as base64 inside a JSON document. The
// API key may live in the body, so the key check happens here instead
// of in middleware.
func (a *API) V1UploadBase64(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data base64UploadBody
	if err := c.ShouldBindJSON(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No JSON data provided",
			"requestID": requestID,
		})
		return
	}

	apiKey := c.GetHeader("X-API-Key")
	if apiKey == "" {
		apiKey = data.APIKey
	}
	if apiKey == "" || !a.Keys.Verify(apiKey) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     "Invalid or missing API key",
			"requestID": requestID,
		})
		return
	}

	if data.FileData == "" || data.Filename == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "file_data and filename are required",
			"requestID": requestID,
		})
		return
	}

	raw, err := base64.StdEncoding.DecodeString(data.FileData)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid base64 data",
			"requestID": requestID,
		})
		return
	}

	res, err := a.Uploader.Do(bytes.NewReader(raw), data.Filename, int64(len(raw)), service.UploadOptions{
		Folder:    data.FolderPath,
		ViaAPI:    true,
		APIKey:    apiKey,
		Thumbnail: true,
	})
	if err != nil {
		a.abortUploadErr(c, requestID, err)
		return
	}

	a.Keys.Touch(apiKey)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "File uploaded successfully",
		"data":    v1UploadData(res),
	})
}

func v1UploadData(res *service.UploadResult) gin.H {
	urls := gin.H{
		"download": "/share/" + res.Token,
		"direct":   "/file/" + res.Token,
	}
	if res.IsImage {
		urls["preview"] = "/preview/" + res.Token
	}
	if res.Thumbnail != "" {
		urls["thumbnail"] = "/thumbnail/" + res.Thumbnail
	}

	return gin.H{
		"filename":      res.Filename,
		"original_name": res.OriginalName,
		"folder_path":   res.Folder,
		"size_mb":       util.SizeMB(res.Size),
		"size_bytes":    res.Size,
		"md5":           res.MD5,
		"upload_date":   res.UploadDate,
		"urls":          urls,
		"share_token":   res.Token,
		"mime_type":     guessMime(res.Filename),
	}
}

type keyRequestBody struct {
	Name string `json:"name"`
}

// V1GenerateKey issues a new API key. Gated by the fixed shared admin
// secret, a deliberately weak scheme that is configurable but not
// strengthened here.
func (a *API) V1GenerateKey(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	if c.GetHeader("X-Admin-Key") != viper.GetString("api.admin_key") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     "Unauthorized",
			"requestID": requestID,
		})
		return
	}

	var data keyRequestBody
	c.ShouldBindJSON(&data)

	name := data.Name
	if name == "" {
		name = "API Key " + util.RandStr(6)
	}

	key, rec, err := a.Keys.Issue(name)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to issue API key", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// The cleartext key is returned exactly once
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"api_key":    key,
		"name":       rec.Name,
		"created_at": rec.CreatedAt,
	})
}

type v1FileInfo struct {
	Filename     string            `json:"filename"`
	OriginalName string            `json:"original_name"`
	FolderPath   string            `json:"folder_path"`
	SizeMB       float64           `json:"size_mb"`
	SizeBytes    int64             `json:"size_bytes"`
	UploadDate   string            `json:"upload_date"`
	Downloads    int64             `json:"downloads"`
	MD5          string            `json:"md5"`
	MimeType     string            `json:"mime_type"`
	URLs         map[string]string `json:"urls,omitempty"`
}

// V1Files returns a flat, newest-first metadata listing for
// integrations. Unlike the interactive listing it never mints links.
func (a *API) V1Files(c *gin.Context) {
	folderFilter := strings.TrimSpace(c.Query("folder_path"))

	files := []v1FileInfo{}
	for key, meta := range a.Files.Snapshot() {
		if folderFilter != "" && !strings.HasPrefix(key, folderFilter) {
			continue
		}

		abs, err := fsutil.JoinWithinRoot(a.root, key)
		if err != nil {
			continue
		}
		if _, err := os.Stat(abs); err != nil {
			continue
		}

		filename := path.Base(key)
		info := v1FileInfo{
			Filename:     filename,
			OriginalName: meta.OriginalName,
			FolderPath:   meta.FolderPath,
			SizeMB:       util.SizeMB(meta.Size),
			SizeBytes:    meta.Size,
			UploadDate:   meta.UploadDate.Format("2006-01-02T15:04:05.000000"),
			Downloads:    meta.Downloads,
			MD5:          meta.MD5,
			MimeType:     guessMime(filename),
		}

		if token, ok := a.Shares.Find(filename, meta.FolderPath); ok {
			info.URLs = map[string]string{
				"download": "/share/" + token,
				"direct":   "/file/" + token,
			}
			if validators.IsImage(filename) {
				info.URLs["preview"] = "/preview/" + token
			}
		}

		files = append(files, info)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].UploadDate > files[j].UploadDate
	})

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"files":       files,
		"total_files": len(files),
	})
}

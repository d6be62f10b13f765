package api

import (
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"sharebox/pkg/util"
	"sharebox/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type treeNode struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Path string `json:"path"`

	// folder nodes
	Children []*treeNode `json:"children,omitzero"`

	// file nodes
	SizeMB     float64    `json:"size,omitempty"`
	UploadDate *time.Time `json:"upload_date,omitempty"`
	Downloads  int64      `json:"downloads"`
	MD5        string     `json:"md5,omitempty"`
	FolderPath string     `json:"folder_path"`
	MimeType   string     `json:"mime_type,omitempty"`
	ShareToken string     `json:"share_token,omitempty"`

	URLs map[string]string `json:"urls,omitempty"`
}

// FilesList walks the storage tree and returns nested folder/file
// nodes. Files without a share link get one minted as a side effect, so
// every listed file is immediately shareable.
func (a *API) FilesList(c *gin.Context) {
	c.JSON(http.StatusOK, a.scanDir(a.root, ""))
}

func (a *API) scanDir(dir, rel string) []*treeNode {
	nodes := []*treeNode{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			zap.L().Warn("Failed to scan storage folder", zap.String("dir", dir), zap.Error(err))
		}
		return nodes
	}

	for _, entry := range entries {
		itemRel := entry.Name()
		if rel != "" {
			itemRel = rel + "/" + entry.Name()
		}

		if entry.IsDir() {
			nodes = append(nodes, &treeNode{
				Name:     entry.Name(),
				Type:     "folder",
				Path:     itemRel,
				Children: a.scanDir(filepath.Join(dir, entry.Name()), itemRel),
			})
			continue
		}

		// Only files the registry knows about are listed
		meta, ok := a.Files.Get(itemRel)
		if !ok {
			continue
		}

		token, err := a.Shares.Ensure(entry.Name(), meta.FolderPath)
		if err != nil {
			zap.L().Warn("Failed to mint share link during listing", zap.String("key", itemRel), zap.Error(err))
		}

		uploadDate := meta.UploadDate
		node := &treeNode{
			Name:       entry.Name(),
			Type:       "file",
			Path:       itemRel,
			SizeMB:     util.SizeMB(meta.Size),
			UploadDate: &uploadDate,
			Downloads:  meta.Downloads,
			MD5:        meta.MD5,
			FolderPath: rel,
			MimeType:   guessMime(entry.Name()),
			ShareToken: token,
		}

		if token != "" {
			node.URLs = map[string]string{
				"direct":   "/file/" + token,
				"preview":  "/preview/" + token,
				"download": "/share/" + token,
			}

			if validators.IsImage(entry.Name()) {
				thumb := "thumb_" + entry.Name() + ".jpg"
				if _, err := os.Stat(filepath.Join(a.thumbDir, thumb)); err == nil {
					node.URLs["thumbnail"] = "/thumbnail/" + thumb
				}
			}
		}

		nodes = append(nodes, node)
	}

	return nodes
}

func guessMime(filename string) string {
	if t := mime.TypeByExtension(path.Ext(filename)); t != "" {
		return t
	}
	return "application/octet-stream"
}

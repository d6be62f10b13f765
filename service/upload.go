// Package service contains the upload pipeline and the background
// maintenance tasks of the application
package service

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"sharebox/model"
	"sharebox/pkg/fsutil"
	"sharebox/pkg/util"
	"sharebox/registry"
	"sharebox/validators"
	"sharebox/ws"

	"go.uber.org/zap"
)

// Uploader is the single pipeline behind every upload entry point:
// interactive, API multipart, API base64 and chat attachments. All of
// them validate, store, checksum, register, mint and announce the same
// way; only naming and bookkeeping flags differ.
type Uploader struct {
	Files    *registry.FileStore
	Shares   *registry.ShareStore
	Hub      *ws.Hub // nil disables announcements
	Root     string
	ThumbDir string
}

type UploadOptions struct {
	Folder string

	// Chat uploads get a chat_<millis>_ name prefix instead of the
	// numeric-suffix dedup the other variants use.
	ViaChat    bool
	UploadedBy string

	ViaAPI bool
	APIKey string

	// Thumbnail derivation is attempted only for image extensions and
	// only when asked for; a failed attempt never fails the upload.
	Thumbnail bool

	Announce bool
}

type UploadResult struct {
	Filename     string
	OriginalName string
	Key          string
	Folder       string
	Size         int64
	MD5          string
	Token        string
	Thumbnail    string
	UploadDate   time.Time
	IsImage      bool
}

// Do runs the pipeline. A failure before the bytes hit disk has no side
// effects; a failure after leaves an orphaned file with no registry
// entry, which is accepted and not retried.
func (u *Uploader) Do(r io.Reader, filename string, size int64, opts UploadOptions) (*UploadResult, error) {
	original := fsutil.SanitizeFilename(filename)
	if original == "" {
		return nil, validators.ErrNoFile
	}

	if err := validators.ValidateUpload(original, size); err != nil {
		return nil, err
	}

	folder := fsutil.CleanRelPath(opts.Folder)

	dir, err := fsutil.JoinWithinRoot(u.Root, folder)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload folder, %w", err)
	}

	var target, name string
	if opts.ViaChat {
		// Millisecond prefix instead of dedup; collisions within the
		// same millisecond overwrite, matching the chat path's looser
		// guarantees.
		name = fmt.Sprintf("chat_%d_%s", time.Now().UnixMilli(), original)
		target = filepath.Join(dir, name)
	} else {
		target, name = fsutil.UniquePath(dir, original)
	}

	written, sum, err := writeChecksummed(target, r)
	if err != nil {
		os.Remove(target)
		return nil, err
	}

	// Minting before registering keeps the failure mode a lone orphaned
	// file: no registry entry ever points at bytes without a link.
	token, err := u.Shares.Mint(name, folder, registry.DefaultExpiryDays, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to mint share link, %w", err)
	}

	key := fsutil.FileKey(folder, name)
	now := time.Now()

	u.Files.Put(key, &model.StoredFile{
		Size:         written,
		UploadDate:   now,
		MD5:          sum,
		FolderPath:   folder,
		OriginalName: original,
		APIUpload:    opts.ViaAPI,
		APIKey:       opts.APIKey,
		ChatUpload:   opts.ViaChat,
		UploadedBy:   opts.UploadedBy,
	})

	res := &UploadResult{
		Filename:     name,
		OriginalName: original,
		Key:          key,
		Folder:       folder,
		Size:         written,
		MD5:          sum,
		Token:        token,
		UploadDate:   now,
		IsImage:      validators.IsImage(name),
	}

	if opts.Thumbnail && res.IsImage {
		thumb, err := MakeThumbnail(target, name, u.ThumbDir)
		if err != nil {
			zap.L().Warn("Failed to create thumbnail", zap.String("file", name), zap.Error(err))
		} else {
			res.Thumbnail = thumb
		}
	}

	if opts.Announce {
		u.announce(res, opts)
	}

	return res, nil
}

func (u *Uploader) announce(res *UploadResult, opts UploadOptions) {
	if u.Hub == nil {
		return
	}

	payload := map[string]any{
		"filename":    res.Filename,
		"folder_path": res.Folder,
		"size":        util.SizeMB(res.Size),
		"upload_date": res.UploadDate,
		"share_link":  "/share/" + res.Token,
	}

	if opts.ViaAPI {
		payload["api_upload"] = true
	}
	if res.IsImage {
		payload["preview_url"] = "/preview/" + res.Token
	}
	if res.Thumbnail != "" {
		payload["thumbnail_url"] = "/thumbnail/" + res.Thumbnail
	}

	u.Hub.Broadcast(ws.EvFileUploaded, payload)
}

// writeChecksummed streams r into a new file at target, hashing as it
// copies. The stored checksum is always the checksum of the bytes that
// actually landed on disk.
func writeChecksummed(target string, r io.Reader) (int64, string, error) {
	out, err := os.Create(target)
	if err != nil {
		return 0, "", fmt.Errorf("failed to create file, %w", err)
	}
	defer out.Close()

	h := md5.New()
	written, err := io.Copy(io.MultiWriter(out, h), r)
	if err != nil {
		return 0, "", fmt.Errorf("failed to write file, %w", err)
	}

	return written, hex.EncodeToString(h.Sum(nil)), nil
}

// ChecksumFile recomputes the content digest of a stored file.
func ChecksumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

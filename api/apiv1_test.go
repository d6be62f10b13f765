package api

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueKey(t *testing.T, a *API) string {
	t.Helper()

	key, _, err := a.Keys.Issue("test key")
	require.NoError(t, err)
	return key
}

func TestV1UploadRequiresKey(t *testing.T) {
	a := newTestAPI(t)

	buf, contentType := multipartBody(t, "data.txt", "x", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", buf)
	req.Header.Set("Content-Type", contentType)
	rec := perform(a, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	buf, contentType = multipartBody(t, "data.txt", "x", nil)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/upload", buf)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-API-Key", "not-a-real-key")
	rec = perform(a, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decodeJSON(t, rec)
	assert.Equal(t, "Invalid or missing API key", body["error"])
	assert.NotEmpty(t, body["requestID"])
}

func TestV1Upload(t *testing.T) {
	a := newTestAPI(t)
	key := issueKey(t, a)

	buf, contentType := multipartBody(t, "data.txt", "api content", map[string]string{
		"folder_path": "integrations",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", buf)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-API-Key", key)

	rec := perform(a, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeJSON(t, rec)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "data.txt", data["filename"])
	assert.Equal(t, "integrations", data["folder_path"])
	assert.NotEmpty(t, data["share_token"])
	assert.NotEmpty(t, data["md5"])

	urls := data["urls"].(map[string]any)
	assert.Contains(t, urls, "download")
	assert.Contains(t, urls, "direct")

	f, ok := a.Files.Get("integrations/data.txt")
	require.True(t, ok)
	assert.True(t, f.APIUpload)
	assert.Equal(t, key, f.APIKey)
}

func TestV1UploadKeyInForm(t *testing.T) {
	a := newTestAPI(t)
	key := issueKey(t, a)

	buf, contentType := multipartBody(t, "data.txt", "x", map[string]string{
		"api_key": key,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", buf)
	req.Header.Set("Content-Type", contentType)

	rec := perform(a, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestV1UploadBase64(t *testing.T) {
	a := newTestAPI(t)
	key := issueKey(t, a)

	rec := perform(a, jsonRequest(t, http.MethodPost, "/api/v1/upload/base64", gin.H{
		"api_key":     key,
		"filename":    "blob.txt",
		"folder_path": "b64",
		"file_data":   base64.StdEncoding.EncodeToString([]byte("decoded payload")),
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeJSON(t, rec)
	assert.Equal(t, true, body["success"])

	onDisk, err := os.ReadFile(filepath.Join(a.root, "b64", "blob.txt"))
	require.NoError(t, err)
	assert.Equal(t, "decoded payload", string(onDisk))
}

func TestV1UploadBase64KeyCheckedFirst(t *testing.T) {
	a := newTestAPI(t)

	// Bad key loses before missing fields are even looked at
	rec := perform(a, jsonRequest(t, http.MethodPost, "/api/v1/upload/base64", gin.H{
		"api_key": "bogus",
	}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestV1UploadBase64MissingFields(t *testing.T) {
	a := newTestAPI(t)
	key := issueKey(t, a)

	rec := perform(a, jsonRequest(t, http.MethodPost, "/api/v1/upload/base64", gin.H{
		"api_key":  key,
		"filename": "blob.txt",
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestV1UploadBase64BadEncoding(t *testing.T) {
	a := newTestAPI(t)
	key := issueKey(t, a)

	rec := perform(a, jsonRequest(t, http.MethodPost, "/api/v1/upload/base64", gin.H{
		"api_key":   key,
		"filename":  "blob.txt",
		"file_data": "!!! not base64 !!!",
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid base64 data", decodeJSON(t, rec)["error"])
}

func TestV1GenerateKey(t *testing.T) {
	a := newTestAPI(t)

	req := jsonRequest(t, http.MethodPost, "/api/v1/generate-key", gin.H{"name": "deploy bot"})
	req.Header.Set("X-Admin-Key", "wrong")
	rec := perform(a, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = jsonRequest(t, http.MethodPost, "/api/v1/generate-key", gin.H{"name": "deploy bot"})
	req.Header.Set("X-Admin-Key", "test-admin-key")
	rec = perform(a, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeJSON(t, rec)
	assert.Equal(t, "deploy bot", body["name"])

	key := body["api_key"].(string)
	require.NotEmpty(t, key)
	assert.True(t, a.Keys.Verify(key))
}

func TestV1Files(t *testing.T) {
	a := newTestAPI(t)
	key := issueKey(t, a)
	seedFile(t, a, "a.txt", "docs", "one")
	seedFile(t, a, "b.txt", "other", "two")
	linkCount := a.Shares.Len()

	get := func(target string) map[string]any {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set("X-API-Key", key)
		rec := perform(a, req)
		require.Equal(t, http.StatusOK, rec.Code)
		return decodeJSON(t, rec)
	}

	body := get("/api/v1/files")
	assert.Equal(t, float64(2), body["total_files"])

	body = get("/api/v1/files?folder_path=docs")
	require.Equal(t, float64(1), body["total_files"])

	files := body["files"].([]any)
	info := files[0].(map[string]any)
	assert.Equal(t, "a.txt", info["filename"])
	assert.Equal(t, "docs", info["folder_path"])
	assert.NotEmpty(t, info["urls"])

	// Unlike the interactive listing, this one never mints links
	assert.Equal(t, linkCount, a.Shares.Len())
}

func TestV1FilesSkipsMissingBytes(t *testing.T) {
	a := newTestAPI(t)
	key := issueKey(t, a)
	res := seedFile(t, a, "ghost.txt", "", "x")
	require.NoError(t, os.Remove(filepath.Join(a.root, res.Filename)))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/files", nil)
	req.Header.Set("X-API-Key", key)
	rec := perform(a, req)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, float64(0), decodeJSON(t, rec)["total_files"])
}

func TestV1FilesRequiresKey(t *testing.T) {
	a := newTestAPI(t)

	rec := perform(a, httptest.NewRequest(http.MethodGet, "/api/v1/files", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"sharebox/middleware"
	"sharebox/model"
	"sharebox/pkg/security"
	"sharebox/registry"
	"sharebox/service"
	"sharebox/ws"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// newTestAPI wires the full route table against throwaway stores. The
// logging, CORS and cache middleware are left out; they do not change
// handler behavior.
func newTestAPI(t *testing.T) *API {
	t.Helper()
	gin.SetMode(gin.TestMode)

	viper.Set("upload.max_size", int64(1<<20))
	viper.Set("auth.jwt_secret", "test-secret")
	viper.Set("api.admin_key", "test-admin-key")

	dir := t.TempDir()
	a := &API{
		Files:    registry.NewFileStore(filepath.Join(dir, "files_metadata.json")),
		Shares:   registry.NewShareStore(filepath.Join(dir, "share_links.json")),
		Keys:     registry.NewKeyStore(filepath.Join(dir, "api_keys.json")),
		Users:    registry.NewUserStore(filepath.Join(dir, "users.json"), security.NewHasher()),
		root:     filepath.Join(dir, "uploads"),
		thumbDir: filepath.Join(dir, "thumbnails"),
	}

	require.NoError(t, a.Users.Create("alice", "hunter2", model.RoleAdmin))

	a.Hub = ws.NewHub(ws.NewTranscript(100), 20)
	a.Uploader = &service.Uploader{
		Files:    a.Files,
		Shares:   a.Shares,
		Hub:      a.Hub,
		Root:     a.root,
		ThumbDir: a.thumbDir,
	}

	router := gin.New()
	a.Router = router
	router.Use(middleware.NewRequestIDMiddleware())

	session := middleware.NewSessionMiddleware(a.Users)
	apiKey := middleware.NewAPIKeyMiddleware(a.Keys)

	router.GET("/share/:token", a.ShareDownload)
	router.GET("/file/:token", a.FileDirect)
	router.GET("/preview/:token", a.FilePreview)
	router.GET("/thumbnail/:name", a.Thumbnail)

	main := router.Group("/api")
	{
		main.HEAD("/heartbeat", a.Heartbeat)
		main.POST("/login", a.Login)
		main.POST("/logout", session, a.Logout)
		main.POST("/change-password", session, a.ChangePassword)
		main.GET("/files", session, a.FilesList)
		main.POST("/upload", session, a.FileUpload)
		main.GET("/download/*filepath", session, a.FileDownload)
		main.DELETE("/delete/*filepath", session, a.FileDelete)
		main.POST("/generate-share-link/*filepath", session, a.GenerateShareLink)
		main.POST("/create-folder", session, a.CreateFolder)
		main.GET("/stats", session, a.Stats)
		main.POST("/chat/upload", session, a.ChatUpload)
	}

	v1 := router.Group("/api/v1")
	{
		v1.POST("/upload", apiKey, a.V1Upload)
		v1.POST("/upload/base64", a.V1UploadBase64)
		v1.POST("/generate-key", a.V1GenerateKey)
		v1.GET("/files", apiKey, a.V1Files)
	}

	return a
}

func perform(a *API, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// login authenticates the seeded test user and returns the session cookie.
func login(t *testing.T, a *API) *http.Cookie {
	t.Helper()

	rec := perform(a, jsonRequest(t, http.MethodPost, "/api/login", gin.H{
		"username": "alice",
		"password": "hunter2",
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "auth_token" {
			return ck
		}
	}
	t.Fatal("login response carries no auth_token cookie")
	return nil
}

func multipartBody(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out),
		"body: %s", strings.TrimSpace(rec.Body.String()))
	return out
}

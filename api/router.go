// Package api contains all endpoints available
package api

import (
	"fmt"
	"path/filepath"
	"time"

	"sharebox/middleware"
	"sharebox/pkg/security"
	"sharebox/registry"
	"sharebox/service"
	"sharebox/ws"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

// Persisted registry documents, each rewritten in full on mutation.
const (
	metadataFile   = "files_metadata.json"
	shareLinksFile = "share_links.json"
	apiKeysFile    = "api_keys.json"
	usersFile      = "users.json"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	Router *gin.Engine

	Files  *registry.FileStore
	Shares *registry.ShareStore
	Keys   *registry.KeyStore
	Users  *registry.UserStore

	Hub      *ws.Hub
	Uploader *service.Uploader

	root     string
	thumbDir string
}

func NewRouter() (*API, error) {
	makeLogger()

	root, err := filepath.Abs(viper.GetString("storage.root"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root, %w", err)
	}

	thumbDir, err := filepath.Abs(viper.GetString("storage.thumbnails"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve thumbnail dir, %w", err)
	}

	a := &API{
		Files:    registry.NewFileStore(metadataFile),
		Shares:   registry.NewShareStore(shareLinksFile),
		Keys:     registry.NewKeyStore(apiKeysFile),
		Users:    registry.NewUserStore(usersFile, security.NewHasher()),
		root:     root,
		thumbDir: thumbDir,
	}

	if err := a.Users.Bootstrap(
		viper.GetString("auth.bootstrap_user"),
		viper.GetString("auth.bootstrap_password"),
	); err != nil {
		return nil, fmt.Errorf("failed to seed default account, %w", err)
	}

	transcript := ws.NewTranscript(viper.GetInt("chat.history_limit"))
	a.Hub = ws.NewHub(transcript, viper.GetInt("chat.replay_count"))

	a.Uploader = &service.Uploader{
		Files:    a.Files,
		Shares:   a.Shares,
		Hub:      a.Hub,
		Root:     root,
		ThumbDir: thumbDir,
	}

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"*"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-Key", "X-Admin-Key"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("username"); v != "" {
					fields = append(fields, zap.String("username", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	a.Router.MaxMultipartMemory = 5 << 20

	session := middleware.NewSessionMiddleware(a.Users)
	apiKey := middleware.NewAPIKeyMiddleware(a.Keys)
	maxUploadSize := viper.GetInt64("upload.max_size")

	// Unauthenticated, token-gated file access
	router.GET("/share/:token", a.ShareDownload)
	router.GET("/file/:token", a.FileDirect)
	router.GET("/preview/:token", a.FilePreview)
	router.GET("/thumbnail/:name", a.Thumbnail)

	// Socket channel for chat and file notifications
	router.GET("/ws", a.Socket)

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat			-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// POST /api/login			-> Verifies credentials, sets the session cookie
		main.POST("/login", middleware.BodySizeLimiter(1<<20), a.Login)

		// POST /api/logout			-> Clears the session cookie
		main.POST("/logout", session, a.Logout)

		// POST /api/change-password		-> Replaces the caller's password hash
		main.POST("/change-password", session, middleware.BodySizeLimiter(1<<20), a.ChangePassword)

		// GET /api/files			-> Folder tree with per-file metadata and share links
		main.GET("/files", session, a.FilesList)

		// POST /api/upload			-> Interactive multipart upload
		main.POST("/upload", session, middleware.BodySizeLimiter(maxUploadSize), a.FileUpload)

		// GET /api/download/*filepath		-> Owner-path attachment download
		main.GET("/download/*filepath", session, a.FileDownload)

		// DELETE /api/delete/*filepath 	-> Deletes a file and cascades its share links
		main.DELETE("/delete/*filepath", session, a.FileDelete)

		// POST /api/generate-share-link/*filepath -> Mints a link with custom expiry/cap
		main.POST("/generate-share-link/*filepath", session, middleware.BodySizeLimiter(1<<20), a.GenerateShareLink)

		// POST /api/create-folder		-> Creates an empty folder under the root
		main.POST("/create-folder", session, middleware.BodySizeLimiter(1<<20), a.CreateFolder)

		// GET /api/stats			-> Aggregate registry totals
		main.GET("/stats", session, cacheFor(30), a.Stats)

		// POST /api/chat/upload		-> File attached to a chat message
		main.POST("/chat/upload", session, middleware.BodySizeLimiter(maxUploadSize), a.ChatUpload)
	}

	v1 := router.Group("/api/v1")
	{
		// POST /api/v1/upload			-> Key-gated multipart upload
		v1.POST("/upload", apiKey, middleware.BodySizeLimiter(maxUploadSize), a.V1Upload)

		// POST /api/v1/upload/base64		-> Key-gated base64 JSON upload. The key may
		// live inside the JSON body, so the handler checks it itself.
		v1.POST("/upload/base64", middleware.BodySizeLimiter(maxUploadSize*2), a.V1UploadBase64)

		// POST /api/v1/generate-key		-> Issues a key, gated by the fixed admin secret
		v1.POST("/generate-key", middleware.BodySizeLimiter(1<<20), a.V1GenerateKey)

		// GET /api/v1/files			-> Flat metadata listing for integrations
		v1.GET("/files", apiKey, a.V1Files)
	}

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true
	cfg.Level = parseLevel(viper.GetString("app.log_level"))

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func parseLevel(s string) zap.AtomicLevel {
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	return zap.NewAtomicLevelAt(lvl)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}

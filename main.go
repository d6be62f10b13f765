package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"sharebox/api"
	"sharebox/config"
	"sharebox/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	a, err := api.NewRouter()
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go a.Hub.Run(ctx)

	sweeper := &service.Sweeper{
		Files:     a.Files,
		Root:      viper.GetString("storage.root"),
		Retention: time.Duration(viper.GetInt("storage.retention_days")) * 24 * time.Hour,
		Interval:  viper.GetDuration("storage.sweep_interval"),
	}
	go sweeper.Run(ctx)

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(viper.GetInt("host.port")),
		Handler: a.Router,
	}

	go func() {
		zap.L().Info("Server starting", zap.String("addr", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Shutdown error", zap.Error(err))
	}
}

// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

var validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}

const (
	// Defaults inherited from the original deployment. Weak on purpose:
	// Setup warns when they are still in use rather than inventing
	// stronger ones behind the operator's back.
	DefaultBootstrapUser     = "admin"
	DefaultBootstrapPassword = "admin"
	DefaultAdminKey          = "your-admin-secret-key"
)

// Setup prepares everything config-related so that the app can start
// working. Returns an error if something is critically wrong and the
// application can't run because of that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")

	v.BindEnv("storage.root", "storage_root")
	v.BindEnv("storage.thumbnails", "storage_thumbnails")
	v.BindEnv("storage.retention_days", "storage_retention_days")
	v.BindEnv("storage.sweep_interval", "storage_sweep_interval")

	v.BindEnv("upload.max_size", "upload_max_size")

	v.BindEnv("auth.jwt_secret", "auth_jwt_secret")
	v.BindEnv("auth.bootstrap_user", "auth_bootstrap_user")
	v.BindEnv("auth.bootstrap_password", "auth_bootstrap_password")

	v.BindEnv("api.admin_key", "api_admin_key")

	v.BindEnv("chat.history_limit", "chat_history_limit")
	v.BindEnv("chat.replay_count", "chat_replay_count")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")

	v.SetDefault("storage.root", "uploads")
	v.SetDefault("storage.thumbnails", "thumbnails")
	v.SetDefault("storage.retention_days", 7)
	v.SetDefault("storage.sweep_interval", time.Hour)

	v.SetDefault("upload.max_size", 100)

	v.SetDefault("auth.bootstrap_user", DefaultBootstrapUser)
	v.SetDefault("auth.bootstrap_password", DefaultBootstrapPassword)

	v.SetDefault("api.admin_key", DefaultAdminKey)

	v.SetDefault("chat.history_limit", 100)
	v.SetDefault("chat.replay_count", 20)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetInt64("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if v.GetInt("storage.retention_days") <= 0 {
		return errors.New("storage.retention_days must be bigger than 0")
	}

	if v.GetDuration("storage.sweep_interval") <= 0 {
		return errors.New("storage.sweep_interval must be bigger than 0")
	}

	if v.GetString("storage.root") == "" {
		return errors.New("storage.root can't be empty")
	}

	if v.GetString("auth.jwt_secret") == "" {
		return errors.New("auth.jwt_secret is missing")
	}

	if v.GetString("api.admin_key") == DefaultAdminKey {
		zap.L().Warn("api.admin_key is still the well-known default, anyone can mint API keys")
	}

	if v.GetString("auth.bootstrap_password") == DefaultBootstrapPassword {
		zap.L().Warn("auth.bootstrap_password is still the well-known default")
	}

	// MiB in the config, bytes everywhere else
	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}

// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingJWTSecret は署名用シークレットが未設定の場合に返されます。
var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// 認証設定
	JWTSecret     string        // トークン署名用の秘密鍵（必須）
	TokenTTL      time.Duration // トークンの有効期間
	BcryptCost    int           // bcrypt のコスト
	SessionSecret string        // セッションクッキー署名用の秘密鍵

	// サーバー設定
	Port    string // APIサーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// CORS設定
	CORSAllowedOrigins string // CORS許可オリジン（カンマ区切り）

	// ログ設定
	LogLevel  string // debug, info, warn, error
	LogFormat string // text, json
}

// Load は環境変数から設定を読み込みます。
// .env.local / .env ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	loadEnvFiles()

	config := &Config{
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenTTL:      time.Duration(getEnvAsInt("TOKEN_TTL_MINUTES", 60)) * time.Minute,
		BcryptCost:    getEnvAsInt("BCRYPT_COST", 10),
		SessionSecret: getEnv("SESSION_SECRET", ""),

		Port:    getEnv("PORT", "3000"),
		GinMode: getEnv("GIN_MODE", "debug"),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// loadEnvFiles はカレントディレクトリ（なければ親ディレクトリ）の .env.local と .env を読み込みます。
// 既に設定されている環境変数は上書きしません。
func loadEnvFiles() {
	dirs := []string{""}
	if cwd, err := os.Getwd(); err == nil {
		if parent := filepath.Dir(cwd); parent != "" && parent != cwd {
			dirs = append(dirs, parent)
		}
	}

	for _, dir := range dirs {
		loaded := false
		for _, name := range []string{".env.local", ".env"} {
			if err := godotenv.Load(filepath.Join(dir, name)); err == nil {
				loaded = true
			}
		}
		if loaded {
			return
		}
	}
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL_MINUTES must be positive, got %s", c.TokenTTL)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}

	// 本番環境ではセッション鍵も必須
	if c.GinMode == "release" && c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required in release mode")
	}

	return nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

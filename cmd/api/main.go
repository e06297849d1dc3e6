// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/member-portal/internal/auth"
	"github.com/yourusername/member-portal/internal/config"
	"github.com/yourusername/member-portal/internal/logging"
	"github.com/yourusername/member-portal/internal/password"
	"github.com/yourusername/member-portal/internal/storage"
	"github.com/yourusername/member-portal/internal/token"
	"github.com/yourusername/member-portal/internal/web"
)

const (
	serviceName    = "member-portal-api"
	serviceVersion = "0.1.0"

	shutdownTimeout = 10 * time.Second
)

func main() {
	// 設定の読み込み（JWT_SECRET が無い場合は起動しない）
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	gin.SetMode(cfg.GinMode)

	router, err := newRouter(cfg, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting API server", "addr", srv.Addr, "mode", cfg.GinMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newRouter はミドルウェアとルーティングを設定した Gin エンジンを返します。
func newRouter(cfg *config.Config, logger *slog.Logger) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery(), logging.Middleware(logger))

	// セッションストアの設定（ログインフォームの入力補助にのみ使用）
	sessionKey, err := sessionSecret(cfg, logger)
	if err != nil {
		return nil, err
	}
	store := cookie.NewStore(sessionKey)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(auth.SessionCookieName, store))

	// CORSミドルウェアの設定
	origins := splitOrigins(cfg.CORSAllowedOrigins)
	if len(origins) == 0 {
		return nil, errors.New("CORS_ALLOWED_ORIGINS must contain at least one origin")
	}
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = origins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
		"Authorization",
	}
	router.Use(cors.New(corsConfig))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	if err := setupRoutes(router, cfg, logger); err != nil {
		return nil, err
	}
	return router, nil
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// setupRoutes はストア・認証部品を組み立ててルートに割り当てます。
func setupRoutes(router *gin.Engine, cfg *config.Config, logger *slog.Logger) error {
	router.GET("/health", handleHealth)
	router.StaticFileFS(web.StylesPath, "styles.css", web.Static())

	issuer, err := token.NewIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to create token issuer: %w", err)
	}
	members := storage.NewMemberStore()
	visitors := storage.NewVisitorStore()
	hasher := password.NewHasher(cfg.BcryptCost)

	authManager := auth.NewManager(members, hasher, issuer, logger.With("component", "auth"))

	router.GET("/", web.Landing)

	normal := router.Group("/normal")
	{
		normal.GET("", web.NormalForm)
		normal.POST("/register", web.RegisterHandler(visitors, logger.With("component", "visitors")))
	}

	core := router.Group("/core")
	{
		core.GET("", web.CoreChoice)
		core.GET("/signup", web.SignupForm)
		core.POST("/signup", authManager.Signup)
		core.GET("/login", web.LoginForm)
		core.POST("/login", authManager.Login)
		core.GET("/dashboard",
			auth.RequireToken(issuer, logger.With("component", "gate")),
			auth.RequireRole(token.RoleCoreMember),
			web.Dashboard,
		)
	}

	return nil
}

// sessionSecret は SESSION_SECRET を返します。未設定なら起動ごとに乱数の鍵を生成します。
func sessionSecret(cfg *config.Config, logger *slog.Logger) ([]byte, error) {
	if cfg.SessionSecret != "" {
		return []byte(cfg.SessionSecret), nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate session key: %w", err)
	}
	logger.Warn("SESSION_SECRET is not set; using an ephemeral session key")
	return key, nil
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

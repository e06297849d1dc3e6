package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware はリクエストごとにメソッド・パス・ステータス・所要時間を記録します。
// ボディやクエリ文字列（パスワードやトークンを含み得る）は出力しません。
func Middleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			logger.ErrorContext(ctx, "request", attrs...)
		case status >= 400:
			logger.WarnContext(ctx, "request", attrs...)
		default:
			logger.InfoContext(ctx, "request", attrs...)
		}
	}
}

// Discard は出力を捨てるロガーを返します。テストや未指定時の既定値に使います。
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

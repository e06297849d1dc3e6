package auth

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/member-portal/internal/token"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
)

// TokenVerifier はベアラートークンを検証できるものが実装します。
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// extractBearerToken は Authorization ヘッダーの有無を先に確認してから "Bearer <token>" を分解します。
func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", errors.New("invalid authorization header format")
	}
	tok := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if tok == "" {
		return "", errors.New("empty bearer token")
	}
	return tok, nil
}

// RequireToken はベアラートークンを検証し、クレームをリクエストのコンテキストに付与するミドルウェアを返します。
// ロールの確認は行わないため、保護対象には RequireRole を併用してください。
func RequireToken(verifier TokenVerifier, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		raw, err := extractBearerToken(c.GetHeader(authorizationHeader))
		if err != nil {
			logger.DebugContext(ctx, "bearer token rejected", "path", c.Request.URL.Path, "reason", err.Error())
			respondWithError(c, errUnauthenticated)
			return
		}

		claims, err := verifier.Verify(raw)
		if err != nil {
			logger.InfoContext(ctx, "token verification failed", "path", c.Request.URL.Path, "error", err)
			respondWithError(c, tokenError(err))
			return
		}

		c.Request = c.Request.WithContext(WithClaims(ctx, claims))
		c.Next()
	}
}

// RequireRole はクレームのロールが role と一致する場合のみ通過させます。
// RequireToken の後に登録する必要があります。
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFromContext(c.Request.Context())
		if claims == nil {
			respondWithError(c, errUnauthenticated)
			return
		}
		if claims.Role != role {
			respondWithError(c, errForbidden)
			return
		}
		c.Next()
	}
}

// tokenError は検証失敗の理由を区別できるコードに変換します。どれも未認証として扱います。
func tokenError(err error) *Error {
	if errors.Is(err, token.ErrExpired) {
		return &Error{Kind: KindToken, Code: "TOKEN_EXPIRED", Message: "token has expired", Err: err}
	}
	return &Error{Kind: KindToken, Code: "TOKEN_INVALID", Message: "access denied", Err: err}
}

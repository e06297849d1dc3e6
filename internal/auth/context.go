package auth

import (
	"context"

	"github.com/yourusername/member-portal/internal/token"
)

type claimsContextKey struct{}

// WithClaims は検証済みクレームを付与したコンテキストを返します。
func WithClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext は検証済みクレームを取り出します。未認証なら nil です。
func ClaimsFromContext(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(claimsContextKey{}).(*token.Claims)
	return claims
}

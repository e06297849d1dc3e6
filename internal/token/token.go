// Package token は HS256 で署名された有効期限付きのベアラートークンを発行・検証します。
// トークンはサーバー側に保存されず、署名と有効期限の検証だけで信頼可否が決まります。
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RoleCoreMember はコアメンバーに付与されるロールです。
const RoleCoreMember = "coreMember"

// DefaultTTL はトークンの既定の有効期間です。
const DefaultTTL = time.Hour

var (
	// ErrEmptySecret は署名鍵が空のまま Issuer を作ろうとした場合に返されます。
	ErrEmptySecret = errors.New("token: signing secret is empty")
	// ErrInvalidSignature は署名が一致しない（改ざん・鍵違い・想定外のアルゴリズム）場合に返されます。
	ErrInvalidSignature = errors.New("token: invalid signature")
	// ErrExpired は有効期限切れのトークンに対して返されます。
	ErrExpired = errors.New("token: expired")
	// ErrMalformed は JWT として解釈できないトークンに対して返されます。
	ErrMalformed = errors.New("token: malformed")
)

// Claims はトークンに埋め込まれる情報です。
type Claims struct {
	Role     string `json:"role"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Issued は発行済みトークンと有効期限です。
type Issued struct {
	Token     string
	ExpiresAt time.Time
}

// Issuer はトークンの発行と検証を行います。
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option は Issuer の設定を変更します。
type Option func(*Issuer)

// WithClock は現在時刻の取得方法を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

// NewIssuer は Issuer を作成します。ttl が 0 以下なら DefaultTTL を使います。
func NewIssuer(secret []byte, ttl time.Duration, opts ...Option) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	i := &Issuer{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// TTL はトークンの有効期間を返します。
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue は username と role を含むトークンを発行します。
func (i *Issuer) Issue(username, role string) (*Issued, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)

	claims := Claims{
		Role:     role,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Issued{
		Token:     signed,
		ExpiresAt: time.Unix(expiresAt.Unix(), 0).UTC(),
	}, nil
}

// Verify は署名と有効期限を検証し、クレームを返します。
// 失敗理由は ErrInvalidSignature / ErrExpired / ErrMalformed のいずれかで区別できます。
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		default:
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	if !token.Valid {
		return nil, ErrInvalidSignature
	}

	return claims, nil
}

// Package auth はコアメンバーのサインアップ・ログインとトークンによるアクセス制御を提供します。
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/member-portal/internal/storage"
	"github.com/yourusername/member-portal/internal/token"
)

const (
	// SessionCookieName はフォーム入力の補助に使うセッションクッキー名です。
	SessionCookieName      = "mp_session"
	sessionKeyLastUsername = "last_username"

	// dummyPassword は未登録ユーザーのログイン時にも照合コストを揃えるために使います。
	dummyPassword = "member-portal-timing-equalizer"
)

// MemberStore はコアメンバーの保存先です。
type MemberStore interface {
	Add(ctx context.Context, p *storage.Principal) error
	FindByUsername(ctx context.Context, username string) (*storage.Principal, error)
}

// PasswordHasher はパスワードのハッシュ化と検証を行います。
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) bool
}

// TokenIssuer はログイン成功時にトークンを発行します。
type TokenIssuer interface {
	Issue(username, role string) (*token.Issued, error)
}

// Manager はサインアップとログインのハンドラーをまとめた構造体です。
type Manager struct {
	members MemberStore
	hasher  PasswordHasher
	issuer  TokenIssuer
	logger  *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewManager は認証マネージャーを作成します。
func NewManager(members MemberStore, hasher PasswordHasher, issuer TokenIssuer, logger *slog.Logger) *Manager {
	return &Manager{
		members: members,
		hasher:  hasher,
		issuer:  issuer,
		logger:  logger,
	}
}

type credentialsRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Signup は POST /core/signup のハンドラーです。
func (m *Manager) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		respondWithError(c, errInvalidInput)
		return
	}
	ctx := c.Request.Context()

	hashed, err := m.hasher.Hash(req.Password)
	if err != nil {
		m.logger.ErrorContext(ctx, "signup: password hashing failed", "username", req.Username, "error", err)
		respondWithError(c, internalError("INTERNAL_ERROR", err))
		return
	}

	principal := &storage.Principal{
		Username:     req.Username,
		PasswordHash: hashed,
	}
	if err := m.members.Add(ctx, principal); err != nil {
		if errors.Is(err, storage.ErrUsernameTaken) {
			respondWithError(c, errUsernameTaken)
			return
		}
		m.logger.ErrorContext(ctx, "signup: store add failed", "username", req.Username, "error", err)
		respondWithError(c, internalError("INTERNAL_ERROR", err))
		return
	}

	m.logger.InfoContext(ctx, "core member signed up", "username", principal.Username, "id", principal.ID)
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Welcome, " + principal.Username + "! You have successfully signed up as a Core Member.",
		"username": principal.Username,
	})
}

// Login は POST /core/login のハンドラーです。
// 未登録ユーザーとパスワード不一致は同じレスポンスを返します。
func (m *Manager) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		respondWithError(c, errInvalidInput)
		return
	}
	ctx := c.Request.Context()

	principal, err := m.members.FindByUsername(ctx, req.Username)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// 照合時間からユーザーの存在が推測されないよう、ダミーのハッシュと比較しておく
		m.hasher.Verify(req.Password, m.dummy())
		m.logger.InfoContext(ctx, "login failed", "username", req.Username, "reason", "unknown user")
		respondWithError(c, errInvalidCredentials)
		return
	case err != nil:
		m.logger.ErrorContext(ctx, "login: store lookup failed", "username", req.Username, "error", err)
		respondWithError(c, internalError("INTERNAL_ERROR", err))
		return
	}

	if !m.hasher.Verify(req.Password, principal.PasswordHash) {
		m.logger.InfoContext(ctx, "login failed", "username", req.Username, "reason", "password mismatch")
		respondWithError(c, errInvalidCredentials)
		return
	}

	issued, err := m.issuer.Issue(principal.Username, token.RoleCoreMember)
	if err != nil {
		m.logger.ErrorContext(ctx, "login: token issue failed", "username", principal.Username, "error", err)
		respondWithError(c, internalError("TOKEN_GENERATION_FAILED", err))
		return
	}

	m.rememberUsername(c, principal.Username)

	m.logger.InfoContext(ctx, "core member logged in", "username", principal.Username)
	c.JSON(http.StatusOK, gin.H{
		"message":   "Welcome " + principal.Username + ", you are authenticated as a Core Member!",
		"token":     issued.Token,
		"tokenType": "Bearer",
		"expiresAt": issued.ExpiresAt.Format(time.RFC3339),
	})
}

// LastUsername はセッションに記録された直近のログインユーザー名を返します。
// セッションミドルウェアが無い場合は空文字です。
func LastUsername(c *gin.Context) string {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return ""
	}
	name, _ := sessions.Default(c).Get(sessionKeyLastUsername).(string)
	return name
}

func (m *Manager) rememberUsername(c *gin.Context, username string) {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return
	}
	session := sessions.Default(c)
	session.Set(sessionKeyLastUsername, username)
	if err := session.Save(); err != nil {
		// トークンは発行済みなのでログイン自体は成功扱いにする
		m.logger.WarnContext(c.Request.Context(), "login: session save failed", "error", err)
	}
}

func (m *Manager) dummy() string {
	m.dummyOnce.Do(func() {
		hashed, err := m.hasher.Hash(dummyPassword)
		if err != nil {
			m.logger.Warn("login: dummy hash generation failed", "error", err)
			return
		}
		m.dummyHash = hashed
	})
	return m.dummyHash
}

// Package storage はプロセス内メモリに保持するストアを提供します。
// 再起動するとデータは失われます。呼び出し側はインターフェース経由で利用するため、
// 永続化層へ差し替えてもハンドラーは変更不要です。
package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound は該当するレコードが存在しない場合に返されます。
	ErrNotFound = errors.New("storage: not found")
	// ErrUsernameTaken は同じユーザー名が既に登録済みの場合に返されます。
	ErrUsernameTaken = errors.New("storage: username already taken")
	// ErrInvalidPrincipal は必須項目が欠けたプリンシパルを追加しようとした場合に返されます。
	ErrInvalidPrincipal = errors.New("storage: username and password hash are required")
)

// Principal はコアメンバーとして登録された認証主体です。
type Principal struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MemberStore はコアメンバーを登録順に保持します。
type MemberStore struct {
	mu         sync.RWMutex
	principals []Principal
}

// NewMemberStore は空の MemberStore を作成します。
func NewMemberStore() *MemberStore {
	return &MemberStore{}
}

// Add はプリンシパルを末尾に追加します。ID と作成日時が未設定なら採番します。
// 同名ユーザーは上書きせず ErrUsernameTaken を返します。
func (s *MemberStore) Add(ctx context.Context, p *Principal) error {
	if p == nil || p.Username == "" || p.PasswordHash == "" {
		return ErrInvalidPrincipal
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(p.Username) >= 0 {
		return ErrUsernameTaken
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.principals = append(s.principals, *p)
	return nil
}

// FindByUsername は最初に一致したプリンシパルのコピーを返します。
func (s *MemberStore) FindByUsername(ctx context.Context, username string) (*Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(username)
	if i < 0 {
		return nil, ErrNotFound
	}
	p := s.principals[i]
	return &p, nil
}

// Len は登録済みプリンシパル数を返します。
func (s *MemberStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.principals)
}

// indexOf は呼び出し側でロックを保持している前提です。
func (s *MemberStore) indexOf(username string) int {
	for i := range s.principals {
		if s.principals[i].Username == username {
			return i
		}
	}
	return -1
}

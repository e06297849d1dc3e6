package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidRegistration は名前またはメールアドレスが空の場合に返されます。
var ErrInvalidRegistration = errors.New("storage: name and email are required")

// Registration は一般ユーザーの登録内容です。登録後に読み出されることはありません。
type Registration struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// VisitorStore は一般ユーザーの登録を保持します。
type VisitorStore struct {
	mu            sync.Mutex
	registrations []Registration
}

// NewVisitorStore は空の VisitorStore を作成します。
func NewVisitorStore() *VisitorStore {
	return &VisitorStore{}
}

// Add は登録を末尾に追加します。
func (s *VisitorStore) Add(ctx context.Context, r *Registration) error {
	if r == nil || r.Name == "" || r.Email == "" {
		return ErrInvalidRegistration
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.registrations = append(s.registrations, *r)
	s.mu.Unlock()
	return nil
}

// Len は登録件数を返します。
func (s *VisitorStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.registrations)
}

// Package password は bcrypt によるパスワードのハッシュ化と検証を提供します。
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost は設定が範囲外のときに使うコストです。
const DefaultCost = 10

// Hasher はソルト付きの一方向ハッシュを生成・検証します。
// 平文パスワードをログやエラーメッセージに含めてはいけません。
type Hasher struct {
	cost int
}

// NewHasher は Hasher を作成します。bcrypt の許容範囲外のコストは DefaultCost に置き換えます。
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Cost は実際に使用されるコストを返します。
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash はパスワードのハッシュ文字列を返します。
// 72 バイトを超える入力など bcrypt が受け付けない場合はエラーになります。
func (h *Hasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify はパスワードがハッシュと一致するかを返します。
func (h *Hasher) Verify(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

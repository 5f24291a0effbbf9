// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/accountd/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// emailの一意制約に違反した場合はmodel.ErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail は指定emailのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Update はユーザーのnameとemailを更新する。
	// 対象が存在しない場合はmodel.ErrUserNotFound、
	// emailの一意制約に違反した場合はmodel.ErrDuplicateEmailを返す。
	Update(ctx context.Context, user *model.User) error

	// EmailTaken はemailが既に他のユーザーに使用されているかを返す。
	// excludeIDが空でない場合、そのIDのユーザーは判定から除外する（更新時の自己除外）。
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
}

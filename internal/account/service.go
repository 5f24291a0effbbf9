// Package account はユーザーアカウントのドメインロジックを提供する。
package account

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/accountd/internal/auth"
	"github.com/hitoshi/accountd/internal/model"
	"github.com/hitoshi/accountd/internal/repository"
)

// dummyPasswordHash はユーザーが存在しない場合の照合に使うダミーハッシュ。
// 実在の認証情報ではなく、応答時間からemailの登録有無を推測されるのを防ぐ。
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Service はアカウント管理のサービス層。
// 登録・認証・取得・更新のビジネスロジックを提供する。
type Service struct {
	repo   repository.UserRepository
	hasher auth.PasswordHasher
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.UserRepository, hasher auth.PasswordHasher) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
	}
}

// Register は新規ユーザーを作成する。パスワードはbcryptハッシュとして保存され、
// 平文は永続化されない。emailが使用済みの場合はmodel.ErrDuplicateEmailを返す。
func (s *Service) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate はemailとパスワードを照合し、一致したユーザーを返す。
// email未登録とパスワード不一致は区別せずmodel.ErrInvalidCredentialsを返す。
// email未登録の場合もダミーハッシュとの照合を行い、応答時間を一定に保つ。
func (s *Service) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user == nil {
		s.hasher.Verify(password, dummyPasswordHash)
		return nil, model.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// Get は指定IDのユーザーを取得する。
// 存在しない場合はmodel.ErrUserNotFoundを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.User, error) {
	// id列はUUID型のため、形式不正なIDはクエリ前に未検出として扱う
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.ErrUserNotFound
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// Update は指定IDのユーザーのnameとemailを更新し、更新後のユーザーを返す。
// 存在しない場合はmodel.ErrUserNotFound、
// emailが他ユーザーに使用済みの場合はmodel.ErrDuplicateEmailを返す。
func (s *Service) Update(ctx context.Context, id, name, email string) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.Email = email
	user.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// EmailTaken はemailが他のユーザーに使用済みかを返す。
// バリデーションルールの一意性チェックとして使用する。
// excludeIDが空でない場合、そのユーザー自身は判定から除外する。
func (s *Service) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	return s.repo.EmailTaken(ctx, email, excludeID)
}

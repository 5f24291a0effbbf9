package account

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/accountd/internal/model"
)

// --- モック定義 ---

// mockUserRepo はrepository.UserRepositoryのモック実装。
type mockUserRepo struct {
	createFn      func(ctx context.Context, user *model.User) error
	findByIDFn    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
	updateFn      func(ctx context.Context, user *model.User) error
	emailTakenFn  func(ctx context.Context, email, excludeID string) (bool, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	if m.emailTakenFn != nil {
		return m.emailTakenFn(ctx, email, excludeID)
	}
	return false, nil
}

// mockHasher はauth.PasswordHasherのモック実装。
type mockHasher struct {
	hashFn   func(password string) (string, error)
	verifyFn func(password, hash string) bool
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFn != nil {
		return m.hashFn(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Verify(password, hash string) bool {
	if m.verifyFn != nil {
		return m.verifyFn(password, hash)
	}
	return hash == "hashed:"+password
}

const testUserID = "b7a4c3f0-9d2e-4c1b-8a5f-6e7d8c9b0a1f"

// --- Register ---

func TestService_Register_HashesPassword(t *testing.T) {
	var created *model.User
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}

	svc := NewService(repo, &mockHasher{})

	user, err := svc.Register(context.Background(), "John Doe", "john.doe@example.com", "password123")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if created == nil {
		t.Fatal("expected Create to be called")
	}
	if created.PasswordHash == "password123" {
		t.Error("password must not be stored in plaintext")
	}
	if created.PasswordHash != "hashed:password123" {
		t.Errorf("PasswordHash = %q, want hashed value", created.PasswordHash)
	}
	if user.ID == "" {
		t.Error("expected a generated user ID")
	}
	if user.Name != "John Doe" || user.Email != "john.doe@example.com" {
		t.Errorf("user = %+v, want name/email preserved", user)
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			return model.ErrDuplicateEmail
		},
	}

	svc := NewService(repo, &mockHasher{})

	_, err := svc.Register(context.Background(), "John", "taken@example.com", "password123")
	if !errors.Is(err, model.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

// --- Authenticate ---

func TestService_Authenticate_Success(t *testing.T) {
	stored := &model.User{
		ID:           testUserID,
		Email:        "john.doe@example.com",
		PasswordHash: "hashed:password123",
	}
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email != "john.doe@example.com" {
				t.Errorf("email = %q, want %q", email, "john.doe@example.com")
			}
			return stored, nil
		},
	}

	svc := NewService(repo, &mockHasher{})

	user, err := svc.Authenticate(context.Background(), "john.doe@example.com", "password123")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if user.ID != testUserID {
		t.Errorf("user.ID = %q, want %q", user.ID, testUserID)
	}
}

func TestService_Authenticate_WrongPassword(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: testUserID, PasswordHash: "hashed:password123"}, nil
		},
	}

	svc := NewService(repo, &mockHasher{})

	_, err := svc.Authenticate(context.Background(), "john.doe@example.com", "wrong")
	if !errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

// 未登録emailでもダミーハッシュ照合を行い、同じエラーを返すこと
func TestService_Authenticate_UnknownEmail(t *testing.T) {
	verifyCalled := false
	hasher := &mockHasher{
		verifyFn: func(password, hash string) bool {
			verifyCalled = true
			return false
		},
	}
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return nil, nil
		},
	}

	svc := NewService(repo, hasher)

	_, err := svc.Authenticate(context.Background(), "nobody@example.com", "password123")
	if !errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if !verifyCalled {
		t.Error("expected dummy hash verification for unknown email")
	}
}

func TestService_Authenticate_StorageFailure(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return nil, errors.New("connection refused")
		},
	}

	svc := NewService(repo, &mockHasher{})

	_, err := svc.Authenticate(context.Background(), "john.doe@example.com", "password123")
	if err == nil || errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("expected storage error to propagate, got %v", err)
	}
}

// --- Get ---

func TestService_Get_Success(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Name: "John"}, nil
		},
	}

	svc := NewService(repo, &mockHasher{})

	user, err := svc.Get(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if user.ID != testUserID {
		t.Errorf("user.ID = %q, want %q", user.ID, testUserID)
	}
}

func TestService_Get_NotFound(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return nil, nil
		},
	}

	svc := NewService(repo, &mockHasher{})

	_, err := svc.Get(context.Background(), testUserID)
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// UUID形式でないIDはクエリせずに未検出として扱うこと
func TestService_Get_MalformedID(t *testing.T) {
	queried := false
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			queried = true
			return nil, nil
		},
	}

	svc := NewService(repo, &mockHasher{})

	_, err := svc.Get(context.Background(), "123")
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if queried {
		t.Error("expected no repository query for malformed ID")
	}
}

// --- Update ---

func TestService_Update_Success(t *testing.T) {
	var updated *model.User
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Name: "Old Name", Email: "old@example.com"}, nil
		},
		updateFn: func(ctx context.Context, user *model.User) error {
			updated = user
			return nil
		},
	}

	svc := NewService(repo, &mockHasher{})

	user, err := svc.Update(context.Background(), testUserID, "John Doe Updated", "johndoeupdated@example.com")
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}

	if updated == nil {
		t.Fatal("expected Update to be called")
	}
	if user.Name != "John Doe Updated" {
		t.Errorf("Name = %q, want %q", user.Name, "John Doe Updated")
	}
	if user.Email != "johndoeupdated@example.com" {
		t.Errorf("Email = %q, want %q", user.Email, "johndoeupdated@example.com")
	}
	if user.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be refreshed")
	}
}

func TestService_Update_NotFound(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return nil, nil
		},
	}

	svc := NewService(repo, &mockHasher{})

	_, err := svc.Update(context.Background(), testUserID, "Name", "email@example.com")
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestService_Update_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id}, nil
		},
		updateFn: func(ctx context.Context, user *model.User) error {
			return model.ErrDuplicateEmail
		},
	}

	svc := NewService(repo, &mockHasher{})

	_, err := svc.Update(context.Background(), testUserID, "Name", "taken@example.com")
	if !errors.Is(err, model.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

// --- EmailTaken ---

func TestService_EmailTaken_DelegatesToRepo(t *testing.T) {
	repo := &mockUserRepo{
		emailTakenFn: func(ctx context.Context, email, excludeID string) (bool, error) {
			if email != "taken@example.com" {
				t.Errorf("email = %q, want %q", email, "taken@example.com")
			}
			if excludeID != testUserID {
				t.Errorf("excludeID = %q, want %q", excludeID, testUserID)
			}
			return true, nil
		},
	}

	svc := NewService(repo, &mockHasher{})

	taken, err := svc.EmailTaken(context.Background(), "taken@example.com", testUserID)
	if err != nil {
		t.Fatalf("EmailTaken error: %v", err)
	}
	if !taken {
		t.Error("expected email to be reported as taken")
	}
}

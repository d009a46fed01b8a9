package service

import (
	"context"
	"testing"
	"time"

	userserrors "renthub/internal/users/errors"
	"renthub/pkg/config"
	apperrors "renthub/pkg/errors"
	"renthub/pkg/logger"
	"renthub/pkg/model"
)

// Mock repository for testing
type mockUserRepository struct {
	findByIDFunc          func(ctx context.Context, id string) (*model.User, error)
	findByFederatedIDFunc func(ctx context.Context, federatedID string) (*model.User, error)
	createFunc            func(ctx context.Context, user *model.User) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = "65a000000000000000000002"
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindByFederatedID(ctx context.Context, federatedID string) (*model.User, error) {
	if m.findByFederatedIDFunc != nil {
		return m.findByFederatedIDFunc(ctx, federatedID)
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.User, error) {
	return nil, nil
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockUserRepository) Update(ctx context.Context, id string, user *model.User) error {
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	return nil
}

func newTestService(repo *mockUserRepository) UserService {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	cfg := &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return NewUserService(repo, cfg)
}

func TestResolve_InternalID(t *testing.T) {
	var capturedID string
	repo := &mockUserRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			capturedID = id
			return &model.User{ID: id, Name: "Asha Rao", Email: "asha@example.com"}, nil
		},
	}
	svc := newTestService(repo)

	contact, err := svc.Resolve(context.Background(), "65a000000000000000000002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if capturedID != "65a000000000000000000002" {
		t.Errorf("expected lookup by internal id, got %q", capturedID)
	}
	if contact.Email != "asha@example.com" {
		t.Errorf("expected contact email, got %q", contact.Email)
	}
}

func TestResolve_FederatedID(t *testing.T) {
	var capturedFederatedID string
	repo := &mockUserRepository{
		findByFederatedIDFunc: func(ctx context.Context, federatedID string) (*model.User, error) {
			capturedFederatedID = federatedID
			return &model.User{ID: "65a000000000000000000002", Name: "Asha Rao", Email: "asha@example.com"}, nil
		},
	}
	svc := newTestService(repo)

	for _, ref := range []string{
		"123456789012345678901",  // 21 digits
		"1234567890123456789012", // 22 digits
	} {
		contact, err := svc.Resolve(context.Background(), ref)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", ref, err)
		}
		if capturedFederatedID != ref {
			t.Errorf("expected federated lookup with %q, got %q", ref, capturedFederatedID)
		}
		if contact.UserID != "65a000000000000000000002" {
			t.Errorf("contact must carry the internal id, got %q", contact.UserID)
		}
	}
}

func TestResolve_MalformedReference(t *testing.T) {
	svc := newTestService(&mockUserRepository{})

	for _, ref := range []string{
		"",
		"abc",
		"12345678901234567890",    // 20 digits, too short for federated
		"12345678901234567890123", // 23 digits, too long
		"65a0000000000000000000zz", // 24 chars but not hex
	} {
		_, err := svc.Resolve(context.Background(), ref)
		if err == nil {
			t.Errorf("expected invalid input error for %q, got nil", ref)
			continue
		}
		if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
			t.Errorf("expected code %s for %q, got %s", apperrors.CodeInvalidInput, ref, appErr.Code)
		}
	}
}

func TestResolve_UnknownUser(t *testing.T) {
	svc := newTestService(&mockUserRepository{})

	_, err := svc.Resolve(context.Background(), "65a000000000000000000002")
	if err == nil {
		t.Fatal("expected not found error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected code %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}

func TestCreate_NormalizesAndDefaults(t *testing.T) {
	var stored *model.User
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, user *model.User) error {
			stored = user
			return nil
		},
	}
	svc := newTestService(repo)

	user := &model.User{
		Name:  "  Asha   Rao ",
		Email: " Asha@Example.COM ",
	}
	if err := svc.Create(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored.Name != "Asha Rao" {
		t.Errorf("expected normalized name, got %q", stored.Name)
	}
	if stored.Email != "asha@example.com" {
		t.Errorf("expected lowercased email, got %q", stored.Email)
	}
	if stored.Role != model.RoleUser {
		t.Errorf("expected default role %q, got %q", model.RoleUser, stored.Role)
	}
}

func TestCreate_DuplicateEmailConflict(t *testing.T) {
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, user *model.User) error {
			return userserrors.ErrDuplicateEmail
		},
	}
	svc := newTestService(repo)

	err := svc.Create(context.Background(), &model.User{Name: "Asha Rao", Email: "asha@example.com"})
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

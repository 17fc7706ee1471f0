package service

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/internal/repository"
	"github.com/moon90/rms-admin/pkg/auth"
	"github.com/moon90/rms-admin/pkg/config"
	apperrors "github.com/moon90/rms-admin/pkg/errors"
	"github.com/moon90/rms-admin/pkg/logger"
)

type fakeUserRepo struct {
	users       map[string]*domain.User
	roles       []domain.Role
	permissions []domain.Permission

	assignedRoles   [][]int
	unassignedRoles [][]int
	nextID          int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}, nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	user.ID = f.nextID
	f.nextID++
	f.users[user.UserName] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByUserName(ctx context.Context, userName string) (*domain.User, error) {
	return f.users[userName], nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *domain.User) error      { return nil }
func (f *fakeUserRepo) Delete(ctx context.Context, id int) error                 { return nil }
func (f *fakeUserRepo) SetStatus(ctx context.Context, id int, status bool) error { return nil }
func (f *fakeUserRepo) List(ctx context.Context, filter repository.UserFilter) ([]*domain.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Count(ctx context.Context, filter repository.UserFilter) (int, error) {
	return 0, nil
}
func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id int) error { return nil }
func (f *fakeUserRepo) GetRoles(ctx context.Context, userID int) ([]domain.Role, error) {
	return f.roles, nil
}
func (f *fakeUserRepo) AssignRoles(ctx context.Context, userID int, roleIDs []int) error {
	f.assignedRoles = append(f.assignedRoles, roleIDs)
	return nil
}
func (f *fakeUserRepo) UnassignRoles(ctx context.Context, userID int, roleIDs []int) error {
	f.unassignedRoles = append(f.unassignedRoles, roleIDs)
	return nil
}
func (f *fakeUserRepo) GetPermissions(ctx context.Context, userID int) ([]domain.Permission, error) {
	return f.permissions, nil
}

func testJWTManager() *auth.JWTManager {
	return auth.NewJWTManager(&config.JWTConfig{
		Secret:           "test-secret-for-unit-tests",
		AccessExpiresIn:  15 * time.Minute,
		RefreshExpiresIn: 24 * time.Hour,
	})
}

func seedUser(t *testing.T, repo *fakeUserRepo, userName, password string, active bool) *domain.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &domain.User{
		UserName:       userName,
		Email:          userName + "@example.com",
		HashedPassword: string(hashed),
		Status:         active,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestUserServiceLoginBuildsPermissionSets(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "admin", "secret", true)
	repo.permissions = []domain.Permission{
		{Code: "users.view", Category: "Users"},
		{Code: "users.manage", Category: "Users"},
		{Code: "inventory.view", Category: "Inventory"},
		{Code: "system.internal", Category: ""},
	}

	svc := NewUserService(repo, nil, testJWTManager(), deadCacheRepo(), 0, logger.NewNop())

	resp, err := svc.Login(context.Background(), domain.LoginRequest{UserName: "admin", Password: "secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("expected a full token pair")
	}
	if len(resp.RolePermissions) != 4 {
		t.Fatalf("every permission code belongs in rolePermissions: %v", resp.RolePermissions)
	}
	// Unique categories in encounter order; empty categories dropped
	want := []string{"Users", "Inventory"}
	if len(resp.MenuPermissions) != len(want) {
		t.Fatalf("unexpected menuPermissions: %v", resp.MenuPermissions)
	}
	for i, category := range want {
		if resp.MenuPermissions[i] != category {
			t.Fatalf("unexpected menuPermissions order: %v", resp.MenuPermissions)
		}
	}
}

func TestUserServiceLoginRejectionsAreUniform(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "admin", "secret", true)
	seedUser(t, repo, "ghost", "secret", false)

	svc := NewUserService(repo, nil, testJWTManager(), deadCacheRepo(), 0, logger.NewNop())

	cases := []domain.LoginRequest{
		{UserName: "nosuchuser", Password: "secret"},
		{UserName: "ghost", Password: "secret"},
		{UserName: "admin", Password: "wrong"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		if err == nil {
			t.Fatalf("login %q should fail", req.UserName)
		}
		appErr := apperrors.FromError(err)
		if appErr.Message != "Invalid username or password" {
			t.Fatalf("rejection for %q must not leak the reason: %q", req.UserName, appErr.Message)
		}
	}
}

func TestUserServiceCreateAssignsDefaultRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil, testJWTManager(), deadCacheRepo(), 3, logger.NewNop())

	_, err := svc.Create(context.Background(), domain.UserCreateRequest{
		UserName: "newbie",
		Email:    "newbie@example.com",
		Password: "longenough1",
		FullName: "New User",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if len(repo.assignedRoles) != 1 || len(repo.assignedRoles[0]) != 1 || repo.assignedRoles[0][0] != 3 {
		t.Fatalf("default role should be assigned when none given: %v", repo.assignedRoles)
	}
}

func TestUserServiceCreateRejectsDuplicateUserName(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "admin", "secret", true)

	svc := NewUserService(repo, nil, testJWTManager(), deadCacheRepo(), 0, logger.NewNop())

	_, err := svc.Create(context.Background(), domain.UserCreateRequest{
		UserName: "admin",
		Email:    "other@example.com",
		Password: "longenough1",
		FullName: "Other",
	})
	appErr := apperrors.FromError(err)
	if appErr.StatusCode != 409 {
		t.Fatalf("duplicate user name should conflict, got %v", err)
	}
}

func TestUserServiceAssignRolesEmptyIsNoop(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "admin", "secret", true)

	svc := NewUserService(repo, nil, testJWTManager(), deadCacheRepo(), 0, logger.NewNop())

	if err := svc.AssignRoles(context.Background(), 1, nil); err != nil {
		t.Fatalf("empty assign should succeed: %v", err)
	}
	if err := svc.UnassignRoles(context.Background(), 1, []int{}); err != nil {
		t.Fatalf("empty unassign should succeed: %v", err)
	}
	if len(repo.assignedRoles) != 0 || len(repo.unassignedRoles) != 0 {
		t.Fatalf("empty batches must not reach the repository")
	}
}

func TestUserServiceRefreshRejectsUncachedToken(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "admin", "secret", true)

	jwtManager := testJWTManager()
	svc := NewUserService(repo, nil, jwtManager, deadCacheRepo(), 0, logger.NewNop())

	refreshToken, _, err := jwtManager.GenerateToken(1, "admin", auth.RefreshToken)
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}

	// The cache holds no record of this token, so it counts as revoked
	_, err = svc.RefreshToken(context.Background(), domain.RefreshTokenRequest{RefreshToken: refreshToken})
	appErr := apperrors.FromError(err)
	if appErr.Message != "Refresh token has been revoked" {
		t.Fatalf("unverifiable refresh token must be rejected, got %v", err)
	}
}

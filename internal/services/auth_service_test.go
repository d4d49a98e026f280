package services

import (
	"sync"
	"testing"

	"tap2serve_backend/internal/models"
	"tap2serve_backend/internal/repositories"
	"tap2serve_backend/pkg/utils"

	"github.com/stretchr/testify/require"
)

type fakeAuthRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{users: make(map[int64]*models.User)}
}

func (f *fakeAuthRepo) CreateUser(_ repositories.SQLExecutor, user *models.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return 0, repositories.ErrDuplicateKey
		}
	}
	f.nextID++
	user.ID = f.nextID
	stored := *user
	f.users[stored.ID] = &stored
	return stored.ID, nil
}

func (f *fakeAuthRepo) GetUserByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			out := *user
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeAuthRepo) GetUserByID(id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *user
	return &out, nil
}

func (f *fakeAuthRepo) UpdateUserStatus(_ repositories.SQLExecutor, id int64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Status = status
	return nil
}

func (f *fakeAuthRepo) CountUsers() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users), nil
}

func newAuthServiceFixture(t *testing.T) (*fakeAuthRepo, AuthService) {
	t.Helper()
	repo := newFakeAuthRepo()
	return repo, NewAuthService(repo, newStubDB(t))
}

func registerRequest() RegisterRequest {
	restaurantID := int64(1)
	return RegisterRequest{
		Name:         "Aigerim",
		Email:        "Aigerim@Example.COM",
		Password:     "correct-horse",
		Role:         models.RoleWaiter,
		RestaurantID: &restaurantID,
	}
}

func TestRegister_NormalizesEmailAndHashesPassword(t *testing.T) {
	_, svc := newAuthServiceFixture(t)

	user, err := svc.Register(registerRequest())
	require.NoError(t, err)
	require.Equal(t, "aigerim@example.com", user.Email)
	require.Equal(t, models.UserStatusActive, user.Status)
	require.NotEqual(t, "correct-horse", user.PasswordHash)
	require.NotContains(t, user.PasswordHash, "correct-horse")
}

func TestRegister_Validation(t *testing.T) {
	_, svc := newAuthServiceFixture(t)

	bad := registerRequest()
	bad.Email = "not-an-email"
	_, err := svc.Register(bad)
	require.ErrorIs(t, err, ErrValidation)

	bad = registerRequest()
	bad.Password = "short"
	_, err = svc.Register(bad)
	require.ErrorIs(t, err, ErrValidation)

	bad = registerRequest()
	bad.Role = models.RoleAdmin
	_, err = svc.Register(bad)
	require.ErrorIs(t, err, ErrValidation)

	bad = registerRequest()
	bad.RestaurantID = nil
	_, err = svc.Register(bad)
	require.ErrorIs(t, err, ErrValidation)
}

func TestRegister_DefaultsToWaiterRole(t *testing.T) {
	_, svc := newAuthServiceFixture(t)

	req := registerRequest()
	req.Role = ""
	user, err := svc.Register(req)
	require.NoError(t, err)
	require.Equal(t, models.RoleWaiter, user.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	_, svc := newAuthServiceFixture(t)

	_, err := svc.Register(registerRequest())
	require.NoError(t, err)

	_, err = svc.Register(registerRequest())
	require.ErrorIs(t, err, ErrUserExists)
}

func TestLogin_IssuesTokensWithTenantScope(t *testing.T) {
	_, svc := newAuthServiceFixture(t)

	registered, err := svc.Register(registerRequest())
	require.NoError(t, err)

	resp, err := svc.Login(LoginRequest{Email: "aigerim@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	require.Equal(t, registered.ID, resp.User.ID)
	require.NotEmpty(t, resp.Tokens.AccessToken)
	require.NotEmpty(t, resp.Tokens.RefreshToken)

	claims, err := utils.ValidateToken(resp.Tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, registered.ID, claims.UserID)
	require.Equal(t, models.RoleWaiter, claims.Role)
	require.NotNil(t, claims.RestaurantID)
	require.Equal(t, int64(1), *claims.RestaurantID)
}

func TestLogin_RejectsWrongPasswordAndUnknownEmail(t *testing.T) {
	_, svc := newAuthServiceFixture(t)

	_, err := svc.Register(registerRequest())
	require.NoError(t, err)

	_, err = svc.Login(LoginRequest{Email: "aigerim@example.com", Password: "wrong-password"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_RejectsSuspendedAccount(t *testing.T) {
	_, svc := newAuthServiceFixture(t)

	user, err := svc.Register(registerRequest())
	require.NoError(t, err)
	require.NoError(t, svc.SetUserStatus(user.ID, models.UserStatusSuspended))

	_, err = svc.Login(LoginRequest{Email: "aigerim@example.com", Password: "correct-horse"})
	require.ErrorIs(t, err, ErrAccountSuspended)
}

func TestRefreshTokens_ReflectsCurrentAccountState(t *testing.T) {
	_, svc := newAuthServiceFixture(t)

	user, err := svc.Register(registerRequest())
	require.NoError(t, err)

	resp, err := svc.Login(LoginRequest{Email: "aigerim@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	pair, err := svc.RefreshTokens(resp.Tokens.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)

	// Suspension invalidates further refreshes.
	require.NoError(t, svc.SetUserStatus(user.ID, models.UserStatusSuspended))
	_, err = svc.RefreshTokens(resp.Tokens.RefreshToken)
	require.ErrorIs(t, err, ErrAccountSuspended)
}

func TestRefreshTokens_RejectsGarbage(t *testing.T) {
	_, svc := newAuthServiceFixture(t)

	_, err := svc.RefreshTokens("not-a-jwt")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSetUserStatus_ValidatesStatus(t *testing.T) {
	_, svc := newAuthServiceFixture(t)

	err := svc.SetUserStatus(1, "frozen")
	require.ErrorIs(t, err, ErrValidation)

	err = svc.SetUserStatus(404, models.UserStatusSuspended)
	require.ErrorIs(t, err, ErrUserNotFound)
}

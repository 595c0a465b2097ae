package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/snippet-manager/internal/apperror"
	"github.com/sakif/snippet-manager/internal/auth"
	"github.com/sakif/snippet-manager/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeUserRepo is an in-memory implementation of repository.UserRepository
// with the same email uniqueness rule as the SQL store.
type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*model.User
	byEmail map[string]*model.User
	nextID  int

	// set to a non-nil error to simulate a database failure
	createErr     error
	getByEmailErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[user.Email]; ok {
		return apperror.AlreadyExists("user", "email", user.Email)
	}
	f.nextID++
	user.ID = "user-" + strings.Repeat("x", f.nextID)
	user.CreatedAt = time.Now().UTC()
	copied := *user
	f.byID[user.ID] = &copied
	f.byEmail[user.Email] = &copied
	return nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getByEmailErr != nil {
		return nil, f.getByEmailErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	copied := *u
	return &copied, nil
}

// newTestUserService returns a UserService wired with fake dependencies.
func newTestUserService(t *testing.T, repo *fakeUserRepo) (*UserService, *auth.TokenService) {
	t.Helper()

	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	// bcrypt's minimum cost keeps the tests fast
	ps := auth.NewPasswordServiceWithCost(bcrypt.MinCost)

	return NewUserService(repo, ts, ps, quietLogger()), ts
}

func register(t *testing.T, svc *UserService, name, email, password string) *AuthResult {
	t.Helper()
	res, err := svc.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: password})
	if err != nil {
		t.Fatalf("Register(%q) error = %v", email, err)
	}
	return res
}

// =========================================================================
// Register TESTS
// =========================================================================

func TestRegister_IssuesTokenForNewUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc, ts := newTestUserService(t, repo)

	res := register(t, svc, "Alice", "alice@example.com", "hunter22")

	if res.User.ID == "" {
		t.Fatal("User.ID should be set after registration")
	}
	if res.User.PasswordHash == "hunter22" || res.User.PasswordHash == "" {
		t.Errorf("PasswordHash = %q, want a bcrypt hash", res.User.PasswordHash)
	}

	sub, err := ts.Validate(res.Token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if sub != res.User.ID {
		t.Errorf("token subject = %q, want %q", sub, res.User.ID)
	}
}

func TestRegister_NormalisesEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestUserService(t, repo)

	res := register(t, svc, "  Alice  ", "  Alice@Example.COM ", "hunter22")

	if res.User.Email != "alice@example.com" {
		t.Errorf("Email = %q, want lower-cased and trimmed", res.User.Email)
	}
	if res.User.Name != "Alice" {
		t.Errorf("Name = %q, want trimmed", res.User.Name)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestUserService(t, repo)
	register(t, svc, "Alice", "alice@example.com", "hunter22")

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Alice Again", Email: "ALICE@example.com", Password: "another1",
	})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Register() error = %v, want ErrConflict", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name      string
		in        RegisterInput
		wantField string
	}{
		{"missing name", RegisterInput{Email: "a@b.co", Password: "hunter22"}, "name"},
		{"bad email", RegisterInput{Name: "A", Email: "not-an-email", Password: "hunter22"}, "email"},
		{"short password", RegisterInput{Name: "A", Email: "a@b.co", Password: "123"}, "password"},
		{"password over bcrypt limit", RegisterInput{Name: "A", Email: "a@b.co", Password: strings.Repeat("p", 73)}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestUserService(t, newFakeUserRepo())

			_, err := svc.Register(context.Background(), tt.in)

			var appErr *apperror.AppError
			if !errors.As(err, &appErr) || !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("Register() error = %v, want a validation error", err)
			}
			if appErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", appErr.Field, tt.wantField)
			}
		})
	}
}

func TestRegister_RepositoryError(t *testing.T) {
	repo := newFakeUserRepo()
	repo.createErr = errors.New("database is on fire")
	svc, _ := newTestUserService(t, repo)

	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@b.co", Password: "hunter22"})
	if err == nil {
		t.Fatal("Register() should propagate repository errors")
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		t.Errorf("storage failure leaked as an AppError: %v", appErr)
	}
}

// =========================================================================
// Login TESTS
// =========================================================================

func TestLogin_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc, ts := newTestUserService(t, repo)
	registered := register(t, svc, "Alice", "alice@example.com", "hunter22")

	res, err := svc.Login(context.Background(), LoginInput{Email: "Alice@Example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if res.User.ID != registered.User.ID {
		t.Errorf("User.ID = %q, want %q", res.User.ID, registered.User.ID)
	}
	if sub, err := ts.Validate(res.Token); err != nil || sub != registered.User.ID {
		t.Errorf("Validate(token) = %q, %v; want %q", sub, err, registered.User.ID)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestUserService(t, repo)
	register(t, svc, "Alice", "alice@example.com", "hunter22")

	tests := []struct {
		name string
		in   LoginInput
	}{
		{"wrong password", LoginInput{Email: "alice@example.com", Password: "wrong-password"}},
		{"unknown email", LoginInput{Email: "bob@example.com", Password: "hunter22"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.in)
			if !errors.Is(err, apperror.ErrInvalidCredentials) {
				t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
			}
			if err.Error() != "Invalid credentials" {
				t.Errorf("message = %q, both cases must read the same", err.Error())
			}
		})
	}
}

func TestLogin_Validation(t *testing.T) {
	svc, _ := newTestUserService(t, newFakeUserRepo())

	_, err := svc.Login(context.Background(), LoginInput{})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Login() error = %v, want ErrValidation", err)
	}
}

func TestLogin_RepositoryError(t *testing.T) {
	repo := newFakeUserRepo()
	repo.getByEmailErr = errors.New("connection refused")
	svc, _ := newTestUserService(t, repo)

	_, err := svc.Login(context.Background(), LoginInput{Email: "a@b.co", Password: "x"})
	if err == nil || errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want an internal error", err)
	}
}

// =========================================================================
// GetUserByID TESTS
// =========================================================================

func TestGetUserByID_Found(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestUserService(t, repo)
	res := register(t, svc, "Find Me", "findme@example.com", "hunter22")

	user, err := svc.GetUserByID(context.Background(), res.User.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if user.Name != "Find Me" {
		t.Errorf("user.Name = %q, want %q", user.Name, "Find Me")
	}
}

func TestGetUserByID_EmptyID(t *testing.T) {
	svc, _ := newTestUserService(t, newFakeUserRepo())

	_, err := svc.GetUserByID(context.Background(), "")
	if !errors.Is(err, apperror.ErrUnauthenticated) {
		t.Fatalf("GetUserByID() error = %v, want ErrUnauthenticated", err)
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	svc, _ := newTestUserService(t, newFakeUserRepo())

	_, err := svc.GetUserByID(context.Background(), "non-existent-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetUserByID() error = %v, want ErrNotFound", err)
	}
}

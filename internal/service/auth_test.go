package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/mesto-api/internal/apperror"
	"github.com/sakif/mesto-api/internal/auth"
	"github.com/sakif/mesto-api/internal/model"
	"github.com/sakif/mesto-api/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository. It mirrors the store's
// contract: ids are 24-character hex strings, anything else is a
// malformed key, and a reused email is a duplicate-key failure.
type fakeUserRepo struct {
	users   map[string]*model.User // keyed by id
	byEmail map[string]*model.User
	nextID  int
	// set to a non-nil error to simulate a store failure
	createErr error
	listErr   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (f *fakeUserRepo) newID() string {
	f.nextID++
	return fmt.Sprintf("%024x", f.nextID)
}

func checkID(id string) error {
	if len(id) != 24 {
		return repository.ErrMalformedID
	}
	return nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[user.Email]; ok {
		return fmt.Errorf("%w: email %s", repository.ErrDuplicateKey, user.Email)
	}
	user.ID = f.newID()
	stored := *user
	f.users[user.ID] = &stored
	f.byEmail[user.Email] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	result := *u
	return &result, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	result := *u
	return &result, nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]model.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		result = append(result, *u)
	}
	return result, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, id, name, about string) (*model.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Name = name
	u.About = about
	result := *u
	return &result, nil
}

func (f *fakeUserRepo) UpdateAvatar(_ context.Context, id, avatar string) (*model.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Avatar = avatar
	result := *u
	return &result, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestAuthService wires an AuthService with fake storage and minimum
// bcrypt cost so tests stay fast.
func newTestAuthService(t *testing.T, repo *fakeUserRepo) *AuthService {
	t.Helper()

	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	ps := auth.NewPasswordServiceForTest(bcrypt.MinCost)

	return NewAuthService(repo, ts, ps, testLogger())
}

func TestRegister_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	user, err := svc.Register(context.Background(), "a@b.com", "longenough", "Ada", "engineer", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.ID == "" {
		t.Error("Register() should return a populated id")
	}
	if user.Email != "a@b.com" {
		t.Errorf("Email = %q, want %q", user.Email, "a@b.com")
	}

	// The stored hash must not be the plaintext.
	stored := repo.byEmail["a@b.com"]
	if stored.PasswordHash == "longenough" || stored.PasswordHash == "" {
		t.Error("password must be stored as a hash")
	}
}

func TestRegister_DuplicateEmailIsConflict(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if _, err := svc.Register(context.Background(), "a@b.com", "longenough", "", "", ""); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(context.Background(), "a@b.com", "otherpassword", "", "", "")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Register() with duplicate email = %v, want ErrConflict", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "longenough"},
		{"invalid email", "not-an-email", "longenough"},
		{"short password", "a@b.com", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.email, tt.password, "", "", "")
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Register() = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegister_StoreFailureIsNotConflict(t *testing.T) {
	repo := newFakeUserRepo()
	repo.createErr = errors.New("store is down")
	svc := newTestAuthService(t, repo)

	_, err := svc.Register(context.Background(), "a@b.com", "longenough", "", "", "")
	if err == nil {
		t.Fatal("Register() should propagate store failures")
	}
	if errors.Is(err, apperror.ErrConflict) {
		t.Error("a generic store failure must not surface as Conflict")
	}
}

func TestLogin_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	registered, err := svc.Register(context.Background(), "a@b.com", "longenough", "", "", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	userID, err := svc.Login(context.Background(), "a@b.com", "longenough")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if userID != registered.ID {
		t.Errorf("Login() id = %q, want %q", userID, registered.ID)
	}
}

func TestLogin_BadCredentialsAreIndistinguishable(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if _, err := svc.Register(context.Background(), "a@b.com", "longenough", "", "", ""); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, unknownErr := svc.Login(context.Background(), "nobody@b.com", "longenough")
	_, wrongErr := svc.Login(context.Background(), "a@b.com", "wrongpassword")

	if !errors.Is(unknownErr, apperror.ErrUnauthorized) {
		t.Errorf("unknown email: %v, want ErrUnauthorized", unknownErr)
	}
	if !errors.Is(wrongErr, apperror.ErrUnauthorized) {
		t.Errorf("wrong password: %v, want ErrUnauthorized", wrongErr)
	}
	// Same message too — the response must give no account-existence signal.
	if unknownErr.Error() != wrongErr.Error() {
		t.Errorf("messages differ: %q vs %q", unknownErr.Error(), wrongErr.Error())
	}
}

func TestIssueToken_RoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	registered, err := svc.Register(context.Background(), "a@b.com", "longenough", "", "", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	token, err := svc.IssueToken(registered.ID)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("IssueToken() returned empty token")
	}
}

package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/obralink/obra-monitor/internal/core/domain"
	"github.com/obralink/obra-monitor/internal/core/ports"
)

type stubIdentityRepo struct {
	byEmail map[string]*domain.Identity
	nextID  int
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{byEmail: make(map[string]*domain.Identity)}
}

func cloneIdentity(id *domain.Identity) *domain.Identity {
	if id == nil {
		return nil
	}
	clone := *id
	return &clone
}

func (r *stubIdentityRepo) Create(_ context.Context, id *domain.Identity) (*domain.Identity, error) {
	if _, exists := r.byEmail[id.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	copy := cloneIdentity(id)
	copy.ID = "id-" + strconv.Itoa(r.nextID)
	r.byEmail[copy.Email] = copy
	return cloneIdentity(copy), nil
}

func (r *stubIdentityRepo) FindByEmail(_ context.Context, email string) (*domain.Identity, error) {
	if id, ok := r.byEmail[email]; ok {
		return cloneIdentity(id), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubIdentityRepo) FindByID(_ context.Context, id string) (*domain.Identity, error) {
	for _, v := range r.byEmail {
		if v.ID == id {
			return cloneIdentity(v), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubIdentityRepo) List(_ context.Context) ([]domain.Identity, error) {
	out := make([]domain.Identity, 0, len(r.byEmail))
	for _, v := range r.byEmail {
		out = append(out, *v)
	}
	return out, nil
}

func (r *stubIdentityRepo) SetActive(_ context.Context, id string, active bool) error {
	for _, v := range r.byEmail {
		if v.ID == id {
			v.Active = active
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *stubIdentityRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.byEmail)), nil
}

func registerActive(t *testing.T, svc *AuthService, repo *stubIdentityRepo, email, password string, role domain.Role) *domain.Identity {
	t.Helper()
	created, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:       email,
		Password:    password,
		DisplayName: "Test User",
		Role:        role,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := repo.SetActive(context.Background(), created.ID, true); err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	created.Active = true
	return created
}

func TestAuthService_Register_HashesPassword(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	id, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:       "Alice@Example.com",
		Password:    "s3cret-pass",
		DisplayName: "Alice",
		Role:        domain.RoleProjectEngineer,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if id.Email != "alice@example.com" {
		t.Fatalf("email not normalised: %s", id.Email)
	}
	if id.Active {
		t.Fatalf("new identity must be inactive pending activation")
	}
	stored, _ := repo.FindByEmail(context.Background(), "alice@example.com")
	if stored.PasswordHash == "s3cret-pass" {
		t.Fatalf("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pass")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "", Password: "p", Role: domain.RoleViewer}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "b@x.com", Password: "p", Role: domain.Role("superuser")}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad role, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	in := ports.RegisterInput{Email: "bob@x.com", Password: "pass1234", Role: domain.RoleViewer}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_RoundTrip(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	created := registerActive(t, svc, repo, "a@x.com", "secret123", domain.RoleDirector)

	token, identity, err := svc.Login(context.Background(), "a@x.com", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if identity.ID != created.ID {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	// The token must recover the same identity id.
	subject, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if subject != created.ID {
		t.Fatalf("token subject = %s, want %s", subject, created.ID)
	}
}

func TestAuthService_Login_UniformFailure(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	registerActive(t, svc, repo, "a@x.com", "secret123", domain.RoleViewer)

	_, _, wrongPass := svc.Login(context.Background(), "a@x.com", "wrong")
	_, _, unknown := svc.Login(context.Background(), "ghost@x.com", "whatever")

	// Wrong password and unknown email must be indistinguishable.
	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknown)
	}
}

func TestAuthService_Login_InactiveIdentity(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "pending@x.com", Password: "secret123", Role: domain.RoleViewer,
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "pending@x.com", "secret123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("inactive login: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_VerifyToken_Expiry(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	issued := time.Now()
	svc.now = func() time.Time { return issued }

	token, err := svc.IssueToken("id-42")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if subject, err := svc.VerifyToken(token); err != nil || subject != "id-42" {
		t.Fatalf("verify before expiry: subject=%s err=%v", subject, err)
	}

	// Jump past the TTL: the same token must now be rejected.
	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := svc.VerifyToken(token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestAuthService_VerifyToken_Tampered(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	token, err := svc.IssueToken("id-42")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// Flipping any byte must invalidate the signature.
	for _, i := range []int{0, len(token) / 2, len(token) - 1} {
		raw := []byte(token)
		raw[i] ^= 0x01
		if _, err := svc.VerifyToken(string(raw)); err == nil {
			t.Fatalf("tampered token at byte %d accepted", i)
		}
	}
}

func TestAuthService_VerifyToken_WrongSecret(t *testing.T) {
	repo := newStubIdentityRepo()
	issuer := NewAuthService(repo, "secret-a", time.Hour)
	verifier := NewAuthService(repo, "secret-b", time.Hour)

	token, err := issuer.IssueToken("id-42")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := verifier.VerifyToken(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid after key rotation, got %v", err)
	}
}

func TestAuthService_ResolveIdentity_FailsClosedWhenDeactivated(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	created := registerActive(t, svc, repo, "a@x.com", "secret123", domain.RoleProjectManager)

	token, _, err := svc.Login(context.Background(), "a@x.com", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Deactivate after issuance: the token still verifies, but resolution
	// must fail closed.
	if err := repo.SetActive(context.Background(), created.ID, false); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	subject, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("token should still verify: %v", err)
	}
	if _, err := svc.ResolveIdentity(context.Background(), subject); !errors.Is(err, domain.ErrIdentityInactive) {
		t.Fatalf("expected ErrIdentityInactive, got %v", err)
	}
}

func TestAuthService_Login_StoreFailureNotCredentials(t *testing.T) {
	svc := NewAuthService(&failingIdentityRepo{}, "secret", time.Hour)

	_, _, err := svc.Login(context.Background(), "a@x.com", "secret123")
	if errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("store failure must not masquerade as invalid credentials")
	}
	if err == nil {
		t.Fatalf("expected error")
	}
}

type failingIdentityRepo struct{}

var errStoreDown = errors.New("store unavailable")

func (r *failingIdentityRepo) Create(context.Context, *domain.Identity) (*domain.Identity, error) {
	return nil, errStoreDown
}
func (r *failingIdentityRepo) FindByEmail(context.Context, string) (*domain.Identity, error) {
	return nil, errStoreDown
}
func (r *failingIdentityRepo) FindByID(context.Context, string) (*domain.Identity, error) {
	return nil, errStoreDown
}
func (r *failingIdentityRepo) List(context.Context) ([]domain.Identity, error) {
	return nil, errStoreDown
}
func (r *failingIdentityRepo) SetActive(context.Context, string, bool) error { return errStoreDown }
func (r *failingIdentityRepo) Count(context.Context) (int64, error)          { return 0, errStoreDown }

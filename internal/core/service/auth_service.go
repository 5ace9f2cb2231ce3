package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/obralink/obra-monitor/internal/core/domain"
	"github.com/obralink/obra-monitor/internal/core/ports"
)

// dummyHash is compared against when the email is unknown, so the
// unknown-email and wrong-password paths cost the same.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("obra-monitor-dummy"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}()

// AuthService implements registration, login, and stateless session tokens.
type AuthService struct {
	repo      ports.IdentityRepository
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(repo ports.IdentityRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error) {
	if in.Email == "" || in.Password == "" || !domain.ValidRole(in.Role) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	identity := &domain.Identity{
		Email:        strings.ToLower(in.Email),
		PasswordHash: string(hash),
		DisplayName:  in.DisplayName,
		Role:         in.Role,
		DistrictID:   in.DistrictID,
		Active:       false, // pending activation by a director
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.repo.Create(ctx, identity)
}

// Login authenticates against active identities only. The caller cannot
// distinguish unknown email from wrong password from inactive account.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Identity, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	identity, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Burn a compare anyway so the two failure paths take the same time.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if !identity.Active {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.IssueToken(identity.ID)
	if err != nil {
		return "", nil, err
	}
	return token, identity, nil
}

// IssueToken signs a token carrying only the identity reference. Role and
// active flag are deliberately not embedded: they are re-read per request.
func (s *AuthService) IssueToken(identityID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   identityID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// VerifyToken checks signature and expiry; any tampering yields ErrTokenInvalid.
func (s *AuthService) VerifyToken(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}
	if !tkn.Valid || claims.Subject == "" {
		return "", domain.ErrTokenInvalid
	}
	return claims.Subject, nil
}

// ResolveIdentity loads current identity state fresh from the store so role
// changes and deactivation take effect without waiting for token expiry.
func (s *AuthService) ResolveIdentity(ctx context.Context, id string) (*domain.Identity, error) {
	identity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !identity.Active {
		return nil, domain.ErrIdentityInactive
	}
	return identity, nil
}

func (s *AuthService) ListIdentities(ctx context.Context) ([]domain.Identity, error) {
	return s.repo.List(ctx)
}

func (s *AuthService) SetActive(ctx context.Context, id string, active bool) error {
	return s.repo.SetActive(ctx, id, active)
}

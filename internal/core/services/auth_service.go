package services

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

type AuthService struct {
	credentials ports.CredentialRepository
	users       ports.UserRepository
	google      ports.GoogleVerifier
	sessions    ports.SessionStore
	privateKey  *rsa.PrivateKey
	sessionTTL  time.Duration
	log         logrus.FieldLogger
	now         func() time.Time
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(
	credentials ports.CredentialRepository,
	users ports.UserRepository,
	google ports.GoogleVerifier,
	sessions ports.SessionStore,
	privateKey *rsa.PrivateKey,
	sessionTTL time.Duration,
	log logrus.FieldLogger,
) *AuthService {
	return &AuthService{
		credentials: credentials,
		users:       users,
		google:      google,
		sessions:    sessions,
		privateKey:  privateKey,
		sessionTTL:  sessionTTL,
		log:         log,
		now:         time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.NewValidationError("email", "Please fill in all required fields")
	}

	cred, err := s.credentials.FindCredentialByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find credential: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.ensureUser(ctx, cred.UserID, email, "")
	if err != nil {
		return nil, err
	}
	return s.issueSession(ctx, *user)
}

func (s *AuthService) SignUp(ctx context.Context, email, password string, profile domain.Profile) (*domain.Session, error) {
	email = normalizeEmail(email)
	profile.Name = strings.TrimSpace(profile.Name)
	switch {
	case email == "":
		return nil, domain.NewValidationError("email", "Please fill in all required fields")
	case password == "":
		return nil, domain.NewValidationError("password", "Please fill in all required fields")
	case profile.Name == "":
		return nil, domain.NewValidationError("name", "Please fill in all required fields")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	cred := domain.Credential{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	if err := s.credentials.CreateCredential(ctx, cred); err != nil {
		return nil, err
	}

	user := domain.User{
		ID:        cred.UserID,
		Name:      profile.Name,
		Email:     email,
		Phone:     profile.Phone,
		Role:      domain.RoleParent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.SetUser(ctx, user); err != nil {
		// Without a profile the account is unusable; free the email for a retry.
		if delErr := s.credentials.DeleteCredential(ctx, cred.UserID); delErr != nil {
			s.log.WithError(delErr).WithField("user_id", cred.UserID).Error("failed to roll back credential")
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	s.log.WithField("user_id", user.ID).Info("parent signed up")
	return s.issueSession(ctx, user)
}

func (s *AuthService) SignInWithGoogle(ctx context.Context, idToken string) (*domain.Session, error) {
	if idToken == "" {
		return nil, domain.NewValidationError("idToken", "Google credential is required")
	}
	identity, err := s.google.VerifyIDToken(ctx, idToken)
	if err != nil {
		s.log.WithError(err).Warn("google sign-in rejected")
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.ensureUser(ctx, identity.UID, normalizeEmail(identity.Email), identity.Name)
	if err != nil {
		return nil, err
	}
	return s.issueSession(ctx, *user)
}

// ensureUser loads users/{id}, creating a parent profile on first sign-in.
func (s *AuthService) ensureUser(ctx context.Context, id, email, name string) (*domain.User, error) {
	user, err := s.users.GetUser(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	now := s.now()
	created := domain.User{
		ID:        id,
		Name:      name,
		Email:     email,
		Role:      domain.RoleParent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.SetUser(ctx, created); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return &created, nil
}

func (s *AuthService) issueSession(ctx context.Context, user domain.User) (*domain.Session, error) {
	now := s.now()
	claims := domain.Claims{
		UserID:    user.ID,
		Role:      user.Role,
		SessionID: uuid.NewString(),
		ExpiresAt: now.Add(s.sessionTTL),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub":  claims.UserID,
		"role": string(claims.Role),
		"jti":  claims.SessionID,
		"iat":  now.Unix(),
		"exp":  claims.ExpiresAt.Unix(),
	})
	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	if err := s.sessions.SaveSession(ctx, claims, s.sessionTTL); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &domain.Session{Token: signed, ExpiresAt: claims.ExpiresAt, User: user}, nil
}

func (s *AuthService) Logout(ctx context.Context, claims domain.Claims) error {
	if claims.SessionID == "" {
		return domain.ErrUnauthenticated
	}
	if err := s.sessions.RevokeSession(ctx, claims.SessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	s.log.WithField("user_id", claims.UserID).Info("user logged out")
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.users.GetUser(ctx, userID)
}

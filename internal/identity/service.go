// Package identity handles registration, login, and session tokens. It owns
// the credential rules: email uniqueness, password hashing, and the failed
// login lockout policy.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campushq/enrollhub/internal/domain"
	"github.com/campushq/enrollhub/internal/pkg/metrics"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Repository defines the data access contract for identity operations.
type Repository interface {
	// RegisterUser creates the account and its role assignment in one
	// transaction, creating the role if it does not exist yet.
	RegisterUser(ctx context.Context, user *domain.User, roleName string) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetRoleNames(ctx context.Context, userID string) ([]string, error)
	// RecordLoginFailure bumps the failed attempt counter and, when
	// lockedUntil is non-nil, locks the account until that time.
	RecordLoginFailure(ctx context.Context, userID string, lockedUntil *time.Time) error
	ResetLoginFailures(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// TokenIssuer issues and validates signed session tokens.
type TokenIssuer interface {
	Issue(user *domain.User, roleNames []string) (string, error)
	Validate(tokenString string) (userID string, roles []string, err error)
}

// LockoutPolicy is the failed login lockout configuration.
type LockoutPolicy struct {
	MaxAttempts int
	Duration    time.Duration
}

// Service implements identity business logic.
type Service struct {
	repo    Repository
	tokens  TokenIssuer
	lockout LockoutPolicy
}

// NewService creates a new identity service.
func NewService(repo Repository, tokens TokenIssuer, lockout LockoutPolicy) *Service {
	return &Service{
		repo:    repo,
		tokens:  tokens,
		lockout: lockout,
	}
}

// RegisterInput holds data for registering an account.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	PhoneNumber string
	BirthDate   time.Time
	IsTeacher   bool
}

// Register creates a new account and signs it in. The account and its role
// assignment happen in one store transaction; the role is created on first
// use. New accounts default to the Student role unless explicitly flagged as
// Teacher.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	roleName := domain.RoleStudent
	if in.IsTeacher {
		roleName = domain.RoleTeacher
	}

	user := &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        strings.ToLower(in.Email),
		PasswordHash: string(hash),
		PhoneNumber:  in.PhoneNumber,
		BirthDate:    in.BirthDate,
	}

	if err := s.repo.RegisterUser(ctx, user, canonicalRoleName(roleName)); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user, []string{canonicalRoleName(roleName)})
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	user.PasswordHash = ""
	return user, token, nil
}

// LoginInput holds login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// Session is the outcome of a successful login.
type Session struct {
	Token  string   `json:"token"`
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}

// Login verifies the credentials and produces a signed session token with the
// account's role names. A missing account, a wrong password, and a locked
// account all surface as the same ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(in.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			metrics.LoginAttempts.WithLabelValues("unknown_user").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	now := time.Now()
	if user.IsLockedOut(now) {
		metrics.LoginAttempts.WithLabelValues("locked").Inc()
		return nil, ErrInvalidCredentials
	}

	// An expired lock ends the previous failure streak; the next wrong
	// password starts counting from zero again.
	if user.LockedUntil != nil {
		if err := s.repo.ResetLoginFailures(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("reset login failures: %w", err)
		}
		user.FailedLoginAttempts = 0
		user.LockedUntil = nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		var lockedUntil *time.Time
		if user.FailedLoginAttempts+1 >= s.lockout.MaxAttempts {
			t := time.Now().Add(s.lockout.Duration)
			lockedUntil = &t
		}
		if err := s.repo.RecordLoginFailure(ctx, user.ID, lockedUntil); err != nil {
			return nil, fmt.Errorf("record login failure: %w", err)
		}
		metrics.LoginAttempts.WithLabelValues("invalid_password").Inc()
		return nil, ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		if err := s.repo.ResetLoginFailures(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("reset login failures: %w", err)
		}
	}

	roleNames, err := s.repo.GetRoleNames(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("get role names: %w", err)
	}

	token, err := s.tokens.Issue(user, roleNames)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return &Session{
		Token:  token,
		UserID: user.ID,
		Email:  user.Email,
		Roles:  roleNames,
	}, nil
}

// ChangePassword verifies the current password and replaces it with a new hash.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// GetUserByID returns the account profile, with the password hash stripped.
func (s *Service) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// ValidateToken checks a session token and returns its subject and role claims.
func (s *Service) ValidateToken(_ context.Context, tokenString string) (string, []string, error) {
	userID, roles, err := s.tokens.Validate(tokenString)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return userID, roles, nil
}

// canonicalRoleName normalizes a role name to title case, so "student" and
// "STUDENT" land on the same stored role.
func canonicalRoleName(name string) string {
	return cases.Title(language.English).String(strings.ToLower(name))
}

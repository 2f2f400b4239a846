package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/clinicops/clinic-server/internal/platform/auth"
)

// ErrInvalidCredentials hides whether the username or the password failed.
var ErrInvalidCredentials = errors.New("invalid username or password")

var validRoles = map[string]bool{
	auth.RoleAdmin:     true,
	auth.RoleClinician: true,
	auth.RoleReception: true,
}

type Service struct {
	repo   Repository
	tokens *auth.Service
}

func NewService(repo Repository, tokens *auth.Service) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Login verifies the credentials and issues a signed token for the session.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID.String(), u.Username, u.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, User: u}, nil
}

func (s *Service) CreateUser(ctx context.Context, u *User, password string) error {
	if strings.TrimSpace(u.Username) == "" {
		return errors.New("username is required")
	}
	if !strings.Contains(u.Email, "@") {
		return errors.New("valid email is required")
	}
	if !validRoles[u.Role] {
		return fmt.Errorf("unknown role %q", u.Role)
	}
	if _, err := s.repo.GetByUsername(ctx, u.Username); err == nil {
		return fmt.Errorf("username %q is taken", u.Username)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.IsActive = true
	return s.repo.Create(ctx, u)
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// ChangePassword replaces the user's password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(u.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return s.repo.Update(ctx, u)
}

// DeactivateUser disables login without deleting the account history.
func (s *Service) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	u.IsActive = false
	return s.repo.Update(ctx, u)
}

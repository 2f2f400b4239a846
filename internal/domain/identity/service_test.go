package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/clinic-server/internal/platform/auth"
)

type mockRepo struct {
	users map[uuid.UUID]*User
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockRepo) Create(_ context.Context, u *User) error {
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	m.users[u.ID] = u
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *mockRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Update(_ context.Context, u *User) error {
	if _, ok := m.users[u.ID]; !ok {
		return ErrNotFound
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*User, int, error) {
	var result []*User
	for _, u := range m.users {
		result = append(result, u)
	}
	return result, len(result), nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	tokens := auth.NewService("0123456789abcdef0123456789abcdef", time.Hour)
	return NewService(repo, tokens), repo
}

func TestCreateUserAndLogin(t *testing.T) {
	svc, _ := newTestService()

	u := &User{Username: "recepcion1", Email: "recepcion@clinic.es", Role: auth.RoleReception}
	if err := svc.CreateUser(context.Background(), u, "secreto-largo"); err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}
	if u.PasswordHash == "" || u.PasswordHash == "secreto-largo" {
		t.Error("password must be stored hashed")
	}

	result, err := svc.Login(context.Background(), "recepcion1", "secreto-largo")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if result.Token == "" {
		t.Error("expected a token")
	}
	if result.User.Username != "recepcion1" {
		t.Errorf("user = %+v", result.User)
	}
}

func TestLogin_BadPassword(t *testing.T) {
	svc, _ := newTestService()

	u := &User{Username: "recepcion1", Email: "recepcion@clinic.es", Role: auth.RoleReception}
	svc.CreateUser(context.Background(), u, "secreto-largo")

	if _, err := svc.Login(context.Background(), "recepcion1", "otra-cosa"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(context.Background(), "desconocido", "secreto-largo"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_InactiveUser(t *testing.T) {
	svc, _ := newTestService()

	u := &User{Username: "antiguo", Email: "antiguo@clinic.es", Role: auth.RoleClinician}
	svc.CreateUser(context.Background(), u, "secreto-largo")
	svc.DeactivateUser(context.Background(), u.ID)

	if _, err := svc.Login(context.Background(), "antiguo", "secreto-largo"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestCreateUser_Validation(t *testing.T) {
	svc, _ := newTestService()

	tests := []struct {
		name     string
		user     *User
		password string
	}{
		{"missing username", &User{Email: "a@b.es", Role: auth.RoleAdmin}, "secreto-largo"},
		{"bad email", &User{Username: "x", Email: "no-email", Role: auth.RoleAdmin}, "secreto-largo"},
		{"unknown role", &User{Username: "x", Email: "a@b.es", Role: "gerente"}, "secreto-largo"},
		{"short password", &User{Username: "x", Email: "a@b.es", Role: auth.RoleAdmin}, "corta"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.CreateUser(context.Background(), tt.user, tt.password); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	svc, _ := newTestService()

	first := &User{Username: "admin", Email: "a@clinic.es", Role: auth.RoleAdmin}
	if err := svc.CreateUser(context.Background(), first, "secreto-largo"); err != nil {
		t.Fatalf("first user: %v", err)
	}
	second := &User{Username: "admin", Email: "b@clinic.es", Role: auth.RoleAdmin}
	if err := svc.CreateUser(context.Background(), second, "secreto-largo"); err == nil {
		t.Error("expected duplicate username error")
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService()

	u := &User{Username: "clinico", Email: "c@clinic.es", Role: auth.RoleClinician}
	svc.CreateUser(context.Background(), u, "secreto-largo")

	if err := svc.ChangePassword(context.Background(), u.ID, "equivocada", "nueva-clave-larga"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
	if err := svc.ChangePassword(context.Background(), u.ID, "secreto-largo", "nueva-clave-larga"); err != nil {
		t.Fatalf("ChangePassword() error: %v", err)
	}
	if _, err := svc.Login(context.Background(), "clinico", "nueva-clave-larga"); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
}

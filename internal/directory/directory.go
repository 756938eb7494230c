// Package directory is the mock credential collaborator behind login and
// registration. Accounts live in memory, keyed by lower-cased email, with
// argon2id password hashes.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/example/empmanager/internal/access"
	"github.com/example/empmanager/internal/application"
)

// DemoPassword is the password of every demo account.
const DemoPassword = "password123"

type account struct {
	user         application.User
	passwordHash string
}

// Directory implements application.Authenticator and application.Registrar.
type Directory struct {
	mu          sync.RWMutex
	accounts    map[string]account
	order       []string
	params      Argon2idParams
	idGenerator func() string
	logger      *slog.Logger
}

var (
	_ application.Authenticator = (*Directory)(nil)
	_ application.Registrar     = (*Directory)(nil)
)

// New returns an empty directory.
func New(params Argon2idParams, idGenerator func() string, logger *slog.Logger) *Directory {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{
		accounts:    make(map[string]account),
		params:      params,
		idGenerator: idGenerator,
		logger:      logger.With("component", "directory"),
	}
}

// DemoUsers returns the accounts seeded by WithDemoAccounts. Jane and John
// share ids with their seed employee records.
func DemoUsers() []application.User {
	return []application.User{
		{ID: "admin", Name: "Admin User", Email: "admin@company.com", Role: access.RoleAdmin, Department: "IT"},
		{ID: "2", Name: "Jane Smith", Email: "jane@company.com", Role: access.RoleHR, Department: "HR"},
		{ID: "1", Name: "John Doe", Email: "john@company.com", Role: access.RoleEmployee, Department: "IT"},
	}
}

// WithDemoAccounts adds the demo accounts, all using DemoPassword.
func (d *Directory) WithDemoAccounts() (*Directory, error) {
	for _, user := range DemoUsers() {
		if err := d.add(user, DemoPassword); err != nil {
			return nil, fmt.Errorf("demo account %s: %w", user.Email, err)
		}
	}
	return d, nil
}

// Authenticate returns the account matching email and password.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (application.User, error) {
	key := normalizeEmail(email)

	d.mu.RLock()
	acct, ok := d.accounts[key]
	d.mu.RUnlock()
	if !ok {
		return application.User{}, application.ErrInvalidCredentials
	}

	if err := VerifyPassword(acct.passwordHash, password); err != nil {
		if !errors.Is(err, errPasswordMismatch) {
			d.logger.WarnContext(ctx, "stored password hash unusable", "email", key, "error", err)
		}
		return application.User{}, application.ErrInvalidCredentials
	}
	return acct.user, nil
}

// Register creates an account. An email already in use yields
// application.ErrAlreadyExists.
func (d *Directory) Register(ctx context.Context, params application.RegisterParams) (application.User, error) {
	role := params.Role
	if role == "" {
		role = access.RoleEmployee
	}
	user := application.User{
		ID:         d.idGenerator(),
		Name:       strings.TrimSpace(params.Name),
		Email:      normalizeEmail(params.Email),
		Role:       role,
		Department: strings.TrimSpace(params.Department),
	}
	if err := d.add(user, params.Password); err != nil {
		return application.User{}, err
	}
	d.logger.InfoContext(ctx, "account registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Users lists accounts in registration order.
func (d *Directory) Users() []application.User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	users := make([]application.User, 0, len(d.order))
	for _, key := range d.order {
		users = append(users, d.accounts[key].user)
	}
	return users
}

func (d *Directory) add(user application.User, password string) error {
	key := normalizeEmail(user.Email)
	if key == "" {
		return fmt.Errorf("directory: email is required")
	}

	hash, err := HashPassword(password, d.params)
	if err != nil {
		return fmt.Errorf("directory: hash password: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.accounts[key]; exists {
		return application.ErrAlreadyExists
	}
	d.accounts[key] = account{user: user, passwordHash: hash}
	d.order = append(d.order, key)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

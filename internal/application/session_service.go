package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/example/empmanager/internal/access"
)

// Authenticator checks a login against the credential collaborator.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (User, error)
}

// Registrar creates a new account with the credential collaborator.
type Registrar interface {
	Register(ctx context.Context, params RegisterParams) (User, error)
}

const minPasswordLength = 6

// SessionService holds the user of one interactive session. Login and
// registration move it to Authenticated; Logout returns it to Anonymous.
type SessionService struct {
	authenticator Authenticator
	registrar     Registrar
	metrics       MetricsRecorder
	logger        *slog.Logger

	mu      sync.RWMutex
	current *User
}

// NewSessionService constructs an anonymous session.
func NewSessionService(authenticator Authenticator, registrar Registrar) *SessionService {
	return NewSessionServiceWithLogger(authenticator, registrar, nil)
}

// NewSessionServiceWithLogger constructs an anonymous session with a specified logger.
func NewSessionServiceWithLogger(authenticator Authenticator, registrar Registrar, logger *slog.Logger) *SessionService {
	return &SessionService{
		authenticator: authenticator,
		registrar:     registrar,
		metrics:       noopRecorder{},
		logger:        defaultLogger(logger),
	}
}

// UseMetrics attaches a metrics recorder and returns the service.
func (s *SessionService) UseMetrics(recorder MetricsRecorder) *SessionService {
	s.metrics = defaultRecorder(recorder)
	return s
}

func (s *SessionService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SessionService", operation, attrs...)
}

// Login authenticates creds and, on success, makes the user current. A
// failed login leaves the session as it was.
func (s *SessionService) Login(ctx context.Context, creds Credentials) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("SessionService is nil")
		return
	}
	if s.authenticator == nil {
		err = fmt.Errorf("authenticator not configured")
		return
	}

	email := strings.ToLower(strings.TrimSpace(creds.Email))
	logger := s.loggerWith(ctx, "Login",
		"email", email,
	)
	defer func() {
		if err != nil {
			s.metrics.RecordLogin(LoginFailed)
			logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		s.metrics.RecordLogin(LoginSucceeded)
		logger.With("user_id", user.ID, "role", user.Role).InfoContext(ctx, "login succeeded")
	}()

	if email == "" || creds.Password == "" {
		err = ErrInvalidCredentials
		return
	}

	user, err = s.authenticator.Authenticate(ctx, email, creds.Password)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			err = ErrInvalidCredentials
		}
		user = User{}
		return
	}

	s.setCurrent(user)
	return
}

// Register creates an account and logs it in.
func (s *SessionService) Register(ctx context.Context, params RegisterParams) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("SessionService is nil")
		return
	}
	if s.registrar == nil {
		err = fmt.Errorf("registrar not configured")
		return
	}

	params.Name = strings.TrimSpace(params.Name)
	params.Email = strings.ToLower(strings.TrimSpace(params.Email))
	params.Department = strings.TrimSpace(params.Department)
	if params.Role == "" {
		params.Role = access.RoleEmployee
	}

	logger := s.loggerWith(ctx, "Register",
		"email", params.Email,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "registration failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		s.metrics.RecordLogin(LoginRegistered)
		logger.With("user_id", user.ID, "role", user.Role).InfoContext(ctx, "registration succeeded")
	}()

	if vErr := validateRegistration(params); vErr.HasErrors() {
		err = vErr
		return
	}

	user, err = s.registrar.Register(ctx, params)
	if err != nil {
		user = User{}
		return
	}

	s.setCurrent(user)
	return
}

// Logout clears the current user.
func (s *SessionService) Logout(ctx context.Context) {
	if s == nil {
		return
	}
	s.mu.Lock()
	previous := s.current
	s.current = nil
	s.mu.Unlock()

	if previous != nil {
		s.loggerWith(ctx, "Logout", "user_id", previous.ID).InfoContext(ctx, "logged out")
	}
}

// CurrentUser returns the logged-in user, if any.
func (s *SessionService) CurrentUser() (User, bool) {
	if s == nil {
		return User{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return User{}, false
	}
	return *s.current, true
}

// Principal returns the acting principal; anonymous when logged out.
func (s *SessionService) Principal() Principal {
	user, ok := s.CurrentUser()
	if !ok {
		return Principal{}
	}
	return user.Principal()
}

// RequireUser returns the current user or ErrNotAuthenticated.
func (s *SessionService) RequireUser() (User, error) {
	user, ok := s.CurrentUser()
	if !ok {
		return User{}, ErrNotAuthenticated
	}
	return user, nil
}

// State reports whether a user is logged in.
func (s *SessionService) State() SessionState {
	if _, ok := s.CurrentUser(); ok {
		return SessionAuthenticated
	}
	return SessionAnonymous
}

func (s *SessionService) setCurrent(user User) {
	s.mu.Lock()
	s.current = &user
	s.mu.Unlock()
}

func validateRegistration(params RegisterParams) *ValidationError {
	vErr := &ValidationError{}

	if params.Name == "" {
		vErr.add("name", "name is required")
	}
	if params.Email == "" {
		vErr.add("email", "email is required")
	} else if !emailPattern.MatchString(params.Email) {
		vErr.add("email", "invalid email format")
	}
	if len(params.Password) < minPasswordLength {
		vErr.add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if !params.Role.Valid() {
		vErr.add("role", "unknown role")
	}

	return vErr
}

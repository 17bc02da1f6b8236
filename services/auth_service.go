package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/Vidhyalakshmi16/svm-mobiles/apperr"
	"github.com/Vidhyalakshmi16/svm-mobiles/auth"
	"github.com/Vidhyalakshmi16/svm-mobiles/logger"
	"github.com/Vidhyalakshmi16/svm-mobiles/models"
	"github.com/Vidhyalakshmi16/svm-mobiles/store"
	"go.uber.org/zap"
)

type AuthServiceDeps struct {
	Users  store.Users
	Tokens *auth.Tokens
	// AllowEmailOnlyReset enables the reset endpoint that trusts the email
	// address alone.
	AllowEmailOnlyReset bool
	Logger              *zap.Logger
}

type AuthService struct {
	users      store.Users
	tokens     *auth.Tokens
	allowReset bool
	log        *zap.Logger
}

func NewAuthService(deps AuthServiceDeps) *AuthService {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:      deps.Users,
		tokens:     deps.Tokens,
		allowReset: deps.AllowEmailOnlyReset,
		log:        log.Named("auth"),
	}
}

// Session is returned on register and login.
type Session struct {
	ID    string      `json:"_id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	Token string      `json:"token"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) session(u *models.User) (*Session, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, apperr.Dependency("issue token", err)
	}
	return &Session{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Token: token}, nil
}

// Register creates a customer account. Admins are only ever seeded.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, apperr.Validation("All fields are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("Invalid email address")
	}
	hash, err := auth.HashPassword(password)
	if errors.Is(err, auth.ErrWeakPassword) {
		return nil, apperr.Validation("Password must be at least 6 characters")
	} else if err != nil {
		return nil, apperr.Dependency("hash password", err)
	}

	u := &models.User{Name: name, Email: email, Password: hash, Role: models.RoleCustomer}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("Email already registered")
		}
		return nil, apperr.Dependency("create user", err)
	}
	return s.session(u)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Unauthorized("Invalid email or password")
	} else if err != nil {
		return nil, apperr.Dependency("find user", err)
	}
	if !auth.CheckPassword(u.Password, password) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}
	return s.session(u)
}

func (s *AuthService) Me(ctx context.Context, actor auth.Identity) (*models.User, error) {
	u, err := s.users.GetUser(ctx, actor.UserID)
	if err != nil {
		return nil, storeErr(err, "User not found", "get user")
	}
	return u, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Dependency("list users", err)
	}
	return users, nil
}

// ResetPassword sets a new password for the account with this email. No proof
// of mailbox ownership is asked for; the endpoint exists only while
// AllowEmailOnlyReset is set.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if !s.allowReset {
		return apperr.NotFound("Password reset is not available")
	}
	email = normalizeEmail(email)
	if email == "" || newPassword == "" {
		return apperr.Validation("Email and new password are required")
	}
	logger.FromContext(ctx, s.log).Warn("email-only password reset used", zap.String("email", email))

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return storeErr(err, "No account found with this email", "find user")
	}
	hash, err := auth.HashPassword(newPassword)
	if errors.Is(err, auth.ErrWeakPassword) {
		return apperr.Validation("Password must be at least 6 characters")
	} else if err != nil {
		return apperr.Dependency("hash password", err)
	}
	if err := s.users.UpdateUserPassword(ctx, u.ID, hash); err != nil {
		return storeErr(err, "No account found with this email", "update password")
	}
	return nil
}

// SeedAdmin creates the configured admin account when no user has that email.
func (s *AuthService) SeedAdmin(ctx context.Context, name, email, password, phone string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		s.log.Warn("admin seed skipped, admin email or password not configured")
		return nil
	}
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return apperr.Dependency("find admin", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if name == "" {
		name = "Admin"
	}
	admin := &models.User{Name: name, Email: email, Phone: phone, Password: hash, Role: models.RoleAdmin}
	if err := s.users.CreateUser(ctx, admin); err != nil && !errors.Is(err, store.ErrDuplicate) {
		return apperr.Dependency("create admin", err)
	}
	s.log.Info("admin account seeded", zap.String("email", email))
	return nil
}

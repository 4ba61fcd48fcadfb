package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"tasktracker/internal/auth"
	"tasktracker/internal/model"
	"tasktracker/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindSummaries(ctx context.Context, ids []uuid.UUID) ([]model.UserSummary, error)
	ListSummaries(ctx context.Context, page model.Page, search string) ([]model.UserSummary, int64, error)
}

type SessionStore interface {
	Create(ctx context.Context, session *model.Session) error
	FindByUserAndID(ctx context.Context, userID, sessionID uuid.UUID) (*model.Session, error)
	Delete(ctx context.Context, userID, sessionID uuid.UUID) error
}

type TokenCodec interface {
	Issue(userID, sessionID uuid.UUID) (string, error)
	Decode(token string) (uuid.UUID, uuid.UUID, error)
}

// Identity is what a validated token resolves to.
type Identity struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	Role      model.Role
}

type AuthService struct {
	users    UserStore
	sessions SessionStore
	tokens   TokenCodec
	logger   *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users UserStore, sessions SessionStore, tokens TokenCodec, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger.With("component", "auth"),
	}
}

// Signup registers a regular user.
func (s *AuthService) Signup(ctx context.Context, username, password string) (*model.User, error) {
	return s.createUser(ctx, username, password, model.RoleUser)
}

// CreateAdmin registers an administrator.
func (s *AuthService) CreateAdmin(ctx context.Context, username, password string) (*model.User, error) {
	return s.createUser(ctx, username, password, model.RoleAdmin)
}

// EnsureAdmin creates the bootstrap administrator unless a user with that name exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		s.logger.Info("admin user already exists", "username", username)
		return nil
	}

	if _, err := s.createUser(ctx, username, password, model.RoleAdmin); err != nil && !errors.Is(err, ErrAlreadyExists) {
		return err
	}
	s.logger.Info("default admin user created", "username", username)
	return nil
}

func (s *AuthService) createUser(ctx context.Context, username, password string, role model.Role) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, badRequest("Username and password are required")
	}

	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Warn("username already taken", "username", username)
		return nil, ErrUserAlreadyExists
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	s.logger.Info("user created", "user_id", user.ID, "role", role)
	return user, nil
}

// Login verifies credentials, opens a session and returns a token bound to it.
// Unknown usernames and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		// Spend the same bcrypt work as a real comparison.
		auth.CheckPassword(s.placeholderHash(), password)
		s.logger.Warn("login failed", "reason", "unknown user")
		return "", ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Warn("login failed", "reason", "password mismatch", "user_id", user.ID)
		return "", ErrInvalidCredentials
	}

	sessionID, err := s.CreateSession(ctx, user.ID)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(user.ID, sessionID)
	if err != nil {
		return "", err
	}

	s.logger.Info("login successful", "user_id", user.ID, "session_id", sessionID)
	return token, nil
}

// CreateSession persists a new session for userID and returns its id.
func (s *AuthService) CreateSession(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	session := &model.Session{
		ID:     uuid.New(),
		UserID: userID,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return uuid.Nil, err
	}
	return session.ID, nil
}

// Logout deletes exactly the given session. Deleting an unknown pair is a no-op.
func (s *AuthService) Logout(ctx context.Context, userID, sessionID uuid.UUID) error {
	if userID == uuid.Nil || sessionID == uuid.Nil {
		return badRequest("User ID and Session ID are required")
	}
	if err := s.sessions.Delete(ctx, userID, sessionID); err != nil {
		return err
	}
	s.logger.Info("logout successful", "user_id", userID, "session_id", sessionID)
	return nil
}

// Authenticate decodes token and checks that both its user and its session still exist.
func (s *AuthService) Authenticate(ctx context.Context, token string) (Identity, error) {
	userID, sessionID, err := s.tokens.Decode(token)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	var (
		user    *model.User
		session *model.Session
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.users.GetByID(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		session, err = s.sessions.FindByUserAndID(gctx, userID, sessionID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Identity{}, err
	}

	if user == nil {
		return Identity{}, ErrUserNotFound
	}
	if session == nil {
		return Identity{}, ErrSessionNotFound
	}

	return Identity{UserID: user.ID, SessionID: session.ID, Role: user.Role}, nil
}

// ListUsers returns the assignable (non-admin) users.
func (s *AuthService) ListUsers(ctx context.Context, page model.Page, search string) ([]model.UserSummary, int64, error) {
	users, total, err := s.users.ListSummaries(ctx, page, strings.TrimSpace(search))
	if err != nil {
		return nil, 0, err
	}
	s.logger.Debug("users listed", "count", len(users), "total", total)
	return users, total, nil
}

func (s *AuthService) placeholderHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = auth.HashPassword(uuid.NewString())
	})
	return s.dummyHash
}

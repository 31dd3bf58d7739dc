package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ranwip/pm-backend/internal/auth/domain"
	"github.com/ranwip/pm-backend/internal/logging"
	userdomain "github.com/ranwip/pm-backend/internal/users/domain"
)

const bcryptCost = 12

type UserStore interface {
	Create(ctx context.Context, u *userdomain.User) error
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	SetPresence(ctx context.Context, id string, p userdomain.Presence, at time.Time) error
}

type TokenIssuer interface {
	Issue(userID, email, role string) (string, error)
}

type AuthService struct {
	users  UserStore
	tokens TokenIssuer
	now    func() time.Time
}

func NewAuthService(users UserStore, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens, now: time.Now}
}

// Register creates the account and returns a session for it.
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	u := &userdomain.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         req.Role,
		Department:   req.Department,
		Skills:       req.Skills,
		Timezone:     req.Timezone,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Infow("user registered", "user_id", u.ID, "role", u.Role)
	return s.session(u)
}

// Login verifies credentials and marks the user online.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, userdomain.ErrInvalidCredentials
		}
		return nil, err
	}

	at := s.now().UTC()
	if err := s.users.SetPresence(ctx, u.ID, userdomain.PresenceOnline, at); err != nil {
		return nil, err
	}
	u.Presence = userdomain.PresenceOnline
	u.PresenceChangedAt = &at

	return s.session(u)
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.users.SetPresence(ctx, userID, userdomain.PresenceOffline, s.now().UTC())
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*userdomain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) session(u *userdomain.User) (*domain.Session, error) {
	tok, err := s.tokens.Issue(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, err
	}
	return &domain.Session{AccessToken: tok, User: u}, nil
}

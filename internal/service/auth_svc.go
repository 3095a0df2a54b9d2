package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Luminous-Dynamics/terra-atlas/internal/model"
	"github.com/Luminous-Dynamics/terra-atlas/pkg/hash"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
)

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)
)

// UserStore is the user persistence contract for authentication.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmailOrUsername(ctx context.Context, emailOrUsername string) (*model.User, error)
	Create(ctx context.Context, email, username, passwordHash, fullName, avatarURL string) (*model.User, error)
	TouchLastLogin(ctx context.Context, id string) error
}

// SessionStore persists refresh-token sessions.
type SessionStore interface {
	Create(ctx context.Context, userID, refreshTokenHash, ipAddress, userAgent string, expiresAt time.Time) error
}

type AuthService struct {
	users    UserStore
	sessions SessionStore
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(users UserStore, sessions SessionStore, secret []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, sessions: sessions, secret: secret, tokenTTL: tokenTTL}
}

// Register creates an account, hashes the password with bcrypt, and issues
// an access token plus a refresh-token session.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest, ip, userAgent string) (*model.AuthResponse, error) {
	if req.Email == "" || req.Username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email, username, and password are required", ErrInvalidInput)
	}
	if !emailRe.MatchString(req.Email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}
	if !usernameRe.MatchString(req.Username) {
		return nil, fmt.Errorf("%w: username must be 3-20 characters, alphanumeric, underscore, or dash only", ErrInvalidInput)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters long", ErrInvalidInput)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	displayName := req.FullName
	if displayName == "" {
		displayName = req.Username
	}
	avatarURL := "https://ui-avatars.com/api/?name=" + url.QueryEscape(displayName) + "&background=random"

	user, err := s.users.Create(ctx,
		strings.ToLower(req.Email), strings.ToLower(req.Username),
		string(passwordHash), req.FullName, avatarURL)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user, ip, userAgent)
}

// Login verifies credentials and issues fresh tokens. Lookup failures and
// password mismatches both return ErrInvalidCredentials so the response
// never reveals whether the account exists.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest, ip, userAgent string) (*model.AuthResponse, error) {
	if req.EmailOrUsername == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email/username and password are required", ErrInvalidInput)
	}

	user, err := s.users.FindByEmailOrUsername(ctx, strings.ToLower(req.EmailOrUsername))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user, ip, userAgent)
}

// Profile returns the account for an authenticated user id.
func (s *AuthService) Profile(ctx context.Context, userID string) (*model.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) issueTokens(ctx context.Context, user *model.User, ip, userAgent string) (*model.AuthResponse, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId":      user.ID,
		"email":       user.Email,
		"username":    user.Username,
		"trustLevel":  user.TrustLevel,
		"isAdmin":     user.IsAdmin,
		"isModerator": user.IsModerator,
		"iat":         now.Unix(),
		"exp":         now.Add(s.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	refreshToken := hex.EncodeToString(raw)

	err = s.sessions.Create(ctx, user.ID, hash.RefreshToken(refreshToken), ip, userAgent, now.Add(s.tokenTTL))
	if err != nil {
		return nil, err
	}

	return &model.AuthResponse{
		User:         user,
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.tokenTTL.Seconds()),
	}, nil
}

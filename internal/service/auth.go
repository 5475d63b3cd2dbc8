package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jask/manttest/internal/database"
	"github.com/jask/manttest/internal/database/repository"
	"github.com/jask/manttest/internal/login"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownUser        = errors.New("unknown user")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
)

const minSecretLen = 32

// Claims is the payload of a session token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService checks credentials against the user registry and issues
// HS256 session tokens. It satisfies login.Service.
type AuthService struct {
	Users  *repository.UserRepo
	Secret []byte
	TTL    time.Duration
	Cost   int
	Now    func() time.Time
}

var _ login.Service = (*AuthService)(nil)

func NewAuthService(users *repository.UserRepo, secret []byte, ttl time.Duration) (*AuthService, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("signing secret must be at least %d bytes", minSecretLen)
	}
	return &AuthService{Users: users, Secret: secret, TTL: ttl}, nil
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return database.Now()
}

func (s *AuthService) cost() int {
	if s.Cost != 0 {
		return s.Cost
	}
	return bcrypt.DefaultCost
}

func (s *AuthService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost())
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// NewUser builds a registry row with a fresh id and hashed password.
func (s *AuthService) NewUser(username, password string) (repository.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return repository.User{}, errors.New("username required")
	}
	if password == "" {
		return repository.User{}, errors.New("password required")
	}
	hash, err := s.hashPassword(password)
	if err != nil {
		return repository.User{}, err
	}
	return repository.User{ID: uuid.NewString(), Username: username, PasswordHash: hash}, nil
}

// Register adds a user. An existing username yields ErrUserExists.
func (s *AuthService) Register(ctx context.Context, username, password string) (repository.User, error) {
	u, err := s.NewUser(username, password)
	if err != nil {
		return repository.User{}, err
	}
	if _, err := s.Users.GetByUsername(ctx, u.Username); err == nil {
		return repository.User{}, fmt.Errorf("%w: %s", ErrUserExists, u.Username)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return repository.User{}, err
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return repository.User{}, err
	}
	return u, nil
}

// Login verifies username/password and returns a signed session.
func (s *AuthService) Login(ctx context.Context, username, password string) (login.Session, error) {
	username = strings.TrimSpace(username)
	u, err := s.Users.GetByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		if hint := s.suggest(ctx, username); hint != "" {
			return login.Session{}, fmt.Errorf("%w %q, did you mean %q?", ErrUnknownUser, username, hint)
		}
		return login.Session{}, fmt.Errorf("%w %q", ErrUnknownUser, username)
	}
	if err != nil {
		return login.Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return login.Session{}, ErrInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(s.TTL)
	claims := Claims{
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return login.Session{}, fmt.Errorf("sign token: %w", err)
	}
	if err := s.Users.TouchLogin(ctx, u.ID, now); err != nil {
		return login.Session{}, err
	}
	return login.Session{UserID: u.ID, Username: u.Username, Token: token, ExpiresAt: expiresAt}, nil
}

// Validate parses a session token and returns its claims.
func (s *AuthService) Validate(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.Secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// suggest returns the closest registered username within a small edit distance.
func (s *AuthService) suggest(ctx context.Context, username string) string {
	if username == "" {
		return ""
	}
	names, err := s.Users.ListUsernames(ctx)
	if err != nil {
		return ""
	}
	best, bestDist := "", 3
	for _, name := range names {
		d := levenshtein.ComputeDistance(strings.ToLower(username), strings.ToLower(name))
		if d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

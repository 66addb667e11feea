package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"kanban/internal/model"
	"kanban/internal/repository"
)

const passwordCost = 10

// Claims is the payload of the session token.
type Claims struct {
	Idx      uint   `json:"idx"`
	Nickname string `json:"nickname"`
	jwt.RegisteredClaims
}

// SignUpInput carries the registration form.
type SignUpInput struct {
	Nickname string
	Password string
	Email    string
}

// AuthService registers users and issues session tokens.
type AuthService struct {
	users  *repository.UserRepository
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
	now    func() time.Time
}

func NewAuthService(users *repository.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
		now:    time.Now,
	}
}

// TokenTTL is the lifetime of issued tokens, used for the cookie max-age.
func (s *AuthService) TokenTTL() time.Duration {
	return s.ttl
}

func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*model.User, error) {
	in.Nickname = strings.TrimSpace(in.Nickname)
	in.Email = strings.TrimSpace(in.Email)
	switch {
	case in.Nickname == "":
		return nil, invalid("nickname", "nickname is required")
	case in.Password == "":
		return nil, invalid("password", "password is required")
	case in.Email == "":
		return nil, invalid("email", "email is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), passwordCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{Nickname: in.Nickname, Email: in.Email, Password: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, nickname, password string) (string, *model.User, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return "", nil, invalid("nickname", "nickname is required")
	}
	if password == "" {
		return "", nil, invalid("password", "password is required")
	}

	user, err := s.users.FindByNickname(ctx, nickname)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ParseToken validates a session token. Every failure wraps ErrUnauthenticated.
func (s *AuthService) ParseToken(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrUnauthenticated
	}
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if claims.Idx == 0 {
		return nil, fmt.Errorf("%w: missing idx", ErrUnauthenticated)
	}
	return claims, nil
}

func (s *AuthService) issue(user *model.User) (string, error) {
	now := s.now()
	claims := Claims{
		Idx:      user.Idx,
		Nickname: user.Nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

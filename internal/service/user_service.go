package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"portfolio/internal/config"
	"portfolio/internal/ledger"
	"portfolio/internal/models"
	"portfolio/internal/repository"
)

// ErrUserExists and ErrBadCredentials are boundary errors for the auth
// endpoints; they never carry bcrypt or store detail.
var (
	ErrUserExists     = errors.New("username or email already exists")
	ErrBadCredentials = errors.New("wrong username or password")
)

type UserService struct {
	Repo repository.Repository
	Auth config.AuthConfig
}

type LoginResult struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

func (s *UserService) Register(ctx context.Context, username, email, password string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return fmt.Errorf("%w: username, email and password are required", ledger.ErrInvalidInput)
	}

	existing, err := s.Repo.FindUserByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.Repo.CreateUser(ctx, &models.User{
		Username:  username,
		Email:     email,
		Password:  string(hashed),
		CreatedAt: time.Now().UTC(),
	})
}

func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ledger.ErrInvalidInput)
	}

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}

	ttl := s.Auth.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(ttl).Unix(),
	})
	signed, err := token.SignedString([]byte(s.Auth.Secret))
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		ID:       user.ID,
		Username: user.Username,
		Token:    signed,
	}, nil
}

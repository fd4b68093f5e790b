package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"teamup/internal/auth"
	"teamup/internal/models"
	repo "teamup/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type UserService struct {
	store  repo.Store
	teams  *TeamService
	tokens *auth.TokenManager
}

func NewUserService(store repo.Store, teams *TeamService, tokens *auth.TokenManager) *UserService {
	return &UserService{store: store, teams: teams, tokens: tokens}
}

// Register creates the account and joins the configured team right
// away; membership is part of account setup, never a side effect of a
// later read.
func (s *UserService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	u := models.User{Username: strings.TrimSpace(username), Email: strings.TrimSpace(email)}
	if err := u.Validate(); err != nil {
		return models.User{}, err
	}
	if len(password) < 8 {
		return models.User{}, errors.New("password too short")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	created, err := s.store.Repos().Users.Create(ctx, u.Username, u.Email, hash)
	if err != nil {
		return models.User{}, err
	}
	if _, err := s.teams.Join(ctx, created.ID); err != nil {
		return models.User{}, err
	}
	return created, nil
}

type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (s *UserService) Login(ctx context.Context, email, password string) (Token, error) {
	u, err := s.store.Repos().Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return Token{}, ErrInvalidCredentials
		}
		return Token{}, err
	}
	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		return Token{}, ErrInvalidCredentials
	}
	tok, exp, err := s.tokens.Generate(u.ID)
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: tok, ExpiresAt: exp}, nil
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	return s.store.Repos().Users.GetByID(ctx, id)
}

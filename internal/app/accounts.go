package app

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cesargomez89/melodeck/internal/domain"
	"github.com/cesargomez89/melodeck/internal/logger"
	"github.com/cesargomez89/melodeck/internal/sanitize"
)

type AccountRepository interface {
	Create(ctx context.Context, a *domain.Account) error
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	UpdatePassword(ctx context.Context, id int64, password string) error
}

type AccountService struct {
	Repo   AccountRepository
	Logger *logger.Logger

	// Cost is the bcrypt work factor used for new passwords.
	Cost int
}

func NewAccountService(repo AccountRepository, log *logger.Logger) *AccountService {
	return &AccountService{
		Repo:   repo,
		Logger: log.WithComponent("accounts"),
		Cost:   bcrypt.DefaultCost,
	}
}

func (s *AccountService) Register(ctx context.Context, username, password string) (*domain.Account, error) {
	safeUsername := sanitize.String(username)
	if safeUsername == "" || password == "" {
		return nil, domain.NewValidationError("Username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.Cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &domain.Account{Username: safeUsername, Password: string(hash)}
	if err := s.Repo.Create(ctx, account); err != nil {
		if !errors.Is(err, domain.ErrUsernameTaken) {
			s.Logger.Error("Error registering account", "error", err)
		}
		return nil, err
	}

	s.Logger.Info("Account registered", "user_id", account.ID)
	return account, nil
}

// Login checks the credentials and returns the account id with a fresh
// opaque token. The token is not checked by any endpoint.
func (s *AccountService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	account, err := s.Repo.GetByUsername(ctx, sanitize.String(username))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		s.Logger.Error("Error looking up account", "error", err)
		return nil, err
	}

	if _, err := bcrypt.Cost([]byte(account.Password)); err != nil {
		// Accounts created before hashing hold the password verbatim.
		if password == "" || subtle.ConstantTimeCompare([]byte(account.Password), []byte(password)) != 1 {
			return nil, domain.ErrInvalidCredentials
		}
		s.upgradePassword(ctx, account.ID, password)
	} else if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return &domain.Session{UserID: account.ID, Token: uuid.NewString()}, nil
}

// upgradePassword replaces a plaintext password with its hash. Failure only
// logs; the login itself already succeeded.
func (s *AccountService) upgradePassword(ctx context.Context, id int64, password string) {
	log := s.Logger.With("user_id", id)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.Cost)
	if err != nil {
		log.Error("Failed to hash legacy password", "error", err)
		return
	}
	if err := s.Repo.UpdatePassword(ctx, id, string(hash)); err != nil {
		log.Error("Failed to store rehashed password", "error", err)
		return
	}
	log.Info("Rehashed legacy password")
}

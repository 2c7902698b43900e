package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/followwise/followwise-api/internal/entity"
)

type AuthUseCase struct {
	Users  entity.UserRepositoryInterface
	Tokens TokenIssuer
}

func NewAuthUseCase(users entity.UserRepositoryInterface, tokens TokenIssuer) *AuthUseCase {
	return &AuthUseCase{Users: users, Tokens: tokens}
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*TokenOutput, error) {
	if errs := ValidateRegisterInput(input); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &TechnicalError{Code: CodePersistence, Message: "failed to hash password", Err: err}
	}

	user := entity.NewUser(normalizeEmail(input.Email), string(hash), strings.TrimSpace(input.FullName))
	if err := uc.Users.Create(ctx, user); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, persistenceError(err)
	}

	return uc.issue(user)
}

func (uc *AuthUseCase) Login(ctx context.Context, input LoginInput) (*TokenOutput, error) {
	user, err := uc.Users.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, persistenceError(err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return uc.issue(user)
}

// Authenticate resolves a bearer token to an active user.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	userID, err := uc.Tokens.Parse(token)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := uc.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, persistenceError(err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (uc *AuthUseCase) issue(user *entity.User) (*TokenOutput, error) {
	token, err := uc.Tokens.Issue(user.ID)
	if err != nil {
		return nil, &TechnicalError{Code: CodePersistence, Message: "failed to issue token", Err: fmt.Errorf("issue: %w", err)}
	}
	return &TokenOutput{AccessToken: token, TokenType: "bearer", User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

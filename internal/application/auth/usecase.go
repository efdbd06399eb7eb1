package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jfigueroa/stockcore/internal/application/dto"
	"github.com/jfigueroa/stockcore/internal/domain"
	"github.com/jfigueroa/stockcore/internal/domain/entity"
	"github.com/jfigueroa/stockcore/internal/domain/repository"
	"github.com/jfigueroa/stockcore/pkg/jwt"
	"github.com/jfigueroa/stockcore/pkg/logger"
)

// TokenSettings parameters for token issuing.
type TokenSettings struct {
	Secret     string
	Issuer     string
	ExpMinutes int
}

// UseCase handles registration and login.
type UseCase struct {
	users  repository.UserRepository
	tokens TokenSettings
	log    *logger.Logger
}

func New(users repository.UserRepository, tokens TokenSettings, log *logger.Logger) *UseCase {
	return &UseCase{users: users, tokens: tokens, log: log}
}

// Register creates a user with a bcrypt password hash.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if username == "" || email == "" || len(in.Password) < 8 {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.users.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.users.Create(ctx, u); err != nil {
		return nil, err
	}

	uc.log.Info().Str("user_id", u.ID).Str("username", u.Username).Msg("user registered")
	return toUserResponse(u), nil
}

// Login verifies credentials and issues a JWT. Wrong username and wrong
// password are indistinguishable to the caller.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	u, err := uc.users.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, domain.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrUnauthorized
	}

	token, err := jwt.Generate(uc.tokens.Secret, u.ID, uc.tokens.Issuer, uc.tokens.ExpMinutes)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		Type:  "bearer",
		User:  *toUserResponse(u),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

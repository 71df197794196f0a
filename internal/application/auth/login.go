package auth

import (
	"context"
	"time"

	"github.com/talhabinhussain/fullstack-todo-app/internal/application/ports"
	"github.com/talhabinhussain/fullstack-todo-app/internal/domain"
	domerrors "github.com/talhabinhussain/fullstack-todo-app/internal/domain/errors"
)

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	User        *domain.User
	AccessToken string
}

type Login struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	issuer ports.TokenIssuer
	ttl    time.Duration
}

func NewLogin(users ports.UserRepository, hasher ports.PasswordHasher, issuer ports.TokenIssuer, ttl time.Duration) *Login {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Login{users: users, hasher: hasher, issuer: issuer, ttl: ttl}
}

func (uc *Login) Execute(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := uc.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Burn a comparison so an unknown email costs the same as a wrong
		// password; both paths return the same sentinel.
		uc.hasher.DummyVerify(input.Password)
		return nil, domerrors.ErrInvalidCredentials
	}
	if !uc.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, domerrors.ErrInvalidCredentials
	}
	token, err := uc.issuer.Issue(user.ID.String(), user.Email, uc.ttl)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, AccessToken: token}, nil
}

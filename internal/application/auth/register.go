package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/talhabinhussain/fullstack-todo-app/internal/application/ports"
	"github.com/talhabinhussain/fullstack-todo-app/internal/domain"
	domerrors "github.com/talhabinhussain/fullstack-todo-app/internal/domain/errors"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// DefaultTokenTTL is the lifetime of tokens issued by register and login.
const DefaultTokenTTL = 1440 * time.Minute // 24 hours

// MaxPasswordBytes mirrors the bcrypt input limit enforced inside the
// hasher. Registration rejects longer passwords outright instead of
// truncating them; truncation inside the hasher is only a safety net.
const MaxPasswordBytes = 72

type RegisterInput struct {
	Email    string
	Password string
}

type RegisterResult struct {
	User        *domain.User
	AccessToken string
}

type Register struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	issuer ports.TokenIssuer
	ttl    time.Duration
}

func NewRegister(users ports.UserRepository, hasher ports.PasswordHasher, issuer ports.TokenIssuer, ttl time.Duration) *Register {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Register{users: users, hasher: hasher, issuer: issuer, ttl: ttl}
}

func (uc *Register) Execute(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if !emailRegex.MatchString(input.Email) {
		return nil, domerrors.ErrInvalidEmail
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	existing, err := uc.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domerrors.ErrEmailTaken
	}
	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &domain.User{
		ID:           domain.NewUserID(uuid.New()),
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// The unique constraint on users.email decides concurrent duplicates;
	// the loser of the race gets ErrEmailTaken from Create.
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	token, err := uc.issuer.Issue(user.ID.String(), user.Email, uc.ttl)
	if err != nil {
		return nil, err
	}
	return &RegisterResult{User: user, AccessToken: token}, nil
}

// ValidatePassword enforces the registration contract: no empty or
// whitespace-only passwords, and no passwords whose UTF-8 encoding exceeds
// 72 bytes.
func ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return domerrors.ErrPasswordEmpty
	}
	if len(password) > MaxPasswordBytes {
		return domerrors.ErrPasswordTooLong
	}
	return nil
}

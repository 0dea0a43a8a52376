package auth

import (
	"context"
	"errors"
	"time"

	"github.com/memocorner/repair-desk/internal/model"
	"github.com/memocorner/repair-desk/internal/repository"
)

// ErrBadCredentials covers both unknown usernames and wrong passwords so the
// two are indistinguishable to a caller.
var ErrBadCredentials = errors.New("invalid username or password")

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// Service authenticates operators and issues session tokens.
type Service struct {
	users  UserRepository
	tokens *TokenManager
}

func NewService(users UserRepository, tokens *TokenManager) *Service {
	return &Service{users: users, tokens: tokens}
}

func (s *Service) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrBadCredentials
		}
		return "", nil, err
	}
	if !CheckPassword(user.Password, password) {
		return "", nil, ErrBadCredentials
	}

	token, err := s.tokens.Issue(user, time.Now())
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

package services

import (
	"context"
	"strings"

	"github.com/exercise-tracker/apiserver/types"
	"github.com/sirupsen/logrus"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	List(ctx context.Context) ([]types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo     UserRepository
	logger   logrus.FieldLogger
	recorder Recorder
}

func NewUserService(repo UserRepository, logger logrus.FieldLogger, recorder Recorder) *UserService {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &UserService{repo: repo, logger: logger, recorder: recorder}
}

// Create stores a new user. The username is required but need not be unique.
func (s *UserService) Create(ctx context.Context, username string) (types.User, error) {
	if strings.TrimSpace(username) == "" {
		return types.User{}, invalid("username", "is required")
	}

	user, err := s.repo.Create(ctx, types.User{Username: username})
	if err != nil {
		s.logger.WithError(err).WithField("username", username).Error("create user failed")
		return types.User{}, persistence("create user", err)
	}

	s.recorder.UserCreated()
	return user, nil
}

// List returns every user in storage order.
func (s *UserService) List(ctx context.Context) ([]types.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("list users failed")
		return nil, persistence("list users", err)
	}
	return users, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.User{}, persistence("get user", err)
	}
	return user, nil
}

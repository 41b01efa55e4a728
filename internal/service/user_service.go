package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"perfumeadmin/internal/errs"
	"perfumeadmin/internal/models"
	"perfumeadmin/internal/repository"
)

type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	SetRole(ctx context.Context, userID, role string) error
}

type userService struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, logger *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, storageError("Failed to fetch users", err)
	}
	return users, nil
}

func (s *userService) SetRole(ctx context.Context, userID, role string) error {
	parsed, err := models.ParseRole(strings.TrimSpace(role))
	if err != nil {
		return errs.Validation("Role must be one of: visitor, admin")
	}

	if err := s.userRepo.UpdateRole(ctx, userID, parsed); err != nil {
		return storageError("Failed to update user role", err)
	}

	s.logger.Info("user role updated", zap.String("userId", userID), zap.String("role", string(parsed)))
	return nil
}

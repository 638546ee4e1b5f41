package services

import (
	"context"
	"time"

	"github.com/archstack/fieldreport/internal/core/domain/user"
	"github.com/archstack/fieldreport/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type UserService struct {
	userRepo ports.UserRepository
	logger   *logrus.Logger
}

func NewUserService(userRepo ports.UserRepository, logger *logrus.Logger) ports.UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req *user.UpdateProfileRequest) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Company != nil {
		u.Company = *req.Company
	}
	u.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": u.ID}).Debug("profile updated")
	}
	return u, nil
}

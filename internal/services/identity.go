package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/logger"
	"github.com/ajaypanchal761/createbharat-sub003/internal/repos"
)

// IdentityService resolves display names for rendering. Callers must treat a
// failure or an empty name as "use a placeholder"; identity is never allowed
// to block certificate rendering.
type IdentityService interface {
	GetDisplayName(ctx context.Context, userID uuid.UUID) (string, error)
}

type identityService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewIdentityService(baseLog *logger.Logger, userRepo repos.UserRepo) IdentityService {
	return &identityService{
		log:      baseLog.With("service", "IdentityService"),
		userRepo: userRepo,
	}
}

func (s *identityService) GetDisplayName(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}
	name := strings.TrimSpace(strings.TrimSpace(user.FirstName) + " " + strings.TrimSpace(user.LastName))
	return name, nil
}

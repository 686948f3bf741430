package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/logger"
	"github.com/ajaypanchal761/createbharat-sub003/internal/repos"
	"github.com/ajaypanchal761/createbharat-sub003/internal/types"
)

type EnrollmentService interface {
	// Enroll creates the progress record for (user, course), or returns the
	// existing one unchanged. It never resets progress.
	Enroll(ctx context.Context, userID, courseID uuid.UUID) (*types.CertificateProgress, error)
}

type enrollmentService struct {
	db           *gorm.DB
	log          *logger.Logger
	catalog      CatalogService
	progressRepo repos.CertificateProgressRepo
	locks        *KeyedMutex
}

func NewEnrollmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	catalog CatalogService,
	progressRepo repos.CertificateProgressRepo,
	locks *KeyedMutex,
) EnrollmentService {
	return &enrollmentService{
		db:           db,
		log:          baseLog.With("service", "EnrollmentService"),
		catalog:      catalog,
		progressRepo: progressRepo,
		locks:        locks,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, userID, courseID uuid.UUID) (*types.CertificateProgress, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user id")
	}
	if _, err := s.catalog.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(progressKey(userID, courseID))
	defer unlock()

	var result *types.CertificateProgress
	err := runInTx(ctx, s.db, func(tx *gorm.DB) error {
		existing, err := s.progressRepo.GetByUserAndCourse(ctx, tx, userID, courseID)
		if err != nil {
			return err
		}
		if existing != nil {
			result = existing
			return nil
		}

		row := &types.CertificateProgress{
			ID:            uuid.New(),
			UserID:        userID,
			CourseID:      courseID,
			PaymentStatus: types.PaymentStatusNone,
		}
		row.SetCompletedTopics(nil)
		if _, err := s.progressRepo.Create(ctx, tx, row); err != nil {
			// The unique (user_id, course_id) index may have raced an enroll
			// from another instance; re-read before giving up.
			if again, gerr := s.progressRepo.GetByUserAndCourse(ctx, tx, userID, courseID); gerr == nil && again != nil {
				result = again
				return nil
			}
			return err
		}
		result = row
		return nil
	})
	if err != nil {
		s.log.Warn("Enroll failed", "user_id", userID, "course_id", courseID, "error", err)
		return nil, err
	}
	return result, nil
}

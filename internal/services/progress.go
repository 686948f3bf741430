package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/logger"
	"github.com/ajaypanchal761/createbharat-sub003/internal/repos"
	"github.com/ajaypanchal761/createbharat-sub003/internal/types"
)

type ProgressService interface {
	// CompleteTopic marks a topic done for the user. Marking the same topic
	// twice is a no-op; the aggregate percentage is recomputed against the
	// live catalog on every call.
	CompleteTopic(ctx context.Context, userID, courseID, topicID uuid.UUID) (*types.CertificateProgress, error)
	GetProgress(ctx context.Context, userID, courseID uuid.UUID) (*types.CertificateProgress, error)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	catalog      CatalogService
	progressRepo repos.CertificateProgressRepo
	locks        *KeyedMutex
}

func NewProgressService(
	db *gorm.DB,
	baseLog *logger.Logger,
	catalog CatalogService,
	progressRepo repos.CertificateProgressRepo,
	locks *KeyedMutex,
) ProgressService {
	return &progressService{
		db:           db,
		log:          baseLog.With("service", "ProgressService"),
		catalog:      catalog,
		progressRepo: progressRepo,
		locks:        locks,
	}
}

func (s *progressService) CompleteTopic(ctx context.Context, userID, courseID, topicID uuid.UUID) (*types.CertificateProgress, error) {
	structure, err := s.catalog.GetCourseStructure(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if topicID == uuid.Nil || !structure.HasTopic(topicID) {
		return nil, ErrInvalidTopic
	}

	unlock := s.locks.Lock(progressKey(userID, courseID))
	defer unlock()

	var result *types.CertificateProgress
	err = runInTx(ctx, s.db, func(tx *gorm.DB) error {
		row, err := s.progressRepo.GetByUserAndCourseForUpdate(ctx, tx, userID, courseID)
		if err != nil {
			return err
		}
		if row == nil {
			return ErrNotEnrolled
		}

		completed := row.CompletedTopicSet()
		_, already := completed[topicID]
		completed[topicID] = struct{}{}

		// Percentage is derived from the intersection with the live topic
		// set, so topics removed from the catalog after enrollment stop
		// counting.
		percent := overallPercent(completed, structure)
		if already && percent == row.OverallProgress {
			result = row
			return nil
		}

		row.SetCompletedTopics(completed)
		row.OverallProgress = percent
		if err := s.progressRepo.Save(ctx, tx, row); err != nil {
			return err
		}
		result = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *progressService) GetProgress(ctx context.Context, userID, courseID uuid.UUID) (*types.CertificateProgress, error) {
	row, err := s.progressRepo.GetByUserAndCourse(ctx, nil, userID, courseID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotEnrolled
	}
	return row, nil
}

// overallPercent is floor(100 * completed-and-live / live). A course with no
// topics reports zero, which also keeps its certificate gate closed.
func overallPercent(completed map[uuid.UUID]struct{}, structure *types.CourseStructure) int {
	live := structure.TopicIDSet()
	if len(live) == 0 {
		return 0
	}
	n := 0
	for id := range completed {
		if _, ok := live[id]; ok {
			n++
		}
	}
	return 100 * n / len(live)
}

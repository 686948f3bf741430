package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/logger"
	"github.com/ajaypanchal761/createbharat-sub003/internal/types"
)

type CertificateProgressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.CertificateProgress) (*types.CertificateProgress, error)
	GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.CertificateProgress, error)
	// GetByUserAndCourseForUpdate locks the row for the duration of tx so
	// concurrent topic completions and payment transitions serialize on it.
	GetByUserAndCourseForUpdate(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.CertificateProgress, error)
	Save(ctx context.Context, tx *gorm.DB, row *types.CertificateProgress) error
}

type certificateProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCertificateProgressRepo(db *gorm.DB, baseLog *logger.Logger) CertificateProgressRepo {
	return &certificateProgressRepo{db: db, log: baseLog.With("repo", "CertificateProgressRepo")}
}

func (r *certificateProgressRepo) Create(ctx context.Context, tx *gorm.DB, row *types.CertificateProgress) (*types.CertificateProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil, nil
	}
	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *certificateProgressRepo) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.CertificateProgress, error) {
	return r.get(ctx, tx, userID, courseID, false)
}

func (r *certificateProgressRepo) GetByUserAndCourseForUpdate(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.CertificateProgress, error) {
	return r.get(ctx, tx, userID, courseID, true)
}

func (r *certificateProgressRepo) get(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID, forUpdate bool) (*types.CertificateProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx)
	// sqlite (local mode) has no SELECT ... FOR UPDATE; its writes are
	// serialized by the single writer anyway.
	if forUpdate && transaction.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row types.CertificateProgress
	err := q.Where("user_id = ? AND course_id = ?", userID, courseID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *certificateProgressRepo) Save(ctx context.Context, tx *gorm.DB, row *types.CertificateProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(row).Error
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ajaypanchal761/createbharat-sub003/internal/types"
)

func TestEnrollCreatesFreshRecord(t *testing.T) {
	f := newFixture(t, 3)

	row, err := f.enrollment.Enroll(context.Background(), f.userID, f.courseID)
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if row.UserID != f.userID || row.CourseID != f.courseID {
		t.Fatalf("row bound to wrong keys: %s/%s", row.UserID, row.CourseID)
	}
	if row.OverallProgress != 0 {
		t.Errorf("OverallProgress = %d, want 0", row.OverallProgress)
	}
	if row.PaymentStatus != types.PaymentStatusNone {
		t.Errorf("PaymentStatus = %q, want %q", row.PaymentStatus, types.PaymentStatusNone)
	}
	if len(row.CompletedTopicSet()) != 0 {
		t.Errorf("new record has completed topics")
	}
}

func TestEnrollIsIdempotent(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	first, err := f.enrollment.Enroll(ctx, f.userID, f.courseID)
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if _, err := f.progress.CompleteTopic(ctx, f.userID, f.courseID, f.topicIDs[0]); err != nil {
		t.Fatalf("CompleteTopic: %v", err)
	}

	second, err := f.enrollment.Enroll(ctx, f.userID, f.courseID)
	if err != nil {
		t.Fatalf("second Enroll: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("re-enroll created a new record: %s vs %s", second.ID, first.ID)
	}
	if second.OverallProgress != 33 {
		t.Errorf("re-enroll reset progress: got %d, want 33", second.OverallProgress)
	}
}

func TestEnrollUnknownCourse(t *testing.T) {
	f := newFixture(t, 3)

	_, err := f.enrollment.Enroll(context.Background(), f.userID, uuid.New())
	if !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("err = %v, want ErrCourseNotFound", err)
	}
}

// racingProgressRepo reports no row on the first read so the service goes
// down the create path, then surfaces the pre-inserted row on the conflict
// re-read. That mirrors another instance winning the insert in between.
type racingProgressRepo struct {
	*fakeProgressRepo
	firstRead bool
}

func (r *racingProgressRepo) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.CertificateProgress, error) {
	if !r.firstRead {
		r.firstRead = true
		return nil, nil
	}
	return r.fakeProgressRepo.GetByUserAndCourse(ctx, tx, userID, courseID)
}

func TestEnrollSurvivesCreateRace(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	raced := &types.CertificateProgress{
		ID:            uuid.New(),
		UserID:        f.userID,
		CourseID:      f.courseID,
		PaymentStatus: types.PaymentStatusNone,
	}
	raced.SetCompletedTopics(nil)
	f.progressRepo.put(raced)

	enrollment := NewEnrollmentService(nil, testLogger(), f.catalog,
		&racingProgressRepo{fakeProgressRepo: f.progressRepo}, NewKeyedMutex())

	row, err := enrollment.Enroll(ctx, f.userID, f.courseID)
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if row.ID != raced.ID {
		t.Fatalf("expected the raced record back, got %s", row.ID)
	}
}

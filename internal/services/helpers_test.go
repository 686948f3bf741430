package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/apierr"
	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/logger"
	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/razorpay"
	"github.com/ajaypanchal761/createbharat-sub003/internal/types"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func assertCode(t *testing.T, err error, code string, status int) {
	t.Helper()
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v, want *apierr.Error", err)
	}
	if ae.Code != code || ae.Status != status {
		t.Fatalf("got %d/%s, want %d/%s", ae.Status, ae.Code, status, code)
	}
}

// --- catalog fakes ---

type fakeCourseRepo struct {
	courses map[uuid.UUID]*types.Course
}

func (f *fakeCourseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error) {
	return f.courses[id], nil
}

func (f *fakeCourseRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Course, error) {
	out := make([]*types.Course, 0, len(f.courses))
	for _, c := range f.courses {
		out = append(out, c)
	}
	return out, nil
}

type fakeModuleRepo struct {
	modules []*types.CourseModule
}

func (f *fakeModuleRepo) GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.CourseModule, error) {
	var out []*types.CourseModule
	for _, m := range f.modules {
		if m.CourseID == courseID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeTopicRepo struct {
	mu     sync.Mutex
	topics []*types.Topic
}

func (f *fakeTopicRepo) GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Topic
	for _, t := range f.topics {
		if t.CourseID == courseID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTopicRepo) remove(topicID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.topics[:0]
	for _, t := range f.topics {
		if t.ID != topicID {
			kept = append(kept, t)
		}
	}
	f.topics = kept
}

type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*types.User
	byEmail map[string]*types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[uuid.UUID]*types.User{}, byEmail: map[string]*types.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[user.Email]; ok {
		return nil, gorm.ErrDuplicatedKey
	}
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return user, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id], nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byEmail[email], nil
}

// --- progress fake ---

type fakeProgressRepo struct {
	mu      sync.Mutex
	rows    map[string]*types.CertificateProgress
	saveErr error
	saves   int
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{rows: map[string]*types.CertificateProgress{}}
}

func rowKey(userID, courseID uuid.UUID) string {
	return userID.String() + "|" + courseID.String()
}

func cloneRow(r *types.CertificateProgress) *types.CertificateProgress {
	if r == nil {
		return nil
	}
	c := *r
	c.CompletedTopics = append(datatypes.JSON(nil), r.CompletedTopics...)
	if r.OrderID != nil {
		v := *r.OrderID
		c.OrderID = &v
	}
	if r.TransactionID != nil {
		v := *r.TransactionID
		c.TransactionID = &v
	}
	if r.PaymentConfirmedAt != nil {
		v := *r.PaymentConfirmedAt
		c.PaymentConfirmedAt = &v
	}
	return &c
}

func (f *fakeProgressRepo) Create(ctx context.Context, tx *gorm.DB, row *types.CertificateProgress) (*types.CertificateProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := rowKey(row.UserID, row.CourseID)
	if _, ok := f.rows[k]; ok {
		return nil, gorm.ErrDuplicatedKey
	}
	f.rows[k] = cloneRow(row)
	return cloneRow(row), nil
}

func (f *fakeProgressRepo) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.CertificateProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneRow(f.rows[rowKey(userID, courseID)]), nil
}

func (f *fakeProgressRepo) GetByUserAndCourseForUpdate(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.CertificateProgress, error) {
	return f.GetByUserAndCourse(ctx, tx, userID, courseID)
}

func (f *fakeProgressRepo) Save(ctx context.Context, tx *gorm.DB, row *types.CertificateProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.rows[rowKey(row.UserID, row.CourseID)] = cloneRow(row)
	return nil
}

func (f *fakeProgressRepo) put(row *types.CertificateProgress) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[rowKey(row.UserID, row.CourseID)] = cloneRow(row)
}

// --- gateway fake ---

type fakeGateway struct {
	mu     sync.Mutex
	secret string
	fail   bool
	orders int
}

func (g *fakeGateway) CreateOrder(ctx context.Context, req razorpay.CreateOrderRequest) (*razorpay.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return nil, fmt.Errorf("gateway down")
	}
	g.orders++
	return &razorpay.Order{
		ID:       fmt.Sprintf("order_F%03d", g.orders),
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	}, nil
}

func (g *fakeGateway) VerifyPaymentSignature(orderID, paymentID, signature string) error {
	return razorpay.VerifySignature(g.secret, orderID, paymentID, signature)
}

func (g *fakeGateway) KeyID() string { return "rzp_test_fake" }

// --- fixture ---

type fixture struct {
	catalog     CatalogService
	enrollment  EnrollmentService
	progress    ProgressService
	certificate CertificateService

	progressRepo *fakeProgressRepo
	topicRepo    *fakeTopicRepo
	gateway      *fakeGateway

	userID   uuid.UUID
	courseID uuid.UUID
	topicIDs []uuid.UUID
}

// newFixture builds one course with a single module of topicCount topics and
// wires every service against in-memory fakes.
func newFixture(t *testing.T, topicCount int) *fixture {
	t.Helper()
	log := testLogger()

	courseID := uuid.New()
	moduleID := uuid.New()
	courseRepo := &fakeCourseRepo{courses: map[uuid.UUID]*types.Course{
		courseID: {
			ID:               courseID,
			Title:            "Digital Marketing Fundamentals",
			CertificatePrice: 49900,
			Currency:         "INR",
		},
	}}
	moduleRepo := &fakeModuleRepo{modules: []*types.CourseModule{
		{ID: moduleID, CourseID: courseID, Index: 0, Title: "Module 1"},
	}}
	topicRepo := &fakeTopicRepo{}
	topicIDs := make([]uuid.UUID, 0, topicCount)
	for i := 0; i < topicCount; i++ {
		id := uuid.New()
		topicIDs = append(topicIDs, id)
		topicRepo.topics = append(topicRepo.topics, &types.Topic{
			ID:       id,
			ModuleID: moduleID,
			CourseID: courseID,
			Index:    i,
			Title:    fmt.Sprintf("Topic %d", i+1),
		})
	}

	progressRepo := newFakeProgressRepo()
	gateway := &fakeGateway{secret: "test_secret"}
	locks := NewKeyedMutex()

	catalog := NewCatalogService(nil, log, courseRepo, moduleRepo, topicRepo, nil)
	return &fixture{
		catalog:      catalog,
		enrollment:   NewEnrollmentService(nil, log, catalog, progressRepo, locks),
		progress:     NewProgressService(nil, log, catalog, progressRepo, locks),
		certificate:  NewCertificateService(nil, log, catalog, progressRepo, gateway, locks),
		progressRepo: progressRepo,
		topicRepo:    topicRepo,
		gateway:      gateway,
		userID:       uuid.New(),
		courseID:     courseID,
		topicIDs:     topicIDs,
	}
}

func (f *fixture) completeAll(t *testing.T) *types.CertificateProgress {
	t.Helper()
	var row *types.CertificateProgress
	var err error
	for _, id := range f.topicIDs {
		row, err = f.progress.CompleteTopic(context.Background(), f.userID, f.courseID, id)
		if err != nil {
			t.Fatalf("CompleteTopic(%s): %v", id, err)
		}
	}
	return row
}

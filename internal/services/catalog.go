package services

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	redisclient "github.com/ajaypanchal761/createbharat-sub003/internal/clients/redis"
	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/logger"
	"github.com/ajaypanchal761/createbharat-sub003/internal/repos"
	"github.com/ajaypanchal761/createbharat-sub003/internal/types"
)

// CatalogService is the read-only adapter over the course catalog. Everything
// downstream (enrollment, progress, certificate gate) resolves course content
// through it, never through the catalog tables directly.
type CatalogService interface {
	GetCourse(ctx context.Context, courseID uuid.UUID) (*types.Course, error)
	GetCourseStructure(ctx context.Context, courseID uuid.UUID) (*types.CourseStructure, error)
	ListCourses(ctx context.Context) ([]*types.Course, error)
}

type catalogService struct {
	db         *gorm.DB
	log        *logger.Logger
	courseRepo repos.CourseRepo
	moduleRepo repos.CourseModuleRepo
	topicRepo  repos.TopicRepo
	cache      redisclient.CatalogCache // optional
}

func NewCatalogService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courseRepo repos.CourseRepo,
	moduleRepo repos.CourseModuleRepo,
	topicRepo repos.TopicRepo,
	cache redisclient.CatalogCache,
) CatalogService {
	return &catalogService{
		db:         db,
		log:        baseLog.With("service", "CatalogService"),
		courseRepo: courseRepo,
		moduleRepo: moduleRepo,
		topicRepo:  topicRepo,
		cache:      cache,
	}
}

func (s *catalogService) GetCourse(ctx context.Context, courseID uuid.UUID) (*types.Course, error) {
	if courseID == uuid.Nil {
		return nil, ErrCourseNotFound
	}
	course, err := s.courseRepo.GetByID(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

func (s *catalogService) ListCourses(ctx context.Context) ([]*types.Course, error) {
	return s.courseRepo.List(ctx, nil)
}

// GetCourseStructure assembles the live Course -> [Module -> [Topic]] view.
// Cache hits skip the database entirely; misses fan the three reads out
// concurrently and repopulate the cache.
func (s *catalogService) GetCourseStructure(ctx context.Context, courseID uuid.UUID) (*types.CourseStructure, error) {
	if courseID == uuid.Nil {
		return nil, ErrCourseNotFound
	}

	if s.cache != nil {
		if structure, ok := s.cache.GetStructure(ctx, courseID); ok {
			return structure, nil
		}
	}

	var (
		course  *types.Course
		modules []*types.CourseModule
		topics  []*types.Topic
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		course, err = s.courseRepo.GetByID(gctx, nil, courseID)
		return err
	})
	g.Go(func() error {
		var err error
		modules, err = s.moduleRepo.GetByCourseID(gctx, nil, courseID)
		return err
	})
	g.Go(func() error {
		var err error
		topics, err = s.topicRepo.GetByCourseID(gctx, nil, courseID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Warn("Catalog structure load failed", "course_id", courseID, "error", err)
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	topicsByModule := make(map[uuid.UUID][]*types.Topic, len(modules))
	for _, t := range topics {
		topicsByModule[t.ModuleID] = append(topicsByModule[t.ModuleID], t)
	}

	structure := &types.CourseStructure{
		CourseID:         course.ID,
		Title:            course.Title,
		CertificatePrice: course.CertificatePrice,
		Currency:         course.Currency,
		Modules:          make([]types.ModuleStructure, 0, len(modules)),
	}
	for _, m := range modules {
		mt := topicsByModule[m.ID]
		sort.SliceStable(mt, func(i, j int) bool { return mt[i].Index < mt[j].Index })
		ids := make([]uuid.UUID, 0, len(mt))
		for _, t := range mt {
			ids = append(ids, t.ID)
		}
		structure.Modules = append(structure.Modules, types.ModuleStructure{
			ModuleID: m.ID,
			Index:    m.Index,
			Title:    m.Title,
			TopicIDs: ids,
		})
	}

	if s.cache != nil {
		s.cache.SetStructure(ctx, structure)
	}
	return structure, nil
}

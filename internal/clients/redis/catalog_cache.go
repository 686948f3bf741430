package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/envutil"
	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/logger"
	"github.com/ajaypanchal761/createbharat-sub003/internal/types"
)

// CatalogCache is a read-through cache for course structures. The catalog is
// immutable from this service's point of view, so a short TTL is enough to
// pick up admin-side edits without a dedicated invalidation channel.
type CatalogCache interface {
	GetStructure(ctx context.Context, courseID uuid.UUID) (*types.CourseStructure, bool)
	SetStructure(ctx context.Context, structure *types.CourseStructure)
	Close() error
}

type catalogCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewCatalogCache(log *logger.Logger) (CatalogCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttl := envutil.Duration("CATALOG_CACHE_TTL", 5*time.Minute)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &catalogCache{
		log: log.With("client", "CatalogCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func cacheKey(courseID uuid.UUID) string {
	return "catalog:structure:" + courseID.String()
}

func (c *catalogCache) GetStructure(ctx context.Context, courseID uuid.UUID) (*types.CourseStructure, bool) {
	raw, err := c.rdb.Get(ctx, cacheKey(courseID)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Catalog cache read failed", "course_id", courseID, "error", err)
		}
		return nil, false
	}
	var structure types.CourseStructure
	if err := json.Unmarshal(raw, &structure); err != nil {
		c.log.Warn("Catalog cache entry corrupt, dropping", "course_id", courseID, "error", err)
		_ = c.rdb.Del(ctx, cacheKey(courseID)).Err()
		return nil, false
	}
	return &structure, true
}

func (c *catalogCache) SetStructure(ctx context.Context, structure *types.CourseStructure) {
	if structure == nil {
		return
	}
	raw, err := json.Marshal(structure)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(structure.CourseID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Catalog cache write failed", "course_id", structure.CourseID, "error", err)
	}
}

func (c *catalogCache) Close() error {
	return c.rdb.Close()
}

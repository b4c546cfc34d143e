package repository

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	projectKeyPrefix = "pm:project:" // Cached document fields: pm:project:{project_id}
	projectCacheTTL  = 5 * time.Minute
)

// ProjectCache keeps recently read project documents in Redis. It is a
// soft cache: every failure degrades to a miss and the document store
// stays authoritative.
type ProjectCache struct {
	client *redis.Client
}

// NewProjectCache creates a new ProjectCache.
func NewProjectCache(client *redis.Client) *ProjectCache {
	return &ProjectCache{client: client}
}

// GetProject returns the cached field map for a project, if present.
func (c *ProjectCache) GetProject(ctx context.Context, id string) (map[string]any, bool) {
	payload, err := c.client.Get(ctx, projectKeyPrefix+id).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("[warn] operation=cache_get project_id=%s error=%v", id, err)
		return nil, false
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		log.Printf("[warn] operation=cache_get project_id=%s error=%v", id, err)
		return nil, false
	}
	return data, true
}

// SetProject stores the field map with the cache TTL.
func (c *ProjectCache) SetProject(ctx context.Context, id string, data map[string]any) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("[warn] operation=cache_set project_id=%s error=%v", id, err)
		return
	}
	if err := c.client.Set(ctx, projectKeyPrefix+id, payload, projectCacheTTL).Err(); err != nil {
		log.Printf("[warn] operation=cache_set project_id=%s error=%v", id, err)
	}
}

// Invalidate drops the cached entry after any write to the project.
func (c *ProjectCache) Invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, projectKeyPrefix+id).Err(); err != nil {
		log.Printf("[warn] operation=cache_invalidate project_id=%s error=%v", id, err)
	}
}

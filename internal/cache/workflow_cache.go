package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"qbank/internal/model"
)

const sessionTTL = 2 * time.Hour

// WorkflowCache stores workflow sessions keyed by session id. One session
// exists per key, which is how concurrent callers are serialized.
type WorkflowCache interface {
	Set(ctx context.Context, session *model.WorkflowSession) error
	Get(ctx context.Context, id string) (*model.WorkflowSession, error)
	Delete(ctx context.Context, id string) error
}

type workflowCache struct {
	client *redis.Client
}

// NewWorkflowCache creates a Redis-backed workflow cache
func NewWorkflowCache(client *redis.Client) WorkflowCache {
	return &workflowCache{
		client: client,
	}
}

func (c *workflowCache) Set(ctx context.Context, session *model.WorkflowSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "workflow:"+session.ID, data, sessionTTL).Err()
}

func (c *workflowCache) Get(ctx context.Context, id string) (*model.WorkflowSession, error) {
	data, err := c.client.Get(ctx, "workflow:"+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var session model.WorkflowSession
	err = json.Unmarshal([]byte(data), &session)
	return &session, err
}

func (c *workflowCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, "workflow:"+id).Err()
}

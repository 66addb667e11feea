package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"kanban/internal/model"
)

type taskBackend interface {
	ListTasks(ctx context.Context, boardIdx uint) ([]model.Task, error)
	GetTask(ctx context.Context, taskIdx uint) (*model.Task, error)
	CreateTask(ctx context.Context, in model.NewTask) (*model.Task, error)
	UpdateTask(ctx context.Context, taskIdx uint, patch model.TaskPatch) (*model.Task, error)
	DeleteTask(ctx context.Context, taskIdx uint) (*model.Task, error)
	ApplyPlacements(ctx context.Context, boardIdx uint, placements []model.Placement) error
}

// TaskCache wraps a task backend with a Redis cache of per-board task lists.
// A nil client turns it into a pass-through.
type TaskCache struct {
	base  taskBackend
	redis *redis.Client
	ttl   time.Duration
}

// NewTaskCache creates a caching wrapper using the provided Redis client and TTL.
func NewTaskCache(base taskBackend, client *redis.Client, ttl time.Duration) *TaskCache {
	if base == nil {
		panic("repository.NewTaskCache: base is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &TaskCache{base: base, redis: client, ttl: ttl}
}

func (c *TaskCache) ListTasks(ctx context.Context, boardIdx uint) ([]model.Task, error) {
	if tasks, ok := c.load(ctx, boardIdx); ok {
		return tasks, nil
	}

	// The generation is read before the database so a write that evicts
	// in between is seen by store.
	gen, genOK := c.generation(ctx, boardIdx)

	tasks, err := c.base.ListTasks(ctx, boardIdx)
	if err != nil {
		return nil, err
	}

	if genOK {
		c.store(ctx, boardIdx, gen, tasks)
	}
	return tasks, nil
}

func (c *TaskCache) GetTask(ctx context.Context, taskIdx uint) (*model.Task, error) {
	return c.base.GetTask(ctx, taskIdx)
}

func (c *TaskCache) CreateTask(ctx context.Context, in model.NewTask) (*model.Task, error) {
	task, err := c.base.CreateTask(ctx, in)
	if err != nil {
		return nil, err
	}
	c.Evict(ctx, task.BoardIdx)
	return task, nil
}

func (c *TaskCache) UpdateTask(ctx context.Context, taskIdx uint, patch model.TaskPatch) (*model.Task, error) {
	task, err := c.base.UpdateTask(ctx, taskIdx, patch)
	if err != nil {
		return nil, err
	}
	c.Evict(ctx, task.BoardIdx)
	return task, nil
}

func (c *TaskCache) DeleteTask(ctx context.Context, taskIdx uint) (*model.Task, error) {
	task, err := c.base.DeleteTask(ctx, taskIdx)
	if err != nil {
		return nil, err
	}
	c.Evict(ctx, task.BoardIdx)
	return task, nil
}

func (c *TaskCache) ApplyPlacements(ctx context.Context, boardIdx uint, placements []model.Placement) error {
	err := c.base.ApplyPlacements(ctx, boardIdx, placements)
	// A failed transaction may still have raced with other writers.
	c.Evict(ctx, boardIdx)
	return err
}

// Evict drops the cached task list of a board and bumps its generation, so a
// list read that started before the write is not cached.
func (c *TaskCache) Evict(ctx context.Context, boardIdx uint) {
	if c.redis == nil {
		return
	}
	_, _ = c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, tasksGenKey(boardIdx))
		pipe.Del(ctx, tasksCacheKey(boardIdx))
		return nil
	})
}

func (c *TaskCache) generation(ctx context.Context, boardIdx uint) (int64, bool) {
	if c.redis == nil || c.ttl == 0 {
		return 0, false
	}
	gen, err := c.redis.Get(ctx, tasksGenKey(boardIdx)).Int64()
	switch {
	case err == redis.Nil:
		return 0, true
	case err != nil:
		return 0, false
	}
	return gen, true
}

func (c *TaskCache) load(ctx context.Context, boardIdx uint) ([]model.Task, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, tasksCacheKey(boardIdx)).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the database without failing.
			_ = c.redis.Del(ctx, tasksCacheKey(boardIdx)).Err()
		}
		return nil, false
	}
	var tasks []model.Task
	if err := sonic.Unmarshal(data, &tasks); err != nil {
		_ = c.redis.Del(ctx, tasksCacheKey(boardIdx)).Err()
		return nil, false
	}
	return tasks, true
}

// store caches tasks only while the board generation still equals gen.
func (c *TaskCache) store(ctx context.Context, boardIdx uint, gen int64, tasks []model.Task) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := sonic.Marshal(tasks)
	if err != nil {
		return
	}
	genKey := tasksGenKey(boardIdx)
	_ = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, tasksCacheKey(boardIdx), data, c.ttl)
			return nil
		})
		return err
	}, genKey)
}

func tasksCacheKey(boardIdx uint) string {
	return "tasks:board:" + strconv.FormatUint(uint64(boardIdx), 10)
}

func tasksGenKey(boardIdx uint) string {
	return tasksCacheKey(boardIdx) + ":gen"
}

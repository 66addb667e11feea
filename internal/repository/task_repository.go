package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"kanban/internal/model"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// ListTasks returns the tasks of a board ordered by location.
func (r *TaskRepository) ListTasks(ctx context.Context, boardIdx uint) ([]model.Task, error) {
	tasks := make([]model.Task, 0)
	if err := r.db.WithContext(ctx).Where("board_idx = ?", boardIdx).
		Order("location ASC, idx ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) GetTask(ctx context.Context, taskIdx uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, taskIdx).Error; err != nil {
		return nil, fmt.Errorf("get task: %w", translate(err))
	}
	return &task, nil
}

// CreateTask inserts a task. Without an explicit location it is appended to its column.
func (r *TaskRepository) CreateTask(ctx context.Context, in model.NewTask) (*model.Task, error) {
	task := model.Task{
		BoardIdx: in.BoardIdx,
		Contents: in.Contents,
		Status:   in.Status,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.Location != nil {
			task.Location = *in.Location
		} else {
			var next int
			if err := tx.Model(&model.Task{}).
				Where("board_idx = ? AND status = ?", in.BoardIdx, in.Status).
				Select("COALESCE(MAX(location), -1) + 1").
				Scan(&next).Error; err != nil {
				return fmt.Errorf("next location: %w", err)
			}
			task.Location = next
		}
		if err := tx.Create(&task).Error; err != nil {
			return fmt.Errorf("create task: %w", translate(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies a partial update and bumps the version. When the patch
// carries a version the update only applies to that version.
func (r *TaskRepository) UpdateTask(ctx context.Context, taskIdx uint, patch model.TaskPatch) (*model.Task, error) {
	db := r.db.WithContext(ctx)
	if patch.Empty() {
		return r.GetTask(ctx, taskIdx)
	}

	updates := map[string]interface{}{
		"version": gorm.Expr("version + 1"),
	}
	if patch.Contents != nil {
		updates["contents"] = *patch.Contents
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.Location != nil {
		updates["location"] = *patch.Location
	}

	query := db.Model(&model.Task{}).Where("idx = ?", taskIdx)
	if patch.Version != nil {
		query = query.Where("version = ?", *patch.Version)
	}
	res := query.Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update task: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetTask(ctx, taskIdx); err != nil {
			return nil, fmt.Errorf("update task: %w", err)
		}
		return nil, fmt.Errorf("update task %d: %w", taskIdx, ErrConflict)
	}
	return r.GetTask(ctx, taskIdx)
}

// DeleteTask removes a task and returns the deleted record.
func (r *TaskRepository) DeleteTask(ctx context.Context, taskIdx uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, taskIdx).Error; err != nil {
			return fmt.Errorf("delete task: %w", translate(err))
		}
		if err := tx.Delete(&model.Task{}, taskIdx).Error; err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ApplyPlacements persists a batch of placements for one board atomically.
func (r *TaskRepository) ApplyPlacements(ctx context.Context, boardIdx uint, placements []model.Placement) error {
	if len(placements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range placements {
			updates := map[string]interface{}{
				"location": p.Location,
				"version":  gorm.Expr("version + 1"),
			}
			if p.StatusChanged {
				updates["status"] = p.Status
			}
			res := tx.Model(&model.Task{}).Where("idx = ? AND board_idx = ?", p.TaskIdx, boardIdx).Updates(updates)
			if res.Error != nil {
				return fmt.Errorf("place task %d: %w", p.TaskIdx, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("place task %d: %w", p.TaskIdx, ErrNotFound)
			}
		}
		return nil
	})
}

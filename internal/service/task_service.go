package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"kanban/internal/board"
	"kanban/internal/model"
)

// TaskStore is the persistence the task service needs: the Manager's store
// plus single reads and batched placements.
type TaskStore interface {
	board.TaskStore
	GetTask(ctx context.Context, taskIdx uint) (*model.Task, error)
	ApplyPlacements(ctx context.Context, boardIdx uint, placements []model.Placement) error
}

// CreateTaskInput is the create form. Status is the raw wire value.
type CreateTaskInput struct {
	Contents string
	Status   string
	Location *int
}

// UpdateTaskInput is a partial update. Nil fields are left untouched.
type UpdateTaskInput struct {
	Contents *string
	Status   *string
	Location *int
	Version  *int
}

// MoveResult is the board after a move and the placements that were written.
type MoveResult struct {
	Columns board.Columns     `json:"columns"`
	Writes  []model.Placement `json:"writes"`
}

// TaskService wraps task-related business logic.
type TaskService struct {
	store  TaskStore
	boards *BoardService
	locks  *BoardLocks
	log    *logrus.Logger
}

func NewTaskService(store TaskStore, boards *BoardService, locks *BoardLocks, log *logrus.Logger) *TaskService {
	return &TaskService{store: store, boards: boards, locks: locks, log: log}
}

func (s *TaskService) List(ctx context.Context, userIdx, boardIdx uint) ([]model.Task, error) {
	if _, err := s.boards.Authorize(ctx, userIdx, boardIdx); err != nil {
		return nil, err
	}
	return s.store.ListTasks(ctx, boardIdx)
}

func (s *TaskService) Create(ctx context.Context, userIdx, boardIdx uint, in CreateTaskInput) (*model.Task, error) {
	if strings.TrimSpace(in.Contents) == "" {
		return nil, invalid("contents", "contents must be a non-empty string")
	}
	status, err := model.ParseStatus(in.Status)
	if err != nil {
		return nil, invalid("status", err.Error())
	}
	if in.Location != nil && *in.Location < 0 {
		return nil, invalid("location", "location must not be negative")
	}
	if _, err := s.boards.Authorize(ctx, userIdx, boardIdx); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(boardIdx)
	defer unlock()
	return s.store.CreateTask(ctx, model.NewTask{
		BoardIdx: boardIdx,
		Contents: in.Contents,
		Status:   status,
		Location: in.Location,
	})
}

// Get returns a task of a board owned by userIdx.
func (s *TaskService) Get(ctx context.Context, userIdx, taskIdx uint) (*model.Task, error) {
	task, err := s.store.GetTask(ctx, taskIdx)
	if err != nil {
		return nil, err
	}
	if _, err := s.boards.Authorize(ctx, userIdx, task.BoardIdx); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, userIdx, taskIdx uint, in UpdateTaskInput) (*model.Task, error) {
	var patch model.TaskPatch
	if in.Contents != nil {
		if strings.TrimSpace(*in.Contents) == "" {
			return nil, invalid("contents", "contents must be a non-empty string")
		}
		patch.Contents = in.Contents
	}
	if in.Status != nil {
		status, err := model.ParseStatus(*in.Status)
		if err != nil {
			return nil, invalid("status", err.Error())
		}
		patch.Status = &status
	}
	if in.Location != nil {
		if *in.Location < 0 {
			return nil, invalid("location", "location must not be negative")
		}
		patch.Location = in.Location
	}
	patch.Version = in.Version

	task, err := s.Get(ctx, userIdx, taskIdx)
	if err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(task.BoardIdx)
	defer unlock()
	return s.store.UpdateTask(ctx, taskIdx, patch)
}

func (s *TaskService) Delete(ctx context.Context, userIdx, taskIdx uint) (*model.Task, error) {
	task, err := s.Get(ctx, userIdx, taskIdx)
	if err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(task.BoardIdx)
	defer unlock()
	return s.store.DeleteTask(ctx, taskIdx)
}

// Columns rebuilds the column view of a board from the store.
func (s *TaskService) Columns(ctx context.Context, userIdx, boardIdx uint) (board.Columns, error) {
	if _, err := s.boards.Authorize(ctx, userIdx, boardIdx); err != nil {
		return nil, err
	}
	m := board.NewManager(s.store, boardIdx, s.log)
	if err := m.Rebuild(ctx); err != nil {
		return nil, err
	}
	return m.Columns(), nil
}

// Move applies a drag-and-drop move on the server. When a write fails the
// board is rebuilt and the fresh columns come back with an error wrapping
// board.ErrDesynchronized.
func (s *TaskService) Move(ctx context.Context, userIdx, boardIdx uint, mv board.Move) (*MoveResult, error) {
	if _, err := s.boards.Authorize(ctx, userIdx, boardIdx); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(boardIdx)
	defer unlock()

	m := board.NewManager(s.store, boardIdx, s.log)
	if err := m.Rebuild(ctx); err != nil {
		return nil, err
	}

	writes, err := m.Apply(ctx, mv)
	if err != nil {
		if !errors.Is(err, board.ErrDesynchronized) {
			return nil, err
		}
		if rerr := m.Rebuild(ctx); rerr != nil {
			return nil, fmt.Errorf("%w; %v", err, rerr)
		}
		return &MoveResult{Columns: m.Columns(), Writes: []model.Placement{}}, err
	}
	if writes == nil {
		writes = []model.Placement{}
	}
	return &MoveResult{Columns: m.Columns(), Writes: writes}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"kanban/internal/board"
	"kanban/internal/model"
	"kanban/internal/repository"
)

type compactStore interface {
	ListTasks(ctx context.Context, boardIdx uint) ([]model.Task, error)
	ApplyPlacements(ctx context.Context, boardIdx uint, placements []model.Placement) error
}

// CompactionService closes the location gaps deletes leave behind.
type CompactionService struct {
	boards *repository.BoardRepository
	tasks  compactStore
	locks  *BoardLocks
	log    *logrus.Logger
}

func NewCompactionService(boards *repository.BoardRepository, tasks compactStore, locks *BoardLocks, log *logrus.Logger) *CompactionService {
	return &CompactionService{boards: boards, tasks: tasks, locks: locks, log: log}
}

// CompactBoard renumbers every column of a board densely and returns the
// number of tasks rewritten.
func (s *CompactionService) CompactBoard(ctx context.Context, boardIdx uint) (int, error) {
	unlock := s.locks.Lock(boardIdx)
	defer unlock()

	tasks, err := s.tasks.ListTasks(ctx, boardIdx)
	if err != nil {
		return 0, err
	}
	placements := board.Compact(tasks)
	if len(placements) == 0 {
		return 0, nil
	}
	if err := s.tasks.ApplyPlacements(ctx, boardIdx, placements); err != nil {
		return 0, fmt.Errorf("compact board %d: %w", boardIdx, err)
	}
	return len(placements), nil
}

// CompactAll walks every board. A failing board is logged and skipped.
func (s *CompactionService) CompactAll(ctx context.Context) (int, error) {
	const op = "service.CompactAll"
	log := s.log.WithField("operation", op)

	idxs, err := s.boards.ListIdxs(ctx)
	if err != nil {
		return 0, err
	}

	var (
		total int
		errs  []error
	)
	for _, idx := range idxs {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := s.CompactBoard(ctx, idx)
		if err != nil {
			log.WithError(err).WithField("board", idx).Warn("compaction failed")
			errs = append(errs, err)
			continue
		}
		if n > 0 {
			log.WithFields(logrus.Fields{"board": idx, "tasks": n}).Info("board compacted")
		}
		total += n
	}
	return total, errors.Join(errs...)
}

package service

import (
	"context"
	"fmt"
	"strings"

	"kanban/internal/model"
	"kanban/internal/repository"
)

type cacheEvicter interface {
	Evict(ctx context.Context, boardIdx uint)
}

// BoardService owns boards and the ownership checks every task operation relies on.
type BoardService struct {
	repo  *repository.BoardRepository
	cache cacheEvicter
	locks *BoardLocks
}

// NewBoardService builds the service. cache may be nil.
func NewBoardService(repo *repository.BoardRepository, cache cacheEvicter, locks *BoardLocks) *BoardService {
	return &BoardService{repo: repo, cache: cache, locks: locks}
}

func (s *BoardService) List(ctx context.Context, userIdx uint) ([]model.Board, error) {
	return s.repo.ListByUser(ctx, userIdx)
}

func (s *BoardService) Create(ctx context.Context, userIdx uint, name string) (*model.Board, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "name is required")
	}
	board := &model.Board{Name: name, UserIdx: userIdx}
	if err := s.repo.Create(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

// Authorize loads a board and checks that userIdx owns it.
func (s *BoardService) Authorize(ctx context.Context, userIdx, boardIdx uint) (*model.Board, error) {
	board, err := s.repo.FindByIdx(ctx, boardIdx)
	if err != nil {
		return nil, err
	}
	if board.UserIdx != userIdx {
		return nil, fmt.Errorf("board %d: %w", boardIdx, ErrForbidden)
	}
	return board, nil
}

// Get returns the board with its tasks ordered by location.
func (s *BoardService) Get(ctx context.Context, userIdx, boardIdx uint) (*model.Board, error) {
	if _, err := s.Authorize(ctx, userIdx, boardIdx); err != nil {
		return nil, err
	}
	return s.repo.FindWithTasks(ctx, boardIdx)
}

func (s *BoardService) Delete(ctx context.Context, userIdx, boardIdx uint) error {
	if _, err := s.Authorize(ctx, userIdx, boardIdx); err != nil {
		return err
	}
	unlock := s.locks.Lock(boardIdx)
	err := s.repo.Delete(ctx, boardIdx)
	unlock()
	if err != nil {
		return err
	}
	s.locks.Forget(boardIdx)
	if s.cache != nil {
		s.cache.Evict(ctx, boardIdx)
	}
	return nil
}

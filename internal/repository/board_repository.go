package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"kanban/internal/model"
)

// BoardRepository handles CRUD for boards.
type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) Create(ctx context.Context, board *model.Board) error {
	if err := r.db.WithContext(ctx).Create(board).Error; err != nil {
		return fmt.Errorf("create board: %w", translate(err))
	}
	return nil
}

// ListByUser returns the boards of a user, newest first.
func (r *BoardRepository) ListByUser(ctx context.Context, userIdx uint) ([]model.Board, error) {
	boards := make([]model.Board, 0)
	if err := r.db.WithContext(ctx).Where("user_idx = ?", userIdx).
		Order("created_at DESC, idx DESC").
		Find(&boards).Error; err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return boards, nil
}

func (r *BoardRepository) FindByIdx(ctx context.Context, idx uint) (*model.Board, error) {
	var board model.Board
	if err := r.db.WithContext(ctx).First(&board, idx).Error; err != nil {
		return nil, fmt.Errorf("find board: %w", translate(err))
	}
	return &board, nil
}

// FindWithTasks loads a board together with its tasks ordered by location.
func (r *BoardRepository) FindWithTasks(ctx context.Context, idx uint) (*model.Board, error) {
	var board model.Board
	err := r.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("location ASC, idx ASC")
		}).
		First(&board, idx).Error
	if err != nil {
		return nil, fmt.Errorf("find board: %w", translate(err))
	}
	if board.Tasks == nil {
		board.Tasks = []model.Task{}
	}
	return &board, nil
}

// ListIdxs returns the id of every board.
func (r *BoardRepository) ListIdxs(ctx context.Context) ([]uint, error) {
	var idxs []uint
	if err := r.db.WithContext(ctx).Model(&model.Board{}).Order("idx ASC").Pluck("idx", &idxs).Error; err != nil {
		return nil, fmt.Errorf("list board ids: %w", err)
	}
	return idxs, nil
}

// Delete removes a board and its tasks in a single transaction.
func (r *BoardRepository) Delete(ctx context.Context, idx uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_idx = ?", idx).Delete(&model.Task{}).Error; err != nil {
			return fmt.Errorf("delete board tasks: %w", err)
		}
		res := tx.Delete(&model.Board{}, idx)
		if res.Error != nil {
			return fmt.Errorf("delete board: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("delete board: %w", ErrNotFound)
		}
		return nil
	})
}

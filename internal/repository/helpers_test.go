package repository

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"kanban/internal/config"
	"kanban/internal/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	db, err := NewDB(config.DriverSQLite, filepath.Join(t.TempDir(), "kanban.db"), log)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedBoard(t *testing.T, db *gorm.DB) (*model.User, *model.Board) {
	t.Helper()
	ctx := context.Background()
	user := &model.User{Nickname: "alice", Email: "alice@example.com", Password: "hash"}
	if err := NewUserRepository(db).Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	board := &model.Board{Name: "Sprint", UserIdx: user.Idx}
	if err := NewBoardRepository(db).Create(ctx, board); err != nil {
		t.Fatalf("create board: %v", err)
	}
	return user, board
}

package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"kanban/internal/config"
	"kanban/internal/model"
	"kanban/internal/repository"
)

type testEnv struct {
	log    *logrus.Logger
	users  *repository.UserRepository
	boards *repository.BoardRepository
	tasks  *repository.TaskCache
	locks  *BoardLocks

	auth      *AuthService
	boardSvc  *BoardService
	taskSvc   *TaskService
	compactor *CompactionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	db, err := repository.NewDB(config.DriverSQLite, filepath.Join(t.TempDir(), "kanban.db"), log)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	env := &testEnv{
		log:    log,
		users:  repository.NewUserRepository(db),
		boards: repository.NewBoardRepository(db),
		tasks:  repository.NewTaskCache(repository.NewTaskRepository(db), nil, 0),
	}
	env.auth = NewAuthService(env.users, "test-secret", time.Hour)
	env.locks = NewBoardLocks()
	env.boardSvc = NewBoardService(env.boards, env.tasks, env.locks)
	env.taskSvc = NewTaskService(env.tasks, env.boardSvc, env.locks, log)
	env.compactor = NewCompactionService(env.boards, env.tasks, env.locks, log)
	return env
}

func (e *testEnv) user(t *testing.T, nickname string) *model.User {
	t.Helper()
	user, err := e.auth.SignUp(context.Background(), SignUpInput{
		Nickname: nickname,
		Password: "pw-" + nickname,
		Email:    nickname + "@example.com",
	})
	if err != nil {
		t.Fatalf("sign up %s: %v", nickname, err)
	}
	return user
}

func (e *testEnv) board(t *testing.T, userIdx uint) *model.Board {
	t.Helper()
	board, err := e.boardSvc.Create(context.Background(), userIdx, "Sprint")
	if err != nil {
		t.Fatalf("create board: %v", err)
	}
	return board
}

func (e *testEnv) task(t *testing.T, userIdx, boardIdx uint, contents string, status model.Status) *model.Task {
	t.Helper()
	task, err := e.taskSvc.Create(context.Background(), userIdx, boardIdx, CreateTaskInput{Contents: contents, Status: string(status)})
	if err != nil {
		t.Fatalf("create task %s: %v", contents, err)
	}
	return task
}

var errInjected = errors.New("injected write failure")

// flakyStore fails the n-th UpdateTask call.
type flakyStore struct {
	TaskStore
	mu     sync.Mutex
	calls  int
	failAt int
}

func (f *flakyStore) UpdateTask(ctx context.Context, taskIdx uint, patch model.TaskPatch) (*model.Task, error) {
	f.mu.Lock()
	f.calls++
	fail := f.calls == f.failAt
	f.mu.Unlock()
	if fail {
		return nil, errInjected
	}
	return f.TaskStore.UpdateTask(ctx, taskIdx, patch)
}

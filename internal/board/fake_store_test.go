package board

import (
	"context"
	"errors"
	"sort"
	"sync"

	"kanban/internal/model"
)

var errStoreDown = errors.New("store down")

type fakeStore struct {
	mu      sync.Mutex
	nextIdx uint
	tasks   map[uint]model.Task
	updates []uint
	// failUpdateAt fails the n-th UpdateTask call (1-based); zero never fails.
	failUpdateAt int
	failList     bool
	calls        int
}

func newFakeStore(tasks ...model.Task) *fakeStore {
	s := &fakeStore{tasks: map[uint]model.Task{}}
	for _, task := range tasks {
		s.tasks[task.Idx] = task
		if task.Idx > s.nextIdx {
			s.nextIdx = task.Idx
		}
	}
	return s
}

func (s *fakeStore) ListTasks(ctx context.Context, boardIdx uint) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failList {
		return nil, errStoreDown
	}
	out := make([]model.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if task.BoardIdx == boardIdx {
			out = append(out, task)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Idx < out[j].Idx })
	return out, nil
}

func (s *fakeStore) CreateTask(ctx context.Context, in model.NewTask) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextIdx++
	task := model.Task{Idx: s.nextIdx, BoardIdx: in.BoardIdx, Contents: in.Contents, Status: in.Status}
	if in.Location != nil {
		task.Location = *in.Location
	}
	s.tasks[task.Idx] = task
	return &task, nil
}

func (s *fakeStore) UpdateTask(ctx context.Context, taskIdx uint, patch model.TaskPatch) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failUpdateAt != 0 && s.calls == s.failUpdateAt {
		return nil, errStoreDown
	}
	task, ok := s.tasks[taskIdx]
	if !ok {
		return nil, errors.New("not found")
	}
	if patch.Contents != nil {
		task.Contents = *patch.Contents
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Location != nil {
		task.Location = *patch.Location
	}
	task.Version++
	s.tasks[taskIdx] = task
	s.updates = append(s.updates, taskIdx)
	return &task, nil
}

func (s *fakeStore) DeleteTask(ctx context.Context, taskIdx uint) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[taskIdx]
	if !ok {
		return nil, errors.New("not found")
	}
	delete(s.tasks, taskIdx)
	return &task, nil
}

func (s *fakeStore) get(idx uint) model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks[idx]
}

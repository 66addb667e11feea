package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"kanban/internal/model"
)

var (
	// ErrDesynchronized means the in-memory view no longer matches the store
	// and must be rebuilt before further mutations.
	ErrDesynchronized  = errors.New("board state desynchronized, reload required")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrSameColumn      = errors.New("source and destination column are the same")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrEmptyContents   = errors.New("contents must not be empty")
	ErrTaskNotFound    = errors.New("task not on board")
)

// TaskStore is the persistence collaborator of a Manager.
type TaskStore interface {
	ListTasks(ctx context.Context, boardIdx uint) ([]model.Task, error)
	CreateTask(ctx context.Context, in model.NewTask) (*model.Task, error)
	UpdateTask(ctx context.Context, taskIdx uint, patch model.TaskPatch) (*model.Task, error)
	DeleteTask(ctx context.Context, taskIdx uint) (*model.Task, error)
}

// Move is a drag-and-drop relocation reported by the presentation layer.
type Move struct {
	FromStatus model.Status `json:"fromStatus"`
	FromIndex  int          `json:"fromIndex"`
	ToStatus   model.Status `json:"toStatus"`
	ToIndex    int          `json:"toIndex"`
}

// Manager keeps the column view of one board and persists every mutation
// through its TaskStore. The view is a projection of the store: Rebuild
// replaces it wholesale and is the only recovery path after a failed write.
type Manager struct {
	store    TaskStore
	boardIdx uint
	log      *logrus.Entry

	mu      sync.Mutex
	columns Columns
	// stored is what the store last confirmed for each task.
	stored map[uint]slot
	stale  bool
}

// NewManager returns a Manager that must be rebuilt before use.
func NewManager(store TaskStore, boardIdx uint, log *logrus.Logger) *Manager {
	return &Manager{
		store:    store,
		boardIdx: boardIdx,
		log:      log.WithField("board", boardIdx),
		columns:  emptyColumns(),
		stored:   map[uint]slot{},
		stale:    true,
	}
}

// Rebuild reloads every task of the board and recomputes the columns.
func (m *Manager) Rebuild(ctx context.Context) error {
	tasks, err := m.store.ListTasks(ctx, m.boardIdx)
	if err != nil {
		return fmt.Errorf("rebuild board %d: %w", m.boardIdx, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = make(map[uint]slot, len(tasks))
	for _, task := range tasks {
		m.stored[task.Idx] = slot{status: task.Status, location: task.Location}
	}
	m.columns = Partition(tasks)
	m.stale = false
	return nil
}

// Columns returns a copy of the current view.
func (m *Manager) Columns() Columns {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.columns.Clone()
}

// Stale reports whether a Rebuild is required.
func (m *Manager) Stale() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stale
}

// Apply dispatches a move to MoveWithinColumn or MoveAcrossColumns.
func (m *Manager) Apply(ctx context.Context, mv Move) ([]model.Placement, error) {
	if mv.FromStatus == mv.ToStatus {
		return m.MoveWithinColumn(ctx, mv.FromStatus, mv.FromIndex, mv.ToIndex)
	}
	return m.MoveAcrossColumns(ctx, mv.FromStatus, mv.FromIndex, mv.ToStatus, mv.ToIndex)
}

// MoveWithinColumn moves the task at from to to inside one column and
// persists the locations that changed.
func (m *Manager) MoveWithinColumn(ctx context.Context, status model.Status, from, to int) ([]model.Placement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ready(); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	col := m.columns[status]
	if from < 0 || from >= len(col) || to < 0 || to >= len(col) {
		return nil, fmt.Errorf("%w: move %d to %d in %s of %d", ErrIndexOutOfRange, from, to, status, len(col))
	}

	next := moveWithin(col, from, to)
	renumber(next)
	m.columns[status] = next

	writes := diff(m.stored, next)
	return writes, m.flush(ctx, writes)
}

// MoveAcrossColumns moves the task at from in fromStatus to position to in
// toStatus. Both columns are renumbered; only changed placements are written,
// the moved task first.
func (m *Manager) MoveAcrossColumns(ctx context.Context, fromStatus model.Status, from int, toStatus model.Status, to int) ([]model.Placement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ready(); err != nil {
		return nil, err
	}
	if !fromStatus.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, fromStatus)
	}
	if !toStatus.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, toStatus)
	}
	if fromStatus == toStatus {
		return nil, ErrSameColumn
	}
	src, dst := m.columns[fromStatus], m.columns[toStatus]
	if from < 0 || from >= len(src) {
		return nil, fmt.Errorf("%w: source %d in %s of %d", ErrIndexOutOfRange, from, fromStatus, len(src))
	}
	if to < 0 || to > len(dst) {
		return nil, fmt.Errorf("%w: destination %d in %s of %d", ErrIndexOutOfRange, to, toStatus, len(dst))
	}

	nextSrc, moved := removeAt(src, from)
	moved.Status = toStatus
	nextDst := insertAt(append(make([]model.Task, 0, len(dst)+1), dst...), to, moved)
	renumber(nextSrc)
	renumber(nextDst)
	m.columns[fromStatus] = nextSrc
	m.columns[toStatus] = nextDst

	writes := diff(m.stored, []model.Task{nextDst[to]}, nextDst[:to], nextDst[to+1:], nextSrc)
	return writes, m.flush(ctx, writes)
}

// InsertTask appends a new task to the status column. Its stored location is
// past every location the store holds in that column.
func (m *Manager) InsertTask(ctx context.Context, status model.Status, contents string) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ready(); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if strings.TrimSpace(contents) == "" {
		return nil, ErrEmptyContents
	}

	viewLoc := nextLocation(m.columns[status])
	storeLoc := max(viewLoc, m.storedEnd(status))
	task, err := m.store.CreateTask(ctx, model.NewTask{
		BoardIdx: m.boardIdx,
		Contents: contents,
		Status:   status,
		Location: &storeLoc,
	})
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	m.stored[task.Idx] = slot{status: task.Status, location: task.Location}
	// After a rebuild the view can be denser than the store; the view keeps
	// its own numbering and the next move persists it.
	inView := *task
	inView.Location = viewLoc
	m.columns[status] = append(m.columns[status], inView)
	return task, nil
}

// RemoveTask deletes a task. The rest of its column keeps its locations; the
// gap closes on the next Rebuild.
func (m *Manager) RemoveTask(ctx context.Context, taskIdx uint) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ready(); err != nil {
		return nil, err
	}
	status, i, ok := m.find(taskIdx)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrTaskNotFound, taskIdx)
	}

	deleted, err := m.store.DeleteTask(ctx, taskIdx)
	if err != nil {
		return nil, fmt.Errorf("remove task %d: %w", taskIdx, err)
	}
	m.columns[status], _ = removeAt(m.columns[status], i)
	delete(m.stored, taskIdx)
	return deleted, nil
}

// EditTaskContents replaces the contents of a task; its placement is unchanged.
func (m *Manager) EditTaskContents(ctx context.Context, taskIdx uint, contents string) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(contents) == "" {
		return nil, ErrEmptyContents
	}
	status, i, ok := m.find(taskIdx)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrTaskNotFound, taskIdx)
	}

	updated, err := m.store.UpdateTask(ctx, taskIdx, model.TaskPatch{Contents: &contents})
	if err != nil {
		return nil, fmt.Errorf("edit task %d: %w", taskIdx, err)
	}
	m.columns[status][i].Contents = updated.Contents
	m.columns[status][i].Version = updated.Version
	m.columns[status][i].UpdatedAt = updated.UpdatedAt
	return updated, nil
}

func (m *Manager) ready() error {
	if m.stale {
		return ErrDesynchronized
	}
	return nil
}

// storedEnd is one past the highest location the store holds in status.
func (m *Manager) storedEnd(status model.Status) int {
	end := 0
	for _, sl := range m.stored {
		if sl.status == status && sl.location+1 > end {
			end = sl.location + 1
		}
	}
	return end
}

func (m *Manager) find(taskIdx uint) (model.Status, int, bool) {
	for _, status := range model.Statuses {
		for i, task := range m.columns[status] {
			if task.Idx == taskIdx {
				return status, i, true
			}
		}
	}
	return "", 0, false
}

// flush writes placements one at a time. The first failure marks the view
// stale; nothing is rolled back.
func (m *Manager) flush(ctx context.Context, writes []model.Placement) error {
	for _, w := range writes {
		updated, err := m.store.UpdateTask(ctx, w.TaskIdx, w.Patch())
		if err != nil {
			m.stale = true
			m.log.WithError(err).WithField("task", w.TaskIdx).Warn("placement write failed, board needs rebuild")
			return fmt.Errorf("%w: task %d: %w", ErrDesynchronized, w.TaskIdx, err)
		}
		m.stored[w.TaskIdx] = slot{status: w.Status, location: w.Location}
		if status, i, ok := m.find(w.TaskIdx); ok {
			m.columns[status][i].Version = updated.Version
			m.columns[status][i].UpdatedAt = updated.UpdatedAt
		}
	}
	return nil
}

package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the column a task lives in.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "INPROGRESS"
	StatusPending    Status = "PENDING"
	StatusDone       Status = "DONE"
	StatusCancel     Status = "CANCEL"
)

// Statuses lists every column in display order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusPending, StatusDone, StatusCancel}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus accepts the upper-case wire names only.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

// Task is a single card. Location is its zero-based rank inside (BoardIdx, Status).
type Task struct {
	Idx       uint      `gorm:"column:idx;primaryKey" json:"idx"`
	Contents  string    `json:"contents"`
	Status    Status    `gorm:"index:idx_tasks_column,priority:2" json:"status"`
	Location  int       `gorm:"index:idx_tasks_column,priority:3" json:"location"`
	Version   int       `gorm:"default:0" json:"version"`
	BoardIdx  uint      `gorm:"index:idx_tasks_column,priority:1" json:"boardIdx"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Task) TableName() string { return "tasks" }

// NewTask describes a task to create. A nil Location appends to the column.
type NewTask struct {
	BoardIdx uint
	Contents string
	Status   Status
	Location *int
}

// TaskPatch is a partial update. Nil fields are left untouched.
// A non-nil Version makes the update conditional on the stored version.
type TaskPatch struct {
	Contents *string `json:"contents,omitempty"`
	Status   *Status `json:"status,omitempty"`
	Location *int    `json:"location,omitempty"`
	Version  *int    `json:"version,omitempty"`
}

// Empty reports whether the patch would change nothing.
func (p TaskPatch) Empty() bool {
	return p.Contents == nil && p.Status == nil && p.Location == nil
}

// Placement is a (status, location) write for one task.
type Placement struct {
	TaskIdx       uint   `json:"taskIdx"`
	Status        Status `json:"status"`
	Location      int    `json:"location"`
	StatusChanged bool   `json:"statusChanged,omitempty"`
}

// Patch converts the placement into the update that persists it.
func (p Placement) Patch() TaskPatch {
	loc := p.Location
	patch := TaskPatch{Location: &loc}
	if p.StatusChanged {
		status := p.Status
		patch.Status = &status
	}
	return patch
}

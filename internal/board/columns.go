package board

import (
	"sort"

	"kanban/internal/model"
)

// Columns is the per-status view of one board. Each column is ordered top to bottom.
type Columns map[model.Status][]model.Task

// Partition splits tasks by status, orders each column by location and
// renumbers it densely from zero. Tasks with an unknown status are dropped.
func Partition(tasks []model.Task) Columns {
	cols := emptyColumns()
	for _, task := range tasks {
		if !task.Status.Valid() {
			continue
		}
		cols[task.Status] = append(cols[task.Status], task)
	}
	for status, col := range cols {
		sort.SliceStable(col, func(i, j int) bool {
			if col[i].Location != col[j].Location {
				return col[i].Location < col[j].Location
			}
			return col[i].Idx < col[j].Idx
		})
		renumber(col)
		cols[status] = col
	}
	return cols
}

// Clone returns a deep copy safe to hand out.
func (c Columns) Clone() Columns {
	out := make(Columns, len(model.Statuses))
	for _, status := range model.Statuses {
		out[status] = append(make([]model.Task, 0, len(c[status])), c[status]...)
	}
	return out
}

// Len is the number of tasks across all columns.
func (c Columns) Len() int {
	n := 0
	for _, col := range c {
		n += len(col)
	}
	return n
}

// Dense reports whether the locations of col are exactly 0..len(col)-1 in order.
func Dense(col []model.Task) bool {
	for i, task := range col {
		if task.Location != i {
			return false
		}
	}
	return true
}

// Compact returns the placements needed to make the stored tasks of one
// board dense again.
func Compact(tasks []model.Task) []model.Placement {
	stored := make(map[uint]slot, len(tasks))
	for _, task := range tasks {
		stored[task.Idx] = slot{status: task.Status, location: task.Location}
	}
	cols := Partition(tasks)
	ordered := make([][]model.Task, 0, len(model.Statuses))
	for _, status := range model.Statuses {
		ordered = append(ordered, cols[status])
	}
	return diff(stored, ordered...)
}

type slot struct {
	status   model.Status
	location int
}

func emptyColumns() Columns {
	cols := make(Columns, len(model.Statuses))
	for _, status := range model.Statuses {
		cols[status] = []model.Task{}
	}
	return cols
}

func renumber(col []model.Task) {
	for i := range col {
		col[i].Location = i
	}
}

// nextLocation is where an appended task goes. It equals len(col) for a dense
// column and stays past the last task when a delete left a gap.
func nextLocation(col []model.Task) int {
	n := len(col)
	if n > 0 && col[n-1].Location >= n {
		return col[n-1].Location + 1
	}
	return n
}

// moveWithin returns a copy of col with the task at from reinserted at to.
func moveWithin(col []model.Task, from, to int) []model.Task {
	out := append(make([]model.Task, 0, len(col)), col...)
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = insertAt(out, to, moved)
	return out
}

func removeAt(col []model.Task, i int) ([]model.Task, model.Task) {
	out := append(make([]model.Task, 0, len(col)), col...)
	removed := out[i]
	return append(out[:i], out[i+1:]...), removed
}

func insertAt(col []model.Task, i int, task model.Task) []model.Task {
	col = append(col, model.Task{})
	copy(col[i+1:], col[i:])
	col[i] = task
	return col
}

// diff lists the tasks of cols whose status or location differs from the stored slot.
func diff(stored map[uint]slot, cols ...[]model.Task) []model.Placement {
	var out []model.Placement
	for _, col := range cols {
		for _, task := range col {
			prev, ok := stored[task.Idx]
			if ok && prev.status == task.Status && prev.location == task.Location {
				continue
			}
			out = append(out, model.Placement{
				TaskIdx:       task.Idx,
				Status:        task.Status,
				Location:      task.Location,
				StatusChanged: !ok || prev.status != task.Status,
			})
		}
	}
	return out
}

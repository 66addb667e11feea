package board

import (
	"reflect"
	"testing"

	"kanban/internal/model"
)

func TestPartitionOrdersAndRenumbers(t *testing.T) {
	cols := Partition([]model.Task{
		task(1, "A", model.StatusTodo, 7),
		task(2, "B", model.StatusDone, 0),
		task(3, "C", model.StatusTodo, 2),
		task(4, "D", "ARCHIVED", 0),
	})

	for _, status := range model.Statuses {
		if cols[status] == nil {
			t.Fatalf("missing column %s", status)
		}
	}
	assertColumn(t, cols[model.StatusTodo], []string{"C", "A"}, []int{0, 1})
	assertColumn(t, cols[model.StatusDone], []string{"B"}, []int{0})
	if cols.Len() != 3 {
		t.Fatalf("expected unknown status to be dropped, got %d tasks", cols.Len())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cols := Partition([]model.Task{task(1, "A", model.StatusTodo, 0)})
	clone := cols.Clone()
	clone[model.StatusTodo][0].Contents = "changed"
	if cols[model.StatusTodo][0].Contents != "A" {
		t.Fatal("clone shares backing array with original")
	}
}

func TestNextLocation(t *testing.T) {
	cases := []struct {
		name string
		locs []int
		want int
	}{
		{"empty", nil, 0},
		{"dense", []int{0, 1, 2}, 3},
		{"gap", []int{0, 2}, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			col := make([]model.Task, len(tc.locs))
			for i, loc := range tc.locs {
				col[i] = task(uint(i+1), "x", model.StatusTodo, loc)
			}
			if got := nextLocation(col); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestCompact(t *testing.T) {
	writes := Compact([]model.Task{
		task(1, "A", model.StatusTodo, 0),
		task(2, "B", model.StatusTodo, 3),
		task(3, "C", model.StatusDone, 0),
		task(4, "D", model.StatusDone, 4),
	})
	want := []model.Placement{
		{TaskIdx: 2, Status: model.StatusTodo, Location: 1},
		{TaskIdx: 4, Status: model.StatusDone, Location: 1},
	}
	if !reflect.DeepEqual(writes, want) {
		t.Fatalf("unexpected placements %#v", writes)
	}

	if got := Compact([]model.Task{task(1, "A", model.StatusTodo, 0)}); len(got) != 0 {
		t.Fatalf("expected dense board to need no writes, got %#v", got)
	}
}

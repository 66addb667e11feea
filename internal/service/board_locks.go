package service

import "sync"

// BoardLocks serializes writers of one board: request handlers and the
// compaction job share a single instance.
type BoardLocks struct {
	locks sync.Map
}

func NewBoardLocks() *BoardLocks {
	return &BoardLocks{}
}

// Lock blocks until the board is free and returns the unlock func.
func (l *BoardLocks) Lock(boardIdx uint) func() {
	v, _ := l.locks.LoadOrStore(boardIdx, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Forget drops the mutex of a deleted board.
func (l *BoardLocks) Forget(boardIdx uint) {
	l.locks.Delete(boardIdx)
}

package reconcile

import (
	"errors"
	"sync"
)

// ErrRunInProgress is returned when another run holds the writer lock.
var ErrRunInProgress = errors.New("a reconciliation run is already in progress")

// WriterLock admits one run that writes to the stores at a time. The zero
// value is unlocked.
type WriterLock struct {
	mu sync.Mutex
}

// TryAcquire takes the lock without waiting. The returned func releases it.
func (l *WriterLock) TryAcquire() (func(), error) {
	if !l.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	return l.mu.Unlock, nil
}

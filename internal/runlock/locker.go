// Package runlock provides an advisory cross-process lock file.
package runlock

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/flock"
)

const (
	lockHeldMessageConstant      = "lock held by another process"
	emptyLockPathMessageConstant = "lock path required"
	lockHeldTemplateConstant     = "%w: %s"
	lockErrorTemplateConstant    = "unable to lock %s: %w"
	unlockErrorTemplateConstant  = "unable to unlock %s: %w"
)

// ErrLockHeld indicates another process owns the lock.
var ErrLockHeld = errors.New(lockHeldMessageConstant)

// ErrEmptyLockPath indicates Acquire received a blank path.
var ErrEmptyLockPath = errors.New(emptyLockPathMessageConstant)

// FileLocker acquires non-blocking flock(2) style locks.
type FileLocker struct{}

// NewFileLocker constructs a FileLocker.
func NewFileLocker() *FileLocker {
	return &FileLocker{}
}

// Acquire takes the lock at lockPath without waiting and returns its release function.
func (locker *FileLocker) Acquire(lockPath string) (func() error, error) {
	trimmedPath := strings.TrimSpace(lockPath)
	if len(trimmedPath) == 0 {
		return nil, ErrEmptyLockPath
	}

	fileLock := flock.New(trimmedPath)
	locked, lockError := fileLock.TryLock()
	if lockError != nil {
		return nil, fmt.Errorf(lockErrorTemplateConstant, trimmedPath, lockError)
	}
	if !locked {
		return nil, fmt.Errorf(lockHeldTemplateConstant, ErrLockHeld, trimmedPath)
	}

	return func() error {
		if unlockError := fileLock.Unlock(); unlockError != nil {
			return fmt.Errorf(unlockErrorTemplateConstant, trimmedPath, unlockError)
		}
		return nil
	}, nil
}

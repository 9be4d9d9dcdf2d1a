// Package lockedfile provides a file-based mutex for coordinating access
// to shared directories across processes.
package lockedfile

import (
	"fmt"
	"os"
)

// A Mutex provides mutual exclusion within and across processes, keyed by
// the file at Path. The file is created if it does not exist.
type Mutex struct {
	Path string
}

// MutexAt returns a new Mutex with the given Path.
func MutexAt(path string) *Mutex {
	return &Mutex{Path: path}
}

// Lock attempts to lock the Mutex, blocking until it is available.
// It returns an unlock function that must be called to release the lock.
func (mu *Mutex) Lock() (unlock func(), err error) {
	if mu.Path == "" {
		panic("lockedfile.Mutex: missing Path during Lock")
	}
	f, err := os.OpenFile(mu.Path, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		return nil, err
	}
	if err := lock(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("lock %s: %w", mu.Path, err)
	}
	return func() {
		unlockFile(f)
		f.Close()
	}, nil
}

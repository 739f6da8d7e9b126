package os

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

var ErrLocked = errors.New("locked by another process")

type Flock struct {
	f *flock.Flock
}

func NewFileLock(path string) (*Flock, error) {
	if path == "" {
		path = filepath.Join(os.TempDir(), "blendwall.lock")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o770); err != nil {
		return nil, err
	}
	return &Flock{f: flock.New(path)}, nil
}

// DisplayLock is the lock of one projector output,
// two wall processes never drive the same display.
func DisplayLock(dir string, display int) (*Flock, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	return NewFileLock(filepath.Join(dir, fmt.Sprintf("blendwall-%d.lock", display)))
}

func (f *Flock) Lock() error { return f.f.Lock() }

// TryLock takes the lock without waiting.
func (f *Flock) TryLock() error {
	ok, err := f.f.TryLock()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%v: %w", f.f.Path(), ErrLocked)
	}
	return nil
}

func (f *Flock) Unlock() error { return f.f.Unlock() }
func (f *Flock) Path() string  { return f.f.Path() }

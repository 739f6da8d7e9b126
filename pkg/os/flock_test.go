package os

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestDisplayLock(t *testing.T) {
	dir := t.TempDir()
	a, err := DisplayLock(dir, 1)
	if err != nil {
		t.Fatal(err)
	}
	if a.Path() != filepath.Join(dir, "blendwall-1.lock") {
		t.Errorf("path = %v", a.Path())
	}
	if err := a.TryLock(); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = a.Unlock() }()

	// another handle of the same file, the way another process would see it
	b, _ := DisplayLock(dir, 1)
	if err := b.TryLock(); !errors.Is(err, ErrLocked) {
		t.Errorf("second lock = %v, want ErrLocked", err)
	}

	c, _ := DisplayLock(dir, 2)
	if err := c.TryLock(); err != nil {
		t.Errorf("other display = %v", err)
	}
	_ = c.Unlock()

	if !Exists(a.Path()) || Exists(filepath.Join(dir, "nope")) {
		t.Errorf("exists is broken")
	}
}

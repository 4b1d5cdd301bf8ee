// Package lockfile implements the manifest advisory lock protocol of
// spec.md §6/§9: "writers must acquire an exclusive advisory file lock on
// <manifest>.lock, write a temp file, atomically rename over the
// manifest, release the lock." Spec.md explicitly documents but does not
// require a writer implementation (this engine is read-only); this
// package implements only the lock primitive itself, grounded on
// golang.org/x/sys/unix.Flock the way the teacher (and
// matrixorigin-matrixone, cockroachdb-cockroach) use the same package for
// low-level OS primitives elsewhere in the pack.
package lockfile

import (
	"fmt"
	"os"
	"time"

	"github.com/arvidellis/toydb/errs"
	"golang.org/x/sys/unix"
)

// Lock holds an acquired advisory lock on a single file.
type Lock struct {
	path string
	file *os.File
}

// Acquire opens (creating if necessary) path and takes an exclusive,
// non-blocking advisory lock via unix.Flock(LOCK_EX|LOCK_NB), writing the
// `pid=<pid> ts=<iso8601-local>\n` content specified by spec.md §6.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, errs.Wrap(errs.IO, "lockfile.Acquire", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, errs.New(errs.IO, "lockfile.Acquire", "lock held: %v", err)
	}

	if err := f.Truncate(0); err != nil {
		unix.Flock(int(f.Fd()), unix.LOCK_UN)
		f.Close()
		return nil, errs.Wrap(errs.IO, "lockfile.Acquire", err)
	}
	content := fmt.Sprintf("pid=%d ts=%s\n", os.Getpid(), time.Now().Format("2006-01-02T15:04:05-0700"))
	if _, err := f.WriteAt([]byte(content), 0); err != nil {
		unix.Flock(int(f.Fd()), unix.LOCK_UN)
		f.Close()
		return nil, errs.Wrap(errs.IO, "lockfile.Acquire", err)
	}

	return &Lock{path: path, file: f}, nil
}

// Release unlocks and closes the lockfile. The file itself is left on
// disk (its presence is not the lock; the flock is), matching the
// original protocol's "release the lock" step without deleting the file.
func (l *Lock) Release() error {
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		return errs.Wrap(errs.IO, "lockfile.Release", err)
	}
	return l.file.Close()
}

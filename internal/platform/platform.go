package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// ErrAlreadyRunning indicates another process holds the storage lock.
var ErrAlreadyRunning = errors.New("instance already running")

// UnsupportedPlatformError represents an error for unsupported platforms
type UnsupportedPlatformError struct {
	OS string
}

func (e *UnsupportedPlatformError) Error() string {
	return "unsupported platform: " + e.OS
}

// InstanceLock is an exclusive lock on a storage location. At most one
// process may hold it; it is released when the process exits.
type InstanceLock struct {
	file *os.File
	path string
}

// AcquireInstanceLock locks storagePath + ".lock". It returns
// ErrAlreadyRunning when another process holds the lock.
func AcquireInstanceLock(storagePath string) (*InstanceLock, error) {
	path := storagePath + ".lock"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}
	if err := lockFile(f); err != nil {
		f.Close()
		return nil, err
	}

	if err := f.Truncate(0); err == nil {
		_, _ = f.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)
	}
	return &InstanceLock{file: f, path: path}, nil
}

// Path returns the lock file location.
func (l *InstanceLock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release frees the lock. It is safe to call more than once. The lock file
// stays on disk: removing it would let a process that already opened the old
// file lock it while a newcomer locks a fresh one at the same path.
func (l *InstanceLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil

	unlockErr := unlockFile(f)
	closeErr := f.Close()

	if unlockErr != nil {
		return fmt.Errorf("failed to unlock instance lock: %w", unlockErr)
	}
	return closeErr
}

// OpenBrowser opens url in the default browser.
func OpenBrowser(url string) error {
	return openBrowser(url)
}

// OS returns the platform name used in logs.
func OS() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

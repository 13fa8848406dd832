//go:build !ios && !android && (amd64 || arm64)

package cffichan

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/obinnaokechukwu/cffichan/internal/dl"
	"go.uber.org/zap"
)

// Library is a handle to one dynamically loaded native module.
//
// A Library is created loaded by New and becomes empty exactly once, through
// Unload. It is never reloaded in place; construct a new Library to load the
// module again. All methods are safe for concurrent use.
//
// The module is guarded by a single read/write lock. Invocations and
// WithModule hold it shared; Unload holds it exclusively, so no call can run
// into code that has been unmapped.
type Library struct {
	mu       sync.RWMutex
	mod      *Module // nil once unloaded
	poisoned atomic.Bool

	path     string
	log      *zap.Logger
	closeLib func(handle uintptr) error
}

// Module is a loaded native module. It is only valid inside the function
// passed to Library.WithModule and must not be retained after it returns.
type Module struct {
	path    string
	handle  uintptr
	entries sync.Map // export address -> entryFunc
}

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the logger used for lifecycle events of the Library.
// The default is the package logger returned by Logger.
func WithLogger(l *zap.Logger) Option {
	return func(lib *Library) {
		if l != nil {
			lib.log = l
		}
	}
}

// New loads the native module at path.
// It returns an error wrapping ErrLoad if the module cannot be mapped.
func New(path string, opts ...Option) (*Library, error) {
	lib := &Library{
		path:     path,
		log:      Logger(),
		closeLib: dl.Close,
	}
	for _, opt := range opts {
		opt(lib)
	}

	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrLoad)
	}
	h, err := dl.Open(path)
	if err != nil {
		lib.log.Debug("library load failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	lib.mod = &Module{path: path, handle: h}
	lib.log.Info("library loaded", zap.String("path", path))
	return lib, nil
}

// Path returns the path the library was loaded from.
func (l *Library) Path() string {
	return l.path
}

// IsLoaded reports whether the module is currently held.
// It returns ErrLock if the library is poisoned.
func (l *Library) IsLoaded() (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.poisoned.Load() {
		return false, ErrLock
	}
	return l.mod != nil, nil
}

// Unload releases the module. It blocks until every in-flight WithModule
// or Invoke call has returned.
//
// Unload is not idempotent: a second call returns ErrNotLoaded. If the
// operating system fails to release the module, the library is still
// considered unloaded and the failure is returned.
func (l *Library) Unload() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.poisoned.Load() {
		return ErrLock
	}
	mod := l.mod
	if mod == nil {
		return ErrNotLoaded
	}

	// A panic past this point leaves the handle state unknown.
	completed := false
	defer func() {
		if !completed {
			l.poisoned.Store(true)
		}
	}()

	l.mod = nil
	err := l.closeLib(mod.handle)
	completed = true
	if err != nil {
		l.log.Warn("library close failed", zap.String("path", mod.path), zap.Error(err))
		return fmt.Errorf("cffichan: closing %s: %w", mod.path, err)
	}
	l.log.Info("library unloaded", zap.String("path", mod.path))
	return nil
}

// WithModule calls fn with the loaded module while holding the library's
// shared lock. It returns ErrNotLoaded if the module has been unloaded and
// ErrLock if the library is poisoned; otherwise it returns fn's error.
//
// Any number of WithModule calls may run concurrently. fn must not call
// Unload or any other method of l: a pending Unload blocks new readers and
// the nested call would deadlock.
func (l *Library) WithModule(fn func(m *Module) error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.poisoned.Load() {
		return ErrLock
	}
	if l.mod == nil {
		return ErrNotLoaded
	}
	return fn(l.mod)
}

// Path returns the path the module was loaded from.
func (m *Module) Path() string {
	return m.path
}

// Handle returns the operating system handle of the module, suitable for
// purego.RegisterLibFunc. It is only valid inside WithModule.
func (m *Module) Handle() uintptr {
	return m.handle
}

// Lookup returns the address of the exported symbol name.
// The error wraps ErrSymbolNotFound if the module does not export it.
func (m *Module) Lookup(name string) (uintptr, error) {
	addr, err := dl.Sym(m.handle, name)
	if err != nil {
		return 0, fmt.Errorf("%w: %s in %s: %w", ErrSymbolNotFound, name, m.path, err)
	}
	if addr == 0 {
		return 0, fmt.Errorf("%w: %s in %s", ErrSymbolNotFound, name, m.path)
	}
	return addr, nil
}

//go:build !ios && !android && (amd64 || arm64)

package cffichan

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrLoad indicates the native module could not be mapped into the
	// process: bad path, format or architecture mismatch, or missing
	// transitive dependencies.
	ErrLoad = errors.New("cffichan: library could not be loaded")

	// ErrLibraryNotFound indicates FindLibrary could not locate the
	// reference library. It wraps ErrLoad.
	ErrLibraryNotFound = fmt.Errorf("%w: library not found", ErrLoad)

	// ErrLock indicates the library lock is poisoned because a panic
	// escaped while it was held exclusively. The Library must be discarded.
	ErrLock = errors.New("cffichan: library lock poisoned")

	// ErrNotLoaded indicates the operation needs a loaded module but the
	// library was never loaded or has been unloaded.
	ErrNotLoaded = errors.New("cffichan: library not loaded")

	// ErrSymbolNotFound indicates the requested export is absent.
	ErrSymbolNotFound = errors.New("cffichan: symbol not found")

	// ErrNilCallback indicates Invoke was given a zero callback address.
	ErrNilCallback = errors.New("cffichan: nil callback")

	// ErrCallbackChannel indicates a bridge could not hand a payload to its
	// consumer. It is never returned to native code; the callback reports
	// 0 accepted bytes instead.
	ErrCallbackChannel = errors.New("cffichan: callback channel unavailable")
)

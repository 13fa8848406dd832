//go:build !ios && !android && (amd64 || arm64)

// Package dl wraps the platform dynamic loader: dlopen/dlsym/dlclose through
// purego on Unix and LoadLibrary/GetProcAddress/FreeLibrary on Windows.
//
// Handles are plain uintptr values. Callers are responsible for not using a
// handle, or any address resolved from it, after Close.
package dl

import "errors"

// ErrNullHandle is returned when an operation is given a zero handle.
var ErrNullHandle = errors.New("dl: null library handle")

//go:build windows && (amd64 || arm64)

package dl

import (
	"golang.org/x/sys/windows"
)

// Open loads the DLL at path.
func Open(path string) (uintptr, error) {
	h, err := windows.LoadLibrary(path)
	if err != nil {
		return 0, err
	}
	if h == 0 {
		return 0, ErrNullHandle
	}
	return uintptr(h), nil
}

// Sym returns the address of the exported procedure name.
func Sym(handle uintptr, name string) (uintptr, error) {
	if handle == 0 {
		return 0, ErrNullHandle
	}
	return windows.GetProcAddress(windows.Handle(handle), name)
}

// Close releases handle.
func Close(handle uintptr) error {
	if handle == 0 {
		return ErrNullHandle
	}
	return windows.FreeLibrary(windows.Handle(handle))
}

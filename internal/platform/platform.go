//go:build !ios && !android && (amd64 || arm64)

// Package platform provides shared library naming for cffichan.
package platform

import (
	"runtime"
)

// LibraryFileName returns the platform-specific file name for a shared
// library with the given base name.
//
// Examples:
//   - Linux:   LibraryFileName("callback") -> "libcallback.so"
//   - macOS:   LibraryFileName("callback") -> "libcallback.dylib"
//   - Windows: LibraryFileName("callback") -> "callback.dll"
func LibraryFileName(name string) string {
	return FileNameFor(runtime.GOOS, name)
}

// FileNameFor is LibraryFileName for an explicit GOOS value.
func FileNameFor(goos, name string) string {
	switch goos {
	case "darwin":
		return "lib" + name + ".dylib"
	case "windows":
		return name + ".dll"
	default: // linux, freebsd, netbsd
		return "lib" + name + ".so"
	}
}

// LibraryPathEnv returns the name of the environment variable the dynamic
// loader consults for additional search directories.
func LibraryPathEnv() string {
	return PathEnvFor(runtime.GOOS)
}

// PathEnvFor is LibraryPathEnv for an explicit GOOS value.
func PathEnvFor(goos string) string {
	switch goos {
	case "darwin":
		return "DYLD_LIBRARY_PATH"
	case "windows":
		return "PATH"
	default:
		return "LD_LIBRARY_PATH"
	}
}

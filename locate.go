//go:build !ios && !android && (amd64 || arm64)

package cffichan

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/obinnaokechukwu/cffichan/internal/platform"
)

// LibraryName is the base name of the reference native library built from
// the native directory.
const LibraryName = "callback"

// LibDirEnv names the environment variable that overrides where
// FindLibrary looks for the reference library.
const LibDirEnv = "CFFICHAN_LIB_DIR"

// ExpectedLibraryName returns the reference library's file name for the
// current platform: libcallback.so, libcallback.dylib or callback.dll.
func ExpectedLibraryName() string {
	return platform.LibraryFileName(LibraryName)
}

// FindLibrary returns the path of the reference library.
//
// The library is searched for in the following locations (in order):
//  1. CFFICHAN_LIB_DIR environment variable (exclusive when set)
//  2. libs/ under the current working directory
//  3. libs/ under the module source tree
//  4. Executable directory
//
// The error wraps ErrLibraryNotFound.
func FindLibrary() (string, error) {
	name := ExpectedLibraryName()

	if dir := os.Getenv(LibDirEnv); dir != "" {
		path := filepath.Join(dir, name)
		if isFile(path) {
			return path, nil
		}
		return "", fmt.Errorf("%w: %s=%s does not contain %s", ErrLibraryNotFound, LibDirEnv, dir, name)
	}

	var searchPaths []string
	if cwd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(cwd, "libs"))
	}
	if _, file, _, ok := runtime.Caller(0); ok {
		searchPaths = append(searchPaths, filepath.Join(filepath.Dir(file), "libs"))
	}
	if exe, err := os.Executable(); err == nil {
		searchPaths = append(searchPaths, filepath.Dir(exe))
	}

	for _, dir := range searchPaths {
		path := filepath.Join(dir, name)
		if isFile(path) {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: looked for %s in %d locations. Set %s or build it: go generate",
		ErrLibraryNotFound, name, len(searchPaths), LibDirEnv)
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

// BuildInstructions returns platform-specific instructions for building the
// reference library.
func BuildInstructions() string {
	var setup, export string
	switch runtime.GOOS {
	case "linux", "freebsd", "netbsd":
		setup = "Install a C compiler and make (e.g. sudo apt install build-essential)"
		export = fmt.Sprintf("export %s=$PWD/libs:$%[1]s", platform.LibraryPathEnv())
	case "darwin":
		setup = "Install the Xcode command line tools: xcode-select --install"
		export = fmt.Sprintf("export %s=$PWD/libs:$%[1]s", platform.LibraryPathEnv())
	case "windows":
		setup = "Install MSYS2 and MinGW-w64 (pacman -S mingw-w64-x86_64-gcc make)"
		export = fmt.Sprintf(`$env:%s = "$PWD\libs;$env:%[1]s"`, platform.LibraryPathEnv())
	default:
		return fmt.Sprintf("Platform %s/%s is not supported", runtime.GOOS, runtime.GOARCH)
	}
	name := ExpectedLibraryName()
	return fmt.Sprintf(`To build the reference library:
  1. %s
  2. From the module root run:
     go generate
  3. The library is written to %s
  4. Set %s for FindLibrary, or let the loader resolve %s by name:
     %s`, setup, filepath.Join("libs", name), LibDirEnv, name, export)
}

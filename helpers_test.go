//go:build !ios && !android && (amd64 || arm64)

package cffichan

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ebitengine/purego"
	"go.uber.org/zap/zaptest"
)

// Path of the reference library used by end-to-end tests, or the reason
// it is unavailable.
var (
	nativeLib string
	nativeErr error
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "cffichan-native")
	if err != nil {
		nativeErr = err
	} else {
		nativeLib, nativeErr = prepareNative(dir)
	}

	code := m.Run()

	if dir != "" {
		os.RemoveAll(dir)
	}
	os.Exit(code)
}

// prepareNative returns a previously built reference library or compiles
// native/callback.c into dir with the host C compiler.
func prepareNative(dir string) (string, error) {
	if path, err := FindLibrary(); err == nil {
		return path, nil
	}
	if runtime.GOOS == "windows" {
		return "", errors.New("run go generate to build the reference library on windows")
	}

	cc := os.Getenv("CC")
	if cc == "" {
		cc = "cc"
	}
	if _, err := exec.LookPath(cc); err != nil {
		return "", fmt.Errorf("no C compiler: %w", err)
	}

	out := filepath.Join(dir, ExpectedLibraryName())
	src := filepath.Join("native", "callback.c")
	args := []string{"-O2", "-shared", "-fPIC", "-pthread", "-o", out, src}
	if runtime.GOOS == "darwin" {
		args = []string{"-O2", "-dynamiclib", "-pthread", "-o", out, src}
	}
	if b, err := exec.Command(cc, args...).CombinedOutput(); err != nil {
		return "", fmt.Errorf("%s %v: %w\n%s", cc, args, err, b)
	}
	return out, nil
}

// nativeLibrary loads the reference library, skipping the test when it
// could not be built.
func nativeLibrary(t *testing.T) *Library {
	t.Helper()
	if nativeErr != nil {
		t.Skipf("reference library not available: %v", nativeErr)
	}
	lib, err := New(nativeLib, WithLogger(zaptest.NewLogger(t)))
	if err != nil {
		t.Fatalf("New(%q): %v", nativeLib, err)
	}
	t.Cleanup(func() { _ = lib.Unload() })
	return lib
}

// systemLibrary returns a library that is always present on the host
// together with one symbol it exports.
func systemLibrary(t *testing.T) (path, symbol string) {
	t.Helper()
	switch runtime.GOOS {
	case "linux":
		return "libc.so.6", "strlen"
	case "freebsd":
		return "libc.so.7", "strlen"
	case "netbsd":
		return "libc.so", "strlen"
	case "darwin":
		return "/usr/lib/libSystem.B.dylib", "strlen"
	case "windows":
		return "kernel32.dll", "GetTickCount"
	default:
		t.Skipf("no known system library on %s", runtime.GOOS)
		return "", ""
	}
}

// loadSystem loads the host's system library.
func loadSystem(t *testing.T) (*Library, string) {
	t.Helper()
	path, symbol := systemLibrary(t)
	lib, err := New(path, WithLogger(zaptest.NewLogger(t)))
	if err != nil {
		t.Fatalf("New(%q): %v", path, err)
	}
	t.Cleanup(func() { _ = lib.Unload() })
	return lib, symbol
}

// lastAccepted returns what the callback returned to the reference
// library on its most recent call.
func lastAccepted(t *testing.T, lib *Library) uintptr {
	t.Helper()
	return callNative(t, lib, "last_accepted")
}

// callNative calls the reference library's parameterless export name.
func callNative(t *testing.T, lib *Library, name string) uintptr {
	t.Helper()
	var n uintptr
	err := lib.WithModule(func(m *Module) error {
		addr, err := m.Lookup(name)
		if err != nil {
			return err
		}
		var fn func() uintptr
		purego.RegisterFunc(&fn, addr)
		n = fn()
		return nil
	})
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return n
}

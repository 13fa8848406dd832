//go:build !ios && !android && (amd64 || arm64)

package platform

import (
	"runtime"
	"testing"
)

func TestFileNameFor(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"linux", "libcallback.so"},
		{"freebsd", "libcallback.so"},
		{"darwin", "libcallback.dylib"},
		{"windows", "callback.dll"},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			got := FileNameFor(tt.goos, "callback")
			if got != tt.want {
				t.Errorf("FileNameFor(%q, %q) = %q, want %q", tt.goos, "callback", got, tt.want)
			}
		})
	}
}

func TestLibraryFileNameMatchesHost(t *testing.T) {
	if got, want := LibraryFileName("callback"), FileNameFor(runtime.GOOS, "callback"); got != want {
		t.Errorf("LibraryFileName = %q, want %q", got, want)
	}
}

func TestPathEnvFor(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"linux", "LD_LIBRARY_PATH"},
		{"netbsd", "LD_LIBRARY_PATH"},
		{"darwin", "DYLD_LIBRARY_PATH"},
		{"windows", "PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			if got := PathEnvFor(tt.goos); got != tt.want {
				t.Errorf("PathEnvFor(%q) = %q, want %q", tt.goos, got, tt.want)
			}
		})
	}
	if got, want := LibraryPathEnv(), PathEnvFor(runtime.GOOS); got != want {
		t.Errorf("LibraryPathEnv = %q, want %q", got, want)
	}
}

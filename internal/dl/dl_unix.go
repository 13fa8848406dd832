//go:build (darwin || freebsd || linux || netbsd) && !ios && !android && (amd64 || arm64)

package dl

import "github.com/ebitengine/purego"

// Open maps the shared object at path into the process.
// Symbols are bound immediately so that missing transitive dependencies
// are reported here instead of on first call.
func Open(path string) (uintptr, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, err
	}
	if h == 0 {
		return 0, ErrNullHandle
	}
	return h, nil
}

// Sym returns the address of the exported symbol name.
func Sym(handle uintptr, name string) (uintptr, error) {
	if handle == 0 {
		return 0, ErrNullHandle
	}
	return purego.Dlsym(handle, name)
}

// Close releases handle.
func Close(handle uintptr) error {
	if handle == 0 {
		return ErrNullHandle
	}
	return purego.Dlclose(handle)
}

//go:build !ios && !android && (amd64 || arm64)

package cffichan

import (
	"github.com/ebitengine/purego"
)

// EntryPoint is the export every compatible native module provides:
//
//	void async_process(const char *input,
//	                   size_t (*callback)(const char *data, size_t size, void *userdata),
//	                   void *userdata);
const EntryPoint = "async_process"

// Callback is the address of a C-callable function with the signature
//
//	size_t callback(const char *data, size_t size, void *userdata);
//
// It returns the number of bytes it accepted; 0 signals rejection. Values
// are usually obtained from Bridge.Callback or purego.NewCallback. The
// callback must stay valid for as long as the native module may call it,
// which can be after Invoke has returned.
type Callback uintptr

// UserData is the opaque value native code hands back to the callback.
// Native code may keep it indefinitely, so it must never be a Go pointer;
// Bridge.UserData returns a handle-table id instead.
type UserData uintptr

// Invoke calls the module's EntryPoint with input, cb and userData.
//
// Invoke returns once the native function returns. Whether cb has run by
// then, how often it runs and on which thread are decided by the native
// module. Callers wait for results on their own synchronization primitive
// (see NewChannelBridge) and implement any timeout there; there is no way
// to cancel a call once dispatched.
func (l *Library) Invoke(input string, cb Callback, userData UserData) error {
	return l.InvokeSymbol(EntryPoint, input, cb, userData)
}

// InvokeSymbol is like Invoke but calls the export name, which must have
// the EntryPoint signature.
//
// The module is held under the shared lock for the whole native call, so a
// concurrent Unload waits for it. input is passed as a NUL-terminated copy
// that is only valid until the native function returns. No native call is
// made if an error is returned.
func (l *Library) InvokeSymbol(name, input string, cb Callback, userData UserData) error {
	return l.WithModule(func(m *Module) error {
		if cb == 0 {
			return ErrNilCallback
		}
		addr, err := m.Lookup(name)
		if err != nil {
			return err
		}
		m.entry(addr)(input, uintptr(cb), uintptr(userData))
		return nil
	})
}

// InvokeBridge calls Invoke with the callback and user data of b.
// A nil b is treated as a nil callback.
func (l *Library) InvokeBridge(input string, b *Bridge) error {
	if b == nil {
		return l.Invoke(input, 0, 0)
	}
	return l.Invoke(input, b.Callback(), b.UserData())
}

// entryFunc is an export with the EntryPoint signature bound by purego.
type entryFunc func(input string, cb, userData uintptr)

// entry returns the bound function for addr, binding it on first use.
// The cache lives on the Module, so it is dropped with the module on Unload.
func (m *Module) entry(addr uintptr) entryFunc {
	if fn, ok := m.entries.Load(addr); ok {
		return fn.(entryFunc)
	}
	var fn entryFunc
	purego.RegisterFunc(&fn, addr)
	actual, _ := m.entries.LoadOrStore(addr, fn)
	return actual.(entryFunc)
}

//go:build !ios && !android && (amd64 || arm64)

package cffichan

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/cffichan/internal/handles"
	"go.uber.org/zap"
)

// Bridge delivers payloads from native callbacks to Go code.
//
// Every Bridge shares one C-callable trampoline; the bridge is identified by
// its UserData, an id in a process-wide table. The trampoline copies exactly
// the size bytes native code passes, hands them to the bridge's deliver
// function and returns size on success or 0 on failure. Failures, including
// panics in deliver, never propagate into native code.
type Bridge struct {
	id      uintptr
	deliver func(payload []byte) error
	closed  atomic.Bool

	delivered atomic.Uint64
	rejected  atomic.Uint64
}

// Pre-registered trampoline. purego callbacks are a limited resource that
// is never released, so one is shared by all bridges.
var (
	bridges        = handles.New[*Bridge]()
	trampolineOnce sync.Once
	trampolinePtr  uintptr
)

// NewBridge registers a bridge that passes each payload to deliver.
//
// deliver runs on whatever thread native code calls back from and must not
// block indefinitely; native code may hold locks while it waits. A non-nil
// error makes the callback report 0 accepted bytes. The payload is a copy
// owned by deliver.
//
// The bridge stays registered until Close.
func NewBridge(deliver func(payload []byte) error) *Bridge {
	b := &Bridge{deliver: deliver}
	b.id = bridges.Register(b)
	return b
}

// NewChannelBridge returns a bridge that decodes payloads as UTF-8 text,
// replacing invalid sequences, and sends them on ch without blocking.
// If ch has no room the payload is rejected with ErrCallbackChannel, so ch
// should be buffered. Sending on a closed channel is also a rejection.
func NewChannelBridge(ch chan<- string) *Bridge {
	return NewBridge(func(payload []byte) error {
		msg := strings.ToValidUTF8(string(payload), "�")
		select {
		case ch <- msg:
			return nil
		default:
			return fmt.Errorf("%w: channel full", ErrCallbackChannel)
		}
	})
}

// Callback returns the address of the shared trampoline.
func (b *Bridge) Callback() Callback {
	trampolineOnce.Do(func() {
		trampolinePtr = purego.NewCallback(bridgeCallback)
	})
	return Callback(trampolinePtr)
}

// UserData returns the value that identifies b to the trampoline.
func (b *Bridge) UserData() UserData {
	return UserData(b.id)
}

// Close unregisters the bridge. Callbacks that arrive afterwards are
// rejected. Close is idempotent.
func (b *Bridge) Close() {
	if b.closed.CompareAndSwap(false, true) {
		bridges.Unregister(b.id)
	}
}

// Delivered returns the number of payloads accepted by the bridge.
func (b *Bridge) Delivered() uint64 {
	return b.delivered.Load()
}

// Rejected returns the number of callbacks the bridge answered with 0.
func (b *Bridge) Rejected() uint64 {
	return b.rejected.Load()
}

// bridgeCallback is called by native code and forwards to the bridge
// registered under userData.
// Signature: size_t (*)(const char *data, size_t size, void *userdata)
func bridgeCallback(_ purego.CDecl, data *byte, size uintptr, userData uintptr) uintptr {
	b, ok := bridges.Lookup(userData)
	if !ok {
		Logger().Debug("callback rejected",
			zap.Uintptr("user_data", userData),
			zap.Error(fmt.Errorf("%w: unknown bridge", ErrCallbackChannel)))
		return 0
	}
	return b.accept(data, size)
}

func (b *Bridge) accept(data *byte, size uintptr) (accepted uintptr) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Error("callback bridge panicked",
				zap.Uintptr("user_data", b.id),
				zap.Any("panic", r))
			b.rejected.Add(1)
			accepted = 0
		}
	}()

	err := b.handoff(data, size)
	if err != nil {
		b.rejected.Add(1)
		Logger().Debug("callback rejected",
			zap.Uintptr("user_data", b.id),
			zap.Uint64("size", uint64(size)),
			zap.Error(err))
		return 0
	}
	b.delivered.Add(1)
	return size
}

func (b *Bridge) handoff(data *byte, size uintptr) error {
	if b.closed.Load() {
		return fmt.Errorf("%w: bridge closed", ErrCallbackChannel)
	}
	if b.deliver == nil {
		return fmt.Errorf("%w: no consumer", ErrCallbackChannel)
	}
	payload, err := copyPayload(data, size)
	if err != nil {
		return err
	}
	return b.deliver(payload)
}

// copyPayload copies size bytes starting at data. The native buffer is only
// valid for the duration of the callback.
func copyPayload(data *byte, size uintptr) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	if data == nil {
		return nil, fmt.Errorf("%w: nil buffer with size %d", ErrCallbackChannel, size)
	}
	return bytes.Clone(unsafe.Slice(data, size)), nil
}

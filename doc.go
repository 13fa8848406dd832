//go:build !ios && !android && (amd64 || arm64)

// Package cffichan loads a native shared library at runtime and calls its
// asynchronous entry point, receiving results through a C callback, without
// CGO using purego.
//
// A Library owns one loaded module behind a read/write lock. Calls into the
// module hold the lock shared and Unload holds it exclusively, so a module
// is never unmapped while native code from it is running:
//
//	lib, err := cffichan.New(path)
//	if err != nil {
//		return err
//	}
//	defer lib.Unload()
//
//	results := make(chan string, 16)
//	bridge := cffichan.NewChannelBridge(results)
//	defer bridge.Close()
//
//	if err := lib.InvokeBridge("hello", bridge); err != nil {
//		return err
//	}
//	select {
//	case msg := <-results:
//		fmt.Println(msg)
//	case <-time.After(5 * time.Second):
//		return errors.New("no response")
//	}
//
// The native module decides how many times, when and on which thread the
// callback runs; Invoke only guarantees that the entry point has returned.
//
// The reference library in the native directory is built with go generate.
package cffichan

//go:generate make -C native ci.build

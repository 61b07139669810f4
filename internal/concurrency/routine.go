package concurrency

import (
	"log/slog"
	"runtime/debug"
)

// SafeGo starts fn on its own goroutine and turns a panic into an error
// log instead of a crash. onPanic, when non-nil, receives the recovered
// value.
func SafeGo(fn func(), onPanic func(any)) {
	go func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			slog.Error("Recovered goroutine panic", "panic", r, "stack", string(debug.Stack()))
			if onPanic != nil {
				onPanic(r)
			}
		}()
		fn()
	}()
}

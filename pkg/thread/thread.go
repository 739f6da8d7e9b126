// Package thread keeps window system calls on the main OS thread.
// SDL wants window creation and event polling there, and macOS insists.
// See: https://github.com/golang/go/wiki/LockOSThread
package thread

import "github.com/faiface/mainthread"

// Wrap runs f while the calling goroutine, which has to be
// the main one, serves Call. It returns when f returns.
func Wrap(f func()) { mainthread.Run(f) }

// Call runs f on the main thread and waits for it.
func Call(f func()) { mainthread.Call(f) }

// CallErr is Call for functions that fail.
func CallErr(f func() error) error { return mainthread.CallErr(f) }

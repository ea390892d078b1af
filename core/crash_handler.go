package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
)

// Finalizer is implemented by terminal screens that must be restored before exit
type Finalizer interface {
	Fini()
}

var (
	crashMu       sync.Mutex
	crashTerminal Finalizer
	crashExit     = os.Exit
)

// Escape sequences written when no screen is registered
const (
	csiCursorShow    = "\x1b[?25h"
	csiAltScreenExit = "\x1b[?1049l"
	csiSGR0          = "\x1b[0m"
)

// RegisterTerminal records the screen to finalize when a goroutine panics
func RegisterTerminal(t Finalizer) {
	crashMu.Lock()
	crashTerminal = t
	crashMu.Unlock()
}

// HandleCrash is the unified panic handler that resets the terminal and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	term := crashTerminal
	crashTerminal = nil
	crashMu.Unlock()

	if term != nil {
		term.Fini()
	} else {
		fmt.Fprint(os.Stdout, csiCursorShow+csiAltScreenExit+csiSGR0)
	}
	os.Stdout.Sync()

	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mPOMODORO CRASHED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Stderr.Sync()

	crashExit(1)
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}

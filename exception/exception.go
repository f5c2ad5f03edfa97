package exception

import (
	"runtime/debug"

	"github.com/mezonai/snapledger/logx"
	"github.com/mezonai/snapledger/monitoring"
)

// SafeGo runs fn in a goroutine, counting and logging a panic instead of crashing
func SafeGo(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				monitoring.IncreasePanicCount()
				logx.Error("PANIC", "Panic in:", name, r, string(debug.Stack()))
			}
		}()
		fn()
	}()
}

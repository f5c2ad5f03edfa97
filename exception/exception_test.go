package exception

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSafeGo_RunsFunction(t *testing.T) {
	done := make(chan struct{})
	SafeGo("worker", func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("function was not run")
	}
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	reached := make(chan struct{})
	SafeGo("panicking", func() {
		close(reached)
		panic("boom")
	})

	select {
	case <-reached:
	case <-time.After(time.Second):
		t.Fatal("function was not run")
	}

	// process still alive and able to schedule more work
	ok := make(chan bool, 1)
	SafeGo("after", func() { ok <- true })
	assert.True(t, <-ok)
}

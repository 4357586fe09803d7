// Package leaktest checks that components stop every goroutine they start.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// settleTimeout bounds how long Check waits for stopped goroutines to exit
const settleTimeout = 2 * time.Second

// GoroutineChecker compares goroutine counts before and after a lifecycle
type GoroutineChecker struct {
	before int
	t      testing.TB
}

// NewGoroutineChecker records the current goroutine count
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	return &GoroutineChecker{before: settledCount(), t: t}
}

// Check fails the test when more than tolerance goroutines are still running
// once the count stops dropping.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	target := g.before + tolerance
	deadline := time.Now().Add(settleTimeout)
	after := runtime.NumGoroutine()
	for after > target && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
		after = runtime.NumGoroutine()
	}

	if after > target {
		g.t.Errorf("goroutine leak: before=%d after=%d tolerance=%d\n%s",
			g.before, after, tolerance, stacks())
	}
}

// CheckNoGoroutineLeak runs fn and verifies it left nothing running
func CheckNoGoroutineLeak(t testing.TB, fn func()) {
	t.Helper()

	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}

// settledCount waits briefly for goroutines from earlier tests to exit
func settledCount() int {
	prev := runtime.NumGoroutine()
	for i := 0; i < 5; i++ {
		runtime.Gosched()
		time.Sleep(5 * time.Millisecond)
		n := runtime.NumGoroutine()
		if n >= prev {
			return n
		}
		prev = n
	}
	return prev
}

func stacks() string {
	buf := make([]byte, 1<<16)
	return string(buf[:runtime.Stack(buf, true)])
}

package core

import (
	"bytes"
	"strings"
	"testing"
)

func captureCrash(t *testing.T) (*bytes.Buffer, *int) {
	t.Helper()
	var buf bytes.Buffer
	code := -1
	prevOut, prevExit := crashOut, exit
	crashOut = &buf
	exit = func(c int) { code = c }
	t.Cleanup(func() {
		crashOut, exit = prevOut, prevExit
		SetCrashHook(nil)
	})
	return &buf, &code
}

func TestHandleCrash_NilIsNoop(t *testing.T) {
	buf, code := captureCrash(t)
	HandleCrash(nil)
	if buf.Len() != 0 || *code != -1 {
		t.Errorf("nil panic value produced output %q, exit %d", buf.String(), *code)
	}
}

func TestHandleCrash_RunsHookThenReports(t *testing.T) {
	buf, code := captureCrash(t)
	var order []string
	SetCrashHook(func() {
		order = append(order, "hook")
		if buf.Len() != 0 {
			t.Error("report written before hook")
		}
	})

	HandleCrash("boom")

	if len(order) != 1 {
		t.Fatalf("hook ran %d times", len(order))
	}
	if !strings.Contains(buf.String(), "CRASH DETECTED: boom") {
		t.Errorf("report = %q", buf.String())
	}
	if !strings.Contains(buf.String(), "Stack Trace:") {
		t.Error("missing stack trace")
	}
	if *code != 1 {
		t.Errorf("exit code = %d, want 1", *code)
	}
}

func TestHandleCrash_PanickingHook(t *testing.T) {
	buf, code := captureCrash(t)
	SetCrashHook(func() { panic("hook failed") })

	HandleCrash("original")

	if !strings.Contains(buf.String(), "original") {
		t.Errorf("report = %q", buf.String())
	}
	if *code != 1 {
		t.Errorf("exit code = %d", *code)
	}
}

func TestGo_RecoversPanic(t *testing.T) {
	buf, _ := captureCrash(t)
	done := make(chan int, 1)
	exit = func(c int) { done <- c }

	Go(func() { panic("in goroutine") })

	if c := <-done; c != 1 {
		t.Errorf("exit code = %d", c)
	}
	if !strings.Contains(buf.String(), "in goroutine") {
		t.Errorf("report = %q", buf.String())
	}
}

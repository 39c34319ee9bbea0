package runner_test

import (
	"context"
	"testing"
	"time"

	"github.com/queuectl/queuectl/internal/runner"
)

func TestRunSuccess(t *testing.T) {
	out := runner.Run(context.Background(), "exit 0", time.Second)
	if !out.Success {
		t.Fatalf("expected success, got %+v", out)
	}
}

func TestRunFailureUsesStderr(t *testing.T) {
	out := runner.Run(context.Background(), "echo boom 1>&2; exit 1", time.Second)
	if out.Success {
		t.Fatal("expected failure")
	}
	if out.Message != "boom" {
		t.Fatalf("expected trimmed stderr 'boom', got %q", out.Message)
	}
}

func TestRunFailureFallsBackToExitCode(t *testing.T) {
	out := runner.Run(context.Background(), "exit 7", time.Second)
	if out.Success {
		t.Fatal("expected failure")
	}
	if out.Message != "Exit code: 7" {
		t.Fatalf("expected exit code message, got %q", out.Message)
	}
}

func TestRunTimeoutKillsProcessGroup(t *testing.T) {
	start := time.Now()
	out := runner.Run(context.Background(), "sh -c 'sleep 5 & wait'", 200*time.Millisecond)
	elapsed := time.Since(start)
	if out.Success {
		t.Fatal("expected timeout failure")
	}
	if out.Message != "Job timed out after 0 seconds" {
		t.Fatalf("unexpected message: %q", out.Message)
	}
	if elapsed > 2*time.Second {
		t.Fatalf("Run did not return promptly after timeout: %v", elapsed)
	}
}

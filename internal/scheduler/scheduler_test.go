package scheduler_test

import (
	"testing"
	"time"

	"github.com/queuectl/queuectl/internal/scheduler"
)

func TestBackoffDelayIsExponential(t *testing.T) {
	cases := []struct {
		attempts int
		base     int
		want     time.Duration
	}{
		{0, 2, 1 * time.Second},
		{1, 2, 2 * time.Second},
		{2, 2, 4 * time.Second},
		{3, 2, 8 * time.Second},
		{4, 3, 81 * time.Second},
	}
	for _, c := range cases {
		got := scheduler.BackoffDelay(c.attempts, c.base)
		if got != c.want {
			t.Errorf("BackoffDelay(%d, %d) = %v, want %v", c.attempts, c.base, got, c.want)
		}
	}
}

func TestBackoffDelayStrictlyIncreasing(t *testing.T) {
	prev := scheduler.BackoffDelay(1, 2)
	for k := 2; k <= 10; k++ {
		cur := scheduler.BackoffDelay(k, 2)
		if cur <= prev {
			t.Fatalf("BackoffDelay not increasing at k=%d: prev=%v cur=%v", k, prev, cur)
		}
		prev = cur
	}
}

func TestClassifyFailure(t *testing.T) {
	cases := []struct {
		attempts, maxRetries int
		wantDead             bool
	}{
		{0, 3, false},
		{2, 3, false},
		{3, 3, true},
		{4, 3, true},
		{0, 0, true},
	}
	for _, c := range cases {
		got := scheduler.ClassifyFailure(c.attempts, c.maxRetries)
		if got != c.wantDead {
			t.Errorf("ClassifyFailure(%d, %d) = %v, want %v", c.attempts, c.maxRetries, got, c.wantDead)
		}
	}
}

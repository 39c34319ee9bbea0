package supervisor_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/queuectl/queuectl/internal/supervisor"
)

// TestMain stands in for the worker when SpawnWorkers re-execs this
// test binary as "worker run ...": it exits at once instead of running
// the package's tests a second time.
func TestMain(m *testing.M) {
	if len(os.Args) > 1 && os.Args[1] == "worker" {
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func TestSpawnAndListTracksLiveWorker(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "jobs.db")
	sup, err := supervisor.New(dbPath)
	if err != nil {
		t.Fatal(err)
	}

	handles, err := sup.SpawnWorkers(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(handles) != 1 {
		t.Fatalf("expected 1 handle, got %d", len(handles))
	}
	if handles[0].ID == "" || handles[0].PID == 0 {
		t.Fatalf("expected populated handle, got %+v", handles[0])
	}

	statuses, err := sup.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(statuses) != 1 {
		t.Fatalf("expected 1 tracked worker, got %d", len(statuses))
	}

	// The re-exec'd test binary exits almost immediately (TestMain turns
	// "worker run" away); give it a moment, then a second List should
	// prune it away.
	time.Sleep(300 * time.Millisecond)
	statuses, err = sup.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(statuses) != 0 {
		t.Fatalf("expected dead worker pruned, got %+v", statuses)
	}
}

func TestListOnEmptySidecarIsEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "jobs.db")
	sup, err := supervisor.New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	statuses, err := sup.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(statuses) != 0 {
		t.Fatalf("expected no tracked workers, got %+v", statuses)
	}
}

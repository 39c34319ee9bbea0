// Package supervisor spawns, signals, and lists worker processes. It
// is deliberately thin: the only contract it owes the core is that
// each spawned worker gets a unique id and that a crashed worker is
// observable only indirectly, via its expired lease.
package supervisor

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// Handle is one tracked worker process, persisted in the sidecar file.
type Handle struct {
	ID        string    `json:"id"`
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
}

// Status reports a tracked worker's current liveness alongside its
// Handle.
type Status struct {
	Handle
	Alive bool `json:"alive"`
}

// Supervisor tracks worker processes for a single store file, via a
// JSON sidecar file living next to it. A flat array is enough: this
// spec never runs across hosts, so there is no need for an embedded
// database just to track a handful of PIDs.
type Supervisor struct {
	dbPath      string
	sidecarPath string
	binPath     string
}

// New returns a Supervisor for the store at dbPath, using the
// currently running binary as the worker entry point.
func New(dbPath string) (*Supervisor, error) {
	bin, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve worker binary: %w", err)
	}
	return &Supervisor{
		dbPath:      dbPath,
		sidecarPath: dbPath + ".workers.json",
		binPath:     bin,
	}, nil
}

// SpawnWorkers re-execs the binary as `queuectl worker run --id <uuid>
// --db <path>` n times, each detached into its own process group, and
// appends their PIDs to the sidecar file.
func (s *Supervisor) SpawnWorkers(n int) ([]Handle, error) {
	entries, err := s.read()
	if err != nil {
		return nil, err
	}

	spawned := make([]Handle, 0, n)
	for i := 0; i < n; i++ {
		id := uuid.NewString()
		cmd := exec.Command(s.binPath, "worker", "run", "--id", id, "--db", s.dbPath)
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Start(); err != nil {
			return spawned, fmt.Errorf("spawn worker: %w", err)
		}
		// Reap the child when it exits, so that while this process lives
		// an exited worker does not linger as a zombie that alive() would
		// still report as running.
		go func() { _ = cmd.Wait() }()
		h := Handle{ID: id, PID: cmd.Process.Pid, StartedAt: time.Now().UTC()}
		entries = append(entries, h)
		spawned = append(spawned, h)
	}

	return spawned, s.write(entries)
}

// SignalStop sends SIGTERM (graceful) or SIGKILL (force) to every live
// tracked worker and returns how many were signaled. Dead entries are
// pruned from the sidecar file as a side effect.
func (s *Supervisor) SignalStop(graceful bool) (int, error) {
	entries, err := s.read()
	if err != nil {
		return 0, err
	}

	sig := syscall.SIGTERM
	if !graceful {
		sig = syscall.SIGKILL
	}

	signaled := 0
	live := make([]Handle, 0, len(entries))
	for _, e := range entries {
		if !alive(e.PID) {
			continue
		}
		if err := syscall.Kill(e.PID, sig); err == nil {
			signaled++
		}
		live = append(live, e)
	}

	return signaled, s.write(live)
}

// List reports the tracked workers that are still alive, pruning dead
// entries from the sidecar file as it goes.
func (s *Supervisor) List() ([]Status, error) {
	entries, err := s.read()
	if err != nil {
		return nil, err
	}

	statuses := make([]Status, 0, len(entries))
	live := make([]Handle, 0, len(entries))
	for _, e := range entries {
		if alive(e.PID) {
			statuses = append(statuses, Status{Handle: e, Alive: true})
			live = append(live, e)
		}
	}

	return statuses, s.write(live)
}

func alive(pid int) bool {
	return syscall.Kill(pid, 0) == nil
}

func (s *Supervisor) read() ([]Handle, error) {
	data, err := os.ReadFile(s.sidecarPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read worker sidecar: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var entries []Handle
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse worker sidecar: %w", err)
	}
	return entries, nil
}

func (s *Supervisor) write(entries []Handle) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode worker sidecar: %w", err)
	}
	if err := os.WriteFile(s.sidecarPath, data, 0o644); err != nil {
		return fmt.Errorf("write worker sidecar: %w", err)
	}
	return nil
}

package job

import (
	"database/sql/driver"
	"fmt"
)

// State represents the current lifecycle state of a Job.
//
// The state machine is:
//
//	pending    -> processing
//	processing -> completed
//	processing -> failed      (retry budget remains)
//	processing -> dead        (retry budget exhausted)
//	failed     -> processing  (once next_retry_at has elapsed)
//	dead       -> pending     (via DLQ retry)
//
// Unknown is reserved as a zero value and may be used to indicate an
// unspecified state in filtering contexts (for example, List with no
// state filter).
type State uint8

const (
	// Unknown represents an unspecified or invalid state.
	// It is the zero value of State.
	Unknown State = iota

	// Pending indicates the job is eligible for acquisition.
	Pending

	// Processing indicates the job has been leased by a worker.
	// LeaseOwner and LeaseExpiresAt are set while in this state.
	Processing

	// Completed indicates the job's command exited zero within its
	// timeout. Terminal; not retried.
	Completed

	// Failed indicates the most recent attempt did not succeed but the
	// retry budget is not exhausted. NextRetryAt is set to the time the
	// job becomes eligible for acquisition again.
	Failed

	// Dead indicates the retry budget is exhausted. Terminal unless
	// explicitly requeued via DLQ retry.
	Dead
)

func stateToString(s State) string {
	switch s {
	case Pending:
		return "pending"
	case Processing:
		return "processing"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

func stateFromString(s string) (State, error) {
	switch s {
	case "pending":
		return Pending, nil
	case "processing":
		return Processing, nil
	case "completed":
		return Completed, nil
	case "failed":
		return Failed, nil
	case "dead":
		return Dead, nil
	case "unknown", "":
		return Unknown, nil
	default:
		return 0, fmt.Errorf("unknown job state: %q", s)
	}
}

// ParseState converts the lowercase wire form of a state into a State
// value. An error is returned for unrecognized strings.
func ParseState(s string) (State, error) {
	return stateFromString(s)
}

// MarshalText implements encoding.TextMarshaler. States are encoded
// using their lowercase wire names, matching the persisted record
// format.
func (s State) MarshalText() ([]byte, error) {
	return []byte(stateToString(s)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	v, err := stateFromString(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// String returns the lowercase wire form of the state.
func (s State) String() string {
	return stateToString(s)
}

// Terminal reports whether s is a state from which a job is not
// retried automatically (completed or dead).
func (s State) Terminal() bool {
	return s == Completed || s == Dead
}

// Value implements driver.Valuer so State is persisted using its
// lowercase wire name rather than its numeric backing value.
func (s State) Value() (driver.Value, error) {
	return stateToString(s), nil
}

// Scan implements sql.Scanner.
func (s *State) Scan(src any) error {
	switch v := src.(type) {
	case string:
		parsed, err := stateFromString(v)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	case []byte:
		parsed, err := stateFromString(string(v))
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	case nil:
		*s = Unknown
		return nil
	default:
		return fmt.Errorf("job: cannot scan %T into State", src)
	}
}

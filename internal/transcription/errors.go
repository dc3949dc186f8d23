package transcription

import (
	"errors"
	"fmt"
)

// ErrUnknownModel is returned by the registry when no adapter claims a
// model identifier. It never falls back to a default provider.
var ErrUnknownModel = errors.New("unknown model")

// ErrSizeInfeasible is returned by the chunker when the source cannot be
// split under the payload ceiling even at minimal duration.
var ErrSizeInfeasible = errors.New("audio too dense to chunk under the payload limit")

// ConfigError marks a missing credential, runtime dependency or other
// precondition. It is raised before any network or compute cost and
// carries remediation text.
type ConfigError struct {
	Family string
	Reason string
	Fix    string
}

func (e *ConfigError) Error() string {
	if e.Fix != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Family, e.Reason, e.Fix)
	}
	return fmt.Sprintf("%s: %s", e.Family, e.Reason)
}

// BackendError wraps a failure from a provider's backend call (network,
// auth, quota). A single chunk's backend failure aborts the whole job.
type BackendError struct {
	Family string
	Err    error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend: %v", e.Family, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

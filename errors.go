package pprl

import (
	"errors"
	"fmt"

	"github.com/hupe1980/pprl/graph"
	"github.com/hupe1980/pprl/similarity"
)

var (
	// ErrInvalidConfig is the sentinel matched by every *ConfigError.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrAssignmentInconsistency indicates that the solver selected two edges
	// sharing an endpoint. It is a defect, never retried.
	ErrAssignmentInconsistency = graph.ErrAssignmentInconsistency

	// ErrOracleFailure indicates that a similarity or distance computation
	// failed or returned an out-of-range value. The run is aborted; callers
	// may retry the whole run.
	ErrOracleFailure = similarity.ErrOracleFailure

	errNilParty       = errors.New("party is nil")
	errDuplicateParty = errors.New("duplicate party id")
)

// ConfigError describes an invalid configuration value.
//
// errors.Is(err, ErrInvalidConfig) reports true for every ConfigError.
type ConfigError struct {
	Field string
	Value any
	cause error
}

func (e *ConfigError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("invalid %s: %v: %v", e.Field, e.Value, e.cause)
	}
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Value)
}

// Is implements errors.Is for ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfig }

func (e *ConfigError) Unwrap() error { return e.cause }

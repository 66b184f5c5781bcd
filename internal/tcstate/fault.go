package tcstate

import (
	"context"
	"errors"
	"fmt"

	"fsfront/internal/config"
	"fsfront/internal/types"
)

var (
	ErrSimulatedFailure     = errors.New("simulated failure")
	ErrInvalidOperation     = errors.New("operation is not valid due to the current state of the object")
	ErrArgumentOutOfRange   = errors.New("specified argument was out of the range of valid values")
	ErrKeyNotFound          = errors.New("the given key was not present in the dictionary")
	ErrSimulatedCancelation = fmt.Errorf("simulated cancellation: %w", context.Canceled)
)

// simulateFault fires the configured fault inside a check step. Cancellation
// is returned as an error, the rest panic and go through recovery.
func simulateFault(kind config.FaultKind) error {
	switch kind {
	case config.FaultTcFail:
		panic(ErrSimulatedFailure)
	case config.FaultTcInvalidOperation:
		panic(ErrInvalidOperation)
	case config.FaultTcArgumentOutOfRange:
		panic(ErrArgumentOutOfRange)
	case config.FaultTcKeyNotFound:
		panic(ErrKeyNotFound)
	case config.FaultTcNullReference:
		var mt *types.ModuleType
		_ = mt.Name
	case config.FaultTcCancelled:
		return ErrSimulatedCancelation
	}
	return nil
}

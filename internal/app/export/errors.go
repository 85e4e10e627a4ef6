package export

import (
	"errors"
	"fmt"
)

var (
	// ErrHandlerDisabled is returned when the export destination is switched
	// off by configuration.
	ErrHandlerDisabled = errors.New("export handler is disabled")

	// ErrEnvironmentNotProvisioned is returned when the destination has no
	// store or credentials in the current deployment tier.
	ErrEnvironmentNotProvisioned = errors.New("export queue is not provisioned for this environment")

	// ErrObjectExists is returned when a key has already been written.
	ErrObjectExists = errors.New("export object already exists")
)

type Kind int

const (
	KindGeneric Kind = iota
	KindDisabledHandler
	KindInvalidEnvironment
)

func (k Kind) String() string {
	switch k {
	case KindDisabledHandler:
		return "disabled_handler"
	case KindInvalidEnvironment:
		return "invalid_environment"
	case KindGeneric:
		return "generic"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// QueueError is the only error Submit returns. Silenced failures are expected
// outcomes that are logged and dropped; the others must alert.
type QueueError struct {
	Kind     Kind
	Key      string
	Err      error
	silenced bool
}

func newQueueError(kind Kind, key string, err error) *QueueError {
	var silenced bool
	switch kind {
	case KindDisabledHandler, KindInvalidEnvironment:
		silenced = true
	case KindGeneric:
		silenced = false
	}

	return &QueueError{Kind: kind, Key: key, Err: err, silenced: silenced}
}

func (e *QueueError) Error() string {
	return fmt.Sprintf("export %s (%s): %v", e.Key, e.Kind, e.Err)
}

func (e *QueueError) Unwrap() error {
	return e.Err
}

func (e *QueueError) Silenced() bool {
	return e.silenced
}

// classify maps a store error onto the queue taxonomy.
func classify(key string, err error) *QueueError {
	switch {
	case errors.Is(err, ErrHandlerDisabled):
		return newQueueError(KindDisabledHandler, key, err)
	case errors.Is(err, ErrEnvironmentNotProvisioned):
		return newQueueError(KindInvalidEnvironment, key, err)
	default:
		return newQueueError(KindGeneric, key, err)
	}
}

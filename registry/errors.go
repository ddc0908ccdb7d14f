package registry

import (
	"errors"
	"fmt"
)

// ErrNotFound is the generic "no entity under that key" miss. Every
// family-specific sentinel below wraps it, so callers can match either the
// exact family or the whole class with errors.Is. A miss is a normal
// negative result, never a crash.
var ErrNotFound = errors.New("not found")

var (
	// ErrOrganizationNotFound is returned when an organization key resolves nothing.
	ErrOrganizationNotFound = fmt.Errorf("organization %w", ErrNotFound)

	// ErrVehicleNotFound is returned when a vehicle key resolves nothing.
	ErrVehicleNotFound = fmt.Errorf("vehicle %w", ErrNotFound)

	// ErrInsuranceNotFound is returned when the parent vehicle exists but
	// holds no insurance record under the local key.
	ErrInsuranceNotFound = fmt.Errorf("insurance %w", ErrNotFound)

	// ErrRevisionNotFound is returned when the parent vehicle exists but
	// holds no revision record under the local key.
	ErrRevisionNotFound = fmt.Errorf("revision %w", ErrNotFound)

	// ErrDriverNotFound is returned when a driver key resolves nothing.
	ErrDriverNotFound = fmt.Errorf("driver %w", ErrNotFound)

	// ErrTachographCardNotFound is returned when the parent driver exists
	// but holds no card under the local key.
	ErrTachographCardNotFound = fmt.Errorf("tachograph card %w", ErrNotFound)

	// ErrTrafficViolationNotFound is returned when the parent driver exists
	// but holds no violation under the local key.
	ErrTrafficViolationNotFound = fmt.Errorf("traffic violation %w", ErrNotFound)

	// ErrTransportOperationNotFound is returned when no operation is
	// installed under a vehicle key.
	ErrTransportOperationNotFound = fmt.Errorf("transport operation %w", ErrNotFound)

	// ErrPhaseNotFound is returned when the parent operation exists but
	// holds no phase under the local key.
	ErrPhaseNotFound = fmt.Errorf("phase %w", ErrNotFound)
)

// IsNotFound reports whether err is any lookup miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

package access

import (
	"caravan/core"
	"caravan/registry"
)

// TransportOperationAccess is the query facade for the transport-operation
// family.
type TransportOperationAccess struct {
	handle *registry.Handle
}

// NewTransportOperationAccess creates a transport-operation facade over the
// registry handle.
func NewTransportOperationAccess(handle *registry.Handle) *TransportOperationAccess {
	return &TransportOperationAccess{handle: handle}
}

// List returns the surviving operation per vehicle key in installation
// order.
func (a *TransportOperationAccess) List() []*core.TransportOperation {
	return a.handle.Snapshot().TransportOperations()
}

// GetByPlate resolves the latest operation installed for a vehicle key.
func (a *TransportOperationAccess) GetByPlate(countryCode, plateNumber string) (*core.TransportOperation, error) {
	op, err := a.handle.Snapshot().TransportOperation(countryCode, plateNumber)
	observe(core.FamilyTransportOperation, err)
	return op, err
}

// GetPhase resolves a phase by parent vehicle key and local id.
func (a *TransportOperationAccess) GetPhase(countryCode, plateNumber string, phaseID int64) (*core.Phase, error) {
	ph, err := a.handle.Snapshot().Phase(countryCode, plateNumber, phaseID)
	observe(core.FamilyTransportOperation, err)
	return ph, err
}

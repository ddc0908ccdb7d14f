package access

import (
	"caravan/core"
	"caravan/registry"
)

// VehicleAccess is the query facade for the vehicle family.
type VehicleAccess struct {
	handle *registry.Handle
}

// NewVehicleAccess creates a vehicle facade over the registry handle.
func NewVehicleAccess(handle *registry.Handle) *VehicleAccess {
	return &VehicleAccess{handle: handle}
}

// List returns all vehicles in installation order.
func (a *VehicleAccess) List() []*core.Vehicle {
	return a.handle.Snapshot().Vehicles()
}

// GetByPlate resolves a vehicle by (countryCode, plateNumber).
func (a *VehicleAccess) GetByPlate(countryCode, plateNumber string) (*core.Vehicle, error) {
	v, err := a.handle.Snapshot().Vehicle(countryCode, plateNumber)
	observe(core.FamilyVehicle, err)
	return v, err
}

// ListInsurance returns a vehicle's insurance records in source order.
func (a *VehicleAccess) ListInsurance(countryCode, plateNumber string) ([]core.Insurance, error) {
	v, err := a.handle.Snapshot().Vehicle(countryCode, plateNumber)
	observe(core.FamilyVehicle, err)
	if err != nil {
		return nil, err
	}
	out := make([]core.Insurance, len(v.Insurance))
	copy(out, v.Insurance)
	return out, nil
}

// GetInsurance resolves an insurance record by parent key and local id.
func (a *VehicleAccess) GetInsurance(countryCode, plateNumber string, insuranceID int64) (*core.Insurance, error) {
	ins, err := a.handle.Snapshot().Insurance(countryCode, plateNumber, insuranceID)
	observe(core.FamilyVehicle, err)
	return ins, err
}

// ListRevisions returns a vehicle's revision records in source order.
func (a *VehicleAccess) ListRevisions(countryCode, plateNumber string) ([]core.Revision, error) {
	v, err := a.handle.Snapshot().Vehicle(countryCode, plateNumber)
	observe(core.FamilyVehicle, err)
	if err != nil {
		return nil, err
	}
	out := make([]core.Revision, len(v.Revision))
	copy(out, v.Revision)
	return out, nil
}

// GetRevision resolves a revision record by parent key and local id.
func (a *VehicleAccess) GetRevision(countryCode, plateNumber string, revisionID int64) (*core.Revision, error) {
	rev, err := a.handle.Snapshot().Revision(countryCode, plateNumber, revisionID)
	observe(core.FamilyVehicle, err)
	return rev, err
}

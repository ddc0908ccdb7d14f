// Package registry implements the compound-key resolver: immutable
// in-memory indexes mapping normalized compound keys to validated entities.
//
// A Registry is built in one pass from a core.Dataset and never mutated
// afterwards, so any number of readers may query it concurrently without
// locking. Reloads build a fresh Registry off to the side and publish it
// through a Handle swap; readers see either the old or the new complete
// index, never a partial one.
package registry

import (
	"fmt"
	"time"

	"caravan/core"
)

// Registry holds one immutable index per entity family plus insertion-order
// slices backing the list operations.
type Registry struct {
	organizations map[core.OrganizationKey]*core.Organization
	orgList       []*core.Organization

	vehicles    map[core.VehicleKey]*core.Vehicle
	vehicleList []*core.Vehicle

	drivers    map[core.DriverKey]*core.Driver
	driverList []*core.Driver

	operations    map[core.VehicleKey]*core.TransportOperation
	operationList []*core.TransportOperation

	// foldedOperations counts transport-operation records shadowed by a
	// later record with the same vehicle key (keep-latest policy).
	foldedOperations int

	builtAt time.Time
}

// Build indexes a validated dataset in one pass.
//
// Key collisions in the organization, vehicle and driver families are fatal:
// the whole dataset is rejected with a *core.DuplicateKeyError so a load
// either installs cleanly or not at all. Transport operations follow the
// keep-latest policy instead: a later record for the same vehicle key
// replaces the earlier one, and the fold is counted, because successive
// operations over one vehicle are the expected shape of that family.
func Build(ds core.Dataset) (*Registry, error) {
	r := &Registry{
		organizations: make(map[core.OrganizationKey]*core.Organization, len(ds.Organizations)),
		orgList:       make([]*core.Organization, 0, len(ds.Organizations)),
		vehicles:      make(map[core.VehicleKey]*core.Vehicle, len(ds.Vehicles)),
		vehicleList:   make([]*core.Vehicle, 0, len(ds.Vehicles)),
		drivers:       make(map[core.DriverKey]*core.Driver, len(ds.Drivers)),
		driverList:    make([]*core.Driver, 0, len(ds.Drivers)),
		operations:    make(map[core.VehicleKey]*core.TransportOperation, len(ds.TransportOperations)),
		operationList: make([]*core.TransportOperation, 0, len(ds.TransportOperations)),
		builtAt:       time.Now().UTC(),
	}

	for _, org := range ds.Organizations {
		key, ok := org.Key()
		if ok {
			if _, dup := r.organizations[key]; dup {
				return nil, &core.DuplicateKeyError{Family: string(core.FamilyOrganization), Key: key.String()}
			}
			r.organizations[key] = org
		}
		r.orgList = append(r.orgList, org)
	}

	for _, v := range ds.Vehicles {
		key := v.Key()
		if _, dup := r.vehicles[key]; dup {
			return nil, &core.DuplicateKeyError{Family: string(core.FamilyVehicle), Key: key.String()}
		}
		r.vehicles[key] = v
		r.vehicleList = append(r.vehicleList, v)
	}

	for _, d := range ds.Drivers {
		key := d.Key()
		if _, dup := r.drivers[key]; dup {
			return nil, &core.DuplicateKeyError{Family: string(core.FamilyDriver), Key: key.String()}
		}
		r.drivers[key] = d
		r.driverList = append(r.driverList, d)
	}

	for _, op := range ds.TransportOperations {
		key := op.Key()
		if prev, shadowed := r.operations[key]; shadowed {
			for i, existing := range r.operationList {
				if existing == prev {
					r.operationList[i] = op
					break
				}
			}
			r.foldedOperations++
		} else {
			r.operationList = append(r.operationList, op)
		}
		r.operations[key] = op
	}

	return r, nil
}

// BuiltAt returns when this index was built.
func (r *Registry) BuiltAt() time.Time {
	return r.builtAt
}

// FoldedOperations returns how many transport-operation records were
// replaced by a later record with the same vehicle key during Build.
func (r *Registry) FoldedOperations() int {
	return r.foldedOperations
}

// Count returns the number of indexed entities in the given family.
func (r *Registry) Count(family core.Family) int {
	switch family {
	case core.FamilyOrganization:
		return len(r.orgList)
	case core.FamilyVehicle:
		return len(r.vehicleList)
	case core.FamilyDriver:
		return len(r.driverList)
	case core.FamilyTransportOperation:
		return len(r.operationList)
	}
	return 0
}

// Organization resolves an organization by normalized (countryCode, vat).
func (r *Registry) Organization(countryCode, vat string) (*core.Organization, error) {
	key, err := core.NewOrganizationKey(countryCode, vat)
	if err != nil {
		return nil, err
	}
	org, ok := r.organizations[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrOrganizationNotFound)
	}
	return org, nil
}

// Vehicle resolves a vehicle by normalized (countryCode, plateNumber).
func (r *Registry) Vehicle(countryCode, plateNumber string) (*core.Vehicle, error) {
	key, err := core.NewVehicleKey(countryCode, plateNumber)
	if err != nil {
		return nil, err
	}
	v, ok := r.vehicles[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrVehicleNotFound)
	}
	return v, nil
}

// Insurance resolves an insurance record nested under a vehicle. A missing
// parent surfaces as ErrVehicleNotFound, distinct from a present parent
// with no such insurance id.
func (r *Registry) Insurance(countryCode, plateNumber string, insuranceID int64) (*core.Insurance, error) {
	v, err := r.Vehicle(countryCode, plateNumber)
	if err != nil {
		return nil, err
	}
	ins, ok := v.InsuranceByID(insuranceID)
	if !ok {
		return nil, fmt.Errorf("%s/%d: %w", v.Key(), insuranceID, ErrInsuranceNotFound)
	}
	return ins, nil
}

// Revision resolves a revision record nested under a vehicle.
func (r *Registry) Revision(countryCode, plateNumber string, revisionID int64) (*core.Revision, error) {
	v, err := r.Vehicle(countryCode, plateNumber)
	if err != nil {
		return nil, err
	}
	rev, ok := v.RevisionByID(revisionID)
	if !ok {
		return nil, fmt.Errorf("%s/%d: %w", v.Key(), revisionID, ErrRevisionNotFound)
	}
	return rev, nil
}

// Driver resolves a driver by normalized (countryCode, vat).
func (r *Registry) Driver(countryCode, vat string) (*core.Driver, error) {
	key, err := core.NewDriverKey(countryCode, vat)
	if err != nil {
		return nil, err
	}
	d, ok := r.drivers[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrDriverNotFound)
	}
	return d, nil
}

// TachographCard resolves a card nested under a driver. A missing parent
// surfaces as ErrDriverNotFound, distinct from a present parent with no
// such card id.
func (r *Registry) TachographCard(countryCode, vat, cardID string) (*core.TachographCard, error) {
	d, err := r.Driver(countryCode, vat)
	if err != nil {
		return nil, err
	}
	card, ok := d.TachographCardByID(cardID)
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", d.Key(), cardID, ErrTachographCardNotFound)
	}
	return card, nil
}

// TrafficViolation resolves a violation nested under a driver.
func (r *Registry) TrafficViolation(countryCode, vat string, violationID int64) (*core.TrafficViolation, error) {
	d, err := r.Driver(countryCode, vat)
	if err != nil {
		return nil, err
	}
	tv, ok := d.TrafficViolationByID(violationID)
	if !ok {
		return nil, fmt.Errorf("%s/%d: %w", d.Key(), violationID, ErrTrafficViolationNotFound)
	}
	return tv, nil
}

// TransportOperation resolves the latest installed operation for a vehicle
// key.
func (r *Registry) TransportOperation(countryCode, plateNumber string) (*core.TransportOperation, error) {
	key, err := core.NewVehicleKey(countryCode, plateNumber)
	if err != nil {
		return nil, err
	}
	op, ok := r.operations[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrTransportOperationNotFound)
	}
	return op, nil
}

// Phase resolves a phase nested under the operation installed for a vehicle
// key.
func (r *Registry) Phase(countryCode, plateNumber string, phaseID int64) (*core.Phase, error) {
	op, err := r.TransportOperation(countryCode, plateNumber)
	if err != nil {
		return nil, err
	}
	ph, ok := op.PhaseByID(phaseID)
	if !ok {
		return nil, fmt.Errorf("%s/%d: %w", op.Key(), phaseID, ErrPhaseNotFound)
	}
	return ph, nil
}

// Organizations lists all organizations in installation order.
func (r *Registry) Organizations() []*core.Organization {
	out := make([]*core.Organization, len(r.orgList))
	copy(out, r.orgList)
	return out
}

// Vehicles lists all vehicles in installation order.
func (r *Registry) Vehicles() []*core.Vehicle {
	out := make([]*core.Vehicle, len(r.vehicleList))
	copy(out, r.vehicleList)
	return out
}

// Drivers lists all drivers in installation order.
func (r *Registry) Drivers() []*core.Driver {
	out := make([]*core.Driver, len(r.driverList))
	copy(out, r.driverList)
	return out
}

// TransportOperations lists the surviving operation per vehicle key in
// installation order.
func (r *Registry) TransportOperations() []*core.TransportOperation {
	out := make([]*core.TransportOperation, len(r.operationList))
	copy(out, r.operationList)
	return out
}

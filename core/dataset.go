package core

// Family identifies one entity family in the data contract.
type Family string

const (
	FamilyOrganization       Family = "organization"
	FamilyVehicle            Family = "vehicle"
	FamilyDriver             Family = "driver"
	FamilyTransportOperation Family = "transport_operation"
)

// AllFamilies returns all entity families in load order.
var AllFamilies = []Family{
	FamilyOrganization, FamilyVehicle, FamilyDriver, FamilyTransportOperation,
}

// IsValid checks if the family is valid.
func (f Family) IsValid() bool {
	for _, valid := range AllFamilies {
		if f == valid {
			return true
		}
	}
	return false
}

// Dataset is one load cycle's worth of constructed entities, in source
// order. It is the unit handed to the registry for indexing; entities in it
// are already validated and immutable.
type Dataset struct {
	Organizations       []*Organization
	Vehicles            []*Vehicle
	Drivers             []*Driver
	TransportOperations []*TransportOperation
}

// Count returns the number of entities in the given family.
func (d *Dataset) Count(family Family) int {
	switch family {
	case FamilyOrganization:
		return len(d.Organizations)
	case FamilyVehicle:
		return len(d.Vehicles)
	case FamilyDriver:
		return len(d.Drivers)
	case FamilyTransportOperation:
		return len(d.TransportOperations)
	}
	return 0
}

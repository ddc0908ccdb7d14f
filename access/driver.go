package access

import (
	"caravan/core"
	"caravan/registry"
)

// DriverAccess is the query facade for the driver family.
type DriverAccess struct {
	handle *registry.Handle
}

// NewDriverAccess creates a driver facade over the registry handle.
func NewDriverAccess(handle *registry.Handle) *DriverAccess {
	return &DriverAccess{handle: handle}
}

// List returns all drivers in installation order.
func (a *DriverAccess) List() []*core.Driver {
	return a.handle.Snapshot().Drivers()
}

// GetByVAT resolves a driver by (countryCode, vat).
func (a *DriverAccess) GetByVAT(countryCode, vat string) (*core.Driver, error) {
	d, err := a.handle.Snapshot().Driver(countryCode, vat)
	observe(core.FamilyDriver, err)
	return d, err
}

// GetLicense returns a driver's license.
func (a *DriverAccess) GetLicense(countryCode, vat string) (*core.License, error) {
	d, err := a.handle.Snapshot().Driver(countryCode, vat)
	observe(core.FamilyDriver, err)
	if err != nil {
		return nil, err
	}
	return &d.License, nil
}

// ListTachographCards returns a driver's cards in source order.
func (a *DriverAccess) ListTachographCards(countryCode, vat string) ([]core.TachographCard, error) {
	d, err := a.handle.Snapshot().Driver(countryCode, vat)
	observe(core.FamilyDriver, err)
	if err != nil {
		return nil, err
	}
	out := make([]core.TachographCard, len(d.TachographCard))
	copy(out, d.TachographCard)
	return out, nil
}

// GetTachographCard resolves a card by parent key and local id.
func (a *DriverAccess) GetTachographCard(countryCode, vat, cardID string) (*core.TachographCard, error) {
	card, err := a.handle.Snapshot().TachographCard(countryCode, vat, cardID)
	observe(core.FamilyDriver, err)
	return card, err
}

// ListTrafficViolations returns a driver's violations in source order.
func (a *DriverAccess) ListTrafficViolations(countryCode, vat string) ([]core.TrafficViolation, error) {
	d, err := a.handle.Snapshot().Driver(countryCode, vat)
	observe(core.FamilyDriver, err)
	if err != nil {
		return nil, err
	}
	out := make([]core.TrafficViolation, len(d.TrafficViolation))
	copy(out, d.TrafficViolation)
	return out, nil
}

// GetTrafficViolation resolves a violation by parent key and local id.
func (a *DriverAccess) GetTrafficViolation(countryCode, vat string, violationID int64) (*core.TrafficViolation, error) {
	tv, err := a.handle.Snapshot().TrafficViolation(countryCode, vat, violationID)
	observe(core.FamilyDriver, err)
	return tv, err
}

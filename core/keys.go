package core

import "fmt"

// VehicleKey is the normalized global key of a Vehicle. A TransportOperation
// is addressed by the key of its operating vehicle.
type VehicleKey struct {
	CountryCode string
	PlateNumber string
}

// NewVehicleKey normalizes and validates the two key parts. A part that is
// empty or pattern-violating after normalization is a caller bug, reported
// as *MalformedKeyError rather than a miss.
func NewVehicleKey(countryCode, plateNumber string) (VehicleKey, error) {
	cc := NormalizeCountryCode(countryCode)
	if !countryCodePattern.MatchString(cc) {
		return VehicleKey{}, &MalformedKeyError{Part: "countryCode", Value: countryCode}
	}
	plate := NormalizePlate(plateNumber)
	if !platePattern.MatchString(plate) {
		return VehicleKey{}, &MalformedKeyError{Part: "plateNumber", Value: plateNumber}
	}
	return VehicleKey{CountryCode: cc, PlateNumber: plate}, nil
}

// String renders the key for logs and error messages.
func (k VehicleKey) String() string {
	return fmt.Sprintf("%s/%s", k.CountryCode, k.PlateNumber)
}

// DriverKey is the normalized global key of a Driver.
type DriverKey struct {
	CountryCode string
	VAT         string
}

// NewDriverKey normalizes and validates the two key parts.
func NewDriverKey(countryCode, vat string) (DriverKey, error) {
	cc := NormalizeCountryCode(countryCode)
	if !countryCodePattern.MatchString(cc) {
		return DriverKey{}, &MalformedKeyError{Part: "countryCode", Value: countryCode}
	}
	v := NormalizeVAT(vat)
	if !vatPattern.MatchString(v) {
		return DriverKey{}, &MalformedKeyError{Part: "vat", Value: vat}
	}
	return DriverKey{CountryCode: cc, VAT: v}, nil
}

// String renders the key for logs and error messages.
func (k DriverKey) String() string {
	return fmt.Sprintf("%s/%s", k.CountryCode, k.VAT)
}

// OrganizationKey is the normalized global key of an Organization. Only
// organizations carrying a VAT number are key-addressable; the rest are
// reachable through listing only.
type OrganizationKey struct {
	CountryCode string
	VAT         string
}

// NewOrganizationKey normalizes and validates the two key parts.
func NewOrganizationKey(countryCode, vat string) (OrganizationKey, error) {
	cc := NormalizeCountryCode(countryCode)
	if !countryCodePattern.MatchString(cc) {
		return OrganizationKey{}, &MalformedKeyError{Part: "countryCode", Value: countryCode}
	}
	v := NormalizeVAT(vat)
	if !vatPattern.MatchString(v) {
		return OrganizationKey{}, &MalformedKeyError{Part: "vat", Value: vat}
	}
	return OrganizationKey{CountryCode: cc, VAT: v}, nil
}

// String renders the key for logs and error messages.
func (k OrganizationKey) String() string {
	return fmt.Sprintf("%s/%s", k.CountryCode, k.VAT)
}

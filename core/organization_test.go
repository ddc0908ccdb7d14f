package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDecodeOrganization_Valid tests construction of a key-addressable
// organization
func TestDecodeOrganization_Valid(t *testing.T) {
	raw := []byte(`{"id": 1, "name": "Acme Transport", "countryCode": "it", "type": "OPERATOR", "vat": "123 456 789", "address": "Via Roma 1, Milano"}`)

	org, err := DecodeOrganization(raw)
	require.NoError(t, err)

	assert.Equal(t, "IT", org.CountryCode, "country code normalized at construction")
	assert.Equal(t, "123456789", org.VAT, "VAT normalized at construction")

	key, ok := org.Key()
	require.True(t, ok)
	assert.Equal(t, OrganizationKey{CountryCode: "IT", VAT: "123456789"}, key)
}

// TestDecodeOrganization_WithoutVAT tests that VAT-less organizations decode
// fine but carry no key
func TestDecodeOrganization_WithoutVAT(t *testing.T) {
	raw := []byte(`{"id": 2, "name": "Beta Logistics", "countryCode": "DE", "type": "CUSTOMER"}`)

	org, err := DecodeOrganization(raw)
	require.NoError(t, err)

	_, ok := org.Key()
	assert.False(t, ok, "organization without VAT must be list-only")
}

// TestDecodeOrganization_AggregatesFieldErrors tests that all failures are
// reported at once, not just the first
func TestDecodeOrganization_AggregatesFieldErrors(t *testing.T) {
	raw := []byte(`{"id": 0, "name": "", "countryCode": "X", "type": "OPERATOR"}`)

	_, err := DecodeOrganization(raw)
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "organization", verr.Kind)
	assert.GreaterOrEqual(t, len(verr.Fields), 3, "id, name and countryCode all failed")
}

// TestDecodeOrganization_UnknownType tests enum validation
func TestDecodeOrganization_UnknownType(t *testing.T) {
	raw := []byte(`{"id": 3, "name": "Gamma", "countryCode": "FR", "type": "BROKER"}`)

	_, err := DecodeOrganization(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown organization type")
}

// TestOrganizationType_IsValid tests the type enum
func TestOrganizationType_IsValid(t *testing.T) {
	assert.True(t, OrganizationTypeOperator.IsValid())
	assert.True(t, OrganizationTypeCustomer.IsValid())
	assert.False(t, OrganizationType("operator").IsValid(), "enum values are case sensitive")
	assert.False(t, OrganizationType("").IsValid())
}

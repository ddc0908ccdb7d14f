package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func driverRecord(vat, extra string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": 20,
		"firstName": "Mario",
		"lastName": "Rossi",
		"countryCode": "it",
		"vat": %q,
		"license": {
			"id": "b123456",
			"countryCode": "IT",
			"category": [
				{"type": "CE", "issueDate": "2020-05-01", "expiryDate": "2030-05-01", "status": "VALID", "code95": "9.2025"}
			]
		}%s
	}`, vat, extra))
}

// TestDecodeDriver_Valid tests full construction including key derivation
func TestDecodeDriver_Valid(t *testing.T) {
	raw := driverRecord("987 654 321", `,
		"tachographCard": [
			{"id": "tc001", "drivingInterval": [
				{"startDateTime": "2026-05-01T06:00:00Z", "endDateTime": "2026-05-01T10:30:00Z"}
			]}
		],
		"trafficViolation": [
			{"id": 7, "description": "Speeding on A4", "code": "CDS-142", "countryCode": "IT", "fine": 173.50, "isPayed": false, "validityPoints": 3}
		]`)

	d, err := DecodeDriver(raw)
	require.NoError(t, err)

	assert.Equal(t, DriverKey{CountryCode: "IT", VAT: "987654321"}, d.Key())
	assert.Equal(t, "B123456", d.License.ID, "license id normalized")

	card, ok := d.TachographCardByID("TC001")
	require.True(t, ok, "card ids resolve case-insensitively after normalization")
	assert.Len(t, card.DrivingInterval, 1)

	card, ok = d.TachographCardByID(" tc 001 ")
	require.True(t, ok, "lookup input is normalized too")
	assert.Equal(t, "TC001", card.ID)

	tv, ok := d.TrafficViolationByID(7)
	require.True(t, ok)
	require.NotNil(t, tv.Fine)
	assert.Equal(t, 173.50, *tv.Fine)
	require.NotNil(t, tv.IsPayed)
	assert.False(t, *tv.IsPayed, "explicit false survives the optional bool")
}

// TestDecodeDriver_DuplicateCardID tests that ids colliding after
// normalization are rejected
func TestDecodeDriver_DuplicateCardID(t *testing.T) {
	raw := driverRecord("987654321", `,
		"tachographCard": [
			{"id": "TC001", "drivingInterval": []},
			{"id": "tc 001", "drivingInterval": []}
		]`)

	_, err := DecodeDriver(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate tachograph card id TC001")
}

// TestDecodeDriver_IntervalEndsBeforeStart tests driving interval ordering
func TestDecodeDriver_IntervalEndsBeforeStart(t *testing.T) {
	raw := driverRecord("987654321", `,
		"tachographCard": [
			{"id": "TC001", "drivingInterval": [
				{"startDateTime": "2026-05-01T10:00:00Z", "endDateTime": "2026-05-01T06:00:00Z"}
			]}
		]`)

	_, err := DecodeDriver(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interval ending before start")
}

// TestDecodeDriver_UnknownCategoryAndStatus tests license enum validation
func TestDecodeDriver_UnknownCategoryAndStatus(t *testing.T) {
	raw := []byte(`{
		"id": 21,
		"firstName": "Anna",
		"lastName": "Bianchi",
		"countryCode": "IT",
		"vat": "123123123",
		"license": {
			"id": "B9999",
			"countryCode": "IT",
			"category": [
				{"type": "Z9", "issueDate": "2020-05-01", "expiryDate": "2030-05-01", "status": "FINE"}
			]
		}
	}`)

	_, err := DecodeDriver(raw)
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, verr.Error(), "unknown category type")
	assert.Contains(t, verr.Error(), "unknown status")
}

// TestDecodeDriver_CategoryExpiresBeforeIssue tests category date ordering
func TestDecodeDriver_CategoryExpiresBeforeIssue(t *testing.T) {
	raw := []byte(`{
		"id": 22,
		"firstName": "Luca",
		"lastName": "Verdi",
		"countryCode": "IT",
		"vat": "456456456",
		"license": {
			"id": "B8888",
			"countryCode": "IT",
			"category": [
				{"type": "B", "issueDate": "2030-05-01", "expiryDate": "2020-05-01", "status": "VALID"}
			]
		}
	}`)

	_, err := DecodeDriver(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expires before issue")
}

// TestLicenseStatus_IsValid tests the status enum including the slash form
func TestLicenseStatus_IsValid(t *testing.T) {
	assert.True(t, LicenseStatusLostStolen.IsValid())
	assert.True(t, LicenseStatus("LOST/STOLEN").IsValid())
	assert.False(t, LicenseStatus("LOST").IsValid())
}

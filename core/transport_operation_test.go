package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func operationRecord(plate, extra string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": 30,
		"operator": {"countryCode": "it", "vat": "111222333"},
		"schedule": {
			"departureDateTime": "2026-05-01T06:00:00Z",
			"estimatedDateTimeOfArrival": "2026-05-01T18:00:00Z"
		},
		"driver": {"countryCode": "IT", "vat": "987654321"},
		"vehicle": {"countryCode": "it", "plateNumber": %q}%s
	}`, plate, extra))
}

// TestDecodeTransportOperation_Valid tests construction with all three
// reference keys derived
func TestDecodeTransportOperation_Valid(t *testing.T) {
	raw := operationRecord("aa 1232", `,
		"phase": [
			{"id": 1, "location": {"id": 1, "countryCode": "IT", "description": "Milano terminal", "mode": "TERMINAL"}, "dateTime": "2026-05-01T06:00:00Z", "state": "LOADING"},
			{"id": 2, "location": {"id": 2, "countryCode": "DE", "description": "Munich gate", "mode": "GATE"}, "dateTime": "2026-05-01T16:00:00Z", "state": "PLANNING"}
		]`)

	op, err := DecodeTransportOperation(raw)
	require.NoError(t, err)

	assert.Equal(t, VehicleKey{CountryCode: "IT", PlateNumber: "AA1232"}, op.Key())
	assert.Equal(t, DriverKey{CountryCode: "IT", VAT: "987654321"}, op.DriverKey())
	assert.Equal(t, OrganizationKey{CountryCode: "IT", VAT: "111222333"}, op.OperatorKey())

	ph, ok := op.PhaseByID(2)
	require.True(t, ok)
	assert.Equal(t, PhaseStatePlanning, ph.State)

	_, ok = op.PhaseByID(99)
	assert.False(t, ok)
}

// TestDecodeTransportOperation_DuplicatePhaseID tests local key uniqueness
func TestDecodeTransportOperation_DuplicatePhaseID(t *testing.T) {
	raw := operationRecord("BB4567", `,
		"phase": [
			{"id": 1, "location": {"id": 1, "countryCode": "IT", "description": "Milano terminal", "mode": "TERMINAL"}, "dateTime": "2026-05-01T06:00:00Z", "state": "LOADING"},
			{"id": 1, "location": {"id": 2, "countryCode": "DE", "description": "Munich gate", "mode": "GATE"}, "dateTime": "2026-05-01T16:00:00Z", "state": "PLANNING"}
		]`)

	_, err := DecodeTransportOperation(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate phase id 1")
}

// TestDecodeTransportOperation_UnknownPhaseState tests phase enum validation
func TestDecodeTransportOperation_UnknownPhaseState(t *testing.T) {
	raw := operationRecord("BB4567", `,
		"phase": [
			{"id": 1, "location": {"id": 1, "countryCode": "IT", "description": "Milano terminal", "mode": "TERMINAL"}, "dateTime": "2026-05-01T06:00:00Z", "state": "PAUSED"}
		]`)

	_, err := DecodeTransportOperation(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown state "PAUSED"`)
}

// TestDecodeTransportOperation_ArrivalBeforeDeparture tests schedule ordering
func TestDecodeTransportOperation_ArrivalBeforeDeparture(t *testing.T) {
	raw := []byte(`{
		"id": 31,
		"operator": {"countryCode": "IT", "vat": "111222333"},
		"schedule": {
			"departureDateTime": "2026-05-01T18:00:00Z",
			"estimatedDateTimeOfArrival": "2026-05-01T06:00:00Z"
		},
		"driver": {"countryCode": "IT", "vat": "987654321"},
		"vehicle": {"countryCode": "IT", "plateNumber": "CC7890"}
	}`)

	_, err := DecodeTransportOperation(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "estimated arrival precedes departure")
}

// TestDecodeTransportOperation_DuplicateDocumentReference tests consignment
// document local keys
func TestDecodeTransportOperation_DuplicateDocumentReference(t *testing.T) {
	doc := `{
		"referenceCode": "CMR-001",
		"senderOrganization": {"id": 1, "name": "Acme", "countryCode": "IT", "type": "OPERATOR"},
		"receiverOrganization": {"id": 2, "name": "Beta", "countryCode": "DE", "type": "CUSTOMER"},
		"startingPoint": {"id": 1, "countryCode": "IT", "description": "Milano terminal", "mode": "TERMINAL"},
		"endingPoint": {"id": 2, "countryCode": "DE", "description": "Munich gate", "mode": "GATE"},
		"load": {
			"type": "PALLET",
			"weight": 1200.5,
			"umWeight": "kg",
			"component": [{"type": "BOX", "width": 1.2, "height": 0.8, "depth": 1.0, "unitary": true, "um": "m"}]
		}
	}`
	raw := operationRecord("DD1111", fmt.Sprintf(`,
		"document": [%s, %s]`, doc, doc))

	_, err := DecodeTransportOperation(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate reference code "CMR-001"`)
}

// TestDecodeTransportOperation_InvalidECMR tests that schema violations in an
// attached e-CMR document reject the record
func TestDecodeTransportOperation_InvalidECMR(t *testing.T) {
	raw := operationRecord("EE2222", `,
		"ecmr": [{"ecmrStatus": "SHIPPED"}]`)

	_, err := DecodeTransportOperation(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ecmr")
}

// TestDecodeTransportOperation_MalformedVehicleRef tests that a reference
// failing key derivation rejects the record
func TestDecodeTransportOperation_MalformedVehicleRef(t *testing.T) {
	raw := []byte(`{
		"id": 32,
		"operator": {"countryCode": "IT", "vat": "111222333"},
		"schedule": {
			"departureDateTime": "2026-05-01T06:00:00Z",
			"estimatedDateTimeOfArrival": "2026-05-01T18:00:00Z"
		},
		"driver": {"countryCode": "IT", "vat": "987654321"},
		"vehicle": {"countryCode": "IT", "plateNumber": "   "}
	}`)

	_, err := DecodeTransportOperation(raw)
	require.Error(t, err)
}

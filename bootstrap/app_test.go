package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"caravan/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vehicleAA = `{
	"id": 10,
	"countryCode": "IT",
	"plateNumber": "AA1232",
	"owner": {"id": 1, "name": "Acme Transport"},
	"insurance": [{"id": 1, "name": "AXA", "number": "POL-1", "isInsured": true, "activationDate": "2025-01-01", "expirationDate": "2026-01-01"}],
	"revision": [{"id": 1, "name": "MCTC", "number": "REV-1", "executionDate": "2025-03-01", "expirationDate": "2027-03-01"}]
}`

const vehicleBB = `{
	"id": 11,
	"countryCode": "IT",
	"plateNumber": "BB4567",
	"owner": {"id": 1, "name": "Acme Transport"},
	"insurance": [{"id": 1, "name": "AXA", "number": "POL-2", "isInsured": true, "activationDate": "2025-01-01", "expirationDate": "2026-01-01"}],
	"revision": [{"id": 1, "name": "MCTC", "number": "REV-2", "executionDate": "2025-03-01", "expirationDate": "2027-03-01"}]
}`

func writeVehicles(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vehicles.json"), []byte(content), 0o644))
}

// TestNewApp_InitialLoad tests startup with a valid dataset directory
func TestNewApp_InitialLoad(t *testing.T) {
	dir := t.TempDir()
	writeVehicles(t, dir, `[`+vehicleAA+`]`)
	t.Setenv("CARAVAN_DATASET_DIR", dir)

	app, err := NewApp(context.Background(), "")
	require.NoError(t, err)

	snap := app.Handle.Snapshot()
	assert.Equal(t, 1, snap.Count(core.FamilyVehicle))
	_, err = snap.Vehicle("IT", "AA1232")
	assert.NoError(t, err)
}

// TestNewApp_RejectsBadDatasetInStrictMode tests that startup fails fast on
// an invalid record
func TestNewApp_RejectsBadDatasetInStrictMode(t *testing.T) {
	dir := t.TempDir()
	writeVehicles(t, dir, `[{"id": 0, "countryCode": "X", "plateNumber": ""}]`)
	t.Setenv("CARAVAN_DATASET_DIR", dir)

	_, err := NewApp(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initial dataset load failed")
}

// TestApp_ReloadSwapsSnapshot tests the full reload path over the handle
func TestApp_ReloadSwapsSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeVehicles(t, dir, `[`+vehicleAA+`]`)
	t.Setenv("CARAVAN_DATASET_DIR", dir)

	app, err := NewApp(context.Background(), "")
	require.NoError(t, err)

	writeVehicles(t, dir, `[`+vehicleBB+`]`)

	report, err := app.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Records[core.FamilyVehicle])

	snap := app.Handle.Snapshot()
	_, err = snap.Vehicle("IT", "BB4567")
	assert.NoError(t, err)
	_, err = snap.Vehicle("IT", "AA1232")
	assert.Error(t, err, "old dataset is fully replaced")
}

// TestApp_FailedReloadKeepsSnapshot tests that a rejected reload leaves the
// serving snapshot untouched
func TestApp_FailedReloadKeepsSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeVehicles(t, dir, `[`+vehicleAA+`]`)
	t.Setenv("CARAVAN_DATASET_DIR", dir)

	app, err := NewApp(context.Background(), "")
	require.NoError(t, err)
	before := app.Handle.Snapshot()

	writeVehicles(t, dir, `[`+vehicleAA+`, `+vehicleAA+`]`)

	_, err = app.Reload(context.Background())
	require.Error(t, err, "duplicate vehicle keys reject the dataset")

	assert.Same(t, before, app.Handle.Snapshot(), "snapshot unchanged after rejected reload")
	_, err = app.Handle.Snapshot().Vehicle("IT", "AA1232")
	assert.NoError(t, err)
}

// TestApp_ReloadHonorsContext tests cancellation before any work
func TestApp_ReloadHonorsContext(t *testing.T) {
	dir := t.TempDir()
	writeVehicles(t, dir, `[`+vehicleAA+`]`)
	t.Setenv("CARAVAN_DATASET_DIR", dir)

	app, err := NewApp(context.Background(), "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = app.Reload(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

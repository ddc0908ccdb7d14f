package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"caravan/core"
	"caravan/registry"

	"github.com/gorilla/mux"
)

// errorResponse is the JSON body for every non-200 response.
type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes a JSON response with proper error handling.
func (a *API) respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.logger.Errorw("Failed to encode JSON response",
			"error", err,
			"data_type", fmt.Sprintf("%T", data))
	}
}

// respondLookupError translates a facade error into the HTTP contract: a
// malformed key is a caller bug (400), a miss is a normal negative result
// (404). Nothing a lookup returns is a server error.
func (a *API) respondLookupError(w http.ResponseWriter, err error) {
	var malformed *core.MalformedKeyError
	switch {
	case errors.As(err, &malformed):
		a.respondJSON(w, errorResponse{Error: err.Error()}, http.StatusBadRequest)
	case registry.IsNotFound(err):
		a.respondJSON(w, errorResponse{Error: err.Error()}, http.StatusNotFound)
	default:
		a.logger.Errorw("Unexpected lookup error", "error", err)
		a.respondJSON(w, errorResponse{Error: "internal error"}, http.StatusInternalServerError)
	}
}

// pathID parses a numeric local-key path variable.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, mux.Vars(r)[name])
	}
	return id, nil
}

// listOrganizations godoc
//
//	@Summary		List organizations
//	@Description	Returns all organizations in installation order
//	@Tags			organizations
//	@Produce		json
//	@Success		200	{array}	core.Organization
//	@Router			/api/v1/organizations [get]
func (a *API) listOrganizations(w http.ResponseWriter, r *http.Request) {
	a.respondJSON(w, a.organizations.List(), http.StatusOK)
}

// getOrganization godoc
//
//	@Summary		Get organization
//	@Description	Resolves an organization by country code and VAT number
//	@Tags			organizations
//	@Produce		json
//	@Param			countryCode	path		string	true	"Country code"
//	@Param			vat			path		string	true	"VAT number"
//	@Success		200	{object}	core.Organization
//	@Failure		400	{object}	errorResponse	"Malformed key"
//	@Failure		404	{object}	errorResponse	"Not found"
//	@Router			/api/v1/organizations/{countryCode}/{vat} [get]
func (a *API) getOrganization(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	org, err := a.organizations.GetByVAT(vars["countryCode"], vars["vat"])
	if err != nil {
		a.respondLookupError(w, err)
		return
	}
	a.respondJSON(w, org, http.StatusOK)
}

// listVehicles godoc
//
//	@Summary		List vehicles
//	@Tags			vehicles
//	@Produce		json
//	@Success		200	{array}	core.Vehicle
//	@Router			/api/v1/vehicles [get]
func (a *API) listVehicles(w http.ResponseWriter, r *http.Request) {
	a.respondJSON(w, a.vehicles.List(), http.StatusOK)
}

// getVehicle godoc
//
//	@Summary		Get vehicle
//	@Description	Resolves a vehicle by country code and plate number
//	@Tags			vehicles
//	@Produce		json
//	@Param			countryCode	path		string	true	"Country code"
//	@Param			plateNumber	path		string	true	"Plate number"
//	@Success		200	{object}	core.Vehicle
//	@Failure		400	{object}	errorResponse	"Malformed key"
//	@Failure		404	{object}	errorResponse	"Not found"
//	@Router			/api/v1/vehicles/{countryCode}/{plateNumber} [get]
func (a *API) getVehicle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	v, err := a.vehicles.GetByPlate(vars["countryCode"], vars["plateNumber"])
	if err != nil {
		a.respondLookupError(w, err)
		return
	}
	a.respondJSON(w, v, http.StatusOK)
}

// listInsurance godoc
//
//	@Summary		List vehicle insurance records
//	@Tags			vehicles
//	@Produce		json
//	@Success		200	{array}	core.Insurance
//	@Failure		404	{object}	errorResponse	"Vehicle not found"
//	@Router			/api/v1/vehicles/{countryCode}/{plateNumber}/insurance [get]
func (a *API) listInsurance(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	records, err := a.vehicles.ListInsurance(vars["countryCode"], vars["plateNumber"])
	if err != nil {
		a.respondLookupError(w, err)
		return
	}
	a.respondJSON(w, records, http.StatusOK)
}

// getInsurance godoc
//
//	@Summary		Get insurance record
//	@Description	Resolves an insurance record by vehicle key and insurance id
//	@Tags			vehicles
//	@Produce		json
//	@Param			countryCode	path		string	true	"Country code"
//	@Param			plateNumber	path		string	true	"Plate number"
//	@Param			insuranceId	path		int		true	"Insurance id"
//	@Success		200	{object}	core.Insurance
//	@Failure		400	{object}	errorResponse	"Malformed key"
//	@Failure		404	{object}	errorResponse	"Vehicle or insurance not found"
//	@Router			/api/v1/vehicles/{countryCode}/{plateNumber}/insurance/{insuranceId} [get]
func (a *API) getInsurance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "insuranceId")
	if err != nil {
		a.respondJSON(w, errorResponse{Error: err.Error()}, http.StatusBadRequest)
		return
	}
	vars := mux.Vars(r)
	ins, err := a.vehicles.GetInsurance(vars["countryCode"], vars["plateNumber"], id)
	if err != nil {
		a.respondLookupError(w, err)
		return
	}
	a.respondJSON(w, ins, http.StatusOK)
}

// listRevisions returns a vehicle's revision records.
func (a *API) listRevisions(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	records, err := a.vehicles.ListRevisions(vars["countryCode"], vars["plateNumber"])
	if err != nil {
		a.respondLookupError(w, err)
		return
	}
	a.respondJSON(w, records, http.StatusOK)
}

// getRevision resolves a revision record by vehicle key and revision id.
func (a *API) getRevision(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "revisionId")
	if err != nil {
		a.respondJSON(w, errorResponse{Error: err.Error()}, http.StatusBadRequest)
		return
	}
	vars := mux.Vars(r)
	rev, err := a.vehicles.GetRevision(vars["countryCode"], vars["plateNumber"], id)
	if err != nil {
		a.respondLookupError(w, err)
		return
	}
	a.respondJSON(w, rev, http.StatusOK)
}

// listDrivers godoc
//
//	@Summary		List drivers
//	@Tags			drivers
//	@Produce		json
//	@Success		200	{array}	core.Driver
//	@Router			/api/v1/drivers [get]
func (a *API) listDrivers(w http.ResponseWriter, r *http.Request) {
	a.respondJSON(w, a.drivers.List(), http.StatusOK)
}

// getDriver godoc
//
//	@Summary		Get driver
//	@Description	Resolves a driver by country code and VAT number
//	@Tags			drivers
//	@Produce		json
//	@Param			countryCode	path		string	true	"Country code"
//	@Param			vat			path		string	true	"VAT number"
//	@Success		200	{object}	core.Driver
//	@Failure		400	{object}	errorResponse	"Malformed key"
//	@Failure		404	{object}	errorResponse	"Not found"
//	@Router			/api/v1/drivers/{countryCode}/{vat} [get]
func (a *API) getDriver(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	d, err := a.drivers.GetByVAT(vars["countryCode"], vars["vat"])
	if err != nil {
		a.respondLookupError(w, err)
		return
	}
	a.respondJSON(w, d, http.StatusOK)
}

// getLicense returns the driver's license.
func (a *API) getLicense(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	lic, err := a.drivers.GetLicense(vars["countryCode"], vars["vat"])
	if err != nil {
		a.respondLookupError(w, err)
		return
	}
	a.respondJSON(w, lic, http.StatusOK)
}

// listTachographCards returns the driver's tachograph cards.
func (a *API) listTachographCards(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	cards, err := a.drivers.ListTachographCards(vars["countryCode"], vars["vat"])
	if err != nil {
		a.respondLookupError(w, err)
		return
	}
	a.respondJSON(w, cards, http.StatusOK)
}

// getTachographCard godoc
//
//	@Summary		Get tachograph card
//	@Description	Resolves a tachograph card by driver key and card id
//	@Tags			drivers
//	@Produce		json
//	@Param			countryCode	path		string	true	"Country code"
//	@Param			vat			path		string	true	"VAT number"
//	@Param			cardId		path		string	true	"Tachograph card id"
//	@Success		200	{object}	core.TachographCard
//	@Failure		400	{object}	errorResponse	"Malformed key"
//	@Failure		404	{object}	errorResponse	"Driver or card not found"
//	@Router			/api/v1/drivers/{countryCode}/{vat}/tachograph-cards/{cardId} [get]
func (a *API) getTachographCard(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	card, err := a.drivers.GetTachographCard(vars["countryCode"], vars["vat"], vars["cardId"])
	if err != nil {
		a.respondLookupError(w, err)
		return
	}
	a.respondJSON(w, card, http.StatusOK)
}

// listTrafficViolations returns the driver's traffic violations.
func (a *API) listTrafficViolations(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	violations, err := a.drivers.ListTrafficViolations(vars["countryCode"], vars["vat"])
	if err != nil {
		a.respondLookupError(w, err)
		return
	}
	a.respondJSON(w, violations, http.StatusOK)
}

// getTrafficViolation resolves a violation by driver key and violation id.
func (a *API) getTrafficViolation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "violationId")
	if err != nil {
		a.respondJSON(w, errorResponse{Error: err.Error()}, http.StatusBadRequest)
		return
	}
	vars := mux.Vars(r)
	tv, err := a.drivers.GetTrafficViolation(vars["countryCode"], vars["vat"], id)
	if err != nil {
		a.respondLookupError(w, err)
		return
	}
	a.respondJSON(w, tv, http.StatusOK)
}

// listTransportOperations godoc
//
//	@Summary		List transport operations
//	@Tags			transport-operations
//	@Produce		json
//	@Success		200	{array}	core.TransportOperation
//	@Router			/api/v1/transport-operations [get]
func (a *API) listTransportOperations(w http.ResponseWriter, r *http.Request) {
	a.respondJSON(w, a.operations.List(), http.StatusOK)
}

// getTransportOperation godoc
//
//	@Summary		Get transport operation
//	@Description	Resolves the latest transport operation for a vehicle key
//	@Tags			transport-operations
//	@Produce		json
//	@Param			countryCode	path		string	true	"Country code"
//	@Param			plateNumber	path		string	true	"Plate number"
//	@Success		200	{object}	core.TransportOperation
//	@Failure		400	{object}	errorResponse	"Malformed key"
//	@Failure		404	{object}	errorResponse	"Not found"
//	@Router			/api/v1/transport-operations/{countryCode}/{plateNumber} [get]
func (a *API) getTransportOperation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	op, err := a.operations.GetByPlate(vars["countryCode"], vars["plateNumber"])
	if err != nil {
		a.respondLookupError(w, err)
		return
	}
	a.respondJSON(w, op, http.StatusOK)
}

// reloadDataset godoc
//
//	@Summary		Reload dataset
//	@Description	Rebuilds the registry from the data source and swaps it in atomically
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	storage.LoadReport
//	@Failure		409	{object}	errorResponse	"Dataset rejected"
//	@Router			/api/reload [post]
func (a *API) reloadDataset(w http.ResponseWriter, r *http.Request) {
	if a.reloader == nil {
		a.respondJSON(w, errorResponse{Error: "reload not available"}, http.StatusServiceUnavailable)
		return
	}
	report, err := a.reloader.Reload(r.Context())
	if err != nil {
		a.logger.Errorw("Dataset reload rejected", "error", err)
		a.respondJSON(w, errorResponse{Error: err.Error()}, http.StatusConflict)
		return
	}
	a.respondJSON(w, report, http.StatusOK)
}

// healthCheck reports liveness and the size of the current snapshot.
func (a *API) healthCheck(w http.ResponseWriter, r *http.Request) {
	snap := a.handle.Snapshot()
	a.respondJSON(w, map[string]any{
		"status":   "ok",
		"built_at": snap.BuiltAt(),
		"entities": map[string]int{
			"organizations":        snap.Count(core.FamilyOrganization),
			"vehicles":             snap.Count(core.FamilyVehicle),
			"drivers":              snap.Count(core.FamilyDriver),
			"transport_operations": snap.Count(core.FamilyTransportOperation),
		},
	}, http.StatusOK)
}

package core

// LocationMode represents the kind of place a location describes.
type LocationMode string

const (
	LocationModeGeneric  LocationMode = "GENERIC"
	LocationModeGate     LocationMode = "GATE"
	LocationModeTerminal LocationMode = "TERMINAL"
	LocationModePort     LocationMode = "PORT"
	LocationModeAirport  LocationMode = "AIRPORT"
	LocationModeStation  LocationMode = "STATION"
)

// AllLocationModes returns all valid location modes for validation.
var AllLocationModes = []LocationMode{
	LocationModeGeneric, LocationModeGate, LocationModeTerminal,
	LocationModePort, LocationModeAirport, LocationModeStation,
}

// IsValid checks if the location mode is valid.
func (m LocationMode) IsValid() bool {
	for _, valid := range AllLocationModes {
		if m == valid {
			return true
		}
	}
	return false
}

// Location represents a named place a transport operation touches.
type Location struct {
	ID          int64        `json:"id" validate:"required,gt=0"`
	CountryCode string       `json:"countryCode" validate:"required,countrycode"`
	Description string       `json:"description" validate:"required,min=1,max=100"`
	Mode        LocationMode `json:"mode" validate:"required"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// PhaseState represents the state of an operation phase.
type PhaseState string

const (
	PhaseStatePlanning             PhaseState = "PLANNING"
	PhaseStateInProgress           PhaseState = "IN_PROGRESS"
	PhaseStateArrivedAtPickup      PhaseState = "ARRIVED_AT_PICKUP"
	PhaseStateArrivedAtDestination PhaseState = "ARRIVED_AT_DESTINATION"
	PhaseStateLoading              PhaseState = "LOADING"
	PhaseStateUnloading            PhaseState = "UNLOADING"
	PhaseStateInTransit            PhaseState = "IN_TRANSIT"
	PhaseStateCompleted            PhaseState = "COMPLETED"
	PhaseStateDelayed              PhaseState = "DELAYED"
	PhaseStateCanceled             PhaseState = "CANCELED"
)

// AllPhaseStates returns all valid phase states for validation.
var AllPhaseStates = []PhaseState{
	PhaseStatePlanning, PhaseStateInProgress, PhaseStateArrivedAtPickup,
	PhaseStateArrivedAtDestination, PhaseStateLoading, PhaseStateUnloading,
	PhaseStateInTransit, PhaseStateCompleted, PhaseStateDelayed,
	PhaseStateCanceled,
}

// IsValid checks if the phase state is valid.
func (s PhaseState) IsValid() bool {
	for _, valid := range AllPhaseStates {
		if s == valid {
			return true
		}
	}
	return false
}

// Phase is one step of a transport operation, keyed locally by id.
type Phase struct {
	ID       int64      `json:"id" validate:"required,gt=0"`
	Location Location   `json:"location"`
	DateTime string     `json:"dateTime" validate:"required,isodatetime"`
	State    PhaseState `json:"state" validate:"required"`
	Payload  Payload    `json:"payload,omitempty"`
}

// Schedule holds the planned and actual times of a transport operation.
type Schedule struct {
	DepartureDateTime          string `json:"departureDateTime" validate:"required,isodatetime"`
	RealDepartureDateTime      string `json:"realDepartureDateTime,omitempty" validate:"omitempty,isodatetime"`
	EstimatedDateTimeOfArrival string `json:"estimatedDateTimeOfArrival" validate:"required,isodatetime"`
	RealArrivalDateTime        string `json:"realArrivalDateTime,omitempty" validate:"omitempty,isodatetime"`
}

// Component is one physical piece of a load item.
type Component struct {
	Type        string  `json:"type" validate:"required,min=1,max=20"`
	Description string  `json:"description,omitempty" validate:"omitempty,min=1,max=100"`
	Width       float64 `json:"width" validate:"gte=0"`
	Height      float64 `json:"height" validate:"gte=0"`
	Depth       float64 `json:"depth" validate:"gte=0"`
	Unitary     bool    `json:"unitary"`
	UM          string  `json:"um" validate:"required,min=1,max=20"`
}

// Load describes the cargo carried by an operation.
type Load struct {
	Type        string      `json:"type" validate:"required,min=1,max=20"`
	Description string      `json:"description,omitempty" validate:"omitempty,min=1,max=100"`
	Weight      float64     `json:"weight" validate:"gte=0"`
	UMWeight    string      `json:"umWeight" validate:"required,min=1,max=20"`
	Component   []Component `json:"component" validate:"required,dive"`
}

// ConsignmentDocument is an international consignment note attached to an
// operation, keyed locally by referenceCode.
type ConsignmentDocument struct {
	ReferenceCode        string       `json:"referenceCode" validate:"required,min=1,max=20"`
	SenderOrganization   Organization `json:"senderOrganization"`
	ReceiverOrganization Organization `json:"receiverOrganization"`
	StartingPoint        Location     `json:"startingPoint"`
	EndingPoint          Location     `json:"endingPoint"`
	Load                 Load         `json:"load"`
	Report               string       `json:"report,omitempty"`
	Payload              Payload      `json:"payload,omitempty"`
}

// VehicleRef references the operating vehicle by its compound key. The live
// Vehicle is resolved through the registry, never stored in the operation.
type VehicleRef struct {
	CountryCode string `json:"countryCode" validate:"required,countrycode"`
	PlateNumber string `json:"plateNumber" validate:"required,plate"`
}

// DriverRef references the assigned driver by its compound key.
type DriverRef struct {
	CountryCode string `json:"countryCode" validate:"required,countrycode"`
	VAT         string `json:"vat" validate:"required,vatnum"`
}

// OrganizationRef references an organization by its compound key.
type OrganizationRef struct {
	CountryCode string `json:"countryCode" validate:"required,countrycode"`
	VAT         string `json:"vat" validate:"required,vatnum"`
}

// TransportOperation represents one transport of goods. It is looked up by
// the key of its operating vehicle; when several operations share that key
// the registry keeps the latest installed one.
type TransportOperation struct {
	ID       int64                 `json:"id" validate:"required,gt=0"`
	Operator OrganizationRef       `json:"operator"`
	Schedule Schedule              `json:"schedule"`
	Driver   DriverRef             `json:"driver"`
	Vehicle  VehicleRef            `json:"vehicle"`
	Phase    []Phase               `json:"phase,omitempty" validate:"omitempty,dive"`
	Document []ConsignmentDocument `json:"document,omitempty" validate:"omitempty,dive"`
	ECMR     []ECMRDocument        `json:"ecmr,omitempty"`
	Payload  Payload               `json:"payload,omitempty"`

	vehicleKey    VehicleKey
	driverKey     DriverKey
	operatorKey   OrganizationKey
	phaseByID     map[int64]int
	documentByRef map[string]int
}

// DecodeTransportOperation validates a raw record and constructs an
// immutable TransportOperation, deriving the vehicle, driver and operator
// keys and local indexes over nested collections. The returned error is
// always a *ValidationError.
func DecodeTransportOperation(raw []byte) (*TransportOperation, error) {
	verr := newValidationError("transport_operation")

	var op TransportOperation
	if err := decodeStrict(raw, &op); err != nil {
		verr.addf("", "malformed record: %v", err)
		return nil, verr
	}
	if err := validate.Struct(&op); err != nil {
		verr.fromValidator(err)
	}

	op.phaseByID = make(map[int64]int, len(op.Phase))
	for i, ph := range op.Phase {
		if _, dup := op.phaseByID[ph.ID]; dup {
			verr.addf("phase", "duplicate phase id %d", ph.ID)
			continue
		}
		op.phaseByID[ph.ID] = i
		if ph.State != "" && !ph.State.IsValid() {
			verr.addf("phase", "unknown state %q in phase %d", ph.State, ph.ID)
		}
		if ph.Location.Mode != "" && !ph.Location.Mode.IsValid() {
			verr.addf("phase", "unknown location mode %q in phase %d", ph.Location.Mode, ph.ID)
		}
	}
	op.documentByRef = make(map[string]int, len(op.Document))
	for i, doc := range op.Document {
		if _, dup := op.documentByRef[doc.ReferenceCode]; dup {
			verr.addf("document", "duplicate reference code %q", doc.ReferenceCode)
			continue
		}
		op.documentByRef[doc.ReferenceCode] = i
		for _, org := range []Organization{doc.SenderOrganization, doc.ReceiverOrganization} {
			if org.Type != "" && !org.Type.IsValid() {
				verr.addf("document", "unknown organization type %q in document %q", org.Type, doc.ReferenceCode)
			}
		}
		for _, loc := range []Location{doc.StartingPoint, doc.EndingPoint} {
			if loc.Mode != "" && !loc.Mode.IsValid() {
				verr.addf("document", "unknown location mode %q in document %q", loc.Mode, doc.ReferenceCode)
			}
		}
	}
	for i, doc := range op.ECMR {
		if err := ValidateECMR(doc); err != nil {
			verr.addf("ecmr", "document %d: %v", i, err)
		}
	}
	if s := op.Schedule; s.DepartureDateTime != "" && s.EstimatedDateTimeOfArrival != "" &&
		s.EstimatedDateTimeOfArrival < s.DepartureDateTime {
		verr.add("schedule", "estimated arrival precedes departure")
	}
	if !verr.ok() {
		return nil, verr
	}

	op.Vehicle.CountryCode = NormalizeCountryCode(op.Vehicle.CountryCode)
	op.Vehicle.PlateNumber = NormalizePlate(op.Vehicle.PlateNumber)
	op.Driver.CountryCode = NormalizeCountryCode(op.Driver.CountryCode)
	op.Driver.VAT = NormalizeVAT(op.Driver.VAT)
	op.Operator.CountryCode = NormalizeCountryCode(op.Operator.CountryCode)
	op.Operator.VAT = NormalizeVAT(op.Operator.VAT)

	vkey, err := NewVehicleKey(op.Vehicle.CountryCode, op.Vehicle.PlateNumber)
	if err != nil {
		verr.addf("vehicle", "cannot derive key: %v", err)
		return nil, verr
	}
	dkey, err := NewDriverKey(op.Driver.CountryCode, op.Driver.VAT)
	if err != nil {
		verr.addf("driver", "cannot derive key: %v", err)
		return nil, verr
	}
	okey, err := NewOrganizationKey(op.Operator.CountryCode, op.Operator.VAT)
	if err != nil {
		verr.addf("operator", "cannot derive key: %v", err)
		return nil, verr
	}
	op.vehicleKey = vkey
	op.driverKey = dkey
	op.operatorKey = okey
	return &op, nil
}

// Key returns the operating vehicle's compound key, which addresses this
// operation in the registry.
func (op *TransportOperation) Key() VehicleKey {
	return op.vehicleKey
}

// DriverKey returns the assigned driver's compound key.
func (op *TransportOperation) DriverKey() DriverKey {
	return op.driverKey
}

// OperatorKey returns the operator organization's compound key.
func (op *TransportOperation) OperatorKey() OrganizationKey {
	return op.operatorKey
}

// PhaseByID looks up a nested phase by its local key.
func (op *TransportOperation) PhaseByID(id int64) (*Phase, bool) {
	i, ok := op.phaseByID[id]
	if !ok {
		return nil, false
	}
	return &op.Phase[i], true
}

// DocumentByReferenceCode looks up a consignment document by its local key.
func (op *TransportOperation) DocumentByReferenceCode(ref string) (*ConsignmentDocument, bool) {
	i, ok := op.documentByRef[ref]
	if !ok {
		return nil, false
	}
	return &op.Document[i], true
}

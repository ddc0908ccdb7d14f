package core

// Payload carries free-form additional information. It is stored and
// re-serialized opaquely; no validation is applied to its contents.
type Payload map[string]any

// Coordinates represents geographical coordinates in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// Geolocation is a timestamped position sample of a vehicle.
type Geolocation struct {
	DateTime    string      `json:"dateTime" validate:"required,isodatetime"`
	Coordinates Coordinates `json:"coordinates"`
}

// Owner represents the registered owner of a vehicle.
type Owner struct {
	ID      int64   `json:"id" validate:"required,gt=0"`
	Name    string  `json:"name" validate:"required,min=1,max=20"`
	VAT     string  `json:"vat,omitempty" validate:"omitempty,vatnum"`
	Payload Payload `json:"payload,omitempty"`
}

// Insurance is an insurance record nested under a Vehicle. Its id is a
// local key: unique within the parent vehicle, not globally.
type Insurance struct {
	ID             int64   `json:"id" validate:"required,gt=0"`
	Name           string  `json:"name" validate:"required,min=1,max=20"`
	Number         string  `json:"number" validate:"required,min=1,max=20"`
	IsInsured      bool    `json:"isInsured"`
	ActivationDate string  `json:"activationDate" validate:"required,isodate"`
	ExpirationDate string  `json:"expirationDate" validate:"required,isodate"`
	Payload        Payload `json:"payload,omitempty"`
}

// Revision is a periodic-inspection record nested under a Vehicle, keyed
// locally by id like Insurance.
type Revision struct {
	ID             int64   `json:"id" validate:"required,gt=0"`
	Name           string  `json:"name" validate:"required,min=1,max=20"`
	Number         string  `json:"number" validate:"required,min=1,max=20"`
	ExecutionDate  string  `json:"executionDate" validate:"required,isodate"`
	ExpirationDate string  `json:"expirationDate" validate:"required,isodate"`
	Payload        Payload `json:"payload,omitempty"`
}

// Vehicle represents a registered vehicle. Its global key is
// (countryCode, plateNumber).
type Vehicle struct {
	ID          int64         `json:"id" validate:"required,gt=0"`
	CountryCode string        `json:"countryCode" validate:"required,countrycode"`
	PlateNumber string        `json:"plateNumber" validate:"required,plate"`
	Type        string        `json:"type,omitempty" validate:"omitempty,min=1,max=20"`
	Model       string        `json:"model,omitempty" validate:"omitempty,min=1,max=20"`
	Geolocation []Geolocation `json:"geolocation,omitempty" validate:"omitempty,dive"`
	Owner       Owner         `json:"owner"`
	Insurance   []Insurance   `json:"insurance" validate:"required,dive"`
	Revision    []Revision    `json:"revision" validate:"required,dive"`

	key           VehicleKey
	insuranceByID map[int64]int
	revisionByID  map[int64]int
}

// DecodeVehicle validates a raw record and constructs an immutable Vehicle,
// including its derived key and local indexes over nested collections. The
// returned error is always a *ValidationError.
func DecodeVehicle(raw []byte) (*Vehicle, error) {
	verr := newValidationError("vehicle")

	var v Vehicle
	if err := decodeStrict(raw, &v); err != nil {
		verr.addf("", "malformed record: %v", err)
		return nil, verr
	}
	if err := validate.Struct(&v); err != nil {
		verr.fromValidator(err)
	}

	v.insuranceByID = make(map[int64]int, len(v.Insurance))
	for i, ins := range v.Insurance {
		if _, dup := v.insuranceByID[ins.ID]; dup {
			verr.addf("insurance", "duplicate insurance id %d", ins.ID)
			continue
		}
		v.insuranceByID[ins.ID] = i
		if ins.ActivationDate != "" && ins.ExpirationDate != "" && ins.ExpirationDate < ins.ActivationDate {
			verr.addf("insurance", "insurance %d expires before activation", ins.ID)
		}
	}
	v.revisionByID = make(map[int64]int, len(v.Revision))
	for i, rev := range v.Revision {
		if _, dup := v.revisionByID[rev.ID]; dup {
			verr.addf("revision", "duplicate revision id %d", rev.ID)
			continue
		}
		v.revisionByID[rev.ID] = i
	}
	if !verr.ok() {
		return nil, verr
	}

	v.CountryCode = NormalizeCountryCode(v.CountryCode)
	v.PlateNumber = NormalizePlate(v.PlateNumber)
	if v.Owner.VAT != "" {
		v.Owner.VAT = NormalizeVAT(v.Owner.VAT)
	}
	key, err := NewVehicleKey(v.CountryCode, v.PlateNumber)
	if err != nil {
		verr.addf("plateNumber", "cannot derive key: %v", err)
		return nil, verr
	}
	v.key = key
	return &v, nil
}

// Key returns the compound key derived at construction time.
func (v *Vehicle) Key() VehicleKey {
	return v.key
}

// InsuranceByID looks up a nested insurance record by its local key.
func (v *Vehicle) InsuranceByID(id int64) (*Insurance, bool) {
	i, ok := v.insuranceByID[id]
	if !ok {
		return nil, false
	}
	return &v.Insurance[i], true
}

// RevisionByID looks up a nested revision record by its local key.
func (v *Vehicle) RevisionByID(id int64) (*Revision, bool) {
	i, ok := v.revisionByID[id]
	if !ok {
		return nil, false
	}
	return &v.Revision[i], true
}

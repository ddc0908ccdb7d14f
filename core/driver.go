package core

// LicenseCategoryType represents an EU driving license category.
type LicenseCategoryType string

const (
	LicenseCategoryAM  LicenseCategoryType = "AM"
	LicenseCategoryA   LicenseCategoryType = "A"
	LicenseCategoryA1  LicenseCategoryType = "A1"
	LicenseCategoryA2  LicenseCategoryType = "A2"
	LicenseCategoryB   LicenseCategoryType = "B"
	LicenseCategoryBE  LicenseCategoryType = "BE"
	LicenseCategoryB1  LicenseCategoryType = "B1"
	LicenseCategoryC1  LicenseCategoryType = "C1"
	LicenseCategoryC1E LicenseCategoryType = "C1E"
	LicenseCategoryC   LicenseCategoryType = "C"
	LicenseCategoryCE  LicenseCategoryType = "CE"
	LicenseCategoryD1  LicenseCategoryType = "D1"
	LicenseCategoryD1E LicenseCategoryType = "D1E"
	LicenseCategoryD   LicenseCategoryType = "D"
	LicenseCategoryDE  LicenseCategoryType = "DE"
)

// AllLicenseCategoryTypes returns all valid license categories for validation.
var AllLicenseCategoryTypes = []LicenseCategoryType{
	LicenseCategoryAM, LicenseCategoryA, LicenseCategoryA1, LicenseCategoryA2,
	LicenseCategoryB, LicenseCategoryBE, LicenseCategoryB1,
	LicenseCategoryC1, LicenseCategoryC1E, LicenseCategoryC, LicenseCategoryCE,
	LicenseCategoryD1, LicenseCategoryD1E, LicenseCategoryD, LicenseCategoryDE,
}

// IsValid checks if the license category type is valid.
func (t LicenseCategoryType) IsValid() bool {
	for _, valid := range AllLicenseCategoryTypes {
		if t == valid {
			return true
		}
	}
	return false
}

// LicenseStatus represents the status of a license category.
type LicenseStatus string

const (
	LicenseStatusValid       LicenseStatus = "VALID"
	LicenseStatusExpired     LicenseStatus = "EXPIRED"
	LicenseStatusSuspended   LicenseStatus = "SUSPENDED"
	LicenseStatusRevoked     LicenseStatus = "REVOKED"
	LicenseStatusConfiscated LicenseStatus = "CONFISCATED"
	LicenseStatusLostStolen  LicenseStatus = "LOST/STOLEN"
)

// AllLicenseStatuses returns all valid license statuses for validation.
var AllLicenseStatuses = []LicenseStatus{
	LicenseStatusValid, LicenseStatusExpired, LicenseStatusSuspended,
	LicenseStatusRevoked, LicenseStatusConfiscated, LicenseStatusLostStolen,
}

// IsValid checks if the license status is valid.
func (s LicenseStatus) IsValid() bool {
	for _, valid := range AllLicenseStatuses {
		if s == valid {
			return true
		}
	}
	return false
}

// LicenseCategory is one category entry of a driving license.
type LicenseCategory struct {
	Type        LicenseCategoryType `json:"type" validate:"required"`
	Description string              `json:"description,omitempty" validate:"omitempty,min=1,max=20"`
	IssueDate   string              `json:"issueDate" validate:"required,isodate"`
	ExpiryDate  string              `json:"expiryDate" validate:"required,isodate"`
	Status      LicenseStatus       `json:"status" validate:"required"`
	Code95      string              `json:"code95,omitempty" validate:"omitempty,min=1,max=20"`
}

// License represents a driving license with its categories.
type License struct {
	ID          string            `json:"id" validate:"required,idcode"`
	CountryCode string            `json:"countryCode" validate:"required,countrycode"`
	Category    []LicenseCategory `json:"category" validate:"required,min=1,dive"`
}

// TrafficViolation is a violation record nested under a Driver, keyed
// locally by id.
type TrafficViolation struct {
	ID             int64    `json:"id" validate:"required,gt=0"`
	Description    string   `json:"description" validate:"required,min=1,max=100"`
	Code           string   `json:"code" validate:"required,min=1,max=20"`
	CountryCode    string   `json:"countryCode" validate:"required,countrycode"`
	Fine           *float64 `json:"fine,omitempty" validate:"omitempty,gte=0"`
	PaymentDueDate string   `json:"paymentDueDate,omitempty" validate:"omitempty,isodate"`
	PaymentDate    string   `json:"paymentDate,omitempty" validate:"omitempty,isodate"`
	IsPayed        *bool    `json:"isPayed,omitempty"`
	ValidityPoints *int     `json:"validityPoints,omitempty" validate:"omitempty,gte=0"`
	Payload        Payload  `json:"payload,omitempty"`
}

// ExceededTimeLimits records by how much a driving limit was exceeded.
type ExceededTimeLimits struct {
	Type    string `json:"type,omitempty" validate:"omitempty,min=1,max=20"`
	Hours   int    `json:"hours" validate:"gte=0"`
	Minutes int    `json:"minutes" validate:"gte=0,lte=59"`
	Seconds int    `json:"seconds" validate:"gte=0,lte=59"`
}

// DrivingInterval is one recorded driving period on a tachograph card.
type DrivingInterval struct {
	StartDateTime string               `json:"startDateTime" validate:"required,isodatetime"`
	EndDateTime   string               `json:"endDateTime" validate:"required,isodatetime"`
	ETL           []ExceededTimeLimits `json:"etl,omitempty" validate:"omitempty,dive"`
}

// TachographCard is a card record nested under a Driver. Its id is a local
// key: unique within the parent driver, not globally.
type TachographCard struct {
	ID              string            `json:"id" validate:"required,idcode"`
	DrivingInterval []DrivingInterval `json:"drivingInterval" validate:"required,dive"`
}

// Driver represents a professional driver. Its global key is
// (countryCode, vat).
type Driver struct {
	ID               int64              `json:"id" validate:"required,gt=0"`
	FirstName        string             `json:"firstName" validate:"required,min=1,max=20"`
	LastName         string             `json:"lastName" validate:"required,min=1,max=20"`
	CountryCode      string             `json:"countryCode" validate:"required,countrycode"`
	VAT              string             `json:"vat" validate:"required,vatnum"`
	License          License            `json:"license"`
	TrafficViolation []TrafficViolation `json:"trafficViolation,omitempty" validate:"omitempty,dive"`
	TachographCard   []TachographCard   `json:"tachographCard,omitempty" validate:"omitempty,dive"`

	key           DriverKey
	cardByID      map[string]int
	violationByID map[int64]int
}

// DecodeDriver validates a raw record and constructs an immutable Driver,
// including its derived key and local indexes over nested collections. The
// returned error is always a *ValidationError.
func DecodeDriver(raw []byte) (*Driver, error) {
	verr := newValidationError("driver")

	var d Driver
	if err := decodeStrict(raw, &d); err != nil {
		verr.addf("", "malformed record: %v", err)
		return nil, verr
	}
	if err := validate.Struct(&d); err != nil {
		verr.fromValidator(err)
	}

	for i, cat := range d.License.Category {
		if cat.Type != "" && !cat.Type.IsValid() {
			verr.addf("license.category", "unknown category type %q at index %d", cat.Type, i)
		}
		if cat.Status != "" && !cat.Status.IsValid() {
			verr.addf("license.category", "unknown status %q at index %d", cat.Status, i)
		}
		if cat.IssueDate != "" && cat.ExpiryDate != "" && cat.ExpiryDate < cat.IssueDate {
			verr.addf("license.category", "category %s expires before issue", cat.Type)
		}
	}
	d.violationByID = make(map[int64]int, len(d.TrafficViolation))
	for i, tv := range d.TrafficViolation {
		if _, dup := d.violationByID[tv.ID]; dup {
			verr.addf("trafficViolation", "duplicate traffic violation id %d", tv.ID)
			continue
		}
		d.violationByID[tv.ID] = i
	}
	d.cardByID = make(map[string]int, len(d.TachographCard))
	for i := range d.TachographCard {
		card := &d.TachographCard[i]
		card.ID = NormalizeIDCode(card.ID)
		if _, dup := d.cardByID[card.ID]; dup {
			verr.addf("tachographCard", "duplicate tachograph card id %s", card.ID)
			continue
		}
		d.cardByID[card.ID] = i
		for _, iv := range card.DrivingInterval {
			if iv.StartDateTime != "" && iv.EndDateTime != "" && iv.EndDateTime < iv.StartDateTime {
				verr.addf("tachographCard", "card %s has interval ending before start", card.ID)
			}
		}
	}
	if !verr.ok() {
		return nil, verr
	}

	d.CountryCode = NormalizeCountryCode(d.CountryCode)
	d.VAT = NormalizeVAT(d.VAT)
	d.License.ID = NormalizeIDCode(d.License.ID)
	d.License.CountryCode = NormalizeCountryCode(d.License.CountryCode)
	key, err := NewDriverKey(d.CountryCode, d.VAT)
	if err != nil {
		verr.addf("vat", "cannot derive key: %v", err)
		return nil, verr
	}
	d.key = key
	return &d, nil
}

// Key returns the compound key derived at construction time.
func (d *Driver) Key() DriverKey {
	return d.key
}

// TachographCardByID looks up a nested card record by its normalized local
// key.
func (d *Driver) TachographCardByID(id string) (*TachographCard, bool) {
	i, ok := d.cardByID[NormalizeIDCode(id)]
	if !ok {
		return nil, false
	}
	return &d.TachographCard[i], true
}

// TrafficViolationByID looks up a nested violation record by its local key.
func (d *Driver) TrafficViolationByID(id int64) (*TrafficViolation, bool) {
	i, ok := d.violationByID[id]
	if !ok {
		return nil, false
	}
	return &d.TrafficViolation[i], true
}

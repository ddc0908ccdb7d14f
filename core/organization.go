package core

// OrganizationType represents the role an organization plays in a transport
// operation.
type OrganizationType string

const (
	OrganizationTypeOperator OrganizationType = "OPERATOR"
	OrganizationTypeCustomer OrganizationType = "CUSTOMER"
)

// AllOrganizationTypes returns all valid organization types for validation.
var AllOrganizationTypes = []OrganizationType{
	OrganizationTypeOperator, OrganizationTypeCustomer,
}

// IsValid checks if the organization type is valid.
func (t OrganizationType) IsValid() bool {
	for _, valid := range AllOrganizationTypes {
		if t == valid {
			return true
		}
	}
	return false
}

// Organization represents a company referenced by vehicles, drivers and
// transport operations (operator, sender, receiver).
type Organization struct {
	ID          int64            `json:"id" validate:"required,gt=0"`
	Name        string           `json:"name" validate:"required,min=1,max=20"`
	CountryCode string           `json:"countryCode" validate:"required,countrycode"`
	Type        OrganizationType `json:"type" validate:"required"`
	VAT         string           `json:"vat,omitempty" validate:"omitempty,vatnum"`
	Address     string           `json:"address,omitempty" validate:"omitempty,min=1,max=100"`

	key    OrganizationKey
	hasKey bool
}

// DecodeOrganization validates a raw record and constructs an immutable
// Organization. The returned error is always a *ValidationError.
func DecodeOrganization(raw []byte) (*Organization, error) {
	verr := newValidationError("organization")

	var org Organization
	if err := decodeStrict(raw, &org); err != nil {
		verr.addf("", "malformed record: %v", err)
		return nil, verr
	}
	if err := validate.Struct(&org); err != nil {
		verr.fromValidator(err)
	}
	if org.Type != "" && !org.Type.IsValid() {
		verr.addf("type", "unknown organization type %q", org.Type)
	}
	if !verr.ok() {
		return nil, verr
	}

	org.CountryCode = NormalizeCountryCode(org.CountryCode)
	if org.VAT != "" {
		org.VAT = NormalizeVAT(org.VAT)
		key, err := NewOrganizationKey(org.CountryCode, org.VAT)
		if err != nil {
			verr.addf("vat", "cannot derive key: %v", err)
			return nil, verr
		}
		org.key = key
		org.hasKey = true
	}
	return &org, nil
}

// Key returns the derived compound key and whether the organization has one
// (organizations without a VAT number are list-only).
func (o *Organization) Key() (OrganizationKey, bool) {
	return o.key, o.hasKey
}

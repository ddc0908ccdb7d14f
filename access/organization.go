package access

import (
	"caravan/core"
	"caravan/registry"
)

// OrganizationAccess is the query facade for the organization family.
type OrganizationAccess struct {
	handle *registry.Handle
}

// NewOrganizationAccess creates an organization facade over the registry
// handle.
func NewOrganizationAccess(handle *registry.Handle) *OrganizationAccess {
	return &OrganizationAccess{handle: handle}
}

// List returns all organizations in installation order, including the
// list-only ones without a VAT number.
func (a *OrganizationAccess) List() []*core.Organization {
	return a.handle.Snapshot().Organizations()
}

// GetByVAT resolves an organization by (countryCode, vat).
func (a *OrganizationAccess) GetByVAT(countryCode, vat string) (*core.Organization, error) {
	org, err := a.handle.Snapshot().Organization(countryCode, vat)
	observe(core.FamilyOrganization, err)
	return org, err
}

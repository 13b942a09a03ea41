package schema

// PortalOrganizationTable represents the 'portal.organization' table
type PortalOrganizationTable struct {
	Table            string
	ID               string
	Name             string
	Slug             string
	StripeCustomerID string
	OverdueSince     string
	CreatedAt        string
	UpdatedAt        string
	DeletedAt        string
}

// PortalOrganization is the schema definition for portal.organization
var PortalOrganization = PortalOrganizationTable{
	Table:            "portal.organization",
	ID:               "id",
	Name:             "name",
	Slug:             "slug",
	StripeCustomerID: "stripecustomerid",
	OverdueSince:     "overduesince",
	CreatedAt:        "createdat",
	UpdatedAt:        "updatedat",
	DeletedAt:        "deletedat",
}

// Columns returns all standard column names
func (t PortalOrganizationTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Slug, t.StripeCustomerID, t.OverdueSince, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}

package schema

// PortalAccountTable represents the 'portal.account' table
type PortalAccountTable struct {
	Table       string
	ID          string
	Email       string
	DisplayName string
	Phone       string
	OrgID       string
	Roles       string
	CreatedAt   string
	UpdatedAt   string
	DeletedAt   string
}

// PortalAccount is the schema definition for portal.account
var PortalAccount = PortalAccountTable{
	Table:       "portal.account",
	ID:          "id",
	Email:       "email",
	DisplayName: "displayname",
	Phone:       "phone",
	OrgID:       "orgid",
	Roles:       "roles",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	DeletedAt:   "deletedat",
}

// Columns returns all standard column names
func (t PortalAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.DisplayName, t.Phone, t.OrgID, t.Roles, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}

package types

import "Pharmetix/models"

// Viewer is the identity resolved by the auth middleware; services trust it as authentic.
type Viewer struct {
	ID   int64
	Role models.Role
}

func (v Viewer) IsAdmin() bool {
	return v.Role == models.RoleAdmin
}

func (v Viewer) IsSeller() bool {
	return v.Role == models.RoleSeller
}

func (v Viewer) IsCustomer() bool {
	return v.Role == models.RoleCustomer
}

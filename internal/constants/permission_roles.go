package constants

// PermissionRoles maps each permission to the roles allowed to perform it.
// Approval is deliberately narrower than drafting so the same manager cannot
// both create and approve a distribution unchecked.
var PermissionRoles = map[string][]string{
	ViewData:            {Investor, Manager, Admin, Superadmin},
	CreateDistribution:  {Manager, Admin, Superadmin},
	SubmitDistribution:  {Manager, Admin, Superadmin},
	ApproveDistribution: {Admin, Superadmin},
	DeclareDistribution: {Admin, Superadmin},
	DeleteDistribution:  {Admin, Superadmin},
	ManagePayouts:       {Manager, Admin, Superadmin},
	RunReconciliation:   {Admin, Superadmin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

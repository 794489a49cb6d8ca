package rbac

// Display metadata for the dashboard. All lookups fall back to a generic
// value for inputs outside the catalog instead of erroring.

var roleLabels = map[Role]string{
	RoleOwner:  "Propietario",
	RoleAdmin:  "Administrador",
	RoleMember: "Miembro",
}

var roleBadgeColors = map[Role]string{
	RoleOwner:  "purple",
	RoleAdmin:  "blue",
	RoleMember: "gray",
}

var permissionErrorMessages = map[Action]string{
	ActionAgentsCreate:  "No tienes permiso para crear agentes",
	ActionAgentsEdit:    "No tienes permiso para editar agentes",
	ActionAgentsDelete:  "No tienes permiso para eliminar agentes",
	ActionMembersInvite: "No tienes permiso para invitar usuarios",
	ActionMembersManage: "No tienes permiso para gestionar usuarios",
	ActionBillingView:   "Solo el propietario puede ver la facturación",
	ActionBillingManage: "Solo el propietario puede gestionar la facturación",
	ActionOrgSettings:   "No tienes permiso para modificar la configuración",
	ActionOrgTransfer:   "Solo el propietario puede transferir la organización",
}

// GetRoleLabel returns the display label for role.
func GetRoleLabel(role Role) string {
	if label, ok := roleLabels[role]; ok {
		return label
	}
	return "Desconocido"
}

// GetRoleBadgeColor returns the badge color token for role.
func GetRoleBadgeColor(role Role) string {
	if color, ok := roleBadgeColors[role]; ok {
		return color
	}
	return "gray"
}

// GetPermissionErrorMessage returns the user-facing denial message for
// action.
func GetPermissionErrorMessage(action Action) string {
	if msg, ok := permissionErrorMessages[action]; ok {
		return msg
	}
	return "No tienes permiso para realizar esta acción"
}

package models

// Capability é uma permissão individual consultável por role.
type Capability string

const (
	CapViewReports    Capability = "viewReports"
	CapManagePayments Capability = "managePayments"
	CapCreateClients  Capability = "createClients"
	CapViewClients    Capability = "viewClients"
	CapCreateAdmins   Capability = "createAdmins"
	CapDeleteAdmins   Capability = "deleteAdmins"
	CapManageAllUsers Capability = "manageAllUsers"
)

// RolePermissions é a tabela estática role -> permissões. É dado, não
// comportamento: roles novos entram como novas chaves.
var RolePermissions = map[string]map[Capability]bool{
	ROLE_SUPERADMIN: {
		CapViewReports:    true,
		CapManagePayments: true,
		CapCreateClients:  true,
		CapViewClients:    true,
		CapCreateAdmins:   true,
		CapDeleteAdmins:   true,
		CapManageAllUsers: true,
	},
	ROLE_ADMIN: {
		CapViewReports:    true,
		CapManagePayments: true,
		CapCreateClients:  true,
		CapViewClients:    true,
		// Admin pode criar funcionários, mas não excluir outros admins.
		CapCreateAdmins:   true,
		CapDeleteAdmins:   false,
		CapManageAllUsers: true,
	},
	ROLE_FUNCIONARIO: {
		CapViewReports:    true,
		CapManagePayments: true,
		CapCreateClients:  true,
		CapViewClients:    true,
		CapCreateAdmins:   false,
		CapDeleteAdmins:   false,
		CapManageAllUsers: false,
	},
}

// HasPermission consulta a tabela de permissões. Role desconhecido não tem
// permissão nenhuma (fail closed).
func HasPermission(role string, capability Capability) bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	return perms[capability]
}

// GetPermissions devolve uma cópia do conjunto de permissões do role.
func GetPermissions(role string) map[Capability]bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return map[Capability]bool{}
	}
	out := make(map[Capability]bool, len(perms))
	for k, v := range perms {
		out[k] = v
	}
	return out
}

// RoleLabels são os rótulos de exibição dos roles.
var RoleLabels = map[string]string{
	ROLE_SUPERADMIN:  "Super Administrador",
	ROLE_ADMIN:       "Administrador",
	ROLE_FUNCIONARIO: "Funcionário",
}

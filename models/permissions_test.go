package models

import "testing"

func TestRolePermissionsTable(t *testing.T) {
	cases := []struct {
		role       string
		capability Capability
		want       bool
	}{
		{ROLE_SUPERADMIN, CapDeleteAdmins, true},
		{ROLE_SUPERADMIN, CapCreateAdmins, true},
		{ROLE_SUPERADMIN, CapManagePayments, true},
		{ROLE_ADMIN, CapCreateAdmins, true},
		{ROLE_ADMIN, CapDeleteAdmins, false},
		{ROLE_ADMIN, CapManageAllUsers, true},
		{ROLE_FUNCIONARIO, CapManagePayments, true},
		{ROLE_FUNCIONARIO, CapViewClients, true},
		{ROLE_FUNCIONARIO, CapCreateAdmins, false},
		{ROLE_FUNCIONARIO, CapDeleteAdmins, false},
		{ROLE_FUNCIONARIO, CapManageAllUsers, false},
	}
	for _, tc := range cases {
		if got := HasPermission(tc.role, tc.capability); got != tc.want {
			t.Errorf("HasPermission(%q, %q) = %v, want %v", tc.role, tc.capability, got, tc.want)
		}
	}
}

func TestHasPermissionFailsClosed(t *testing.T) {
	if HasPermission("gerente", CapViewReports) {
		t.Error("role desconhecido não deveria ter permissão")
	}
	if HasPermission("", CapViewReports) {
		t.Error("role vazio não deveria ter permissão")
	}
	if HasPermission(ROLE_ADMIN, Capability("formatDisk")) {
		t.Error("capability desconhecida não deveria ser concedida")
	}
}

func TestGetPermissionsReturnsCopy(t *testing.T) {
	perms := GetPermissions(ROLE_FUNCIONARIO)
	perms[CapDeleteAdmins] = true

	if HasPermission(ROLE_FUNCIONARIO, CapDeleteAdmins) {
		t.Error("mutação na cópia vazou para a tabela estática")
	}

	if got := GetPermissions("gerente"); len(got) != 0 {
		t.Errorf("GetPermissions de role desconhecido = %v, want vazio", got)
	}
}

func TestAdminRoleHelpers(t *testing.T) {
	super := Admin{Role: ROLE_SUPERADMIN}
	if !super.IsSuperAdmin() {
		t.Error("IsSuperAdmin() = false para SUPERADMIN")
	}
	admin := Admin{Role: ROLE_ADMIN}
	if admin.IsSuperAdmin() {
		t.Error("IsSuperAdmin() = true para ADMIN")
	}

	for _, role := range []string{ROLE_SUPERADMIN, ROLE_ADMIN, ROLE_FUNCIONARIO} {
		if !IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = false", role)
		}
	}
	if IsValidRole("gerente") {
		t.Error("IsValidRole aceitou role desconhecido")
	}
}

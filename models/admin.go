package models

import "time"

/************************************************
/**** MARK: ADMIN ROLES ****/
/************************************************/
const ROLE_FUNCIONARIO = "FUNCIONARIO"
const ROLE_ADMIN = "ADMIN"
const ROLE_SUPERADMIN = "SUPERADMIN"

// Admin representa um operador do painel administrativo.
//
// A autoridade é representada apenas pelo Role (SUPERADMIN no topo). O antigo
// flag booleano isSuperAdmin foi absorvido pelo role para que os dois sinais
// nunca possam divergir; call sites usam IsSuperAdmin().
type Admin struct {
	ID           int64  `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name         string `gorm:"not null" json:"name" form:"name"`
	Email        string `gorm:"not null;unique" json:"email" form:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Phone        string `gorm:"default:''" json:"phone" form:"phone"`
	Role         string `gorm:"not null;default:'FUNCIONARIO'" json:"role" form:"role"`

	// 2FA por código de 6 dígitos enviado via email/SMS.
	TwoFactorEnabled bool       `gorm:"not null;default:false" json:"two_factor_enabled"`
	TwoFactorCode    string     `gorm:"default:''" json:"-"`
	TwoFactorExpiry  *time.Time `json:"-"`

	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (a Admin) IsSuperAdmin() bool {
	return a.Role == ROLE_SUPERADMIN
}

func IsValidRole(role string) bool {
	switch role {
	case ROLE_FUNCIONARIO, ROLE_ADMIN, ROLE_SUPERADMIN:
		return true
	}
	return false
}

package models

import "time"

/************************************************
/**** MARK: RESET ACCOUNT TYPES ****/
/************************************************/
const RESET_ACCOUNT_ADMIN = "admin"
const RESET_ACCOUNT_CLIENT = "cliente"

// PasswordReset representa um token temporário do fluxo "Esqueci minha
// senha", válido para uma conta de admin ou de cliente. Guardamos apenas o
// HASH do token (nunca o token em texto puro).
type PasswordReset struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	AccountType string     `gorm:"not null;index" json:"account_type"`
	AccountID   int64      `gorm:"not null;index" json:"account_id"`
	TokenHash   string     `gorm:"not null;index" json:"-"`
	ExpiresAt   *time.Time `json:"expires_at"`
	UsedAt      *time.Time `json:"used_at"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

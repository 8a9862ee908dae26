package models

import (
	"dunar/tools"
	"time"
)

// Email reservado para o dono dos veículos de acesso avulso (walk-in sem cadastro).
const WALKIN_USER_EMAIL = "temp@dunar.com"

// User representa um cliente do complexo (portal do cliente).
type User struct {
	ID           int64  `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name         string `gorm:"not null" json:"name" form:"name"`
	Email        string `gorm:"not null;unique" json:"email" form:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Phone        string `gorm:"default:''" json:"phone" form:"phone"`
	Document     string `gorm:"default:''" json:"document" form:"document"`

	// LifetimePrize concede a cota diária de placas gratuitas (prêmio vitalício).
	LifetimePrize bool `gorm:"not null;default:false" json:"lifetime_prize"`

	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (user User) MissingFields() string {
	if user.Name == "" {
		return "name"
	} else if user.Email == "" {
		return "email"
	} else if !tools.ValidateEmail(user.Email) {
		return "email"
	}
	return ""
}

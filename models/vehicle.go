package models

import "time"

/************************************************
/**** MARK: PLATE ROLES ****/
/************************************************/
const PLATE_ROLE_COMUM = "Comum"
const PLATE_ROLE_COOPERADO = "Cooperado"
const PLATE_ROLE_EVENTO = "Evento"
const PLATE_ROLE_DONO = "Dono"

// Vehicle representa um veículo identificado pela placa normalizada.
// A placa é única no sistema: nunca existem dois registros com a mesma
// placa normalizada.
type Vehicle struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Plate     string     `gorm:"not null;unique" json:"plate" form:"plate"`
	PlateRole string     `gorm:"not null;default:'Comum'" json:"plate_role" form:"plate_role"`
	UserID    int64      `gorm:"not null;index" json:"user_id"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func IsValidPlateRole(role string) bool {
	switch role {
	case PLATE_ROLE_COMUM, PLATE_ROLE_COOPERADO, PLATE_ROLE_EVENTO, PLATE_ROLE_DONO:
		return true
	}
	return false
}

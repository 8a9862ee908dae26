package models

import "time"

/************************************************
/**** MARK: RESERVATION STATUS ****/
/************************************************/
const RESERVATION_STATUS_PENDING = "pending"
const RESERVATION_STATUS_CONFIRMED = "confirmed"
const RESERVATION_STATUS_CANCELLED = "cancelled"

// Reservation representa uma reserva agendada de acesso para um veículo
// em um período (em oposição ao acesso avulso do mesmo dia).
type Reservation struct {
	ID         int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID     int64      `gorm:"not null;index" json:"user_id"`
	VehicleID  int64      `gorm:"not null;index" json:"vehicle_id"`
	Passengers int        `gorm:"not null;default:0" json:"passengers" form:"passengers"`
	StartDate  time.Time  `gorm:"not null" json:"start_date"`
	EndDate    time.Time  `gorm:"not null" json:"end_date"`
	Status     string     `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt  *time.Time `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

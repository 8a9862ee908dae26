package models

import "time"

// Event é um override de preço 1:1 com um veículo para eventos (shows,
// competições etc). Mutuamente exclusivo com Cooperative.
type Event struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name        string     `gorm:"not null" json:"name" form:"name"`
	VehicleID   int64      `gorm:"not null;unique_index" json:"vehicle_id"`
	Price       float64    `gorm:"not null;default:0" json:"price" form:"price"`
	EventDate   *time.Time `json:"event_date"`
	Description string     `gorm:"type:text" json:"description" form:"description"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active" form:"is_active"`
	CreatedBy   int64      `gorm:"not null;default:0" json:"created_by"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

package models

import "time"

// Cooperative é um override de preço 1:1 com um veículo (placa de cooperado).
// Criar/remover o vínculo tem efeito colateral no PlateRole do veículo e é
// mutuamente exclusivo com Event.
type Cooperative struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name      string     `gorm:"not null" json:"name" form:"name"`
	VehicleID int64      `gorm:"not null;unique_index" json:"vehicle_id"`
	Price     float64    `gorm:"not null;default:0" json:"price" form:"price"`
	IsActive  bool       `gorm:"not null;default:true" json:"is_active" form:"is_active"`
	CreatedBy int64      `gorm:"not null;default:0" json:"created_by"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

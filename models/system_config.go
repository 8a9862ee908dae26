package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

// Preços padrão usados na criação preguiçosa do registro de configuração.
const DEFAULT_NORMAL_ACCESS_PRICE = 50.00
const DEFAULT_COOP_ACCESS_PRICE = 40.00

const MAX_ACCESS_PRICE = 1000.00

// SystemConfig guarda os preços padrão de acesso. Sempre existe no máximo
// um registro; o acesso passa por GetOrCreateSystemConfig para garantir a
// inicialização no primeiro uso.
type SystemConfig struct {
	ID                int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	NormalAccessPrice float64    `gorm:"not null;default:50" json:"normal_access_price" form:"normal_access_price"`
	CoopAccessPrice   float64    `gorm:"not null;default:40" json:"coop_access_price" form:"coop_access_price"`
	UpdatedBy         int64      `gorm:"not null;default:0" json:"updated_by"`
	CreatedAt         *time.Time `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at"`
}

// GetOrCreateSystemConfig devolve o registro único de configuração, criando-o
// com os valores padrão se ainda não existir.
func GetOrCreateSystemConfig(db *gorm.DB, adminID int64) (SystemConfig, error) {
	var config SystemConfig
	err := db.First(&config).Error
	if err == nil {
		return config, nil
	}
	if !gorm.IsRecordNotFoundError(err) {
		return SystemConfig{}, err
	}

	config = SystemConfig{
		NormalAccessPrice: DEFAULT_NORMAL_ACCESS_PRICE,
		CoopAccessPrice:   DEFAULT_COOP_ACCESS_PRICE,
		UpdatedBy:         adminID,
	}
	if err := db.Create(&config).Error; err != nil {
		return SystemConfig{}, err
	}
	return config, nil
}

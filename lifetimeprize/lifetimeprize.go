// Package lifetimeprize implementa o prêmio vitalício: uma cota diária de
// placas gratuitas por usuário, com reset à meia-noite local.
package lifetimeprize

import (
	"errors"
	"time"

	"dunar/models"

	"github.com/jinzhu/gorm"
)

// Quantidade de placas gratuitas por dia para quem tem o prêmio.
const FREE_PLATES_PER_DAY = 6

var ErrUserNotFound = errors.New("usuário não encontrado")

// PlateCharge é a cobrança de uma placa individual dentro de um cálculo.
type PlateCharge struct {
	Plate  int     `json:"plate"`
	Price  float64 `json:"price"`
	IsFree bool    `json:"isFree"`
}

// Quote é o resultado do cálculo de preço de um pedido com N placas.
type Quote struct {
	TotalPrice float64       `json:"totalPrice"`
	FreePlates int           `json:"freePlates"`
	PaidPlates int           `json:"paidPlates"`
	Breakdown  []PlateCharge `json:"breakdown"`
}

// Status é o retrato da cota diária de um usuário.
type Status struct {
	HasLifetimePrize      bool       `json:"hasLifetimePrize"`
	TotalFreePlatesPerDay int        `json:"totalFreePlatesPerDay"`
	UsedToday             int        `json:"usedToday"`
	AvailableToday        int        `json:"availableToday"`
	NextReset             *time.Time `json:"nextReset"`
}

// HasLifetimePrize verifica se o usuário tem o prêmio vitalício ativo.
func HasLifetimePrize(db *gorm.DB, userID int64) (bool, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	return user.LifetimePrize, nil
}

// dayWindow devolve a janela [meia-noite local, próxima meia-noite) que
// contém now. A mesma janela é usada na contagem e na cobrança para evitar
// divergência na virada do dia.
func dayWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}

// CountFreePlatesUsedToday conta os tickets gratuitos do usuário cuja data
// de uso cai no dia local corrente.
func CountFreePlatesUsedToday(db *gorm.DB, userID int64) (int, error) {
	return countFreePlatesUsed(db, userID, time.Now())
}

func countFreePlatesUsed(db *gorm.DB, userID int64, now time.Time) (int, error) {
	start, end := dayWindow(now)

	var count int
	err := db.Model(&models.Ticket{}).
		Joins("JOIN reservations ON reservations.id = tickets.reservation_id").
		Where("reservations.user_id = ?", userID).
		Where("tickets.is_free = ?", true).
		Where("tickets.use_date >= ? AND tickets.use_date < ?", start, end).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// AvailableFreePlates devolve quantas placas gratuitas o usuário ainda tem
// hoje. Sem prêmio o resultado é 0; o valor nunca fica negativo.
func AvailableFreePlates(db *gorm.DB, userID int64) (int, error) {
	return availableFreePlates(db, userID, time.Now())
}

func availableFreePlates(db *gorm.DB, userID int64, now time.Time) (int, error) {
	hasPrize, err := HasLifetimePrize(db, userID)
	if err != nil {
		return 0, err
	}
	if !hasPrize {
		return 0, nil
	}

	used, err := countFreePlatesUsed(db, userID, now)
	if err != nil {
		return 0, err
	}

	available := FREE_PLATES_PER_DAY - used
	if available < 0 {
		available = 0
	}
	return available, nil
}

// CalculatePrice calcula quanto custa um pedido de count placas ao preço
// unitário basePrice, consumindo primeiro a cota gratuita disponível. Puro
// (só leitura): nenhum ticket é criado aqui.
func CalculatePrice(db *gorm.DB, userID int64, basePrice float64, count int) (Quote, error) {
	return calculatePrice(db, userID, basePrice, count, time.Now())
}

func calculatePrice(db *gorm.DB, userID int64, basePrice float64, count int, now time.Time) (Quote, error) {
	// Pedido sem placas não cobra nada; count negativo nunca pode virar
	// cota negativa.
	if count < 0 {
		count = 0
	}

	available, err := availableFreePlates(db, userID, now)
	if err != nil {
		return Quote{}, err
	}

	freePlates := count
	if available < freePlates {
		freePlates = available
	}
	paidPlates := count - freePlates

	breakdown := make([]PlateCharge, 0, count)
	for i := 0; i < count; i++ {
		isFree := i < freePlates
		price := basePrice
		if isFree {
			price = 0
		}
		breakdown = append(breakdown, PlateCharge{Plate: i + 1, Price: price, IsFree: isFree})
	}

	return Quote{
		TotalPrice: float64(paidPlates) * basePrice,
		FreePlates: freePlates,
		PaidPlates: paidPlates,
		Breakdown:  breakdown,
	}, nil
}

// GetStatus devolve o retrato completo da cota do usuário, incluindo o
// próximo reset (meia-noite local).
func GetStatus(db *gorm.DB, userID int64) (Status, error) {
	return getStatus(db, userID, time.Now())
}

func getStatus(db *gorm.DB, userID int64, now time.Time) (Status, error) {
	hasPrize, err := HasLifetimePrize(db, userID)
	if err != nil {
		return Status{}, err
	}
	if !hasPrize {
		return Status{}, nil
	}

	used, err := countFreePlatesUsed(db, userID, now)
	if err != nil {
		return Status{}, err
	}

	available := FREE_PLATES_PER_DAY - used
	if available < 0 {
		available = 0
	}

	_, nextReset := dayWindow(now)

	return Status{
		HasLifetimePrize:      true,
		TotalFreePlatesPerDay: FREE_PLATES_PER_DAY,
		UsedToday:             used,
		AvailableToday:        available,
		NextReset:             &nextReset,
	}, nil
}

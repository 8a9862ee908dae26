// Package tickets concentra o ciclo de vida do ticket de acesso: criação,
// confirmação de pagamento (webhook), liberação pelo admin e expiração.
package tickets

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"dunar/lifetimeprize"
	"dunar/models"
	"dunar/tools"

	"github.com/jinzhu/gorm"
)

var ErrNotFound = errors.New("ticket não encontrado")
var ErrPaymentNotConfirmed = errors.New("pagamento não confirmado")
var ErrAlreadyReleased = errors.New("acesso já liberado")
var ErrPaymentNotPending = errors.New("pagamento não está pendente")
var ErrInvalidPassengers = errors.New("quantidade de passageiros inválida")
var ErrInvalidPlate = errors.New("placa inválida")

type CreateParams struct {
	Plate         string
	Passengers    int
	UseDate       time.Time
	PlateRole     string
	PaymentStatus string
	UserID        int64 // 0 = acesso avulso sem cadastro (usuário walk-in)
	ReservationID *int64
}

// Create cria um ticket no estado inicial {Pendente, Aguardando Liberação},
// criando o veículo se a placa ainda não existe. O preço vem da classe de
// preço do veículo (cooperado > evento > padrão), multiplicado pelos
// passageiros; a cota gratuita do prêmio vitalício zera a cobrança quando
// disponível.
func Create(db *gorm.DB, p CreateParams) (models.Ticket, error) {
	plate := tools.NormalizePlate(p.Plate)
	if plate == "" {
		return models.Ticket{}, ErrInvalidPlate
	}
	if p.Passengers < 0 || p.Passengers > models.MAX_PASSENGERS {
		return models.Ticket{}, ErrInvalidPassengers
	}

	vehicle, err := findOrCreateVehicle(db, plate, p.PlateRole, p.UserID)
	if err != nil {
		return models.Ticket{}, err
	}

	unitPrice, err := ResolveUnitPrice(db, vehicle)
	if err != nil {
		return models.Ticket{}, err
	}

	// Cota gratuita: só para dono identificado em fluxo com reserva (a
	// contagem diária percorre a reserva). Falha na consulta do usuário
	// vale como "sem prêmio".
	isFree := false
	if p.UserID > 0 && p.ReservationID != nil {
		available, err := lifetimeprize.AvailableFreePlates(db, p.UserID)
		if err == nil && available > 0 {
			isFree = true
		}
	}

	price := float64(p.Passengers) * unitPrice
	if isFree {
		price = 0
	}

	paymentStatus := p.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = models.PAYMENT_STATUS_PENDENTE
	}
	if paymentStatus != models.PAYMENT_STATUS_PENDENTE && paymentStatus != models.PAYMENT_STATUS_PAGO {
		paymentStatus = models.PAYMENT_STATUS_PENDENTE
	}

	ticket := models.Ticket{
		VehicleID:     vehicle.ID,
		ReservationID: p.ReservationID,
		Passengers:    p.Passengers,
		UseDate:       p.UseDate,
		Price:         &price,
		IsFree:        isFree,
		PaymentStatus: paymentStatus,
		TicketStatus:  models.TICKET_STATUS_AGUARDANDO,
	}
	if err := db.Create(&ticket).Error; err != nil {
		return models.Ticket{}, err
	}
	return ticket, nil
}

func findOrCreateVehicle(db *gorm.DB, plate, plateRole string, userID int64) (models.Vehicle, error) {
	var vehicle models.Vehicle
	err := db.Where("plate = ?", plate).First(&vehicle).Error
	if err == nil {
		return vehicle, nil
	}
	if !gorm.IsRecordNotFoundError(err) {
		return models.Vehicle{}, err
	}

	if userID == 0 {
		walkin, err := findOrCreateWalkinUser(db)
		if err != nil {
			return models.Vehicle{}, err
		}
		userID = walkin.ID
	}

	if !models.IsValidPlateRole(plateRole) {
		plateRole = models.PLATE_ROLE_COMUM
	}

	vehicle = models.Vehicle{Plate: plate, PlateRole: plateRole, UserID: userID}
	if err := db.Create(&vehicle).Error; err != nil {
		return models.Vehicle{}, err
	}
	return vehicle, nil
}

func findOrCreateWalkinUser(db *gorm.DB) (models.User, error) {
	var user models.User
	err := db.Where("email = ?", models.WALKIN_USER_EMAIL).First(&user).Error
	if err == nil {
		return user, nil
	}
	if !gorm.IsRecordNotFoundError(err) {
		return models.User{}, err
	}

	user = models.User{
		Name:         "Usuário Temporário",
		Email:        models.WALKIN_USER_EMAIL,
		PasswordHash: "temp",
	}
	if err := db.Create(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// ResolveUnitPrice devolve o preço unitário da classe de preço do veículo:
// cooperado ativo, depois evento ativo, senão o preço padrão da configuração.
func ResolveUnitPrice(db *gorm.DB, vehicle models.Vehicle) (float64, error) {
	var coop models.Cooperative
	err := db.Where("vehicle_id = ? AND is_active = ?", vehicle.ID, true).First(&coop).Error
	if err == nil {
		return coop.Price, nil
	}
	if !gorm.IsRecordNotFoundError(err) {
		return 0, err
	}

	var event models.Event
	err = db.Where("vehicle_id = ? AND is_active = ?", vehicle.ID, true).First(&event).Error
	if err == nil {
		return event.Price, nil
	}
	if !gorm.IsRecordNotFoundError(err) {
		return 0, err
	}

	config, err := models.GetOrCreateSystemConfig(db, 0)
	if err != nil {
		return 0, err
	}
	return config.NormalAccessPrice, nil
}

// Release executa a transição de liberação: exige pagamento confirmado (ou
// ticket gratuito) e que o ticket ainda não tenha sido liberado. Guarda e
// escrita acontecem num único UPDATE condicional; RowsAffected == 0 com as
// pré-checagens passando significa corrida perdida para outra liberação.
func Release(db *gorm.DB, ticketID, adminID int64) (models.Ticket, error) {
	var ticket models.Ticket
	if err := db.First(&ticket, ticketID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return models.Ticket{}, ErrNotFound
		}
		return models.Ticket{}, err
	}

	if ticket.TicketStatus == models.TICKET_STATUS_LIBERADO {
		return models.Ticket{}, ErrAlreadyReleased
	}
	if ticket.PaymentStatus != models.PAYMENT_STATUS_PAGO && !ticket.IsFree {
		return models.Ticket{}, ErrPaymentNotConfirmed
	}

	now := time.Now()
	res := db.Model(&models.Ticket{}).
		Where("id = ? AND ticket_status <> ? AND (payment_status = ? OR is_free = ?)",
			ticketID, models.TICKET_STATUS_LIBERADO, models.PAYMENT_STATUS_PAGO, true).
		Updates(map[string]any{
			"ticket_status": models.TICKET_STATUS_LIBERADO,
			"released_by":   adminID,
			"released_at":   &now,
		})
	if res.Error != nil {
		return models.Ticket{}, res.Error
	}
	if res.RowsAffected == 0 {
		return models.Ticket{}, ErrAlreadyReleased
	}

	if err := db.First(&ticket, ticketID).Error; err != nil {
		return models.Ticket{}, err
	}
	return ticket, nil
}

// MarkPaid registra a confirmação do gateway. Repetições da notificação são
// inofensivas: o UPDATE é condicionado ao status Pendente e a segunda
// entrega não encontra nada para mudar.
func MarkPaid(db *gorm.DB, ticketID int64, paymentID, method string) error {
	res := db.Model(&models.Ticket{}).
		Where("id = ? AND payment_status = ?", ticketID, models.PAYMENT_STATUS_PENDENTE).
		Updates(map[string]any{
			"payment_status": models.PAYMENT_STATUS_PAGO,
			"payment_id":     paymentID,
			"payment_method": method,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int
		if err := db.Model(&models.Ticket{}).Where("id = ?", ticketID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		// já estava pago (replay do webhook)
	}
	return nil
}

// GetForPaymentRequest busca o ticket e valida a pré-condição da cobrança:
// o pagamento precisa estar pendente. Não muta nada.
func GetForPaymentRequest(db *gorm.DB, ticketID int64) (models.Ticket, error) {
	var ticket models.Ticket
	if err := db.First(&ticket, ticketID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return models.Ticket{}, ErrNotFound
		}
		return models.Ticket{}, err
	}
	if ticket.PaymentStatus != models.PAYMENT_STATUS_PENDENTE {
		return models.Ticket{}, ErrPaymentNotPending
	}
	return ticket, nil
}

// ExpireDue varre tickets não usados cujo dia de uso já terminou e os move
// para Expirado. Liberado é terminal e nunca expira.
func ExpireDue(db *gorm.DB) (int64, error) {
	return expireDue(db, time.Now())
}

func expireDue(db *gorm.DB, now time.Time) (int64, error) {
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	res := db.Model(&models.Ticket{}).
		Where("ticket_status = ? AND use_date < ?", models.TICKET_STATUS_AGUARDANDO, startOfToday).
		Update("ticket_status", models.TICKET_STATUS_EXPIRADO)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// ExternalReference monta a referência externa embutida na preferência de
// pagamento ("ticket-<id>-<nonce>"). O nonce evita colisão entre tentativas
// de checkout do mesmo ticket.
func ExternalReference(ticketID int64, nonce string) string {
	ref := "ticket-" + strconv.FormatInt(ticketID, 10)
	if nonce != "" {
		ref += "-" + nonce
	}
	return ref
}

// ParseExternalReference extrai o id do ticket de uma referência externa.
func ParseExternalReference(ref string) (int64, bool) {
	ref = strings.TrimSpace(ref)
	if !strings.HasPrefix(ref, "ticket-") {
		return 0, false
	}
	rest := strings.TrimPrefix(ref, "ticket-")
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		rest = rest[:i]
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ListFilters são os filtros da listagem administrativa.
type ListFilters struct {
	Plate  string // substring da placa
	Status string // "pending" | "paid" | "released" | vazio
}

// List devolve os tickets mais recentes primeiro, aplicando os filtros de
// placa e do status tri-state usado pelo painel.
func List(db *gorm.DB, f ListFilters) ([]models.Ticket, error) {
	q := db.Model(&models.Ticket{})

	if f.Plate != "" {
		plate := tools.NormalizePlate(f.Plate)
		q = q.Joins("JOIN vehicles ON vehicles.id = tickets.vehicle_id").
			Where("vehicles.plate LIKE ?", "%"+plate+"%")
	}

	switch f.Status {
	case "pending":
		q = q.Where("tickets.payment_status = ?", models.PAYMENT_STATUS_PENDENTE)
	case "paid":
		q = q.Where("tickets.payment_status = ? AND tickets.ticket_status = ?",
			models.PAYMENT_STATUS_PAGO, models.TICKET_STATUS_AGUARDANDO)
	case "released":
		q = q.Where("tickets.ticket_status = ?", models.TICKET_STATUS_LIBERADO)
	}

	var out []models.Ticket
	if err := q.Order("tickets.created_at desc, tickets.id desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

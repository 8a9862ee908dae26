package controllers

import (
	"net/http"

	dbpkg "dunar/db"
	"dunar/lifetimeprize"
	"dunar/models"
	"dunar/tickets"
	"dunar/tools"

	"github.com/gin-gonic/gin"
)

type CreateReservationRequest struct {
	Plate      string `json:"plate" form:"plate"`
	Passengers int    `json:"passengers" form:"passengers"`
	StartDate  string `json:"start_date" form:"start_date"`
	EndDate    string `json:"end_date" form:"end_date"`
	PlateRole  string `json:"plate_role" form:"plate_role"`
}

// POST /api/reservations (cliente autenticado)
//
// Cria a reserva e o ticket da data de entrada. O preço do ticket passa
// pelo cálculo do prêmio vitalício: placas dentro da cota diária saem de
// graça.
func CreateReservation(c *gin.Context) {
	user, ok := GetClientLogged(c)
	if !ok {
		RespondError(c, "não autenticado", http.StatusUnauthorized)
		return
	}

	var req CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Plate == "" || req.StartDate == "" || req.EndDate == "" {
		RespondError(c, "plate, start_date e end_date são obrigatórios", http.StatusBadRequest)
		return
	}
	startDate, err := parseUseDate(req.StartDate)
	if err != nil {
		RespondError(c, "start_date inválido", http.StatusBadRequest)
		return
	}
	endDate, err := parseUseDate(req.EndDate)
	if err != nil {
		RespondError(c, "end_date inválido", http.StatusBadRequest)
		return
	}
	if endDate.Before(startDate) {
		RespondError(c, "end_date anterior a start_date", http.StatusBadRequest)
		return
	}
	if req.Passengers < 0 || req.Passengers > models.MAX_PASSENGERS {
		RespondError(c, "quantidade de passageiros inválida", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	plate := tools.NormalizePlate(req.Plate)
	if plate == "" {
		RespondError(c, "placa inválida", http.StatusBadRequest)
		return
	}

	var vehicle models.Vehicle
	if err := db.Where("plate = ?", plate).First(&vehicle).Error; err != nil {
		plateRole := req.PlateRole
		if !models.IsValidPlateRole(plateRole) {
			plateRole = models.PLATE_ROLE_COMUM
		}
		vehicle = models.Vehicle{Plate: plate, PlateRole: plateRole, UserID: user.ID}
		if err := db.Create(&vehicle).Error; err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
	}

	reservation := models.Reservation{
		UserID:     user.ID,
		VehicleID:  vehicle.ID,
		Passengers: req.Passengers,
		StartDate:  startDate,
		EndDate:    endDate,
		Status:     models.RESERVATION_STATUS_PENDING,
	}
	if err := db.Create(&reservation).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	ticket, err := tickets.Create(db, tickets.CreateParams{
		Plate:         plate,
		Passengers:    req.Passengers,
		UseDate:       startDate,
		PlateRole:     vehicle.PlateRole,
		UserID:        user.ID,
		ReservationID: &reservation.ID,
	})
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"reservation": reservation, "ticket": ticket})
}

// GET /api/reservations (cliente autenticado; devolve só as próprias)
func GetReservations(c *gin.Context) {
	user, ok := GetClientLogged(c)
	if !ok {
		RespondError(c, "não autenticado", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var reservations []models.Reservation
	if err := db.Where("user_id = ?", user.ID).Order("created_at desc").Find(&reservations).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"reservations": reservations})
}

// GET /api/cliente/lifetime-prize-status
func GetLifetimePrizeStatus(c *gin.Context) {
	user, ok := GetClientLogged(c)
	if !ok {
		RespondError(c, "não autenticado", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	status, err := lifetimeprize.GetStatus(db, user.ID)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, status)
}

// GET /api/cliente/price-quote?count=N
//
// Pré-visualização do preço de um pedido com N placas usando o preço padrão
// de acesso e a cota do prêmio vitalício.
func GetPriceQuote(c *gin.Context) {
	user, ok := GetClientLogged(c)
	if !ok {
		RespondError(c, "não autenticado", http.StatusUnauthorized)
		return
	}

	count := queryInt(c, "count", 1)
	if count < 1 {
		RespondError(c, "count inválido", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	config, err := models.GetOrCreateSystemConfig(db, 0)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	quote, err := lifetimeprize.CalculatePrice(db, user.ID, config.NormalAccessPrice, count)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, quote)
}

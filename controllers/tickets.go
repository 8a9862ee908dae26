package controllers

import (
	"net/http"
	"time"

	dbpkg "dunar/db"
	"dunar/models"
	"dunar/tickets"

	"github.com/gin-gonic/gin"
)

type CreateTicketRequest struct {
	Plate         string `json:"plate" form:"plate"`
	Passengers    int    `json:"passengers" form:"passengers"`
	UseDate       string `json:"use_date" form:"use_date"` // RFC3339 ou YYYY-MM-DD
	PlateRole     string `json:"plate_role" form:"plate_role"`
	PaymentStatus string `json:"payment_status" form:"payment_status"`
	UserID        int64  `json:"user_id" form:"user_id"`
}

func parseUseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// POST /api/tickets
//
// Criação de ticket avulso (walk-in). PaymentStatus "Pago" só é aceito de
// chamadas administrativas (entrada paga no balcão).
func CreateTicket(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Plate == "" {
		RespondError(c, "plate é obrigatório", http.StatusBadRequest)
		return
	}
	if req.UseDate == "" {
		RespondError(c, "use_date é obrigatório", http.StatusBadRequest)
		return
	}
	useDate, err := parseUseDate(req.UseDate)
	if err != nil {
		RespondError(c, "use_date inválido", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	paymentStatus := req.PaymentStatus
	if paymentStatus == models.PAYMENT_STATUS_PAGO {
		// Walk-in pago no balcão: exige admin autenticado.
		if _, ok := GetAdminLogged(c); !ok {
			paymentStatus = models.PAYMENT_STATUS_PENDENTE
		}
	}

	ticket, err := tickets.Create(db, tickets.CreateParams{
		Plate:         req.Plate,
		Passengers:    req.Passengers,
		UseDate:       useDate,
		PlateRole:     req.PlateRole,
		PaymentStatus: paymentStatus,
		UserID:        req.UserID,
	})
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ticket": ticket})
}

// GET /api/tickets
func GetTickets(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var out []models.Ticket
	if err := db.Order("created_at desc, id desc").Limit(200).Find(&out).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"tickets": out})
}

// GET /api/tickets/:id
func GetTicketByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var ticket models.Ticket
	if err := db.First(&ticket, id).Error; err != nil {
		RespondError(c, "ticket não encontrado", http.StatusNotFound)
		return
	}
	RespondSuccess(c, gin.H{"ticket": ticket})
}

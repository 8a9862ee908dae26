package controllers

import (
	"errors"
	"net/http"

	dbpkg "dunar/db"
	"dunar/models"
	"dunar/notify"
	"dunar/tickets"

	"github.com/gin-gonic/gin"
)

// TicketView é o formato consumido pelo painel: ticket + veículo + dono.
type TicketView struct {
	models.Ticket
	Vehicle struct {
		Plate     string `json:"plate"`
		PlateRole string `json:"plate_role"`
		User      struct {
			Name     string `json:"name"`
			Document string `json:"document"`
			Phone    string `json:"phone"`
		} `json:"user"`
	} `json:"vehicle"`
}

func ticketView(c *gin.Context, ticket models.Ticket) (TicketView, error) {
	db := dbpkg.DBInstance(c)

	view := TicketView{Ticket: ticket}

	var vehicle models.Vehicle
	if err := db.First(&vehicle, ticket.VehicleID).Error; err != nil {
		return view, err
	}
	view.Vehicle.Plate = vehicle.Plate
	view.Vehicle.PlateRole = vehicle.PlateRole

	var user models.User
	if err := db.First(&user, vehicle.UserID).Error; err == nil {
		view.Vehicle.User.Name = user.Name
		view.Vehicle.User.Document = user.Document
		view.Vehicle.User.Phone = user.Phone
	}
	return view, nil
}

// GET /api/admin/tickets?placa=&status=
//
// status aceita o tri-state do painel: pending | paid | released.
func GetAdminTickets(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	filters := tickets.ListFilters{
		Plate:  c.Query("placa"),
		Status: c.Query("status"),
	}

	list, err := tickets.List(db, filters)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	views := make([]TicketView, 0, len(list))
	for _, t := range list {
		v, err := ticketView(c, t)
		if err != nil {
			continue
		}
		views = append(views, v)
	}

	RespondSuccess(c, gin.H{"tickets": views})
}

type TicketActionRequest struct {
	TicketID int64  `json:"ticketId" form:"ticketId"`
	Action   string `json:"action" form:"action"`
}

// PATCH /api/admin/tickets
//
// Ações: "liberar" (libera o acesso, exige pagamento confirmado ou ticket
// gratuito, no máximo uma liberação por ticket) e "solicitar_pagamento"
// (dispara a notificação; não muta o ticket).
func UpdateAdminTicket(c *gin.Context) {
	admin, ok := GetAdminLogged(c)
	if !ok {
		RespondError(c, "não autenticado", http.StatusUnauthorized)
		return
	}

	var req TicketActionRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.TicketID <= 0 {
		RespondError(c, "ID do ticket é obrigatório", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var message string

	switch req.Action {
	case "liberar":
		ticket, err := tickets.Release(db, req.TicketID, admin.ID)
		if err != nil {
			respondTicketError(c, err)
			return
		}
		models.Audit(db, models.AUDIT_TICKET_RELEASED, admin.ID, map[string]any{
			"ticketId":  ticket.ID,
			"vehicleId": ticket.VehicleID,
		})
		message = "Acesso liberado com sucesso!"

	case "solicitar_pagamento":
		if _, err := notify.Dispatch(db, req.TicketID, admin.ID); err != nil {
			respondTicketError(c, err)
			return
		}
		message = "Solicitação de pagamento enviada ao cliente!"

	default:
		RespondError(c, "Ação inválida", http.StatusBadRequest)
		return
	}

	var ticket models.Ticket
	if err := db.First(&ticket, req.TicketID).Error; err != nil {
		RespondError(c, "Erro ao buscar ticket atualizado", http.StatusInternalServerError)
		return
	}
	view, err := ticketView(c, ticket)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"message": message, "ticket": view})
}

// POST /api/admin/tickets/release
func ReleaseTicket(c *gin.Context) {
	admin, ok := GetAdminLogged(c)
	if !ok {
		RespondError(c, "não autenticado", http.StatusUnauthorized)
		return
	}

	var req TicketActionRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.TicketID <= 0 {
		RespondError(c, "ID do ticket não fornecido", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	ticket, err := tickets.Release(db, req.TicketID, admin.ID)
	if err != nil {
		respondTicketError(c, err)
		return
	}

	models.Audit(db, models.AUDIT_TICKET_RELEASED, admin.ID, map[string]any{
		"ticketId":  ticket.ID,
		"vehicleId": ticket.VehicleID,
	})

	RespondSuccess(c, gin.H{"ticket": ticket})
}

// POST /api/admin/tickets/notify
func NotifyTicket(c *gin.Context) {
	admin, ok := GetAdminLogged(c)
	if !ok {
		RespondError(c, "não autenticado", http.StatusUnauthorized)
		return
	}

	var req TicketActionRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.TicketID <= 0 {
		RespondError(c, "ID do ticket é obrigatório", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	sent, err := notify.Dispatch(db, req.TicketID, admin.ID)
	if err != nil {
		respondTicketError(c, err)
		return
	}

	RespondSuccess(c, gin.H{"notificationsSent": sent})
}

// respondTicketError traduz erros de guarda/domínio em respostas HTTP com
// mensagem exibível.
func respondTicketError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tickets.ErrNotFound):
		RespondError(c, "Ticket não encontrado", http.StatusNotFound)
	case errors.Is(err, tickets.ErrPaymentNotConfirmed):
		RespondError(c, "Pagamento não confirmado. Não é possível liberar acesso.", http.StatusBadRequest)
	case errors.Is(err, tickets.ErrAlreadyReleased):
		RespondError(c, "Acesso já liberado.", http.StatusBadRequest)
	case errors.Is(err, tickets.ErrPaymentNotPending):
		RespondError(c, "Pagamento não está pendente.", http.StatusBadRequest)
	case errors.Is(err, notify.ErrNoContactChannel):
		RespondError(c, "Nenhum meio de contato disponível (email ou telefone)", http.StatusBadRequest)
	default:
		RespondError(c, err.Error(), http.StatusInternalServerError)
	}
}

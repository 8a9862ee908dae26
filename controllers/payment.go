package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	dbpkg "dunar/db"
	"dunar/kv"
	"dunar/tickets"
	"dunar/tools"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreatePreferenceRequest struct {
	Title     string  `json:"title" form:"title"`
	Quantity  int     `json:"quantity" form:"quantity"`
	UnitPrice float64 `json:"unit_price" form:"unit_price"`
	TicketID  int64   `json:"ticket_id" form:"ticket_id"`
	UserID    int64   `json:"user_id" form:"user_id"`
	Plate     string  `json:"plate" form:"plate"`
	VisitDate string  `json:"visit_date" form:"visit_date"`
	Type      string  `json:"type" form:"type"` // "reservation" | "walk-in"
}

// POST /api/payment/create-preference
//
// Cria a preferência de checkout no Mercado Pago. A referência externa
// ("ticket-<id>-<nonce>") é o que o webhook usa para correlacionar o
// pagamento de volta ao ticket.
func CreatePaymentPreference(c *gin.Context) {
	var req CreatePreferenceRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Quantity <= 0 || req.UnitPrice <= 0 {
		RespondError(c, "Dados incompletos para criar pagamento", http.StatusBadRequest)
		return
	}
	if req.Type != "" && req.Type != "reservation" && req.Type != "walk-in" {
		RespondError(c, "Tipo de acesso inválido", http.StatusBadRequest)
		return
	}
	if req.TicketID <= 0 {
		RespondError(c, "ticket_id é obrigatório", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	// Só faz sentido cobrar ticket pendente.
	if _, err := tickets.GetForPaymentRequest(db, req.TicketID); err != nil {
		respondTicketError(c, err)
		return
	}

	nonce := uuid.New().String()
	pref := tools.PreferenceRequest{
		Items: []tools.PreferenceItem{{
			ID:         fmt.Sprintf("ticket-%d", req.TicketID),
			Title:      req.Title,
			Quantity:   req.Quantity,
			UnitPrice:  req.UnitPrice,
			CurrencyID: "BRL",
		}},
		ExternalReference: tickets.ExternalReference(req.TicketID, nonce),
		AutoReturn:        "approved",
		StatementDescr:    "DUNAR NEXGEN",
		Metadata: map[string]any{
			"ticket_id":   req.TicketID,
			"user_id":     req.UserID,
			"plate":       req.Plate,
			"visit_date":  req.VisitDate,
			"access_type": accessType(req.Type),
		},
	}
	if base := tools.AppBaseURL(); base != "" {
		pref.BackURLs = map[string]string{
			"success": base + "/cliente/resultado-pagamento?status=success",
			"failure": base + "/cliente/resultado-pagamento?status=failure",
			"pending": base + "/cliente/resultado-pagamento?status=pending",
		}
		pref.NotificationURL = base + "/api/payment/webhook"
	}

	resp, err := tools.CreatePreference(c.Request.Context(), pref)
	if err != nil {
		log.Printf("payment: erro ao criar preferência: %v", err)
		RespondError(c, "Erro ao criar preferência de pagamento", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{
		"id":                 resp.ID,
		"init_point":         resp.InitPoint,
		"sandbox_init_point": resp.SandboxInitPoint,
	})
}

func accessType(t string) string {
	if t == "" {
		return "reservation"
	}
	return t
}

type WebhookNotification struct {
	Type string `json:"type"`
	Data struct {
		ID any `json:"id"`
	} `json:"data"`
	ExternalReference string `json:"external_reference"`
}

// POST /api/payment/webhook
//
// Entrega at-least-once: a resposta é sempre 200 para o gateway não
// reenfileirar indefinidamente, e repetições são neutralizadas pelo dedup
// (redis, quando configurado) e pelo UPDATE condicional do MarkPaid.
func PaymentWebhook(c *gin.Context) {
	var body WebhookNotification
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	log.Printf("payment: webhook recebido type=%s external_reference=%s", body.Type, body.ExternalReference)

	if body.Type != "payment" {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	paymentID := fmt.Sprintf("%v", body.Data.ID)
	if paymentID == "" || paymentID == "<nil>" {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	dedupKey := "mp:payment:" + paymentID
	if kv.Seen(context.Background(), dedupKey) {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	ticketID, ok := tickets.ParseExternalReference(body.ExternalReference)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	// A marca de dedup só entra depois da confirmação persistida: se o
	// MarkPaid falhar, a reentrega do gateway ainda encontra o caminho limpo.
	if err := tickets.MarkPaid(db, ticketID, paymentID, "mercadopago"); err != nil {
		log.Printf("payment: erro ao confirmar pagamento do ticket %d: %v", ticketID, err)
	} else {
		kv.Mark(context.Background(), dedupKey, 24*time.Hour)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// GET /api/payment/webhook
//
// O Mercado Pago faz GET para validar a URL.
func PaymentWebhookPing(c *gin.Context) {
	RespondSuccess(c, gin.H{"status": "ok"})
}

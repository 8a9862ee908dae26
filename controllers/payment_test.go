package controllers

import (
	"net/http"
	"testing"
	"time"

	dbpkg "dunar/db"
	"dunar/models"
	"dunar/tickets"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

func paymentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.DB().SetMaxOpenConns(1)
	db.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.Ticket{},
		&models.Cooperative{},
		&models.Event{},
		&models.SystemConfig{},
	)
	t.Cleanup(func() { db.Close() })
	return db
}

func webhookRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(dbpkg.SetDBtoContext(db))
	r.POST("/api/payment/webhook", PaymentWebhook)
	return r
}

func webhookBody(paymentID any, externalRef string) gin.H {
	return gin.H{
		"type":               "payment",
		"data":               gin.H{"id": paymentID},
		"external_reference": externalRef,
	}
}

func TestPaymentWebhookConfirmsTicket(t *testing.T) {
	db := paymentTestDB(t)
	r := webhookRouter(db)

	ticket, err := tickets.Create(db, tickets.CreateParams{
		Plate:      "WEB1234",
		Passengers: 1,
		UseDate:    time.Now().AddDate(0, 0, 1),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	ref := tickets.ExternalReference(ticket.ID, "n0nce")
	w := postJSON(t, r, "/api/payment/webhook", webhookBody(111222, ref))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var reloaded models.Ticket
	if err := db.First(&reloaded, ticket.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.PaymentStatus != models.PAYMENT_STATUS_PAGO {
		t.Errorf("PaymentStatus = %q, want %q", reloaded.PaymentStatus, models.PAYMENT_STATUS_PAGO)
	}
	if reloaded.PaymentID != "111222" {
		t.Errorf("PaymentID = %q, want 111222", reloaded.PaymentID)
	}
	if reloaded.PaymentMethod != "mercadopago" {
		t.Errorf("PaymentMethod = %q", reloaded.PaymentMethod)
	}
}

// Entrega at-least-once: uma notificação cujo processamento falhou não pode
// ficar marcada como processada — a reentrega do gateway precisa confirmar.
func TestPaymentWebhookRetryAfterFailureConfirms(t *testing.T) {
	db := paymentTestDB(t)
	r := webhookRouter(db)

	// primeira entrega chega antes do ticket existir (MarkPaid falha)
	ref := tickets.ExternalReference(999, "retry")
	w := postJSON(t, r, "/api/payment/webhook", webhookBody(333444, ref))
	if w.Code != http.StatusOK {
		t.Fatalf("primeira entrega: status = %d, want 200", w.Code)
	}

	ticket, err := tickets.Create(db, tickets.CreateParams{
		Plate:      "WEB5678",
		Passengers: 1,
		UseDate:    time.Now().AddDate(0, 0, 1),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// reentrega do mesmo payment id, agora com referência resolvível
	ref = tickets.ExternalReference(ticket.ID, "retry")
	w = postJSON(t, r, "/api/payment/webhook", webhookBody(333444, ref))
	if w.Code != http.StatusOK {
		t.Fatalf("reentrega: status = %d, want 200", w.Code)
	}

	var reloaded models.Ticket
	if err := db.First(&reloaded, ticket.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.PaymentStatus != models.PAYMENT_STATUS_PAGO {
		t.Errorf("PaymentStatus = %q, reentrega deveria confirmar", reloaded.PaymentStatus)
	}
}

func TestPaymentWebhookIgnoresOtherTypes(t *testing.T) {
	db := paymentTestDB(t)
	r := webhookRouter(db)

	ticket, err := tickets.Create(db, tickets.CreateParams{
		Plate:      "WEB9999",
		Passengers: 1,
		UseDate:    time.Now().AddDate(0, 0, 1),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	body := gin.H{
		"type":               "merchant_order",
		"data":               gin.H{"id": 555},
		"external_reference": tickets.ExternalReference(ticket.ID, ""),
	}
	w := postJSON(t, r, "/api/payment/webhook", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var reloaded models.Ticket
	if err := db.First(&reloaded, ticket.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.PaymentStatus != models.PAYMENT_STATUS_PENDENTE {
		t.Errorf("PaymentStatus = %q, notificação de outro tipo não pode confirmar", reloaded.PaymentStatus)
	}
}

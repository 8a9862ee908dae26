// Package notify faz o fan-out best-effort do aviso de "pagamento pendente"
// para os canais de contato conhecidos do cliente (email e SMS).
package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"dunar/kv"
	"dunar/models"
	"dunar/tickets"
	"dunar/tools"

	"github.com/jinzhu/gorm"
)

var ErrNoContactChannel = errors.New("nenhum meio de contato disponível (email ou telefone)")

// Janela mínima entre dois avisos para o mesmo ticket (trava no redis,
// best-effort: sem redis o aviso sempre sai).
var throttleWindow = 15 * time.Minute

// SetThrottleWindow ajusta a janela no boot a partir da configuração.
func SetThrottleWindow(d time.Duration) {
	if d > 0 {
		throttleWindow = d
	}
}

// Dispatch envia o aviso de pagamento pendente do ticket para o dono do
// veículo. Cada canal disponível é tentado de forma independente; falha de
// entrega em um canal não bloqueia o outro nem falha a operação. A operação
// só falha se o pagamento não estiver pendente ou se o dono não tiver canal
// nenhum (sem email e sem telefone). Toda tentativa é auditada.
func Dispatch(db *gorm.DB, ticketID, adminID int64) ([]string, error) {
	ticket, err := tickets.GetForPaymentRequest(db, ticketID)
	if err != nil {
		return nil, err
	}

	var vehicle models.Vehicle
	if err := db.First(&vehicle, ticket.VehicleID).Error; err != nil {
		return nil, err
	}
	var user models.User
	if err := db.First(&user, vehicle.UserID).Error; err != nil {
		return nil, err
	}

	if user.Email == "" && user.Phone == "" {
		models.Audit(db, models.AUDIT_PAYMENT_NOTIFICATION_SENT, adminID, map[string]any{
			"ticketId":          ticket.ID,
			"userId":            user.ID,
			"vehiclePlate":      vehicle.Plate,
			"notificationsSent": []string{},
		})
		return nil, ErrNoContactChannel
	}

	key := fmt.Sprintf("notify:ticket:%d", ticket.ID)
	if !kv.SetNX(context.Background(), key, throttleWindow) {
		log.Printf("notify: ticket %d avisado há pouco, pulando reenvio", ticket.ID)
		return []string{}, nil
	}

	price := 0.0
	if ticket.Price != nil {
		price = *ticket.Price
	}

	sent := make([]string, 0, 2)

	if user.Email != "" {
		subject := "Pagamento Pendente - Dunar"
		body := fmt.Sprintf("Olá %s, você tem um pagamento pendente de R$ %.2f para a placa %s.",
			user.Name, price, vehicle.Plate)
		if err := tools.SendEmail(user.Email, subject, body); err != nil {
			log.Printf("notify: erro ao enviar email para ticket %d: %v", ticket.ID, err)
		} else {
			sent = append(sent, "email")
		}
	}

	if user.Phone != "" {
		msg := fmt.Sprintf("Dunar: Pagamento pendente de R$ %.2f para a placa %s. Acesse o app para pagar.",
			price, vehicle.Plate)
		if err := tools.SendSMS(user.Phone, msg); err != nil {
			log.Printf("notify: erro ao enviar SMS para ticket %d: %v", ticket.ID, err)
		} else {
			sent = append(sent, "sms")
		}
	}

	models.Audit(db, models.AUDIT_PAYMENT_NOTIFICATION_SENT, adminID, map[string]any{
		"ticketId":          ticket.ID,
		"userId":            user.ID,
		"vehiclePlate":      vehicle.Plate,
		"notificationsSent": sent,
	})

	// Entrega é best-effort: canal que existia mas falhou não derruba a ação
	// do admin. ErrNoContactChannel fica reservado para cadastro sem canal.
	return sent, nil
}

package models

import (
	"encoding/json"
	"log"
	"time"

	"github.com/jinzhu/gorm"
)

/************************************************
/**** MARK: AUDIT ACTIONS ****/
/************************************************/
const AUDIT_TICKET_RELEASED = "TICKET_RELEASED"
const AUDIT_PAYMENT_NOTIFICATION_SENT = "PAYMENT_NOTIFICATION_SENT"
const AUDIT_CONFIG_UPDATED = "CONFIG_UPDATED"
const AUDIT_ADMIN_CREATED = "ADMIN_CREATED"
const AUDIT_ADMIN_DELETED = "ADMIN_DELETED"

// AuditLog registra ações administrativas relevantes. Details é um objeto
// JSON livre (ticket, placa, canais usados etc).
type AuditLog struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Action    string     `gorm:"not null;index" json:"action"`
	AdminID   int64      `gorm:"not null;default:0;index" json:"admin_id"`
	Details   string     `gorm:"type:text" json:"details"`
	CreatedAt *time.Time `json:"created_at"`
}

// Audit grava uma entrada de auditoria. Falha de auditoria nunca derruba a
// ação principal: o erro é apenas logado.
func Audit(db *gorm.DB, action string, adminID int64, details map[string]any) {
	b, err := json.Marshal(details)
	if err != nil {
		log.Printf("audit: marshal error: %v", err)
		b = []byte("{}")
	}
	entry := AuditLog{Action: action, AdminID: adminID, Details: string(b)}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("audit: persist error: %v", err)
	}
}

package models

import "time"

/************************************************
/**** MARK: PAYMENT STATUS ****/
/************************************************/
const PAYMENT_STATUS_PENDENTE = "Pendente"
const PAYMENT_STATUS_PAGO = "Pago"

/************************************************
/**** MARK: TICKET STATUS ****/
/************************************************/
const TICKET_STATUS_AGUARDANDO = "Aguardando Liberação"
const TICKET_STATUS_LIBERADO = "Liberado"
const TICKET_STATUS_EXPIRADO = "Expirado"

const MAX_PASSENGERS = 7

// Ticket representa um evento de entrada (autorizado ou pendente) de um
// veículo em uma data de uso.
//
// Ciclo de vida: nasce {Pendente, Aguardando Liberação}; o webhook de
// pagamento muda Pendente->Pago; a liberação pelo admin muda o ticket para
// Liberado (terminal) carimbando released_by/released_at; tickets não usados
// cujo dia de uso já passou são varridos para Expirado.
type Ticket struct {
	ID            int64     `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	VehicleID     int64     `gorm:"not null;index" json:"vehicle_id"`
	ReservationID *int64    `gorm:"index" json:"reservation_id"`
	Passengers    int       `gorm:"not null;default:0" json:"passengers" form:"passengers"`
	UseDate       time.Time `gorm:"not null;index" json:"use_date"`

	Price  *float64 `json:"price"`
	IsFree bool     `gorm:"not null;default:false" json:"is_free"`

	PaymentStatus string `gorm:"not null;default:'Pendente';index" json:"payment_status"`
	TicketStatus  string `gorm:"not null;default:'Aguardando Liberação';index" json:"ticket_status"`

	// Preenchidos pelo webhook do gateway.
	PaymentID     string `gorm:"default:''" json:"payment_id"`
	PaymentMethod string `gorm:"default:''" json:"payment_method"`

	// Preenchidos na liberação do acesso.
	ReleasedBy *int64     `json:"released_by"`
	ReleasedAt *time.Time `json:"released_at"`

	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

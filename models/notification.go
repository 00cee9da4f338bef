package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Direct notification states.
const (
	NotificationSent = "ENVIADA"
	NotificationRead = "LEIDA"
)

// DirectNotification is an in-app message addressed to one resident,
// usually triggered by a billing event. Context carries the payload that a
// push transport would attach (invoice period, amounts, etc).
type DirectNotification struct {
	Id         string   `json:"id" gorm:"primaryKey"`
	ResidentId string   `json:"residente" gorm:"not null;index"`
	Resident   Resident `json:"-" gorm:"foreignKey:ResidentId;references:Id"`

	Title   string `json:"titulo" gorm:"not null"`
	Message string `json:"mensaje"`
	Status  string `json:"estado" gorm:"size:12;default:ENVIADA"`

	InvoiceId *string `json:"factura" gorm:"index"`
	PaymentId *string `json:"pago" gorm:"index"`
	SentById  *string `json:"-" gorm:"index"`

	Context datatypes.JSON `json:"context,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"creado_en"`
	UpdatedAt time.Time `json:"actualizado_en"`
}

func (n *DirectNotification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.Id == "" {
		n.Id = uuid.NewString()
	}
	return
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Line item types.
const (
	LineItemRecurringCharge = "expensa"
	LineItemFine            = "multa"
)

// InvoiceTypeRecurring tags invoices produced by the monthly generator.
const InvoiceTypeRecurring = "expensa"

// Invoice is a monthly bill for a unit. One invoice exists per
// (unit, period, type); the generator relies on that to stay idempotent.
type Invoice struct {
	Id     string `json:"id" gorm:"primaryKey"`
	UnitId string `json:"vivienda" gorm:"not null;index:idx_invoice_unit_period_type,unique,priority:1"`
	Unit   Unit   `json:"-" gorm:"foreignKey:UnitId;references:Id"`

	Period string          `json:"periodo" gorm:"size:7;not null;index:idx_invoice_unit_period_type,unique,priority:2"`
	Type   string          `json:"tipo" gorm:"size:20;default:expensa;index:idx_invoice_unit_period_type,unique,priority:3"`
	Amount decimal.Decimal `json:"monto" gorm:"type:numeric(10,2)"`

	// Status spelling is normalized at the edges; legacy rows may carry
	// variant spellings (PAGADO/PAGADA/...).
	Status string `json:"estado" gorm:"size:15;default:PENDIENTE"`

	IssuedAt time.Time  `json:"fecha_emision" gorm:"autoCreateTime"`
	DueDate  *time.Time `json:"fecha_vencimiento"`
	PaidAt   *time.Time `json:"fecha_pago"`

	Items []InvoiceLineItem `json:"detalles,omitempty" gorm:"foreignKey:InvoiceId;constraint:OnDelete:CASCADE"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.Id == "" {
		i.Id = uuid.NewString()
	}
	return
}

type InvoiceLineItem struct {
	Id                string          `json:"id" gorm:"primaryKey"`
	InvoiceId         string          `json:"-" gorm:"not null;index"`
	Description       string          `json:"descripcion"`
	Type              string          `json:"tipo" gorm:"size:10"`
	Amount            decimal.Decimal `json:"monto" gorm:"type:numeric(10,2)"`
	FineApplicationId *string         `json:"multa_aplicada_id" gorm:"index"`
}

func (li *InvoiceLineItem) BeforeCreate(tx *gorm.DB) (err error) {
	if li.Id == "" {
		li.Id = uuid.NewString()
	}
	return
}

// Payment records money received against an invoice. Resident-submitted
// payments start in REVISION and are resolved by staff; staff-recorded
// payments are CONFIRMADO immediately.
type Payment struct {
	Id        string  `json:"id" gorm:"primaryKey"`
	InvoiceId string  `json:"factura" gorm:"not null;index:idx_payment_invoice_paid_at,priority:1"`
	Invoice   Invoice `json:"-" gorm:"foreignKey:InvoiceId;references:Id;constraint:OnDelete:CASCADE"`

	Method    string          `json:"metodo" gorm:"size:20"`
	Amount    decimal.Decimal `json:"monto_pagado" gorm:"type:numeric(10,2)"`
	PaidAt    time.Time       `json:"fecha_pago" gorm:"autoCreateTime;index:idx_payment_invoice_paid_at,priority:2"`
	Status    string          `json:"estado" gorm:"size:20;default:PENDIENTE"`
	Reference string          `json:"referencia_externa"`
	Comment   string          `json:"comentario"`

	RecordedById *string `json:"-" gorm:"index"`
	RecordedBy   *User   `json:"-" gorm:"foreignKey:RecordedById;references:Id"`

	CreatedAt time.Time `json:"creado_en"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.Id == "" {
		p.Id = uuid.NewString()
	}
	return
}

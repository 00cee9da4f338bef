package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Recurring-charge periodicities.
const (
	PeriodicityMonthly   = "mensual"
	PeriodicityQuarterly = "trimestral"
	PeriodicityAnnual    = "anual"
)

// RecurringChargeConfig is the base fee configured per building block.
// At most one config may exist per (building, block) pair.
type RecurringChargeConfig struct {
	Id          string          `json:"id" gorm:"primaryKey"`
	BuildingId  string          `json:"condominio_id" gorm:"not null;index:idx_charge_config_building_block,unique,priority:1"`
	Building    Building        `json:"-" gorm:"foreignKey:BuildingId;references:Id"`
	Block       string          `json:"bloque" gorm:"size:10;index:idx_charge_config_building_block,unique,priority:2"`
	Amount      decimal.Decimal `json:"monto" gorm:"type:numeric(10,2)"`
	Periodicity string          `json:"periodicidad" gorm:"size:12;default:mensual"`
	Active      bool            `json:"activa" gorm:"default:true"`
	CreatedAt   time.Time       `json:"creado_en"`
	UpdatedAt   time.Time       `json:"actualizado_en"`
}

func (c *RecurringChargeConfig) BeforeCreate(tx *gorm.DB) (err error) {
	if c.Id == "" {
		c.Id = uuid.NewString()
	}
	return
}

// FineType is a catalog entry for penalties (name, default amount).
type FineType struct {
	Id          string          `json:"id" gorm:"primaryKey"`
	Name        string          `json:"nombre" gorm:"not null;unique"`
	Description string          `json:"descripcion"`
	Amount      decimal.Decimal `json:"monto" gorm:"type:numeric(10,2)"`
	Active      bool            `json:"activo" gorm:"default:true"`
	CreatedAt   time.Time       `json:"creado_en"`
	UpdatedAt   time.Time       `json:"actualizado_en"`
}

func (f *FineType) BeforeCreate(tx *gorm.DB) (err error) {
	if f.Id == "" {
		f.Id = uuid.NewString()
	}
	return
}

// FineApplication is a fine applied to a unit. It stays pending until the
// invoice generator bills it; once InvoiceId is set the fine is immutable and
// excluded from later runs. Deleting the invoice clears the link (SET NULL)
// but does not make the fine billable again: BilledPeriod keeps its value.
type FineApplication struct {
	Id           string          `json:"id" gorm:"primaryKey"`
	UnitId       string          `json:"vivienda_id" gorm:"not null;index"`
	Unit         Unit            `json:"-" gorm:"foreignKey:UnitId;references:Id"`
	FineTypeId   string          `json:"multa_config_id" gorm:"not null;index"`
	FineType     FineType        `json:"-" gorm:"foreignKey:FineTypeId;references:Id"`
	Description  string          `json:"descripcion"`
	Amount       decimal.Decimal `json:"monto" gorm:"type:numeric(10,2)"`
	AppliedAt    time.Time       `json:"fecha_aplicacion" gorm:"autoCreateTime"`
	InvoiceId    *string         `json:"factura_id" gorm:"index;constraint:OnDelete:SET NULL"`
	BilledPeriod *string         `json:"periodo_facturado" gorm:"size:7"`
}

func (f *FineApplication) BeforeCreate(tx *gorm.DB) (err error) {
	if f.Id == "" {
		f.Id = uuid.NewString()
	}
	return
}

// Billed reports whether the fine has been included in an invoice.
func (f *FineApplication) Billed() bool {
	return f.InvoiceId != nil || f.BilledPeriod != nil
}

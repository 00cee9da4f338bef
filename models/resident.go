package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Resident struct {
	Id        string    `json:"id" gorm:"primaryKey"`
	Document  string    `json:"ci" gorm:"uniqueIndex"`
	Names     string    `json:"nombres" gorm:"not null"`
	Surnames  string    `json:"apellidos" gorm:"not null"`
	UserId    *string   `json:"-" gorm:"index"`
	Active    bool      `json:"activo" gorm:"default:true"`
	CreatedAt time.Time `json:"creado_en"`
}

func (r *Resident) BeforeCreate(tx *gorm.DB) (err error) {
	if r.Id == "" {
		r.Id = uuid.NewString()
	}
	return
}

// FullName joins names and surnames the way the mobile app displays them.
func (r *Resident) FullName() string {
	return strings.TrimSpace(r.Names + " " + r.Surnames)
}

// Occupancy links a resident to a unit for a date range.
// The link is active while EndDate is NULL.
type Occupancy struct {
	Id         string     `json:"id" gorm:"primaryKey"`
	ResidentId string     `json:"residente_id" gorm:"not null;index:idx_occupancy_res_unit_from,unique,priority:1"`
	Resident   Resident   `json:"-" gorm:"foreignKey:ResidentId;references:Id"`
	UnitId     string     `json:"vivienda_id" gorm:"not null;index;index:idx_occupancy_res_unit_from,unique,priority:2"`
	Unit       Unit       `json:"-" gorm:"foreignKey:UnitId;references:Id"`
	StartDate  time.Time  `json:"fecha_desde" gorm:"not null;index:idx_occupancy_res_unit_from,unique,priority:3"`
	EndDate    *time.Time `json:"fecha_hasta"`
}

func (o *Occupancy) BeforeCreate(tx *gorm.DB) (err error) {
	if o.Id == "" {
		o.Id = uuid.NewString()
	}
	return
}

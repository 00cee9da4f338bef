package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Building struct {
	Id        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"nombre" gorm:"not null;unique"`
	Address   string    `json:"direccion"`
	CreatedAt time.Time `json:"creado_en"`
}

func (b *Building) BeforeCreate(tx *gorm.DB) (err error) {
	if b.Id == "" {
		b.Id = uuid.NewString()
	}
	return
}

// Unit is a dwelling inside a building; the billing target.
type Unit struct {
	Id         string   `json:"id" gorm:"primaryKey"`
	BuildingId string   `json:"condominio_id" gorm:"not null;index"`
	Building   Building `json:"-" gorm:"foreignKey:BuildingId;references:Id"`
	Code       string   `json:"codigo_unidad" gorm:"not null;uniqueIndex"`
	Block      string   `json:"bloque"`
	Number     string   `json:"numero"`
	Active     bool     `json:"activa" gorm:"default:true"`

	CreatedAt time.Time `json:"creado_en"`
}

func (u *Unit) BeforeCreate(tx *gorm.DB) (err error) {
	if u.Id == "" {
		u.Id = uuid.NewString()
	}
	return
}

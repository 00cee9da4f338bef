package models

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleAdmin    = "admin"
	RoleResident = "residente"
)

type User struct {
	Id         string  `json:"id" gorm:"primaryKey"`
	FirstName  string  `json:"first_name" gorm:"not null"`
	LastName   string  `json:"last_name" gorm:"not null"`
	Password   []byte  `json:"-" gorm:"not null"`
	Email      string  `json:"email" gorm:"unique;not null"`
	Role       string  `json:"role" gorm:"size:20;default:residente"`
	ResidentId *string `json:"residente_id" gorm:"index"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if user.Id == "" {
		user.Id = uuid.NewString()
	}
	return
}

func (user *User) SetPassword(password string) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), 12)
	user.Password = hashedPassword
}

func (user *User) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword(user.Password, []byte(password))
}

func (user *User) IsAdmin() bool {
	return user.Role == RoleAdmin
}

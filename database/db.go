package database

import (
	"fmt"
	"log"
	"os"

	"condominio-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}

	host := os.Getenv("DB_HOST")
	if host == "" {
		host = "db"
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=5432 sslmode=disable",
		host, os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"))
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		fmt.Println(err)
		panic("Could not connect to database")
	}
}

// Models returns every persisted entity, in dependency order. Shared with
// the test helpers so sqlite fixtures migrate the same schema.
func Models() []any {
	return []any{
		&models.Building{},
		&models.Unit{},
		&models.Resident{},
		&models.Occupancy{},
		&models.User{},
		&models.RecurringChargeConfig{},
		&models.FineType{},
		&models.FineApplication{},
		&models.Invoice{},
		&models.InvoiceLineItem{},
		&models.Payment{},
		&models.DirectNotification{},
		&models.IdempotencyKey{},
	}
}

func AutoMigrate() {
	if err := DB.AutoMigrate(Models()...); err != nil {
		panic(err)
	}
	if err := EnsureSchema(DB); err != nil {
		panic(err)
	}
}

// FromCtx returns the DB handle for a request: the per-request transaction
// when middlewares.Tx opened one, otherwise the shared connection.
func FromCtx(c *fiber.Ctx) *gorm.DB {
	if v := c.Locals("tx"); v != nil {
		if tx, ok := v.(*gorm.DB); ok && tx != nil {
			return tx
		}
	}
	return DB
}

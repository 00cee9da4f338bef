package controllers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"condominio-backend/database"
	"condominio-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupControllerDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

func TestListFineApplicationsOnlyBillable(t *testing.T) {
	db := setupControllerDB(t)

	building := models.Building{Name: "Los Pinos"}
	require.NoError(t, db.Create(&building).Error)
	unit := models.Unit{BuildingId: building.Id, Code: "A-101", Block: "A", Active: true}
	require.NoError(t, db.Create(&unit).Error)
	fineType := models.FineType{Name: "Ruidos molestos", Amount: decimal.NewFromInt(150), Active: true}
	require.NoError(t, db.Create(&fineType).Error)

	pending := models.FineApplication{
		UnitId: unit.Id, FineTypeId: fineType.Id, Amount: decimal.NewFromInt(150),
	}
	require.NoError(t, db.Create(&pending).Error)

	invoice := models.Invoice{
		UnitId: unit.Id, Period: "2025-03", Type: models.InvoiceTypeRecurring,
		Amount: decimal.NewFromInt(80), Status: "PENDIENTE",
	}
	require.NoError(t, db.Create(&invoice).Error)
	march := "2025-03"
	billed := models.FineApplication{
		UnitId: unit.Id, FineTypeId: fineType.Id, Amount: decimal.NewFromInt(80),
		InvoiceId: &invoice.Id, BilledPeriod: &march,
	}
	require.NoError(t, db.Create(&billed).Error)

	// Invoice deleted afterwards: the link was cleared but the billed period
	// stays, so the generator will never pick this fine up again.
	february := "2025-02"
	orphan := models.FineApplication{
		UnitId: unit.Id, FineTypeId: fineType.Id, Amount: decimal.NewFromInt(60),
		BilledPeriod: &february,
	}
	require.NoError(t, db.Create(&orphan).Error)

	app := fiber.New()
	app.Get("/multas/", ListFineApplications)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/multas/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 1)
	assert.Equal(t, pending.Id, out[0]["id"])
}

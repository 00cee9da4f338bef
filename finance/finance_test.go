package finance

import (
	"testing"
	"time"

	"condominio-backend/database"
	"condominio-backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_loc=auto"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedBuilding(t *testing.T, db *gorm.DB) models.Building {
	t.Helper()
	building := models.Building{Name: "Los Pinos"}
	require.NoError(t, db.Create(&building).Error)
	return building
}

func seedUnit(t *testing.T, db *gorm.DB, buildingID, code, block string) models.Unit {
	t.Helper()
	unit := models.Unit{BuildingId: buildingID, Code: code, Block: block, Active: true}
	require.NoError(t, db.Create(&unit).Error)
	return unit
}

// seedOccupant creates a resident with a login and an active occupancy of the
// unit. Returns the resident; the linked user id is *resident.UserId.
func seedOccupant(t *testing.T, db *gorm.DB, unitID, document, names string) models.Resident {
	t.Helper()
	user := models.User{
		FirstName: names,
		LastName:  "Test",
		Email:     document + "@test.local",
		Role:      models.RoleResident,
	}
	user.SetPassword("secret123")
	require.NoError(t, db.Create(&user).Error)

	resident := models.Resident{
		Document: document,
		Names:    names,
		Surnames: "Quispe",
		UserId:   &user.Id,
		Active:   true,
	}
	require.NoError(t, db.Create(&resident).Error)
	require.NoError(t, db.Model(&user).Update("resident_id", resident.Id).Error)

	occ := models.Occupancy{
		ResidentId: resident.Id,
		UnitId:     unitID,
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local),
	}
	require.NoError(t, db.Create(&occ).Error)
	return resident
}

func seedChargeConfig(t *testing.T, db *gorm.DB, buildingID, block, amount string) models.RecurringChargeConfig {
	t.Helper()
	cfg := models.RecurringChargeConfig{
		BuildingId:  buildingID,
		Block:       block,
		Amount:      dec(amount),
		Periodicity: models.PeriodicityMonthly,
		Active:      true,
	}
	require.NoError(t, db.Create(&cfg).Error)
	return cfg
}

func seedFine(t *testing.T, db *gorm.DB, unitID, name, amount string) models.FineApplication {
	t.Helper()
	fineType := models.FineType{Name: name, Amount: dec(amount), Active: true}
	require.NoError(t, db.Create(&fineType).Error)
	fine := models.FineApplication{
		UnitId:     unitID,
		FineTypeId: fineType.Id,
		Amount:     dec(amount),
	}
	require.NoError(t, db.Create(&fine).Error)
	return fine
}

func seedInvoice(t *testing.T, db *gorm.DB, unitID, period, amount, status string, due time.Time) models.Invoice {
	t.Helper()
	invoice := models.Invoice{
		UnitId:  unitID,
		Period:  period,
		Type:    models.InvoiceTypeRecurring,
		Amount:  dec(amount),
		Status:  status,
		DueDate: &due,
	}
	require.NoError(t, db.Create(&invoice).Error)
	return invoice
}

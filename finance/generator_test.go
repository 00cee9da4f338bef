package finance

import (
	"testing"
	"time"

	"condominio-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInvoicesChargePlusFine(t *testing.T) {
	db := setupTestDB(t)
	building := seedBuilding(t, db)
	unit := seedUnit(t, db, building.Id, "A-101", "A")
	seedOccupant(t, db, unit.Id, "1234567", "Maria")
	seedChargeConfig(t, db, building.Id, "A", "300.00")
	fine := seedFine(t, db, unit.Id, "Ruidos molestos", "150.00")

	summary, err := GenerateInvoices(db, "2025-03")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 0, summary.Updated)

	var invoice models.Invoice
	require.NoError(t, db.Where("unit_id = ?", unit.Id).First(&invoice).Error)
	assert.Equal(t, "2025-03", invoice.Period)
	assert.Equal(t, InvoicePending, invoice.Status)
	assert.Equal(t, "450.00", invoice.Amount.StringFixed(2))
	require.NotNil(t, invoice.DueDate)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.Local), *invoice.DueDate)

	var items []models.InvoiceLineItem
	require.NoError(t, db.Where("invoice_id = ?", invoice.Id).Order("type").Find(&items).Error)
	require.Len(t, items, 2)
	assert.Equal(t, models.LineItemRecurringCharge, items[0].Type)
	assert.Equal(t, "300.00", items[0].Amount.StringFixed(2))
	assert.Equal(t, models.LineItemFine, items[1].Type)
	assert.Equal(t, "150.00", items[1].Amount.StringFixed(2))

	require.NoError(t, db.First(&fine, "id = ?", fine.Id).Error)
	require.NotNil(t, fine.InvoiceId)
	assert.Equal(t, invoice.Id, *fine.InvoiceId)
	require.NotNil(t, fine.BilledPeriod)
	assert.Equal(t, "2025-03", *fine.BilledPeriod)
}

func TestGenerateInvoicesRerunIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	building := seedBuilding(t, db)
	unit := seedUnit(t, db, building.Id, "A-101", "A")
	seedOccupant(t, db, unit.Id, "1234567", "Maria")
	seedChargeConfig(t, db, building.Id, "A", "300.00")
	seedFine(t, db, unit.Id, "Ruidos molestos", "150.00")

	_, err := GenerateInvoices(db, "2025-03")
	require.NoError(t, err)

	// Nothing changed between runs, so the rerun must not rewrite anything.
	summary, err := GenerateInvoices(db, "2025-03")
	require.NoError(t, err)
	assert.Equal(t, GenerationSummary{Unchanged: 1}, summary)

	var invoiceCount int64
	db.Model(&models.Invoice{}).Count(&invoiceCount)
	assert.EqualValues(t, 1, invoiceCount)

	var invoice models.Invoice
	require.NoError(t, db.Where("unit_id = ?", unit.Id).First(&invoice).Error)
	assert.Equal(t, "450.00", invoice.Amount.StringFixed(2))

	var itemCount int64
	db.Model(&models.InvoiceLineItem{}).Where("invoice_id = ?", invoice.Id).Count(&itemCount)
	assert.EqualValues(t, 2, itemCount)
}

func TestGenerateInvoicesRerunPicksUpNewFine(t *testing.T) {
	db := setupTestDB(t)
	building := seedBuilding(t, db)
	unit := seedUnit(t, db, building.Id, "A-101", "A")
	seedOccupant(t, db, unit.Id, "1234567", "Maria")
	seedChargeConfig(t, db, building.Id, "A", "300.00")

	_, err := GenerateInvoices(db, "2025-03")
	require.NoError(t, err)

	seedFine(t, db, unit.Id, "Ruidos molestos", "150.00")

	summary, err := GenerateInvoices(db, "2025-03")
	require.NoError(t, err)
	assert.Equal(t, GenerationSummary{Updated: 1}, summary)

	var invoice models.Invoice
	require.NoError(t, db.Where("unit_id = ?", unit.Id).First(&invoice).Error)
	assert.Equal(t, "450.00", invoice.Amount.StringFixed(2))

	var itemCount int64
	db.Model(&models.InvoiceLineItem{}).Where("invoice_id = ?", invoice.Id).Count(&itemCount)
	assert.EqualValues(t, 2, itemCount)
}

func TestGenerateInvoicesLeavesSettledAlone(t *testing.T) {
	db := setupTestDB(t)
	building := seedBuilding(t, db)
	unit := seedUnit(t, db, building.Id, "A-101", "A")
	seedOccupant(t, db, unit.Id, "1234567", "Maria")
	seedChargeConfig(t, db, building.Id, "A", "300.00")

	_, err := GenerateInvoices(db, "2025-03")
	require.NoError(t, err)

	var invoice models.Invoice
	require.NoError(t, db.Where("unit_id = ?", unit.Id).First(&invoice).Error)
	require.NoError(t, db.Model(&invoice).Update("status", InvoicePaid).Error)

	// A late fine must not reopen a settled invoice.
	fine := seedFine(t, db, unit.Id, "Mascota sin correa", "80.00")

	summary, err := GenerateInvoices(db, "2025-03")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Unchanged)
	assert.Equal(t, 0, summary.Updated)

	require.NoError(t, db.First(&invoice, "id = ?", invoice.Id).Error)
	assert.Equal(t, "300.00", invoice.Amount.StringFixed(2))

	require.NoError(t, db.First(&fine, "id = ?", fine.Id).Error)
	assert.Nil(t, fine.InvoiceId)
	assert.Nil(t, fine.BilledPeriod)
}

func TestGenerateInvoicesSkipsVacantAndInactiveUnits(t *testing.T) {
	db := setupTestDB(t)
	building := seedBuilding(t, db)
	seedChargeConfig(t, db, building.Id, "A", "300.00")

	// Vacant: active unit, nobody living there.
	seedUnit(t, db, building.Id, "A-101", "A")

	// Inactive unit with an occupant.
	inactive := seedUnit(t, db, building.Id, "A-102", "A")
	seedOccupant(t, db, inactive.Id, "7654321", "Jorge")
	require.NoError(t, db.Model(&inactive).Update("active", false).Error)

	summary, err := GenerateInvoices(db, "2025-03")
	require.NoError(t, err)
	assert.Equal(t, GenerationSummary{}, summary)

	var count int64
	db.Model(&models.Invoice{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestGenerateInvoicesFineOnlyUnit(t *testing.T) {
	db := setupTestDB(t)
	building := seedBuilding(t, db)
	unit := seedUnit(t, db, building.Id, "B-201", "B")
	seedOccupant(t, db, unit.Id, "1112223", "Lucia")
	// No charge config for block B.
	seedFine(t, db, unit.Id, "Parqueo indebido", "90.00")

	summary, err := GenerateInvoices(db, "2025-03")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)

	var invoice models.Invoice
	require.NoError(t, db.Where("unit_id = ?", unit.Id).First(&invoice).Error)
	assert.Equal(t, "90.00", invoice.Amount.StringFixed(2))

	var items []models.InvoiceLineItem
	require.NoError(t, db.Where("invoice_id = ?", invoice.Id).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, models.LineItemFine, items[0].Type)
}

func TestGenerateInvoicesNothingToBill(t *testing.T) {
	db := setupTestDB(t)
	building := seedBuilding(t, db)
	unit := seedUnit(t, db, building.Id, "C-301", "C")
	seedOccupant(t, db, unit.Id, "9998887", "Pedro")

	summary, err := GenerateInvoices(db, "2025-03")
	require.NoError(t, err)
	assert.Equal(t, GenerationSummary{Unchanged: 1}, summary)
}

func TestGenerateInvoicesInvalidPeriod(t *testing.T) {
	db := setupTestDB(t)
	for _, period := range []string{"", "2025-13", "2025-00", "202503", "marzo"} {
		_, err := GenerateInvoices(db, period)
		assert.ErrorIs(t, err, ErrInvalidPeriod, "period %q", period)
	}
}

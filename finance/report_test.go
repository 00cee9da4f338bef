package finance

import (
	"testing"
	"time"

	"condominio-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedPayment(t *testing.T, db *gorm.DB, invoiceID, amount, status string, paidAt time.Time) {
	t.Helper()
	payment := models.Payment{
		InvoiceId: invoiceID,
		Method:    "efectivo",
		Amount:    dec(amount),
		PaidAt:    paidAt,
		Status:    status,
	}
	require.NoError(t, db.Create(&payment).Error)
}

func TestAdminSummary(t *testing.T) {
	db := setupTestDB(t)
	building := seedBuilding(t, db)
	unitA := seedUnit(t, db, building.Id, "A-101", "A")
	unitB := seedUnit(t, db, building.Id, "A-102", "A")
	today := time.Date(2025, 3, 15, 10, 0, 0, 0, time.Local)

	open := seedInvoice(t, db, unitA.Id, "2025-03", "1500.00", InvoicePending,
		time.Date(2025, 3, 31, 0, 0, 0, 0, time.Local))
	paid := seedInvoice(t, db, unitB.Id, "2025-03", "800.00", "PAGADO",
		time.Date(2025, 3, 31, 0, 0, 0, 0, time.Local))
	overdue := seedInvoice(t, db, unitA.Id, "2025-02", "700.00", "pendiente",
		time.Date(2025, 2, 28, 0, 0, 0, 0, time.Local))

	seedPayment(t, db, paid.Id, "800.00", PaymentConfirmed, time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local))
	seedPayment(t, db, overdue.Id, "200.00", "APROBADO", time.Date(2025, 2, 5, 9, 0, 0, 0, time.Local))
	seedPayment(t, db, open.Id, "100.00", PaymentRejected, time.Date(2025, 3, 12, 9, 0, 0, 0, time.Local))

	data, err := AdminSummary(db, today)
	require.NoError(t, err)

	assert.Equal(t, "2300.00", data.IncomeMonth) // only period 2025-03 invoices
	assert.Equal(t, "800.00", data.CollectedMonth)
	assert.Equal(t, "1500.00", data.PendingMonth)
	assert.Equal(t, "700.00", data.OverdueTotal) // Feb invoice past due; Mar not due yet

	require.Len(t, data.MonthlyIncome, 7)
	assert.Equal(t, "2024-09", data.MonthlyIncome[0].Period)
	assert.Equal(t, "2025-03", data.MonthlyIncome[6].Period)
	assert.Equal(t, "mar", data.MonthlyIncome[6].Label)
	assert.Equal(t, "800.00", data.MonthlyIncome[6].Total)
	assert.Equal(t, "feb", data.MonthlyIncome[5].Label)
	assert.Equal(t, "200.00", data.MonthlyIncome[5].Total)
	assert.Equal(t, "0.00", data.MonthlyIncome[0].Total)

	assert.EqualValues(t, 3, data.Invoices.TotalIssued)
	assert.EqualValues(t, 1, data.Invoices.TotalPaid)
	assert.InDelta(t, 33.33, data.Invoices.PercentPaid, 0.001)
}

func TestAdminSummaryEmptyDatabase(t *testing.T) {
	db := setupTestDB(t)

	data, err := AdminSummary(db, time.Date(2025, 3, 15, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)

	assert.Equal(t, "0.00", data.IncomeMonth)
	assert.Equal(t, "0.00", data.CollectedMonth)
	assert.Equal(t, "0.00", data.PendingMonth)
	assert.Equal(t, "0.00", data.OverdueTotal)
	assert.Len(t, data.MonthlyIncome, 7)
	assert.EqualValues(t, 0, data.Invoices.TotalIssued)
	assert.Zero(t, data.Invoices.PercentPaid)
}

func TestResidentSummary(t *testing.T) {
	db := setupTestDB(t)
	building := seedBuilding(t, db)
	unit := seedUnit(t, db, building.Id, "A-101", "A")

	january := seedInvoice(t, db, unit.Id, "2025-01", "100.00", InvoicePending,
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.Local))
	seedInvoice(t, db, unit.Id, "2025-02", "200.00", InvoicePending,
		time.Date(2025, 2, 28, 0, 0, 0, 0, time.Local))
	seedInvoice(t, db, unit.Id, "2024-12", "300.00", InvoicePaid,
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.Local))

	data, err := ResidentSummary(db, &unit)
	require.NoError(t, err)

	assert.Equal(t, unit.Id, data.UnitId)
	assert.Equal(t, "A-101", data.UnitCode)
	assert.Equal(t, "300.00", data.TotalPending)
	assert.Equal(t, 2, data.PendingCount)
	require.NotNil(t, data.OldestInvoice)
	assert.Equal(t, january.Id, data.OldestInvoice.Id)
	require.Len(t, data.PendingInvoices, 2)
}

func TestResidentSummaryNoDebt(t *testing.T) {
	db := setupTestDB(t)
	building := seedBuilding(t, db)
	unit := seedUnit(t, db, building.Id, "A-101", "A")
	seedInvoice(t, db, unit.Id, "2024-12", "300.00", InvoicePaid,
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.Local))

	data, err := ResidentSummary(db, &unit)
	require.NoError(t, err)
	assert.Equal(t, "0.00", data.TotalPending)
	assert.Zero(t, data.PendingCount)
	assert.Nil(t, data.OldestInvoice)
	assert.Empty(t, data.PendingInvoices)
}

package finance

import (
	"time"

	"condominio-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MonthlyIncome is one entry of the dashboard trend series.
type MonthlyIncome struct {
	Period string `json:"periodo"`
	Label  string `json:"label"`
	Total  string `json:"total"`
}

// InvoiceStats summarizes issued vs settled invoices.
type InvoiceStats struct {
	TotalIssued int64   `json:"total_emitidas"`
	TotalPaid   int64   `json:"total_pagadas"`
	PercentPaid float64 `json:"porcentaje_pagadas"`
}

// AdminSummaryData is the admin dashboard payload. All monetary values are
// fixed two-decimal strings.
type AdminSummaryData struct {
	IncomeMonth    string          `json:"ingresos_mes"`
	CollectedMonth string          `json:"pagado_mes"`
	PendingMonth   string          `json:"pendiente_mes"`
	OverdueTotal   string          `json:"morosidad_total"`
	MonthlyIncome  []MonthlyIncome `json:"ingresos_mensuales"`
	Invoices       InvoiceStats    `json:"facturas"`
}

func money(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

func sumAmounts(rows []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range rows {
		total = total.Add(amount)
	}
	return total
}

// confirmedPaymentsByPeriod buckets confirmed-payment amounts by the calendar
// month of their payment date. Confirmation is matched case-insensitively
// against all accepted spellings, so legacy rows still count.
func confirmedPaymentsByPeriod(db *gorm.DB) (map[Period]decimal.Decimal, error) {
	var payments []models.Payment
	if err := db.Find(&payments).Error; err != nil {
		return nil, err
	}
	buckets := make(map[Period]decimal.Decimal)
	for _, payment := range payments {
		if !PaymentIsConfirmed(payment.Status) {
			continue
		}
		key := PeriodOf(payment.PaidAt)
		buckets[key] = buckets[key].Add(payment.Amount)
	}
	return buckets, nil
}

// AdminSummary computes the admin financial dashboard as of today: billed
// and collected totals for the current month, overdue debt, a 7-month
// collection series, and invoice settlement stats. Read-only; each query
// sees its own snapshot.
func AdminSummary(db *gorm.DB, today time.Time) (AdminSummaryData, error) {
	current := PeriodOf(today)

	var billed []decimal.Decimal
	err := db.Model(&models.Invoice{}).
		Where("period = ?", current.String()).
		Pluck("amount", &billed).Error
	if err != nil {
		return AdminSummaryData{}, err
	}
	incomeMonth := sumAmounts(billed)

	buckets, err := confirmedPaymentsByPeriod(db)
	if err != nil {
		return AdminSummaryData{}, err
	}
	collectedMonth := buckets[current]

	pendingMonth := incomeMonth.Sub(collectedMonth)
	if pendingMonth.IsNegative() {
		pendingMonth = decimal.Zero
	}

	dayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	var overdue []decimal.Decimal
	err = db.Model(&models.Invoice{}).
		Where("upper(status) = ? AND due_date < ?", InvoicePending, dayStart).
		Pluck("amount", &overdue).Error
	if err != nil {
		return AdminSummaryData{}, err
	}

	series := make([]MonthlyIncome, 0, 7)
	for _, p := range LastPeriods(current, 7) {
		series = append(series, MonthlyIncome{
			Period: p.String(),
			Label:  p.ShortLabel(),
			Total:  money(buckets[p]),
		})
	}

	stats, err := invoiceStats(db)
	if err != nil {
		return AdminSummaryData{}, err
	}

	return AdminSummaryData{
		IncomeMonth:    money(incomeMonth),
		CollectedMonth: money(collectedMonth),
		PendingMonth:   money(pendingMonth),
		OverdueTotal:   money(sumAmounts(overdue)),
		MonthlyIncome:  series,
		Invoices:       stats,
	}, nil
}

func invoiceStats(db *gorm.DB) (InvoiceStats, error) {
	var stats InvoiceStats
	if err := db.Model(&models.Invoice{}).Count(&stats.TotalIssued).Error; err != nil {
		return stats, err
	}
	var statuses []string
	if err := db.Model(&models.Invoice{}).Pluck("status", &statuses).Error; err != nil {
		return stats, err
	}
	for _, status := range statuses {
		if InvoiceSettled(status) {
			stats.TotalPaid++
		}
	}
	if stats.TotalIssued > 0 {
		pct := decimal.NewFromInt(stats.TotalPaid * 100).
			Div(decimal.NewFromInt(stats.TotalIssued)).
			Round(2)
		stats.PercentPaid, _ = pct.Float64()
	}
	return stats, nil
}

// ResidentSummaryData is the resident's pending-invoice dashboard.
type ResidentSummaryData struct {
	UnitId          string           `json:"vivienda_id"`
	UnitCode        string           `json:"vivienda_codigo"`
	TotalPending    string           `json:"total_pendiente"`
	PendingCount    int              `json:"cantidad_pendiente"`
	OldestInvoice   *models.Invoice  `json:"factura_mas_antigua"`
	PendingInvoices []models.Invoice `json:"facturas_pendientes"`
}

// ResidentSummary aggregates a unit's pending invoices: outstanding total,
// count, the oldest unpaid invoice, and the full pending list newest first.
func ResidentSummary(db *gorm.DB, unit *models.Unit) (ResidentSummaryData, error) {
	var pending []models.Invoice
	err := db.Where("unit_id = ? AND upper(status) = ?", unit.Id, InvoicePending).
		Order("issued_at DESC").
		Find(&pending).Error
	if err != nil {
		return ResidentSummaryData{}, err
	}

	total := decimal.Zero
	for _, invoice := range pending {
		total = total.Add(invoice.Amount)
	}

	var oldest *models.Invoice
	var oldestRows []models.Invoice
	err = db.Where("unit_id = ? AND upper(status) = ?", unit.Id, InvoicePending).
		Order("due_date ASC, issued_at ASC, period ASC").
		Limit(1).
		Find(&oldestRows).Error
	if err != nil {
		return ResidentSummaryData{}, err
	}
	if len(oldestRows) > 0 {
		oldest = &oldestRows[0]
	}

	return ResidentSummaryData{
		UnitId:          unit.Id,
		UnitCode:        unit.Code,
		TotalPending:    money(total),
		PendingCount:    len(pending),
		OldestInvoice:   oldest,
		PendingInvoices: pending,
	}, nil
}

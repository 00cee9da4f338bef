package controllers

import (
	"strings"
	"time"

	"condominio-backend/database"
	"condominio-backend/finance"
	"condominio-backend/models"
	"condominio-backend/notify"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// AdminFinanceSummary returns the financial dashboard: billed/collected
// totals for the month, overdue debt, the 7-month trend and invoice stats.
func AdminFinanceSummary(c *fiber.Ctx) error {
	data, err := finance.AdminSummary(database.FromCtx(c), time.Now())
	if err != nil {
		return err
	}
	return c.JSON(data)
}

// AdminListInvoices lists invoices with the staff filters: periodo, estado,
// tipo, vivienda (unit code), residente (name), and free-text search.
func AdminListInvoices(c *fiber.Ctx) error {
	db := database.FromCtx(c)

	q := db.Model(&models.Invoice{})
	if periodo := strings.TrimSpace(c.Query("periodo")); periodo != "" {
		q = q.Where("period = ?", periodo)
	}
	if estado := strings.TrimSpace(c.Query("estado")); estado != "" {
		q = q.Where("upper(status) = ?", finance.NormalizeStatus(estado))
	}
	if tipo := strings.TrimSpace(c.Query("tipo")); tipo != "" {
		q = q.Where("type = ?", tipo)
	}

	var invoices []models.Invoice
	if err := q.Order("due_date DESC, issued_at DESC").Find(&invoices).Error; err != nil {
		return err
	}

	unitFilter := strings.ToUpper(strings.TrimSpace(c.Query("vivienda")))
	residentFilter := strings.ToLower(strings.TrimSpace(c.Query("residente")))
	search := strings.ToLower(strings.TrimSpace(c.Query("search")))

	out := make([]fiber.Map, 0, len(invoices))
	for i := range invoices {
		invoice := &invoices[i]

		var unit models.Unit
		if err := db.Preload("Building").Where("id = ?", invoice.UnitId).First(&unit).Error; err != nil {
			continue
		}
		if unitFilter != "" && !strings.Contains(strings.ToUpper(unit.Code), unitFilter) {
			continue
		}

		row := adminInvoiceJSON(db, invoice, &unit, &unit.Building)

		if residentFilter != "" || search != "" {
			names, _ := row["residentes"].([]string)
			joined := strings.ToLower(strings.Join(names, ", "))
			if residentFilter != "" && !strings.Contains(joined, residentFilter) {
				continue
			}
			if search != "" &&
				!strings.Contains(joined, search) &&
				!strings.Contains(strings.ToLower(unit.Code), search) &&
				!strings.Contains(strings.ToLower(invoice.Period), search) {
				continue
			}
		}
		out = append(out, row)
	}
	return c.JSON(out)
}

// AdminInvoiceDetail returns one invoice with its line items and payments.
func AdminInvoiceDetail(c *fiber.Ctx) error {
	db := database.FromCtx(c)

	var invoice models.Invoice
	if err := db.Where("id = ?", c.Params("id")).First(&invoice).Error; err != nil {
		return financeError(c, finance.ErrNotFound)
	}
	var unit models.Unit
	if err := db.Preload("Building").Where("id = ?", invoice.UnitId).First(&unit).Error; err != nil {
		return err
	}

	var items []models.InvoiceLineItem
	if err := db.Where("invoice_id = ?", invoice.Id).Order("type, id").Find(&items).Error; err != nil {
		return err
	}
	var payments []models.Payment
	if err := db.Where("invoice_id = ?", invoice.Id).Order("paid_at DESC").Find(&payments).Error; err != nil {
		return err
	}

	detalles := make([]fiber.Map, 0, len(items))
	for i := range items {
		detalles = append(detalles, lineItemJSON(&items[i]))
	}
	pagos := make([]fiber.Map, 0, len(payments))
	for i := range payments {
		pagos = append(pagos, paymentJSON(db, &payments[i], &invoice))
	}

	return c.JSON(fiber.Map{
		"factura":  adminInvoiceJSON(db, &invoice, &unit, &unit.Building),
		"detalles": detalles,
		"pagos":    pagos,
	})
}

type manualPaymentDTO struct {
	Amount    *decimal.Decimal `json:"monto_pagado"`
	Method    string           `json:"metodo"`
	Reference string           `json:"referencia"`
	Comment   string           `json:"comentario"`
	PaidAt    string           `json:"fecha_pago"` // YYYY-MM-DD, defaults today
}

// RegisterManualPayment records a staff payment against an invoice; the
// payment is confirmed immediately and the invoice settles.
func RegisterManualPayment(c *fiber.Ctx) error {
	db := database.FromCtx(c)
	userID, _ := c.Locals("userID").(string)

	var dto manualPaymentDTO
	if err := c.BodyParser(&dto); err != nil && len(c.Body()) > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	in := finance.ManualPaymentInput{
		Amount:    dto.Amount,
		Method:    dto.Method,
		Reference: dto.Reference,
		Comment:   dto.Comment,
	}
	if dto.PaidAt != "" {
		paidAt, err := time.ParseInLocation("2006-01-02", dto.PaidAt, time.Local)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "fecha_pago debe tener formato YYYY-MM-DD"})
		}
		in.PaidAt = &paidAt
	}

	var recordedBy *string
	if userID != "" {
		recordedBy = &userID
	}

	invoice, _, err := finance.RecordManualPayment(db, c.Params("id"), in, recordedBy)
	if err != nil {
		return financeError(c, err)
	}

	var unit models.Unit
	_ = db.Where("id = ?", invoice.UnitId).First(&unit).Error

	var payments []models.Payment
	if err := db.Where("invoice_id = ?", invoice.Id).Order("paid_at DESC").Find(&payments).Error; err != nil {
		return err
	}
	pagos := make([]fiber.Map, 0, len(payments))
	for i := range payments {
		pagos = append(pagos, paymentJSON(db, &payments[i], invoice))
	}

	return c.JSON(fiber.Map{
		"factura": invoiceJSON(invoice, &unit),
		"pagos":   pagos,
	})
}

type resolvePaymentDTO struct {
	Action  string `json:"accion" validate:"required"`
	Comment string `json:"comentario"`
}

// ResolveReviewPayment applies a staff decision (aprobar/rechazar) to a
// payment under review.
func ResolveReviewPayment(c *fiber.Ctx) error {
	db := database.FromCtx(c)
	userID, _ := c.Locals("userID").(string)

	var dto resolvePaymentDTO
	if err := c.BodyParser(&dto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var resolvedBy *string
	if userID != "" {
		resolvedBy = &userID
	}

	invoice, payment, err := finance.ResolveReviewPayment(
		db, notifier, c.Params("id"), c.Params("pago_id"), dto.Action, dto.Comment, resolvedBy)
	if err != nil {
		return financeError(c, err)
	}

	var unit models.Unit
	_ = db.Where("id = ?", invoice.UnitId).First(&unit).Error

	return c.JSON(fiber.Map{
		"factura": invoiceJSON(invoice, &unit),
		"pago":    paymentJSON(db, payment, invoice),
	})
}

type generateInvoicesDTO struct {
	Period string `json:"periodo"`
}

// GenerateInvoices runs the monthly billing batch. Defaults to the current
// period when none is given.
func GenerateInvoices(c *fiber.Ctx) error {
	db := database.FromCtx(c)

	var dto generateInvoicesDTO
	if err := c.BodyParser(&dto); err != nil && len(c.Body()) > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	period := strings.TrimSpace(dto.Period)
	if period == "" {
		period = finance.CurrentPeriod().String()
	}

	summary, err := finance.GenerateInvoices(db, period)
	if err != nil {
		return financeError(c, err)
	}

	return c.JSON(fiber.Map{
		"periodo":      period,
		"creadas":      summary.Created,
		"actualizadas": summary.Updated,
		"sin_cambios":  summary.Unchanged,
	})
}

type directNotificationDTO struct {
	ResidentId string `json:"residente" validate:"required"`
	Title      string `json:"titulo" validate:"required"`
	Message    string `json:"mensaje"`
}

// CreateDirectNotification lets staff send a one-off notification to a
// resident.
func CreateDirectNotification(c *fiber.Ctx) error {
	db := database.FromCtx(c)
	userID, _ := c.Locals("userID").(string)

	var dto directNotificationDTO
	if err := c.BodyParser(&dto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if dto.ResidentId == "" || dto.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "residente y titulo son obligatorios"})
	}

	var resident models.Resident
	if err := db.Where("id = ?", dto.ResidentId).First(&resident).Error; err != nil {
		return financeError(c, finance.ErrNotFound)
	}

	var sentBy *string
	if userID != "" {
		sentBy = &userID
	}
	err := notifier.Notify(db, notify.Event{
		ResidentId: resident.Id,
		Title:      dto.Title,
		Message:    dto.Message,
		SentById:   sentBy,
	})
	if err != nil {
		return err
	}

	var created models.DirectNotification
	if err := db.Where("resident_id = ?", resident.Id).Order("created_at DESC").First(&created).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

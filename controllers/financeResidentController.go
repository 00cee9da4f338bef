package controllers

import (
	"strings"

	"condominio-backend/database"
	"condominio-backend/finance"
	"condominio-backend/models"
	"condominio-backend/notify"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// notifier is constructed in main and injected before routes are served.
var notifier = notify.NewService(nil)

// SetNotifier wires the notification service used by the payment flows.
func SetNotifier(s *notify.Service) {
	if s != nil {
		notifier = s
	}
}

// ResidentFinanceSummary returns the caller's pending-invoice dashboard.
func ResidentFinanceSummary(c *fiber.Ctx) error {
	db := database.FromCtx(c)
	userID, _ := c.Locals("userID").(string)

	unit, _, err := finance.CurrentUnitForUser(db, userID)
	if err != nil {
		return financeError(c, err)
	}

	data, err := finance.ResidentSummary(db, unit)
	if err != nil {
		return err
	}

	pending := make([]fiber.Map, 0, len(data.PendingInvoices))
	for i := range data.PendingInvoices {
		pending = append(pending, invoiceJSON(&data.PendingInvoices[i], unit))
	}
	var oldest any
	if data.OldestInvoice != nil {
		oldest = invoiceJSON(data.OldestInvoice, unit)
	}

	return c.JSON(fiber.Map{
		"vivienda_id":         data.UnitId,
		"vivienda_codigo":     data.UnitCode,
		"total_pendiente":     data.TotalPending,
		"cantidad_pendiente":  data.PendingCount,
		"factura_mas_antigua": oldest,
		"facturas_pendientes": pending,
	})
}

// ListResidentInvoices lists the caller's invoices, optionally filtered by
// estado (case-insensitive).
func ListResidentInvoices(c *fiber.Ctx) error {
	db := database.FromCtx(c)
	userID, _ := c.Locals("userID").(string)

	unit, _, err := finance.CurrentUnitForUser(db, userID)
	if err != nil {
		return financeError(c, err)
	}

	q := db.Where("unit_id = ?", unit.Id)
	if estado := strings.TrimSpace(c.Query("estado")); estado != "" {
		q = q.Where("upper(status) = ?", finance.NormalizeStatus(estado))
	}

	var invoices []models.Invoice
	if err := q.Order("due_date DESC, issued_at DESC, period DESC").Find(&invoices).Error; err != nil {
		return err
	}

	out := make([]fiber.Map, 0, len(invoices))
	for i := range invoices {
		out = append(out, invoiceJSON(&invoices[i], unit))
	}
	return c.JSON(out)
}

// ResidentInvoiceDetail returns one of the caller's invoices with its
// payment history. Invoices of other units 404.
func ResidentInvoiceDetail(c *fiber.Ctx) error {
	db := database.FromCtx(c)
	userID, _ := c.Locals("userID").(string)

	unit, _, err := finance.CurrentUnitForUser(db, userID)
	if err != nil {
		return financeError(c, err)
	}

	var invoice models.Invoice
	err = db.Where("id = ? AND unit_id = ?", c.Params("id"), unit.Id).First(&invoice).Error
	if err != nil {
		return financeError(c, finance.ErrNotFound)
	}

	var payments []models.Payment
	if err := db.Where("invoice_id = ?", invoice.Id).Order("paid_at DESC").Find(&payments).Error; err != nil {
		return err
	}

	pagos := make([]fiber.Map, 0, len(payments))
	for i := range payments {
		pagos = append(pagos, paymentJSON(db, &payments[i], &invoice))
	}

	return c.JSON(fiber.Map{
		"factura": invoiceJSON(&invoice, unit),
		"pagos":   pagos,
	})
}

type selfReportPaymentDTO struct {
	Amount  *decimal.Decimal `json:"monto_pagado"`
	Comment string           `json:"comentario"`
}

// ConfirmInvoicePayment registers a resident-reported payment. The claim
// enters review; staff confirm or reject it later.
func ConfirmInvoicePayment(c *fiber.Ctx) error {
	db := database.FromCtx(c)
	userID, _ := c.Locals("userID").(string)

	var dto selfReportPaymentDTO
	if err := c.BodyParser(&dto); err != nil && len(c.Body()) > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	payment, err := finance.SelfReportPayment(db, notifier, c.Params("id"), userID, dto.Amount, dto.Comment)
	if err != nil {
		return financeError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"detail": "Pago registrado; queda pendiente de revisión.",
		"pago":   paymentJSON(db, payment, nil),
	})
}

// ListMyNotifications returns the caller's direct notifications, newest
// first.
func ListMyNotifications(c *fiber.Ctx) error {
	db := database.FromCtx(c)
	residentID, _ := c.Locals("residentID").(string)
	if residentID == "" {
		return financeError(c, finance.ErrNoActiveUnit)
	}

	var notifications []models.DirectNotification
	err := db.Where("resident_id = ?", residentID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return err
	}
	return c.JSON(notifications)
}

// MarkNotificationRead flips one of the caller's notifications to LEIDA.
func MarkNotificationRead(c *fiber.Ctx) error {
	db := database.FromCtx(c)
	residentID, _ := c.Locals("residentID").(string)
	if residentID == "" {
		return financeError(c, finance.ErrNoActiveUnit)
	}
	if err := notify.MarkRead(db, c.Params("id"), residentID); err != nil {
		return financeError(c, finance.ErrNotFound)
	}
	return c.JSON(fiber.Map{"detail": "notificación marcada como leída"})
}

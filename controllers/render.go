package controllers

import (
	"errors"
	"time"

	"condominio-backend/finance"
	"condominio-backend/models"
	"condominio-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// financeError maps the finance error taxonomy onto HTTP statuses. Anything
// outside the taxonomy bubbles up to the central error handler as a 500.
func financeError(c *fiber.Ctx, err error) error {
	var code int
	switch {
	case errors.Is(err, finance.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, finance.ErrAlreadyUnderReview),
		errors.Is(err, finance.ErrAlreadyProcessed):
		code = fiber.StatusConflict
	case errors.Is(err, finance.ErrInvalidPeriod),
		errors.Is(err, finance.ErrInvalidAmount),
		errors.Is(err, finance.ErrInvalidAction),
		errors.Is(err, finance.ErrAlreadyPaid),
		errors.Is(err, finance.ErrNoActiveUnit):
		code = fiber.StatusBadRequest
	default:
		return err
	}
	return c.Status(code).JSON(fiber.Map{"detail": err.Error()})
}

func fmtDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}

func invoiceJSON(invoice *models.Invoice, unit *models.Unit) fiber.Map {
	out := fiber.Map{
		"id":                invoice.Id,
		"vivienda":          invoice.UnitId,
		"periodo":           invoice.Period,
		"monto":             utils.Money(invoice.Amount),
		"tipo":              invoice.Type,
		"estado":            invoice.Status,
		"fecha_emision":     invoice.IssuedAt.Format("2006-01-02"),
		"fecha_vencimiento": fmtDate(invoice.DueDate),
		"fecha_pago":        fmtDate(invoice.PaidAt),
	}
	if unit != nil {
		out["vivienda_codigo"] = unit.Code
	}
	return out
}

// adminInvoiceJSON is invoiceJSON plus the block/building/residents columns
// the staff list view shows.
func adminInvoiceJSON(db *gorm.DB, invoice *models.Invoice, unit *models.Unit, building *models.Building) fiber.Map {
	out := invoiceJSON(invoice, unit)
	if unit != nil {
		out["vivienda_bloque"] = unit.Block
	}
	if building != nil {
		out["condominio_nombre"] = building.Name
	}
	names, err := finance.ActiveResidentNames(db, invoice.UnitId)
	if err == nil {
		out["residentes"] = names
	}
	return out
}

func lineItemJSON(item *models.InvoiceLineItem) fiber.Map {
	return fiber.Map{
		"id":          item.Id,
		"descripcion": item.Description,
		"tipo":        item.Type,
		"monto":       utils.Money(item.Amount),
	}
}

func paymentJSON(db *gorm.DB, payment *models.Payment, invoice *models.Invoice) fiber.Map {
	out := fiber.Map{
		"id":                 payment.Id,
		"factura":            payment.InvoiceId,
		"metodo":             payment.Method,
		"monto_pagado":       utils.Money(payment.Amount),
		"fecha_pago":         payment.PaidAt.Format(time.RFC3339),
		"estado":             payment.Status,
		"referencia_externa": payment.Reference,
		"comentario":         payment.Comment,
		"registrado_por":     recordedByName(db, payment, invoice),
	}
	if invoice != nil {
		out["factura_periodo"] = invoice.Period
	}
	return out
}

// recordedByName shows who submitted a payment: the recording user's name,
// falling back to the unit's current resident.
func recordedByName(db *gorm.DB, payment *models.Payment, invoice *models.Invoice) any {
	if payment.RecordedById != nil {
		var user models.User
		if err := db.Where("id = ?", *payment.RecordedById).First(&user).Error; err == nil {
			return user.FirstName + " " + user.LastName
		}
	}
	if invoice != nil {
		residents, err := finance.ActiveResidents(db, invoice.UnitId)
		if err == nil && len(residents) > 0 {
			return residents[0].FullName()
		}
	}
	return nil
}

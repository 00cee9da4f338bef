package finance

import (
	"errors"
	"fmt"
	"time"

	"condominio-backend/models"
	"condominio-backend/notify"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ManualPaymentInput is the staff payment-entry form. Zero values fall back
// to sensible defaults: the invoice total, cash, today.
type ManualPaymentInput struct {
	Amount    *decimal.Decimal
	Method    string
	Reference string
	Comment   string
	PaidAt    *time.Time
}

func loadInvoice(tx *gorm.DB, invoiceID string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := tx.Where("id = ?", invoiceID).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func resolveAmount(requested *decimal.Decimal, invoice *models.Invoice) (decimal.Decimal, error) {
	amount := invoice.Amount
	if requested != nil {
		amount = *requested
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return amount, nil
}

// RecordManualPayment registers a staff-entered payment: the payment is
// confirmed on the spot and the invoice becomes PAGADA, all in one
// transaction. Settled invoices are rejected with ErrAlreadyPaid.
func RecordManualPayment(db *gorm.DB, invoiceID string, in ManualPaymentInput, recordedBy *string) (*models.Invoice, *models.Payment, error) {
	var (
		invoice *models.Invoice
		payment models.Payment
	)
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		invoice, err = loadInvoice(tx, invoiceID)
		if err != nil {
			return err
		}
		if InvoiceSettled(invoice.Status) {
			return ErrAlreadyPaid
		}

		amount, err := resolveAmount(in.Amount, invoice)
		if err != nil {
			return err
		}

		method := in.Method
		if method == "" {
			method = "efectivo"
		}
		paidAt := time.Now()
		if in.PaidAt != nil {
			paidAt = *in.PaidAt
		}

		payment = models.Payment{
			InvoiceId:    invoice.Id,
			Method:       method,
			Amount:       amount,
			PaidAt:       paidAt,
			Status:       PaymentConfirmed,
			Reference:    in.Reference,
			Comment:      in.Comment,
			RecordedById: recordedBy,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		paidDate := paidAt
		updates := map[string]any{
			"status":  InvoicePaid,
			"paid_at": paidDate,
		}
		if err := tx.Model(invoice).Updates(updates).Error; err != nil {
			return err
		}
		invoice.Status = InvoicePaid
		invoice.PaidAt = &paidDate
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return invoice, &payment, nil
}

// SelfReportPayment registers a resident-submitted payment claim. The
// payment enters REVISION, the invoice follows it there, and the resident is
// notified that staff will verify the claim. The invoice must belong to the
// caller's current unit.
//
// At most one payment may sit in REVISION per invoice; a second attempt
// fails with ErrAlreadyUnderReview and creates nothing.
func SelfReportPayment(db *gorm.DB, notifier *notify.Service, invoiceID, userID string, requested *decimal.Decimal, comment string) (*models.Payment, error) {
	var payment models.Payment
	err := db.Transaction(func(tx *gorm.DB) error {
		unit, resident, err := CurrentUnitForUser(tx, userID)
		if err != nil {
			return err
		}

		var invoice models.Invoice
		err = tx.Where("id = ? AND unit_id = ?", invoiceID, unit.Id).First(&invoice).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if InvoiceSettled(invoice.Status) {
			return ErrAlreadyPaid
		}
		if NormalizeStatus(invoice.Status) == InvoiceReview {
			return ErrAlreadyUnderReview
		}
		var inReview int64
		err = tx.Model(&models.Payment{}).
			Where("invoice_id = ? AND upper(status) = ?", invoice.Id, PaymentReview).
			Count(&inReview).Error
		if err != nil {
			return err
		}
		if inReview > 0 {
			return ErrAlreadyUnderReview
		}

		amount, err := resolveAmount(requested, &invoice)
		if err != nil {
			return err
		}

		var recordedBy *string
		if resident.UserId != nil {
			recordedBy = resident.UserId
		}
		payment = models.Payment{
			InvoiceId:    invoice.Id,
			Method:       "QR",
			Amount:       amount,
			PaidAt:       time.Now(),
			Status:       PaymentReview,
			Comment:      comment,
			RecordedById: recordedBy,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		if err := tx.Model(&invoice).Update("status", InvoiceReview).Error; err != nil {
			return err
		}

		return notifier.Notify(tx, notify.Event{
			ResidentId: resident.Id,
			Title:      "Pago en revisión",
			Message:    fmt.Sprintf("Tu pago de la factura %s está en revisión.", invoice.Period),
			InvoiceId:  &invoice.Id,
			PaymentId:  &payment.Id,
			Data: map[string]string{
				"tipo":    "pago_revision",
				"factura": invoice.Id,
				"periodo": invoice.Period,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ResolveReviewPayment applies a staff decision to a payment under review.
// Approve confirms the payment and settles the invoice; reject marks the
// payment RECHAZADO and reverts the invoice to PENDIENTE with its payment
// date cleared. Re-rejecting an already rejected payment is a no-op;
// any other re-resolution fails with ErrAlreadyProcessed.
func ResolveReviewPayment(db *gorm.DB, notifier *notify.Service, invoiceID, paymentID, action, comment string, resolvedBy *string) (*models.Invoice, *models.Payment, error) {
	act, ok := ParseAction(action)
	if !ok {
		return nil, nil, ErrInvalidAction
	}

	var (
		invoice *models.Invoice
		payment models.Payment
	)
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		invoice, err = loadInvoice(tx, invoiceID)
		if err != nil {
			return err
		}
		err = tx.Where("id = ? AND invoice_id = ?", paymentID, invoiceID).First(&payment).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		status := NormalizeStatus(payment.Status)
		if status != PaymentReview && status != PaymentPending {
			// Repeating a reject is harmless; anything else is a conflict.
			if act == ActionReject && status == PaymentRejected {
				return nil
			}
			return ErrAlreadyProcessed
		}

		now := time.Now()
		if act == ActionApprove {
			err = tx.Model(&payment).Updates(map[string]any{
				"status":  PaymentConfirmed,
				"paid_at": now,
			}).Error
			if err != nil {
				return err
			}
			payment.Status = PaymentConfirmed
			payment.PaidAt = now

			err = tx.Model(invoice).Updates(map[string]any{
				"status":  InvoicePaid,
				"paid_at": now,
			}).Error
			if err != nil {
				return err
			}
			invoice.Status = InvoicePaid
			invoice.PaidAt = &now
		} else {
			updates := map[string]any{"status": PaymentRejected}
			if comment != "" {
				updates["comment"] = comment
			}
			if err := tx.Model(&payment).Updates(updates).Error; err != nil {
				return err
			}
			payment.Status = PaymentRejected
			if comment != "" {
				payment.Comment = comment
			}

			err = tx.Model(invoice).Updates(map[string]any{
				"status":  InvoicePending,
				"paid_at": nil,
			}).Error
			if err != nil {
				return err
			}
			invoice.Status = InvoicePending
			invoice.PaidAt = nil
		}

		resident, err := residentForPayment(tx, &payment, invoice)
		if err != nil || resident == nil {
			// No reachable resident; the state change still stands.
			return nil
		}

		title := "Pago confirmado"
		message := fmt.Sprintf("Tu pago de la factura %s fue confirmado.", invoice.Period)
		if act == ActionReject {
			title = "Pago rechazado"
			message = fmt.Sprintf("Tu pago de la factura %s fue rechazado.", invoice.Period)
			if comment != "" {
				message += " Motivo: " + comment
			}
		}
		return notifier.Notify(tx, notify.Event{
			ResidentId: resident.Id,
			Title:      title,
			Message:    message,
			InvoiceId:  &invoice.Id,
			PaymentId:  &payment.Id,
			SentById:   resolvedBy,
			Data: map[string]string{
				"tipo":    "pago_" + act,
				"factura": invoice.Id,
				"periodo": invoice.Period,
			},
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return invoice, &payment, nil
}

// residentForPayment finds who should be notified about a payment decision:
// the resident profile of the user who recorded it, falling back to the
// newest active resident of the invoice's unit.
func residentForPayment(tx *gorm.DB, payment *models.Payment, invoice *models.Invoice) (*models.Resident, error) {
	if payment.RecordedById != nil {
		var resident models.Resident
		err := tx.Where("user_id = ?", *payment.RecordedById).First(&resident).Error
		if err == nil {
			return &resident, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	residents, err := ActiveResidents(tx, invoice.UnitId)
	if err != nil || len(residents) == 0 {
		return nil, err
	}
	return &residents[0], nil
}

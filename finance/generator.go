package finance

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"condominio-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GenerationSummary tallies one generation run.
type GenerationSummary struct {
	Created   int `json:"creadas"`
	Updated   int `json:"actualizadas"`
	Unchanged int `json:"sin_cambios"`
}

type configKey struct {
	buildingID string
	block      string
}

func chargeConfigsByBlock(tx *gorm.DB) (map[configKey]models.RecurringChargeConfig, error) {
	var configs []models.RecurringChargeConfig
	if err := tx.Find(&configs).Error; err != nil {
		return nil, err
	}
	out := make(map[configKey]models.RecurringChargeConfig, len(configs))
	for _, cfg := range configs {
		key := configKey{cfg.BuildingId, strings.ToUpper(strings.TrimSpace(cfg.Block))}
		out[key] = cfg
	}
	return out, nil
}

// GenerateInvoices builds (or rebuilds) the recurring-charge invoice of every
// occupied, active unit for the given period. The whole run is one
// transaction: a failure on any unit rolls back everything, so fines are
// never left marked as billed without their invoice.
//
// The run is idempotent. Re-running a period rebuilds still-pending invoices
// whose inputs changed and tallies them actualizadas; an invoice that would
// come out identical counts as sin_cambios and is not touched. Settled
// invoices are always left alone.
func GenerateInvoices(db *gorm.DB, period string) (GenerationSummary, error) {
	p, err := ParsePeriod(period)
	if err != nil {
		return GenerationSummary{}, err
	}
	dueDate := p.LastDay()

	var summary GenerationSummary
	err = db.Transaction(func(tx *gorm.DB) error {
		configs, err := chargeConfigsByBlock(tx)
		if err != nil {
			return err
		}
		occupied, err := occupiedUnitIDs(tx)
		if err != nil {
			return err
		}

		var units []models.Unit
		if err := tx.Where("active = ?", true).Order("code").Find(&units).Error; err != nil {
			return err
		}

		for _, unit := range units {
			if _, ok := occupied[unit.Id]; !ok {
				continue
			}

			chargeAmount := decimal.Zero
			chargeDescription := ""
			key := configKey{unit.BuildingId, strings.ToUpper(strings.TrimSpace(unit.Block))}
			if cfg, ok := configs[key]; ok && cfg.Active {
				chargeAmount = cfg.Amount
				chargeDescription = fmt.Sprintf("Expensa bloque %s", cfg.Block)
			}

			// Unbilled fines plus fines already billed for this same
			// period, so re-runs rebuild the invoice with the same items.
			var fines []models.FineApplication
			err := tx.Preload("FineType").
				Where("unit_id = ? AND ((invoice_id IS NULL AND billed_period IS NULL) OR billed_period = ?)",
					unit.Id, p.String()).
				Order("applied_at ASC").
				Find(&fines).Error
			if err != nil {
				return err
			}

			finesTotal := decimal.Zero
			for _, fine := range fines {
				finesTotal = finesTotal.Add(fine.Amount)
			}

			total := chargeAmount.Add(finesTotal)
			if total.LessThanOrEqual(decimal.Zero) && len(fines) == 0 {
				summary.Unchanged++
				continue
			}

			invoice, existed, err := getOrCreateInvoice(tx, unit.Id, p.String(), total, dueDate)
			if err != nil {
				return err
			}

			// Settled invoices are never retroactively altered.
			if existed && InvoiceSettled(invoice.Status) {
				summary.Unchanged++
				continue
			}

			desired := make([]models.InvoiceLineItem, 0, len(fines)+1)
			if chargeDescription != "" && chargeAmount.GreaterThan(decimal.Zero) {
				desired = append(desired, models.InvoiceLineItem{
					InvoiceId:   invoice.Id,
					Description: chargeDescription,
					Type:        models.LineItemRecurringCharge,
					Amount:      chargeAmount,
				})
			}
			for i := range fines {
				fine := &fines[i]
				description := fine.Description
				if description == "" {
					description = fine.FineType.Description
				}
				if description == "" {
					description = fine.FineType.Name
				}
				desired = append(desired, models.InvoiceLineItem{
					InvoiceId:         invoice.Id,
					Description:       description,
					Type:              models.LineItemFine,
					Amount:            fine.Amount,
					FineApplicationId: &fine.Id,
				})
			}

			if existed {
				same, err := invoiceUnchanged(tx, invoice, total, desired, fines)
				if err != nil {
					return err
				}
				if same {
					summary.Unchanged++
					continue
				}
				if err := tx.Where("invoice_id = ?", invoice.Id).
					Delete(&models.InvoiceLineItem{}).Error; err != nil {
					return err
				}
			}

			for i := range desired {
				if err := tx.Create(&desired[i]).Error; err != nil {
					return err
				}
			}

			billedPeriod := p.String()
			for i := range fines {
				updates := map[string]any{
					"invoice_id":    invoice.Id,
					"billed_period": billedPeriod,
				}
				if err := tx.Model(&fines[i]).Updates(updates).Error; err != nil {
					return err
				}
			}

			updates := map[string]any{"amount": total}
			if invoice.DueDate == nil {
				updates["due_date"] = dueDate
			}
			if err := tx.Model(invoice).Updates(updates).Error; err != nil {
				return err
			}

			switch {
			case len(desired) == 0:
				summary.Unchanged++
			case existed:
				summary.Updated++
			default:
				summary.Created++
			}
		}
		return nil
	})
	if err != nil {
		return GenerationSummary{}, err
	}
	return summary, nil
}

// invoiceUnchanged reports whether the stored invoice already carries the
// computed total and exactly the desired line items, with every fine tagged
// against it. Such invoices are left untouched and tallied sin_cambios.
func invoiceUnchanged(tx *gorm.DB, invoice *models.Invoice, total decimal.Decimal, desired []models.InvoiceLineItem, fines []models.FineApplication) (bool, error) {
	if !invoice.Amount.Equal(total) {
		return false, nil
	}
	for i := range fines {
		if fines[i].InvoiceId == nil || *fines[i].InvoiceId != invoice.Id {
			return false, nil
		}
	}
	var current []models.InvoiceLineItem
	if err := tx.Where("invoice_id = ?", invoice.Id).Find(&current).Error; err != nil {
		return false, err
	}
	if len(current) != len(desired) {
		return false, nil
	}
	counts := make(map[string]int, len(current))
	for i := range current {
		counts[lineItemKey(&current[i])]++
	}
	for i := range desired {
		key := lineItemKey(&desired[i])
		counts[key]--
		if counts[key] < 0 {
			return false, nil
		}
	}
	return true, nil
}

func lineItemKey(item *models.InvoiceLineItem) string {
	fineID := ""
	if item.FineApplicationId != nil {
		fineID = *item.FineApplicationId
	}
	return strings.Join([]string{item.Type, item.Description, item.Amount.Round(2).StringFixed(2), fineID}, "|")
}

// getOrCreateInvoice fetches the invoice for (unit, period, expensa) or
// creates it PENDING with the computed amount and due date. The boolean
// reports whether the invoice already existed.
func getOrCreateInvoice(tx *gorm.DB, unitID, period string, total decimal.Decimal, dueDate time.Time) (*models.Invoice, bool, error) {
	var invoice models.Invoice
	err := tx.Where("unit_id = ? AND period = ? AND type = ?", unitID, period, models.InvoiceTypeRecurring).
		First(&invoice).Error
	if err == nil {
		return &invoice, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	due := dueDate
	invoice = models.Invoice{
		UnitId:  unitID,
		Period:  period,
		Type:    models.InvoiceTypeRecurring,
		Amount:  total,
		Status:  InvoicePending,
		DueDate: &due,
	}
	if err := tx.Create(&invoice).Error; err != nil {
		return nil, false, err
	}
	return &invoice, false, nil
}

package database

import (
	"fmt"

	"gorm.io/gorm"
)

// EnsureSchema applies idempotent hardening on top of AutoMigrate:
// - Money column types (NUMERIC(10,2))
// - Composite/helpful indexes
// - Basic CHECK constraints
// Postgres only; other dialects (the sqlite test DB) rely on AutoMigrate.
//
// The at-most-one-REVISION-payment-per-invoice rule is enforced in
// application code; a partial unique index on payments
// (invoice_id) WHERE upper(status) = 'REVISION' is the upgrade path if
// contention ever warrants it.
func EnsureSchema(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		// --- Enforce money columns as NUMERIC(10,2) (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE recurring_charge_configs ALTER COLUMN amount TYPE numeric(10,2)`,
			`ALTER TABLE fine_types              ALTER COLUMN amount TYPE numeric(10,2)`,
			`ALTER TABLE fine_applications       ALTER COLUMN amount TYPE numeric(10,2)`,
			`ALTER TABLE invoices                ALTER COLUMN amount TYPE numeric(10,2)`,
			`ALTER TABLE invoice_line_items      ALTER COLUMN amount TYPE numeric(10,2)`,
			`ALTER TABLE payments                ALTER COLUMN amount TYPE numeric(10,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Composite / helpful indexes (idempotent) ---
		indexes := []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_invoice_unit_period_type ON invoices (unit_id, period, type)`,
			`CREATE INDEX IF NOT EXISTS idx_payment_invoice_paid_at ON payments (invoice_id, paid_at)`,
			`CREATE INDEX IF NOT EXISTS idx_invoice_line_items_invoice ON invoice_line_items (invoice_id)`,
			`CREATE INDEX IF NOT EXISTS idx_fine_applications_pending ON fine_applications (unit_id) WHERE invoice_id IS NULL`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- FineApplication keeps its row when the invoice goes away ---
		fk := `
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1
		FROM pg_constraint
		WHERE conrelid = 'fine_applications'::regclass
		  AND conname  = 'fk_fine_applications_invoice'
	) THEN
		ALTER TABLE fine_applications
		ADD CONSTRAINT fk_fine_applications_invoice
		FOREIGN KEY (invoice_id)
		REFERENCES invoices(id)
		ON UPDATE CASCADE
		ON DELETE SET NULL;
	END IF;
END $$;`
		if err := tx.Exec(fk).Error; err != nil {
			return fmt.Errorf("foreign key migration failed: %w", err)
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []string{
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'payments'::regclass
					  AND conname  = 'chk_payments_amount_positive'
				) THEN
					ALTER TABLE payments
					ADD CONSTRAINT chk_payments_amount_positive
					CHECK (amount > 0);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'invoice_line_items'::regclass
					  AND conname  = 'chk_invoice_line_items_amount_nonneg'
				) THEN
					ALTER TABLE invoice_line_items
					ADD CONSTRAINT chk_invoice_line_items_amount_nonneg
					CHECK (amount >= 0);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}

package database

import (
	"fmt"

	"billing-backend/models"

	"gorm.io/gorm"
)

// Migrate applies idempotent schema migrations:
// - AutoMigrate (tables/columns/index tags)
// - money columns as NUMERIC(12,2)
// - CHECK constraints on counters and amounts
func Migrate(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&models.User{},
			&models.Customer{},
			&models.Supplier{},
			&models.Product{},
			&models.InvoiceCounter{},
			&models.Performa{},
			&models.Quotation{},
			&models.PurchaseOrder{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		alters := []string{
			`ALTER TABLE products  ALTER COLUMN rate                       TYPE numeric(12,2)`,
			`ALTER TABLE performas ALTER COLUMN freight_and_cartage_amount TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		checks := []struct{ table, name, expr string }{
			{"invoice_counters", "chk_invoice_counters_current_number_nonneg", "current_number >= 0"},
			{"invoice_counters", "chk_invoice_counters_prefix_nonempty", "length(prefix) > 0"},
			{"products", "chk_products_rate_nonneg", "rate >= 0"},
			{"performas", "chk_performas_freight_nonneg", "freight_and_cartage_amount >= 0"},
		}
		for _, c := range checks {
			if err := tx.Exec(checkConstraint(c.table, c.name, c.expr)).Error; err != nil {
				return fmt.Errorf("check constraint migration failed on %s: %w", c.name, err)
			}
		}
		return nil
	})
}

func checkConstraint(table, name, expr string) string {
	return fmt.Sprintf(`DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint
		WHERE conrelid = '%[1]s'::regclass
		  AND conname  = '%[2]s'
	) THEN
		ALTER TABLE %[1]s ADD CONSTRAINT %[2]s CHECK (%[3]s);
	END IF;
END $$;`, table, name, expr)
}

package database

import (
	"gorm.io/gorm"

	"koskita/internal/domain"
)

// Migrate brings the schema up to date: gorm's AutoMigrate for tables and
// plain indexes, then the constraints AutoMigrate cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Property{},
		&domain.Room{},
		&domain.Booking{},
		&domain.Payment{},
		&domain.LedgerAccount{},
		&domain.LedgerEntry{},
	); err != nil {
		return err
	}

	// One ledger entry per settled payment. The uniqueness is scoped to
	// PAYMENT: adjustments and payouts may reference the same id repeatedly.
	if err := db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_entries_payment_ref
ON ledger_entries (ref_type, ref_id)
WHERE ref_type = 'PAYMENT'
`).Error; err != nil {
		return err
	}

	// Postgres only: the exclusion constraint behind the 23505 fallback in
	// the booking repository. SQLite relies on the in-transaction check alone.
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
			return err
		}
		if err := db.Exec(`
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'idx_no_overbooking') THEN
		ALTER TABLE bookings ADD CONSTRAINT idx_no_overbooking
			EXCLUDE USING gist (
				room_id WITH =,
				tstzrange(check_in_date, check_out_date) WITH &&
			) WHERE (status IN ('unpaid', 'deposit_paid', 'confirmed', 'checked_in'));
	END IF;
END $$;
`).Error; err != nil {
			return err
		}
	}

	return nil
}

package model

import "gorm.io/gorm"

// AutoMigrate runs GORM auto-migration for all models and creates custom indexes.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Curator{},
		&Drop{},
		&Product{},
		&InviteCode{},
		&AccessGrant{},
	); err != nil {
		return err
	}

	// Backstop for the conditional increment in the redemption transaction.
	return db.Exec(
		"DO $$ BEGIN " +
			"IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_invite_codes_used_count') THEN " +
			"ALTER TABLE invite_codes ADD CONSTRAINT chk_invite_codes_used_count " +
			"CHECK (max_uses = 0 OR used_count <= max_uses); " +
			"END IF; END $$",
	).Error
}

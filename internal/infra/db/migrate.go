package db

import (
	"database/sql"
)

// MigrateUp creates the offers table and its indexes if they do not exist.
// start_time and end_time stay TEXT on purpose: the feed's timestamp format
// is not guaranteed, and the change detector compares the raw value.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS offers (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL DEFAULT '',
    content    TEXT NOT NULL DEFAULT '',
    image      TEXT NOT NULL DEFAULT '',
    aff_link   TEXT NOT NULL DEFAULT '',
    link       TEXT NOT NULL DEFAULT '',
    domain     TEXT NOT NULL DEFAULT '',
    merchant   TEXT NOT NULL DEFAULT '',
    start_time TEXT NOT NULL DEFAULT '',
    end_time   TEXT NOT NULL DEFAULT '',
    categories JSONB,
    coupons    JSONB,
    banners    JSONB,
    deal_type  TEXT NOT NULL DEFAULT 'coupons'
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE INDEX IF NOT EXISTS idx_offers_merchant ON offers (merchant)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE INDEX IF NOT EXISTS idx_offers_deal_type ON offers (deal_type)`); err != nil {
		return err
	}

	return nil
}

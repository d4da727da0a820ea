package database

import (
	"context"
	"database/sql"
)

// schema holds the full table set for the portal.  Statements are ordered so
// that referenced tables exist before their foreign keys.  EnsureSchema runs
// once at startup; nothing in the request path ever alters tables.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username      VARCHAR(50)  NOT NULL UNIQUE,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role          ENUM('owner','committee','admin') NOT NULL DEFAULT 'owner',
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS units (
		id                BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		unit_number       VARCHAR(20) NOT NULL UNIQUE,
		floor_number      INT NOT NULL,
		unit_entitlements INT NOT NULL,
		owner_id          BIGINT UNSIGNED NULL,
		FOREIGN KEY (owner_id) REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS budget_items (
		id              BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		category        VARCHAR(100) NOT NULL,
		description     TEXT NOT NULL,
		budgeted_cents  BIGINT NOT NULL,
		actual_cents    BIGINT NOT NULL DEFAULT 0,
		fund_type       ENUM('administration','capital_works') NOT NULL,
		financial_year  VARCHAR(9) NOT NULL,
		created_by      BIGINT UNSIGNED NULL,
		created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (created_by) REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS levies (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		unit_id       BIGINT UNSIGNED NOT NULL,
		amount_cents  BIGINT NOT NULL,
		admin_cents   BIGINT NOT NULL,
		capital_cents BIGINT NOT NULL,
		due_date      DATE NOT NULL,
		status        ENUM('pending','paid','overdue') NOT NULL DEFAULT 'pending',
		quarter       VARCHAR(20) NOT NULL,
		created_by    BIGINT UNSIGNED NULL,
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (unit_id) REFERENCES units(id),
		FOREIGN KEY (created_by) REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS levy_payments (
		id               BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		levy_id          BIGINT UNSIGNED NOT NULL,
		amount_cents     BIGINT NOT NULL,
		payment_date     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		payment_method   VARCHAR(30) NOT NULL,
		reference_number VARCHAR(64) NOT NULL,
		FOREIGN KEY (levy_id) REFERENCES levies(id)
	)`,
	`CREATE TABLE IF NOT EXISTS maintenance_requests (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		unit_id     BIGINT UNSIGNED NULL,
		title       VARCHAR(200) NOT NULL,
		description TEXT NOT NULL,
		status      ENUM('pending','in_progress','completed') NOT NULL DEFAULT 'pending',
		created_by  BIGINT UNSIGNED NOT NULL,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (unit_id) REFERENCES units(id),
		FOREIGN KEY (created_by) REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS documents (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title         VARCHAR(200) NOT NULL,
		file_path     VARCHAR(500) NOT NULL,
		document_type ENUM('insurance','financial','minutes','other') NOT NULL DEFAULT 'other',
		uploaded_by   BIGINT UNSIGNED NULL,
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (uploaded_by) REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS notices (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title        VARCHAR(200) NOT NULL,
		content      TEXT NOT NULL,
		is_important TINYINT(1) NOT NULL DEFAULT 0,
		created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS updates (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title      VARCHAR(200) NOT NULL,
		content    TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// EnsureSchema creates any missing tables.  Safe to run on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Package db opens the PostgreSQL Record Store and installs its schema.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Schema creates the task board tables. Uniqueness, one profile per user,
// foreign keys and the category cascade are all enforced here.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    username VARCHAR(150) NOT NULL UNIQUE,
    password TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS profiles (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
    img VARCHAR(100)
);

CREATE TABLE IF NOT EXISTS categories (
    id BIGSERIAL PRIMARY KEY,
    item VARCHAR(100) NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
    id UUID PRIMARY KEY,
    task VARCHAR(100) NOT NULL,
    description VARCHAR(300) NOT NULL,
    criteria VARCHAR(100) NOT NULL,
    status VARCHAR(40) NOT NULL DEFAULT '1',
    category_id BIGINT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
    estimate INTEGER NOT NULL CHECK (estimate >= 0),
    owner_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    responsible_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS tasks_category_id_idx ON tasks(category_id);
CREATE INDEX IF NOT EXISTS tasks_owner_id_idx ON tasks(owner_id);
CREATE INDEX IF NOT EXISTS tasks_responsible_id_idx ON tasks(responsible_id);
`

// InitPostgres opens dsn, verifies the connection and applies Schema.
func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}

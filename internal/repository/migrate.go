package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username VARCHAR(50) NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS pages (
		id UUID PRIMARY KEY,
		slug VARCHAR(100) NOT NULL UNIQUE,
		owner_user_id UUID REFERENCES users(id) ON DELETE CASCADE,
		template_type VARCHAR(20) NOT NULL DEFAULT 'confession',
		crush_name VARCHAR(100) NOT NULL DEFAULT 'Someone Special',
		main_message TEXT NOT NULL DEFAULT 'I have something to tell you...',
		sub_message TEXT,
		bg_color VARCHAR(20) NOT NULL DEFAULT '#fdf2f8',
		font_style VARCHAR(50) NOT NULL DEFAULT 'Outfit',
		music_url TEXT,
		success_message TEXT NOT NULL DEFAULT '',
		interactive_twist VARCHAR(20) NOT NULL DEFAULT 'runaway',
		unlock_type VARCHAR(20) NOT NULL DEFAULT 'none',
		unlock_value VARCHAR(100),
		captcha_images JSONB,
		no_button_style VARCHAR(20) NOT NULL DEFAULT 'runaway',
		published BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS page_photos (
		id UUID PRIMARY KEY,
		page_id UUID NOT NULL REFERENCES pages(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		"order" INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS page_views (
		id UUID PRIMARY KEY,
		page_id UUID NOT NULL REFERENCES pages(id) ON DELETE CASCADE,
		viewed_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pages_owner ON pages(owner_user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_page_photos_page ON page_photos(page_id)`,
	`CREATE INDEX IF NOT EXISTS idx_page_views_page ON page_views(page_id)`,
}

// Migrate applies the schema. Statements are idempotent so startup can run
// this unconditionally.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply migration: %w", err)
		}
	}
	return nil
}

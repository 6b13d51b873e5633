package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Sagar-1103/blush-build/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PageRepository handles database operations for pages, their photos and views
type PageRepository struct {
	db *pgxpool.Pool
}

// NewPageRepository creates a new page repository
func NewPageRepository(db *pgxpool.Pool) *PageRepository {
	return &PageRepository{db: db}
}

const pageColumns = `
	id, slug, owner_user_id, template_type, crush_name, main_message,
	sub_message, bg_color, font_style, music_url, success_message,
	interactive_twist, unlock_type, unlock_value, captcha_images,
	no_button_style, published, created_at, updated_at
`

// Create inserts a page and its photos in one transaction
func (r *PageRepository) Create(ctx context.Context, page *models.Page) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	captcha, err := marshalCaptcha(page.CaptchaImages)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO pages (` + pageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err = tx.Exec(ctx, query,
		page.ID, page.Slug, page.OwnerUserID, page.TemplateType, page.CrushName,
		page.MainMessage, page.SubMessage, page.BgColor, page.FontStyle,
		page.MusicURL, page.SuccessMsg, page.Twist, page.UnlockType,
		page.UnlockValue, captcha, page.NoButtonStyle, page.Published,
		page.CreatedAt, page.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("slug %q: %w", page.Slug, ErrDuplicate)
		}
		return fmt.Errorf("failed to create page: %w", err)
	}

	if err := insertPhotos(ctx, tx, page.ID, page.Photos); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit page: %w", err)
	}
	return nil
}

// Update replaces all mutable page fields and the full photo set in one
// transaction. The slug is immutable and not touched.
func (r *PageRepository) Update(ctx context.Context, page *models.Page) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	captcha, err := marshalCaptcha(page.CaptchaImages)
	if err != nil {
		return err
	}

	query := `
		UPDATE pages SET
			template_type = $1, crush_name = $2, main_message = $3,
			sub_message = $4, bg_color = $5, font_style = $6, music_url = $7,
			success_message = $8, interactive_twist = $9, unlock_type = $10,
			unlock_value = $11, captcha_images = $12, no_button_style = $13,
			published = $14, updated_at = $15
		WHERE id = $16
	`
	result, err := tx.Exec(ctx, query,
		page.TemplateType, page.CrushName, page.MainMessage, page.SubMessage,
		page.BgColor, page.FontStyle, page.MusicURL, page.SuccessMsg,
		page.Twist, page.UnlockType, page.UnlockValue, captcha,
		page.NoButtonStyle, page.Published, page.UpdatedAt, page.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update page: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("page %s: %w", page.ID, ErrNotFound)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM page_photos WHERE page_id = $1`, page.ID); err != nil {
		return fmt.Errorf("failed to delete page photos: %w", err)
	}
	if err := insertPhotos(ctx, tx, page.ID, page.Photos); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit page update: %w", err)
	}
	return nil
}

// GetByID retrieves a page with its photos ordered by position
func (r *PageRepository) GetByID(ctx context.Context, id string) (*models.Page, error) {
	return r.getPage(ctx, `WHERE id = $1`, id)
}

// GetBySlug retrieves a page with its photos ordered by position
func (r *PageRepository) GetBySlug(ctx context.Context, slug string) (*models.Page, error) {
	return r.getPage(ctx, `WHERE slug = $1`, slug)
}

func (r *PageRepository) getPage(ctx context.Context, where string, arg any) (*models.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages ` + where

	var page models.Page
	var captcha []byte
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&page.ID, &page.Slug, &page.OwnerUserID, &page.TemplateType,
		&page.CrushName, &page.MainMessage, &page.SubMessage, &page.BgColor,
		&page.FontStyle, &page.MusicURL, &page.SuccessMsg, &page.Twist,
		&page.UnlockType, &page.UnlockValue, &captcha, &page.NoButtonStyle,
		&page.Published, &page.CreatedAt, &page.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("page %v: %w", arg, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get page: %w", err)
	}

	if len(captcha) > 0 {
		if err := json.Unmarshal(captcha, &page.CaptchaImages); err != nil {
			return nil, fmt.Errorf("failed to decode captcha images: %w", err)
		}
	}

	photos, err := r.getPhotos(ctx, page.ID)
	if err != nil {
		return nil, err
	}
	page.Photos = photos

	return &page, nil
}

func (r *PageRepository) getPhotos(ctx context.Context, pageID string) ([]models.PagePhoto, error) {
	query := `
		SELECT id, page_id, url, "order"
		FROM page_photos
		WHERE page_id = $1
		ORDER BY "order" ASC
	`
	rows, err := r.db.Query(ctx, query, pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get page photos: %w", err)
	}
	defer rows.Close()

	var photos []models.PagePhoto
	for rows.Next() {
		var photo models.PagePhoto
		if err := rows.Scan(&photo.ID, &photo.PageID, &photo.URL, &photo.Order); err != nil {
			return nil, fmt.Errorf("failed to scan page photo: %w", err)
		}
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating page photos: %w", err)
	}
	return photos, nil
}

// ListByOwner retrieves all pages owned by a user, newest first, each
// annotated with its view count and most recent view.
func (r *PageRepository) ListByOwner(ctx context.Context, userID string) ([]*models.PageSummary, error) {
	query := `
		SELECT p.id, p.slug, p.template_type, p.crush_name, p.main_message,
			p.published, p.created_at, p.updated_at,
			COUNT(v.id), MAX(v.viewed_at)
		FROM pages p
		LEFT JOIN page_views v ON v.page_id = p.id
		WHERE p.owner_user_id = $1
		GROUP BY p.id
		ORDER BY p.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	var summaries []*models.PageSummary
	for rows.Next() {
		var s models.PageSummary
		err := rows.Scan(
			&s.ID, &s.Slug, &s.TemplateType, &s.CrushName, &s.MainMessage,
			&s.Published, &s.CreatedAt, &s.UpdatedAt, &s.ViewCount, &s.LastViewed,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page summary: %w", err)
		}
		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating page summaries: %w", err)
	}
	return summaries, nil
}

// Delete removes a page; photos and views go with it via the cascading
// foreign keys.
func (r *PageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM pages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("page %s: %w", id, ErrNotFound)
	}
	return nil
}

// RecordView appends one view event for a page
func (r *PageRepository) RecordView(ctx context.Context, pageID string) error {
	query := `
		INSERT INTO page_views (id, page_id, viewed_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.Exec(ctx, query, uuid.New().String(), pageID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to record view: %w", err)
	}
	return nil
}

func insertPhotos(ctx context.Context, tx pgx.Tx, pageID string, photos []models.PagePhoto) error {
	for i := range photos {
		photos[i].ID = uuid.New().String()
		photos[i].PageID = pageID
		photos[i].Order = i
		_, err := tx.Exec(ctx,
			`INSERT INTO page_photos (id, page_id, url, "order") VALUES ($1, $2, $3, $4)`,
			photos[i].ID, photos[i].PageID, photos[i].URL, photos[i].Order,
		)
		if err != nil {
			return fmt.Errorf("failed to insert page photo: %w", err)
		}
	}
	return nil
}

func marshalCaptcha(images []string) ([]byte, error) {
	if len(images) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("failed to encode captcha images: %w", err)
	}
	return data, nil
}

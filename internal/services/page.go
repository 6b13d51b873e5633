package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sagar-1103/blush-build/internal/models"
	"github.com/Sagar-1103/blush-build/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// PageStore is the persistence surface PageService needs
type PageStore interface {
	Create(ctx context.Context, page *models.Page) error
	Update(ctx context.Context, page *models.Page) error
	GetByID(ctx context.Context, id string) (*models.Page, error)
	GetBySlug(ctx context.Context, slug string) (*models.Page, error)
	ListByOwner(ctx context.Context, userID string) ([]*models.PageSummary, error)
	Delete(ctx context.Context, id string) error
	RecordView(ctx context.Context, pageID string) error
}

// Uploader resolves image references from the wizard into durable URLs
type Uploader interface {
	EnsureDurable(ctx context.Context, ref string) (string, error)
}

// PageForm carries the validated wizard state for a publish or update.
// Optional fields are empty strings / nil slices.
type PageForm struct {
	TemplateType   string   `json:"template_type" validate:"required,oneof=confession valentine proposal"`
	CrushName      string   `json:"crush_name" validate:"required,max=100"`
	MainMessage    string   `json:"main_message" validate:"required"`
	SubMessage     string   `json:"sub_message"`
	BgColor        string   `json:"bg_color" validate:"required,max=20"`
	FontStyle      string   `json:"font_style" validate:"required,max=50"`
	MusicURL       string   `json:"music_url"`
	SuccessMessage string   `json:"success_message" validate:"required"`
	Twist          string   `json:"interactive_twist" validate:"required,oneof=none runaway"`
	UnlockType     string   `json:"unlock_type" validate:"required,oneof=none password nickname love-captcha"`
	UnlockValue    string   `json:"unlock_value" validate:"max=100"`
	Photos         []string `json:"photos"`
	CaptchaImages  []string `json:"captcha_images"`
}

// PageService handles the publication and update workflows
type PageService struct {
	pages    PageStore
	uploader Uploader
}

// NewPageService creates a new page service
func NewPageService(pages PageStore, uploader Uploader) *PageService {
	return &PageService{
		pages:    pages,
		uploader: uploader,
	}
}

// PublishResult identifies a freshly published page
type PublishResult struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

// Publish turns a wizard form into a persisted page. The caller must be
// authenticated; anonymous creation is not permitted.
func (s *PageService) Publish(ctx context.Context, userID string, form *PageForm) (*PublishResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("page creation requires a signed-in user: %w", ErrAuthentication)
	}
	if err := validateForm(form); err != nil {
		return nil, err
	}

	photos, captcha, err := s.resolveFormImages(ctx, form)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	page := &models.Page{
		ID:          uuid.New().String(),
		Slug:        GenerateSlug(form.CrushName),
		OwnerUserID: &userID,
		Published:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	applyForm(page, form, photos, captcha)

	if err := s.pages.Create(ctx, page); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("slug collision on %q: %w", page.Slug, ErrConflict)
		}
		return nil, fmt.Errorf("failed to publish page: %w", err)
	}

	return &PublishResult{ID: page.ID, Slug: page.Slug}, nil
}

// Update replaces all mutable fields of an existing page and its full photo
// set. The requester must own the page; legacy rows with a null owner are
// editable by any signed-in user (inherited quirk, see canModify).
func (s *PageService) Update(ctx context.Context, userID, pageID string, form *PageForm) error {
	page, err := s.requireModifiable(ctx, userID, pageID)
	if err != nil {
		return err
	}
	if err := validateForm(form); err != nil {
		return err
	}

	photos, captcha, err := s.resolveFormImages(ctx, form)
	if err != nil {
		return err
	}

	page.UpdatedAt = time.Now()
	applyForm(page, form, photos, captcha)

	if err := s.pages.Update(ctx, page); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("page %s: %w", pageID, ErrNotFound)
		}
		return fmt.Errorf("failed to update page: %w", err)
	}
	return nil
}

// Delete removes a page with its photos and views
func (s *PageService) Delete(ctx context.Context, userID, pageID string) error {
	if _, err := s.requireModifiable(ctx, userID, pageID); err != nil {
		return err
	}
	if err := s.pages.Delete(ctx, pageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("page %s: %w", pageID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete page: %w", err)
	}
	return nil
}

// GetByID retrieves a page with its photos
func (s *PageService) GetByID(ctx context.Context, pageID string) (*models.Page, error) {
	page, err := s.pages.GetByID(ctx, pageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("page %s: %w", pageID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	return page, nil
}

// GetBySlug retrieves a page with its photos by its public slug
func (s *PageService) GetBySlug(ctx context.Context, slug string) (*models.Page, error) {
	page, err := s.pages.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("page %q: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	return page, nil
}

// ListForOwner retrieves the requester's pages, newest first, with view
// aggregates.
func (s *PageService) ListForOwner(ctx context.Context, userID string) ([]*models.PageSummary, error) {
	if userID == "" {
		return nil, fmt.Errorf("listing pages requires a signed-in user: %w", ErrAuthentication)
	}
	summaries, err := s.pages.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	return summaries, nil
}

// RecordView appends one view event. Best-effort telemetry: it runs on its
// own context so the finished page request cannot cancel it, and failures are
// only logged.
func (s *PageService) RecordView(pageID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.pages.RecordView(ctx, pageID); err != nil {
		log.Warn().Err(err).Str("page_id", pageID).Msg("Failed to record page view")
	}
}

// requireModifiable loads a page and checks the requester may change it
func (s *PageService) requireModifiable(ctx context.Context, userID, pageID string) (*models.Page, error) {
	if userID == "" {
		return nil, fmt.Errorf("modifying a page requires a signed-in user: %w", ErrAuthentication)
	}
	page, err := s.pages.GetByID(ctx, pageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("page %s: %w", pageID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	if !canModify(page, userID) {
		return nil, fmt.Errorf("page %s belongs to another user: %w", pageID, ErrAuthorization)
	}
	return page, nil
}

// canModify implements exclusive ownership. Legacy rows with a null owner
// predate accounts and are treated as editable by any authenticated user;
// an inherited quirk, not a deliberate sharing feature.
func canModify(page *models.Page, userID string) bool {
	if page.OwnerUserID == nil {
		return true
	}
	return *page.OwnerUserID == userID
}

// validateForm enforces the semantic rules the struct tags cannot express
func validateForm(form *PageForm) error {
	if !models.TemplateType(form.TemplateType).Valid() {
		return fmt.Errorf("unknown template type %q: %w", form.TemplateType, ErrValidation)
	}
	twist := models.InteractiveTwist(form.Twist)
	if !twist.Valid() || twist == models.TwistHeartPuzzle {
		return fmt.Errorf("unknown interactive twist %q: %w", form.Twist, ErrValidation)
	}
	unlock := models.UnlockType(form.UnlockType)
	if !unlock.Valid() {
		return fmt.Errorf("unknown unlock type %q: %w", form.UnlockType, ErrValidation)
	}
	if unlock.NeedsCredential() && form.UnlockValue == "" {
		return fmt.Errorf("unlock value is required for %s protection: %w", unlock, ErrValidation)
	}
	if unlock == models.UnlockLoveCaptcha && len(form.CaptchaImages) == 0 {
		return fmt.Errorf("captcha images are required for love-captcha protection: %w", ErrValidation)
	}
	if form.CrushName == "" || form.MainMessage == "" {
		return fmt.Errorf("crush name and main message are required: %w", ErrValidation)
	}
	return nil
}

// resolveFormImages uploads every locally-referenced photo and captcha image
// before anything is written, so a failed upload aborts the whole operation.
// Captcha images are only resolved when they will be persisted.
func (s *PageService) resolveFormImages(ctx context.Context, form *PageForm) (photos, captcha []string, err error) {
	photos, err = s.resolveImages(ctx, form.Photos)
	if err != nil {
		return nil, nil, err
	}
	if models.UnlockType(form.UnlockType) == models.UnlockLoveCaptcha {
		captcha, err = s.resolveImages(ctx, form.CaptchaImages)
		if err != nil {
			return nil, nil, err
		}
	}
	return photos, captcha, nil
}

// resolveImages fans the uploads out concurrently; the first failure cancels
// the rest and fails the batch.
func (s *PageService) resolveImages(ctx context.Context, refs []string) ([]string, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	resolved := make([]string, len(refs))
	g, ctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			url, err := s.uploader.EnsureDurable(ctx, ref)
			if err != nil {
				return err
			}
			resolved[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}

// applyForm copies the mutable form fields onto a page. captchaImages is
// persisted only for love-captcha protection: supplied values under any
// other unlock type are cleared, and the legacy no_button_style mirror is
// re-derived from the twist so the two can never drift.
func applyForm(page *models.Page, form *PageForm, photos, captcha []string) {
	page.TemplateType = models.TemplateType(form.TemplateType)
	page.CrushName = form.CrushName
	page.MainMessage = form.MainMessage
	page.SubMessage = optional(form.SubMessage)
	page.BgColor = form.BgColor
	page.FontStyle = form.FontStyle
	page.MusicURL = optional(form.MusicURL)
	page.SuccessMsg = form.SuccessMessage
	page.Twist = models.InteractiveTwist(form.Twist)
	page.UnlockType = models.UnlockType(form.UnlockType)
	page.UnlockValue = optional(form.UnlockValue)
	page.NoButtonStyle = models.DeriveNoButtonStyle(page.Twist)

	if page.UnlockType == models.UnlockLoveCaptcha {
		page.CaptchaImages = captcha
	} else {
		page.CaptchaImages = nil
	}

	page.Photos = make([]models.PagePhoto, len(photos))
	for i, url := range photos {
		page.Photos[i] = models.PagePhoto{URL: url, Order: i}
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

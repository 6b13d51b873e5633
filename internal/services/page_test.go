package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Sagar-1103/blush-build/internal/models"
	"github.com/Sagar-1103/blush-build/internal/repository"
	"github.com/Sagar-1103/blush-build/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPageStore is a mock implementation of services.PageStore
type MockPageStore struct {
	mock.Mock
}

func (m *MockPageStore) Create(ctx context.Context, page *models.Page) error {
	args := m.Called(ctx, page)
	return args.Error(0)
}

func (m *MockPageStore) Update(ctx context.Context, page *models.Page) error {
	args := m.Called(ctx, page)
	return args.Error(0)
}

func (m *MockPageStore) GetByID(ctx context.Context, id string) (*models.Page, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page), args.Error(1)
}

func (m *MockPageStore) GetBySlug(ctx context.Context, slug string) (*models.Page, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page), args.Error(1)
}

func (m *MockPageStore) ListByOwner(ctx context.Context, userID string) ([]*models.PageSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PageSummary), args.Error(1)
}

func (m *MockPageStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPageStore) RecordView(ctx context.Context, pageID string) error {
	args := m.Called(ctx, pageID)
	return args.Error(0)
}

// MockUploader is a mock implementation of services.Uploader
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) EnsureDurable(ctx context.Context, ref string) (string, error) {
	args := m.Called(ctx, ref)
	return args.String(0), args.Error(1)
}

func validForm() *services.PageForm {
	return &services.PageForm{
		TemplateType:   "confession",
		CrushName:      "Ananya",
		MainMessage:    "I have something to tell you...",
		BgColor:        "#fdf2f8",
		FontStyle:      "Outfit",
		SuccessMessage: "You just made me the happiest person!",
		Twist:          "runaway",
		UnlockType:     "none",
	}
}

func TestPublishRequiresAuthentication(t *testing.T) {
	store := new(MockPageStore)
	pageService := services.NewPageService(store, new(MockUploader))

	_, err := pageService.Publish(context.Background(), "", validForm())
	assert.ErrorIs(t, err, services.ErrAuthentication)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPublishPersistsPage(t *testing.T) {
	store := new(MockPageStore)
	uploader := new(MockUploader)

	var created *models.Page
	store.On("Create", mock.Anything, mock.AnythingOfType("*models.Page")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*models.Page) }).
		Return(nil).Once()
	uploader.On("EnsureDurable", mock.Anything, "https://cdn.example.com/a.jpg").
		Return("https://cdn.example.com/a.jpg", nil).Once()
	uploader.On("EnsureDurable", mock.Anything, "https://cdn.example.com/b.jpg").
		Return("https://cdn.example.com/b.jpg", nil).Once()

	pageService := services.NewPageService(store, uploader)

	form := validForm()
	form.Photos = []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}

	result, err := pageService.Publish(context.Background(), "user-1", form)
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, created.ID, result.ID)
	assert.Equal(t, created.Slug, result.Slug)
	require.NotNil(t, created.OwnerUserID)
	assert.Equal(t, "user-1", *created.OwnerUserID)
	assert.True(t, created.Published)
	assert.Equal(t, models.NoButtonRunaway, created.NoButtonStyle)

	// Photos keep their array order.
	require.Len(t, created.Photos, 2)
	assert.Equal(t, "https://cdn.example.com/a.jpg", created.Photos[0].URL)
	assert.Equal(t, 0, created.Photos[0].Order)
	assert.Equal(t, "https://cdn.example.com/b.jpg", created.Photos[1].URL)
	assert.Equal(t, 1, created.Photos[1].Order)

	store.AssertExpectations(t)
	uploader.AssertExpectations(t)
}

func TestPublishClearsCaptchaImagesWithoutCaptchaUnlock(t *testing.T) {
	store := new(MockPageStore)
	uploader := new(MockUploader)

	var created *models.Page
	store.On("Create", mock.Anything, mock.AnythingOfType("*models.Page")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*models.Page) }).
		Return(nil).Once()

	pageService := services.NewPageService(store, uploader)

	// Supplied captcha images must not survive a non-captcha unlock type.
	form := validForm()
	form.CaptchaImages = []string{"https://cdn.example.com/face.jpg"}

	_, err := pageService.Publish(context.Background(), "user-1", form)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Nil(t, created.CaptchaImages)

	// And the images are not even uploaded.
	uploader.AssertNotCalled(t, "EnsureDurable", mock.Anything, mock.Anything)
}

func TestPublishKeepsCaptchaImagesForCaptchaUnlock(t *testing.T) {
	store := new(MockPageStore)
	uploader := new(MockUploader)

	var created *models.Page
	store.On("Create", mock.Anything, mock.AnythingOfType("*models.Page")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*models.Page) }).
		Return(nil).Once()
	uploader.On("EnsureDurable", mock.Anything, "data:image/png;base64,aGk=").
		Return("https://cdn.example.com/uploaded.png", nil).Once()

	pageService := services.NewPageService(store, uploader)

	form := validForm()
	form.UnlockType = "love-captcha"
	form.CaptchaImages = []string{"data:image/png;base64,aGk="}

	_, err := pageService.Publish(context.Background(), "user-1", form)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, []string{"https://cdn.example.com/uploaded.png"}, created.CaptchaImages)
}

func TestPublishUploadFailureAborts(t *testing.T) {
	store := new(MockPageStore)
	uploader := new(MockUploader)
	uploader.On("EnsureDurable", mock.Anything, mock.AnythingOfType("string")).
		Return("", services.ErrUpstream)

	pageService := services.NewPageService(store, uploader)

	form := validForm()
	form.Photos = []string{"data:image/png;base64,aGk="}

	_, err := pageService.Publish(context.Background(), "user-1", form)
	assert.ErrorIs(t, err, services.ErrUpstream)

	// Nothing was written: no partial publication.
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPublishValidation(t *testing.T) {
	store := new(MockPageStore)
	pageService := services.NewPageService(store, new(MockUploader))

	tests := []struct {
		name   string
		mutate func(*services.PageForm)
	}{
		{"unknown template", func(f *services.PageForm) { f.TemplateType = "wedding" }},
		{"deprecated twist", func(f *services.PageForm) { f.Twist = "heart-puzzle" }},
		{"unknown unlock type", func(f *services.PageForm) { f.UnlockType = "riddle" }},
		{"password without value", func(f *services.PageForm) { f.UnlockType = "password" }},
		{"nickname without value", func(f *services.PageForm) { f.UnlockType = "nickname" }},
		{"captcha without images", func(f *services.PageForm) { f.UnlockType = "love-captcha" }},
		{"missing crush name", func(f *services.PageForm) { f.CrushName = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(form)
			_, err := pageService.Publish(context.Background(), "user-1", form)
			assert.ErrorIs(t, err, services.ErrValidation)
		})
	}
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPublishSlugCollisionFailsLoudly(t *testing.T) {
	store := new(MockPageStore)
	store.On("Create", mock.Anything, mock.AnythingOfType("*models.Page")).
		Return(repository.ErrDuplicate).Once()

	pageService := services.NewPageService(store, new(MockUploader))

	_, err := pageService.Publish(context.Background(), "user-1", validForm())
	assert.ErrorIs(t, err, services.ErrConflict)
	store.AssertExpectations(t)
}

func ownedPage(owner string) *models.Page {
	page := &models.Page{
		ID:           "page-1",
		Slug:         "for-ananya-x7K2pQ",
		TemplateType: models.TemplateConfession,
		CrushName:    "Ananya",
		MainMessage:  "hi",
		UnlockType:   models.UnlockNone,
		Published:    true,
	}
	if owner != "" {
		page.OwnerUserID = &owner
	}
	return page
}

func TestUpdateByNonOwnerFails(t *testing.T) {
	store := new(MockPageStore)
	store.On("GetByID", mock.Anything, "page-1").Return(ownedPage("user-1"), nil).Once()

	pageService := services.NewPageService(store, new(MockUploader))

	err := pageService.Update(context.Background(), "user-2", "page-1", validForm())
	assert.ErrorIs(t, err, services.ErrAuthorization)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateLegacyOwnerlessPageAllowed(t *testing.T) {
	store := new(MockPageStore)
	store.On("GetByID", mock.Anything, "page-1").Return(ownedPage(""), nil).Once()
	store.On("Update", mock.Anything, mock.AnythingOfType("*models.Page")).Return(nil).Once()

	pageService := services.NewPageService(store, new(MockUploader))

	err := pageService.Update(context.Background(), "user-2", "page-1", validForm())
	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestUpdateReplacesPhotoSet(t *testing.T) {
	store := new(MockPageStore)
	existing := ownedPage("user-1")
	existing.Photos = []models.PagePhoto{
		{ID: "old-1", PageID: "page-1", URL: "https://cdn.example.com/old.jpg", Order: 0},
	}

	var updated *models.Page
	store.On("GetByID", mock.Anything, "page-1").Return(existing, nil).Once()
	store.On("Update", mock.Anything, mock.AnythingOfType("*models.Page")).
		Run(func(args mock.Arguments) { updated = args.Get(1).(*models.Page) }).
		Return(nil).Once()

	pageService := services.NewPageService(store, new(MockUploader))

	// An empty photo list removes every previously attached photo.
	form := validForm()
	form.Photos = nil

	err := pageService.Update(context.Background(), "user-1", "page-1", form)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Empty(t, updated.Photos)
	assert.Equal(t, "for-ananya-x7K2pQ", updated.Slug)
}

func TestDeleteByNonOwnerFails(t *testing.T) {
	store := new(MockPageStore)
	store.On("GetByID", mock.Anything, "page-1").Return(ownedPage("user-1"), nil).Once()

	pageService := services.NewPageService(store, new(MockUploader))

	err := pageService.Delete(context.Background(), "user-2", "page-1")
	assert.ErrorIs(t, err, services.ErrAuthorization)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteByOwner(t *testing.T) {
	store := new(MockPageStore)
	store.On("GetByID", mock.Anything, "page-1").Return(ownedPage("user-1"), nil).Once()
	store.On("Delete", mock.Anything, "page-1").Return(nil).Once()

	pageService := services.NewPageService(store, new(MockUploader))

	assert.NoError(t, pageService.Delete(context.Background(), "user-1", "page-1"))
	store.AssertExpectations(t)
}

func TestGetByIDNotFound(t *testing.T) {
	store := new(MockPageStore)
	store.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound).Once()

	pageService := services.NewPageService(store, new(MockUploader))

	_, err := pageService.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestListForOwnerRequiresAuthentication(t *testing.T) {
	store := new(MockPageStore)
	pageService := services.NewPageService(store, new(MockUploader))

	_, err := pageService.ListForOwner(context.Background(), "")
	assert.ErrorIs(t, err, services.ErrAuthentication)
}

func TestRecordViewSwallowsErrors(t *testing.T) {
	store := new(MockPageStore)
	store.On("RecordView", mock.Anything, "page-1").Return(errors.New("db down")).Once()

	pageService := services.NewPageService(store, new(MockUploader))

	// Best-effort telemetry: must not panic or surface the failure.
	pageService.RecordView("page-1")
	store.AssertExpectations(t)
}

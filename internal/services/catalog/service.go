package catalog

import (
	"context"
	"fmt"
	"mime/multipart"

	"hannas-kitchen/internal/logger"
	"hannas-kitchen/internal/models"
	"hannas-kitchen/internal/storage"
	"hannas-kitchen/internal/uploads"
	"hannas-kitchen/internal/validation"
)

// CreateItemInput is the admin form plus an optional image.
type CreateItemInput struct {
	validation.ItemForm
	Image *multipart.FileHeader
}

// Service manages the menu catalog
type Service struct {
	store  storage.CatalogStore
	images uploads.Store
	logger *logger.Logger
}

// NewService creates a new catalog service
func NewService(store storage.CatalogStore, images uploads.Store, log *logger.Logger) *Service {
	return &Service{
		store:  store,
		images: images,
		logger: log,
	}
}

// ListItems returns every menu item in natural store order.
func (s *Service) ListItems(ctx context.Context, requestID string) ([]models.MenuItem, error) {
	items, err := s.store.ListItems(ctx)
	if err != nil {
		s.logger.Error("db_query_failed", "Failed to list menu items", requestID, err, nil)
		return nil, err
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	return items, nil
}

// CreateItem validates the form, stores the image when one was attached and
// persists the item. Names are not checked for duplicates.
func (s *Service) CreateItem(ctx context.Context, in CreateItemInput, requestID string) (models.MenuItem, error) {
	item, err := validation.ValidateItemForm(in.ItemForm)
	if err != nil {
		s.logger.Error("validation_failed", "Menu item rejected", requestID, err, map[string]interface{}{
			"name": in.Name,
		})
		return models.MenuItem{}, err
	}

	if in.Image != nil {
		url, err := s.saveImage(ctx, in.Image)
		if err != nil {
			s.logger.Error("image_upload_failed", "Failed to store menu item image", requestID, err, map[string]interface{}{
				"filename": in.Image.Filename,
			})
			return models.MenuItem{}, err
		}
		item.ImageURL = url
	}

	created, err := s.store.CreateItem(ctx, item)
	if err != nil {
		s.logger.Error("db_insert_failed", "Failed to persist menu item", requestID, err, map[string]interface{}{
			"name": item.Name,
		})
		return models.MenuItem{}, err
	}

	s.logger.Info("item_created", "Menu item added", requestID, map[string]interface{}{
		"item_id":  created.ID,
		"name":     created.Name,
		"category": created.Category,
	})
	return created, nil
}

func (s *Service) saveImage(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded image: %w", err)
	}
	defer f.Close()

	return s.images.Save(ctx, fh.Filename, fh.Header.Get("Content-Type"), f)
}

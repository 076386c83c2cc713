package trade

import (
	"context"
	"fmt"

	"github.com/trocatudo/trocatudo/internal/models"
)

// ItemUpdate carries partial item changes; nil fields are left untouched
type ItemUpdate struct {
	Title       *string
	Description *string
	CategoryID  *int
	Images      *[]string
	Status      *string
}

// CreateItem lists a new item for trade, owned by ownerID
func (e *Engine) CreateItem(ctx context.Context, ownerID int, title, description string, categoryID *int, images []string) (*models.Item, error) {
	if title == "" || description == "" {
		return nil, fmt.Errorf("%w: title and description are required", ErrInvalidArgument)
	}
	if images == nil {
		images = []string{}
	}
	return e.DB.CreateItem(ctx, &models.Item{
		Title:       title,
		Description: description,
		CategoryID:  categoryID,
		Images:      images,
		Status:      models.ItemAvailable,
		OwnerID:     ownerID,
	})
}

// UpdateItem applies partial changes to an item. Allowed for the owner or a
// moderator/admin.
func (e *Engine) UpdateItem(ctx context.Context, actorID int, actorRole string, itemID int, upd ItemUpdate) (*models.Item, error) {
	item, err := e.DB.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %d", ErrNotFound, itemID)
	}
	if !isOwnerOrPrivileged(actorID, actorRole, item.OwnerID) {
		return nil, fmt.Errorf("%w: you may not edit this item", ErrForbidden)
	}

	if upd.Title != nil {
		item.Title = *upd.Title
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.CategoryID != nil {
		item.CategoryID = upd.CategoryID
	}
	if upd.Images != nil {
		item.Images = *upd.Images
	}
	if upd.Status != nil {
		if *upd.Status != models.ItemAvailable && *upd.Status != models.ItemTraded {
			return nil, fmt.Errorf("%w: status must be %q or %q", ErrInvalidArgument, models.ItemAvailable, models.ItemTraded)
		}
		item.Status = *upd.Status
	}

	if err := e.DB.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item and, through foreign keys, its proposals.
// Allowed for the owner or a moderator/admin.
func (e *Engine) DeleteItem(ctx context.Context, actorID int, actorRole string, itemID int) error {
	item, err := e.DB.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("%w: item %d", ErrNotFound, itemID)
	}
	if !isOwnerOrPrivileged(actorID, actorRole, item.OwnerID) {
		return fmt.Errorf("%w: you may not delete this item", ErrForbidden)
	}
	return e.DB.DeleteItem(ctx, itemID)
}

// AddItemImages appends stored image paths to an item's image list
func (e *Engine) AddItemImages(ctx context.Context, actorID int, actorRole string, itemID int, paths []string) (*models.Item, error) {
	item, err := e.DB.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %d", ErrNotFound, itemID)
	}
	if !isOwnerOrPrivileged(actorID, actorRole, item.OwnerID) {
		return nil, fmt.Errorf("%w: you may not edit this item", ErrForbidden)
	}

	item.Images = append(item.Images, paths...)
	if err := e.DB.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItemImage removes the image at the given index from an item
func (e *Engine) RemoveItemImage(ctx context.Context, actorID int, actorRole string, itemID, imageIndex int) (*models.Item, error) {
	item, err := e.DB.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %d", ErrNotFound, itemID)
	}
	if !isOwnerOrPrivileged(actorID, actorRole, item.OwnerID) {
		return nil, fmt.Errorf("%w: you may not edit this item", ErrForbidden)
	}
	if imageIndex < 0 || imageIndex >= len(item.Images) {
		return nil, fmt.Errorf("%w: image index out of range", ErrInvalidArgument)
	}

	item.Images = append(item.Images[:imageIndex], item.Images[imageIndex+1:]...)
	if err := e.DB.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

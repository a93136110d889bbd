package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	items    domain.ItemStore
	users    domain.UserStore
	bookings domain.BookingStore
	comments domain.CommentStore
	requests domain.RequestStore
	logger   *zerolog.Logger
}

func NewItemService(items domain.ItemStore, users domain.UserStore, bookings domain.BookingStore, comments domain.CommentStore, requests domain.RequestStore, logger *zerolog.Logger) *ItemService {
	return &ItemService{
		items:    items,
		users:    users,
		bookings: bookings,
		comments: comments,
		requests: requests,
		logger:   logger,
	}
}

func (s *ItemService) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if strings.TrimSpace(item.Name) == "" {
		return nil, fmt.Errorf("item name must not be blank: %w", database.ErrInvalidInput)
	}

	exists, err := s.users.UserExists(ctx, item.OwnerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("user %d: %w", item.OwnerID, database.ErrNotFound)
	}

	if item.RequestID != 0 {
		exists, err := s.requests.RequestExists(ctx, item.RequestID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("request %d: %w", item.RequestID, database.ErrNotFound)
		}
	}

	if err := s.items.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update applies a partial item update. Only the owner may change an item;
// an owner mismatch is reported as not found, hiding other users' items.
func (s *ItemService) Update(ctx context.Context, ownerID, itemID int64, patch *models.ItemPatch) (*models.Item, error) {
	item, err := s.items.GetItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", itemID, err)
	}
	if item.OwnerID != ownerID {
		return nil, fmt.Errorf("item %d does not belong to user %d: %w", itemID, ownerID, database.ErrNotFound)
	}

	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}

	if err := s.items.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetByID returns the item with its comments; when the requester is the
// owner, the closest bookings around "now" are attached as well.
func (s *ItemService) GetByID(ctx context.Context, requesterID, itemID int64) (*models.ItemView, error) {
	item, err := s.items.GetItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", itemID, err)
	}

	comments, err := s.comments.GetCommentsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	view := &models.ItemView{Item: *item, Comments: comments}
	if comments == nil {
		view.Comments = []*models.Comment{}
	}

	if requesterID == item.OwnerID {
		last, next, err := s.bookings.LastAndNextBooking(ctx, itemID, time.Now())
		if err != nil {
			return nil, err
		}
		view.LastBooking = last
		view.NextBooking = next
	}

	return view, nil
}

func (s *ItemService) GetByOwner(ctx context.Context, ownerID int64) ([]*models.ItemView, error) {
	items, err := s.items.GetItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []*models.ItemView{}, nil
	}

	itemIDs := make([]int64, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}

	comments, err := s.comments.GetCommentsByItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	commentsByItem := make(map[int64][]*models.Comment)
	for _, c := range comments {
		commentsByItem[c.ItemID] = append(commentsByItem[c.ItemID], c)
	}

	now := time.Now()
	views := make([]*models.ItemView, 0, len(items))
	for _, item := range items {
		view := &models.ItemView{Item: *item, Comments: commentsByItem[item.ID]}
		if view.Comments == nil {
			view.Comments = []*models.Comment{}
		}

		last, next, err := s.bookings.LastAndNextBooking(ctx, item.ID, now)
		if err != nil {
			return nil, err
		}
		view.LastBooking = last
		view.NextBooking = next

		views = append(views, view)
	}
	return views, nil
}

// Search performs a free-text lookup over available items.
// A blank query yields an empty result rather than a full scan.
func (s *ItemService) Search(ctx context.Context, text string) ([]*models.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []*models.Item{}, nil
	}
	items, err := s.items.SearchItems(ctx, text)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.Item{}
	}
	return items, nil
}

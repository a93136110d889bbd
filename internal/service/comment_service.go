package service

import (
	"context"
	"fmt"
	"strings"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// CommentService stores comments on items. A comment is only accepted from a
// user who has an approved rental of the item that has already ended; the
// booking engine is the authority on that.
type CommentService struct {
	comments domain.CommentStore
	items    domain.ItemStore
	users    domain.UserStore
	bookings domain.BookingService
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewCommentService(comments domain.CommentStore, items domain.ItemStore, users domain.UserStore, bookings domain.BookingService, eventBus domain.EventPublisher, logger *zerolog.Logger) *CommentService {
	return &CommentService{
		comments: comments,
		items:    items,
		users:    users,
		bookings: bookings,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *CommentService) AddComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("comment text must not be blank: %w", database.ErrInvalidInput)
	}

	author, err := s.users.GetUser(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", authorID, err)
	}

	exists, err := s.items.ItemExists(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("item %d: %w", itemID, database.ErrNotFound)
	}

	if err := s.bookings.HasQualifyingRental(ctx, authorID, itemID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:       text,
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		payload := events.CommentEventPayload{
			CommentID: comment.ID,
			ItemID:    comment.ItemID,
			AuthorID:  comment.AuthorID,
		}
		if err := s.eventBus.PublishJSON(events.EventCommentAdded, payload); err != nil {
			s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("publish event error")
		}
	}

	return comment, nil
}

func (s *CommentService) GetByItem(ctx context.Context, itemID int64) ([]*models.Comment, error) {
	return s.comments.GetCommentsByItem(ctx, itemID)
}

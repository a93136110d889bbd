package service

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// BookingService owns the booking lifecycle: creation checks, the
// WAITING -> APPROVED/REJECTED state machine and the filtered query surface.
// Items and users are only reached through their store interfaces.
type BookingService struct {
	bookings domain.BookingStore
	items    domain.ItemStore
	users    domain.UserStore
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(bookings domain.BookingStore, items domain.ItemStore, users domain.UserStore, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		items:    items,
		users:    users,
		eventBus: eventBus,
		logger:   logger,
	}
}

// AddBooking validates the request and persists a WAITING booking.
// Checks run in a fixed order; the first violated one determines the error.
func (s *BookingService) AddBooking(ctx context.Context, req *models.BookingRequest) (*models.BookingView, error) {
	item, err := s.items.GetItem(ctx, req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", req.ItemID, err)
	}

	booker, err := s.users.GetUser(ctx, req.BookerID)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", req.BookerID, err)
	}

	if item.OwnerID == req.BookerID {
		return nil, fmt.Errorf("a user cannot book their own item: %w", database.ErrNotFound)
	}

	if !item.Available {
		return nil, fmt.Errorf("item %d: %w", item.ID, database.ErrNotAvailable)
	}

	if !req.Start.Before(req.End) {
		return nil, fmt.Errorf("start must be before end: %w", database.ErrInvalidPeriod)
	}

	now := time.Now()
	if req.Start.Before(now) || req.End.Before(now) {
		return nil, fmt.Errorf("booking cannot start or end in the past: %w", database.ErrInvalidPeriod)
	}

	booking := &models.Booking{
		Start:    req.Start,
		End:      req.End,
		ItemID:   item.ID,
		BookerID: booker.ID,
		Status:   models.StatusWaiting,
	}
	if err := s.bookings.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.publishEvent(events.EventBookingCreated, booking)

	view := toView(booking, booking.Status)
	view.Item = item
	view.Booker = booker
	return view, nil
}

// PatchBooking applies the owner's approve/reject decision. Only the owner
// of the booked item may decide, and a booking that is already APPROVED
// never transitions again; the guard is re-checked inside the write
// transaction so a concurrent double-approval cannot slip through.
func (s *BookingService) PatchBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.BookingView, error) {
	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("booking %d: %w", bookingID, err)
	}

	item, err := s.items.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", booking.ItemID, err)
	}
	if item.OwnerID != ownerID {
		return nil, fmt.Errorf("only the item owner may approve or reject a booking: %w", database.ErrForbidden)
	}

	status := models.StatusRejected
	eventType := events.EventBookingRejected
	if approved {
		status = models.StatusApproved
		eventType = events.EventBookingApproved
	}

	if err := s.bookings.UpdateBookingStatusGuarded(ctx, bookingID, status); err != nil {
		return nil, fmt.Errorf("booking %d: %w", bookingID, err)
	}

	booking.Status = status
	s.publishEvent(eventType, booking)

	return s.buildView(ctx, booking, booking.Status)
}

// GetBookingByID returns a single booking for its booker or the item owner,
// with the PAST overlay applied.
func (s *BookingService) GetBookingByID(ctx context.Context, requesterID, bookingID int64) (*models.BookingView, error) {
	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("booking %d: %w", bookingID, err)
	}

	item, err := s.items.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", booking.ItemID, err)
	}
	if requesterID != booking.BookerID && requesterID != item.OwnerID {
		return nil, fmt.Errorf("the requester is neither the booker nor the item owner: %w", database.ErrForbidden)
	}

	return s.buildView(ctx, booking, models.EffectiveStatus(booking, time.Now()))
}

func (s *BookingService) GetAllUsersBookings(ctx context.Context, userID int64, filter models.BookingFilter) ([]*models.BookingView, error) {
	if err := s.checkUserExists(ctx, userID); err != nil {
		return nil, err
	}

	bookings, err := s.bookings.GetBookingsByBooker(ctx, userID, filter, time.Now())
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, bookings, false)
}

func (s *BookingService) GetByOwner(ctx context.Context, ownerID int64, filter models.BookingFilter) ([]*models.BookingView, error) {
	if err := s.checkUserExists(ctx, ownerID); err != nil {
		return nil, err
	}

	itemIDs, err := s.items.ItemIDsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.GetBookingsByItems(ctx, itemIDs, filter, time.Now())
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, bookings, false)
}

func (s *BookingService) GetByBookerAndItemAndStatus(ctx context.Context, userID, itemID int64, status models.BookingStatus) ([]*models.BookingView, error) {
	bookings, err := s.bookings.GetBookingsByBookerAndItem(ctx, userID, itemID, status)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, bookings, true)
}

// HasQualifyingRental reports whether the author has an APPROVED booking of
// the item whose rental period has already ended. The comment ledger calls
// this before accepting a comment.
func (s *BookingService) HasQualifyingRental(ctx context.Context, authorID, itemID int64) error {
	bookings, err := s.bookings.GetBookingsByBookerAndItem(ctx, authorID, itemID, models.StatusApproved)
	if err != nil {
		return err
	}
	if len(bookings) == 0 {
		return database.ErrNotRented
	}

	now := time.Now()
	for _, b := range bookings {
		if models.EffectiveStatus(b, now) == models.StatusPast {
			return nil
		}
	}
	return database.ErrRentalNotFinished
}

func (s *BookingService) GetAllBookings(ctx context.Context) ([]*models.BookingView, error) {
	bookings, err := s.bookings.GetAllBookings(ctx)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, bookings, false)
}

func (s *BookingService) checkUserExists(ctx context.Context, userID int64) error {
	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("user %d: %w", userID, database.ErrNotFound)
	}
	return nil
}

func (s *BookingService) buildView(ctx context.Context, booking *models.Booking, status models.BookingStatus) (*models.BookingView, error) {
	views, err := s.buildViews(ctx, []*models.Booking{booking}, false)
	if err != nil {
		return nil, err
	}
	views[0].Status = status
	return views[0], nil
}

// buildViews attaches item and booker summaries to bookings in two batched
// lookups. The PAST overlay is applied only on the read paths that report
// client-relative status.
func (s *BookingService) buildViews(ctx context.Context, bookings []*models.Booking, overlayPast bool) ([]*models.BookingView, error) {
	if len(bookings) == 0 {
		return []*models.BookingView{}, nil
	}

	itemIDs := make([]int64, 0, len(bookings))
	userIDs := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		itemIDs = append(itemIDs, b.ItemID)
		userIDs = append(userIDs, b.BookerID)
	}

	items, err := s.items.GetItemsByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	users, err := s.users.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	itemsByID := make(map[int64]*models.Item, len(items))
	for _, item := range items {
		itemsByID[item.ID] = item
	}
	usersByID := make(map[int64]*models.User, len(users))
	for _, user := range users {
		usersByID[user.ID] = user
	}

	now := time.Now()
	views := make([]*models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		status := b.Status
		if overlayPast {
			status = models.EffectiveStatus(b, now)
		}
		view := toView(b, status)
		view.Item = itemsByID[b.ItemID]
		view.Booker = usersByID[b.BookerID]
		views = append(views, view)
	}
	return views, nil
}

func toView(b *models.Booking, status models.BookingStatus) *models.BookingView {
	return &models.BookingView{
		ID:       b.ID,
		Start:    b.Start,
		End:      b.End,
		Status:   status,
		ItemID:   b.ItemID,
		BookerID: b.BookerID,
	}
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		BookerID:  booking.BookerID,
		Status:    string(booking.Status),
		Start:     booking.Start,
		End:       booking.End,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

package service

import (
	"context"
	"io"
	"testing"
	"time"

	"shareit/internal/database"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCommentService(store *mockStore, bus *mockPublisher) *CommentService {
	logger := zerolog.New(io.Discard)
	bookings := NewBookingService(store, store, store, nil, &logger)
	if bus == nil {
		return NewCommentService(store, store, store, bookings, nil, &logger)
	}
	return NewCommentService(store, store, store, bookings, bus, &logger)
}

func endedRental() []*models.Booking {
	return []*models.Booking{{
		Start:  time.Now().Add(-4 * time.Hour),
		End:    time.Now().Add(-2 * time.Hour),
		Status: models.StatusApproved,
	}}
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		store := new(mockStore)
		bus := new(mockPublisher)
		svc := newCommentService(store, bus)

		store.On("GetUser", ctx, int64(2)).Return(&models.User{ID: 2, Name: "Maria"}, nil)
		store.On("ItemExists", ctx, int64(3)).Return(true, nil)
		store.On("GetBookingsByBookerAndItem", ctx, int64(2), int64(3), models.StatusApproved).
			Return(endedRental(), nil)
		store.On("CreateComment", ctx, mock.AnythingOfType("*models.Comment")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.Comment).ID = 5
			}).
			Return(nil)
		bus.On("PublishJSON", events.EventCommentAdded, mock.Anything).Return(nil)

		comment, err := svc.AddComment(ctx, 2, 3, "great drill")
		require.NoError(t, err)
		assert.Equal(t, int64(5), comment.ID)
		assert.Equal(t, "Maria", comment.AuthorName)
		store.AssertExpectations(t)
		bus.AssertExpectations(t)
	})

	t.Run("BlankText", func(t *testing.T) {
		store := new(mockStore)
		svc := newCommentService(store, nil)

		_, err := svc.AddComment(ctx, 2, 3, "   ")
		assert.ErrorIs(t, err, database.ErrInvalidInput)
	})

	t.Run("AuthorNotFound", func(t *testing.T) {
		store := new(mockStore)
		svc := newCommentService(store, nil)

		store.On("GetUser", ctx, int64(2)).Return(nil, database.ErrNotFound)

		_, err := svc.AddComment(ctx, 2, 3, "text")
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("ItemNotFound", func(t *testing.T) {
		store := new(mockStore)
		svc := newCommentService(store, nil)

		store.On("GetUser", ctx, int64(2)).Return(&models.User{ID: 2}, nil)
		store.On("ItemExists", ctx, int64(3)).Return(false, nil)

		_, err := svc.AddComment(ctx, 2, 3, "text")
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("NeverRented", func(t *testing.T) {
		store := new(mockStore)
		svc := newCommentService(store, nil)

		store.On("GetUser", ctx, int64(2)).Return(&models.User{ID: 2}, nil)
		store.On("ItemExists", ctx, int64(3)).Return(true, nil)
		store.On("GetBookingsByBookerAndItem", ctx, int64(2), int64(3), models.StatusApproved).
			Return([]*models.Booking{}, nil)

		_, err := svc.AddComment(ctx, 2, 3, "text")
		assert.ErrorIs(t, err, database.ErrNotRented)
		store.AssertNotCalled(t, "CreateComment", ctx, mock.Anything)
	})

	t.Run("RentalNotFinished", func(t *testing.T) {
		store := new(mockStore)
		svc := newCommentService(store, nil)

		ongoing := []*models.Booking{{
			Start:  time.Now().Add(-time.Hour),
			End:    time.Now().Add(time.Hour),
			Status: models.StatusApproved,
		}}
		store.On("GetUser", ctx, int64(2)).Return(&models.User{ID: 2}, nil)
		store.On("ItemExists", ctx, int64(3)).Return(true, nil)
		store.On("GetBookingsByBookerAndItem", ctx, int64(2), int64(3), models.StatusApproved).
			Return(ongoing, nil)

		_, err := svc.AddComment(ctx, 2, 3, "text")
		assert.ErrorIs(t, err, database.ErrRentalNotFinished)
	})
}

func TestGetCommentsByItem(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)
	svc := newCommentService(store, nil)

	comments := []*models.Comment{{ID: 1, Text: "nice"}}
	store.On("GetCommentsByItem", ctx, int64(3)).Return(comments, nil)

	got, err := svc.GetByItem(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, comments, got)
}

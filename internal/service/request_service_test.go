package service

import (
	"context"
	"io"
	"testing"

	"shareit/internal/database"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRequestService(store *mockStore) *RequestService {
	logger := zerolog.New(io.Discard)
	return NewRequestService(store, store, store, &logger)
}

func TestAddRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		store := new(mockStore)
		svc := newRequestService(store)

		store.On("UserExists", ctx, int64(2)).Return(true, nil)
		store.On("CreateRequest", ctx, mock.AnythingOfType("*models.ItemRequest")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.ItemRequest).ID = 7
			}).
			Return(nil)

		request, err := svc.Add(ctx, 2, "need a drill")
		require.NoError(t, err)
		assert.Equal(t, int64(7), request.ID)
		assert.Equal(t, int64(2), request.RequesterID)
	})

	t.Run("BlankDescription", func(t *testing.T) {
		store := new(mockStore)
		svc := newRequestService(store)

		_, err := svc.Add(ctx, 2, "  ")
		assert.ErrorIs(t, err, database.ErrInvalidInput)
	})

	t.Run("UnknownRequester", func(t *testing.T) {
		store := new(mockStore)
		svc := newRequestService(store)

		store.On("UserExists", ctx, int64(2)).Return(false, nil)

		_, err := svc.Add(ctx, 2, "need a drill")
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}

func TestRequestViews(t *testing.T) {
	ctx := context.Background()

	requests := []*models.ItemRequest{
		{ID: 7, Description: "need a drill", RequesterID: 2},
		{ID: 8, Description: "need a saw", RequesterID: 2},
	}
	offered := []*models.Item{{ID: 3, Name: "Drill", RequestID: 7}}

	t.Run("GetOwnAttachesItems", func(t *testing.T) {
		store := new(mockStore)
		svc := newRequestService(store)

		store.On("UserExists", ctx, int64(2)).Return(true, nil)
		store.On("GetRequestsByRequester", ctx, int64(2)).Return(requests, nil)
		store.On("GetItemsByRequests", ctx, []int64{7, 8}).Return(offered, nil)

		views, err := svc.GetOwn(ctx, 2)
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Len(t, views[0].Items, 1)
		assert.Empty(t, views[1].Items)
	})

	t.Run("GetAllExcludesOwn", func(t *testing.T) {
		store := new(mockStore)
		svc := newRequestService(store)

		store.On("UserExists", ctx, int64(5)).Return(true, nil)
		store.On("GetRequestsExcept", ctx, int64(5)).Return(requests, nil)
		store.On("GetItemsByRequests", ctx, []int64{7, 8}).Return(offered, nil)

		views, err := svc.GetAll(ctx, 5)
		require.NoError(t, err)
		assert.Len(t, views, 2)
	})

	t.Run("GetByID", func(t *testing.T) {
		store := new(mockStore)
		svc := newRequestService(store)

		store.On("UserExists", ctx, int64(5)).Return(true, nil)
		store.On("GetRequest", ctx, int64(7)).Return(requests[0], nil)
		store.On("GetItemsByRequests", ctx, []int64{7}).Return(offered, nil)

		view, err := svc.GetByID(ctx, 5, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), view.ID)
		assert.Len(t, view.Items, 1)
	})

	t.Run("GetByIDNotFound", func(t *testing.T) {
		store := new(mockStore)
		svc := newRequestService(store)

		store.On("UserExists", ctx, int64(5)).Return(true, nil)
		store.On("GetRequest", ctx, int64(9)).Return(nil, database.ErrNotFound)

		_, err := svc.GetByID(ctx, 5, 9)
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}

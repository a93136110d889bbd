package service

import (
	"context"
	"fmt"
	"strings"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// RequestService manages item requests: wishes posted by users that item
// owners can respond to by attaching new items.
type RequestService struct {
	requests domain.RequestStore
	items    domain.ItemStore
	users    domain.UserStore
	logger   *zerolog.Logger
}

func NewRequestService(requests domain.RequestStore, items domain.ItemStore, users domain.UserStore, logger *zerolog.Logger) *RequestService {
	return &RequestService{
		requests: requests,
		items:    items,
		users:    users,
		logger:   logger,
	}
}

func (s *RequestService) Add(ctx context.Context, requesterID int64, description string) (*models.ItemRequest, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("request description must not be blank: %w", database.ErrInvalidInput)
	}
	if err := s.checkUserExists(ctx, requesterID); err != nil {
		return nil, err
	}

	request := &models.ItemRequest{
		Description: description,
		RequesterID: requesterID,
	}
	if err := s.requests.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *RequestService) GetOwn(ctx context.Context, requesterID int64) ([]*models.ItemRequestView, error) {
	if err := s.checkUserExists(ctx, requesterID); err != nil {
		return nil, err
	}

	requests, err := s.requests.GetRequestsByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, requests)
}

func (s *RequestService) GetAll(ctx context.Context, requesterID int64) ([]*models.ItemRequestView, error) {
	if err := s.checkUserExists(ctx, requesterID); err != nil {
		return nil, err
	}

	requests, err := s.requests.GetRequestsExcept(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, requests)
}

func (s *RequestService) GetByID(ctx context.Context, requesterID, requestID int64) (*models.ItemRequestView, error) {
	if err := s.checkUserExists(ctx, requesterID); err != nil {
		return nil, err
	}

	request, err := s.requests.GetRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("request %d: %w", requestID, err)
	}

	views, err := s.buildViews(ctx, []*models.ItemRequest{request})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *RequestService) checkUserExists(ctx context.Context, userID int64) error {
	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("user %d: %w", userID, database.ErrNotFound)
	}
	return nil
}

// buildViews attaches the items offered in response to each request.
func (s *RequestService) buildViews(ctx context.Context, requests []*models.ItemRequest) ([]*models.ItemRequestView, error) {
	if len(requests) == 0 {
		return []*models.ItemRequestView{}, nil
	}

	requestIDs := make([]int64, 0, len(requests))
	for _, r := range requests {
		requestIDs = append(requestIDs, r.ID)
	}

	items, err := s.items.GetItemsByRequests(ctx, requestIDs)
	if err != nil {
		return nil, err
	}
	itemsByRequest := make(map[int64][]*models.Item)
	for _, item := range items {
		itemsByRequest[item.RequestID] = append(itemsByRequest[item.RequestID], item)
	}

	views := make([]*models.ItemRequestView, 0, len(requests))
	for _, r := range requests {
		view := &models.ItemRequestView{ItemRequest: *r, Items: itemsByRequest[r.ID]}
		if view.Items == nil {
			view.Items = []*models.Item{}
		}
		views = append(views, view)
	}
	return views, nil
}

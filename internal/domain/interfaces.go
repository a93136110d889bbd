package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// Store contracts implemented by the sqlite layer. The booking engine only
// ever talks to items and users through these interfaces, never through an
// embedded object graph.

type BookingStore interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatusGuarded(ctx context.Context, id int64, status models.BookingStatus) error
	GetBookingsByBooker(ctx context.Context, bookerID int64, filter models.BookingFilter, now time.Time) ([]*models.Booking, error)
	GetBookingsByItems(ctx context.Context, itemIDs []int64, filter models.BookingFilter, now time.Time) ([]*models.Booking, error)
	GetBookingsByBookerAndItem(ctx context.Context, bookerID, itemID int64, status models.BookingStatus) ([]*models.Booking, error)
	GetAllBookings(ctx context.Context) ([]*models.Booking, error)
	LastAndNextBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, *models.Booking, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	GetUsersByIDs(ctx context.Context, ids []int64) ([]*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
}

type ItemStore interface {
	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	ItemExists(ctx context.Context, id int64) (bool, error)
	GetItemsByIDs(ctx context.Context, ids []int64) ([]*models.Item, error)
	GetItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error)
	ItemIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error)
	GetItemsByRequests(ctx context.Context, requestIDs []int64) ([]*models.Item, error)
	SearchItems(ctx context.Context, text string) ([]*models.Item, error)
}

type CommentStore interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItem(ctx context.Context, itemID int64) ([]*models.Comment, error)
	GetCommentsByItems(ctx context.Context, itemIDs []int64) ([]*models.Comment, error)
}

type RequestStore interface {
	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error)
	RequestExists(ctx context.Context, id int64) (bool, error)
	GetRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error)
	GetRequestsExcept(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error)
}

// Store is the full persistence surface; *database.DB satisfies it.
type Store interface {
	BookingStore
	UserStore
	ItemStore
	CommentStore
	RequestStore
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// RateLimitRepository counts caller requests within a sliding window.
type RateLimitRepository interface {
	Allow(ctx context.Context, callerID int64, limit int, window time.Duration) (bool, error)
}

// Service contracts consumed by the HTTP layer.

type BookingService interface {
	AddBooking(ctx context.Context, req *models.BookingRequest) (*models.BookingView, error)
	PatchBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.BookingView, error)
	GetBookingByID(ctx context.Context, requesterID, bookingID int64) (*models.BookingView, error)
	GetAllUsersBookings(ctx context.Context, userID int64, filter models.BookingFilter) ([]*models.BookingView, error)
	GetByOwner(ctx context.Context, ownerID int64, filter models.BookingFilter) ([]*models.BookingView, error)
	GetByBookerAndItemAndStatus(ctx context.Context, userID, itemID int64, status models.BookingStatus) ([]*models.BookingView, error)
	HasQualifyingRental(ctx context.Context, authorID, itemID int64) error
	GetAllBookings(ctx context.Context) ([]*models.BookingView, error)
}

type CommentService interface {
	AddComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error)
	GetByItem(ctx context.Context, itemID int64) ([]*models.Comment, error)
}

type ItemService interface {
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	Update(ctx context.Context, ownerID, itemID int64, patch *models.ItemPatch) (*models.Item, error)
	GetByID(ctx context.Context, requesterID, itemID int64) (*models.ItemView, error)
	GetByOwner(ctx context.Context, ownerID int64) ([]*models.ItemView, error)
	Search(ctx context.Context, text string) ([]*models.Item, error)
}

type UserService interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id int64, patch *models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
}

type RequestService interface {
	Add(ctx context.Context, requesterID int64, description string) (*models.ItemRequest, error)
	GetOwn(ctx context.Context, requesterID int64) ([]*models.ItemRequestView, error)
	GetAll(ctx context.Context, requesterID int64) ([]*models.ItemRequestView, error)
	GetByID(ctx context.Context, requesterID, requestID int64) (*models.ItemRequestView, error)
}

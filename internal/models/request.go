package models

import "time"

// ItemRequest is a wish posted by a user; owners may attach items to it
// via Item.RequestID.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequesterID int64     `json:"requester_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ItemRequestView is a request together with the items offered in response.
type ItemRequestView struct {
	ItemRequest
	Items []*Item `json:"items"`
}

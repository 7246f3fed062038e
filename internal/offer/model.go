package offer

import "time"

// Status is the lifecycle state of an offer. Offers start pending and end in
// exactly one of the terminal states; terminal states never change again.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Offer is a monetary bid by a buyer on another user's game.
type Offer struct {
	ID        string
	GameID    string
	BuyerID   string
	Amount    int64
	Status    Status
	CreatedAt time.Time
}

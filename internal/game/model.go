package game

import "time"

// Game is a listing offered for sale by its owner.
type Game struct {
	ID        string
	OwnerID   string
	Name      string
	System    string
	Condition string
	Price     int64
	CreatedAt time.Time
}

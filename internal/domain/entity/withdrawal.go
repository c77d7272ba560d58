package entity

import "time"

// Withdrawal es el registro (append-only) de una retirada de stock de un local hacia un destino.
type Withdrawal struct {
	ID          int64
	ProductID   int64
	UserID      int64
	LocationID  int64
	Quantity    int
	Destination string
	CreatedAt   time.Time
}

package entity

import (
	"math"
	"time"
)

// MaxQuantity mayor cantidad que admite una fila (columna INTEGER).
const MaxQuantity = math.MaxInt32

// StockEntry es la cantidad de un producto en un local (tabla product_stocks).
// Invariante: Quantity >= 0; (ProductID, LocationID) es único.
type StockEntry struct {
	ID         int64
	ProductID  int64
	LocationID int64
	Quantity   int
	UpdatedAt  time.Time
}

// CanWithdraw indica si la fila admite retirar qty unidades sin quedar negativa.
func (s *StockEntry) CanWithdraw(qty int) bool {
	return s != nil && qty > 0 && qty <= s.Quantity
}

package entity

import "time"

// Product representa un producto del catálogo. Es compartido por todos los stocks;
// la cantidad vive en StockEntry (una fila por producto y local).
type Product struct {
	ID        int64
	Name      string
	ExpiresAt time.Time // solo fecha (medianoche UTC)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExpiresWithin indica si el producto vence en o antes de cutoff (comparación por fecha).
func (p *Product) ExpiresWithin(cutoff time.Time) bool {
	return !DateOnly(p.ExpiresAt).After(DateOnly(cutoff))
}

// DateOnly trunca t a la medianoche UTC de su fecha de calendario.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

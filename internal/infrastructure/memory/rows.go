package memory

import "github.com/jhoicas/estoque-api/internal/domain/entity"

// Las filas se guardan por valor; los repositorios devuelven copias para que
// quien llama no pueda modificar el estado sin pasar por un método.
type (
	productRow    entity.Product
	locationRow   entity.Location
	stockRow      entity.StockEntry
	userRow       entity.User
	withdrawalRow entity.Withdrawal
)

func (r productRow) entity() *entity.Product {
	p := entity.Product(r)
	return &p
}

func (r locationRow) entity() *entity.Location {
	l := entity.Location(r)
	return &l
}

func (r stockRow) entity() *entity.StockEntry {
	s := entity.StockEntry(r)
	return &s
}

func (r userRow) entity() *entity.User {
	u := entity.User(r)
	if r.LocationID != nil {
		id := *r.LocationID
		u.LocationID = &id
	}
	return &u
}

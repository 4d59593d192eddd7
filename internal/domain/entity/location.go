package entity

import "time"

// Tipos de ubicación (solo para filtrado/visualización de los colaboradores).
const (
	LocationKindWarehouse = "warehouse"
	LocationKindShowroom  = "showroom"
	LocationKindYard      = "yard"
	LocationKindRetail    = "retail"
)

// Location representa una bodega, showroom, patio o tienda donde se almacena inventario.
type Location struct {
	ID        string
	Name      string
	Kind      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

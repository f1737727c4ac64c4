package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo inventariable. El SKU es la clave de negocio:
// único en todo el sistema e inmutable después del alta.
// El saldo NO se guarda aquí; siempre se deriva del libro de movimientos.
type Item struct {
	ID        string
	SKU       string // código único de artículo
	Name      string
	Category  string          // vacío = sin categoría
	Unit      string          // unidad de medida, por defecto "pcs"
	MinStock  decimal.Decimal // umbral de stock mínimo para alertas
	CreatedAt time.Time
	UpdatedAt time.Time
}

package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SearchFilter predicados de búsqueda de inventario. Todos opcionales y
// combinables; los predicados sobre saldo se evalúan contra el MISMO saldo
// derivado que se devuelve en las filas.
type SearchFilter struct {
	Query      string // coincidencia parcial en sku/nombre/categoría
	Category   string // igualdad exacta de categoría
	LowOnly    bool   // solo artículos con saldo < stock mínimo
	MinBalance *decimal.Decimal
	MaxBalance *decimal.Decimal
}

// SortKey un criterio de ordenamiento ya validado.
type SortKey struct {
	Field string // id, sku, name, balance, min_stock, category, unit
	Desc  bool
}

// SearchRow proyección de solo lectura: artículo + saldo derivado.
type SearchRow struct {
	Item    entity.Item
	Balance decimal.Decimal
	Low     bool // saldo por debajo del stock mínimo
}

// InventorySearchRepository ejecuta el plan filtro+saldo+orden+ventana como
// una única consulta declarativa en el motor de almacenamiento. Search y
// Export comparten la misma composición; solo difiere la ventana.
type InventorySearchRepository interface {
	// Search devuelve la página [(page-1)*size, page*size) y el total sin paginar.
	Search(ctx context.Context, filter SearchFilter, sort []SortKey, page, size int) ([]SearchRow, int, error)
	// Export devuelve todas las filas que coinciden, en el mismo orden que Search.
	Export(ctx context.Context, filter SearchFilter, sort []SortKey) ([]SearchRow, error)
}

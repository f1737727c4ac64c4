package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MovementFilter filtros para el historial de movimientos de un artículo.
type MovementFilter struct {
	From *time.Time
	To   *time.Time
	Kind string // vacío = todos
}

// StockMovementRepository es el puerto del libro de stock. Es deliberadamente
// append-only: no existe Update ni Delete para movimientos, las correcciones
// se registran como nuevos ADJUST.
type StockMovementRepository interface {
	Append(ctx context.Context, m *entity.StockMovement) error
	// SumByItem deriva el saldo actual: suma con signo de todo el historial.
	// Un artículo sin movimientos suma 0.
	SumByItem(ctx context.Context, itemID string) (decimal.Decimal, error)
	// SumsFor deriva los saldos de varios artículos en una sola agregación.
	// Los artículos sin movimientos no aparecen en el mapa.
	SumsFor(ctx context.Context, itemIDs []string) (map[string]decimal.Decimal, error)
	// ListByItem devuelve el historial filtrado, más reciente primero, con el
	// total sin paginar.
	ListByItem(ctx context.Context, itemID string, f MovementFilter, limit, offset int) ([]*entity.StockMovement, int, error)
	// ListByItemAsc devuelve todo el historial en orden cronológico (para la
	// reconstrucción de tendencias).
	ListByItemAsc(ctx context.Context, itemID string) ([]*entity.StockMovement, error)
	ExistsForItem(ctx context.Context, itemID string) (bool, error)
}

package stock

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Todas las sentencias de una operación corren
// en un mismo scope: los filtros y los saldos devueltos salen del mismo
// snapshot, y un append concurrente no puede colarse entre medio.
type TxRunner interface {
	// Run scope de escritura (appends, altas/bajas de artículos).
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		movRepo repository.StockMovementRepository,
	) error) error

	// RunRead scope de lectura para búsqueda/export/tendencia.
	RunRead(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		movRepo repository.StockMovementRepository,
		searchRepo repository.InventorySearchRepository,
	) error) error
}

// AuditSink recibe un evento estructurado por cada append al libro y por cada
// paso de migración. La implementación debe ser best-effort: Emit no devuelve
// error y jamás hace fallar la operación auditada.
type AuditSink interface {
	Emit(event string, fields map[string]any)
}

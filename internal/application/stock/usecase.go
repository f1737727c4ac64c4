package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Límites de paginación y ventana de tendencia.
const (
	MaxPageSize  = 200
	MaxTrendDays = 365
)

// UseCase motor del libro de stock: appends transaccionales, saldos
// derivados, búsqueda/export con plan compartido y tendencias.
type UseCase struct {
	txRunner      TxRunner
	audit         AuditSink
	allowNegative bool
}

// NewUseCase construye el caso de uso. allowNegative es la política de
// sobregiro (ver config STOCK_ALLOW_NEGATIVE).
func NewUseCase(txRunner TxRunner, audit AuditSink, allowNegative bool) *UseCase {
	return &UseCase{txRunner: txRunner, audit: audit, allowNegative: allowNegative}
}

// AppendResult movimiento registrado más el saldo derivado en la misma
// transacción (mismo snapshot que validó el append).
type AppendResult struct {
	Movement *entity.StockMovement
	Balance  decimal.Decimal
}

// StockIn registra una entrada. qty debe ser positiva.
func (uc *UseCase) StockIn(ctx context.Context, itemID string, qty decimal.Decimal, ref string) (*AppendResult, error) {
	if !qty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	return uc.append(ctx, entity.MovementKindIN, itemID, qty, ref)
}

// StockOut registra una salida. qty debe ser positiva; la agregación la resta.
func (uc *UseCase) StockOut(ctx context.Context, itemID string, qty decimal.Decimal, ref string) (*AppendResult, error) {
	if !qty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	return uc.append(ctx, entity.MovementKindOUT, itemID, qty, ref)
}

// Adjust registra un ajuste con delta firmado, distinto de cero.
func (uc *UseCase) Adjust(ctx context.Context, itemID string, qty decimal.Decimal, ref string) (*AppendResult, error) {
	if qty.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	return uc.append(ctx, entity.MovementKindADJUST, itemID, qty, ref)
}

// Append registra un movimiento de tipo arbitrario (camino genérico para el
// boundary HTTP). Valida el tipo antes de tocar el almacenamiento.
func (uc *UseCase) Append(ctx context.Context, kind, itemID string, qty decimal.Decimal, ref string) (*AppendResult, error) {
	switch kind {
	case entity.MovementKindIN:
		return uc.StockIn(ctx, itemID, qty, ref)
	case entity.MovementKindOUT:
		return uc.StockOut(ctx, itemID, qty, ref)
	case entity.MovementKindADJUST:
		return uc.Adjust(ctx, itemID, qty, ref)
	}
	return nil, domain.ErrInvalidKind
}

// append camino común: una transacción que verifica el artículo, aplica la
// política de sobregiro, persiste el movimiento y deriva el saldo resultante.
func (uc *UseCase) append(ctx context.Context, kind, itemID string, qty decimal.Decimal, ref string) (*AppendResult, error) {
	if itemID == "" {
		return nil, domain.ErrInvalidInput
	}

	m := &entity.StockMovement{
		ID:       uuid.New().String(),
		ItemID:   itemID,
		Kind:     kind,
		Quantity: qty,
		Ref:      ref,
		MovedAt:  time.Now().UTC(),
	}

	signed := m.SignedQuantity()
	strict := !uc.allowNegative && signed.IsNegative()

	var balance decimal.Decimal
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.StockMovementRepository,
	) error {
		var item *entity.Item
		var err error
		if strict {
			// La validación de sobregiro es leer-y-decidir: sin el lock de la
			// fila del artículo, dos salidas concurrentes leerían el mismo
			// saldo y ambas pasarían. El FOR UPDATE serializa los appends
			// por artículo mientras dura la transacción.
			item, err = itemRepo.GetByIDForUpdate(ctx, itemID)
		} else {
			item, err = itemRepo.GetByID(ctx, itemID)
		}
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}

		if strict {
			// El saldo se deriva dentro de la MISMA transacción que valida,
			// ya con la fila bloqueada.
			current, err := movRepo.SumByItem(ctx, itemID)
			if err != nil {
				return err
			}
			if current.Add(signed).IsNegative() {
				return domain.ErrInsufficientStock
			}
		}

		if err := movRepo.Append(ctx, m); err != nil {
			return err
		}
		balance, err = movRepo.SumByItem(ctx, itemID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Emit("stock."+kind, map[string]any{
		"movement_id": m.ID,
		"item_id":     itemID,
		"kind":        kind,
		"qty":         qty.String(),
		"ref":         ref,
	})
	return &AppendResult{Movement: m, Balance: balance}, nil
}

// Balance deriva el saldo actual de un artículo (suma firmada del historial
// completo; 0 si no tiene movimientos).
func (uc *UseCase) Balance(ctx context.Context, itemID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := uc.txRunner.RunRead(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.StockMovementRepository,
		_ repository.InventorySearchRepository,
	) error {
		item, err := itemRepo.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		balance, err = movRepo.SumByItem(ctx, itemID)
		return err
	})
	return balance, err
}

// BalancesFor deriva los saldos de varios artículos en una sola agregación.
// Los artículos sin movimientos aparecen con 0 (ausencia es cero, no null).
func (uc *UseCase) BalancesFor(ctx context.Context, itemIDs []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	err := uc.txRunner.RunRead(ctx, func(
		_ repository.ItemRepository,
		movRepo repository.StockMovementRepository,
		_ repository.InventorySearchRepository,
	) error {
		sums, err := movRepo.SumsFor(ctx, itemIDs)
		if err != nil {
			return err
		}
		for _, id := range itemIDs {
			if bal, ok := sums[id]; ok {
				out[id] = bal
			} else {
				out[id] = decimal.Zero
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Balances deriva el saldo de todos los artículos registrados.
func (uc *UseCase) Balances(ctx context.Context) (map[string]decimal.Decimal, error) {
	var out map[string]decimal.Decimal
	err := uc.txRunner.RunRead(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.StockMovementRepository,
		_ repository.InventorySearchRepository,
	) error {
		// Dos pasadas en el mismo snapshot: ids y agregación.
		items, err := itemRepo.List(ctx, 0, 0)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ID)
		}
		sums := map[string]decimal.Decimal{}
		if len(ids) > 0 {
			sums, err = movRepo.SumsFor(ctx, ids)
			if err != nil {
				return err
			}
		}
		out = make(map[string]decimal.Decimal, len(ids))
		for _, id := range ids {
			if bal, ok := sums[id]; ok {
				out[id] = bal
			} else {
				out[id] = decimal.Zero
			}
		}
		return nil
	})
	return out, err
}

// Search ejecuta el plan filtro+saldo+orden+ventana. page es 1-based; el
// total devuelto es el conteo pre-paginación.
func (uc *UseCase) Search(ctx context.Context, filter repository.SearchFilter, sortBy, sortDir string, page, size int) ([]repository.SearchRow, int, error) {
	if page < 1 || size < 1 || size > MaxPageSize {
		return nil, 0, domain.ErrInvalidInput
	}
	sort, err := ParseSort(sortBy, sortDir, "id")
	if err != nil {
		return nil, 0, err
	}
	var rows []repository.SearchRow
	var total int
	err = uc.txRunner.RunRead(ctx, func(
		_ repository.ItemRepository,
		_ repository.StockMovementRepository,
		searchRepo repository.InventorySearchRepository,
	) error {
		rows, total, err = searchRepo.Search(ctx, filter, sort, page, size)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Export devuelve TODAS las filas que coinciden, con la misma composición de
// filtro, saldo y orden que Search: lo que se ve en pantalla es exactamente
// lo que se exporta, fila por fila.
func (uc *UseCase) Export(ctx context.Context, filter repository.SearchFilter, sortBy, sortDir string) ([]repository.SearchRow, error) {
	sort, err := ParseSort(sortBy, sortDir, "sku")
	if err != nil {
		return nil, err
	}
	var rows []repository.SearchRow
	err = uc.txRunner.RunRead(ctx, func(
		_ repository.ItemRepository,
		_ repository.StockMovementRepository,
		searchRepo repository.InventorySearchRepository,
	) error {
		rows, err = searchRepo.Export(ctx, filter, sort)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Movements devuelve el historial de un artículo (más reciente primero) y el
// total sin paginar.
func (uc *UseCase) Movements(ctx context.Context, itemID string, f repository.MovementFilter, page, size int) ([]*entity.StockMovement, int, error) {
	if page < 1 || size < 1 || size > MaxPageSize {
		return nil, 0, domain.ErrInvalidInput
	}
	if f.Kind != "" && !entity.ValidKind(f.Kind) {
		return nil, 0, domain.ErrInvalidKind
	}
	var movs []*entity.StockMovement
	var total int
	err := uc.txRunner.RunRead(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.StockMovementRepository,
		_ repository.InventorySearchRepository,
	) error {
		item, err := itemRepo.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		movs, total, err = movRepo.ListByItem(ctx, itemID, f, size, (page-1)*size)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return movs, total, nil
}

// Trend reconstruye la serie diaria de saldo de los últimos days días.
// Siempre devuelve un punto por día, incluso sin movimientos en la ventana.
func (uc *UseCase) Trend(ctx context.Context, itemID string, days int) ([]TrendPoint, error) {
	if days < 1 || days > MaxTrendDays {
		return nil, domain.ErrInvalidInput
	}
	var series []TrendPoint
	err := uc.txRunner.RunRead(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.StockMovementRepository,
		_ repository.InventorySearchRepository,
	) error {
		item, err := itemRepo.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		movs, err := movRepo.ListByItemAsc(ctx, itemID)
		if err != nil {
			return err
		}
		series = buildTrend(movs, time.Now(), days)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}

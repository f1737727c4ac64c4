package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Ensure TxRunner implements stock.TxRunner.
var _ stock.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Cada operación del núcleo usa un único scope corto: todas sus sentencias
// ven el mismo snapshot. La espera por locks está acotada con lock_timeout;
// al vencerse la operación sale con ErrStorageBusy (reintentable), nunca se
// queda bloqueada en silencio.
type TxRunner struct {
	pool          *pgxpool.Pool
	lockTimeoutMS int
}

// NewTxRunner construye el runner con el pool. lockTimeoutMS <= 0 usa 5000.
func NewTxRunner(pool *pgxpool.Pool, lockTimeoutMS int) *TxRunner {
	if lockTimeoutMS <= 0 {
		lockTimeoutMS = 5000
	}
	return &TxRunner{pool: pool, lockTimeoutMS: lockTimeoutMS}
}

// Run inicia una transacción de escritura, ejecuta fn con repos atados a la
// tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return r.run(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return fn(NewItemRepository(tx), NewStockMovementRepository(tx))
	})
}

// RunRead inicia una transacción de solo lectura para búsqueda/export/tendencia.
func (r *TxRunner) RunRead(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.StockMovementRepository,
	searchRepo repository.InventorySearchRepository,
) error) error {
	return r.run(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, func(tx pgx.Tx) error {
		return fn(NewItemRepository(tx), NewStockMovementRepository(tx), NewInventorySearchRepository(tx))
	})
}

func (r *TxRunner) run(ctx context.Context, opts pgx.TxOptions, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// SET LOCAL aplica solo a esta transacción.
	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = %d", r.lockTimeoutMS)); err != nil {
		return fmt.Errorf("set lock_timeout: %w", err)
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = %d", r.lockTimeoutMS*6)); err != nil {
		return fmt.Errorf("set statement_timeout: %w", err)
	}

	if err := fn(tx); err != nil {
		return mapBusy(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapBusy(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

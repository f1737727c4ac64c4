package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// Expresión de saldo: IN suma, OUT resta, ADJUST aplica su delta tal cual.
// Es LA definición del saldo en SQL; búsqueda y export reutilizan la misma.
const signedSumExpr = `SUM(CASE kind WHEN 'OUT' THEN -quantity ELSE quantity END)`

// StockMovementRepo implementación del libro append-only sobre PostgreSQL
// (usable con pool o tx). No expone UPDATE ni DELETE: es contrato de diseño,
// no omisión.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Append persiste un movimiento. El FK a items garantiza que el artículo
// exista al momento de escribir.
func (r *StockMovementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, item_id, kind, quantity, ref, moved_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`
	_, err := r.q.Exec(ctx, query, m.ID, m.ItemID, m.Kind, m.Quantity, m.Ref, m.MovedAt)
	if err != nil {
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

// SumByItem deriva el saldo actual de un artículo en una sola agregación.
// Sin movimientos devuelve 0 (COALESCE), no null.
func (r *StockMovementRepo) SumByItem(ctx context.Context, itemID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(` + signedSumExpr + `, 0) FROM stock_movements WHERE item_id = $1`
	var balance decimal.Decimal
	if err := r.q.QueryRow(ctx, query, itemID).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("sum balance: %w", err)
	}
	return balance, nil
}

// SumsFor deriva los saldos de varios artículos en una sola pasada (GROUP BY).
// Artículos sin movimientos no aparecen en el mapa.
func (r *StockMovementRepo) SumsFor(ctx context.Context, itemIDs []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT item_id, ` + signedSumExpr + `
		FROM stock_movements WHERE item_id = ANY($1)
		GROUP BY item_id`
	rows, err := r.q.Query(ctx, query, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("sum balances: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var bal decimal.Decimal
		if err := rows.Scan(&id, &bal); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		out[id] = bal
	}
	return out, rows.Err()
}

const movementColumns = `id, item_id, kind, quantity, COALESCE(ref, ''), moved_at`

// ListByItem devuelve el historial filtrado (más reciente primero) y el total
// sin paginar, ambos con el mismo WHERE.
func (r *StockMovementRepo) ListByItem(ctx context.Context, itemID string, f repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, int, error) {
	where := ` WHERE item_id = $1`
	args := []any{itemID}
	pos := 2
	if f.From != nil {
		where += fmt.Sprintf(" AND moved_at >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		where += fmt.Sprintf(" AND moved_at <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	if f.Kind != "" {
		where += fmt.Sprintf(" AND kind = $%d", pos)
		args = append(args, f.Kind)
		pos++
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	query := `SELECT ` + movementColumns + ` FROM stock_movements` + where +
		fmt.Sprintf(" ORDER BY moved_at DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.Kind, &m.Quantity, &m.Ref, &m.MovedAt); err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, total, rows.Err()
}

// ListByItemAsc devuelve todo el historial en orden cronológico, para el
// replay de tendencias.
func (r *StockMovementRepo) ListByItemAsc(ctx context.Context, itemID string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE item_id = $1 ORDER BY moved_at, id`
	rows, err := r.q.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list movements asc: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.Kind, &m.Quantity, &m.Ref, &m.MovedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// ExistsForItem indica si el artículo tiene movimientos en el libro.
func (r *StockMovementRepo) ExistsForItem(ctx context.Context, itemID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM stock_movements WHERE item_id = $1)`, itemID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists movements: %w", err)
	}
	return exists, nil
}

package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.InventorySearchRepository = (*InventorySearchRepo)(nil)

// InventorySearchRepo ejecuta el plan de búsqueda/export como una única
// consulta declarativa: el saldo se agrega en una subconsulta, los filtros y
// el orden se evalúan contra ESA misma expresión, y la ventana se aplica al
// final. El motor hace todo el trabajo; nada se materializa en memoria.
type InventorySearchRepo struct {
	q Querier
}

// NewInventorySearchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventorySearchRepository(q Querier) *InventorySearchRepo {
	return &InventorySearchRepo{q: q}
}

// balanceExpr saldo derivado de la subconsulta; artículos sin movimientos
// quedan en 0 por el LEFT JOIN + COALESCE.
const balanceExpr = `COALESCE(b.balance, 0)`

// searchFrom el FROM compartido: items contra la agregación del libro.
const searchFrom = `
	FROM items i
	LEFT JOIN (
		SELECT item_id, ` + signedSumExpr + ` AS balance
		FROM stock_movements
		GROUP BY item_id
	) b ON b.item_id = i.id`

const searchColumns = `i.id, i.sku, i.name, COALESCE(i.category, ''), i.unit, i.min_stock,
		i.created_at, i.updated_at, ` + balanceExpr + ` AS balance, ` + balanceExpr + ` < i.min_stock AS low`

// Columnas ordenables. El caso de uso ya validó los campos; aun así un campo
// fuera de este mapa se rechaza, nunca se ignora: un orden silenciosamente
// distinto al pedido rompería la paginación.
var sortColumns = map[string]string{
	"id":        "i.id",
	"sku":       "i.sku",
	"name":      "i.name",
	"category":  "i.category",
	"unit":      "i.unit",
	"min_stock": "i.min_stock",
	"balance":   balanceExpr,
}

// buildSearchSQL compone WHERE y ORDER BY una sola vez para búsqueda, conteo
// y export. Que las tres rutas compartan esta función es la garantía de que
// la página que se ve y el archivo que se exporta no pueden divergir.
func buildSearchSQL(filter repository.SearchFilter, sort []repository.SortKey) (where, order string, args []any, err error) {
	var conds []string
	pos := 1

	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		conds = append(conds, fmt.Sprintf(
			"(i.sku ILIKE $%d OR i.name ILIKE $%d OR i.category ILIKE $%d)", pos, pos, pos))
		args = append(args, like)
		pos++
	}
	if filter.Category != "" {
		conds = append(conds, fmt.Sprintf("i.category = $%d", pos))
		args = append(args, filter.Category)
		pos++
	}
	if filter.MinBalance != nil {
		conds = append(conds, fmt.Sprintf(balanceExpr+" >= $%d", pos))
		args = append(args, *filter.MinBalance)
		pos++
	}
	if filter.MaxBalance != nil {
		conds = append(conds, fmt.Sprintf(balanceExpr+" <= $%d", pos))
		args = append(args, *filter.MaxBalance)
		pos++
	}
	if filter.LowOnly {
		conds = append(conds, balanceExpr+" < i.min_stock")
	}
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	terms := make([]string, 0, len(sort)+1)
	for _, k := range sort {
		col, ok := sortColumns[k.Field]
		if !ok {
			return "", "", nil, fmt.Errorf("campo de orden %q: %w", k.Field, domain.ErrInvalidSortKey)
		}
		if k.Desc {
			terms = append(terms, col+" DESC")
		} else {
			terms = append(terms, col+" ASC")
		}
	}
	// Desempate determinista: sin él, paginar sobre empates duplica o salta
	// filas entre páginas.
	terms = append(terms, "i.id ASC")
	order = " ORDER BY " + strings.Join(terms, ", ")

	return where, order, args, nil
}

// Search devuelve la página pedida y el total pre-paginación, ambos del mismo
// WHERE dentro del mismo scope transaccional.
func (r *InventorySearchRepo) Search(ctx context.Context, filter repository.SearchFilter, sort []repository.SortKey, page, size int) ([]repository.SearchRow, int, error) {
	where, order, args, err := buildSearchSQL(filter, sort)
	if err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := `SELECT COUNT(*)` + searchFrom + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count search: %w", err)
	}

	pos := len(args) + 1
	query := `SELECT ` + searchColumns + searchFrom + where + order +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, size, (page-1)*size)

	rows, err := r.queryRows(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Export devuelve todas las filas con la composición idéntica a Search,
// solo que sin ventana.
func (r *InventorySearchRepo) Export(ctx context.Context, filter repository.SearchFilter, sort []repository.SortKey) ([]repository.SearchRow, error) {
	where, order, args, err := buildSearchSQL(filter, sort)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + searchColumns + searchFrom + where + order
	return r.queryRows(ctx, query, args)
}

func (r *InventorySearchRepo) queryRows(ctx context.Context, query string, args []any) ([]repository.SearchRow, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search inventory: %w", err)
	}
	defer rows.Close()
	var list []repository.SearchRow
	for rows.Next() {
		var row repository.SearchRow
		if err := rows.Scan(
			&row.Item.ID, &row.Item.SKU, &row.Item.Name, &row.Item.Category,
			&row.Item.Unit, &row.Item.MinStock, &row.Item.CreatedAt, &row.Item.UpdatedAt,
			&row.Balance, &row.Low,
		); err != nil {
			return nil, fmt.Errorf("scan search row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

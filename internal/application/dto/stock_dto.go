package dto

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// MovementRequest body para POST /api/stock/{in,out,adjust}.
// qty: positiva para in/out; con signo y distinta de cero para adjust.
type MovementRequest struct {
	ItemID string          `json:"item_id"`
	Qty    decimal.Decimal `json:"qty"`
	Ref    string          `json:"ref,omitempty"`
}

// MovementResponse movimiento registrado más el saldo resultante.
type MovementResponse struct {
	ID      string          `json:"id"`
	ItemID  string          `json:"item_id"`
	Kind    string          `json:"kind"`
	Qty     decimal.Decimal `json:"qty"`
	Ref     string          `json:"ref,omitempty"`
	MovedAt time.Time       `json:"moved_at"`
	Balance decimal.Decimal `json:"balance"`
}

// NewMovementResponse mapea el movimiento y su saldo al DTO.
func NewMovementResponse(m *entity.StockMovement, balance decimal.Decimal) MovementResponse {
	return MovementResponse{
		ID:      m.ID,
		ItemID:  m.ItemID,
		Kind:    m.Kind,
		Qty:     m.Quantity,
		Ref:     m.Ref,
		MovedAt: m.MovedAt,
		Balance: balance,
	}
}

// MovementHistoryEntry una fila del historial de movimientos.
type MovementHistoryEntry struct {
	ID      string          `json:"id"`
	Kind    string          `json:"kind"`
	Qty     decimal.Decimal `json:"qty"`
	Ref     string          `json:"ref,omitempty"`
	MovedAt time.Time       `json:"moved_at"`
}

// BalanceResponse saldo derivado de un artículo.
type BalanceResponse struct {
	ItemID  string          `json:"item_id"`
	Balance decimal.Decimal `json:"balance"`
}

// SearchRowResponse una fila del resultado de búsqueda: artículo + saldo derivado.
type SearchRowResponse struct {
	ID       string          `json:"id"`
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Category string          `json:"category,omitempty"`
	Unit     string          `json:"unit"`
	MinStock decimal.Decimal `json:"min_stock"`
	Balance  decimal.Decimal `json:"balance"`
	Low      bool            `json:"low"`
}

// NewSearchRowResponse mapea la proyección de búsqueda al DTO.
func NewSearchRowResponse(row repository.SearchRow) SearchRowResponse {
	return SearchRowResponse{
		ID:       row.Item.ID,
		SKU:      row.Item.SKU,
		Name:     row.Item.Name,
		Category: row.Item.Category,
		Unit:     row.Item.Unit,
		MinStock: row.Item.MinStock,
		Balance:  row.Balance,
		Low:      row.Low,
	}
}

// SearchResponse página de búsqueda con total pre-paginación.
type SearchResponse struct {
	Items []SearchRowResponse `json:"items"`
	PageResponse
}

// MovementsResponse página del historial de movimientos.
type MovementsResponse struct {
	Movements []MovementHistoryEntry `json:"movements"`
	PageResponse
}

package dto

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Category string          `json:"category,omitempty"`
	Unit     string          `json:"unit,omitempty"`
	MinStock decimal.Decimal `json:"min_stock"`
}

// UpdateItemRequest body para PUT /api/items/:id. Campos nil = sin cambio.
type UpdateItemRequest struct {
	Name     *string          `json:"name,omitempty"`
	Category *string          `json:"category,omitempty"`
	Unit     *string          `json:"unit,omitempty"`
	MinStock *decimal.Decimal `json:"min_stock,omitempty"`
}

// ItemResponse representación HTTP de un artículo.
type ItemResponse struct {
	ID        string          `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Category  string          `json:"category,omitempty"`
	Unit      string          `json:"unit"`
	MinStock  decimal.Decimal `json:"min_stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewItemResponse mapea la entidad al DTO.
func NewItemResponse(it *entity.Item) ItemResponse {
	return ItemResponse{
		ID:        it.ID,
		SKU:       it.SKU,
		Name:      it.Name,
		Category:  it.Category,
		Unit:      it.Unit,
		MinStock:  it.MinStock,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}

// BulkUpsertRequest body para POST /api/items/import: lote de artículos a
// crear o actualizar por SKU.
type BulkUpsertRequest struct {
	Items []CreateItemRequest `json:"items"`
}

// BulkRowErrorResponse fila rechazada del lote, con el motivo.
type BulkRowErrorResponse struct {
	SKU    string `json:"sku"`
	Reason string `json:"reason"`
}

// BulkUpsertResponse resumen del upsert masivo.
type BulkUpsertResponse struct {
	Created int                    `json:"created"`
	Updated int                    `json:"updated"`
	Errors  []BulkRowErrorResponse `json:"errors,omitempty"`
}

// CategoryRenameRequest body para POST /api/items/categories/rename.
type CategoryRenameRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// CategoryClearRequest body para POST /api/items/categories/clear.
type CategoryClearRequest struct {
	Category string `json:"category"`
}

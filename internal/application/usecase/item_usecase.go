package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ItemUseCase altas, ediciones y bajas de artículos. Los artículos son
// referenciados por el libro de movimientos, nunca poseídos por él: la baja
// se rechaza mientras existan movimientos dependientes (política explícita,
// ver DESIGN.md).
type ItemUseCase struct {
	itemRepo repository.ItemRepository
	txRunner stock.TxRunner
	audit    stock.AuditSink
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(itemRepo repository.ItemRepository, txRunner stock.TxRunner, audit stock.AuditSink) *ItemUseCase {
	return &ItemUseCase{itemRepo: itemRepo, txRunner: txRunner, audit: audit}
}

// CreateItemInput datos de alta de un artículo.
type CreateItemInput struct {
	SKU      string
	Name     string
	Category string
	Unit     string
	MinStock decimal.Decimal
}

// Create registra un artículo nuevo. SKU y nombre obligatorios; SKU duplicado
// falla con ErrDuplicate (la unicidad la garantiza el índice único).
func (uc *ItemUseCase) Create(ctx context.Context, in CreateItemInput) (*entity.Item, error) {
	sku := strings.TrimSpace(in.SKU)
	name := strings.TrimSpace(in.Name)
	if sku == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.MinStock.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = "pcs"
	}

	now := time.Now().UTC()
	item := &entity.Item{
		ID:        uuid.New().String(),
		SKU:       sku,
		Name:      name,
		Category:  strings.TrimSpace(in.Category),
		Unit:      unit,
		MinStock:  in.MinStock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	uc.audit.Emit("item.create", map[string]any{"id": item.ID, "sku": item.SKU, "name": item.Name})
	return item, nil
}

// BulkRowError fila rechazada del upsert masivo, con el motivo.
type BulkRowError struct {
	SKU    string
	Reason string
}

// BulkUpsertResult resumen del upsert masivo: cuántos se crearon, cuántos se
// actualizaron y qué filas se rechazaron.
type BulkUpsertResult struct {
	Created int
	Updated int
	Errors  []BulkRowError
}

// BulkUpsert alta/actualización masiva por SKU en una sola transacción.
// El SKU es la clave de negocio: si ya existe se actualizan nombre, categoría,
// unidad y stock mínimo; si no, se crea el artículo. Las filas inválidas se
// reportan en el resultado sin abortar el resto del lote.
func (uc *ItemUseCase) BulkUpsert(ctx context.Context, rows []CreateItemInput) (*BulkUpsertResult, error) {
	if len(rows) == 0 {
		return nil, domain.ErrInvalidInput
	}

	res := &BulkUpsertResult{}
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		_ repository.StockMovementRepository,
	) error {
		for _, in := range rows {
			sku := strings.TrimSpace(in.SKU)
			name := strings.TrimSpace(in.Name)
			if sku == "" || name == "" {
				res.Errors = append(res.Errors, BulkRowError{SKU: sku, Reason: "sku y nombre son obligatorios"})
				continue
			}
			if in.MinStock.IsNegative() {
				res.Errors = append(res.Errors, BulkRowError{SKU: sku, Reason: "min_stock no puede ser negativo"})
				continue
			}

			existing, err := itemRepo.GetBySKU(ctx, sku)
			if err != nil {
				return err
			}
			now := time.Now().UTC()

			if existing == nil {
				unit := strings.TrimSpace(in.Unit)
				if unit == "" {
					unit = "pcs"
				}
				item := &entity.Item{
					ID:        uuid.New().String(),
					SKU:       sku,
					Name:      name,
					Category:  strings.TrimSpace(in.Category),
					Unit:      unit,
					MinStock:  in.MinStock,
					CreatedAt: now,
					UpdatedAt: now,
				}
				if err := itemRepo.Create(ctx, item); err != nil {
					return err
				}
				res.Created++
				continue
			}

			existing.Name = name
			if cat := strings.TrimSpace(in.Category); cat != "" {
				existing.Category = cat
			}
			if unit := strings.TrimSpace(in.Unit); unit != "" {
				existing.Unit = unit
			}
			existing.MinStock = in.MinStock
			existing.UpdatedAt = now
			if err := itemRepo.Update(ctx, existing); err != nil {
				return err
			}
			res.Updated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Emit("item.bulk_upsert", map[string]any{
		"created":  res.Created,
		"updated":  res.Updated,
		"rejected": len(res.Errors),
	})
	return res, nil
}

// GetByID obtiene un artículo; ErrNotFound si no existe.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// List devuelve una página de artículos (page 1-based).
func (uc *ItemUseCase) List(ctx context.Context, page, size int) ([]*entity.Item, error) {
	if page < 1 || size < 1 || size > stock.MaxPageSize {
		return nil, domain.ErrInvalidInput
	}
	return uc.itemRepo.List(ctx, size, (page-1)*size)
}

// Update aplica una edición parcial (nombre/categoría/unidad/stock mínimo) y
// refresca updated_at. El SKU no se puede modificar.
func (uc *ItemUseCase) Update(ctx context.Context, id string, patch repository.ItemUpdate) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = name
	}
	if patch.Category != nil {
		item.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Unit != nil {
		unit := strings.TrimSpace(*patch.Unit)
		if unit == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Unit = unit
	}
	if patch.MinStock != nil {
		if patch.MinStock.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.MinStock = *patch.MinStock
	}
	item.UpdatedAt = time.Now().UTC()

	if err := uc.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	uc.audit.Emit("item.update", map[string]any{"id": item.ID})
	return item, nil
}

// Delete elimina un artículo solo si no tiene movimientos en el libro.
// Con movimientos dependientes falla con ErrConflict: borrarlos en cascada
// rompería la inmutabilidad del libro y la derivabilidad de los saldos.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.StockMovementRepository,
	) error {
		item, err := itemRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		has, err := movRepo.ExistsForItem(ctx, id)
		if err != nil {
			return err
		}
		if has {
			return domain.ErrConflict
		}
		return itemRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.audit.Emit("item.delete", map[string]any{"id": id})
	return nil
}

// Categories devuelve las categorías en uso, sin repetidos ni vacíos.
func (uc *ItemUseCase) Categories(ctx context.Context) ([]string, error) {
	return uc.itemRepo.Categories(ctx)
}

// RenameCategory renombra una categoría en todos los artículos que la usan.
// Devuelve cuántos artículos cambiaron.
func (uc *ItemUseCase) RenameCategory(ctx context.Context, from, to string) (int64, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" {
		return 0, domain.ErrInvalidInput
	}
	return uc.itemRepo.RenameCategory(ctx, from, to)
}

// ClearCategory quita la categoría de todos los artículos que la tengan.
func (uc *ItemUseCase) ClearCategory(ctx context.Context, category string) (int64, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return 0, domain.ErrInvalidInput
	}
	return uc.itemRepo.ClearCategory(ctx, category)
}

package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ItemUpdate campos editables de un artículo. Punteros nil = sin cambio.
// El SKU no aparece aquí: es inmutable después del alta.
type ItemUpdate struct {
	Name     *string
	Category *string
	Unit     *string
	MinStock *decimal.Decimal
}

// ItemRepository define el puerto de persistencia para Item (DIP).
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetByIDForUpdate obtiene el artículo bloqueando su fila hasta el fin de
	// la transacción. Solo tiene sentido dentro de un scope de escritura:
	// serializa las operaciones concurrentes sobre el mismo artículo.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Item, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	// List pagina por id ascendente; limit <= 0 devuelve todos.
	List(ctx context.Context, limit, offset int) ([]*entity.Item, error)
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]string, error)
	RenameCategory(ctx context.Context, from, to string) (int64, error)
	ClearCategory(ctx context.Context, category string) (int64, error)
}

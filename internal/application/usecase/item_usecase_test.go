package usecase_test

import (
	"context"
	"testing"

	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── fakes mínimos ────────────────────────────────────────────────────────────

type fakeItems struct {
	items map[string]*entity.Item
}

func newFakeItems() *fakeItems {
	return &fakeItems{items: map[string]*entity.Item{}}
}

func (f *fakeItems) Create(_ context.Context, item *entity.Item) error {
	for _, it := range f.items {
		if it.SKU == item.SKU {
			return domain.ErrDuplicate
		}
	}
	f.items[item.ID] = item
	return nil
}

func (f *fakeItems) GetByID(_ context.Context, id string) (*entity.Item, error) {
	return f.items[id], nil
}

func (f *fakeItems) GetByIDForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeItems) GetBySKU(_ context.Context, sku string) (*entity.Item, error) {
	for _, it := range f.items {
		if it.SKU == sku {
			return it, nil
		}
	}
	return nil, nil
}

func (f *fakeItems) Update(_ context.Context, item *entity.Item) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeItems) List(_ context.Context, limit, offset int) ([]*entity.Item, error) {
	out := make([]*entity.Item, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, it)
	}
	return out, nil
}

func (f *fakeItems) Delete(_ context.Context, id string) error {
	delete(f.items, id)
	return nil
}

func (f *fakeItems) Categories(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, it := range f.items {
		if it.Category != "" && !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, it.Category)
		}
	}
	return out, nil
}

func (f *fakeItems) RenameCategory(_ context.Context, from, to string) (int64, error) {
	var n int64
	for _, it := range f.items {
		if it.Category == from {
			it.Category = to
			n++
		}
	}
	return n, nil
}

func (f *fakeItems) ClearCategory(_ context.Context, category string) (int64, error) {
	var n int64
	for _, it := range f.items {
		if it.Category == category {
			it.Category = ""
			n++
		}
	}
	return n, nil
}

// fakeMovExists solo responde ExistsForItem; el resto del puerto no se toca
// desde ItemUseCase.
type fakeMovExists struct {
	repository.StockMovementRepository
	hasMovements map[string]bool
}

func (f *fakeMovExists) ExistsForItem(_ context.Context, itemID string) (bool, error) {
	return f.hasMovements[itemID], nil
}

type fakeTx struct {
	items *fakeItems
	movs  *fakeMovExists
}

func (t *fakeTx) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return fn(t.items, t.movs)
}

func (t *fakeTx) RunRead(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.StockMovementRepository,
	searchRepo repository.InventorySearchRepository,
) error) error {
	return fn(t.items, t.movs, nil)
}

type nopAudit struct{}

func (nopAudit) Emit(string, map[string]any) {}

func newItemFixture() (*usecase.ItemUseCase, *fakeItems, *fakeMovExists) {
	items := newFakeItems()
	movs := &fakeMovExists{hasMovements: map[string]bool{}}
	uc := usecase.NewItemUseCase(items, &fakeTx{items: items, movs: movs}, nopAudit{})
	return uc, items, movs
}

// ── tests ────────────────────────────────────────────────────────────────────

func TestItemCreate_AltaBasica(t *testing.T) {
	uc, _, _ := newItemFixture()

	item, err := uc.Create(context.Background(), usecase.CreateItemInput{
		SKU:      "  TOR-001  ",
		Name:     " Tornillo 3mm ",
		Category: "ferretería",
		MinStock: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "TOR-001", item.SKU, "el SKU se guarda sin espacios")
	assert.Equal(t, "Tornillo 3mm", item.Name)
	assert.Equal(t, "pcs", item.Unit, "unidad por defecto")
	assert.False(t, item.CreatedAt.IsZero())
}

func TestItemCreate_Validaciones(t *testing.T) {
	uc, _, _ := newItemFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		in   usecase.CreateItemInput
	}{
		{"sin sku", usecase.CreateItemInput{Name: "x"}},
		{"sin nombre", usecase.CreateItemInput{SKU: "A-1"}},
		{"sku en blanco", usecase.CreateItemInput{SKU: "   ", Name: "x"}},
		{"min_stock negativo", usecase.CreateItemInput{SKU: "A-1", Name: "x", MinStock: decimal.NewFromInt(-1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(ctx, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestItemCreate_SKUDuplicadoFalla(t *testing.T) {
	uc, _, _ := newItemFixture()
	ctx := context.Background()

	_, err := uc.Create(ctx, usecase.CreateItemInput{SKU: "DUP-1", Name: "uno"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, usecase.CreateItemInput{SKU: "DUP-1", Name: "otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestBulkUpsert_CreaYActualizaPorSKU(t *testing.T) {
	uc, items, _ := newItemFixture()
	ctx := context.Background()

	existing, err := uc.Create(ctx, usecase.CreateItemInput{
		SKU: "BU-1", Name: "original", Category: "a", Unit: "kg",
		MinStock: decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	res, err := uc.BulkUpsert(ctx, []usecase.CreateItemInput{
		{SKU: "BU-1", Name: "renovado", Category: "ferretería", MinStock: decimal.NewFromInt(8)},
		{SKU: "BU-2", Name: "nuevo", MinStock: decimal.NewFromInt(1)},
		{SKU: "", Name: "sin sku"},
		{SKU: "BU-3", Name: "malo", MinStock: decimal.NewFromInt(-1)},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)
	require.Len(t, res.Errors, 2, "las filas inválidas se reportan sin abortar el lote")
	assert.Equal(t, "sku y nombre son obligatorios", res.Errors[0].Reason)
	assert.Equal(t, "BU-3", res.Errors[1].SKU)

	got, err := uc.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "renovado", got.Name, "mismo SKU actualiza, no duplica")
	assert.Equal(t, "ferretería", got.Category)
	assert.Equal(t, "kg", got.Unit, "unidad ausente en el lote queda como estaba")
	assert.True(t, got.MinStock.Equal(decimal.NewFromInt(8)))

	created, err := items.GetBySKU(ctx, "BU-2")
	require.NoError(t, err)
	require.NotNil(t, created, "el SKU inexistente se crea")
	assert.Equal(t, "pcs", created.Unit, "unidad por defecto en las altas del lote")
}

func TestBulkUpsert_LoteVacioFalla(t *testing.T) {
	uc, _, _ := newItemFixture()

	_, err := uc.BulkUpsert(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemGetByID_NoEncontrado(t *testing.T) {
	uc, _, _ := newItemFixture()

	_, err := uc.GetByID(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemUpdate_ParcheParcial(t *testing.T) {
	uc, _, _ := newItemFixture()
	ctx := context.Background()

	created, err := uc.Create(ctx, usecase.CreateItemInput{
		SKU: "UPD-1", Name: "original", Category: "a", Unit: "kg",
		MinStock: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	newName := "renombrado"
	newMin := decimal.NewFromInt(9)
	updated, err := uc.Update(ctx, created.ID, repository.ItemUpdate{
		Name:     &newName,
		MinStock: &newMin,
	})
	require.NoError(t, err)

	assert.Equal(t, "renombrado", updated.Name)
	assert.True(t, updated.MinStock.Equal(decimal.NewFromInt(9)))
	assert.Equal(t, "a", updated.Category, "campo no incluido en el parche queda igual")
	assert.Equal(t, "kg", updated.Unit)
	assert.Equal(t, "UPD-1", updated.SKU, "el SKU es inmutable")
	assert.True(t, updated.UpdatedAt.After(created.CreatedAt) || updated.UpdatedAt.Equal(created.CreatedAt))
}

func TestItemUpdate_NombreVacioFalla(t *testing.T) {
	uc, _, _ := newItemFixture()
	ctx := context.Background()

	created, err := uc.Create(ctx, usecase.CreateItemInput{SKU: "UPD-2", Name: "x"})
	require.NoError(t, err)

	empty := "   "
	_, err = uc.Update(ctx, created.ID, repository.ItemUpdate{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemDelete_SinMovimientos(t *testing.T) {
	uc, items, _ := newItemFixture()
	ctx := context.Background()

	created, err := uc.Create(ctx, usecase.CreateItemInput{SKU: "DEL-1", Name: "x"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, created.ID))
	assert.NotContains(t, items.items, created.ID)
}

func TestItemDelete_ConMovimientosSeRechaza(t *testing.T) {
	uc, items, movs := newItemFixture()
	ctx := context.Background()

	created, err := uc.Create(ctx, usecase.CreateItemInput{SKU: "DEL-2", Name: "x"})
	require.NoError(t, err)
	movs.hasMovements[created.ID] = true

	err = uc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict,
		"borrar en cascada rompería la derivabilidad de los saldos")
	assert.Contains(t, items.items, created.ID, "el artículo sigue existiendo")
}

func TestItemDelete_NoEncontrado(t *testing.T) {
	uc, _, _ := newItemFixture()

	err := uc.Delete(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRenameCategory(t *testing.T) {
	uc, _, _ := newItemFixture()
	ctx := context.Background()

	for i, sku := range []string{"C-1", "C-2", "C-3"} {
		cat := "vieja"
		if i == 2 {
			cat = "otra"
		}
		_, err := uc.Create(ctx, usecase.CreateItemInput{SKU: sku, Name: sku, Category: cat})
		require.NoError(t, err)
	}

	n, err := uc.RenameCategory(ctx, "vieja", "nueva")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	cats, err := uc.Categories(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"nueva", "otra"}, cats)

	_, err = uc.RenameCategory(ctx, "", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClearCategory(t *testing.T) {
	uc, _, _ := newItemFixture()
	ctx := context.Background()

	_, err := uc.Create(ctx, usecase.CreateItemInput{SKU: "CL-1", Name: "x", Category: "temporal"})
	require.NoError(t, err)

	n, err := uc.ClearCategory(ctx, "temporal")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	cats, err := uc.Categories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)

	_, err = uc.ClearCategory(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

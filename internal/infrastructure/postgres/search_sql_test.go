package postgres

import (
	"strings"
	"testing"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchSQL_SinFiltrosNiOrden(t *testing.T) {
	where, order, args, err := buildSearchSQL(repository.SearchFilter{}, nil)
	require.NoError(t, err)

	assert.Empty(t, where)
	assert.Empty(t, args)
	assert.Equal(t, " ORDER BY i.id ASC", order,
		"sin orden pedido, el desempate por id sigue presente")
}

func TestBuildSearchSQL_QueryTextualUsaUnSoloArgumento(t *testing.T) {
	where, _, args, err := buildSearchSQL(repository.SearchFilter{Query: "tornillo"}, nil)
	require.NoError(t, err)

	require.Len(t, args, 1)
	assert.Equal(t, "%tornillo%", args[0])
	assert.Contains(t, where, "i.sku ILIKE $1")
	assert.Contains(t, where, "i.name ILIKE $1")
	assert.Contains(t, where, "i.category ILIKE $1")
}

func TestBuildSearchSQL_PredicadosDeSaldoUsanLaExpresionDerivada(t *testing.T) {
	minB := decimal.NewFromInt(5)
	maxB := decimal.NewFromInt(50)
	where, _, args, err := buildSearchSQL(repository.SearchFilter{
		MinBalance: &minB,
		MaxBalance: &maxB,
		LowOnly:    true,
	}, nil)
	require.NoError(t, err)

	require.Len(t, args, 2)
	assert.Contains(t, where, balanceExpr+" >= $1")
	assert.Contains(t, where, balanceExpr+" <= $2")
	assert.Contains(t, where, balanceExpr+" < i.min_stock",
		"low-stock se evalúa contra el mismo saldo derivado, nunca contra una copia")
}

func TestBuildSearchSQL_PosicionesDeArgumentosEncadenadas(t *testing.T) {
	minB := decimal.NewFromInt(1)
	where, _, args, err := buildSearchSQL(repository.SearchFilter{
		Query:      "abc",
		Category:   "ferretería",
		MinBalance: &minB,
	}, nil)
	require.NoError(t, err)

	require.Len(t, args, 3)
	assert.Contains(t, where, "ILIKE $1")
	assert.Contains(t, where, "i.category = $2")
	assert.Contains(t, where, ">= $3")
	assert.Equal(t, "ferretería", args[1])
}

func TestBuildSearchSQL_OrdenMultipleConDesempate(t *testing.T) {
	_, order, _, err := buildSearchSQL(repository.SearchFilter{}, []repository.SortKey{
		{Field: "balance", Desc: true},
		{Field: "sku"},
	})
	require.NoError(t, err)

	assert.Equal(t, " ORDER BY "+balanceExpr+" DESC, i.sku ASC, i.id ASC", order)
	assert.True(t, strings.HasSuffix(order, "i.id ASC"),
		"el desempate determinista siempre cierra el ORDER BY")
}

func TestBuildSearchSQL_CampoDeOrdenDesconocidoFalla(t *testing.T) {
	// Un llamador que esquive la validación del caso de uso no puede recibir
	// un orden silenciosamente distinto al pedido: se rechaza siempre.
	for _, field := range []string{"precio", "created_at", "balance;DROP TABLE items"} {
		_, _, _, err := buildSearchSQL(repository.SearchFilter{}, []repository.SortKey{{Field: field}})
		assert.ErrorIs(t, err, domain.ErrInvalidSortKey, "campo %q", field)
	}
}

func TestBuildSearchSQL_BusquedaYExportComponenIgual(t *testing.T) {
	minB := decimal.NewFromInt(3)
	filter := repository.SearchFilter{Query: "x", LowOnly: true, MinBalance: &minB}
	sort := []repository.SortKey{{Field: "name"}, {Field: "balance", Desc: true}}

	w1, o1, a1, err := buildSearchSQL(filter, sort)
	require.NoError(t, err)
	w2, o2, a2, err := buildSearchSQL(filter, sort)
	require.NoError(t, err)

	assert.Equal(t, w1, w2, "misma entrada, mismo WHERE: la página y el archivo no pueden divergir")
	assert.Equal(t, o1, o2)
	assert.Equal(t, a1, a2)
}

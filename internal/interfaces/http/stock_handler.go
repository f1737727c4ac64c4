package http

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// StockHandler maneja el libro de movimientos y las consultas derivadas.
type StockHandler struct {
	uc *stock.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// In godoc
// @Summary      Registrar entrada de stock
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "item_id, qty positiva, ref opcional"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/in [post]
func (h *StockHandler) In(c *fiber.Ctx) error {
	return h.appendMovement(c, entity.MovementKindIN)
}

// Out godoc
// @Summary      Registrar salida de stock
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "item_id, qty positiva, ref opcional"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/out [post]
func (h *StockHandler) Out(c *fiber.Ctx) error {
	return h.appendMovement(c, entity.MovementKindOUT)
}

// Adjust godoc
// @Summary      Registrar ajuste de stock
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "item_id, qty firmada distinta de cero"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	return h.appendMovement(c, entity.MovementKindADJUST)
}

func (h *StockHandler) appendMovement(c *fiber.Ctx, kind string) error {
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.uc.Append(c.Context(), kind, in.ItemID, in.Qty, in.Ref)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(res.Movement, res.Balance))
}

// Balance godoc
// @Summary      Saldo derivado de un artículo
// @Tags         stock
// @Produce      json
// @Param        id  path  string  true  "ID del artículo"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/balance/{id} [get]
func (h *StockHandler) Balance(c *fiber.Ctx) error {
	id := c.Params("id")
	balance, err := h.uc.Balance(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.BalanceResponse{ItemID: id, Balance: balance})
}

// Balances godoc
// @Summary      Saldos derivados de todos los artículos
// @Tags         stock
// @Produce      json
// @Success      200  {array}  dto.BalanceResponse
// @Router       /api/stock/balances [get]
func (h *StockHandler) Balances(c *fiber.Ctx) error {
	sums, err := h.uc.Balances(c.Context())
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.BalanceResponse, 0, len(sums))
	for id, bal := range sums {
		out = append(out, dto.BalanceResponse{ItemID: id, Balance: bal})
	}
	// Recorrer el mapa no da orden estable; la respuesta sí debe darlo.
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return c.JSON(out)
}

// Movements godoc
// @Summary      Historial de movimientos de un artículo
// @Description  Más reciente primero. Filtros opcionales por tipo y rango de fechas (RFC 3339).
// @Tags         stock
// @Produce      json
// @Param        id    path   string  true   "ID del artículo"
// @Param        kind  query  string  false  "IN, OUT o ADJUST"
// @Param        from  query  string  false  "desde (RFC 3339)"
// @Param        to    query  string  false  "hasta (RFC 3339)"
// @Param        page  query  int     false  "página (1-based)"
// @Param        size  query  int     false  "filas por página"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/movements/{id} [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	filter := repository.MovementFilter{Kind: c.Query("kind")}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha 'from' inválida"})
		}
		filter.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha 'to' inválida"})
		}
		filter.To = &t
	}
	page := c.QueryInt("page", 1)
	size := c.QueryInt("size", 50)

	movs, total, err := h.uc.Movements(c.Context(), c.Params("id"), filter, page, size)
	if err != nil {
		return fail(c, err)
	}
	entries := make([]dto.MovementHistoryEntry, 0, len(movs))
	for _, m := range movs {
		entries = append(entries, dto.MovementHistoryEntry{
			ID:      m.ID,
			Kind:    m.Kind,
			Qty:     m.Quantity,
			Ref:     m.Ref,
			MovedAt: m.MovedAt,
		})
	}
	return c.JSON(dto.MovementsResponse{
		Movements: entries,
		PageResponse: dto.PageResponse{Page: page, Size: size, Total: total},
	})
}

// parseSearchFilter lee los filtros comunes de búsqueda y export del query
// string; ambos endpoints comparten exactamente la misma composición.
func parseSearchFilter(c *fiber.Ctx) (repository.SearchFilter, error) {
	filter := repository.SearchFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		LowOnly:  c.QueryBool("low", false),
	}
	if v := c.Query("min_balance"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return filter, fmt.Errorf("min_balance inválido: %w", err)
		}
		filter.MinBalance = &d
	}
	if v := c.Query("max_balance"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return filter, fmt.Errorf("max_balance inválido: %w", err)
		}
		filter.MaxBalance = &d
	}
	return filter, nil
}

// Search godoc
// @Summary      Buscar artículos con saldo derivado
// @Description  Filtro, orden y paginación se evalúan contra el mismo saldo derivado en un solo snapshot.
// @Tags         stock
// @Produce      json
// @Param        q            query  string  false  "texto sobre sku/nombre/categoría"
// @Param        category     query  string  false  "categoría exacta"
// @Param        low          query  bool    false  "solo artículos bajo su mínimo"
// @Param        min_balance  query  number  false  "saldo mínimo"
// @Param        max_balance  query  number  false  "saldo máximo"
// @Param        sort_by      query  string  false  "id,sku,name,balance,min_stock,category,unit (CSV)"
// @Param        sort_dir     query  string  false  "asc,desc (CSV, alineado con sort_by)"
// @Param        page         query  int     false  "página (1-based)"
// @Param        size         query  int     false  "filas por página"
// @Success      200  {object}  dto.SearchResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/search [get]
func (h *StockHandler) Search(c *fiber.Ctx) error {
	filter, err := parseSearchFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	page := c.QueryInt("page", 1)
	size := c.QueryInt("size", 50)

	rows, total, err := h.uc.Search(c.Context(), filter, c.Query("sort_by"), c.Query("sort_dir"), page, size)
	if err != nil {
		return fail(c, err)
	}
	items := make([]dto.SearchRowResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.NewSearchRowResponse(row))
	}
	return c.JSON(dto.SearchResponse{
		Items:        items,
		PageResponse: dto.PageResponse{Page: page, Size: size, Total: total},
	})
}

// Export godoc
// @Summary      Exportar la búsqueda a CSV
// @Description  Mismos filtros y orden que /api/stock/search, sin paginar: el archivo contiene exactamente las filas que vería la búsqueda.
// @Tags         stock
// @Produce      text/csv
// @Param        q            query  string  false  "texto sobre sku/nombre/categoría"
// @Param        category     query  string  false  "categoría exacta"
// @Param        low          query  bool    false  "solo artículos bajo su mínimo"
// @Param        min_balance  query  number  false  "saldo mínimo"
// @Param        max_balance  query  number  false  "saldo máximo"
// @Param        sort_by      query  string  false  "id,sku,name,balance,min_stock,category,unit (CSV)"
// @Param        sort_dir     query  string  false  "asc,desc (CSV, alineado con sort_by)"
// @Success      200  {string}  string  "archivo CSV"
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/export/csv [get]
func (h *StockHandler) Export(c *fiber.Ctx) error {
	filter, err := parseSearchFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	rows, err := h.uc.Export(c.Context(), filter, c.Query("sort_by"), c.Query("sort_dir"))
	if err != nil {
		return fail(c, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"sku", "name", "category", "unit", "min_stock", "balance", "low"})
	for _, row := range rows {
		low := "false"
		if row.Low {
			low = "true"
		}
		_ = w.Write([]string{
			row.Item.SKU,
			row.Item.Name,
			row.Item.Category,
			row.Item.Unit,
			row.Item.MinStock.String(),
			row.Balance.String(),
			low,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fail(c, err)
	}

	filename := fmt.Sprintf("items_search_%s.csv", time.Now().UTC().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(buf.Bytes())
}

// Trend godoc
// @Summary      Serie diaria de saldo de un artículo
// @Description  Reconstruye el saldo día a día sobre los últimos N días, sembrando con el saldo previo a la ventana. Un punto por día.
// @Tags         stock
// @Produce      json
// @Param        id    path   string  true   "ID del artículo"
// @Param        days  query  int     false  "ventana en días (1-365, default 30)"
// @Success      200   {array}  stock.TrendPoint
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/trend/{id} [get]
func (h *StockHandler) Trend(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	series, err := h.uc.Trend(c.Context(), c.Params("id"), days)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(series)
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ItemHandler maneja las peticiones HTTP de artículos.
type ItemHandler struct {
	uc *usecase.ItemUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *usecase.ItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar artículo
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "sku, name, category, unit, min_stock"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.Create(c.Context(), usecase.CreateItemInput{
		SKU:      in.SKU,
		Name:     in.Name,
		Category: in.Category,
		Unit:     in.Unit,
		MinStock: in.MinStock,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewItemResponse(item))
}

// Import godoc
// @Summary      Alta/actualización masiva de artículos por SKU
// @Description  Crea los artículos cuyo SKU no existe y actualiza los que sí. Las filas inválidas se reportan sin abortar el lote.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkUpsertRequest  true  "lote de artículos"
// @Success      200   {object}  dto.BulkUpsertResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items/import [post]
func (h *ItemHandler) Import(c *fiber.Ctx) error {
	var in dto.BulkUpsertRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rows := make([]usecase.CreateItemInput, 0, len(in.Items))
	for _, r := range in.Items {
		rows = append(rows, usecase.CreateItemInput{
			SKU:      r.SKU,
			Name:     r.Name,
			Category: r.Category,
			Unit:     r.Unit,
			MinStock: r.MinStock,
		})
	}
	res, err := h.uc.BulkUpsert(c.Context(), rows)
	if err != nil {
		return fail(c, err)
	}
	out := dto.BulkUpsertResponse{Created: res.Created, Updated: res.Updated}
	for _, e := range res.Errors {
		out.Errors = append(out.Errors, dto.BulkRowErrorResponse{SKU: e.SKU, Reason: e.Reason})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar artículos
// @Tags         items
// @Produce      json
// @Param        page  query  int  false  "página (1-based)"
// @Param        size  query  int  false  "filas por página"
// @Success      200   {array}  dto.ItemResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	size := c.QueryInt("size", 50)
	items, err := h.uc.List(c.Context(), page, size)
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.NewItemResponse(it))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener artículo
// @Tags         items
// @Produce      json
// @Param        id  path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	item, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.NewItemResponse(item))
}

// Update godoc
// @Summary      Actualizar artículo
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del artículo"
// @Param        body  body  dto.UpdateItemRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.Update(c.Context(), c.Params("id"), repository.ItemUpdate{
		Name:     in.Name,
		Category: in.Category,
		Unit:     in.Unit,
		MinStock: in.MinStock,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.NewItemResponse(item))
}

// Delete godoc
// @Summary      Eliminar artículo
// @Description  Solo se puede eliminar un artículo sin movimientos en el libro.
// @Tags         items
// @Param        id  path  string  true  "ID del artículo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Categories godoc
// @Summary      Listar categorías en uso
// @Tags         items
// @Produce      json
// @Success      200  {array}  string
// @Router       /api/items/categories [get]
func (h *ItemHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.uc.Categories(c.Context())
	if err != nil {
		return fail(c, err)
	}
	if cats == nil {
		cats = []string{}
	}
	return c.JSON(cats)
}

// RenameCategory godoc
// @Summary      Renombrar categoría en bloque
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryRenameRequest  true  "from, to"
// @Success      200   {object}  map[string]int64
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items/categories/rename [post]
func (h *ItemHandler) RenameCategory(c *fiber.Ctx) error {
	var in dto.CategoryRenameRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	updated, err := h.uc.RenameCategory(c.Context(), in.From, in.To)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"updated": updated})
}

// ClearCategory godoc
// @Summary      Quitar una categoría de todos los artículos
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryClearRequest  true  "category"
// @Success      200   {object}  map[string]int64
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items/categories/clear [post]
func (h *ItemHandler) ClearCategory(c *fiber.Ctx) error {
	var in dto.CategoryClearRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	updated, err := h.uc.ClearCategory(c.Context(), in.Category)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"updated": updated})
}

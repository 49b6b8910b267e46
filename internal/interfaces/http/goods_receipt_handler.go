package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/wareflow-api/internal/application/dto"
	"github.com/jhoicas/wareflow-api/internal/application/orders"
)

// GoodsReceiptHandler expone las recepciones de mercancía.
type GoodsReceiptHandler struct {
	uc *orders.GoodsReceiptUseCase
}

// NewGoodsReceiptHandler construye el handler.
func NewGoodsReceiptHandler(uc *orders.GoodsReceiptUseCase) *GoodsReceiptHandler {
	return &GoodsReceiptHandler{uc: uc}
}

// Create godoc
// @Summary      Crear recepción de mercancía
// @Tags         goods-receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateGoodsReceiptRequest  true  "Documento"
// @Success      201   {object}  dto.GoodsReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/goods-receipts [post]
func (h *GoodsReceiptHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateGoodsReceiptRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener recepción de mercancía
// @Tags         goods-receipts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.GoodsReceiptResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/goods-receipts/{id} [get]
func (h *GoodsReceiptHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "recepción")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar recepciones
// @Tags         goods-receipts
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.GoodsReceiptListResponse
// @Router       /api/goods-receipts [get]
func (h *GoodsReceiptHandler) List(c *fiber.Ctx) error {
	var in dto.PageRequest
	if err := bindQuery(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar recepción de mercancía
// @Description  El stock se aplica al pasar a Partial o Completed.
// @Tags         goods-receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID"
// @Param        body  body  dto.UpdateGoodsReceiptRequest  true  "Cambios"
// @Success      200   {object}  dto.GoodsReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/goods-receipts/{id} [put]
func (h *GoodsReceiptHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateGoodsReceiptRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar recepción de mercancía
// @Description  Revierte su efecto sobre el stock antes de eliminar.
// @Tags         goods-receipts
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/goods-receipts/{id} [delete]
func (h *GoodsReceiptHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/caja-market/internal/application/dto"
	"github.com/jhoicas/caja-market/internal/application/sales"
	"github.com/jhoicas/caja-market/internal/domain/entity"
	"github.com/jhoicas/caja-market/internal/domain/repository"
)

// SaleHandler maneja las peticiones HTTP de ventas del market (protegido).
type SaleHandler struct {
	orch *sales.Orchestrator
}

// NewSaleHandler construye el handler.
func NewSaleHandler(orch *sales.Orchestrator) *SaleHandler {
	return &SaleHandler{orch: orch}
}

// Process godoc
// @Summary      Registrar venta
// @Description  Inserta la venta, descuenta stock por línea e ingresa el total en caja, todo o nada.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ProcessSaleRequest  true  "buyer_kind, buyer_id, total, method, items"
// @Success      201   {object}  dto.SaleResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Process(c *fiber.Ctx) error {
	var in dto.ProcessSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	res, err := h.orch.ProcessSale(c.Context(), operator(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Cancel godoc
// @Summary      Anular venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResult
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "INVALID_ID", err.Error())
	}
	res, err := h.orch.ReverseSale(c.Context(), operator(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// Get devuelve la venta con su detalle.
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "INVALID_ID", err.Error())
	}
	res, err := h.orch.GetSale(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from      query  string  false  "YYYY-MM-DD"
// @Param        to        query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        buyer_id  query  int     false  "ID del miembro"
// @Param        status    query  string  false  "completada | cancelada"
// @Param        limit     query  int     false  "máximo 500"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	from, to, err := queryRange(c)
	if err != nil {
		return badRequest(c, "INVALID_RANGE", err.Error())
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return badRequest(c, "INVALID_LIMIT", err.Error())
	}
	filter := repository.SaleFilter{
		From:   from,
		To:     to,
		Status: entity.SaleStatus(c.Query("status")),
		Limit:  limit,
	}
	if raw := c.Query("buyer_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return badRequest(c, "INVALID_BUYER", "buyer_id inválido")
		}
		filter.BuyerID = &id
	}
	list, err := h.orch.ListSales(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "sales": list})
}

// TopProducts productos más vendidos en el período.
func (h *SaleHandler) TopProducts(c *fiber.Ctx) error {
	from, to, err := queryRange(c)
	if err != nil {
		return badRequest(c, "INVALID_RANGE", err.Error())
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return badRequest(c, "INVALID_LIMIT", err.Error())
	}
	list, err := h.orch.TopProducts(c.Context(), limit, from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// TotalsByMethod ventas completadas agrupadas por método de pago.
func (h *SaleHandler) TotalsByMethod(c *fiber.Ctx) error {
	from, to, err := queryRange(c)
	if err != nil {
		return badRequest(c, "INVALID_RANGE", err.Error())
	}
	list, err := h.orch.TotalsByMethod(c.Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/caja-market/internal/application/cash"
	"github.com/jhoicas/caja-market/internal/application/dto"
	"github.com/jhoicas/caja-market/internal/domain/entity"
	"github.com/jhoicas/caja-market/internal/domain/repository"
)

// CashHandler maneja caja: sesiones, movimientos, extornos y remesas (protegido).
type CashHandler struct {
	ledger   *cash.Ledger
	sessions *cash.SessionManager
}

// NewCashHandler construye el handler.
func NewCashHandler(ledger *cash.Ledger, sessions *cash.SessionManager) *CashHandler {
	return &CashHandler{ledger: ledger, sessions: sessions}
}

// OpenSession godoc
// @Summary      Abrir caja
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.OpenSessionRequest  true  "saldos iniciales por método"
// @Success      201   {object}  dto.OpenSessionResult
// @Failure      409   {object}  dto.ErrorResponse  "SESSION_ALREADY_OPEN"
// @Router       /api/cash/sessions [post]
func (h *CashHandler) OpenSession(c *fiber.Ctx) error {
	var in dto.OpenSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	res, err := h.sessions.Open(c.Context(), operator(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// CurrentSession devuelve la caja abierta.
func (h *CashHandler) CurrentSession(c *fiber.Ctx) error {
	res, err := h.sessions.Current(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// CurrentBalances saldos esperados de la caja abierta.
func (h *CashHandler) CurrentBalances(c *fiber.Ctx) error {
	res, err := h.sessions.CurrentBalances(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// SessionBalances saldos esperados de una sesión.
func (h *CashHandler) SessionBalances(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "INVALID_ID", err.Error())
	}
	res, err := h.sessions.ExpectedBalances(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// SessionMovements movimientos de la sesión (incluye los aún no asignados).
func (h *CashHandler) SessionMovements(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "INVALID_ID", err.Error())
	}
	list, err := h.ledger.MovementsForSession(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "movements": list})
}

// CloseSession godoc
// @Summary      Cerrar caja
// @Description  Compara lo contado contra lo esperado. Las diferencias se devuelven con estado con_diferencias, no como error.
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int                      true  "ID de la sesión"
// @Param        body  body      dto.CloseSessionRequest  true  "montos contados por método"
// @Success      200   {object}  dto.CloseSessionResult
// @Failure      409   {object}  dto.ErrorResponse  "NO_OPEN_SESSION"
// @Router       /api/cash/sessions/{id}/close [post]
func (h *CashHandler) CloseSession(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "INVALID_ID", err.Error())
	}
	var in dto.CloseSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	res, err := h.sessions.Close(c.Context(), id, operator(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// SessionReport descarga el PDF de cierre.
func (h *CashHandler) SessionReport(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "INVALID_ID", err.Error())
	}
	pdf, filename, err := h.sessions.Report(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// RecordMovement godoc
// @Summary      Registrar movimiento de caja
// @Description  Gastos, ingresos manuales y ajustes. Las remesas van por /cash/transfers.
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RecordMovementRequest  true  "direction, category, method, amount"
// @Success      201   {object}  dto.CashMovementResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cash/movements [post]
func (h *CashHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	res, err := h.ledger.RecordFromRequest(c.Context(), operator(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// ListMovements movimientos por período, categoría y estado.
func (h *CashHandler) ListMovements(c *fiber.Ctx) error {
	from, to, err := queryRange(c)
	if err != nil {
		return badRequest(c, "INVALID_RANGE", err.Error())
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return badRequest(c, "INVALID_LIMIT", err.Error())
	}
	list, err := h.ledger.List(c.Context(), repository.CashMovementFilter{
		From:     from,
		To:       to,
		Category: entity.CashCategory(c.Query("category")),
		Status:   entity.MovementStatus(c.Query("status")),
		Limit:    limit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "movements": list})
}

// ReverseMovement extorna un movimiento (solo admin).
func (h *CashHandler) ReverseMovement(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "INVALID_ID", err.Error())
	}
	res, err := h.ledger.Reverse(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// Transfer registra una remesa entre métodos de pago.
func (h *CashHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	res, err := h.ledger.Transfer(c.Context(), operator(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

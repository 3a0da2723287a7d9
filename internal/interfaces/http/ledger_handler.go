package http

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-scanner/internal/application/dto"
	"github.com/jhoicas/Inventario-scanner/internal/application/ledger"
	"github.com/jhoicas/Inventario-scanner/internal/domain"
)

// LedgerHandler consulta y correcciones del libro de inventario.
type LedgerHandler struct {
	uc *ledger.LedgerUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *ledger.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// List godoc
// @Summary      Listar inventario
// @Tags         inventory
// @Produce      json
// @Success      200  {array}   dto.EntryDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory [get]
func (h *LedgerHandler) List(c *fiber.Ctx) error {
	entries, err := h.uc.ListEntries(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToEntryDTOs(entries))
}

// SetQuantity godoc
// @Summary      Corregir cantidad de un código
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        barcode  path      string                  true  "Código de barras"
// @Param        body     body      dto.SetQuantityRequest  true  "quantity >= 0"
// @Success      200      {object}  dto.EntryDTO
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      401      {object}  dto.ErrorResponse
// @Failure      403      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/inventory/{barcode}/quantity [put]
func (h *LedgerHandler) SetQuantity(c *fiber.Ctx) error {
	var in dto.SetQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Quantity == nil {
		return writeError(c, domain.ErrInvalidInput)
	}
	barcode, err := url.PathUnescape(c.Params("barcode"))
	if err != nil {
		return writeError(c, domain.ErrInvalidInput)
	}
	entry, err := h.uc.SetQuantity(c.UserContext(), barcode, *in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToEntryDTO(entry))
}

// Clear godoc
// @Summary      Borrar todo el inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ClearRequest  true  "confirmed debe ser true"
// @Success      200   {object}  dto.ClearResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/clear-database [post]
func (h *LedgerHandler) Clear(c *fiber.Ctx) error {
	var in dto.ClearRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	n, err := h.uc.ClearLedger(c.UserContext(), in.Confirmed)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ClearResponse{
		Success:      true,
		Message:      fmt.Sprintf("inventario borrado: %d entradas eliminadas", n),
		DeletedCount: n,
	})
}

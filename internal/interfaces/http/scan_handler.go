package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-scanner/internal/application/dto"
	"github.com/jhoicas/Inventario-scanner/internal/application/ledger"
)

// ScanHandler lecturas del escáner y estado del modo de operación.
type ScanHandler struct {
	uc *ledger.ScanUseCase
}

// NewScanHandler construye el handler.
func NewScanHandler(uc *ledger.ScanUseCase) *ScanHandler {
	return &ScanHandler{uc: uc}
}

// Scan godoc
// @Summary      Registrar lectura del escáner
// @Description  "ADD" o "REMOVE" cambian el modo; cualquier otro valor es un código de barras
//
//	que se suma o resta según el modo vigente (vence tras 300 s sin actividad).
//
// @Tags         scan
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ScanRequest  true  "barcode, operation opcional"
// @Success      200   {object}  dto.ScanResponse
// @Failure      400   {object}  dto.TimeoutErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/scan [post]
func (h *ScanHandler) Scan(c *fiber.Ctx) error {
	var in dto.ScanRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.SubmitScan(c.UserContext(), ledger.ScanInput{Barcode: in.Barcode, Operation: in.Operation})
	if err != nil {
		return writeError(c, err)
	}
	if res.ModeChanged {
		op := string(res.Mode.Operation)
		return c.JSON(dto.ScanResponse{
			Success:          true,
			OperationChanged: true,
			NewOperation:     op,
			Message:          fmt.Sprintf("operación cambiada a %s", op),
		})
	}
	item := dto.ToEntryDTO(res.Entry)
	return c.JSON(dto.ScanResponse{Success: true, Item: &item, Operation: string(res.Operation)})
}

// Status godoc
// @Summary      Estado del modo de operación
// @Tags         scan
// @Produce      json
// @Success      200  {object}  dto.StatusResponse
// @Router       /api/status [get]
func (h *ScanHandler) Status(c *fiber.Ctx) error {
	return c.JSON(dto.ToStatusResponse(h.uc.GetStatus()))
}

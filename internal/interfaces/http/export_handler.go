package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-scanner/internal/application/ledger"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
)

// ExportHandler descarga de instantáneas del libro.
type ExportHandler struct {
	uc *ledger.ExportUseCase
}

// NewExportHandler construye el handler.
func NewExportHandler(uc *ledger.ExportUseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// XLSX godoc
// @Summary      Exportar inventario a Excel
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/export [get]
func (h *ExportHandler) XLSX(c *fiber.Ctx) error {
	data, name, err := h.uc.ExportSnapshot(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, data, name, mimeXLSX)
}

// PDF godoc
// @Summary      Exportar inventario a PDF
// @Tags         export
// @Produce      application/pdf
// @Success      200
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/export/pdf [get]
func (h *ExportHandler) PDF(c *fiber.Ctx) error {
	data, name, err := h.uc.ExportPDF(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, data, name, mimePDF)
}

func sendAttachment(c *fiber.Ctx, data []byte, name, mime string) error {
	c.Set(fiber.HeaderContentType, mime)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(data)
}

package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-scanner/internal/domain"
	"github.com/jhoicas/Inventario-scanner/internal/domain/entity"
	"github.com/jhoicas/Inventario-scanner/internal/domain/event"
	"github.com/jhoicas/Inventario-scanner/internal/domain/scan"
)

// ScanInput entrada cruda del lector. Operation es opcional: si viene, reemplaza la
// operación del modo para esta lectura (el modo y su ventana se siguen exigiendo).
type ScanInput struct {
	Barcode   string
	Operation string
}

// ScanResult resultado de SubmitScan.
type ScanResult struct {
	ModeChanged bool
	Mode        scan.Mode
	Operation   entity.Operation
	Entry       *entity.LedgerEntry
}

// ScanUseCase orquesta guardián de modo + procesador.
type ScanUseCase struct {
	guard     *scan.Guard
	processor *Processor
	bus       Broadcaster
	clock     Clock
	log       zerolog.Logger
}

// NewScanUseCase construye el caso de uso. clock nil usa time.Now.
func NewScanUseCase(guard *scan.Guard, processor *Processor, bus Broadcaster, clock Clock, log zerolog.Logger) *ScanUseCase {
	if bus == nil {
		bus = NopBroadcaster{}
	}
	if clock == nil {
		clock = time.Now
	}
	return &ScanUseCase{guard: guard, processor: processor, bus: bus, clock: clock, log: log}
}

// SubmitScan clasifica la lectura: ADD/REMOVE cambian el modo; cualquier otra cosa es un
// código que solo se procesa si el modo está activo y dentro de la ventana de inactividad.
func (uc *ScanUseCase) SubmitScan(ctx context.Context, in ScanInput) (*ScanResult, error) {
	now := uc.clock()
	input := scan.Classify(in.Barcode)

	switch input.Kind {
	case scan.KindEmpty:
		return nil, domain.ErrEmptyInput
	case scan.KindCommand:
		mode, err := uc.guard.Switch(input.Operation, now)
		if err != nil {
			return nil, err
		}
		uc.bus.Publish(event.OperationChanged(mode.Operation, now))
		uc.log.Info().Str("operation", string(mode.Operation)).Msg("modo de operación cambiado")
		return &ScanResult{ModeChanged: true, Mode: mode, Operation: mode.Operation}, nil
	}

	op, err := uc.guard.Authorize(now)
	if err != nil {
		uc.log.Warn().Str("barcode", input.Barcode).Msg("escaneo rechazado: modo vencido")
		return nil, err
	}
	if raw := strings.TrimSpace(in.Operation); raw != "" {
		override, ok := entity.ParseOperation(scan.Normalize(raw))
		if !ok {
			return nil, domain.ErrInvalidOperation
		}
		op = override
	}

	entry, err := uc.processor.Process(ctx, input.Barcode, op, now)
	if err != nil {
		return nil, err
	}
	uc.guard.Touch(now)

	return &ScanResult{Mode: uc.guard.Mode(), Operation: op, Entry: entry}, nil
}

// GetStatus lectura pura del estado del modo.
func (uc *ScanUseCase) GetStatus() scan.Status {
	return uc.guard.Status(uc.clock())
}

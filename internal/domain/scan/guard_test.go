package scan_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-scanner/internal/domain"
	"github.com/jhoicas/Inventario-scanner/internal/domain/entity"
	"github.com/jhoicas/Inventario-scanner/internal/domain/scan"
)

var t0 = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func TestGuard_SinModoRequiereOperacion(t *testing.T) {
	g := scan.NewGuard(0)

	_, err := g.Authorize(t0)
	assert.ErrorIs(t, err, domain.ErrOperationTimeout)

	st := g.Status(t0)
	assert.True(t, st.RequiresOperation)
	assert.Zero(t, st.TimeRemaining)
	assert.Nil(t, st.LastOperationTime)
}

func TestGuard_SwitchYAutorizaDentroDeVentana(t *testing.T) {
	g := scan.NewGuard(scan.DefaultIdleWindow)
	mode, err := g.Switch(entity.OperationAdd, t0)
	require.NoError(t, err)
	assert.Equal(t, scan.Mode{Active: true, Operation: entity.OperationAdd, Since: t0}, mode)

	op, err := g.Authorize(t0.Add(10 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, entity.OperationAdd, op)
}

func TestGuard_FronteraEstricta(t *testing.T) {
	g := scan.NewGuard(300 * time.Second)
	_, err := g.Switch(entity.OperationRemove, t0)
	require.NoError(t, err)

	// Exactamente 300 s: no vencido.
	_, err = g.Authorize(t0.Add(300 * time.Second))
	assert.NoError(t, err)
	st := g.Status(t0.Add(300 * time.Second))
	assert.False(t, st.RequiresOperation)
	assert.Zero(t, st.TimeRemaining)

	// Un nanosegundo después: vencido.
	_, err = g.Authorize(t0.Add(300*time.Second + time.Nanosecond))
	assert.ErrorIs(t, err, domain.ErrOperationTimeout)
	assert.True(t, g.Status(t0.Add(300*time.Second+time.Nanosecond)).RequiresOperation)
}

func TestGuard_TimeoutNoCambiaModo(t *testing.T) {
	g := scan.NewGuard(0)
	_, _ = g.Switch(entity.OperationAdd, t0)

	_, err := g.Authorize(t0.Add(400 * time.Second))
	require.ErrorIs(t, err, domain.ErrOperationTimeout)
	assert.Equal(t, scan.Mode{Active: true, Operation: entity.OperationAdd, Since: t0}, g.Mode())
}

func TestGuard_TouchReiniciaVentanaSinRetroceder(t *testing.T) {
	g := scan.NewGuard(0)
	_, _ = g.Switch(entity.OperationAdd, t0)

	g.Touch(t0.Add(200 * time.Second))
	_, err := g.Authorize(t0.Add(450 * time.Second))
	assert.NoError(t, err, "la ventana se mide desde la última acción aceptada")

	g.Touch(t0.Add(100 * time.Second))
	assert.Equal(t, t0.Add(200*time.Second), g.Mode().Since, "since no debe retroceder")
}

func TestGuard_TouchSinModoNoActiva(t *testing.T) {
	g := scan.NewGuard(0)
	g.Touch(t0)
	assert.False(t, g.Mode().Active)
}

func TestGuard_StatusEsLecturaPura(t *testing.T) {
	g := scan.NewGuard(0)
	_, _ = g.Switch(entity.OperationAdd, t0)

	first := g.Status(t0.Add(30 * time.Second))
	second := g.Status(t0.Add(31 * time.Second))

	assert.LessOrEqual(t, second.TimeRemaining, first.TimeRemaining)
	assert.Equal(t, t0, g.Mode().Since, "Status no debe reiniciar la ventana")
	assert.Equal(t, 270*time.Second, first.TimeRemaining)
}

func TestGuard_SwitchOperacionInvalida(t *testing.T) {
	g := scan.NewGuard(0)
	_, err := g.Switch(entity.Operation("COUNT"), t0)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.False(t, g.Mode().Active)
}

func TestGuard_ParConsistenteBajoConcurrencia(t *testing.T) {
	g := scan.NewGuard(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			op := entity.OperationAdd
			if i%2 == 0 {
				op = entity.OperationRemove
			}
			_, _ = g.Switch(op, t0.Add(time.Duration(i)*time.Second))
		}(i)
		go func(i int) {
			defer wg.Done()
			g.Touch(t0.Add(time.Duration(i) * time.Second))
			_ = g.Status(t0.Add(time.Duration(i) * time.Second))
		}(i)
	}
	wg.Wait()

	m := g.Mode()
	assert.True(t, m.Active)
	assert.True(t, m.Operation.Valid())
}

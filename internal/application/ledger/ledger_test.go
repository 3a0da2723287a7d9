package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-scanner/internal/application/ledger"
	"github.com/jhoicas/Inventario-scanner/internal/domain"
	"github.com/jhoicas/Inventario-scanner/internal/domain/entity"
	"github.com/jhoicas/Inventario-scanner/internal/domain/event"
	"github.com/jhoicas/Inventario-scanner/internal/domain/repository"
	"github.com/jhoicas/Inventario-scanner/internal/domain/scan"
	"github.com/jhoicas/Inventario-scanner/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var t0 = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type recordingBus struct {
	mu     sync.Mutex
	events []event.Event
}

func (b *recordingBus) Publish(evt event.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, evt)
}

func (b *recordingBus) ofType(typ string) []event.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []event.Event
	for _, e := range b.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

type catalog map[string]string

func (c catalog) Lookup(b string) (string, bool) {
	d, ok := c[b]
	return d, ok
}

type fixture struct {
	store   *memory.LedgerStore
	clock   *fakeClock
	bus     *recordingBus
	guard   *scan.Guard
	scanUC  *ledger.ScanUseCase
	ledger  *ledger.LedgerUseCase
	descs   catalog
	process *ledger.Processor
}

func newFixture(t *testing.T, tx ledger.TxRunner) *fixture {
	t.Helper()
	f := &fixture{
		store: memory.NewLedgerStore(),
		clock: &fakeClock{now: t0},
		bus:   &recordingBus{},
		guard: scan.NewGuard(scan.DefaultIdleWindow),
		descs: catalog{"ABC123": "Tornillo 3/8"},
	}
	if tx == nil {
		tx = f.store
	}
	f.process = ledger.NewProcessor(tx, f.descs, f.bus, zerolog.Nop())
	f.scanUC = ledger.NewScanUseCase(f.guard, f.process, f.bus, f.clock.Now, zerolog.Nop())
	f.ledger = ledger.NewLedgerUseCase(f.store, tx, f.process, f.bus, f.clock.Now, zerolog.Nop())
	return f
}

func (f *fixture) submit(t *testing.T, raw string) (*ledger.ScanResult, error) {
	t.Helper()
	return f.scanUC.SubmitScan(context.Background(), ledger.ScanInput{Barcode: raw})
}

func (f *fixture) count(t *testing.T, barcode string) int {
	t.Helper()
	e, err := f.store.Get(context.Background(), barcode)
	require.NoError(t, err)
	if e == nil {
		return -1
	}
	return e.TotalCount
}

func (f *fixture) size(t *testing.T) int {
	t.Helper()
	n, err := f.store.Count(context.Background())
	require.NoError(t, err)
	return n
}

// ──────────────────────────────────────────────────────────────────────────────
// SubmitScan
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmitScan_EscenarioCambioDeModo(t *testing.T) {
	f := newFixture(t, nil)

	res, err := f.submit(t, "add")
	require.NoError(t, err)
	assert.True(t, res.ModeChanged)
	assert.Equal(t, scan.Mode{Active: true, Operation: entity.OperationAdd, Since: t0}, res.Mode)
	assert.Equal(t, 0, f.size(t), "un cambio de modo no toca el libro")
	require.Len(t, f.bus.ofType(event.TypeOperationChanged), 1)

	f.clock.Set(t0.Add(10 * time.Second))
	res, err = f.submit(t, "ABC123")
	require.NoError(t, err)
	assert.False(t, res.ModeChanged)
	require.NotNil(t, res.Entry)
	assert.Equal(t, 1, res.Entry.TotalCount)

	// 400 s después de la última acción aceptada (t0+10s): vencido.
	f.clock.Set(t0.Add(410 * time.Second))
	_, err = f.submit(t, "ABC123")
	assert.ErrorIs(t, err, domain.ErrOperationTimeout)
	assert.Equal(t, 1, f.count(t, "ABC123"))
}

func TestSubmitScan_TimeoutDesdeCambioDeModo(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.submit(t, "ADD")
	require.NoError(t, err)

	f.clock.Set(t0.Add(400 * time.Second))
	_, err = f.submit(t, "ABC123")
	assert.ErrorIs(t, err, domain.ErrOperationTimeout)
	assert.Equal(t, -1, f.count(t, "ABC123"))
	assert.Empty(t, f.bus.ofType(event.TypeEntryUpdated))
}

func TestSubmitScan_SinModoRechaza(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.submit(t, "ABC123")
	assert.ErrorIs(t, err, domain.ErrOperationTimeout)
}

func TestSubmitScan_EntradaVacia(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.submit(t, "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestSubmitScan_OperacionExplicitaInvalida(t *testing.T) {
	f := newFixture(t, nil)
	_, _ = f.submit(t, "ADD")
	_, err := f.scanUC.SubmitScan(context.Background(), ledger.ScanInput{Barcode: "X1", Operation: "count"})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.Equal(t, -1, f.count(t, "X1"))
}

func TestSubmitScan_OperacionExplicitaReemplazaModo(t *testing.T) {
	f := newFixture(t, nil)
	_, _ = f.submit(t, "ADD")
	_, _ = f.submit(t, "X1")
	_, _ = f.submit(t, "X1")

	res, err := f.scanUC.SubmitScan(context.Background(), ledger.ScanInput{Barcode: "x1", Operation: "remove"})
	require.NoError(t, err)
	assert.Equal(t, entity.OperationRemove, res.Operation)
	assert.Equal(t, 1, res.Entry.TotalCount)
	assert.Equal(t, entity.OperationAdd, f.guard.Mode().Operation, "el modo no cambia")
}

func TestSubmitScan_EscaneoReiniciaVentana(t *testing.T) {
	f := newFixture(t, nil)
	_, _ = f.submit(t, "ADD")

	for i := 1; i <= 5; i++ {
		f.clock.Set(t0.Add(time.Duration(i) * 250 * time.Second))
		_, err := f.submit(t, "ABC123")
		require.NoError(t, err, "escaneo %d dentro de la ventana", i)
	}
	assert.Equal(t, 5, f.count(t, "ABC123"))
	assert.Equal(t, t0.Add(1250*time.Second), f.guard.Mode().Since)
}

func TestSubmitScan_RemoveNuncaNegativo(t *testing.T) {
	f := newFixture(t, nil)
	_, _ = f.submit(t, "REMOVE")
	for i := 0; i < 3; i++ {
		res, err := f.submit(t, "X1")
		require.NoError(t, err)
		assert.Equal(t, 0, res.Entry.TotalCount)
	}
}

func TestSubmitScan_AcumulacionConPiso(t *testing.T) {
	f := newFixture(t, nil)
	// R R A A A R A R R R R A → 0 0 1 2 3 2 3 2 1 0 0 1
	seq := "RRAAARARRRRA"
	want := 0
	for _, c := range seq {
		op := "ADD"
		if c == 'R' {
			op = "REMOVE"
			want = max(0, want-1)
		} else {
			want++
		}
		_, err := f.submit(t, op)
		require.NoError(t, err)
		res, err := f.submit(t, "SEQ")
		require.NoError(t, err)
		assert.Equal(t, want, res.Entry.TotalCount)
	}
	assert.Equal(t, 1, f.count(t, "SEQ"))
}

func TestSubmitScan_DescripcionAlCrearYBackfill(t *testing.T) {
	f := newFixture(t, nil)
	_, _ = f.submit(t, "ADD")

	res, err := f.submit(t, "abc123")
	require.NoError(t, err)
	require.NotNil(t, res.Entry.Description)
	assert.Equal(t, "Tornillo 3/8", *res.Entry.Description)

	// Entrada previa sin descripción (p.ej. importada) que el catálogo sí conoce.
	require.NoError(t, f.store.Upsert(context.Background(), &entity.LedgerEntry{Barcode: "NEW1", TotalCount: 2}))
	f.descs["NEW1"] = "Arandela"
	res, err = f.submit(t, "new1")
	require.NoError(t, err)
	require.NotNil(t, res.Entry.Description)
	assert.Equal(t, "Arandela", *res.Entry.Description)
	assert.Equal(t, 3, res.Entry.TotalCount)

	res, err = f.submit(t, "UNKNOWN")
	require.NoError(t, err)
	assert.Nil(t, res.Entry.Description)
}

func TestSubmitScan_AddsConcurrentesSinPerdidas(t *testing.T) {
	f := newFixture(t, nil)
	_, _ = f.submit(t, "ADD")

	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.submit(t, "HOT")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, n, f.count(t, "HOT"))
	events := f.bus.ofType(event.TypeEntryUpdated)
	require.Len(t, events, n)
	for i, e := range events {
		assert.Equal(t, i+1, e.Data.(event.EntryPayload).TotalCount, "orden de eventos por código")
	}
}

// failingTx aplica los cambios en el store y luego falla, como un commit fallido.
type failingTx struct {
	store *memory.LedgerStore
	err   error
}

func (f failingTx) Run(ctx context.Context, fn func(repo repository.LedgerRepository) error) error {
	return f.store.Run(ctx, func(repo repository.LedgerRepository) error {
		if err := fn(repo); err != nil {
			return err
		}
		return f.err
	})
}

func TestSubmitScan_FalloDeAlmacenamientoHaceRollback(t *testing.T) {
	store := memory.NewLedgerStore()
	require.NoError(t, store.Upsert(context.Background(), &entity.LedgerEntry{Barcode: "X1", TotalCount: 5, LastUpdated: t0}))

	f := newFixture(t, failingTx{store: store, err: errors.New("disco lleno")})
	f.store = store
	_, _ = f.submit(t, "ADD")
	f.clock.Set(t0.Add(5 * time.Second))

	_, err := f.submit(t, "X1")
	require.ErrorIs(t, err, domain.ErrStorage)
	assert.Contains(t, err.Error(), "disco lleno")
	assert.Equal(t, 5, f.count(t, "X1"))
	assert.Empty(t, f.bus.ofType(event.TypeEntryUpdated))
	assert.Equal(t, t0, f.guard.Mode().Since, "un escaneo fallido no reinicia la ventana")
}

// ──────────────────────────────────────────────────────────────────────────────
// GetStatus
// ──────────────────────────────────────────────────────────────────────────────

func TestGetStatus_LecturaPura(t *testing.T) {
	f := newFixture(t, nil)
	st := f.scanUC.GetStatus()
	assert.True(t, st.RequiresOperation)
	assert.Nil(t, st.LastOperationTime)

	_, _ = f.submit(t, "ADD")
	f.clock.Set(t0.Add(100 * time.Second))
	a := f.scanUC.GetStatus()
	f.clock.Set(t0.Add(101 * time.Second))
	b := f.scanUC.GetStatus()

	assert.Equal(t, 200*time.Second, a.TimeRemaining)
	assert.LessOrEqual(t, b.TimeRemaining, a.TimeRemaining)
	assert.False(t, b.RequiresOperation)
	assert.Equal(t, t0, f.guard.Mode().Since)
}

// ──────────────────────────────────────────────────────────────────────────────
// SetQuantity / ClearLedger / ListEntries
// ──────────────────────────────────────────────────────────────────────────────

func TestSetQuantity_Escenario(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.store.Upsert(ctx, &entity.LedgerEntry{Barcode: "X1", TotalCount: 5, LastUpdated: t0}))
	f.clock.Set(t0.Add(time.Hour))

	entry, err := f.ledger.SetQuantity(ctx, "x1", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, entry.TotalCount)
	assert.Equal(t, t0.Add(time.Hour), entry.LastUpdated)
	assert.Len(t, f.bus.ofType(event.TypeEntryUpdated), 1)

	_, err = f.ledger.SetQuantity(ctx, "UNKNOWN", 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, f.bus.ofType(event.TypeEntryUpdated), 1, "sin difusión ante NotFound")

	_, err = f.ledger.SetQuantity(ctx, "X1", -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.ledger.SetQuantity(ctx, " ", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSetQuantity_NoRequiereModo(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.store.Upsert(ctx, &entity.LedgerEntry{Barcode: "X1", TotalCount: 1}))

	entry, err := f.ledger.SetQuantity(ctx, "X1", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, entry.TotalCount)
	assert.False(t, f.guard.Mode().Active)
}

func TestClearLedger_Escenario(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	for _, b := range []string{"A", "B", "C"} {
		require.NoError(t, f.store.Upsert(ctx, &entity.LedgerEntry{Barcode: b}))
	}

	_, err := f.ledger.ClearLedger(ctx, false)
	assert.ErrorIs(t, err, domain.ErrConfirmationRequired)
	assert.Equal(t, 3, f.size(t))

	n, err := f.ledger.ClearLedger(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 0, f.size(t))

	cleared := f.bus.ofType(event.TypeLedgerCleared)
	require.Len(t, cleared, 1)
	assert.Equal(t, event.ClearedPayload{DeletedCount: 3}, cleared[0].Data)
}

func TestListEntries_OrdenNatural(t *testing.T) {
	f := newFixture(t, nil)
	_, _ = f.submit(t, "ADD")
	for _, b := range []string{"Z", "A", "M", "A"} {
		_, err := f.submit(t, b)
		require.NoError(t, err)
	}
	list, err := f.ledger.ListEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Z", list[0].Barcode)
	assert.Equal(t, "A", list[1].Barcode)
	assert.Equal(t, 2, list[1].TotalCount)
}

// pausedTx detiene la primera transacción hasta que se libere release.
type pausedTx struct {
	store   *memory.LedgerStore
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (p *pausedTx) Run(ctx context.Context, fn func(repo repository.LedgerRepository) error) error {
	first := false
	p.once.Do(func() { first = true })
	if first {
		close(p.entered)
		<-p.release
	}
	return p.store.Run(ctx, fn)
}

func TestClearLedger_NoAdelantaAEscaneoEnCurso(t *testing.T) {
	store := memory.NewLedgerStore()
	tx := &pausedTx{store: store, entered: make(chan struct{}), release: make(chan struct{})}
	f := newFixture(t, tx)
	f.store = store

	_, err := f.guard.Switch(entity.OperationAdd, t0)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := f.submit(t, "A1")
		assert.NoError(t, err)
	}()
	<-tx.entered

	go func() {
		defer wg.Done()
		_, err := f.ledger.ClearLedger(context.Background(), true)
		assert.NoError(t, err)
	}()

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, f.bus.ofType(event.TypeLedgerCleared), "el borrado espera al escaneo en curso")

	close(tx.release)
	wg.Wait()

	require.Len(t, f.bus.events, 2)
	assert.Equal(t, event.TypeEntryUpdated, f.bus.events[0].Type)
	assert.Equal(t, event.TypeLedgerCleared, f.bus.events[1].Type)
	assert.Equal(t, event.ClearedPayload{DeletedCount: 1}, f.bus.events[1].Data)
	assert.Equal(t, 0, f.size(t))
}

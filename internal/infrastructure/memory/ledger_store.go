// Package memory implementa el libro en memoria del proceso (desarrollo y tests).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Inventario-scanner/internal/application/ledger"
	"github.com/jhoicas/Inventario-scanner/internal/domain/entity"
	"github.com/jhoicas/Inventario-scanner/internal/domain/repository"
)

var (
	_ repository.LedgerRepository = (*LedgerStore)(nil)
	_ ledger.TxRunner             = (*LedgerStore)(nil)
)

// state datos del libro; sus métodos asumen el mutex tomado.
type state struct {
	entries map[string]*entity.LedgerEntry
	order   []string
}

func (s *state) snapshot() state {
	c := state{entries: make(map[string]*entity.LedgerEntry, len(s.entries)), order: append([]string(nil), s.order...)}
	for k, v := range s.entries {
		c.entries[k] = v.Clone()
	}
	return c
}

func (s *state) get(barcode string) *entity.LedgerEntry {
	return s.entries[barcode].Clone()
}

func (s *state) upsert(e *entity.LedgerEntry) {
	if _, ok := s.entries[e.Barcode]; !ok {
		s.order = append(s.order, e.Barcode)
	}
	s.entries[e.Barcode] = e.Clone()
}

func (s *state) list() []*entity.LedgerEntry {
	out := make([]*entity.LedgerEntry, 0, len(s.order))
	for _, b := range s.order {
		out = append(out, s.entries[b].Clone())
	}
	return out
}

func (s *state) deleteAll() int {
	n := len(s.order)
	s.entries = make(map[string]*entity.LedgerEntry)
	s.order = nil
	return n
}

// LedgerStore libro en memoria, seguro para uso concurrente. Run serializa las
// transacciones y restaura la copia previa si fn falla.
type LedgerStore struct {
	mu sync.Mutex
	st state
}

// NewLedgerStore crea un libro vacío.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{st: state{entries: make(map[string]*entity.LedgerEntry)}}
}

// Run ejecuta fn con un repositorio atado a la transacción.
func (s *LedgerStore) Run(ctx context.Context, fn func(repo repository.LedgerRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.st.snapshot()
	if err := fn(&txRepo{st: &s.st}); err != nil {
		s.st = backup
		return err
	}
	return nil
}

// GetForUpdate en memoria equivale a Get; el bloqueo lo da Run.
func (s *LedgerStore) GetForUpdate(ctx context.Context, barcode string) (*entity.LedgerEntry, error) {
	return s.Get(ctx, barcode)
}

// Get obtiene una entrada por código.
func (s *LedgerStore) Get(_ context.Context, barcode string) (*entity.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.get(barcode), nil
}

// Upsert inserta o reemplaza la entrada.
func (s *LedgerStore) Upsert(_ context.Context, e *entity.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.upsert(e)
	return nil
}

// InsertIfAbsent inserta solo si el código no existe.
func (s *LedgerStore) InsertIfAbsent(_ context.Context, e *entity.LedgerEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.entries[e.Barcode]; ok {
		return false, nil
	}
	s.st.upsert(e)
	return true, nil
}

// List devuelve las entradas en orden de inserción.
func (s *LedgerStore) List(_ context.Context) ([]*entity.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.list(), nil
}

// Count cantidad de entradas.
func (s *LedgerStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.order), nil
}

// DeleteAll borra todo y devuelve cuántas entradas había.
func (s *LedgerStore) DeleteAll(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.deleteAll(), nil
}

// txRepo repositorio usado dentro de Run (el mutex ya está tomado).
type txRepo struct {
	st *state
}

func (r *txRepo) GetForUpdate(_ context.Context, barcode string) (*entity.LedgerEntry, error) {
	return r.st.get(barcode), nil
}

func (r *txRepo) Get(_ context.Context, barcode string) (*entity.LedgerEntry, error) {
	return r.st.get(barcode), nil
}

func (r *txRepo) Upsert(_ context.Context, e *entity.LedgerEntry) error {
	r.st.upsert(e)
	return nil
}

func (r *txRepo) InsertIfAbsent(_ context.Context, e *entity.LedgerEntry) (bool, error) {
	if _, ok := r.st.entries[e.Barcode]; ok {
		return false, nil
	}
	r.st.upsert(e)
	return true, nil
}

func (r *txRepo) List(_ context.Context) ([]*entity.LedgerEntry, error) {
	return r.st.list(), nil
}

func (r *txRepo) Count(_ context.Context) (int, error) {
	return len(r.st.order), nil
}

func (r *txRepo) DeleteAll(_ context.Context) (int, error) {
	return r.st.deleteAll(), nil
}

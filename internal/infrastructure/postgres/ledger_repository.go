package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-scanner/internal/domain/entity"
	"github.com/jhoicas/Inventario-scanner/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const ledgerColumns = `barcode, total_count, last_updated, description`

// LedgerRepo implementación de LedgerRepository sobre PostgreSQL (usable con pool o tx).
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Get obtiene una entrada por código; (nil, nil) si no existe.
func (r *LedgerRepo) Get(ctx context.Context, barcode string) (*entity.LedgerEntry, error) {
	e, err := r.getOne(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE barcode = $1`, barcode)
	if err != nil {
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return e, nil
}

// GetForUpdate obtiene la entrada y bloquea la fila (SELECT FOR UPDATE).
func (r *LedgerRepo) GetForUpdate(ctx context.Context, barcode string) (*entity.LedgerEntry, error) {
	e, err := r.getOne(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE barcode = $1 FOR UPDATE`, barcode)
	if err != nil {
		return nil, fmt.Errorf("get ledger entry for update: %w", err)
	}
	return e, nil
}

func (r *LedgerRepo) getOne(ctx context.Context, query, barcode string) (*entity.LedgerEntry, error) {
	var e entity.LedgerEntry
	err := r.q.QueryRow(ctx, query, barcode).Scan(&e.Barcode, &e.TotalCount, &e.LastUpdated, &e.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// Upsert inserta o actualiza por código. Una descripción existente nunca se borra.
func (r *LedgerRepo) Upsert(ctx context.Context, e *entity.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (barcode, total_count, last_updated, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (barcode)
		DO UPDATE SET total_count = EXCLUDED.total_count,
		              last_updated = EXCLUDED.last_updated,
		              description = COALESCE(EXCLUDED.description, ledger_entries.description)`
	if _, err := r.q.Exec(ctx, query, e.Barcode, e.TotalCount, e.LastUpdated, e.Description); err != nil {
		return fmt.Errorf("upsert ledger entry: %w", err)
	}
	return nil
}

// InsertIfAbsent inserta solo si el código no existe.
func (r *LedgerRepo) InsertIfAbsent(ctx context.Context, e *entity.LedgerEntry) (bool, error) {
	query := `
		INSERT INTO ledger_entries (barcode, total_count, last_updated, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (barcode) DO NOTHING`
	tag, err := r.q.Exec(ctx, query, e.Barcode, e.TotalCount, e.LastUpdated, e.Description)
	if err != nil {
		return false, fmt.Errorf("insert ledger entry: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// List devuelve todas las entradas en orden de inserción.
func (r *LedgerRepo) List(ctx context.Context) ([]*entity.LedgerEntry, error) {
	rows, err := r.q.Query(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var list []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(&e.Barcode, &e.TotalCount, &e.LastUpdated, &e.Description); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		list = append(list, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	return list, nil
}

// Count cantidad de entradas.
func (r *LedgerRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM ledger_entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count ledger entries: %w", err)
	}
	return n, nil
}

// DeleteAll borra todas las entradas y devuelve cuántas eran.
func (r *LedgerRepo) DeleteAll(ctx context.Context) (int, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM ledger_entries`)
	if err != nil {
		return 0, fmt.Errorf("delete ledger entries: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

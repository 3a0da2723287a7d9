// Package bootstrap arma las piezas de infraestructura compartidas por la API y ledgerctl.
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-scanner/internal/application/ledger"
	"github.com/jhoicas/Inventario-scanner/internal/domain/repository"
	"github.com/jhoicas/Inventario-scanner/internal/infrastructure/descriptions"
	"github.com/jhoicas/Inventario-scanner/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-scanner/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-scanner/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/Inventario-scanner/pkg/config"
)

// Store libro seleccionado por STORAGE_DRIVER.
type Store struct {
	Repo  repository.LedgerRepository
	Tx    ledger.TxRunner
	close func()
}

// Close libera el pool (no-op en memoria).
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStore abre el libro configurado y, en PostgreSQL, aplica las migraciones si DB_AUTO_MIGRATE.
func OpenStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	switch cfg.Storage.Driver {
	case "memory":
		log.Warn().Msg("libro en memoria: los datos se pierden al reiniciar")
		m := memory.NewLedgerStore()
		return &Store{Repo: m, Tx: m}, nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migraciones: %w", err)
			}
			log.Info().Msg("migraciones aplicadas")
		}
		return &Store{
			Repo:  postgres.NewLedgerRepository(pool),
			Tx:    postgres.NewTxRunner(pool),
			close: pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("STORAGE_DRIVER desconocido: %q", cfg.Storage.Driver)
}

// LoadDescriptions carga el catálogo desde Redis o desde archivo. Sin origen configurado
// devuelve un catálogo vacío.
func LoadDescriptions(ctx context.Context, cfg config.DescriptionsConfig, log zerolog.Logger) (descriptions.Catalog, error) {
	switch {
	case cfg.RedisURL != "":
		client, err := descriptions.Connect(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		defer client.Close()
		cat, err := descriptions.LoadRedis(ctx, client, cfg.RedisKey)
		if err != nil {
			return nil, err
		}
		log.Info().Str("source", "redis").Str("key", cfg.RedisKey).Int("items", len(cat)).Msg("catálogo de descripciones cargado")
		return cat, nil
	case cfg.Path != "":
		cat, err := descriptions.LoadFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		log.Info().Str("source", cfg.Path).Int("items", len(cat)).Msg("catálogo de descripciones cargado")
		return cat, nil
	}
	return descriptions.NewCatalog(nil), nil
}

// ImportLegacyFile lee la planilla histórica y la migra al libro.
func ImportLegacyFile(ctx context.Context, path string, uc *ledger.ImportUseCase) (ledger.ImportReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return ledger.ImportReport{}, err
	}
	defer f.Close()
	rows, err := spreadsheet.ReadLegacy(f)
	if err != nil {
		return ledger.ImportReport{}, err
	}
	return uc.ImportLegacy(ctx, rows)
}

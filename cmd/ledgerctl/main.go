// ledgerctl tareas administrativas del libro de inventario: migrar la planilla histórica,
// exportar, borrar y emitir tokens de supervisor.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Inventario-scanner/internal/application/ledger"
	"github.com/jhoicas/Inventario-scanner/internal/bootstrap"
	infrapdf "github.com/jhoicas/Inventario-scanner/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-scanner/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/Inventario-scanner/pkg/config"
	"github.com/jhoicas/Inventario-scanner/pkg/jwt"
	"github.com/jhoicas/Inventario-scanner/pkg/logger"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// env dependencias resueltas a partir de la configuración.
type env struct {
	cfg    *config.Config
	log    *logger.Logger
	store  *bootstrap.Store
	ledger *ledger.LedgerUseCase
	export *ledger.ExportUseCase
	imp    *ledger.ImportUseCase
}

func (e *env) close() {
	if e.store != nil {
		e.store.Close()
	}
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: os.Stderr})

	store, err := bootstrap.OpenStore(ctx, cfg, log.Component("storage"))
	if err != nil {
		return nil, err
	}
	catalog, err := bootstrap.LoadDescriptions(ctx, cfg.Descriptions, log.Component("descriptions"))
	if err != nil {
		store.Close()
		return nil, err
	}

	// Sin hub: los visores conectados verán los cambios al recargar.
	processor := ledger.NewProcessor(store.Tx, catalog, nil, log.Component("processor"))
	ledgerUC := ledger.NewLedgerUseCase(store.Repo, store.Tx, processor, nil, nil, log.Component("ledger"))
	return &env{
		cfg:    cfg,
		log:    log,
		store:  store,
		ledger: ledgerUC,
		export: ledger.NewExportUseCase(ledgerUC, spreadsheet.NewXLSXWriter(), infrapdf.NewLedgerPDFWriter(cfg.App.Name), nil),
		imp:    ledger.NewImportUseCase(store.Tx, catalog, nil, log.Component("import")),
	}, nil
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "ledgerctl",
		Short:        "Administración del libro de inventario",
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.AddCommand(newImportCmd(), newExportCmd(), newClearCmd(), newTokenCmd())
	return root
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <planilla.xlsx>",
		Short: "Migra la planilla histórica (código, conteo, fecha); solo inserta códigos nuevos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			report, err := bootstrap.ImportLegacyFile(cmd.Context(), args[0], e.imp)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "importados: %d, existentes: %d, omitidos: %d\n",
				report.Imported, report.Existing, report.Skipped)
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	var format, dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Genera una instantánea del libro (xlsx o pdf)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			var (
				data []byte
				name string
			)
			switch format {
			case "xlsx":
				data, name, err = e.export.ExportSnapshot(cmd.Context())
			case "pdf":
				data, name, err = e.export.ExportPDF(cmd.Context())
			default:
				return fmt.Errorf("formato no soportado: %q (xlsx|pdf)", format)
			}
			if err != nil {
				return err
			}
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "xlsx", "Formato: xlsx o pdf")
	cmd.Flags().StringVar(&dir, "dir", ".", "Directorio de salida")
	return cmd
}

func newClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Borra todas las entradas del libro",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("se requiere confirmación: use --yes")
			}
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			n, err := e.ledger.ClearLedger(cmd.Context(), true)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "entradas eliminadas: %d\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirma el borrado")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var operator, role string
	var expMinutes int
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un token JWT para correcciones manuales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return errors.New("JWT_SECRET no configurado")
			}
			switch role {
			case jwt.RoleOperator, jwt.RoleSupervisor, jwt.RoleAdmin:
			default:
				return fmt.Errorf("rol desconocido: %q", role)
			}
			if expMinutes <= 0 {
				expMinutes = cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, operator, role, cfg.JWT.Issuer, expMinutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&operator, "operator", "supervisor", "Nombre del operador")
	cmd.Flags().StringVar(&role, "role", jwt.RoleSupervisor, "Rol: operator, supervisor o admin")
	cmd.Flags().IntVar(&expMinutes, "exp", 0, "Minutos de validez (0 = JWT_EXPIRATION_MINUTES)")
	return cmd
}

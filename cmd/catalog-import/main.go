// Command catalog-import loads an equipment spreadsheet into the database
// catalog without going through the HTTP API.
//
//	catalog-import pumps.xlsx --kind heat_pump
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"Caldera/internal/catalog"
	"Caldera/internal/catalog/importer"
	"Caldera/internal/config"
	"Caldera/internal/logger"
	"Caldera/internal/repo"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	kind   string
	dryRun bool
}

func rootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "catalog-import [xlsx-file]",
		Short:        "Replace the stored heat pump or inverter catalog with a spreadsheet",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], opts, cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&opts.kind, "kind", "k", string(catalog.KindHeatPump), "heat_pump or inverter")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "parse and report without writing")
	return cmd
}

func run(ctx context.Context, path string, opts options, logOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	k := catalog.Kind(opts.kind)
	if k != catalog.KindHeatPump && k != catalog.KindInverter {
		return fmt.Errorf("unknown kind %q", opts.kind)
	}
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	log := logger.NewWriter(env, logOut)

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	records, summary, err := importer.Load(f, k)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	for _, rej := range summary.Rejected {
		log.Info("rejected row", "index", rej.Index, "id", rej.ID, "reason", rej.Reason)
	}
	if opts.dryRun {
		log.Info("dry run", "kind", opts.kind, "imported", summary.Imported, "rejected", len(summary.Rejected))
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := repo.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer db.Close()
	if err := repo.EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	if err := repo.NewPostgresCatalog(db).ReplaceCatalog(ctx, k, records); err != nil {
		log.DatabaseError("replace catalog", err)
		return err
	}
	log.Info("catalog imported", "kind", opts.kind, "imported", summary.Imported, "rejected", len(summary.Rejected))
	return nil
}

// Command hearthctl administers a Hearthmarket deployment: database
// migrations, fixture seeding and catalog checks.
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/osse101/Hearthmarket_Go/internal/bootstrap"
	"github.com/osse101/Hearthmarket_Go/internal/config"
	"github.com/osse101/Hearthmarket_Go/internal/database"
)

const commandTimeout = 2 * time.Minute

func main() {
	root := &cobra.Command{
		Use:          "hearthctl",
		Short:        "Hearthmarket admin CLI",
		SilenceUsage: true,
	}

	root.AddCommand(
		newMigrateCmd(),
		newSeedCmd(),
		newCatalogCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadTooling()
	if err != nil {
		return nil, err
	}
	if _, err := bootstrap.SetupLogger(&config.Config{
		LogLevel:    "warn",
		LogFormat:   cfg.LogFormat,
		ServiceName: cfg.ServiceName + "-ctl",
		Version:     cfg.Version,
		Environment: cfg.Environment,
	}); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newMigrateCmd() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
	}
	migrate.AddCommand(newMigrateUpCmd(), newMigrateStatusCmd())
	return migrate
}

func newMigrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			pool, err := database.NewPoolWithContext(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := database.Migrate(ctx, pool); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Database is up to date.")
			return nil
		},
	}
}

func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List migrations and whether each has been applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			pool, err := database.NewPoolWithContext(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := database.MigrationStatuses(ctx, pool)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printHeader(out, "Migrations")
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "VERSION\tSTATUS\tFILE")
			for _, s := range statuses {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", s.Version, statusLabel(s.Applied), s.Path)
			}
			return tw.Flush()
		},
	}
}

func newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert users and shops from a JSON fixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.StorageDriver != config.StorageDriverPostgres {
				return fmt.Errorf("seed writes to postgres; STORAGE_DRIVER is %q", cfg.StorageDriver)
			}

			fixture, err := bootstrap.LoadSeedFixture(file)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			repos, err := bootstrap.InitializeRepositories(ctx, cfg)
			if err != nil {
				return err
			}
			defer repos.Close()

			res, err := bootstrap.ApplySeed(ctx, repos.Seeder, fixture)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Seeded %d users and %d shops.", res.Users, res.Shops))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "configs/seed.example.json", "seed fixture to load")
	return cmd
}

func newCatalogCmd() *cobra.Command {
	catalog := &cobra.Command{
		Use:     "catalog",
		Short:   "Catalog commands",
		Aliases: []string{"catalogs"},
	}
	catalog.AddCommand(newCatalogCheckCmd())
	return catalog
}

func newCatalogCheckCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load and validate the recipe, restock and exchange rate catalogs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return checkCatalogs(cmd, cfg, strict)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when two recipes share an ingredient multiset")
	return cmd
}

func checkCatalogs(cmd *cobra.Command, cfg *config.Config, strict bool) error {
	catalogs, err := bootstrap.LoadCatalogs(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printHeader(out, "Catalogs")
	printInfo(out, "recipes:        %d (%s)", len(catalogs.Recipes.Recipes), cfg.RecipesPath)
	printInfo(out, "potions:        %d", len(catalogs.Recipes.Potions))
	printInfo(out, "restock shops:  %d (%s)", len(catalogs.Restock.Shops), cfg.ShopsPath)
	printInfo(out, "denominations:  %d (%s)", len(catalogs.Rates), cfg.ExchangeRatesPath)

	dups := catalogs.Recipes.DuplicateMultisets()
	for _, d := range dups {
		printWarn(out, fmt.Sprintf("recipes %s and %s use the same ingredients; %s always wins", d.FirstID, d.SecondID, d.FirstID))
	}
	if len(dups) > 0 && strict {
		return fmt.Errorf("%d duplicate recipe multisets", len(dups))
	}

	printSuccess(out, "Catalogs OK.")
	return nil
}
